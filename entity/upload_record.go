package entity

import (
	"time"

	"github.com/google/uuid"
)

// UploadRecord is one row of the upload ledger. Rows are written exactly once,
// on successful merge or single-shot upload, and never updated.
type UploadRecord struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Brand     string    `json:"brand" gorm:"type:varchar(50);not null"`
	Model     string    `json:"model" gorm:"type:varchar(100);not null"`
	Title     string    `json:"title" gorm:"type:varchar(200);not null"`
	Filename  string    `json:"filename" gorm:"type:varchar(255);not null"`
	FilePath  string    `json:"file_path" gorm:"type:varchar(500);not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;autoCreateTime;index"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
