package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UploadEvent is the audit trail of upload.completed messages as seen by the
// consumer. Payload keeps the full message so later tooling can replay it.
type UploadEvent struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index"`
	Source     string         `json:"source" gorm:"type:varchar(32);not null"`
	Payload    datatypes.JSON `json:"payload" gorm:"type:jsonb;not null"`
	ReceivedAt time.Time      `json:"received_at" gorm:"not null;autoCreateTime"`
}
