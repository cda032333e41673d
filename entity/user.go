package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the authenticated principal uploads are performed for. Accounts are
// provisioned by the account service; this service only reads them.
type User struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Username   string    `json:"username" gorm:"type:varchar(150);not null;uniqueIndex"`
	Phone      string    `json:"phone" gorm:"type:varchar(20)"`
	Department string    `json:"department" gorm:"type:varchar(100)"`
	IsStaff    bool      `json:"is_staff" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at" gorm:"not null;autoCreateTime"`
}
