package repository

import (
	"github.com/tnqbao/gau-upload-service/entity"
	"gorm.io/gorm"
)

// UploadEventRepository stores the consumer-side audit trail.
type UploadEventRepository interface {
	Create(event *entity.UploadEvent) error
}

type uploadEventRepository struct {
	db *gorm.DB
}

func NewUploadEventRepository(db *gorm.DB) UploadEventRepository {
	return &uploadEventRepository{db: db}
}

func (r *uploadEventRepository) Create(event *entity.UploadEvent) error {
	return r.db.Create(event).Error
}
