package repository

import (
	"github.com/google/uuid"
	"github.com/tnqbao/gau-upload-service/entity"
	"gorm.io/gorm"
)

// UploadRecordRepository is the append-only upload ledger.
type UploadRecordRepository interface {
	Create(record *entity.UploadRecord) error
	FindByUserID(userID uuid.UUID) ([]entity.UploadRecord, error)
}

type uploadRecordRepository struct {
	db *gorm.DB
}

func NewUploadRecordRepository(db *gorm.DB) UploadRecordRepository {
	return &uploadRecordRepository{db: db}
}

func (r *uploadRecordRepository) Create(record *entity.UploadRecord) error {
	return r.db.Create(record).Error
}

// FindByUserID returns the user's own records, newest first. The full set is
// returned; the listing has no pagination.
func (r *uploadRecordRepository) FindByUserID(userID uuid.UUID) ([]entity.UploadRecord, error) {
	var records []entity.UploadRecord
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&records).Error
	return records, err
}
