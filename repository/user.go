package repository

import (
	"github.com/google/uuid"
	"github.com/tnqbao/gau-upload-service/entity"
	"gorm.io/gorm"
)

// UserRepository resolves identities for the auth middlewares.
type UserRepository interface {
	FindByID(id uuid.UUID) (*entity.User, error)
	FindByUsername(username string) (*entity.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(id uuid.UUID) (*entity.User, error) {
	var user entity.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(username string) (*entity.User, error) {
	var user entity.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
