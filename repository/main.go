package repository

import (
	"github.com/tnqbao/gau-upload-service/infra"
)

type Repository struct {
	UserRepo         UserRepository
	UploadRecordRepo UploadRecordRepository
	UploadEventRepo  UploadEventRepository
}

var repository *Repository

func InitRepository(infra *infra.Infra) *Repository {
	repository = &Repository{
		UserRepo:         NewUserRepository(infra.Postgres.DB),
		UploadRecordRepo: NewUploadRecordRepository(infra.Postgres.DB),
		UploadEventRepo:  NewUploadEventRepository(infra.Postgres.DB),
	}
	return repository
}

func GetRepository() *Repository {
	if repository == nil {
		panic("repository not initialized")
	}
	return repository
}
