package repository

import (
	"errors"
	"strings"

	"github.com/tnqbao/gau-wiki-gateway/infra"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type Repository struct {
	FileRepo          *FileRepository
	UploadSessionRepo *UploadSessionRepository
}

func InitRepository(infra *infra.Infra) *Repository {
	return &Repository{
		FileRepo:          NewFileRepository(infra.Postgres.DB),
		UploadSessionRepo: NewUploadSessionRepository(infra.Redis),
	}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(err.Error(), "UNIQUE constraint failed"),
		strings.Contains(err.Error(), "duplicate key value"):
		return ErrDuplicate
	default:
		return err
	}
}
