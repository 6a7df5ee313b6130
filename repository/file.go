package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-wiki-gateway/entity"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

// Create inserts a file record. A second record for the same hash fails with ErrDuplicate.
func (r *FileRepository) Create(ctx context.Context, file *entity.File) error {
	if file.ID == uuid.Nil {
		file.ID = uuid.New()
	}
	return translate(r.db.WithContext(ctx).Create(file).Error)
}

func (r *FileRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.File, error) {
	var file entity.File
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&file).Error
	if err != nil {
		return nil, translate(err)
	}
	return &file, nil
}

func (r *FileRepository) FindByHash(ctx context.Context, hash string) (*entity.File, error) {
	var file entity.File
	err := r.db.WithContext(ctx).Where("file_hash = ?", hash).First(&file).Error
	if err != nil {
		return nil, translate(err)
	}
	return &file, nil
}

func (r *FileRepository) FindOneByHashAndStatus(ctx context.Context, hash string, status entity.FileStatus) (*entity.File, error) {
	var file entity.File
	err := r.db.WithContext(ctx).
		Where("file_hash = ? AND status = ?", hash, status).
		First(&file).Error
	if err != nil {
		return nil, translate(err)
	}
	return &file, nil
}

// FindByIDs loads every existing record among ids in one query. Order is not preserved.
func (r *FileRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.File, error) {
	var files []entity.File
	if len(ids) == 0 {
		return files, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}
	err := r.db.WithContext(ctx).Where("id IN ?", keys).Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (r *FileRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.FileStatus) error {
	result := r.db.WithContext(ctx).Model(&entity.File{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *FileRepository) UpdateParseResult(ctx context.Context, id uuid.UUID, status entity.ParseStatus, result datatypes.JSON, parseErr string) error {
	updates := map[string]interface{}{
		"parse_status": status,
		"parse_error":  parseErr,
	}
	if len(result) > 0 {
		updates["parse_result"] = result
	}

	res := r.db.WithContext(ctx).Model(&entity.File{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
