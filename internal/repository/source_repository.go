package repository

import (
	"context"

	"study_core_backend/internal/model"
	"study_core_backend/internal/util"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type SourceRepository struct {
	DB *gorm.DB
}

func NewSourceRepository(db *gorm.DB) *SourceRepository {
	return &SourceRepository{DB: db}
}

// CreateWithChunks 来源文档和全部切片在同一事务内写入
func (r *SourceRepository) CreateWithChunks(ctx context.Context, source *model.Source, chunks []model.ContentChunk) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		source.ChunkCount = len(chunks)
		if err := tx.Create(source).Error; err != nil {
			return errors.Wrap(err, "create source")
		}
		if len(chunks) == 0 {
			return nil
		}
		for i := range chunks {
			chunks[i].SourceID = source.ID
		}
		if err := tx.CreateInBatches(&chunks, 100).Error; err != nil {
			return errors.Wrap(err, "create chunks")
		}
		return nil
	})
}

func (r *SourceRepository) FindByID(ctx context.Context, id string) (*model.Source, error) {
	var s model.Source
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewNotFoundError("source", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find source %s", id)
	}
	return &s, nil
}
