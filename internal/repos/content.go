package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/montanus-wecib/mps-backend/internal/logger"
	"github.com/montanus-wecib/mps-backend/internal/types"
)

type ContentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, contents []*types.Content) ([]*types.Content, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, contentIDs []uuid.UUID) ([]*types.Content, error)
	GetByKeys(ctx context.Context, tx *gorm.DB, contentKeys []string) ([]*types.Content, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Content, error)
}

type contentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentRepo(db *gorm.DB, baseLog *logger.Logger) ContentRepo {
	repoLog := baseLog.With("repo", "ContentRepo")
	return &contentRepo{db: db, log: repoLog}
}

func (r *contentRepo) Create(ctx context.Context, tx *gorm.DB, contents []*types.Content) ([]*types.Content, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(contents) == 0 {
		return []*types.Content{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&contents).Error; err != nil {
		return nil, err
	}
	return contents, nil
}

func (r *contentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, contentIDs []uuid.UUID) ([]*types.Content, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Content
	if len(contentIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", contentIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *contentRepo) GetByKeys(ctx context.Context, tx *gorm.DB, contentKeys []string) ([]*types.Content, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Content
	if len(contentKeys) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("content_key IN ?", contentKeys).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *contentRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Content, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Content
	if err := transaction.WithContext(ctx).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
