package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/montanus-wecib/mps-backend/internal/logger"
	"github.com/montanus-wecib/mps-backend/internal/types"
)

type UserContentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, links []*types.UserContent) ([]*types.UserContent, error)
	GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.UserContent, error)
	DeleteByUserAndContents(ctx context.Context, tx *gorm.DB, userID uuid.UUID, contentIDs []uuid.UUID) error
}

type userContentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserContentRepo(db *gorm.DB, baseLog *logger.Logger) UserContentRepo {
	repoLog := baseLog.With("repo", "UserContentRepo")
	return &userContentRepo{db: db, log: repoLog}
}

func (r *userContentRepo) Create(ctx context.Context, tx *gorm.DB, links []*types.UserContent) ([]*types.UserContent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(links) == 0 {
		return []*types.UserContent{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (r *userContentRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.UserContent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.UserContent
	if len(userIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *userContentRepo) DeleteByUserAndContents(ctx context.Context, tx *gorm.DB, userID uuid.UUID, contentIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(contentIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND content_id IN ?", userID, contentIDs).
		Delete(&types.UserContent{}).Error; err != nil {
		return err
	}
	return nil
}
