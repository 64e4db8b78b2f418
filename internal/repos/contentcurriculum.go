package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/montanus-wecib/mps-backend/internal/logger"
	"github.com/montanus-wecib/mps-backend/internal/types"
)

type ContentCurriculumRepo interface {
	Create(ctx context.Context, tx *gorm.DB, links []*types.ContentCurriculum) ([]*types.ContentCurriculum, error)
	GetByContentIDs(ctx context.Context, tx *gorm.DB, contentIDs []uuid.UUID) ([]*types.ContentCurriculum, error)
	GetByCurriculumIDs(ctx context.Context, tx *gorm.DB, curriculumIDs []uuid.UUID) ([]*types.ContentCurriculum, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.ContentCurriculum, error)
	UpdateOrdinal(ctx context.Context, tx *gorm.DB, linkID uuid.UUID, ordinal int) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type contentCurriculumRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentCurriculumRepo(db *gorm.DB, baseLog *logger.Logger) ContentCurriculumRepo {
	repoLog := baseLog.With("repo", "ContentCurriculumRepo")
	return &contentCurriculumRepo{db: db, log: repoLog}
}

func (r *contentCurriculumRepo) Create(ctx context.Context, tx *gorm.DB, links []*types.ContentCurriculum) ([]*types.ContentCurriculum, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(links) == 0 {
		return []*types.ContentCurriculum{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// GetByContentIDs returns pairings in stored ordinal order so curriculum
// lists are stable across calls.
func (r *contentCurriculumRepo) GetByContentIDs(ctx context.Context, tx *gorm.DB, contentIDs []uuid.UUID) ([]*types.ContentCurriculum, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ContentCurriculum
	if len(contentIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("content_id IN ?", contentIDs).
		Order("ordinal").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *contentCurriculumRepo) GetByCurriculumIDs(ctx context.Context, tx *gorm.DB, curriculumIDs []uuid.UUID) ([]*types.ContentCurriculum, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ContentCurriculum
	if len(curriculumIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("curriculum_id IN ?", curriculumIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *contentCurriculumRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.ContentCurriculum, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ContentCurriculum
	if err := transaction.WithContext(ctx).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *contentCurriculumRepo) UpdateOrdinal(ctx context.Context, tx *gorm.DB, linkID uuid.UUID, ordinal int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&types.ContentCurriculum{}).
		Where("id = ?", linkID).
		Update("ordinal", ordinal).Error; err != nil {
		return err
	}
	return nil
}

func (r *contentCurriculumRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.ContentCurriculum{}).Error; err != nil {
		return err
	}
	return nil
}
