package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/montanus-wecib/mps-backend/internal/logger"
	"github.com/montanus-wecib/mps-backend/internal/types"
)

type CurriculumQuestionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, links []*types.CurriculumQuestion) ([]*types.CurriculumQuestion, error)
	GetByCurriculumIDs(ctx context.Context, tx *gorm.DB, curriculumIDs []uuid.UUID) ([]*types.CurriculumQuestion, error)
	GetByQuestionIDs(ctx context.Context, tx *gorm.DB, questionIDs []uuid.UUID) ([]*types.CurriculumQuestion, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.CurriculumQuestion, error)
	UpdateOrdinal(ctx context.Context, tx *gorm.DB, linkID uuid.UUID, ordinal int) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type curriculumQuestionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCurriculumQuestionRepo(db *gorm.DB, baseLog *logger.Logger) CurriculumQuestionRepo {
	repoLog := baseLog.With("repo", "CurriculumQuestionRepo")
	return &curriculumQuestionRepo{db: db, log: repoLog}
}

func (r *curriculumQuestionRepo) Create(ctx context.Context, tx *gorm.DB, links []*types.CurriculumQuestion) ([]*types.CurriculumQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(links) == 0 {
		return []*types.CurriculumQuestion{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// GetByCurriculumIDs returns pairings in stored ordinal order so resolved
// task lists are stable across calls.
func (r *curriculumQuestionRepo) GetByCurriculumIDs(ctx context.Context, tx *gorm.DB, curriculumIDs []uuid.UUID) ([]*types.CurriculumQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.CurriculumQuestion
	if len(curriculumIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("curriculum_id IN ?", curriculumIDs).
		Order("ordinal").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *curriculumQuestionRepo) GetByQuestionIDs(ctx context.Context, tx *gorm.DB, questionIDs []uuid.UUID) ([]*types.CurriculumQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.CurriculumQuestion
	if len(questionIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("question_id IN ?", questionIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *curriculumQuestionRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.CurriculumQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.CurriculumQuestion
	if err := transaction.WithContext(ctx).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *curriculumQuestionRepo) UpdateOrdinal(ctx context.Context, tx *gorm.DB, linkID uuid.UUID, ordinal int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&types.CurriculumQuestion{}).
		Where("id = ?", linkID).
		Update("ordinal", ordinal).Error; err != nil {
		return err
	}
	return nil
}

func (r *curriculumQuestionRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.CurriculumQuestion{}).Error; err != nil {
		return err
	}
	return nil
}
