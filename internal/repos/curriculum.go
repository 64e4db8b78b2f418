package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/montanus-wecib/mps-backend/internal/logger"
	"github.com/montanus-wecib/mps-backend/internal/types"
)

type CurriculumRepo interface {
	Create(ctx context.Context, tx *gorm.DB, curriculums []*types.Curriculum) ([]*types.Curriculum, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, curriculumIDs []uuid.UUID) ([]*types.Curriculum, error)
	GetByKeys(ctx context.Context, tx *gorm.DB, curriculumKeys []string) ([]*types.Curriculum, error)
	GetByCreatorIDs(ctx context.Context, tx *gorm.DB, creatorIDs []uuid.UUID) ([]*types.Curriculum, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Curriculum, error)
}

type curriculumRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCurriculumRepo(db *gorm.DB, baseLog *logger.Logger) CurriculumRepo {
	repoLog := baseLog.With("repo", "CurriculumRepo")
	return &curriculumRepo{db: db, log: repoLog}
}

func (r *curriculumRepo) Create(ctx context.Context, tx *gorm.DB, curriculums []*types.Curriculum) ([]*types.Curriculum, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(curriculums) == 0 {
		return []*types.Curriculum{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&curriculums).Error; err != nil {
		return nil, err
	}
	return curriculums, nil
}

func (r *curriculumRepo) GetByIDs(ctx context.Context, tx *gorm.DB, curriculumIDs []uuid.UUID) ([]*types.Curriculum, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Curriculum
	if len(curriculumIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", curriculumIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *curriculumRepo) GetByKeys(ctx context.Context, tx *gorm.DB, curriculumKeys []string) ([]*types.Curriculum, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Curriculum
	if len(curriculumKeys) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("curriculum_key IN ?", curriculumKeys).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *curriculumRepo) GetByCreatorIDs(ctx context.Context, tx *gorm.DB, creatorIDs []uuid.UUID) ([]*types.Curriculum, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Curriculum
	if len(creatorIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("creator_id IN ?", creatorIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *curriculumRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Curriculum, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Curriculum
	if err := transaction.WithContext(ctx).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
