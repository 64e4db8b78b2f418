package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/montanus-wecib/mps-backend/internal/logger"
	"github.com/montanus-wecib/mps-backend/internal/types"
)

type UserCurriculumRepo interface {
	Create(ctx context.Context, tx *gorm.DB, links []*types.UserCurriculum) ([]*types.UserCurriculum, error)
	GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.UserCurriculum, error)
	DeleteByUserAndCurriculums(ctx context.Context, tx *gorm.DB, userID uuid.UUID, curriculumIDs []uuid.UUID) error
}

type userCurriculumRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserCurriculumRepo(db *gorm.DB, baseLog *logger.Logger) UserCurriculumRepo {
	repoLog := baseLog.With("repo", "UserCurriculumRepo")
	return &userCurriculumRepo{db: db, log: repoLog}
}

func (r *userCurriculumRepo) Create(ctx context.Context, tx *gorm.DB, links []*types.UserCurriculum) ([]*types.UserCurriculum, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(links) == 0 {
		return []*types.UserCurriculum{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (r *userCurriculumRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.UserCurriculum, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.UserCurriculum
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

func (r *userCurriculumRepo) DeleteByUserAndCurriculums(ctx context.Context, tx *gorm.DB, userID uuid.UUID, curriculumIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(curriculumIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND curriculum_id IN ?", userID, curriculumIDs).
		Delete(&types.UserCurriculum{}).Error; err != nil {
		return err
	}
	return nil
}
