package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/montanus-wecib/mps-backend/internal/logger"
	"github.com/montanus-wecib/mps-backend/internal/types"
)

type ClassroomUserRepo interface {
	Create(ctx context.Context, tx *gorm.DB, links []*types.ClassroomUser) ([]*types.ClassroomUser, error)
	GetByClassroomIDs(ctx context.Context, tx *gorm.DB, classroomIDs []uuid.UUID) ([]*types.ClassroomUser, error)
	GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.ClassroomUser, error)
	DeleteByClassroomAndUsers(ctx context.Context, tx *gorm.DB, classroomID uuid.UUID, userIDs []uuid.UUID) error
}

type classroomUserRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClassroomUserRepo(db *gorm.DB, baseLog *logger.Logger) ClassroomUserRepo {
	repoLog := baseLog.With("repo", "ClassroomUserRepo")
	return &classroomUserRepo{db: db, log: repoLog}
}

func (r *classroomUserRepo) Create(ctx context.Context, tx *gorm.DB, links []*types.ClassroomUser) ([]*types.ClassroomUser, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(links) == 0 {
		return []*types.ClassroomUser{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (r *classroomUserRepo) GetByClassroomIDs(ctx context.Context, tx *gorm.DB, classroomIDs []uuid.UUID) ([]*types.ClassroomUser, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ClassroomUser
	if len(classroomIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("classroom_id IN ?", classroomIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *classroomUserRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.ClassroomUser, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ClassroomUser
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

func (r *classroomUserRepo) DeleteByClassroomAndUsers(ctx context.Context, tx *gorm.DB, classroomID uuid.UUID, userIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(userIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("classroom_id = ? AND user_id IN ?", classroomID, userIDs).
		Delete(&types.ClassroomUser{}).Error; err != nil {
		return err
	}
	return nil
}
