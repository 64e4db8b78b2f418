package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/montanus-wecib/mps-backend/internal/logger"
	"github.com/montanus-wecib/mps-backend/internal/types"
)

type ClassroomRepo interface {
	Create(ctx context.Context, tx *gorm.DB, classrooms []*types.Classroom) ([]*types.Classroom, error)
	GetByCodes(ctx context.Context, tx *gorm.DB, codes []string) ([]*types.Classroom, error)
	GetByAdminIDs(ctx context.Context, tx *gorm.DB, adminIDs []uuid.UUID) ([]*types.Classroom, error)
}

type classroomRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClassroomRepo(db *gorm.DB, baseLog *logger.Logger) ClassroomRepo {
	repoLog := baseLog.With("repo", "ClassroomRepo")
	return &classroomRepo{db: db, log: repoLog}
}

func (r *classroomRepo) Create(ctx context.Context, tx *gorm.DB, classrooms []*types.Classroom) ([]*types.Classroom, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(classrooms) == 0 {
		return []*types.Classroom{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&classrooms).Error; err != nil {
		return nil, err
	}
	return classrooms, nil
}

func (r *classroomRepo) GetByCodes(ctx context.Context, tx *gorm.DB, codes []string) ([]*types.Classroom, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Classroom
	if len(codes) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("code IN ?", codes).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *classroomRepo) GetByAdminIDs(ctx context.Context, tx *gorm.DB, adminIDs []uuid.UUID) ([]*types.Classroom, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Classroom
	if len(adminIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("admin_id IN ?", adminIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
