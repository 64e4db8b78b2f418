package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/montanus-wecib/mps-backend/internal/logger"
	"github.com/montanus-wecib/mps-backend/internal/types"
)

type ClassroomContentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, links []*types.ClassroomContent) ([]*types.ClassroomContent, error)
	GetByClassroomIDs(ctx context.Context, tx *gorm.DB, classroomIDs []uuid.UUID) ([]*types.ClassroomContent, error)
	DeleteByClassroomAndContents(ctx context.Context, tx *gorm.DB, classroomID uuid.UUID, contentIDs []uuid.UUID) error
}

type classroomContentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClassroomContentRepo(db *gorm.DB, baseLog *logger.Logger) ClassroomContentRepo {
	repoLog := baseLog.With("repo", "ClassroomContentRepo")
	return &classroomContentRepo{db: db, log: repoLog}
}

func (r *classroomContentRepo) Create(ctx context.Context, tx *gorm.DB, links []*types.ClassroomContent) ([]*types.ClassroomContent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(links) == 0 {
		return []*types.ClassroomContent{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (r *classroomContentRepo) GetByClassroomIDs(ctx context.Context, tx *gorm.DB, classroomIDs []uuid.UUID) ([]*types.ClassroomContent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ClassroomContent
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

func (r *classroomContentRepo) DeleteByClassroomAndContents(ctx context.Context, tx *gorm.DB, classroomID uuid.UUID, contentIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(contentIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("classroom_id = ? AND content_id IN ?", classroomID, contentIDs).
		Delete(&types.ClassroomContent{}).Error; err != nil {
		return err
	}
	return nil
}
