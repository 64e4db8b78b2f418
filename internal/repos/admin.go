package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/montanus-wecib/mps-backend/internal/logger"
	"github.com/montanus-wecib/mps-backend/internal/types"
)

type AdminRepo interface {
	Create(ctx context.Context, tx *gorm.DB, admins []*types.Admin) ([]*types.Admin, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, adminIDs []uuid.UUID) ([]*types.Admin, error)
	GetByRole(ctx context.Context, tx *gorm.DB, role string) ([]*types.Admin, error)
}

type adminRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAdminRepo(db *gorm.DB, baseLog *logger.Logger) AdminRepo {
	repoLog := baseLog.With("repo", "AdminRepo")
	return &adminRepo{db: db, log: repoLog}
}

func (r *adminRepo) Create(ctx context.Context, tx *gorm.DB, admins []*types.Admin) ([]*types.Admin, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(admins) == 0 {
		return []*types.Admin{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}

// GetByIDs fetches role rows keyed by the shared user id. A missing row
// means the account is a plain learner.
func (r *adminRepo) GetByIDs(ctx context.Context, tx *gorm.DB, adminIDs []uuid.UUID) ([]*types.Admin, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Admin
	if len(adminIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", adminIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *adminRepo) GetByRole(ctx context.Context, tx *gorm.DB, role string) ([]*types.Admin, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Admin
	if role == "" {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("role = ?", role).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
