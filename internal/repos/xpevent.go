package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/montanus-wecib/mps-backend/internal/logger"
	"github.com/montanus-wecib/mps-backend/internal/types"
)

type XPEventRepo interface {
	Create(ctx context.Context, tx *gorm.DB, events []*types.XPEvent) ([]*types.XPEvent, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.XPEvent, error)
	GetByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.XPEvent, error)
}

type xpEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewXPEventRepo(db *gorm.DB, baseLog *logger.Logger) XPEventRepo {
	repoLog := baseLog.With("repo", "XPEventRepo")
	return &xpEventRepo{db: db, log: repoLog}
}

func (r *xpEventRepo) Create(ctx context.Context, tx *gorm.DB, events []*types.XPEvent) ([]*types.XPEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(events) == 0 {
		return []*types.XPEvent{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *xpEventRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.XPEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.XPEvent
	if userID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetByUserSince returns the events strictly newer than the watermark, in
// timestamp order.
func (r *xpEventRepo) GetByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.XPEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.XPEvent
	if userID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND timestamp > ?", userID, since).
		Order("timestamp").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
