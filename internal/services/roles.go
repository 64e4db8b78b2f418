package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/montanus-wecib/mps-backend/internal/apierr"
	"github.com/montanus-wecib/mps-backend/internal/repos"
	"github.com/montanus-wecib/mps-backend/internal/requestdata"
	"github.com/montanus-wecib/mps-backend/internal/types"
)

// requireAdmin resolves the caller from the request context and checks
// the role table. Plain learner accounts have no role row and are
// rejected.
func requireAdmin(ctx context.Context, tx *gorm.DB, adminRepo repos.AdminRepo) (*types.Admin, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Forbidden("caller identity not set")
	}
	admins, err := adminRepo.GetByIDs(ctx, tx, []uuid.UUID{rd.UserID})
	if err != nil {
		return nil, fmt.Errorf("fetching caller role: %w", err)
	}
	if len(admins) == 0 {
		return nil, apierr.Forbidden("administrator role required")
	}
	return admins[0], nil
}
