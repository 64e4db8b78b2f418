package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/montanus-wecib/mps-backend/internal/apierr"
	"github.com/montanus-wecib/mps-backend/internal/logger"
	"github.com/montanus-wecib/mps-backend/internal/repos"
	"github.com/montanus-wecib/mps-backend/internal/types"
	"github.com/montanus-wecib/mps-backend/internal/utils"
)

type ClassroomService interface {
	CreateClassroom(ctx context.Context, code, name string) (*types.Classroom, error)
	FetchRoster(ctx context.Context, classCode string) ([]string, error)
}

type classroomService struct {
	db                *gorm.DB
	log               *logger.Logger
	adminRepo         repos.AdminRepo
	userRepo          repos.UserRepo
	classroomRepo     repos.ClassroomRepo
	classroomUserRepo repos.ClassroomUserRepo
}

func NewClassroomService(
	db *gorm.DB,
	log *logger.Logger,
	adminRepo repos.AdminRepo,
	userRepo repos.UserRepo,
	classroomRepo repos.ClassroomRepo,
	classroomUserRepo repos.ClassroomUserRepo,
) ClassroomService {
	serviceLog := log.With("service", "ClassroomService")
	return &classroomService{
		db:                db,
		log:               serviceLog,
		adminRepo:         adminRepo,
		userRepo:          userRepo,
		classroomRepo:     classroomRepo,
		classroomUserRepo: classroomUserRepo,
	}
}

func (s *classroomService) CreateClassroom(ctx context.Context, code, name string) (*types.Classroom, error) {
	if code == "" {
		return nil, apierr.BadRequest("class code required")
	}

	var classroom *types.Classroom
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		caller, err := requireAdmin(ctx, tx, s.adminRepo)
		if err != nil {
			return err
		}

		created, err := s.classroomRepo.Create(ctx, tx, []*types.Classroom{{
			ID:      uuid.New(),
			Code:    code,
			Name:    name,
			AdminID: caller.ID,
		}})
		if err != nil {
			if utils.IsUniqueViolation(err) {
				return apierr.Conflict("class code %q already in use", code)
			}
			return fmt.Errorf("creating classroom: %w", err)
		}
		classroom = created[0]
		return nil
	}); err != nil {
		s.log.Warn("Failed to create classroom", "class_code", code, "error", err)
		return nil, err
	}
	s.log.Info("Created classroom", "class_code", code, "classroom_id", classroom.ID)
	return classroom, nil
}

// FetchRoster lists the member emails of a classroom owned by the
// caller. System admins may read any roster.
func (s *classroomService) FetchRoster(ctx context.Context, classCode string) ([]string, error) {
	if classCode == "" {
		return nil, apierr.BadRequest("class code required")
	}

	var emails []string
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		caller, err := requireAdmin(ctx, tx, s.adminRepo)
		if err != nil {
			return err
		}

		classrooms, err := s.classroomRepo.GetByCodes(ctx, tx, []string{classCode})
		if err != nil {
			return fmt.Errorf("fetching classroom: %w", err)
		}
		if len(classrooms) == 0 {
			return apierr.NotFound("classroom %q not found", classCode)
		}
		classroom := classrooms[0]
		if caller.Role != types.RoleSystem && classroom.AdminID != caller.ID {
			return apierr.Forbidden("classroom %q is not yours", classCode)
		}

		members, err := s.classroomUserRepo.GetByClassroomIDs(ctx, tx, []uuid.UUID{classroom.ID})
		if err != nil {
			return fmt.Errorf("fetching roster: %w", err)
		}
		memberIDs := make([]uuid.UUID, 0, len(members))
		for _, member := range members {
			memberIDs = append(memberIDs, member.UserID)
		}
		users, err := s.userRepo.GetByIDs(ctx, tx, memberIDs)
		if err != nil {
			return fmt.Errorf("fetching accounts: %w", err)
		}
		emails = make([]string, 0, len(users))
		for _, user := range users {
			emails = append(emails, user.Email)
		}
		sort.Strings(emails)
		return nil
	}); err != nil {
		s.log.Warn("Failed to fetch roster", "class_code", classCode, "error", err)
		return nil, err
	}
	return emails, nil
}
