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

// UserService covers account reads and the direct assignment links that
// bypass classroom membership.
type UserService interface {
	FetchUsernames(ctx context.Context) ([]string, error)
	FetchUserData(ctx context.Context, userID uuid.UUID) (*types.User, error)
	AssignContent(ctx context.Context, userID uuid.UUID, contentKeys []string) error
	UnassignContent(ctx context.Context, userID uuid.UUID, contentKeys []string) error
	AssignCurriculums(ctx context.Context, userID uuid.UUID, curriculumKeys []string) error
	UnassignCurriculums(ctx context.Context, userID uuid.UUID, curriculumKeys []string) error
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

type userService struct {
	db                 *gorm.DB
	log                *logger.Logger
	userRepo           repos.UserRepo
	contentRepo        repos.ContentRepo
	curriculumRepo     repos.CurriculumRepo
	userContentRepo    repos.UserContentRepo
	userCurriculumRepo repos.UserCurriculumRepo
}

func NewUserService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	contentRepo repos.ContentRepo,
	curriculumRepo repos.CurriculumRepo,
	userContentRepo repos.UserContentRepo,
	userCurriculumRepo repos.UserCurriculumRepo,
) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{
		db:                 db,
		log:                serviceLog,
		userRepo:           userRepo,
		contentRepo:        contentRepo,
		curriculumRepo:     curriculumRepo,
		userContentRepo:    userContentRepo,
		userCurriculumRepo: userCurriculumRepo,
	}
}

func (s *userService) FetchUsernames(ctx context.Context) ([]string, error) {
	users, err := s.userRepo.GetAll(ctx, nil)
	if err != nil {
		s.log.Warn("Failed to fetch usernames", "error", err)
		return nil, fmt.Errorf("fetching accounts: %w", err)
	}
	usernames := make([]string, 0, len(users))
	for _, user := range users {
		usernames = append(usernames, user.Username)
	}
	sort.Strings(usernames)
	return usernames, nil
}

func (s *userService) FetchUserData(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	if userID == uuid.Nil {
		return nil, apierr.BadRequest("user id required")
	}
	users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		s.log.Warn("Failed to fetch account", "user_id", userID, "error", err)
		return nil, fmt.Errorf("fetching account: %w", err)
	}
	if len(users) == 0 {
		return nil, apierr.NotFound("account not found")
	}
	return users[0], nil
}

func (s *userService) AssignContent(ctx context.Context, userID uuid.UUID, contentKeys []string) error {
	if userID == uuid.Nil {
		return apierr.BadRequest("user id required")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		contents, err := s.lookupContents(ctx, tx, userID, contentKeys)
		if err != nil {
			return err
		}
		existing, err := s.userContentRepo.GetByUserIDs(ctx, tx, []uuid.UUID{userID})
		if err != nil {
			return fmt.Errorf("fetching direct content links: %w", err)
		}
		linked := make(map[uuid.UUID]struct{}, len(existing))
		for _, link := range existing {
			linked[link.ContentID] = struct{}{}
		}
		var inserts []*types.UserContent
		for _, content := range contents {
			if _, present := linked[content.ID]; present {
				continue
			}
			inserts = append(inserts, &types.UserContent{
				ID:        uuid.New(),
				UserID:    userID,
				ContentID: content.ID,
			})
		}
		if _, err := s.userContentRepo.Create(ctx, tx, inserts); err != nil {
			if utils.IsUniqueViolation(err) {
				return apierr.Conflict("content already assigned")
			}
			return fmt.Errorf("assigning content: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Warn("Failed to assign content", "user_id", userID, "error", err)
		return err
	}
	return nil
}

func (s *userService) UnassignContent(ctx context.Context, userID uuid.UUID, contentKeys []string) error {
	if userID == uuid.Nil {
		return apierr.BadRequest("user id required")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		contents, err := s.lookupContents(ctx, tx, userID, contentKeys)
		if err != nil {
			return err
		}
		contentIDs := make([]uuid.UUID, 0, len(contents))
		for _, content := range contents {
			contentIDs = append(contentIDs, content.ID)
		}
		if err := s.userContentRepo.DeleteByUserAndContents(ctx, tx, userID, contentIDs); err != nil {
			return fmt.Errorf("unassigning content: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Warn("Failed to unassign content", "user_id", userID, "error", err)
		return err
	}
	return nil
}

func (s *userService) AssignCurriculums(ctx context.Context, userID uuid.UUID, curriculumKeys []string) error {
	if userID == uuid.Nil {
		return apierr.BadRequest("user id required")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		curriculums, err := s.lookupCurriculums(ctx, tx, userID, curriculumKeys)
		if err != nil {
			return err
		}
		existing, err := s.userCurriculumRepo.GetByUserIDs(ctx, tx, []uuid.UUID{userID})
		if err != nil {
			return fmt.Errorf("fetching direct curriculum links: %w", err)
		}
		linked := make(map[uuid.UUID]struct{}, len(existing))
		for _, link := range existing {
			linked[link.CurriculumID] = struct{}{}
		}
		var inserts []*types.UserCurriculum
		for _, curriculum := range curriculums {
			if _, present := linked[curriculum.ID]; present {
				continue
			}
			inserts = append(inserts, &types.UserCurriculum{
				ID:           uuid.New(),
				UserID:       userID,
				CurriculumID: curriculum.ID,
			})
		}
		if _, err := s.userCurriculumRepo.Create(ctx, tx, inserts); err != nil {
			if utils.IsUniqueViolation(err) {
				return apierr.Conflict("curriculum already assigned")
			}
			return fmt.Errorf("assigning curriculums: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Warn("Failed to assign curriculums", "user_id", userID, "error", err)
		return err
	}
	return nil
}

func (s *userService) UnassignCurriculums(ctx context.Context, userID uuid.UUID, curriculumKeys []string) error {
	if userID == uuid.Nil {
		return apierr.BadRequest("user id required")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		curriculums, err := s.lookupCurriculums(ctx, tx, userID, curriculumKeys)
		if err != nil {
			return err
		}
		curriculumIDs := make([]uuid.UUID, 0, len(curriculums))
		for _, curriculum := range curriculums {
			curriculumIDs = append(curriculumIDs, curriculum.ID)
		}
		if err := s.userCurriculumRepo.DeleteByUserAndCurriculums(ctx, tx, userID, curriculumIDs); err != nil {
			return fmt.Errorf("unassigning curriculums: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Warn("Failed to unassign curriculums", "user_id", userID, "error", err)
		return err
	}
	return nil
}

func (s *userService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return apierr.BadRequest("user id required")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users, err := s.userRepo.GetByIDs(ctx, tx, []uuid.UUID{userID})
		if err != nil {
			return fmt.Errorf("fetching account: %w", err)
		}
		if len(users) == 0 {
			return apierr.NotFound("account not found")
		}
		return s.userRepo.SoftDeleteByIDs(ctx, tx, []uuid.UUID{userID})
	})
	if err != nil {
		s.log.Warn("Failed to delete account", "user_id", userID, "error", err)
		return err
	}
	s.log.Info("Deleted account", "user_id", userID)
	return nil
}

func (s *userService) lookupContents(ctx context.Context, tx *gorm.DB, userID uuid.UUID, keys []string) ([]*types.Content, error) {
	contents, err := s.contentRepo.GetByKeys(ctx, tx, dedupeKeys(keys))
	if err != nil {
		return nil, fmt.Errorf("fetching content rows: %w", err)
	}
	if len(contents) < len(dedupeKeys(keys)) {
		known := make(map[string]struct{}, len(contents))
		for _, content := range contents {
			known[content.ContentKey] = struct{}{}
		}
		for _, key := range dedupeKeys(keys) {
			if _, ok := known[key]; !ok {
				s.log.Warn("Skipping unknown content key", "user_id", userID, "content_key", key)
			}
		}
	}
	return contents, nil
}

func (s *userService) lookupCurriculums(ctx context.Context, tx *gorm.DB, userID uuid.UUID, keys []string) ([]*types.Curriculum, error) {
	curriculums, err := s.curriculumRepo.GetByKeys(ctx, tx, dedupeKeys(keys))
	if err != nil {
		return nil, fmt.Errorf("fetching curriculum rows: %w", err)
	}
	if len(curriculums) < len(dedupeKeys(keys)) {
		known := make(map[string]struct{}, len(curriculums))
		for _, curriculum := range curriculums {
			known[curriculum.CurriculumKey] = struct{}{}
		}
		for _, key := range dedupeKeys(keys) {
			if _, ok := known[key]; !ok {
				s.log.Warn("Skipping unknown curriculum key", "user_id", userID, "curriculum_key", key)
			}
		}
	}
	return curriculums, nil
}
