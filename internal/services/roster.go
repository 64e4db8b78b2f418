package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/montanus-wecib/mps-backend/internal/apierr"
	"github.com/montanus-wecib/mps-backend/internal/logger"
	"github.com/montanus-wecib/mps-backend/internal/repos"
	"github.com/montanus-wecib/mps-backend/internal/types"
	"github.com/montanus-wecib/mps-backend/internal/utils"
)

// RosterService applies bulk membership and content-link changes to a
// classroom. Unresolvable accounts never abort the batch; they come back
// in the status so the caller can surface them.
type RosterService interface {
	AddToClassroom(ctx context.Context, classCode string, payload *types.RosterPayload) (*types.RosterStatus, error)
	RemoveFromClassroom(ctx context.Context, classCode string, payload *types.RosterPayload) (*types.RosterStatus, error)
}

type rosterService struct {
	db                   *gorm.DB
	log                  *logger.Logger
	userRepo             repos.UserRepo
	classroomRepo        repos.ClassroomRepo
	contentRepo          repos.ContentRepo
	classroomUserRepo    repos.ClassroomUserRepo
	classroomContentRepo repos.ClassroomContentRepo
}

func NewRosterService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	classroomRepo repos.ClassroomRepo,
	contentRepo repos.ContentRepo,
	classroomUserRepo repos.ClassroomUserRepo,
	classroomContentRepo repos.ClassroomContentRepo,
) RosterService {
	serviceLog := log.With("service", "RosterService")
	return &rosterService{
		db:                   db,
		log:                  serviceLog,
		userRepo:             userRepo,
		classroomRepo:        classroomRepo,
		contentRepo:          contentRepo,
		classroomUserRepo:    classroomUserRepo,
		classroomContentRepo: classroomContentRepo,
	}
}

func (s *rosterService) AddToClassroom(ctx context.Context, classCode string, payload *types.RosterPayload) (*types.RosterStatus, error) {
	if classCode == "" {
		return nil, apierr.BadRequest("class code required")
	}
	if payload == nil {
		payload = &types.RosterPayload{}
	}

	status := &types.RosterStatus{NotFoundEmails: []string{}}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		classroom, err := s.lookupClassroom(ctx, tx, classCode)
		if err != nil {
			return err
		}

		users, notFound, err := s.resolveAccounts(ctx, tx, payload.Accounts)
		if err != nil {
			return err
		}
		status.NotFoundEmails = notFound

		existingMembers, err := s.classroomUserRepo.GetByClassroomIDs(ctx, tx, []uuid.UUID{classroom.ID})
		if err != nil {
			return fmt.Errorf("fetching roster: %w", err)
		}
		memberIDs := make(map[uuid.UUID]struct{}, len(existingMembers))
		for _, member := range existingMembers {
			memberIDs[member.UserID] = struct{}{}
		}
		now := time.Now().UTC()
		var memberInserts []*types.ClassroomUser
		for _, user := range users {
			if _, present := memberIDs[user.ID]; present {
				continue
			}
			memberInserts = append(memberInserts, &types.ClassroomUser{
				ID:          uuid.New(),
				ClassroomID: classroom.ID,
				UserID:      user.ID,
				JoinedAt:    now,
			})
		}
		if _, err := s.classroomUserRepo.Create(ctx, tx, memberInserts); err != nil {
			if utils.IsUniqueViolation(err) {
				return apierr.Conflict("roster changed concurrently")
			}
			return fmt.Errorf("adding members: %w", err)
		}

		contents, err := s.resolveContentAreas(ctx, tx, classCode, payload.ContentAreas)
		if err != nil {
			return err
		}
		existingLinks, err := s.classroomContentRepo.GetByClassroomIDs(ctx, tx, []uuid.UUID{classroom.ID})
		if err != nil {
			return fmt.Errorf("fetching classroom content links: %w", err)
		}
		linkedIDs := make(map[uuid.UUID]struct{}, len(existingLinks))
		for _, link := range existingLinks {
			linkedIDs[link.ContentID] = struct{}{}
		}
		var contentInserts []*types.ClassroomContent
		for _, content := range contents {
			if _, present := linkedIDs[content.ID]; present {
				continue
			}
			contentInserts = append(contentInserts, &types.ClassroomContent{
				ID:          uuid.New(),
				ClassroomID: classroom.ID,
				ContentID:   content.ID,
			})
		}
		if _, err := s.classroomContentRepo.Create(ctx, tx, contentInserts); err != nil {
			if utils.IsUniqueViolation(err) {
				return apierr.Conflict("classroom content changed concurrently")
			}
			return fmt.Errorf("linking content: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Warn("Failed to add to classroom", "class_code", classCode, "error", err)
		return nil, err
	}
	return status, nil
}

func (s *rosterService) RemoveFromClassroom(ctx context.Context, classCode string, payload *types.RosterPayload) (*types.RosterStatus, error) {
	if classCode == "" {
		return nil, apierr.BadRequest("class code required")
	}
	if payload == nil {
		payload = &types.RosterPayload{}
	}

	status := &types.RosterStatus{NotFoundEmails: []string{}}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		classroom, err := s.lookupClassroom(ctx, tx, classCode)
		if err != nil {
			return err
		}

		users, notFound, err := s.resolveAccounts(ctx, tx, payload.Accounts)
		if err != nil {
			return err
		}
		status.NotFoundEmails = notFound
		userIDs := make([]uuid.UUID, 0, len(users))
		for _, user := range users {
			userIDs = append(userIDs, user.ID)
		}
		if err := s.classroomUserRepo.DeleteByClassroomAndUsers(ctx, tx, classroom.ID, userIDs); err != nil {
			return fmt.Errorf("removing members: %w", err)
		}

		contents, err := s.resolveContentAreas(ctx, tx, classCode, payload.ContentAreas)
		if err != nil {
			return err
		}
		contentIDs := make([]uuid.UUID, 0, len(contents))
		for _, content := range contents {
			contentIDs = append(contentIDs, content.ID)
		}
		if err := s.classroomContentRepo.DeleteByClassroomAndContents(ctx, tx, classroom.ID, contentIDs); err != nil {
			return fmt.Errorf("unlinking content: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Warn("Failed to remove from classroom", "class_code", classCode, "error", err)
		return nil, err
	}
	return status, nil
}

func (s *rosterService) lookupClassroom(ctx context.Context, tx *gorm.DB, classCode string) (*types.Classroom, error) {
	classrooms, err := s.classroomRepo.GetByCodes(ctx, tx, []string{classCode})
	if err != nil {
		return nil, fmt.Errorf("fetching classroom: %w", err)
	}
	if len(classrooms) == 0 {
		return nil, apierr.NotFound("classroom %q not found", classCode)
	}
	return classrooms[0], nil
}

// resolveAccounts splits the requested emails into matched users and the
// addresses no account carries, preserving request order for the latter.
func (s *rosterService) resolveAccounts(ctx context.Context, tx *gorm.DB, emails []string) ([]*types.User, []string, error) {
	deduped := dedupeKeys(emails)
	users, err := s.userRepo.GetByEmails(ctx, tx, deduped)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching accounts: %w", err)
	}
	found := make(map[string]struct{}, len(users))
	for _, user := range users {
		found[user.Email] = struct{}{}
	}
	notFound := []string{}
	for _, email := range deduped {
		if _, ok := found[email]; !ok {
			notFound = append(notFound, email)
		}
	}
	return users, notFound, nil
}

func (s *rosterService) resolveContentAreas(ctx context.Context, tx *gorm.DB, classCode string, keys []string) ([]*types.Content, error) {
	deduped := dedupeKeys(keys)
	contents, err := s.contentRepo.GetByKeys(ctx, tx, deduped)
	if err != nil {
		return nil, fmt.Errorf("fetching content areas: %w", err)
	}
	if len(contents) < len(deduped) {
		known := make(map[string]struct{}, len(contents))
		for _, content := range contents {
			known[content.ContentKey] = struct{}{}
		}
		for _, key := range deduped {
			if _, ok := known[key]; !ok {
				s.log.Warn("Skipping unknown content key", "class_code", classCode, "content_key", key)
			}
		}
	}
	return contents, nil
}
