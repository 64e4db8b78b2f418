package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/montanus-wecib/mps-backend/internal/apierr"
	"github.com/montanus-wecib/mps-backend/internal/logger"
	"github.com/montanus-wecib/mps-backend/internal/repos"
	"github.com/montanus-wecib/mps-backend/internal/types"
)

// AssignmentService computes a learner's effective assignment tree from
// every path that can reach them: classroom content links, direct content
// links, and direct curriculum links. Pure projection, no writes.
type AssignmentService interface {
	ResolveAssignments(ctx context.Context, userID uuid.UUID) (types.AssignmentTree, error)
	ResolveAssignmentsTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (types.AssignmentTree, error)
}

type assignmentService struct {
	db                     *gorm.DB
	log                    *logger.Logger
	contentRepo            repos.ContentRepo
	curriculumRepo         repos.CurriculumRepo
	questionRepo           repos.QuestionRepo
	classroomUserRepo      repos.ClassroomUserRepo
	classroomContentRepo   repos.ClassroomContentRepo
	userContentRepo        repos.UserContentRepo
	userCurriculumRepo     repos.UserCurriculumRepo
	contentCurriculumRepo  repos.ContentCurriculumRepo
	curriculumQuestionRepo repos.CurriculumQuestionRepo
}

func NewAssignmentService(
	db *gorm.DB,
	log *logger.Logger,
	contentRepo repos.ContentRepo,
	curriculumRepo repos.CurriculumRepo,
	questionRepo repos.QuestionRepo,
	classroomUserRepo repos.ClassroomUserRepo,
	classroomContentRepo repos.ClassroomContentRepo,
	userContentRepo repos.UserContentRepo,
	userCurriculumRepo repos.UserCurriculumRepo,
	contentCurriculumRepo repos.ContentCurriculumRepo,
	curriculumQuestionRepo repos.CurriculumQuestionRepo,
) AssignmentService {
	serviceLog := log.With("service", "AssignmentService")
	return &assignmentService{
		db:                     db,
		log:                    serviceLog,
		contentRepo:            contentRepo,
		curriculumRepo:         curriculumRepo,
		questionRepo:           questionRepo,
		classroomUserRepo:      classroomUserRepo,
		classroomContentRepo:   classroomContentRepo,
		userContentRepo:        userContentRepo,
		userCurriculumRepo:     userCurriculumRepo,
		contentCurriculumRepo:  contentCurriculumRepo,
		curriculumQuestionRepo: curriculumQuestionRepo,
	}
}

func (s *assignmentService) ResolveAssignments(ctx context.Context, userID uuid.UUID) (types.AssignmentTree, error) {
	if userID == uuid.Nil {
		return nil, apierr.BadRequest("user id required")
	}

	var tree types.AssignmentTree
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		resolved, err := s.resolve(ctx, tx, userID)
		if err != nil {
			return err
		}
		tree = resolved
		return nil
	}); err != nil {
		s.log.Warn("Failed to resolve assignments", "user_id", userID, "error", err)
		return nil, err
	}
	return tree, nil
}

// ResolveAssignmentsTx runs the same projection inside a caller-owned
// transaction, so composed reads see one snapshot.
func (s *assignmentService) ResolveAssignmentsTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (types.AssignmentTree, error) {
	if userID == uuid.Nil {
		return nil, apierr.BadRequest("user id required")
	}
	if tx == nil {
		return s.ResolveAssignments(ctx, userID)
	}
	tree, err := s.resolve(ctx, tx, userID)
	if err != nil {
		s.log.Warn("Failed to resolve assignments", "user_id", userID, "error", err)
		return nil, err
	}
	return tree, nil
}

func (s *assignmentService) resolve(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (types.AssignmentTree, error) {
	// Content reachable through classroom membership.
	rosterRows, err := s.classroomUserRepo.GetByUserIDs(ctx, tx, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("fetching classroom memberships: %w", err)
	}
	classroomIDs := make([]uuid.UUID, 0, len(rosterRows))
	for _, row := range rosterRows {
		classroomIDs = append(classroomIDs, row.ClassroomID)
	}
	classLinks, err := s.classroomContentRepo.GetByClassroomIDs(ctx, tx, classroomIDs)
	if err != nil {
		return nil, fmt.Errorf("fetching classroom content links: %w", err)
	}

	// Content assigned directly, unioned and deduplicated by identity.
	directLinks, err := s.userContentRepo.GetByUserIDs(ctx, tx, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("fetching direct content links: %w", err)
	}
	contentIDSet := make(map[uuid.UUID]struct{}, len(classLinks)+len(directLinks))
	contentIDs := make([]uuid.UUID, 0, len(classLinks)+len(directLinks))
	for _, link := range classLinks {
		if _, seen := contentIDSet[link.ContentID]; !seen {
			contentIDSet[link.ContentID] = struct{}{}
			contentIDs = append(contentIDs, link.ContentID)
		}
	}
	for _, link := range directLinks {
		if _, seen := contentIDSet[link.ContentID]; !seen {
			contentIDSet[link.ContentID] = struct{}{}
			contentIDs = append(contentIDs, link.ContentID)
		}
	}

	contents, err := s.contentRepo.GetByIDs(ctx, tx, contentIDs)
	if err != nil {
		return nil, fmt.Errorf("fetching content rows: %w", err)
	}
	pairs, err := s.contentCurriculumRepo.GetByContentIDs(ctx, tx, contentIDs)
	if err != nil {
		return nil, fmt.Errorf("fetching content curriculum pairings: %w", err)
	}

	pairedCurriculumIDs := make([]uuid.UUID, 0, len(pairs))
	for _, pair := range pairs {
		pairedCurriculumIDs = append(pairedCurriculumIDs, pair.CurriculumID)
	}

	// Curricula assigned directly to the account, independent of content.
	customLinks, err := s.userCurriculumRepo.GetByUserIDs(ctx, tx, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("fetching direct curriculum links: %w", err)
	}
	customCurriculumIDs := make([]uuid.UUID, 0, len(customLinks))
	for _, link := range customLinks {
		customCurriculumIDs = append(customCurriculumIDs, link.CurriculumID)
	}

	curriculumKeys, taskLists, err := s.expandCurriculums(ctx, tx, append(append([]uuid.UUID{}, pairedCurriculumIDs...), customCurriculumIDs...))
	if err != nil {
		return nil, err
	}

	tree := make(types.AssignmentTree, len(contents)+1)
	for _, content := range contents {
		tree[content.ContentKey] = map[string][]types.TaskRef{}
	}
	contentKeyByID := make(map[uuid.UUID]string, len(contents))
	for _, content := range contents {
		contentKeyByID[content.ID] = content.ContentKey
	}
	for _, pair := range pairs {
		contentKey, ok := contentKeyByID[pair.ContentID]
		if !ok {
			continue
		}
		curriculumKey, ok := curriculumKeys[pair.CurriculumID]
		if !ok {
			continue
		}
		tree[contentKey][curriculumKey] = taskLists[pair.CurriculumID]
	}

	if len(customCurriculumIDs) > 0 {
		custom := make(map[string][]types.TaskRef, len(customCurriculumIDs))
		for _, curriculumID := range customCurriculumIDs {
			curriculumKey, ok := curriculumKeys[curriculumID]
			if !ok {
				continue
			}
			custom[curriculumKey] = taskLists[curriculumID]
		}
		if len(custom) > 0 {
			tree[types.CustomContentKey] = custom
		}
	}
	return tree, nil
}

// expandCurriculums maps curriculum ids to their keys and ordered task
// projections. Questions without a pairing never surface here.
func (s *assignmentService) expandCurriculums(ctx context.Context, tx *gorm.DB, curriculumIDs []uuid.UUID) (map[uuid.UUID]string, map[uuid.UUID][]types.TaskRef, error) {
	keys := make(map[uuid.UUID]string, len(curriculumIDs))
	taskLists := make(map[uuid.UUID][]types.TaskRef, len(curriculumIDs))
	if len(curriculumIDs) == 0 {
		return keys, taskLists, nil
	}

	curriculums, err := s.curriculumRepo.GetByIDs(ctx, tx, curriculumIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching curriculum rows: %w", err)
	}
	for _, curriculum := range curriculums {
		keys[curriculum.ID] = curriculum.CurriculumKey
		taskLists[curriculum.ID] = []types.TaskRef{}
	}

	pairRows, err := s.curriculumQuestionRepo.GetByCurriculumIDs(ctx, tx, curriculumIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching curriculum question pairings: %w", err)
	}
	questionIDs := make([]uuid.UUID, 0, len(pairRows))
	for _, row := range pairRows {
		questionIDs = append(questionIDs, row.QuestionID)
	}
	questions, err := s.questionRepo.GetByIDs(ctx, tx, questionIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching question rows: %w", err)
	}
	questionByID := make(map[uuid.UUID]*types.Question, len(questions))
	for _, question := range questions {
		questionByID[question.ID] = question
	}

	for _, row := range pairRows {
		question, ok := questionByID[row.QuestionID]
		if !ok {
			continue
		}
		taskLists[row.CurriculumID] = append(taskLists[row.CurriculumID], types.TaskRef{
			TaskKey:    question.TaskKey,
			Difficulty: question.Difficulty,
			Standard:   question.Standard,
			Objective:  question.Objective,
		})
	}
	return keys, taskLists, nil
}
