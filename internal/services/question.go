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
	"github.com/montanus-wecib/mps-backend/internal/utils"
)

// QuestionService is the authoring surface for the content library:
// questions plus the content and curriculum keys they hang from.
// Every operation requires an administrator role.
type QuestionService interface {
	NewQuestion(ctx context.Context, question *types.Question) (*types.Question, error)
	UpdateQuestion(ctx context.Context, taskKey string, fields map[string]interface{}) error
	FetchQuestion(ctx context.Context, taskKey string) (*types.Question, error)
	AddContentKey(ctx context.Context, contentKey string) (*types.Content, error)
	AddCurriculumKey(ctx context.Context, curriculumKey string) (*types.Curriculum, error)
}

type questionService struct {
	db             *gorm.DB
	log            *logger.Logger
	adminRepo      repos.AdminRepo
	contentRepo    repos.ContentRepo
	curriculumRepo repos.CurriculumRepo
	questionRepo   repos.QuestionRepo
}

func NewQuestionService(
	db *gorm.DB,
	log *logger.Logger,
	adminRepo repos.AdminRepo,
	contentRepo repos.ContentRepo,
	curriculumRepo repos.CurriculumRepo,
	questionRepo repos.QuestionRepo,
) QuestionService {
	serviceLog := log.With("service", "QuestionService")
	return &questionService{
		db:             db,
		log:            serviceLog,
		adminRepo:      adminRepo,
		contentRepo:    contentRepo,
		curriculumRepo: curriculumRepo,
		questionRepo:   questionRepo,
	}
}

func (s *questionService) NewQuestion(ctx context.Context, question *types.Question) (*types.Question, error) {
	if question == nil || question.TaskKey == "" {
		return nil, apierr.BadRequest("task key required")
	}

	var created *types.Question
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		caller, err := requireAdmin(ctx, tx, s.adminRepo)
		if err != nil {
			return err
		}

		question.ID = uuid.New()
		creatorID := caller.ID
		question.CreatorID = &creatorID

		rows, err := s.questionRepo.Create(ctx, tx, []*types.Question{question})
		if err != nil {
			if utils.IsUniqueViolation(err) {
				return apierr.Conflict("task key %q already in use", question.TaskKey)
			}
			return fmt.Errorf("creating question: %w", err)
		}
		created = rows[0]
		return nil
	}); err != nil {
		s.log.Warn("Failed to create question", "task_key", question.TaskKey, "error", err)
		return nil, err
	}
	return created, nil
}

// questionColumns is the set of fields an update may touch. Task key and
// creator are fixed at creation.
var questionColumns = map[string]struct{}{
	"standard":     {},
	"objective":    {},
	"difficulty":   {},
	"code":         {},
	"question":     {},
	"answer":       {},
	"distractor_1": {},
	"distractor_2": {},
	"distractor_3": {},
	"description":  {},
	"video":        {},
	"video_start":  {},
	"video_end":    {},
	"tags":         {},
}

func (s *questionService) UpdateQuestion(ctx context.Context, taskKey string, fields map[string]interface{}) error {
	if taskKey == "" {
		return apierr.BadRequest("task key required")
	}

	filtered := make(map[string]interface{}, len(fields))
	for column, value := range fields {
		if _, known := questionColumns[column]; !known {
			s.log.Warn("Ignoring unknown question field", "task_key", taskKey, "field", column)
			continue
		}
		filtered[column] = value
	}
	if len(filtered) == 0 {
		return nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		caller, err := requireAdmin(ctx, tx, s.adminRepo)
		if err != nil {
			return err
		}

		questions, err := s.questionRepo.GetByTaskKeys(ctx, tx, []string{taskKey})
		if err != nil {
			return fmt.Errorf("fetching question row: %w", err)
		}
		if len(questions) == 0 {
			return apierr.NotFound("question %q not found", taskKey)
		}
		question := questions[0]
		if caller.Role != types.RoleSystem && (question.CreatorID == nil || *question.CreatorID != caller.ID) {
			return apierr.Forbidden("question %q is not yours", taskKey)
		}
		return s.questionRepo.UpdateFields(ctx, tx, question.ID, filtered)
	})
	if err != nil {
		s.log.Warn("Failed to update question", "task_key", taskKey, "error", err)
		return err
	}
	return nil
}

func (s *questionService) FetchQuestion(ctx context.Context, taskKey string) (*types.Question, error) {
	if taskKey == "" {
		return nil, apierr.BadRequest("task key required")
	}
	questions, err := s.questionRepo.GetByTaskKeys(ctx, nil, []string{taskKey})
	if err != nil {
		s.log.Warn("Failed to fetch question", "task_key", taskKey, "error", err)
		return nil, fmt.Errorf("fetching question row: %w", err)
	}
	if len(questions) == 0 {
		return nil, apierr.NotFound("question %q not found", taskKey)
	}
	return questions[0], nil
}

func (s *questionService) AddContentKey(ctx context.Context, contentKey string) (*types.Content, error) {
	if contentKey == "" {
		return nil, apierr.BadRequest("content key required")
	}

	var content *types.Content
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		caller, err := requireAdmin(ctx, tx, s.adminRepo)
		if err != nil {
			return err
		}
		creatorID := caller.ID
		rows, err := s.contentRepo.Create(ctx, tx, []*types.Content{{
			ID:         uuid.New(),
			ContentKey: contentKey,
			CreatorID:  &creatorID,
		}})
		if err != nil {
			if utils.IsUniqueViolation(err) {
				return apierr.Conflict("content key %q already in use", contentKey)
			}
			return fmt.Errorf("creating content: %w", err)
		}
		content = rows[0]
		return nil
	}); err != nil {
		s.log.Warn("Failed to add content key", "content_key", contentKey, "error", err)
		return nil, err
	}
	return content, nil
}

func (s *questionService) AddCurriculumKey(ctx context.Context, curriculumKey string) (*types.Curriculum, error) {
	if curriculumKey == "" {
		return nil, apierr.BadRequest("curriculum key required")
	}

	var curriculum *types.Curriculum
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		caller, err := requireAdmin(ctx, tx, s.adminRepo)
		if err != nil {
			return err
		}
		creatorID := caller.ID
		rows, err := s.curriculumRepo.Create(ctx, tx, []*types.Curriculum{{
			ID:            uuid.New(),
			CurriculumKey: curriculumKey,
			CreatorID:     &creatorID,
		}})
		if err != nil {
			if utils.IsUniqueViolation(err) {
				return apierr.Conflict("curriculum key %q already in use", curriculumKey)
			}
			return fmt.Errorf("creating curriculum: %w", err)
		}
		curriculum = rows[0]
		return nil
	}); err != nil {
		s.log.Warn("Failed to add curriculum key", "curriculum_key", curriculumKey, "error", err)
		return nil, err
	}
	return curriculum, nil
}
