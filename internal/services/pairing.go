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

// PairingService reconciles the pairing tables against a caller-supplied
// target set. Each call converges the stored links to exactly the named
// children in the submitted order: missing links are inserted, extra
// links removed, and kept links take the submitted ordinal so repeated
// calls are no-ops.
type PairingService interface {
	EqualizeContentCurriculums(ctx context.Context, contentKey string, curriculumKeys []string) error
	EqualizeCurriculumQuestions(ctx context.Context, curriculumKey string, taskKeys []string) error
}

type pairingService struct {
	db                     *gorm.DB
	log                    *logger.Logger
	contentRepo            repos.ContentRepo
	curriculumRepo         repos.CurriculumRepo
	questionRepo           repos.QuestionRepo
	contentCurriculumRepo  repos.ContentCurriculumRepo
	curriculumQuestionRepo repos.CurriculumQuestionRepo
}

func NewPairingService(
	db *gorm.DB,
	log *logger.Logger,
	contentRepo repos.ContentRepo,
	curriculumRepo repos.CurriculumRepo,
	questionRepo repos.QuestionRepo,
	contentCurriculumRepo repos.ContentCurriculumRepo,
	curriculumQuestionRepo repos.CurriculumQuestionRepo,
) PairingService {
	serviceLog := log.With("service", "PairingService")
	return &pairingService{
		db:                     db,
		log:                    serviceLog,
		contentRepo:            contentRepo,
		curriculumRepo:         curriculumRepo,
		questionRepo:           questionRepo,
		contentCurriculumRepo:  contentCurriculumRepo,
		curriculumQuestionRepo: curriculumQuestionRepo,
	}
}

func (s *pairingService) EqualizeContentCurriculums(ctx context.Context, contentKey string, curriculumKeys []string) error {
	if contentKey == "" {
		return apierr.BadRequest("content key required")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		contents, err := s.contentRepo.GetByKeys(ctx, tx, []string{contentKey})
		if err != nil {
			return fmt.Errorf("fetching content row: %w", err)
		}
		if len(contents) == 0 {
			return apierr.NotFound("content %q not found", contentKey)
		}
		content := contents[0]

		curriculums, err := s.curriculumRepo.GetByKeys(ctx, tx, dedupeKeys(curriculumKeys))
		if err != nil {
			return fmt.Errorf("fetching curriculum rows: %w", err)
		}
		curriculumByKey := make(map[string]*types.Curriculum, len(curriculums))
		for _, curriculum := range curriculums {
			curriculumByKey[curriculum.CurriculumKey] = curriculum
		}
		for _, key := range curriculumKeys {
			if _, ok := curriculumByKey[key]; !ok {
				s.log.Warn("Skipping unknown curriculum key", "content_key", contentKey, "curriculum_key", key)
			}
		}

		// Target sequence in the caller's submitted order.
		var targets []*types.Curriculum
		wanted := make(map[uuid.UUID]struct{}, len(curriculumKeys))
		for _, key := range curriculumKeys {
			curriculum, ok := curriculumByKey[key]
			if !ok {
				continue
			}
			if _, dup := wanted[curriculum.ID]; dup {
				continue
			}
			wanted[curriculum.ID] = struct{}{}
			targets = append(targets, curriculum)
		}

		existing, err := s.contentCurriculumRepo.GetByContentIDs(ctx, tx, []uuid.UUID{content.ID})
		if err != nil {
			return fmt.Errorf("fetching existing pairings: %w", err)
		}

		var staleLinkIDs []uuid.UUID
		existingByCurriculum := make(map[uuid.UUID]*types.ContentCurriculum, len(existing))
		for _, link := range existing {
			if _, keep := wanted[link.CurriculumID]; keep {
				existingByCurriculum[link.CurriculumID] = link
			} else {
				staleLinkIDs = append(staleLinkIDs, link.ID)
			}
		}

		if err := s.contentCurriculumRepo.DeleteByIDs(ctx, tx, staleLinkIDs); err != nil {
			return fmt.Errorf("removing stale pairings: %w", err)
		}

		// Kept links take the submitted ordinal; new links insert at theirs.
		var inserts []*types.ContentCurriculum
		for ordinal, curriculum := range targets {
			if link, present := existingByCurriculum[curriculum.ID]; present {
				if link.Ordinal != ordinal {
					if err := s.contentCurriculumRepo.UpdateOrdinal(ctx, tx, link.ID, ordinal); err != nil {
						return fmt.Errorf("reordering pairing: %w", err)
					}
				}
				continue
			}
			inserts = append(inserts, &types.ContentCurriculum{
				ID:           uuid.New(),
				ContentID:    content.ID,
				CurriculumID: curriculum.ID,
				Ordinal:      ordinal,
			})
		}
		if _, err := s.contentCurriculumRepo.Create(ctx, tx, inserts); err != nil {
			if utils.IsUniqueViolation(err) {
				return apierr.Conflict("curriculum already paired to another content")
			}
			return fmt.Errorf("inserting pairings: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Warn("Failed to equalize content curriculums", "content_key", contentKey, "error", err)
		return err
	}
	return nil
}

func (s *pairingService) EqualizeCurriculumQuestions(ctx context.Context, curriculumKey string, taskKeys []string) error {
	if curriculumKey == "" {
		return apierr.BadRequest("curriculum key required")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		curriculums, err := s.curriculumRepo.GetByKeys(ctx, tx, []string{curriculumKey})
		if err != nil {
			return fmt.Errorf("fetching curriculum row: %w", err)
		}
		if len(curriculums) == 0 {
			return apierr.NotFound("curriculum %q not found", curriculumKey)
		}
		curriculum := curriculums[0]

		questions, err := s.questionRepo.GetByTaskKeys(ctx, tx, dedupeKeys(taskKeys))
		if err != nil {
			return fmt.Errorf("fetching question rows: %w", err)
		}
		questionByKey := make(map[string]*types.Question, len(questions))
		for _, question := range questions {
			questionByKey[question.TaskKey] = question
		}
		for _, key := range taskKeys {
			if _, ok := questionByKey[key]; !ok {
				s.log.Warn("Skipping unknown task key", "curriculum_key", curriculumKey, "task_key", key)
			}
		}

		// Target sequence in the caller's submitted order.
		var targets []*types.Question
		wanted := make(map[uuid.UUID]struct{}, len(taskKeys))
		for _, key := range taskKeys {
			question, ok := questionByKey[key]
			if !ok {
				continue
			}
			if _, dup := wanted[question.ID]; dup {
				continue
			}
			wanted[question.ID] = struct{}{}
			targets = append(targets, question)
		}

		existing, err := s.curriculumQuestionRepo.GetByCurriculumIDs(ctx, tx, []uuid.UUID{curriculum.ID})
		if err != nil {
			return fmt.Errorf("fetching existing pairings: %w", err)
		}

		var staleLinkIDs []uuid.UUID
		existingByQuestion := make(map[uuid.UUID]*types.CurriculumQuestion, len(existing))
		for _, link := range existing {
			if _, keep := wanted[link.QuestionID]; keep {
				existingByQuestion[link.QuestionID] = link
			} else {
				staleLinkIDs = append(staleLinkIDs, link.ID)
			}
		}

		if err := s.curriculumQuestionRepo.DeleteByIDs(ctx, tx, staleLinkIDs); err != nil {
			return fmt.Errorf("removing stale pairings: %w", err)
		}

		// Kept links take the submitted ordinal; new links insert at theirs.
		var inserts []*types.CurriculumQuestion
		for ordinal, question := range targets {
			if link, present := existingByQuestion[question.ID]; present {
				if link.Ordinal != ordinal {
					if err := s.curriculumQuestionRepo.UpdateOrdinal(ctx, tx, link.ID, ordinal); err != nil {
						return fmt.Errorf("reordering pairing: %w", err)
					}
				}
				continue
			}
			inserts = append(inserts, &types.CurriculumQuestion{
				ID:           uuid.New(),
				CurriculumID: curriculum.ID,
				QuestionID:   question.ID,
				Ordinal:      ordinal,
			})
		}
		if _, err := s.curriculumQuestionRepo.Create(ctx, tx, inserts); err != nil {
			if utils.IsUniqueViolation(err) {
				return apierr.Conflict("question already paired to another curriculum")
			}
			return fmt.Errorf("inserting pairings: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Warn("Failed to equalize curriculum questions", "curriculum_key", curriculumKey, "error", err)
		return err
	}
	return nil
}

func dedupeKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
