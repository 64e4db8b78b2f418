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
)

// XPService appends earned-XP events to the ledger. Rows are immutable
// once written; corrections land as new events.
type XPService interface {
	RecordXP(ctx context.Context, userID uuid.UUID, record *types.XPRecord) (*types.XPEvent, error)
}

type xpService struct {
	db           *gorm.DB
	log          *logger.Logger
	questionRepo repos.QuestionRepo
	xpEventRepo  repos.XPEventRepo
}

func NewXPService(db *gorm.DB, log *logger.Logger, questionRepo repos.QuestionRepo, xpEventRepo repos.XPEventRepo) XPService {
	serviceLog := log.With("service", "XPService")
	return &xpService{db: db, log: serviceLog, questionRepo: questionRepo, xpEventRepo: xpEventRepo}
}

func (s *xpService) RecordXP(ctx context.Context, userID uuid.UUID, record *types.XPRecord) (*types.XPEvent, error) {
	if userID == uuid.Nil {
		return nil, apierr.BadRequest("user id required")
	}
	if record == nil || record.QuestionKey == "" {
		return nil, apierr.BadRequest("question key required")
	}

	// Stored at millisecond precision so a formatted watermark round-trips
	// exactly; anything finer would sort just above its own watermark.
	timestamp := time.Now().UTC().Truncate(time.Millisecond)
	if record.Timestamp != "" {
		parsed, err := parseWatermark(record.Timestamp)
		if err != nil {
			return nil, apierr.BadRequest("unparseable timestamp %q", record.Timestamp)
		}
		timestamp = parsed
	}

	var event *types.XPEvent
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		questions, err := s.questionRepo.GetByTaskKeys(ctx, tx, []string{record.QuestionKey})
		if err != nil {
			return fmt.Errorf("fetching question row: %w", err)
		}
		if len(questions) == 0 {
			return apierr.NotFound("question %q not found", record.QuestionKey)
		}
		question := questions[0]

		// Difficulty, standard, objective and tags are snapshotted from
		// the question row, not trusted from the submission.
		created, err := s.xpEventRepo.Create(ctx, tx, []*types.XPEvent{{
			ID:            uuid.New(),
			UserID:        userID,
			DXP:           record.DXP,
			PossibleXP:    record.PossibleXP,
			QuestionKey:   question.TaskKey,
			ContentKey:    record.ContentKey,
			CurriculumKey: record.CurriculumKey,
			Difficulty:    question.Difficulty,
			Standard:      question.Standard,
			Objective:     question.Objective,
			Tags:          question.Tags,
			ElapsedTime:   record.ElapsedTime,
			Timestamp:     timestamp,
		}})
		if err != nil {
			return fmt.Errorf("appending ledger row: %w", err)
		}
		event = created[0]
		return nil
	}); err != nil {
		s.log.Warn("Failed to record XP", "user_id", userID, "question_key", record.QuestionKey, "error", err)
		return nil, err
	}
	return event, nil
}
