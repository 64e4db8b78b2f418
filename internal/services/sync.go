package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/montanus-wecib/mps-backend/internal/apierr"
	"github.com/montanus-wecib/mps-backend/internal/logger"
	"github.com/montanus-wecib/mps-backend/internal/repos"
	"github.com/montanus-wecib/mps-backend/internal/types"
)

// ErrNoNewData signals a watermark fetch that found nothing newer. The
// transport maps it to an empty-handed response rather than an error
// status.
var ErrNoNewData = errors.New("no new data")

// Client timestamps arrive with or without fractional seconds. Writes
// truncate to millisecond precision so a formatted watermark round-trips
// exactly against the strictly-greater fetch predicate.
const (
	timestampLayout         = "2006-01-02T15:04:05.000Z"
	timestampLayoutFallback = "2006-01-02T15:04:05Z"
)

// SyncService keeps the client session cache and the stored account
// state converged: bootstrap at login, incremental XP pulls against a
// watermark, and merged write-back of changed session keys.
type SyncService interface {
	Bootstrap(ctx context.Context, userID uuid.UUID) (*types.BootstrapPayload, error)
	FetchXPSince(ctx context.Context, userID uuid.UUID, watermark string) (*types.XPDelta, error)
	UpdateUserSession(ctx context.Context, userID uuid.UUID, updates map[string]interface{}) error
}

type syncService struct {
	db                *gorm.DB
	log               *logger.Logger
	userRepo          repos.UserRepo
	xpEventRepo       repos.XPEventRepo
	assignmentService AssignmentService
}

func NewSyncService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	xpEventRepo repos.XPEventRepo,
	assignmentService AssignmentService,
) SyncService {
	serviceLog := log.With("service", "SyncService")
	return &syncService{
		db:                db,
		log:               serviceLog,
		userRepo:          userRepo,
		xpEventRepo:       xpEventRepo,
		assignmentService: assignmentService,
	}
}

func (s *syncService) Bootstrap(ctx context.Context, userID uuid.UUID) (*types.BootstrapPayload, error) {
	if userID == uuid.Nil {
		return nil, apierr.BadRequest("user id required")
	}

	// One transaction for the account read and the assignment projection,
	// so the payload reflects a single snapshot.
	var payload *types.BootstrapPayload
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users, err := s.userRepo.GetByIDs(ctx, tx, []uuid.UUID{userID})
		if err != nil {
			return fmt.Errorf("fetching account: %w", err)
		}
		if len(users) == 0 {
			return apierr.NotFound("account not found")
		}
		user := users[0]

		assignments, err := s.assignmentService.ResolveAssignmentsTx(ctx, tx, userID)
		if err != nil {
			return err
		}

		payload = &types.BootstrapPayload{
			Assignments:          assignments,
			CurrentCurriculum:    user.CurrentCurriculum,
			CurrentQuestion:      user.CurrentQuestion,
			CompletedCurriculums: decodeJSONColumn(user.CompletedCurriculums),
			ContentScores:        decodeJSONColumn(user.ContentScores),
			CurriculumScores:     decodeJSONColumn(user.CurriculumScores),
			CorrectAnswers:       decodeJSONColumn(user.CorrectAnswers),
			IncorrectAnswers:     decodeJSONColumn(user.IncorrectAnswers),
			XP:                   decodeJSONColumn(user.XP),
			UpdatedAt:            user.UpdatedAt.UTC().Format(timestampLayout),
		}
		return nil
	}); err != nil {
		s.log.Warn("Failed to bootstrap session", "user_id", userID, "error", err)
		return nil, err
	}
	return payload, nil
}

func (s *syncService) FetchXPSince(ctx context.Context, userID uuid.UUID, watermark string) (*types.XPDelta, error) {
	if userID == uuid.Nil {
		return nil, apierr.BadRequest("user id required")
	}
	since, err := parseWatermark(watermark)
	if err != nil {
		return nil, apierr.BadRequest("unparseable watermark %q", watermark)
	}

	events, err := s.xpEventRepo.GetByUserSince(ctx, nil, userID, since)
	if err != nil {
		s.log.Warn("Failed to fetch XP delta", "user_id", userID, "error", err)
		return nil, fmt.Errorf("fetching ledger: %w", err)
	}
	if len(events) == 0 {
		return nil, ErrNoNewData
	}

	records := make([]types.XPRecord, 0, len(events))
	for _, event := range events {
		records = append(records, types.XPRecord{
			DXP:           event.DXP,
			PossibleXP:    event.PossibleXP,
			QuestionKey:   event.QuestionKey,
			CurriculumKey: event.CurriculumKey,
			ContentKey:    event.ContentKey,
			Difficulty:    event.Difficulty,
			Standard:      event.Standard,
			Objective:     event.Objective,
			ElapsedTime:   event.ElapsedTime,
			Timestamp:     event.Timestamp.UTC().Format(timestampLayout),
		})
	}
	return &types.XPDelta{
		XPData:             records,
		MostRecentDatetime: events[len(events)-1].Timestamp.UTC().Format(timestampLayout),
	}, nil
}

// sessionColumns maps the client cache keys to their storage columns.
// Keys outside this map are dropped, not rejected, so older clients can
// keep sending fields the server no longer tracks.
var sessionColumns = map[string]string{
	"completedCurriculums": "completed_curriculums",
	"contentScores":        "content_scores",
	"curriculumScores":     "curriculum_scores",
	"correctAnswers":       "correct_answers",
	"incorrectAnswers":     "incorrect_answers",
	"xp":                   "xp",
	"currentCurriculum":    "current_curriculum",
	"currentQuestionId":    "current_question",
	"updatedAt":            "updated_at",
}

// jsonSessionColumns holds the columns whose values are stored as JSON
// documents rather than scalars.
var jsonSessionColumns = map[string]struct{}{
	"completed_curriculums": {},
	"content_scores":        {},
	"curriculum_scores":     {},
	"correct_answers":       {},
	"incorrect_answers":     {},
	"xp":                    {},
}

func (s *syncService) UpdateUserSession(ctx context.Context, userID uuid.UUID, updates map[string]interface{}) error {
	if userID == uuid.Nil {
		return apierr.BadRequest("user id required")
	}
	if len(updates) == 0 {
		return nil
	}

	fields := make(map[string]interface{}, len(updates))
	for key, value := range updates {
		column, known := sessionColumns[key]
		if !known {
			s.log.Warn("Ignoring unknown session key", "user_id", userID, "key", key)
			continue
		}
		if column == "updated_at" {
			raw, ok := value.(string)
			if !ok {
				return apierr.BadRequest("updatedAt must be a timestamp string")
			}
			parsed, err := parseWatermark(raw)
			if err != nil {
				return apierr.BadRequest("unparseable updatedAt %q", raw)
			}
			fields[column] = parsed
			continue
		}
		if _, isJSON := jsonSessionColumns[column]; isJSON {
			encoded, err := json.Marshal(value)
			if err != nil {
				return apierr.BadRequest("unencodable value for %s", key)
			}
			fields[column] = datatypes.JSON(encoded)
			continue
		}
		fields[column] = value
	}
	if len(fields) == 0 {
		return nil
	}
	if _, ok := fields["updated_at"]; !ok {
		fields["updated_at"] = time.Now().UTC().Truncate(time.Millisecond)
	}

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users, err := s.userRepo.GetByIDs(ctx, tx, []uuid.UUID{userID})
		if err != nil {
			return fmt.Errorf("fetching account: %w", err)
		}
		if len(users) == 0 {
			return apierr.NotFound("account not found")
		}
		return s.userRepo.UpdateFields(ctx, tx, userID, fields)
	}); err != nil {
		s.log.Warn("Failed to update session", "user_id", userID, "error", err)
		return err
	}
	return nil
}

// parseWatermark accepts both timestamp shapes the client emits. An
// empty watermark means "from the beginning".
func parseWatermark(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(timestampLayout, raw); err == nil {
		return t, nil
	}
	return time.Parse(timestampLayoutFallback, raw)
}

func decodeJSONColumn(column datatypes.JSON) interface{} {
	if len(column) == 0 {
		return nil
	}
	var decoded interface{}
	if err := json.Unmarshal(column, &decoded); err != nil {
		return nil
	}
	return decoded
}
