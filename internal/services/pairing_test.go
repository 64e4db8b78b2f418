package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/montanus-wecib/mps-backend/internal/apierr"
)

func newPairingService(t *testing.T) (PairingService, testRepos, *testDeps) {
	t.Helper()
	db := openTestDB(t)
	log := testLogger()
	r := newTestRepos(db, log)
	svc := NewPairingService(db, log, r.content, r.curriculum, r.question, r.contentCurriculum, r.curriculumQuestion)
	return svc, r, &testDeps{db: db, log: log}
}

func TestEqualizeContentCurriculumsConverges(t *testing.T) {
	svc, r, deps := newPairingService(t)
	db := deps.db
	ctx := context.Background()

	content := seedContent(t, db, "algebra", nil)
	keep := seedCurriculum(t, db, "keep", nil)
	drop := seedCurriculum(t, db, "drop", nil)
	add := seedCurriculum(t, db, "add", nil)
	pairContentCurriculum(t, db, content.ID, keep.ID, 0)
	pairContentCurriculum(t, db, content.ID, drop.ID, 1)

	if err := svc.EqualizeContentCurriculums(ctx, "algebra", []string{"keep", "add"}); err != nil {
		t.Fatalf("EqualizeContentCurriculums: %v", err)
	}

	links, err := r.contentCurriculum.GetByContentIDs(ctx, nil, []uuid.UUID{content.ID})
	if err != nil {
		t.Fatalf("fetching links: %v", err)
	}
	got := map[uuid.UUID]bool{}
	for _, link := range links {
		got[link.CurriculumID] = true
	}
	if !got[keep.ID] || !got[add.ID] || got[drop.ID] || len(links) != 2 {
		t.Fatalf("links did not converge to target set: %v", links)
	}

	// Idempotent on repeat.
	if err := svc.EqualizeContentCurriculums(ctx, "algebra", []string{"keep", "add"}); err != nil {
		t.Fatalf("repeat equalize: %v", err)
	}
	again, err := r.contentCurriculum.GetByContentIDs(ctx, nil, []uuid.UUID{content.ID})
	if err != nil {
		t.Fatalf("refetching links: %v", err)
	}
	if len(again) != 2 {
		t.Fatalf("expected 2 links after repeat, got %d", len(again))
	}
}

func TestEqualizeContentCurriculumsSkipsUnknownKeys(t *testing.T) {
	svc, r, deps := newPairingService(t)
	db := deps.db
	ctx := context.Background()

	content := seedContent(t, db, "algebra", nil)
	known := seedCurriculum(t, db, "known", nil)

	if err := svc.EqualizeContentCurriculums(ctx, "algebra", []string{"known", "ghost"}); err != nil {
		t.Fatalf("EqualizeContentCurriculums: %v", err)
	}
	links, err := r.contentCurriculum.GetByContentIDs(ctx, nil, []uuid.UUID{content.ID})
	if err != nil {
		t.Fatalf("fetching links: %v", err)
	}
	if len(links) != 1 || links[0].CurriculumID != known.ID {
		t.Fatalf("unknown key should be skipped, got %v", links)
	}
}

func TestEqualizeContentCurriculumsMissingContent(t *testing.T) {
	svc, _, _ := newPairingService(t)
	err := svc.EqualizeContentCurriculums(context.Background(), "missing", []string{"x"})
	if !apierr.HasCode(err, "not_found") {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestEqualizeContentCurriculumsConflictOnOwnedCurriculum(t *testing.T) {
	svc, _, deps := newPairingService(t)
	db := deps.db

	mine := seedContent(t, db, "algebra", nil)
	other := seedContent(t, db, "geometry", nil)
	taken := seedCurriculum(t, db, "taken", nil)
	pairContentCurriculum(t, db, other.ID, taken.ID, 0)
	_ = mine

	err := svc.EqualizeContentCurriculums(context.Background(), "algebra", []string{"taken"})
	if !apierr.HasCode(err, "conflict") {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestEqualizeCurriculumQuestionsPreservesSubmittedOrder(t *testing.T) {
	svc, r, deps := newPairingService(t)
	db := deps.db
	ctx := context.Background()

	curriculum := seedCurriculum(t, db, "unit-1", nil)
	q1 := seedQuestion(t, db, "t-1", 0.1, nil)
	q2 := seedQuestion(t, db, "t-2", 0.2, nil)
	q3 := seedQuestion(t, db, "t-3", 0.3, nil)

	if err := svc.EqualizeCurriculumQuestions(ctx, "unit-1", []string{"t-3", "t-1", "t-2"}); err != nil {
		t.Fatalf("EqualizeCurriculumQuestions: %v", err)
	}
	links, err := r.curriculumQuestion.GetByCurriculumIDs(ctx, nil, []uuid.UUID{curriculum.ID})
	if err != nil {
		t.Fatalf("fetching links: %v", err)
	}
	if len(links) != 3 {
		t.Fatalf("expected 3 links, got %d", len(links))
	}
	if links[0].QuestionID != q3.ID || links[1].QuestionID != q1.ID || links[2].QuestionID != q2.ID {
		t.Fatalf("stored order does not follow submitted order: %v", links)
	}
	for i, link := range links {
		if link.Ordinal != i {
			t.Fatalf("expected ordinal %d at index %d, got %d", i, i, link.Ordinal)
		}
	}
}

func TestEqualizeCurriculumQuestionsReordersKeptLinks(t *testing.T) {
	svc, r, deps := newPairingService(t)
	db := deps.db
	ctx := context.Background()

	curriculum := seedCurriculum(t, db, "unit-1", nil)
	q1 := seedQuestion(t, db, "t-1", 0.1, nil)
	q2 := seedQuestion(t, db, "t-2", 0.2, nil)
	q3 := seedQuestion(t, db, "t-3", 0.3, nil)

	if err := svc.EqualizeCurriculumQuestions(ctx, "unit-1", []string{"t-1", "t-2", "t-3"}); err != nil {
		t.Fatalf("EqualizeCurriculumQuestions: %v", err)
	}
	// Resubmitting the same set in a new order must move the kept links,
	// not just leave them where they were inserted.
	if err := svc.EqualizeCurriculumQuestions(ctx, "unit-1", []string{"t-3", "t-1", "t-2"}); err != nil {
		t.Fatalf("reorder equalize: %v", err)
	}

	links, err := r.curriculumQuestion.GetByCurriculumIDs(ctx, nil, []uuid.UUID{curriculum.ID})
	if err != nil {
		t.Fatalf("fetching links: %v", err)
	}
	if len(links) != 3 {
		t.Fatalf("expected 3 links, got %d", len(links))
	}
	if links[0].QuestionID != q3.ID || links[1].QuestionID != q1.ID || links[2].QuestionID != q2.ID {
		t.Fatalf("kept links not reordered to submitted order: %v", links)
	}
}

func TestEqualizeCurriculumQuestionsRemovesStale(t *testing.T) {
	svc, r, deps := newPairingService(t)
	db := deps.db
	ctx := context.Background()

	curriculum := seedCurriculum(t, db, "unit-1", nil)
	stale := seedQuestion(t, db, "stale", 0.1, nil)
	fresh := seedQuestion(t, db, "fresh", 0.2, nil)
	pairCurriculumQuestion(t, db, curriculum.ID, stale.ID, 0)

	if err := svc.EqualizeCurriculumQuestions(ctx, "unit-1", []string{"fresh"}); err != nil {
		t.Fatalf("EqualizeCurriculumQuestions: %v", err)
	}
	links, err := r.curriculumQuestion.GetByCurriculumIDs(ctx, nil, []uuid.UUID{curriculum.ID})
	if err != nil {
		t.Fatalf("fetching links: %v", err)
	}
	if len(links) != 1 || links[0].QuestionID != fresh.ID {
		t.Fatalf("stale pairing not removed: %v", links)
	}
}

func TestEqualizeCurriculumQuestionsMissingCurriculum(t *testing.T) {
	svc, _, _ := newPairingService(t)
	err := svc.EqualizeCurriculumQuestions(context.Background(), "missing", nil)
	if !apierr.HasCode(err, "not_found") {
		t.Fatalf("expected not_found, got %v", err)
	}
}
