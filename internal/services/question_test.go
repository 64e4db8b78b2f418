package services

import (
	"context"
	"testing"

	"github.com/montanus-wecib/mps-backend/internal/apierr"
	"github.com/montanus-wecib/mps-backend/internal/types"
)

func newQuestionService(t *testing.T) (QuestionService, *testDeps) {
	t.Helper()
	db := openTestDB(t)
	log := testLogger()
	r := newTestRepos(db, log)
	svc := NewQuestionService(db, log, r.admin, r.content, r.curriculum, r.question)
	return svc, &testDeps{db: db, log: log}
}

func TestNewQuestionStampsCreator(t *testing.T) {
	svc, deps := newQuestionService(t)
	db := deps.db

	teacher := seedUser(t, db, "teacher1")
	seedAdmin(t, db, teacher, types.RoleTeacher)

	created, err := svc.NewQuestion(callerContext(teacher), &types.Question{
		TaskKey:    "t-1",
		Question:   "2+2?",
		Answer:     "4",
		Difficulty: 0.2,
	})
	if err != nil {
		t.Fatalf("NewQuestion: %v", err)
	}
	if created.CreatorID == nil || *created.CreatorID != teacher.ID {
		t.Fatalf("creator not stamped: %+v", created)
	}
}

func TestNewQuestionRequiresAdmin(t *testing.T) {
	svc, deps := newQuestionService(t)
	learner := seedUser(t, deps.db, "learner")

	_, err := svc.NewQuestion(callerContext(learner), &types.Question{TaskKey: "t-1"})
	if !apierr.HasCode(err, "forbidden") {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestNewQuestionDuplicateTaskKey(t *testing.T) {
	svc, deps := newQuestionService(t)
	db := deps.db

	teacher := seedUser(t, db, "teacher1")
	seedAdmin(t, db, teacher, types.RoleTeacher)
	ctx := callerContext(teacher)

	if _, err := svc.NewQuestion(ctx, &types.Question{TaskKey: "t-1"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.NewQuestion(ctx, &types.Question{TaskKey: "t-1"})
	if !apierr.HasCode(err, "conflict") {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateQuestionOwnershipAndAllowlist(t *testing.T) {
	svc, deps := newQuestionService(t)
	db := deps.db

	owner := seedUser(t, db, "teacher1")
	seedAdmin(t, db, owner, types.RoleTeacher)
	rival := seedUser(t, db, "teacher2")
	seedAdmin(t, db, rival, types.RoleTeacher)
	seedQuestion(t, db, "t-1", 0.5, &owner.ID)

	err := svc.UpdateQuestion(callerContext(rival), "t-1", map[string]interface{}{"answer": "hacked"})
	if !apierr.HasCode(err, "forbidden") {
		t.Fatalf("expected forbidden for non-owner, got %v", err)
	}

	if err := svc.UpdateQuestion(callerContext(owner), "t-1", map[string]interface{}{
		"answer":   "42",
		"task_key": "renamed", // not updatable, must be dropped
	}); err != nil {
		t.Fatalf("owner update: %v", err)
	}
	question, err := svc.FetchQuestion(context.Background(), "t-1")
	if err != nil {
		t.Fatalf("FetchQuestion: %v", err)
	}
	if question.Answer != "42" {
		t.Fatalf("answer not updated: %+v", question)
	}
}

func TestAddContentAndCurriculumKeys(t *testing.T) {
	svc, deps := newQuestionService(t)
	db := deps.db

	sysUser := seedUser(t, db, "sysadmin")
	seedAdmin(t, db, sysUser, types.RoleSystem)
	ctx := callerContext(sysUser)

	content, err := svc.AddContentKey(ctx, "algebra")
	if err != nil {
		t.Fatalf("AddContentKey: %v", err)
	}
	if content.ContentKey != "algebra" {
		t.Fatalf("unexpected content: %+v", content)
	}
	if _, err := svc.AddContentKey(ctx, "algebra"); !apierr.HasCode(err, "conflict") {
		t.Fatal("expected conflict for duplicate content key")
	}

	curriculum, err := svc.AddCurriculumKey(ctx, "unit-1")
	if err != nil {
		t.Fatalf("AddCurriculumKey: %v", err)
	}
	if curriculum.CreatorID == nil || *curriculum.CreatorID != sysUser.ID {
		t.Fatalf("creator not stamped: %+v", curriculum)
	}
}
