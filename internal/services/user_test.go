package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func newUserService(t *testing.T) (UserService, testRepos, *testDeps) {
	t.Helper()
	db := openTestDB(t)
	log := testLogger()
	r := newTestRepos(db, log)
	svc := NewUserService(db, log, r.user, r.content, r.curriculum, r.userContent, r.userCurriculum)
	return svc, r, &testDeps{db: db, log: log}
}

func TestAssignAndUnassignContent(t *testing.T) {
	svc, r, deps := newUserService(t)
	db := deps.db
	ctx := context.Background()

	learner := seedUser(t, db, "learner")
	content := seedContent(t, db, "algebra", nil)

	if err := svc.AssignContent(ctx, learner.ID, []string{"algebra", "ghost"}); err != nil {
		t.Fatalf("AssignContent: %v", err)
	}
	links, err := r.userContent.GetByUserIDs(ctx, nil, []uuid.UUID{learner.ID})
	if err != nil {
		t.Fatalf("fetching links: %v", err)
	}
	if len(links) != 1 || links[0].ContentID != content.ID {
		t.Fatalf("expected one content link: %v", links)
	}

	// Repeat assign is a no-op, not a duplicate.
	if err := svc.AssignContent(ctx, learner.ID, []string{"algebra"}); err != nil {
		t.Fatalf("repeat AssignContent: %v", err)
	}
	links, err = r.userContent.GetByUserIDs(ctx, nil, []uuid.UUID{learner.ID})
	if err != nil {
		t.Fatalf("refetching links: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("repeat assign duplicated link: %v", links)
	}

	if err := svc.UnassignContent(ctx, learner.ID, []string{"algebra"}); err != nil {
		t.Fatalf("UnassignContent: %v", err)
	}
	links, err = r.userContent.GetByUserIDs(ctx, nil, []uuid.UUID{learner.ID})
	if err != nil {
		t.Fatalf("refetching links: %v", err)
	}
	if len(links) != 0 {
		t.Fatalf("expected no links after unassign: %v", links)
	}
}

func TestAssignCurriculums(t *testing.T) {
	svc, r, deps := newUserService(t)
	db := deps.db
	ctx := context.Background()

	learner := seedUser(t, db, "learner")
	curriculum := seedCurriculum(t, db, "extras", nil)

	if err := svc.AssignCurriculums(ctx, learner.ID, []string{"extras"}); err != nil {
		t.Fatalf("AssignCurriculums: %v", err)
	}
	links, err := r.userCurriculum.GetByUserIDs(ctx, nil, []uuid.UUID{learner.ID})
	if err != nil {
		t.Fatalf("fetching links: %v", err)
	}
	if len(links) != 1 || links[0].CurriculumID != curriculum.ID {
		t.Fatalf("expected one curriculum link: %v", links)
	}
}

func TestFetchUsernamesSorted(t *testing.T) {
	svc, _, deps := newUserService(t)
	db := deps.db

	seedUser(t, db, "zoe")
	seedUser(t, db, "alice")

	usernames, err := svc.FetchUsernames(context.Background())
	if err != nil {
		t.Fatalf("FetchUsernames: %v", err)
	}
	if len(usernames) != 2 || usernames[0] != "alice" || usernames[1] != "zoe" {
		t.Fatalf("unexpected usernames: %v", usernames)
	}
}

func TestDeleteUserHidesAccount(t *testing.T) {
	svc, _, deps := newUserService(t)
	db := deps.db
	ctx := context.Background()

	learner := seedUser(t, db, "learner")
	if err := svc.DeleteUser(ctx, learner.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, err := svc.FetchUserData(ctx, learner.ID); err == nil {
		t.Fatal("deleted account must not resolve")
	}
}

func TestDeleteUserUnknownAccount(t *testing.T) {
	svc, _, _ := newUserService(t)
	if err := svc.DeleteUser(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected error for unknown account")
	}
}
