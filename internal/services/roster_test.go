package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/montanus-wecib/mps-backend/internal/apierr"
	"github.com/montanus-wecib/mps-backend/internal/types"
)

func newRosterService(t *testing.T) (RosterService, testRepos, *testDeps) {
	t.Helper()
	db := openTestDB(t)
	log := testLogger()
	r := newTestRepos(db, log)
	svc := NewRosterService(db, log, r.user, r.classroom, r.content, r.classroomUser, r.classroomContent)
	return svc, r, &testDeps{db: db, log: log}
}

func TestAddToClassroomPartialSuccess(t *testing.T) {
	svc, r, deps := newRosterService(t)
	db := deps.db
	ctx := context.Background()

	teacher := seedUser(t, db, "teacher1")
	seedAdmin(t, db, teacher, types.RoleTeacher)
	classroom := seedClassroom(t, db, "ROOM1", teacher.ID)
	known := seedUser(t, db, "alice")

	status, err := svc.AddToClassroom(ctx, "ROOM1", &types.RosterPayload{
		Accounts: []string{known.Email, "ghost@example.com"},
	})
	if err != nil {
		t.Fatalf("AddToClassroom: %v", err)
	}
	if status.ErrorMsg != "" {
		t.Fatalf("partial success must not set error_msg: %q", status.ErrorMsg)
	}
	if len(status.NotFoundEmails) != 1 || status.NotFoundEmails[0] != "ghost@example.com" {
		t.Fatalf("unexpected not_found_emails: %v", status.NotFoundEmails)
	}

	members, err := r.classroomUser.GetByClassroomIDs(ctx, nil, []uuid.UUID{classroom.ID})
	if err != nil {
		t.Fatalf("fetching roster: %v", err)
	}
	if len(members) != 1 || members[0].UserID != known.ID {
		t.Fatalf("expected alice on roster: %v", members)
	}
}

func TestAddToClassroomIdempotentMembership(t *testing.T) {
	svc, r, deps := newRosterService(t)
	db := deps.db
	ctx := context.Background()

	teacher := seedUser(t, db, "teacher1")
	seedAdmin(t, db, teacher, types.RoleTeacher)
	classroom := seedClassroom(t, db, "ROOM1", teacher.ID)
	student := seedUser(t, db, "alice")
	payload := &types.RosterPayload{Accounts: []string{student.Email}}

	if _, err := svc.AddToClassroom(ctx, "ROOM1", payload); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if _, err := svc.AddToClassroom(ctx, "ROOM1", payload); err != nil {
		t.Fatalf("second add: %v", err)
	}
	members, err := r.classroomUser.GetByClassroomIDs(ctx, nil, []uuid.UUID{classroom.ID})
	if err != nil {
		t.Fatalf("fetching roster: %v", err)
	}
	if len(members) != 1 {
		t.Fatalf("repeat add must not duplicate membership: %v", members)
	}
}

func TestAddToClassroomLinksContentAreas(t *testing.T) {
	svc, r, deps := newRosterService(t)
	db := deps.db
	ctx := context.Background()

	teacher := seedUser(t, db, "teacher1")
	seedAdmin(t, db, teacher, types.RoleTeacher)
	classroom := seedClassroom(t, db, "ROOM1", teacher.ID)
	content := seedContent(t, db, "algebra", nil)

	if _, err := svc.AddToClassroom(ctx, "ROOM1", &types.RosterPayload{
		ContentAreas: []string{"algebra", "ghost-content"},
	}); err != nil {
		t.Fatalf("AddToClassroom: %v", err)
	}
	links, err := r.classroomContent.GetByClassroomIDs(ctx, nil, []uuid.UUID{classroom.ID})
	if err != nil {
		t.Fatalf("fetching links: %v", err)
	}
	if len(links) != 1 || links[0].ContentID != content.ID {
		t.Fatalf("expected one content link, got %v", links)
	}
}

func TestRemoveFromClassroom(t *testing.T) {
	svc, r, deps := newRosterService(t)
	db := deps.db
	ctx := context.Background()

	teacher := seedUser(t, db, "teacher1")
	seedAdmin(t, db, teacher, types.RoleTeacher)
	classroom := seedClassroom(t, db, "ROOM1", teacher.ID)
	stay := seedUser(t, db, "alice")
	leave := seedUser(t, db, "bob")
	linkClassroomUser(t, db, classroom.ID, stay.ID)
	linkClassroomUser(t, db, classroom.ID, leave.ID)
	content := seedContent(t, db, "algebra", nil)
	linkClassroomContent(t, db, classroom.ID, content.ID)

	status, err := svc.RemoveFromClassroom(ctx, "ROOM1", &types.RosterPayload{
		Accounts:     []string{leave.Email},
		ContentAreas: []string{"algebra"},
	})
	if err != nil {
		t.Fatalf("RemoveFromClassroom: %v", err)
	}
	if len(status.NotFoundEmails) != 0 {
		t.Fatalf("unexpected not_found_emails: %v", status.NotFoundEmails)
	}

	members, err := r.classroomUser.GetByClassroomIDs(ctx, nil, []uuid.UUID{classroom.ID})
	if err != nil {
		t.Fatalf("fetching roster: %v", err)
	}
	if len(members) != 1 || members[0].UserID != stay.ID {
		t.Fatalf("expected only alice to remain: %v", members)
	}
	links, err := r.classroomContent.GetByClassroomIDs(ctx, nil, []uuid.UUID{classroom.ID})
	if err != nil {
		t.Fatalf("fetching links: %v", err)
	}
	if len(links) != 0 {
		t.Fatalf("expected content link removed: %v", links)
	}
}

func TestAddToClassroomUnknownClassroom(t *testing.T) {
	svc, _, _ := newRosterService(t)
	_, err := svc.AddToClassroom(context.Background(), "NOPE", &types.RosterPayload{})
	if !apierr.HasCode(err, "not_found") {
		t.Fatalf("expected not_found, got %v", err)
	}
}
