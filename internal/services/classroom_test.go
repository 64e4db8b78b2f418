package services

import (
	"testing"

	"github.com/montanus-wecib/mps-backend/internal/apierr"
	"github.com/montanus-wecib/mps-backend/internal/types"
)

func newClassroomService(t *testing.T) (ClassroomService, *testDeps) {
	t.Helper()
	db := openTestDB(t)
	log := testLogger()
	r := newTestRepos(db, log)
	svc := NewClassroomService(db, log, r.admin, r.user, r.classroom, r.classroomUser)
	return svc, &testDeps{db: db, log: log}
}

func TestCreateClassroom(t *testing.T) {
	svc, deps := newClassroomService(t)
	db := deps.db

	teacher := seedUser(t, db, "teacher1")
	seedAdmin(t, db, teacher, types.RoleTeacher)
	ctx := callerContext(teacher)

	classroom, err := svc.CreateClassroom(ctx, "ROOM1", "Period 1")
	if err != nil {
		t.Fatalf("CreateClassroom: %v", err)
	}
	if classroom.AdminID != teacher.ID {
		t.Fatalf("classroom not owned by creator: %+v", classroom)
	}

	if _, err := svc.CreateClassroom(ctx, "ROOM1", "Period 2"); !apierr.HasCode(err, "conflict") {
		t.Fatal("expected conflict for duplicate class code")
	}
}

func TestCreateClassroomRequiresAdmin(t *testing.T) {
	svc, deps := newClassroomService(t)
	learner := seedUser(t, deps.db, "learner")

	_, err := svc.CreateClassroom(callerContext(learner), "ROOM1", "")
	if !apierr.HasCode(err, "forbidden") {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestFetchRosterOwnership(t *testing.T) {
	svc, deps := newClassroomService(t)
	db := deps.db

	owner := seedUser(t, db, "teacher1")
	seedAdmin(t, db, owner, types.RoleTeacher)
	rival := seedUser(t, db, "teacher2")
	seedAdmin(t, db, rival, types.RoleTeacher)
	sysUser := seedUser(t, db, "sysadmin")
	seedAdmin(t, db, sysUser, types.RoleSystem)

	classroom := seedClassroom(t, db, "ROOM1", owner.ID)
	student := seedUser(t, db, "alice")
	linkClassroomUser(t, db, classroom.ID, student.ID)

	emails, err := svc.FetchRoster(callerContext(owner), "ROOM1")
	if err != nil {
		t.Fatalf("FetchRoster: %v", err)
	}
	if len(emails) != 1 || emails[0] != student.Email {
		t.Fatalf("unexpected roster: %v", emails)
	}

	if _, err := svc.FetchRoster(callerContext(rival), "ROOM1"); !apierr.HasCode(err, "forbidden") {
		t.Fatal("expected forbidden for non-owner teacher")
	}
	if _, err := svc.FetchRoster(callerContext(sysUser), "ROOM1"); err != nil {
		t.Fatalf("system admin must read any roster: %v", err)
	}
}
