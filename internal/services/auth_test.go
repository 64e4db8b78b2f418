package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/montanus-wecib/mps-backend/internal/apierr"
	"github.com/montanus-wecib/mps-backend/internal/requestdata"
)

func newAuthService(t *testing.T) (AuthService, *testDeps) {
	t.Helper()
	db := openTestDB(t)
	log := testLogger()
	r := newTestRepos(db, log)
	svc := NewAuthService(db, log, r.user, "test-secret", time.Hour)
	return svc, &testDeps{db: db, log: log}
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "s3cret", "alice@example.com")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID == uuid.Nil {
		t.Fatal("registered account must carry an id")
	}
	if string(user.CompletedCurriculums) != "[]" || string(user.ContentScores) != "{}" {
		t.Fatalf("session cache defaults not seeded: %s %s", user.CompletedCurriculums, user.ContentScores)
	}

	token, loggedIn, err := svc.Login(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" || loggedIn.ID != user.ID {
		t.Fatalf("unexpected login result: %q %v", token, loggedIn.ID)
	}

	authed, err := svc.SetContextFromToken(ctx, token)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := requestdata.GetRequestData(authed)
	if rd == nil || rd.UserID != user.ID || rd.Username != "alice" {
		t.Fatalf("request data not stamped: %+v", rd)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "pw1", ""); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(ctx, "alice", "pw2", "")
	if !apierr.HasCode(err, "conflict") {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "right", ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, err := svc.Login(ctx, "alice", "wrong"); err == nil {
		t.Fatal("expected error for wrong password")
	}
}

func TestSetContextFromTokenRejectsGarbage(t *testing.T) {
	svc, _ := newAuthService(t)
	if _, err := svc.SetContextFromToken(context.Background(), "not-a-token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}
