package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/montanus-wecib/mps-backend/internal/logger"
	"github.com/montanus-wecib/mps-backend/internal/repos"
	"github.com/montanus-wecib/mps-backend/internal/requestdata"
	"github.com/montanus-wecib/mps-backend/internal/types"
)

type testDeps struct {
	db  *gorm.DB
	log *logger.Logger
}

func testLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	if err := db.AutoMigrate(
		&types.User{},
		&types.Admin{},
		&types.Classroom{},
		&types.Content{},
		&types.Curriculum{},
		&types.Question{},
		&types.ClassroomUser{},
		&types.ClassroomContent{},
		&types.UserContent{},
		&types.UserCurriculum{},
		&types.ContentCurriculum{},
		&types.CurriculumQuestion{},
		&types.XPEvent{},
	); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}
	return db
}

type testRepos struct {
	user               repos.UserRepo
	admin              repos.AdminRepo
	classroom          repos.ClassroomRepo
	content            repos.ContentRepo
	curriculum         repos.CurriculumRepo
	question           repos.QuestionRepo
	classroomUser      repos.ClassroomUserRepo
	classroomContent   repos.ClassroomContentRepo
	userContent        repos.UserContentRepo
	userCurriculum     repos.UserCurriculumRepo
	contentCurriculum  repos.ContentCurriculumRepo
	curriculumQuestion repos.CurriculumQuestionRepo
	xpEvent            repos.XPEventRepo
}

func newTestRepos(db *gorm.DB, log *logger.Logger) testRepos {
	return testRepos{
		user:               repos.NewUserRepo(db, log),
		admin:              repos.NewAdminRepo(db, log),
		classroom:          repos.NewClassroomRepo(db, log),
		content:            repos.NewContentRepo(db, log),
		curriculum:         repos.NewCurriculumRepo(db, log),
		question:           repos.NewQuestionRepo(db, log),
		classroomUser:      repos.NewClassroomUserRepo(db, log),
		classroomContent:   repos.NewClassroomContentRepo(db, log),
		userContent:        repos.NewUserContentRepo(db, log),
		userCurriculum:     repos.NewUserCurriculumRepo(db, log),
		contentCurriculum:  repos.NewContentCurriculumRepo(db, log),
		curriculumQuestion: repos.NewCurriculumQuestionRepo(db, log),
		xpEvent:            repos.NewXPEventRepo(db, log),
	}
}

func seedUser(t *testing.T, db *gorm.DB, username string) *types.User {
	t.Helper()
	user := &types.User{
		ID:                   uuid.New(),
		Username:             username,
		PasswordHash:         []byte("x"),
		Email:                username + "@example.com",
		CompletedCurriculums: datatypes.JSON("[]"),
		ContentScores:        datatypes.JSON("{}"),
		CorrectAnswers:       datatypes.JSON("{}"),
		IncorrectAnswers:     datatypes.JSON("{}"),
		CurriculumScores:     datatypes.JSON("{}"),
		XP:                   datatypes.JSON("{}"),
		UpdatedAt:            time.Now().UTC().Truncate(time.Millisecond),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seeding user %s: %v", username, err)
	}
	return user
}

func seedAdmin(t *testing.T, db *gorm.DB, user *types.User, role string) *types.Admin {
	t.Helper()
	admin := &types.Admin{ID: user.ID, Role: role}
	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("seeding admin %s: %v", user.Username, err)
	}
	return admin
}

func seedClassroom(t *testing.T, db *gorm.DB, code string, adminID uuid.UUID) *types.Classroom {
	t.Helper()
	classroom := &types.Classroom{ID: uuid.New(), Code: code, Name: code, AdminID: adminID}
	if err := db.Create(classroom).Error; err != nil {
		t.Fatalf("seeding classroom %s: %v", code, err)
	}
	return classroom
}

func seedContent(t *testing.T, db *gorm.DB, key string, creatorID *uuid.UUID) *types.Content {
	t.Helper()
	content := &types.Content{ID: uuid.New(), ContentKey: key, CreatorID: creatorID}
	if err := db.Create(content).Error; err != nil {
		t.Fatalf("seeding content %s: %v", key, err)
	}
	return content
}

func seedCurriculum(t *testing.T, db *gorm.DB, key string, creatorID *uuid.UUID) *types.Curriculum {
	t.Helper()
	curriculum := &types.Curriculum{ID: uuid.New(), CurriculumKey: key, CreatorID: creatorID}
	if err := db.Create(curriculum).Error; err != nil {
		t.Fatalf("seeding curriculum %s: %v", key, err)
	}
	return curriculum
}

func seedQuestion(t *testing.T, db *gorm.DB, taskKey string, difficulty float64, creatorID *uuid.UUID) *types.Question {
	t.Helper()
	question := &types.Question{
		ID:         uuid.New(),
		TaskKey:    taskKey,
		Standard:   1,
		Objective:  2,
		Difficulty: difficulty,
		Question:   "q",
		Answer:     "a",
		CreatorID:  creatorID,
	}
	if err := db.Create(question).Error; err != nil {
		t.Fatalf("seeding question %s: %v", taskKey, err)
	}
	return question
}

func linkClassroomUser(t *testing.T, db *gorm.DB, classroomID, userID uuid.UUID) {
	t.Helper()
	link := &types.ClassroomUser{ID: uuid.New(), ClassroomID: classroomID, UserID: userID, JoinedAt: time.Now().UTC()}
	if err := db.Create(link).Error; err != nil {
		t.Fatalf("linking classroom user: %v", err)
	}
}

func linkClassroomContent(t *testing.T, db *gorm.DB, classroomID, contentID uuid.UUID) {
	t.Helper()
	link := &types.ClassroomContent{ID: uuid.New(), ClassroomID: classroomID, ContentID: contentID}
	if err := db.Create(link).Error; err != nil {
		t.Fatalf("linking classroom content: %v", err)
	}
}

func linkUserContent(t *testing.T, db *gorm.DB, userID, contentID uuid.UUID) {
	t.Helper()
	link := &types.UserContent{ID: uuid.New(), UserID: userID, ContentID: contentID}
	if err := db.Create(link).Error; err != nil {
		t.Fatalf("linking user content: %v", err)
	}
}

func linkUserCurriculum(t *testing.T, db *gorm.DB, userID, curriculumID uuid.UUID) {
	t.Helper()
	link := &types.UserCurriculum{ID: uuid.New(), UserID: userID, CurriculumID: curriculumID}
	if err := db.Create(link).Error; err != nil {
		t.Fatalf("linking user curriculum: %v", err)
	}
}

func pairContentCurriculum(t *testing.T, db *gorm.DB, contentID, curriculumID uuid.UUID, ordinal int) {
	t.Helper()
	link := &types.ContentCurriculum{ID: uuid.New(), ContentID: contentID, CurriculumID: curriculumID, Ordinal: ordinal}
	if err := db.Create(link).Error; err != nil {
		t.Fatalf("pairing content curriculum: %v", err)
	}
}

func pairCurriculumQuestion(t *testing.T, db *gorm.DB, curriculumID, questionID uuid.UUID, ordinal int) {
	t.Helper()
	link := &types.CurriculumQuestion{ID: uuid.New(), CurriculumID: curriculumID, QuestionID: questionID, Ordinal: ordinal}
	if err := db.Create(link).Error; err != nil {
		t.Fatalf("pairing curriculum question: %v", err)
	}
}

func callerContext(user *types.User) context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		UserID:   user.ID,
		Username: user.Username,
	})
}
