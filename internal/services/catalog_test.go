package services

import (
	"context"
	"testing"

	"github.com/montanus-wecib/mps-backend/internal/apierr"
	"github.com/montanus-wecib/mps-backend/internal/types"
)

func newCatalogService(t *testing.T) (CatalogService, *testDeps) {
	t.Helper()
	db := openTestDB(t)
	log := testLogger()
	r := newTestRepos(db, log)
	svc := NewCatalogService(
		db, log,
		r.admin, r.classroom, r.classroomContent,
		r.content, r.curriculum, r.question,
		r.contentCurriculum, r.curriculumQuestion,
	)
	return svc, &testDeps{db: db, log: log}
}

func TestFetchCatalogSystemSeesEverything(t *testing.T) {
	svc, deps := newCatalogService(t)
	db := deps.db

	sysUser := seedUser(t, db, "sysadmin")
	seedAdmin(t, db, sysUser, types.RoleSystem)

	content := seedContent(t, db, "algebra", nil)
	paired := seedCurriculum(t, db, "unit-1", nil)
	free := seedCurriculum(t, db, "extras", nil)
	pairContentCurriculum(t, db, content.ID, paired.ID, 0)
	pairedQ := seedQuestion(t, db, "t-1", 0.5, nil)
	freeQ := seedQuestion(t, db, "t-2", 0.5, nil)
	pairCurriculumQuestion(t, db, paired.ID, pairedQ.ID, 0)

	catalog, err := svc.FetchCatalog(callerContext(sysUser))
	if err != nil {
		t.Fatalf("FetchCatalog: %v", err)
	}

	if got := catalog.ContentDict["algebra"]; len(got) != 1 || got[0] != "unit-1" {
		t.Fatalf("unexpected content_dict: %v", catalog.ContentDict)
	}
	if len(catalog.AllCurriculums) != 2 {
		t.Fatalf("unexpected all_curriculums: %v", catalog.AllCurriculums)
	}
	if len(catalog.CustomCurriculums) != 1 || catalog.CustomCurriculums[0] != "extras" {
		t.Fatalf("unexpected custom_curriculums: %v", catalog.CustomCurriculums)
	}
	if got := catalog.CurriculumDict["unit-1"]; len(got) != 1 || got[0] != "t-1" {
		t.Fatalf("unexpected curriculum_dict: %v", catalog.CurriculumDict)
	}
	if len(catalog.AvailableQuestions) != 1 || catalog.AvailableQuestions[0] != "t-2" {
		t.Fatalf("unexpected available_questions: %v", catalog.AvailableQuestions)
	}
	_ = freeQ
	_ = free
}

func TestFetchCatalogPartitionsAreDisjoint(t *testing.T) {
	svc, deps := newCatalogService(t)
	db := deps.db

	sysUser := seedUser(t, db, "sysadmin")
	seedAdmin(t, db, sysUser, types.RoleSystem)

	content := seedContent(t, db, "algebra", nil)
	paired := seedCurriculum(t, db, "unit-1", nil)
	seedCurriculum(t, db, "extras", nil)
	pairContentCurriculum(t, db, content.ID, paired.ID, 0)

	catalog, err := svc.FetchCatalog(callerContext(sysUser))
	if err != nil {
		t.Fatalf("FetchCatalog: %v", err)
	}
	for _, key := range catalog.CustomCurriculums {
		if _, paired := catalog.CurriculumDict[key]; paired {
			t.Fatalf("curriculum %q appears both free and paired", key)
		}
	}
	if len(catalog.CustomCurriculums)+len(catalog.CurriculumDict) != len(catalog.AllCurriculums) {
		t.Fatalf("partition does not cover all curricula: %v / %v / %v",
			catalog.CustomCurriculums, catalog.CurriculumDict, catalog.AllCurriculums)
	}
}

func TestFetchCatalogTeacherScope(t *testing.T) {
	svc, deps := newCatalogService(t)
	db := deps.db

	sysUser := seedUser(t, db, "sysadmin")
	seedAdmin(t, db, sysUser, types.RoleSystem)
	teacher := seedUser(t, db, "teacher1")
	seedAdmin(t, db, teacher, types.RoleTeacher)
	rival := seedUser(t, db, "teacher2")
	seedAdmin(t, db, rival, types.RoleTeacher)

	classroom := seedClassroom(t, db, "ROOM1", teacher.ID)
	mine := seedContent(t, db, "algebra", nil)
	linkClassroomContent(t, db, classroom.ID, mine.ID)
	seedContent(t, db, "unlinked", nil)

	ownCurriculum := seedCurriculum(t, db, "own-unit", &teacher.ID)
	seedCur := seedCurriculum(t, db, "seed-unit", &sysUser.ID)
	seedCurriculum(t, db, "rival-unit", &rival.ID)

	seedQuestion(t, db, "own-q", 0.5, &teacher.ID)
	seedQuestion(t, db, "rival-q", 0.5, &rival.ID)

	catalog, err := svc.FetchCatalog(callerContext(teacher))
	if err != nil {
		t.Fatalf("FetchCatalog: %v", err)
	}

	if _, ok := catalog.ContentDict["algebra"]; !ok {
		t.Fatalf("classroom-linked content missing: %v", catalog.ContentDict)
	}
	if _, ok := catalog.ContentDict["unlinked"]; ok {
		t.Fatalf("unreachable content leaked into teacher scope: %v", catalog.ContentDict)
	}

	curriculums := map[string]bool{}
	for _, key := range catalog.AllCurriculums {
		curriculums[key] = true
	}
	if !curriculums["own-unit"] || !curriculums["seed-unit"] {
		t.Fatalf("own and system curricula must be visible: %v", catalog.AllCurriculums)
	}
	if curriculums["rival-unit"] {
		t.Fatalf("another teacher's curriculum leaked: %v", catalog.AllCurriculums)
	}

	questions := map[string]bool{}
	for _, key := range catalog.AllQuestions {
		questions[key] = true
	}
	if !questions["own-q"] || questions["rival-q"] {
		t.Fatalf("question scope wrong: %v", catalog.AllQuestions)
	}
	_ = ownCurriculum
	_ = seedCur
}

func TestFetchCatalogLearnerForbidden(t *testing.T) {
	svc, deps := newCatalogService(t)
	learner := seedUser(t, deps.db, "learner")

	_, err := svc.FetchCatalog(callerContext(learner))
	if !apierr.HasCode(err, "forbidden") {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestFetchCatalogAnonymousForbidden(t *testing.T) {
	svc, _ := newCatalogService(t)
	_, err := svc.FetchCatalog(context.Background())
	if !apierr.HasCode(err, "forbidden") {
		t.Fatalf("expected forbidden, got %v", err)
	}
}
