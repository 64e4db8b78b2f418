package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/montanus-wecib/mps-backend/internal/apierr"
	"github.com/montanus-wecib/mps-backend/internal/logger"
	"github.com/montanus-wecib/mps-backend/internal/repos"
	"github.com/montanus-wecib/mps-backend/internal/requestdata"
	"github.com/montanus-wecib/mps-backend/internal/types"
)

// CatalogService computes the role-scoped catalog an administrator may
// manage. The partition between paired and free-to-pair items keeps the
// equalizer candidate pool honest: offering an already-committed
// curriculum or question as free would silently move it on pairing.
type CatalogService interface {
	FetchCatalog(ctx context.Context) (*types.Catalog, error)
}

type catalogService struct {
	db                     *gorm.DB
	log                    *logger.Logger
	adminRepo              repos.AdminRepo
	classroomRepo          repos.ClassroomRepo
	classroomContentRepo   repos.ClassroomContentRepo
	contentRepo            repos.ContentRepo
	curriculumRepo         repos.CurriculumRepo
	questionRepo           repos.QuestionRepo
	contentCurriculumRepo  repos.ContentCurriculumRepo
	curriculumQuestionRepo repos.CurriculumQuestionRepo
}

func NewCatalogService(
	db *gorm.DB,
	log *logger.Logger,
	adminRepo repos.AdminRepo,
	classroomRepo repos.ClassroomRepo,
	classroomContentRepo repos.ClassroomContentRepo,
	contentRepo repos.ContentRepo,
	curriculumRepo repos.CurriculumRepo,
	questionRepo repos.QuestionRepo,
	contentCurriculumRepo repos.ContentCurriculumRepo,
	curriculumQuestionRepo repos.CurriculumQuestionRepo,
) CatalogService {
	serviceLog := log.With("service", "CatalogService")
	return &catalogService{
		db:                     db,
		log:                    serviceLog,
		adminRepo:              adminRepo,
		classroomRepo:          classroomRepo,
		classroomContentRepo:   classroomContentRepo,
		contentRepo:            contentRepo,
		curriculumRepo:         curriculumRepo,
		questionRepo:           questionRepo,
		contentCurriculumRepo:  contentCurriculumRepo,
		curriculumQuestionRepo: curriculumQuestionRepo,
	}
}

func (s *catalogService) FetchCatalog(ctx context.Context) (*types.Catalog, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Forbidden("caller identity not set")
	}

	var catalog *types.Catalog
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		admins, err := s.adminRepo.GetByIDs(ctx, tx, []uuid.UUID{rd.UserID})
		if err != nil {
			return fmt.Errorf("fetching caller role: %w", err)
		}
		if len(admins) == 0 {
			return apierr.Forbidden("administrator role required")
		}
		role := admins[0].Role
		if role != types.RoleSystem && role != types.RoleTeacher {
			return apierr.Forbidden("unrecognized role %q", role)
		}

		contents, curriculums, questions, err := s.visibleEntities(ctx, tx, admins[0])
		if err != nil {
			return err
		}
		built, err := s.buildCatalog(ctx, tx, contents, curriculums, questions)
		if err != nil {
			return err
		}
		catalog = built
		return nil
	}); err != nil {
		s.log.Warn("Failed to fetch catalog", "user_id", rd.UserID, "error", err)
		return nil, err
	}
	return catalog, nil
}

// visibleEntities applies the scoping rule. System admins see everything.
// Teachers see content reachable through classrooms they own, and the
// curricula/questions created by themselves or by any system admin.
// Content visibility goes through classroom linkage rather than creator
// identity; see DESIGN.md for the resolution of that ambiguity.
func (s *catalogService) visibleEntities(ctx context.Context, tx *gorm.DB, caller *types.Admin) ([]*types.Content, []*types.Curriculum, []*types.Question, error) {
	if caller.Role == types.RoleSystem {
		contents, err := s.contentRepo.GetAll(ctx, tx)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("fetching content rows: %w", err)
		}
		curriculums, err := s.curriculumRepo.GetAll(ctx, tx)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("fetching curriculum rows: %w", err)
		}
		questions, err := s.questionRepo.GetAll(ctx, tx)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("fetching question rows: %w", err)
		}
		return contents, curriculums, questions, nil
	}

	classrooms, err := s.classroomRepo.GetByAdminIDs(ctx, tx, []uuid.UUID{caller.ID})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("fetching owned classrooms: %w", err)
	}
	classroomIDs := make([]uuid.UUID, 0, len(classrooms))
	for _, classroom := range classrooms {
		classroomIDs = append(classroomIDs, classroom.ID)
	}
	links, err := s.classroomContentRepo.GetByClassroomIDs(ctx, tx, classroomIDs)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("fetching classroom content links: %w", err)
	}
	contentIDSet := make(map[uuid.UUID]struct{}, len(links))
	contentIDs := make([]uuid.UUID, 0, len(links))
	for _, link := range links {
		if _, seen := contentIDSet[link.ContentID]; !seen {
			contentIDSet[link.ContentID] = struct{}{}
			contentIDs = append(contentIDs, link.ContentID)
		}
	}
	contents, err := s.contentRepo.GetByIDs(ctx, tx, contentIDs)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("fetching content rows: %w", err)
	}

	// Seed content created by system admins is visible alongside the
	// teacher's own entries.
	systemAdmins, err := s.adminRepo.GetByRole(ctx, tx, types.RoleSystem)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("fetching system admins: %w", err)
	}
	creatorIDs := make([]uuid.UUID, 0, len(systemAdmins)+1)
	creatorIDs = append(creatorIDs, caller.ID)
	for _, admin := range systemAdmins {
		creatorIDs = append(creatorIDs, admin.ID)
	}
	curriculums, err := s.curriculumRepo.GetByCreatorIDs(ctx, tx, creatorIDs)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("fetching curriculum rows: %w", err)
	}
	questions, err := s.questionRepo.GetByCreatorIDs(ctx, tx, creatorIDs)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("fetching question rows: %w", err)
	}
	return contents, curriculums, questions, nil
}

func (s *catalogService) buildCatalog(ctx context.Context, tx *gorm.DB, contents []*types.Content, curriculums []*types.Curriculum, questions []*types.Question) (*types.Catalog, error) {
	// Pairing state is judged against the full association tables, not the
	// visible slice: an item paired outside the caller's scope is still
	// committed.
	contentPairs, err := s.contentCurriculumRepo.GetAll(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("fetching content curriculum pairings: %w", err)
	}
	questionPairs, err := s.curriculumQuestionRepo.GetAll(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("fetching curriculum question pairings: %w", err)
	}

	pairedCurriculums := make(map[uuid.UUID]uuid.UUID, len(contentPairs))
	for _, pair := range contentPairs {
		pairedCurriculums[pair.CurriculumID] = pair.ContentID
	}
	pairedQuestions := make(map[uuid.UUID]uuid.UUID, len(questionPairs))
	for _, pair := range questionPairs {
		pairedQuestions[pair.QuestionID] = pair.CurriculumID
	}

	// content_dict needs keys for paired curricula even when those fall
	// outside the visible slice.
	pairedCurriculumIDs := make([]uuid.UUID, 0, len(contentPairs))
	for _, pair := range contentPairs {
		pairedCurriculumIDs = append(pairedCurriculumIDs, pair.CurriculumID)
	}
	pairedCurriculumRows, err := s.curriculumRepo.GetByIDs(ctx, tx, pairedCurriculumIDs)
	if err != nil {
		return nil, fmt.Errorf("fetching paired curriculum rows: %w", err)
	}
	curriculumKeyByID := make(map[uuid.UUID]string, len(pairedCurriculumRows))
	for _, curriculum := range pairedCurriculumRows {
		curriculumKeyByID[curriculum.ID] = curriculum.CurriculumKey
	}
	for _, curriculum := range curriculums {
		curriculumKeyByID[curriculum.ID] = curriculum.CurriculumKey
	}

	contentDict := make(map[string][]string, len(contents))
	contentKeyByID := make(map[uuid.UUID]string, len(contents))
	for _, content := range contents {
		contentDict[content.ContentKey] = []string{}
		contentKeyByID[content.ID] = content.ContentKey
	}
	for _, pair := range contentPairs {
		contentKey, visible := contentKeyByID[pair.ContentID]
		if !visible {
			continue
		}
		if curriculumKey, ok := curriculumKeyByID[pair.CurriculumID]; ok {
			contentDict[contentKey] = append(contentDict[contentKey], curriculumKey)
		}
	}

	allCurriculums := make([]string, 0, len(curriculums))
	customCurriculums := make([]string, 0, len(curriculums))
	curriculumDict := make(map[string][]string)
	var pairedVisibleCurriculumIDs []uuid.UUID
	for _, curriculum := range curriculums {
		allCurriculums = append(allCurriculums, curriculum.CurriculumKey)
		if _, paired := pairedCurriculums[curriculum.ID]; paired {
			curriculumDict[curriculum.CurriculumKey] = []string{}
			pairedVisibleCurriculumIDs = append(pairedVisibleCurriculumIDs, curriculum.ID)
		} else {
			customCurriculums = append(customCurriculums, curriculum.CurriculumKey)
		}
	}

	// Expand paired curricula into their task keys for display.
	taskPairs, err := s.curriculumQuestionRepo.GetByCurriculumIDs(ctx, tx, pairedVisibleCurriculumIDs)
	if err != nil {
		return nil, fmt.Errorf("fetching task pairings: %w", err)
	}
	taskQuestionIDs := make([]uuid.UUID, 0, len(taskPairs))
	for _, pair := range taskPairs {
		taskQuestionIDs = append(taskQuestionIDs, pair.QuestionID)
	}
	taskQuestions, err := s.questionRepo.GetByIDs(ctx, tx, taskQuestionIDs)
	if err != nil {
		return nil, fmt.Errorf("fetching task question rows: %w", err)
	}
	taskKeyByID := make(map[uuid.UUID]string, len(taskQuestions))
	for _, question := range taskQuestions {
		taskKeyByID[question.ID] = question.TaskKey
	}
	for _, pair := range taskPairs {
		curriculumKey, ok := curriculumKeyByID[pair.CurriculumID]
		if !ok {
			continue
		}
		if _, tracked := curriculumDict[curriculumKey]; !tracked {
			continue
		}
		if taskKey, ok := taskKeyByID[pair.QuestionID]; ok {
			curriculumDict[curriculumKey] = append(curriculumDict[curriculumKey], taskKey)
		}
	}

	allQuestions := make([]string, 0, len(questions))
	availableQuestions := make([]string, 0, len(questions))
	for _, question := range questions {
		allQuestions = append(allQuestions, question.TaskKey)
		if _, paired := pairedQuestions[question.ID]; !paired {
			availableQuestions = append(availableQuestions, question.TaskKey)
		}
	}

	sort.Strings(allCurriculums)
	sort.Strings(customCurriculums)
	sort.Strings(allQuestions)
	sort.Strings(availableQuestions)

	return &types.Catalog{
		ContentDict:        contentDict,
		AllCurriculums:     allCurriculums,
		CustomCurriculums:  customCurriculums,
		AllQuestions:       allQuestions,
		AvailableQuestions: availableQuestions,
		CurriculumDict:     curriculumDict,
	}, nil
}
