package app

import (
	"gorm.io/gorm"

	"github.com/montanus-wecib/mps-backend/internal/logger"
	"github.com/montanus-wecib/mps-backend/internal/repos"
)

type Repos struct {
	User               repos.UserRepo
	Admin              repos.AdminRepo
	Classroom          repos.ClassroomRepo
	Content            repos.ContentRepo
	Curriculum         repos.CurriculumRepo
	Question           repos.QuestionRepo
	ClassroomUser      repos.ClassroomUserRepo
	ClassroomContent   repos.ClassroomContentRepo
	UserContent        repos.UserContentRepo
	UserCurriculum     repos.UserCurriculumRepo
	ContentCurriculum  repos.ContentCurriculumRepo
	CurriculumQuestion repos.CurriculumQuestionRepo
	XPEvent            repos.XPEventRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:               repos.NewUserRepo(db, log),
		Admin:              repos.NewAdminRepo(db, log),
		Classroom:          repos.NewClassroomRepo(db, log),
		Content:            repos.NewContentRepo(db, log),
		Curriculum:         repos.NewCurriculumRepo(db, log),
		Question:           repos.NewQuestionRepo(db, log),
		ClassroomUser:      repos.NewClassroomUserRepo(db, log),
		ClassroomContent:   repos.NewClassroomContentRepo(db, log),
		UserContent:        repos.NewUserContentRepo(db, log),
		UserCurriculum:     repos.NewUserCurriculumRepo(db, log),
		ContentCurriculum:  repos.NewContentCurriculumRepo(db, log),
		CurriculumQuestion: repos.NewCurriculumQuestionRepo(db, log),
		XPEvent:            repos.NewXPEventRepo(db, log),
	}
}
