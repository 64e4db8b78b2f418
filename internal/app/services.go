package app

import (
	"gorm.io/gorm"

	"github.com/montanus-wecib/mps-backend/internal/logger"
	"github.com/montanus-wecib/mps-backend/internal/services"
)

type Services struct {
	Auth       services.AuthService
	User       services.UserService
	Assignment services.AssignmentService
	Catalog    services.CatalogService
	Pairing    services.PairingService
	Roster     services.RosterService
	Classroom  services.ClassroomService
	Sync       services.SyncService
	XP         services.XPService
	Question   services.QuestionService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos) Services {
	log.Info("Wiring services...")
	assignment := services.NewAssignmentService(
		db, log,
		r.Content, r.Curriculum, r.Question,
		r.ClassroomUser, r.ClassroomContent,
		r.UserContent, r.UserCurriculum,
		r.ContentCurriculum, r.CurriculumQuestion,
	)
	return Services{
		Auth:       services.NewAuthService(db, log, r.User, cfg.JWTSecretKey, cfg.TokenTTL),
		User:       services.NewUserService(db, log, r.User, r.Content, r.Curriculum, r.UserContent, r.UserCurriculum),
		Assignment: assignment,
		Catalog: services.NewCatalogService(
			db, log,
			r.Admin, r.Classroom, r.ClassroomContent,
			r.Content, r.Curriculum, r.Question,
			r.ContentCurriculum, r.CurriculumQuestion,
		),
		Pairing:   services.NewPairingService(db, log, r.Content, r.Curriculum, r.Question, r.ContentCurriculum, r.CurriculumQuestion),
		Roster:    services.NewRosterService(db, log, r.User, r.Classroom, r.Content, r.ClassroomUser, r.ClassroomContent),
		Classroom: services.NewClassroomService(db, log, r.Admin, r.User, r.Classroom, r.ClassroomUser),
		Sync:      services.NewSyncService(db, log, r.User, r.XPEvent, assignment),
		XP:        services.NewXPService(db, log, r.Question, r.XPEvent),
		Question:  services.NewQuestionService(db, log, r.Admin, r.Content, r.Curriculum, r.Question),
	}
}
