package app

import (
	"github.com/montanus-wecib/mps-backend/internal/handlers"
	"github.com/montanus-wecib/mps-backend/internal/logger"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	User       *handlers.UserHandler
	Assignment *handlers.AssignmentHandler
	Catalog    *handlers.CatalogHandler
	Pairing    *handlers.PairingHandler
	Roster     *handlers.RosterHandler
	Classroom  *handlers.ClassroomHandler
	Sync       *handlers.SyncHandler
	XP         *handlers.XPHandler
	Question   *handlers.QuestionHandler
}

func wireHandlers(log *logger.Logger, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:       handlers.NewAuthHandler(s.Auth),
		User:       handlers.NewUserHandler(s.User),
		Assignment: handlers.NewAssignmentHandler(s.Assignment),
		Catalog:    handlers.NewCatalogHandler(s.Catalog),
		Pairing:    handlers.NewPairingHandler(s.Pairing),
		Roster:     handlers.NewRosterHandler(s.Roster),
		Classroom:  handlers.NewClassroomHandler(s.Classroom),
		Sync:       handlers.NewSyncHandler(s.Sync),
		XP:         handlers.NewXPHandler(s.XP),
		Question:   handlers.NewQuestionHandler(s.Question),
	}
}
