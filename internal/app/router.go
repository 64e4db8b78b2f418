package app

import (
	"github.com/gin-gonic/gin"

	"github.com/montanus-wecib/mps-backend/internal/server"
)

func wireRouter(h Handlers, m Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthHandler:       h.Auth,
		AuthMiddleware:    m.Auth,
		UserHandler:       h.User,
		AssignmentHandler: h.Assignment,
		CatalogHandler:    h.Catalog,
		PairingHandler:    h.Pairing,
		RosterHandler:     h.Roster,
		ClassroomHandler:  h.Classroom,
		SyncHandler:       h.Sync,
		XPHandler:         h.XP,
		QuestionHandler:   h.Question,
	})
}
