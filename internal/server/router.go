package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/montanus-wecib/mps-backend/internal/handlers"
	"github.com/montanus-wecib/mps-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler       *handlers.AuthHandler
	AuthMiddleware    *middleware.AuthMiddleware
	UserHandler       *handlers.UserHandler
	AssignmentHandler *handlers.AssignmentHandler
	CatalogHandler    *handlers.CatalogHandler
	PairingHandler    *handlers.PairingHandler
	RosterHandler     *handlers.RosterHandler
	ClassroomHandler  *handlers.ClassroomHandler
	SyncHandler       *handlers.SyncHandler
	XPHandler         *handlers.XPHandler
	QuestionHandler   *handlers.QuestionHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)
	router.GET("/usernames", cfg.UserHandler.GetUsernames)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// User
	protected.GET("/user", cfg.UserHandler.GetMe)
	protected.DELETE("/user", cfg.UserHandler.DeleteMe)
	protected.PUT("/user/assignments", cfg.UserHandler.UpdateAssignments)
	// Session sync
	protected.GET("/session", cfg.SyncHandler.Bootstrap)
	protected.PUT("/session", cfg.SyncHandler.UpdateSession)
	protected.GET("/assignments", cfg.AssignmentHandler.GetAssignments)
	// XP ledger
	protected.GET("/xp", cfg.SyncHandler.FetchXPSince)
	protected.POST("/xp", cfg.XPHandler.RecordXP)
	// Authoring
	protected.GET("/catalog", cfg.CatalogHandler.GetCatalog)
	protected.POST("/content", cfg.QuestionHandler.AddContentKey)
	protected.POST("/curriculum", cfg.QuestionHandler.AddCurriculumKey)
	protected.PUT("/content/:content_key/curriculums", cfg.PairingHandler.EqualizeContentCurriculums)
	protected.PUT("/curriculum/:curriculum_key/tasks", cfg.PairingHandler.EqualizeCurriculumQuestions)
	protected.POST("/question", cfg.QuestionHandler.NewQuestion)
	protected.GET("/question/:task_key", cfg.QuestionHandler.GetQuestion)
	protected.PATCH("/question/:task_key", cfg.QuestionHandler.UpdateQuestion)
	// Classrooms
	protected.POST("/classroom", cfg.ClassroomHandler.CreateClassroom)
	protected.GET("/classroom/:class_code/roster", cfg.ClassroomHandler.GetRoster)
	protected.POST("/classroom/:class_code/roster", cfg.RosterHandler.AddToClassroom)
	protected.DELETE("/classroom/:class_code/roster", cfg.RosterHandler.RemoveFromClassroom)

	return router
}
