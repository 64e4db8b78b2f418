package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/montanus-wecib/mps-backend/internal/services"
)

type ClassroomHandler struct {
	classroomService services.ClassroomService
}

func NewClassroomHandler(classroomService services.ClassroomService) *ClassroomHandler {
	return &ClassroomHandler{classroomService: classroomService}
}

func (ch *ClassroomHandler) CreateClassroom(c *gin.Context) {
	var body struct {
		Code string `json:"code"`
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	classroom, err := ch.classroomService.CreateClassroom(c.Request.Context(), body.Code, body.Name)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": classroom.ID, "code": classroom.Code, "name": classroom.Name})
}

func (ch *ClassroomHandler) GetRoster(c *gin.Context) {
	emails, err := ch.classroomService.FetchRoster(c.Request.Context(), c.Param("class_code"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"accounts": emails})
}
