package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/montanus-wecib/mps-backend/internal/services"
	"github.com/montanus-wecib/mps-backend/internal/types"
)

type RosterHandler struct {
	rosterService services.RosterService
}

func NewRosterHandler(rosterService services.RosterService) *RosterHandler {
	return &RosterHandler{rosterService: rosterService}
}

func (rh *RosterHandler) AddToClassroom(c *gin.Context) {
	var payload types.RosterPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	status, err := rh.rosterService.AddToClassroom(c.Request.Context(), c.Param("class_code"), &payload)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, status)
}

func (rh *RosterHandler) RemoveFromClassroom(c *gin.Context) {
	var payload types.RosterPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	status, err := rh.rosterService.RemoveFromClassroom(c.Request.Context(), c.Param("class_code"), &payload)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, status)
}
