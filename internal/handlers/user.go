package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/montanus-wecib/mps-backend/internal/requestdata"
	"github.com/montanus-wecib/mps-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetUsernames is public so registration can validate uniqueness client
// side before submitting.
func (uh *UserHandler) GetUsernames(c *gin.Context) {
	usernames, err := uh.userService.FetchUsernames(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"usernames": usernames})
}

func (uh *UserHandler) GetMe(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusForbidden, "forbidden", nil)
		return
	}
	user, err := uh.userService.FetchUserData(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, user)
}

func (uh *UserHandler) DeleteMe(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusForbidden, "forbidden", nil)
		return
	}
	if err := uh.userService.DeleteUser(c.Request.Context(), rd.UserID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "ok"})
}

// UpdateAssignments adds or removes the caller's direct content and
// curriculum links in one request.
func (uh *UserHandler) UpdateAssignments(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusForbidden, "forbidden", nil)
		return
	}
	var body struct {
		AddContent        []string `json:"add_content"`
		RemoveContent     []string `json:"remove_content"`
		AddCurriculums    []string `json:"add_curriculums"`
		RemoveCurriculums []string `json:"remove_curriculums"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	ctx := c.Request.Context()
	if err := uh.userService.AssignContent(ctx, rd.UserID, body.AddContent); err != nil {
		RespondServiceError(c, err)
		return
	}
	if err := uh.userService.UnassignContent(ctx, rd.UserID, body.RemoveContent); err != nil {
		RespondServiceError(c, err)
		return
	}
	if err := uh.userService.AssignCurriculums(ctx, rd.UserID, body.AddCurriculums); err != nil {
		RespondServiceError(c, err)
		return
	}
	if err := uh.userService.UnassignCurriculums(ctx, rd.UserID, body.RemoveCurriculums); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "ok"})
}
