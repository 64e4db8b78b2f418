package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/montanus-wecib/mps-backend/internal/requestdata"
	"github.com/montanus-wecib/mps-backend/internal/services"
	"github.com/montanus-wecib/mps-backend/internal/types"
)

type XPHandler struct {
	xpService services.XPService
}

func NewXPHandler(xpService services.XPService) *XPHandler {
	return &XPHandler{xpService: xpService}
}

func (xh *XPHandler) RecordXP(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusForbidden, "forbidden", nil)
		return
	}
	var record types.XPRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	event, err := xh.xpService.RecordXP(c.Request.Context(), rd.UserID, &record)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": event.ID})
}
