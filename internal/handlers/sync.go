package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/montanus-wecib/mps-backend/internal/requestdata"
	"github.com/montanus-wecib/mps-backend/internal/services"
)

type SyncHandler struct {
	syncService services.SyncService
}

func NewSyncHandler(syncService services.SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

// Bootstrap hands the client its full session cache at login.
func (sh *SyncHandler) Bootstrap(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusForbidden, "forbidden", nil)
		return
	}
	payload, err := sh.syncService.Bootstrap(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, payload)
}

// FetchXPSince returns ledger rows newer than the client's watermark.
func (sh *SyncHandler) FetchXPSince(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusForbidden, "forbidden", nil)
		return
	}
	delta, err := sh.syncService.FetchXPSince(c.Request.Context(), rd.UserID, c.Query("since"))
	if errors.Is(err, services.ErrNoNewData) {
		RespondOK(c, gin.H{"status": "no_new_data"})
		return
	}
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, delta)
}

// UpdateSession merges changed session keys back into the account row.
func (sh *SyncHandler) UpdateSession(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusForbidden, "forbidden", nil)
		return
	}
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := sh.syncService.UpdateUserSession(c.Request.Context(), rd.UserID, updates); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "ok"})
}
