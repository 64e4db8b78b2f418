package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/montanus-wecib/mps-backend/internal/services"
)

type PairingHandler struct {
	pairingService services.PairingService
}

func NewPairingHandler(pairingService services.PairingService) *PairingHandler {
	return &PairingHandler{pairingService: pairingService}
}

// EqualizeContentCurriculums sets a content area's curriculum list to
// exactly the submitted keys.
func (ph *PairingHandler) EqualizeContentCurriculums(c *gin.Context) {
	var body struct {
		Curriculums []string `json:"curriculums"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	contentKey := c.Param("content_key")
	if err := ph.pairingService.EqualizeContentCurriculums(c.Request.Context(), contentKey, body.Curriculums); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "ok"})
}

// EqualizeCurriculumQuestions sets a curriculum's task list to exactly
// the submitted keys, in order.
func (ph *PairingHandler) EqualizeCurriculumQuestions(c *gin.Context) {
	var body struct {
		Tasks []string `json:"tasks"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	curriculumKey := c.Param("curriculum_key")
	if err := ph.pairingService.EqualizeCurriculumQuestions(c.Request.Context(), curriculumKey, body.Tasks); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "ok"})
}
