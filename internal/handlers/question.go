package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/montanus-wecib/mps-backend/internal/services"
	"github.com/montanus-wecib/mps-backend/internal/types"
)

type QuestionHandler struct {
	questionService services.QuestionService
}

func NewQuestionHandler(questionService services.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

func (qh *QuestionHandler) NewQuestion(c *gin.Context) {
	var question types.Question
	if err := c.ShouldBindJSON(&question); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	created, err := qh.questionService.NewQuestion(c.Request.Context(), &question)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": created.ID, "task_key": created.TaskKey})
}

func (qh *QuestionHandler) UpdateQuestion(c *gin.Context) {
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := qh.questionService.UpdateQuestion(c.Request.Context(), c.Param("task_key"), fields); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "ok"})
}

func (qh *QuestionHandler) GetQuestion(c *gin.Context) {
	question, err := qh.questionService.FetchQuestion(c.Request.Context(), c.Param("task_key"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, question)
}

func (qh *QuestionHandler) AddContentKey(c *gin.Context) {
	var body struct {
		ContentKey string `json:"content_key"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	content, err := qh.questionService.AddContentKey(c.Request.Context(), body.ContentKey)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": content.ID, "content_key": content.ContentKey})
}

func (qh *QuestionHandler) AddCurriculumKey(c *gin.Context) {
	var body struct {
		CurriculumKey string `json:"curriculum_key"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	curriculum, err := qh.questionService.AddCurriculumKey(c.Request.Context(), body.CurriculumKey)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": curriculum.ID, "curriculum_key": curriculum.CurriculumKey})
}
