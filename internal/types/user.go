package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User is a learner account. Progress fields mirror the client session
// cache and are merged by the sync write-back, never replaced wholesale.
type User struct {
	ID                   uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Username             string         `gorm:"column:username;uniqueIndex;not null" json:"username"`
	PasswordHash         []byte         `gorm:"column:password_hash;not null" json:"-"`
	Email                string         `gorm:"column:email;index" json:"email,omitempty"`
	CompletedCurriculums datatypes.JSON `gorm:"column:completed_curriculums" json:"completed_curriculums"`
	ContentScores        datatypes.JSON `gorm:"column:content_scores" json:"content_scores"`
	CorrectAnswers       datatypes.JSON `gorm:"column:correct_answers" json:"correct_answers"`
	IncorrectAnswers     datatypes.JSON `gorm:"column:incorrect_answers" json:"incorrect_answers"`
	CurriculumScores     datatypes.JSON `gorm:"column:curriculum_scores" json:"curriculum_scores"`
	XP                   datatypes.JSON `gorm:"column:xp" json:"xp"`
	CurrentCurriculum    string         `gorm:"column:current_curriculum" json:"current_curriculum"`
	CurrentQuestion      string         `gorm:"column:current_question" json:"current_question"`
	UpdatedAt            time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "user" }
