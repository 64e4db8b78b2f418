package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// XPEvent is one immutable ledger row. Content, curriculum, difficulty,
// standard and objective are copied from the question at write time so
// historical analytics survive later re-pairing or metadata edits.
type XPEvent struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	DXP           float64        `gorm:"column:dxp" json:"dXP"`
	PossibleXP    float64        `gorm:"column:possible_xp" json:"possible_xp"`
	QuestionKey   string         `gorm:"column:question_key" json:"question_id"`
	ContentKey    string         `gorm:"column:content_key" json:"content_id"`
	CurriculumKey string         `gorm:"column:curriculum_key" json:"curriculum_id"`
	Difficulty    float64        `gorm:"column:difficulty" json:"difficulty"`
	Standard      int            `gorm:"column:standard" json:"standard"`
	Objective     int            `gorm:"column:objective" json:"objective"`
	Tags          datatypes.JSON `gorm:"column:tags" json:"tags,omitempty"`
	ElapsedTime   float64        `gorm:"column:elapsed_time;not null" json:"elapsed_time"`
	Timestamp     time.Time      `gorm:"column:timestamp;not null;index" json:"timestamp"`
}

func (XPEvent) TableName() string { return "xp_event" }
