package types

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Question is a single task with scoring metadata and render payload.
type Question struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TaskKey     string         `gorm:"column:task_key;uniqueIndex;not null" json:"task_key"`
	Standard    int            `gorm:"column:standard;default:0" json:"standard"`
	Objective   int            `gorm:"column:objective;default:0" json:"objective"`
	Difficulty  float64        `gorm:"column:difficulty" json:"difficulty"`
	Code        string         `gorm:"column:code;type:text" json:"code"`
	Question    string         `gorm:"column:question" json:"question"`
	Answer      string         `gorm:"column:answer" json:"answer"`
	Distractor1 string         `gorm:"column:distractor_1" json:"distractor_1"`
	Distractor2 string         `gorm:"column:distractor_2" json:"distractor_2"`
	Distractor3 string         `gorm:"column:distractor_3" json:"distractor_3"`
	Description string         `gorm:"column:description;type:text" json:"description"`
	Video       string         `gorm:"column:video" json:"video"`
	VideoStart  int            `gorm:"column:video_start" json:"video_start"`
	VideoEnd    int            `gorm:"column:video_end" json:"video_end"`
	Tags        datatypes.JSON `gorm:"column:tags" json:"tags"`
	CreatorID   *uuid.UUID     `gorm:"type:uuid;index" json:"creator_id,omitempty"`
}

func (Question) TableName() string { return "question" }
