package types

import (
	"github.com/google/uuid"
)

type Curriculum struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CurriculumKey string     `gorm:"column:curriculum_key;uniqueIndex;not null" json:"curriculum_key"`
	CreatorID     *uuid.UUID `gorm:"type:uuid;index" json:"creator_id,omitempty"`
}

func (Curriculum) TableName() string { return "curriculum" }
