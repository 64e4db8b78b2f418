package types

import (
	"github.com/google/uuid"
)

// Content is a top-level subject grouping. CreatorID is nil for seeded
// system content.
type Content struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ContentKey string     `gorm:"column:content_key;uniqueIndex;not null" json:"content_key"`
	CreatorID  *uuid.UUID `gorm:"type:uuid;index" json:"creator_id,omitempty"`
}

func (Content) TableName() string { return "content" }
