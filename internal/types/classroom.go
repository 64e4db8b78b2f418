package types

import (
	"github.com/google/uuid"
)

type Classroom struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code    string    `gorm:"column:code;uniqueIndex;not null" json:"code"`
	Name    string    `gorm:"column:name;not null" json:"name"`
	AdminID uuid.UUID `gorm:"type:uuid;not null;index" json:"admin_id"`
	Admin   *Admin    `gorm:"constraint:OnDelete:CASCADE;foreignKey:AdminID;references:ID" json:"admin,omitempty"`
}

func (Classroom) TableName() string { return "classroom" }
