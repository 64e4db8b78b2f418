package types

import (
	"github.com/google/uuid"
)

const (
	RoleTeacher = "teacher"
	RoleSystem  = "system"
)

// Admin marks an account as an administrator. It shares its primary key
// with the user row; absence of a row means the account is a plain
// learner.
type Admin struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Role string    `gorm:"column:role;not null;default:teacher" json:"role"`
	User *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:ID;references:ID" json:"user,omitempty"`
}

func (Admin) TableName() string { return "admin" }
