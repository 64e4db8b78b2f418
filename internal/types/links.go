package types

import (
	"time"

	"github.com/google/uuid"
)

// Association rows. Composite unique indexes reject the insert race two
// identical concurrent requests can produce; the single-column unique
// indexes on ContentCurriculum.CurriculumID and
// CurriculumQuestion.QuestionID encode the at-most-one-owner rules.

type ClassroomUser struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClassroomID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_classroom_user" json:"classroom_id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_classroom_user" json:"user_id"`
	JoinedAt    time.Time `gorm:"column:joined_at" json:"joined_at"`
}

func (ClassroomUser) TableName() string { return "classroom_user" }

type ClassroomContent struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClassroomID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_classroom_content" json:"classroom_id"`
	ContentID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_classroom_content" json:"content_id"`
}

func (ClassroomContent) TableName() string { return "classroom_content" }

type UserContent struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_content" json:"user_id"`
	ContentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_content" json:"content_id"`
}

func (UserContent) TableName() string { return "user_content" }

type UserCurriculum struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_curriculum" json:"user_id"`
	CurriculumID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_curriculum" json:"curriculum_id"`
}

func (UserCurriculum) TableName() string { return "user_curriculum" }

// ContentCurriculum pairs a curriculum into a content area. A curriculum
// belongs to at most one content area. Ordinal holds the position within
// the parent's submitted ordering; uuid primary keys carry no sequence.
type ContentCurriculum struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ContentID    uuid.UUID `gorm:"type:uuid;not null;index" json:"content_id"`
	CurriculumID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"curriculum_id"`
	Ordinal      int       `gorm:"column:ordinal;not null;default:0" json:"ordinal"`
}

func (ContentCurriculum) TableName() string { return "content_curriculum" }

// CurriculumQuestion pairs a question into a curriculum. A question
// belongs to at most one curriculum. Ordinal holds the position within
// the curriculum's task list.
type CurriculumQuestion struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CurriculumID uuid.UUID `gorm:"type:uuid;not null;index" json:"curriculum_id"`
	QuestionID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"question_id"`
	Ordinal      int       `gorm:"column:ordinal;not null;default:0" json:"ordinal"`
}

func (CurriculumQuestion) TableName() string { return "curriculum_question" }
