package model

import (
	"time"

	"gorm.io/gorm"
)

// Submission is one committed answer record for a form. Record is the
// flattened answer map, one entry per answered question id.
type Submission struct {
	ID          string         `gorm:"primarykey;type:uuid" json:"id"`
	FormID      string         `gorm:"type:uuid;not null;index" json:"form_id"`
	Record      []byte         `gorm:"type:jsonb;not null" json:"-"`
	SubmittedAt time.Time      `gorm:"not null" json:"submitted_at"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
