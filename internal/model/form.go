package model

import (
	"time"

	"gorm.io/gorm"
)

// Form is the stored row for one assessment form template. The full
// section/question schema is kept as a JSON document; relational columns
// carry only what listings and filters need.
type Form struct {
	ID          string         `gorm:"primarykey;type:uuid" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `json:"description,omitempty"`
	Status      string         `gorm:"not null;default:draft;index" json:"status"`
	Schema      []byte         `gorm:"type:jsonb;not null" json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
