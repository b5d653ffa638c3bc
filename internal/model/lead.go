package model

import (
	"time"

	"gorm.io/gorm"
)

// Lead statuses as the back-office moves a contact through the funnel.
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusQualified = "qualified"
	LeadStatusClosed    = "closed"
)

// Lead is a sales contact captured from an assessment submission. Contact
// fields are lifted from well-known answer keys when present.
type Lead struct {
	ID           string         `gorm:"primarykey;type:uuid" json:"id"`
	SubmissionID *string        `gorm:"type:uuid;index" json:"submission_id,omitempty"`
	Name         string         `json:"name"`
	Email        string         `gorm:"index" json:"email"`
	Company      string         `json:"company"`
	Status       string         `gorm:"not null;default:new;index" json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
