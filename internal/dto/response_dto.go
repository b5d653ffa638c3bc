package dto

import "time"

type QuestionResponseDTO struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Label       string         `json:"label"`
	Description string         `json:"description,omitempty"`
	Required    bool           `json:"required"`
	Config      map[string]any `json:"config"`
}

type SectionResponseDTO struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description,omitempty"`
	Questions   []QuestionResponseDTO `json:"questions"`
}

type FormResponseDTO struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description,omitempty"`
	Status      string               `json:"status"`
	Sections    []SectionResponseDTO `json:"sections"`
	Warnings    []string             `json:"warnings,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

type FormSummaryDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// QuestionTypeDTO describes one registry entry for the form builder UI.
type QuestionTypeDTO struct {
	Type   string                  `json:"type"`
	Config map[string]FieldSpecDTO `json:"config"`
}

type FieldSpecDTO struct {
	Kind        string `json:"kind"`
	Description string `json:"description"`
}

// SubmitResultDTO reports the outcome of a submission attempt. Validation
// failures carry one message per invalid question id; an accepted result
// does not say whether the record was committed live or queued.
type SubmitResultDTO struct {
	Accepted bool              `json:"accepted"`
	Errors   map[string]string `json:"errors,omitempty"`
}

type SubmissionResponseDTO struct {
	ID          string         `json:"id"`
	FormID      string         `json:"form_id"`
	FormTitle   string         `json:"form_title,omitempty"`
	Record      map[string]any `json:"record"`
	SubmittedAt time.Time      `json:"submitted_at"`
}

type LeadResponseDTO struct {
	ID           string    `json:"id"`
	SubmissionID *string   `json:"submission_id,omitempty"`
	Name         string    `json:"name,omitempty"`
	Email        string    `json:"email,omitempty"`
	Company      string    `json:"company,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

type DrainSummaryDTO struct {
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
	Remaining  int `json:"remaining"`
}

type InsightResponseDTO struct {
	SubmissionID string `json:"submission_id"`
	Summary      string `json:"summary"`
}

type DraftResponseDTO struct {
	FormID  string         `json:"form_id"`
	Answers map[string]any `json:"answers"`
	Found   bool           `json:"found"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
