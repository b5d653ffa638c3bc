package dto

// FormCreateDTO is for admin creation of a new (empty) form.
type FormCreateDTO struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description,omitempty"`
}

// FormMetaUpdateDTO updates form title/description without touching sections.
type FormMetaUpdateDTO struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description,omitempty"`
}

// SectionCreateDTO adds a section to a form.
type SectionCreateDTO struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description,omitempty"`
}

// QuestionCreateDTO adds a question to a section.
type QuestionCreateDTO struct {
	Type        string `json:"type" binding:"required"`
	Label       string `json:"label" binding:"required"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

// QuestionUpdateDTO edits question metadata (not its config).
type QuestionUpdateDTO struct {
	Label       string `json:"label" binding:"required"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

// ConfigPatchDTO merges keys into a question's config map.
type ConfigPatchDTO struct {
	Config map[string]any `json:"config" binding:"required"`
}

// ReorderDTO carries a complete new id order for sections or questions.
// It must be an exact permutation of the current ids.
type ReorderDTO struct {
	Order []string `json:"order" binding:"required,min=1"`
}

// MoveDTO shifts one item by a signed number of positions.
type MoveDTO struct {
	Offset int `json:"offset" binding:"required"`
}

// SubmitDTO is the public submission payload, answers keyed by question id.
type SubmitDTO struct {
	Answers map[string]any `json:"answers" binding:"required"`
}

// DraftDTO saves an in-progress answer map for crash recovery.
type DraftDTO struct {
	Answers map[string]any `json:"answers" binding:"required"`
}

// LeadStatusUpdateDTO moves a lead through the funnel.
type LeadStatusUpdateDTO struct {
	Status string `json:"status" binding:"required,oneof=new contacted qualified closed"`
}
