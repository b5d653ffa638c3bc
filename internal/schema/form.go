package schema

import (
	"time"

	"github.com/google/uuid"
)

// FormStatus gates whether end users can see a form.
type FormStatus string

const (
	StatusDraft     FormStatus = "draft"
	StatusPublished FormStatus = "published"
)

// Question is one typed input field within a Section. Identity is the ID,
// stable across reorders. Config holds per-type settings; unknown keys are
// kept but flagged when merged (see UpdateConfig).
type Question struct {
	ID          string         `json:"id"`
	Type        QuestionType   `json:"type"`
	Label       string         `json:"label"`
	Description string         `json:"description,omitempty"`
	Required    bool           `json:"required"`
	Config      map[string]any `json:"config"`
}

// Section is a named, ordered group of Questions within a Form.
type Section struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Questions   []Question `json:"questions"`
}

// Form is the persisted schema of a questionnaire. Section order and
// question order within a section are meaningful and preserved end to end.
type Form struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      FormStatus `json:"status"`
	Sections    []Section  `json:"sections"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewForm creates an empty draft form with a fresh id.
func NewForm(title, description string) (*Form, error) {
	if title == "" {
		return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	now := time.Now().UTC()
	return &Form{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Status:      StatusDraft,
		Sections:    []Section{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// AddSection appends a new empty section and returns a pointer into the
// form's section slice. The pointer is invalidated by later mutations.
func (f *Form) AddSection(title string) (*Section, error) {
	if title == "" {
		return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	f.Sections = append(f.Sections, Section{
		ID:        uuid.NewString(),
		Title:     title,
		Questions: []Question{},
	})
	f.touch()
	return &f.Sections[len(f.Sections)-1], nil
}

// RemoveSection removes a section and all of its questions.
func (f *Form) RemoveSection(sectionID string) error {
	for i := range f.Sections {
		if f.Sections[i].ID == sectionID {
			f.Sections = append(f.Sections[:i], f.Sections[i+1:]...)
			f.touch()
			return nil
		}
	}
	return &NotFoundError{Kind: "section", ID: sectionID}
}

// ReorderSections replaces the section order. newOrder must be an exact
// permutation of the current section ids; otherwise nothing changes.
func (f *Form) ReorderSections(newOrder []string) error {
	reordered, err := reorder(f.Sections, newOrder, func(s Section) string { return s.ID })
	if err != nil {
		return err
	}
	f.Sections = reordered
	f.touch()
	return nil
}

// Section returns the section with the given id.
func (f *Form) Section(sectionID string) (*Section, error) {
	for i := range f.Sections {
		if f.Sections[i].ID == sectionID {
			return &f.Sections[i], nil
		}
	}
	return nil, &NotFoundError{Kind: "section", ID: sectionID}
}

// Question returns the question with the given id, wherever it sits.
func (f *Form) Question(questionID string) (*Question, error) {
	for i := range f.Sections {
		for j := range f.Sections[i].Questions {
			if f.Sections[i].Questions[j].ID == questionID {
				return &f.Sections[i].Questions[j], nil
			}
		}
	}
	return nil, &NotFoundError{Kind: "question", ID: questionID}
}

func (f *Form) touch() {
	f.UpdatedAt = time.Now().UTC()
}

// AddQuestion appends a question of the given type with an empty config.
func (s *Section) AddQuestion(t QuestionType, label string) (*Question, error) {
	if !IsValidType(t) {
		return nil, &ValidationError{Field: "type", Reason: "unknown question type " + string(t)}
	}
	if label == "" {
		return nil, &ValidationError{Field: "label", Reason: "must not be empty"}
	}
	s.Questions = append(s.Questions, Question{
		ID:     uuid.NewString(),
		Type:   t,
		Label:  label,
		Config: map[string]any{},
	})
	return &s.Questions[len(s.Questions)-1], nil
}

// RemoveQuestion removes a question by id.
func (s *Section) RemoveQuestion(questionID string) error {
	for i := range s.Questions {
		if s.Questions[i].ID == questionID {
			s.Questions = append(s.Questions[:i], s.Questions[i+1:]...)
			return nil
		}
	}
	return &NotFoundError{Kind: "question", ID: questionID}
}

// ReorderQuestions replaces the question order within the section. newOrder
// must be an exact permutation of the current question ids.
func (s *Section) ReorderQuestions(newOrder []string) error {
	reordered, err := reorder(s.Questions, newOrder, func(q Question) string { return q.ID })
	if err != nil {
		return err
	}
	s.Questions = reordered
	return nil
}

// UpdateConfig merges patch into the question's config. Keys not recognized
// for the question's type are kept anyway and returned as warnings, matching
// the lenient behavior form templates have always had.
func (q *Question) UpdateConfig(patch map[string]any) []string {
	recognized := ConfigSchemaFor(q.Type)
	if q.Config == nil {
		q.Config = map[string]any{}
	}
	var warnings []string
	for k, v := range patch {
		if _, ok := recognized[k]; !ok {
			warnings = append(warnings, "config key "+k+" is not recognized for type "+string(q.Type))
		}
		q.Config[k] = v
	}
	return warnings
}

// reorder builds a reordered copy of items, or fails without touching the
// original when newOrder is not a permutation of the current ids.
func reorder[T any](items []T, newOrder []string, id func(T) string) ([]T, error) {
	if len(newOrder) != len(items) {
		return nil, &InvariantError{Reason: "reorder list must contain every current id exactly once"}
	}
	byID := make(map[string]T, len(items))
	for _, it := range items {
		byID[id(it)] = it
	}
	out := make([]T, 0, len(items))
	seen := make(map[string]bool, len(newOrder))
	for _, want := range newOrder {
		if seen[want] {
			return nil, &InvariantError{Reason: "duplicate id " + want + " in reorder list"}
		}
		seen[want] = true
		it, ok := byID[want]
		if !ok {
			return nil, &InvariantError{Reason: "unknown id " + want + " in reorder list"}
		}
		out = append(out, it)
	}
	return out, nil
}
