// Package builder wraps a form schema in an admin editing session: a
// selection cursor plus move operations that resolve drag/drop style
// position changes into full reorder lists before applying them.
package builder

import (
	"context"

	"github.com/mhoang/assessforms/internal/schema"
)

// Store is the persistence collaborator a session saves through.
type Store interface {
	SaveForm(ctx context.Context, form *schema.Form) error
	LoadForm(ctx context.Context, id string) (*schema.Form, error)
}

// Session is a stateful editing wrapper around one form. The selection
// cursor is a UI convenience and is never persisted. A failed save leaves
// the in-memory form untouched so no edit is lost.
type Session struct {
	form  *schema.Form
	store Store

	selectedSection  string
	selectedQuestion string
}

// NewSession starts an editing session over an already loaded form.
func NewSession(form *schema.Form, store Store) *Session {
	return &Session{form: form, store: store}
}

// Open loads a form from the store and starts a session over it.
func Open(ctx context.Context, store Store, formID string) (*Session, error) {
	form, err := store.LoadForm(ctx, formID)
	if err != nil {
		return nil, err
	}
	return &Session{form: form, store: store}, nil
}

// Form exposes the form being edited.
func (s *Session) Form() *schema.Form {
	return s.form
}

// SelectSection moves the cursor to a section.
func (s *Session) SelectSection(sectionID string) error {
	if _, err := s.form.Section(sectionID); err != nil {
		return err
	}
	s.selectedSection = sectionID
	s.selectedQuestion = ""
	return nil
}

// SelectQuestion moves the cursor to a question.
func (s *Session) SelectQuestion(questionID string) error {
	if _, err := s.form.Question(questionID); err != nil {
		return err
	}
	s.selectedQuestion = questionID
	return nil
}

// Selection returns the current cursor (section id, question id).
func (s *Session) Selection() (string, string) {
	return s.selectedSection, s.selectedQuestion
}

// AddSection appends a section and selects it.
func (s *Session) AddSection(title string) (*schema.Section, error) {
	section, err := s.form.AddSection(title)
	if err != nil {
		return nil, err
	}
	s.selectedSection = section.ID
	s.selectedQuestion = ""
	return section, nil
}

// RemoveSection removes a section, clearing the cursor if it pointed there.
func (s *Session) RemoveSection(sectionID string) error {
	if err := s.form.RemoveSection(sectionID); err != nil {
		return err
	}
	if s.selectedSection == sectionID {
		s.selectedSection = ""
		s.selectedQuestion = ""
	}
	return nil
}

// MoveSection shifts a section by offset positions (negative is up). The
// move is resolved to a complete reordered id list, so moves across several
// positions cannot suffer splice off-by-one drift.
func (s *Session) MoveSection(sectionID string, offset int) error {
	ids := make([]string, len(s.form.Sections))
	for i, sec := range s.form.Sections {
		ids[i] = sec.ID
	}
	moved, err := moveID(ids, sectionID, offset)
	if err != nil {
		return err
	}
	return s.form.ReorderSections(moved)
}

// AddQuestion appends a question to a section and selects it.
func (s *Session) AddQuestion(sectionID string, t schema.QuestionType, label string) (*schema.Question, error) {
	section, err := s.form.Section(sectionID)
	if err != nil {
		return nil, err
	}
	q, err := section.AddQuestion(t, label)
	if err != nil {
		return nil, err
	}
	s.selectedSection = sectionID
	s.selectedQuestion = q.ID
	return q, nil
}

// RemoveQuestion removes a question from a section.
func (s *Session) RemoveQuestion(sectionID, questionID string) error {
	section, err := s.form.Section(sectionID)
	if err != nil {
		return err
	}
	if err := section.RemoveQuestion(questionID); err != nil {
		return err
	}
	if s.selectedQuestion == questionID {
		s.selectedQuestion = ""
	}
	return nil
}

// MoveQuestion shifts a question within its section by offset positions.
func (s *Session) MoveQuestion(sectionID, questionID string, offset int) error {
	section, err := s.form.Section(sectionID)
	if err != nil {
		return err
	}
	ids := make([]string, len(section.Questions))
	for i, q := range section.Questions {
		ids[i] = q.ID
	}
	moved, err := moveID(ids, questionID, offset)
	if err != nil {
		return err
	}
	return section.ReorderQuestions(moved)
}

// UpdateQuestionConfig merges a config patch into a question, returning
// warnings for keys the question's type does not recognize.
func (s *Session) UpdateQuestionConfig(questionID string, patch map[string]any) ([]string, error) {
	q, err := s.form.Question(questionID)
	if err != nil {
		return nil, err
	}
	return q.UpdateConfig(patch), nil
}

// Save serializes the form and hands it to the store. On failure the
// session keeps its in-memory edits and surfaces the error.
func (s *Session) Save(ctx context.Context) error {
	return s.store.SaveForm(ctx, s.form)
}

// moveID builds a new id order with id shifted by offset, clamped at the
// list ends.
func moveID(ids []string, id string, offset int) ([]string, error) {
	from := -1
	for i, cur := range ids {
		if cur == id {
			from = i
			break
		}
	}
	if from < 0 {
		return nil, &schema.NotFoundError{Kind: "item", ID: id}
	}
	to := from + offset
	if to < 0 {
		to = 0
	}
	if to >= len(ids) {
		to = len(ids) - 1
	}
	rest := make([]string, 0, len(ids)-1)
	rest = append(rest, ids[:from]...)
	rest = append(rest, ids[from+1:]...)

	out := make([]string, 0, len(ids))
	out = append(out, rest[:to]...)
	out = append(out, id)
	out = append(out, rest[to:]...)
	return out, nil
}
