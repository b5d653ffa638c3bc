package schema

import (
	"time"
)

// Serialize converts the form into a storage-neutral nested structure of
// maps and slices, the shape it is persisted in. Round trips through
// Deserialize losslessly.
func Serialize(f *Form) map[string]any {
	sections := make([]any, 0, len(f.Sections))
	for _, s := range f.Sections {
		questions := make([]any, 0, len(s.Questions))
		for _, q := range s.Questions {
			cfg := map[string]any{}
			for k, v := range q.Config {
				cfg[k] = v
			}
			questions = append(questions, map[string]any{
				"id":          q.ID,
				"type":        string(q.Type),
				"label":       q.Label,
				"description": q.Description,
				"required":    q.Required,
				"config":      cfg,
			})
		}
		sections = append(sections, map[string]any{
			"id":          s.ID,
			"title":       s.Title,
			"description": s.Description,
			"questions":   questions,
		})
	}
	return map[string]any{
		"id":          f.ID,
		"title":       f.Title,
		"description": f.Description,
		"status":      string(f.Status),
		"sections":    sections,
		"created_at":  f.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updated_at":  f.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// Deserialize rebuilds a Form from its persisted nested structure. It fails
// with SchemaError on unknown question types or ids duplicated within the
// same scope; a form that fails here must not be rendered at all.
func Deserialize(raw map[string]any) (*Form, error) {
	f := &Form{
		ID:          stringField(raw, "id"),
		Title:       stringField(raw, "title"),
		Description: stringField(raw, "description"),
		Status:      FormStatus(stringField(raw, "status")),
		Sections:    []Section{},
	}
	if f.ID == "" {
		return nil, &SchemaError{Reason: "form is missing an id"}
	}
	if f.Status != StatusDraft && f.Status != StatusPublished {
		return nil, &SchemaError{Reason: "unknown form status " + string(f.Status)}
	}

	var err error
	if f.CreatedAt, err = timeField(raw, "created_at"); err != nil {
		return nil, err
	}
	if f.UpdatedAt, err = timeField(raw, "updated_at"); err != nil {
		return nil, err
	}

	rawSections, ok := raw["sections"].([]any)
	if !ok && raw["sections"] != nil {
		return nil, &SchemaError{Reason: "sections must be a list"}
	}

	sectionIDs := map[string]bool{}
	for _, rs := range rawSections {
		sm, ok := rs.(map[string]any)
		if !ok {
			return nil, &SchemaError{Reason: "section must be an object"}
		}
		section := Section{
			ID:          stringField(sm, "id"),
			Title:       stringField(sm, "title"),
			Description: stringField(sm, "description"),
			Questions:   []Question{},
		}
		if section.ID == "" {
			return nil, &SchemaError{Reason: "section is missing an id"}
		}
		if sectionIDs[section.ID] {
			return nil, &SchemaError{Reason: "duplicate section id " + section.ID}
		}
		sectionIDs[section.ID] = true

		rawQuestions, ok := sm["questions"].([]any)
		if !ok && sm["questions"] != nil {
			return nil, &SchemaError{Reason: "questions must be a list"}
		}
		questionIDs := map[string]bool{}
		for _, rq := range rawQuestions {
			qm, ok := rq.(map[string]any)
			if !ok {
				return nil, &SchemaError{Reason: "question must be an object"}
			}
			q := Question{
				ID:          stringField(qm, "id"),
				Type:        QuestionType(stringField(qm, "type")),
				Label:       stringField(qm, "label"),
				Description: stringField(qm, "description"),
				Config:      map[string]any{},
			}
			if q.ID == "" {
				return nil, &SchemaError{Reason: "question is missing an id"}
			}
			if questionIDs[q.ID] {
				return nil, &SchemaError{Reason: "duplicate question id " + q.ID + " in section " + section.ID}
			}
			questionIDs[q.ID] = true
			if !IsValidType(q.Type) {
				return nil, &SchemaError{Reason: "unknown question type " + string(q.Type)}
			}
			if req, ok := qm["required"].(bool); ok {
				q.Required = req
			}
			if cfg, ok := qm["config"].(map[string]any); ok {
				for k, v := range cfg {
					q.Config[k] = v
				}
			}
			section.Questions = append(section.Questions, q)
		}
		f.Sections = append(f.Sections, section)
	}
	return f, nil
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func timeField(m map[string]any, key string) (time.Time, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return time.Time{}, nil
	}
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return time.Time{}, &SchemaError{Reason: key + " is not a valid timestamp"}
		}
		return t, nil
	default:
		return time.Time{}, &SchemaError{Reason: key + " is not a valid timestamp"}
	}
}
