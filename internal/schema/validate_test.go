package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validationFixture returns a published form with one question per rule
// family, plus a lookup from label to question id.
func validationFixture(t *testing.T) (*Form, map[string]string) {
	t.Helper()
	form := buildTestForm(t)
	section, err := form.AddSection("About you")
	require.NoError(t, err)

	ids := map[string]string{}
	add := func(qt QuestionType, label string, required bool, cfg map[string]any) {
		q, err := section.AddQuestion(qt, label)
		require.NoError(t, err)
		q.Required = required
		if cfg != nil {
			q.UpdateConfig(cfg)
		}
		ids[label] = q.ID
	}

	add(TypeText, "name", true, map[string]any{"minLength": 3, "maxLength": 10})
	add(TypeEmail, "email", true, nil)
	add(TypePhone, "phone", false, nil)
	add(TypeDate, "start", false, map[string]any{"min": "2026-01-01", "max": "2026-12-31"})
	add(TypeNumber, "headcount", false, map[string]any{"min": 1, "max": 500, "step": 1})
	add(TypeRating, "nps", false, map[string]any{"max": 10})
	add(TypeRadio, "size", false, map[string]any{"options": []any{
		map[string]any{"value": "small", "label": "Small"},
		map[string]any{"value": "large", "label": "Large"},
	}})
	add(TypeMultiselect, "channels", false, map[string]any{"options": []any{
		map[string]any{"value": "email", "label": "Email"},
		map[string]any{"value": "ads", "label": "Ads"},
	}})
	return form, ids
}

func TestValidateAllRequiredTotality(t *testing.T) {
	form, ids := validationFixture(t)

	// Absent, empty string, and empty list all count as missing.
	for name, answers := range map[string]AnswerMap{
		"absent":     {},
		"empty":      {ids["name"]: "", ids["email"]: ""},
		"nil values": {ids["name"]: nil, ids["email"]: nil},
	} {
		errs := ValidateAll(form, answers)
		assert.Equal(t, "this field is required", errs[ids["name"]], name)
		assert.Equal(t, "this field is required", errs[ids["email"]], name)
	}

	// Optional questions never produce a required error.
	errs := ValidateAll(form, AnswerMap{ids["name"]: "Ada", ids["email"]: "ada@example.com"})
	assert.Empty(t, errs)
}

func TestValidateAllTextLength(t *testing.T) {
	form, ids := validationFixture(t)
	base := AnswerMap{ids["email"]: "ada@example.com"}

	base[ids["name"]] = "hi"
	errs := ValidateAll(form, base)
	assert.Equal(t, "must be at least 3 characters", errs[ids["name"]])

	base[ids["name"]] = "hello"
	errs = ValidateAll(form, base)
	assert.Empty(t, errs)

	base[ids["name"]] = "a very long answer"
	errs = ValidateAll(form, base)
	assert.Equal(t, "must be at most 10 characters", errs[ids["name"]])
}

func TestValidateAllFormats(t *testing.T) {
	form, ids := validationFixture(t)
	ok := AnswerMap{ids["name"]: "Ada", ids["email"]: "ada@example.com"}

	cases := []struct {
		label string
		value any
		msg   string
	}{
		{"email", "not-an-email", "must be a valid email address"},
		{"phone", "abc", "must be a valid phone number"},
		{"phone", "+1 (555) 123-4567", ""},
		{"start", "31/12/2026", "must be a date in YYYY-MM-DD format"},
		{"start", "2025-06-01", "date must not be before 2026-01-01"},
		{"start", "2026-06-01", ""},
		{"headcount", float64(0), "must be at least 1"},
		{"headcount", float64(1000), "must be at most 500"},
		{"headcount", 2.5, "must be a multiple of 1"},
		{"headcount", float64(42), ""},
		{"nps", float64(11), "must be at most 10"},
		{"nps", float64(9), ""},
		{"size", "medium", "answer is not one of the allowed options"},
		{"size", "small", ""},
		{"channels", []any{"email", "radio"}, "answer contains a value that is not an allowed option"},
		{"channels", []any{"email", "ads"}, ""},
	}
	for _, tc := range cases {
		answers := AnswerMap{}
		for k, v := range ok {
			answers[k] = v
		}
		answers[ids[tc.label]] = tc.value
		errs := ValidateAll(form, answers)
		if tc.msg == "" {
			assert.NotContains(t, errs, ids[tc.label], "%s=%v", tc.label, tc.value)
		} else {
			assert.Equal(t, tc.msg, errs[ids[tc.label]], "%s=%v", tc.label, tc.value)
		}
	}
}

func TestValidateAllRejectsUnknownAnswerIDs(t *testing.T) {
	form, ids := validationFixture(t)
	errs := ValidateAll(form, AnswerMap{
		ids["name"]:  "Ada",
		ids["email"]: "ada@example.com",
		"stray":      "value",
	})
	assert.Equal(t, "answer does not match any question in this form", errs["stray"])
}

func TestValidateAllIsPure(t *testing.T) {
	form, ids := validationFixture(t)
	answers := AnswerMap{ids["name"]: "hi"}

	first := ValidateAll(form, answers)
	second := ValidateAll(form, answers)
	assert.Equal(t, first, second)
	// The inputs are untouched.
	assert.Equal(t, AnswerMap{ids["name"]: "hi"}, answers)
}

func TestSeedDefaults(t *testing.T) {
	form := buildTestForm(t)
	section, _ := form.AddSection("About you")
	q, _ := section.AddQuestion(TypeRating, "nps")
	q.UpdateConfig(map[string]any{"max": 10, "defaultValue": 5})
	plain, _ := section.AddQuestion(TypeText, "name")

	answers := SeedDefaults(form)
	assert.Equal(t, 5, answers[q.ID])
	assert.NotContains(t, answers, plain.ID)
}

func TestFlattenSkipsEmptyAnswers(t *testing.T) {
	form, ids := validationFixture(t)
	record := Flatten(form, AnswerMap{
		ids["name"]:     "Ada",
		ids["email"]:    "",
		ids["channels"]: []any{},
		"stray":         "dropped",
	})
	assert.Equal(t, map[string]any{ids["name"]: "Ada"}, record)
}
