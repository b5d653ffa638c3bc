package schema

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

// AnswerMap holds a respondent's answers keyed by question id. Value shapes
// depend on the question type: string for text-like and date questions,
// []any or []string for multi-valued ones, a number for rating and number.
type AnswerMap map[string]any

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9()\-. ]{6,20}$`)
)

// ValidateAll checks every answer against the form schema and returns one
// message per invalid question. An empty map means the answers are ready to
// submit. The result is a pure function of the form and the answers.
func ValidateAll(f *Form, answers AnswerMap) map[string]string {
	errs := map[string]string{}
	known := map[string]bool{}

	for si := range f.Sections {
		for qi := range f.Sections[si].Questions {
			q := &f.Sections[si].Questions[qi]
			known[q.ID] = true

			value, present := answers[q.ID]
			if !present || isEmptyAnswer(value) {
				if q.Required {
					errs[q.ID] = "this field is required"
				}
				continue
			}
			if msg := validateAnswer(q, value); msg != "" {
				errs[q.ID] = msg
			}
		}
	}

	for id := range answers {
		if !known[id] {
			errs[id] = "answer does not match any question in this form"
		}
	}
	return errs
}

// SeedDefaults builds the initial answer map for a blank rendering of the
// form, taking config.defaultValue where one is declared.
func SeedDefaults(f *Form) AnswerMap {
	answers := AnswerMap{}
	for _, s := range f.Sections {
		for _, q := range s.Questions {
			if dv, ok := q.Config["defaultValue"]; ok && dv != nil {
				answers[q.ID] = dv
			}
		}
	}
	return answers
}

// Flatten turns a validated answer map into the flat record committed to the
// backend: one scalar or list entry per answered question id.
func Flatten(f *Form, answers AnswerMap) map[string]any {
	record := map[string]any{}
	for _, s := range f.Sections {
		for _, q := range s.Questions {
			if v, ok := answers[q.ID]; ok && !isEmptyAnswer(v) {
				record[q.ID] = v
			}
		}
	}
	return record
}

func validateAnswer(q *Question, value any) string {
	switch q.Type {
	case TypeText, TypeTextarea:
		s, ok := value.(string)
		if !ok {
			return "answer must be text"
		}
		return checkLength(q.Config, s)
	case TypeEmail:
		s, ok := value.(string)
		if !ok || !emailPattern.MatchString(s) {
			return "must be a valid email address"
		}
	case TypePhone:
		s, ok := value.(string)
		if !ok || !phonePattern.MatchString(strings.TrimSpace(s)) {
			return "must be a valid phone number"
		}
	case TypeDate:
		s, ok := value.(string)
		if !ok {
			return "answer must be a date"
		}
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return "must be a date in YYYY-MM-DD format"
		}
		if min, ok := q.Config["min"].(string); ok {
			if minDate, err := time.Parse("2006-01-02", min); err == nil && d.Before(minDate) {
				return "date must not be before " + min
			}
		}
		if max, ok := q.Config["max"].(string); ok {
			if maxDate, err := time.Parse("2006-01-02", max); err == nil && d.After(maxDate) {
				return "date must not be after " + max
			}
		}
	case TypeNumber, TypeRating:
		n, ok := toNumber(value)
		if !ok {
			return "answer must be a number"
		}
		return checkRange(q, n)
	case TypeSelect:
		if multiple, _ := q.Config["multiple"].(bool); multiple {
			return checkMembershipList(q.Config, value)
		}
		return checkMembership(q.Config, value)
	case TypeRadio:
		return checkMembership(q.Config, value)
	case TypeMultiselect, TypeCheckbox:
		return checkMembershipList(q.Config, value)
	case TypeFile:
		if _, ok := value.(string); !ok {
			return "answer must be a file reference"
		}
	}
	return ""
}

func checkLength(cfg map[string]any, s string) string {
	length := len([]rune(s))
	if min, ok := toNumber(cfg["minLength"]); ok && float64(length) < min {
		return fmt.Sprintf("must be at least %d characters", int(min))
	}
	if max, ok := toNumber(cfg["maxLength"]); ok && float64(length) > max {
		return fmt.Sprintf("must be at most %d characters", int(max))
	}
	return ""
}

func checkRange(q *Question, n float64) string {
	if min, ok := toNumber(q.Config["min"]); ok && n < min {
		return fmt.Sprintf("must be at least %v", min)
	}
	if max, ok := toNumber(q.Config["max"]); ok && n > max {
		return fmt.Sprintf("must be at most %v", max)
	}
	if q.Type == TypeRating && n < 0 {
		return "must not be negative"
	}
	if step, ok := toNumber(q.Config["step"]); ok && step > 0 {
		if r := math.Mod(n, step); math.Abs(r) > 1e-9 && math.Abs(r-step) > 1e-9 {
			return fmt.Sprintf("must be a multiple of %v", step)
		}
	}
	return ""
}

func checkMembership(cfg map[string]any, value any) string {
	s, ok := value.(string)
	if !ok {
		return "answer must be a single option value"
	}
	allowed := optionValues(cfg)
	if allowed == nil {
		return ""
	}
	if !allowed[s] {
		return "answer is not one of the allowed options"
	}
	return ""
}

func checkMembershipList(cfg map[string]any, value any) string {
	values, ok := toStringList(value)
	if !ok {
		return "answer must be a list of option values"
	}
	allowed := optionValues(cfg)
	if allowed == nil {
		return ""
	}
	for _, v := range values {
		if !allowed[v] {
			return "answer contains a value that is not an allowed option"
		}
	}
	return ""
}

// optionValues returns the set of legal option values, or nil when the
// question declares no options list (anything goes).
func optionValues(cfg map[string]any) map[string]bool {
	rawOptions, ok := cfg["options"].([]any)
	if !ok {
		return nil
	}
	allowed := map[string]bool{}
	for _, ro := range rawOptions {
		if om, ok := ro.(map[string]any); ok {
			if v, ok := om["value"].(string); ok {
				allowed[v] = true
			}
		}
	}
	return allowed
}

func isEmptyAnswer(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	default:
		return false
	}
}

func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	default:
		return 0, false
	}
}

func toStringList(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}
