package schema

import "fmt"

// QuestionType is the closed set of input kinds a question can have.
type QuestionType string

const (
	TypeText        QuestionType = "text"
	TypeTextarea    QuestionType = "textarea"
	TypeSelect      QuestionType = "select"
	TypeMultiselect QuestionType = "multiselect"
	TypeCheckbox    QuestionType = "checkbox"
	TypeRadio       QuestionType = "radio"
	TypeRating      QuestionType = "rating"
	TypeDate        QuestionType = "date"
	TypeNumber      QuestionType = "number"
	TypeEmail       QuestionType = "email"
	TypePhone       QuestionType = "phone"
	TypeFile        QuestionType = "file"
)

// FieldKind describes the data kind of one config key.
type FieldKind string

const (
	KindString FieldKind = "string"
	KindNumber FieldKind = "number"
	KindBool   FieldKind = "bool"
	KindList   FieldKind = "list"
)

// FieldSpec describes one recognized configuration key for a question type.
type FieldSpec struct {
	Kind        FieldKind
	Description string
}

// questionTypes fixes the listing order of the registry.
var questionTypes = []QuestionType{
	TypeText, TypeTextarea, TypeSelect, TypeMultiselect, TypeCheckbox,
	TypeRadio, TypeRating, TypeDate, TypeNumber, TypeEmail, TypePhone, TypeFile,
}

var configSchemas = map[QuestionType]map[string]FieldSpec{
	TypeText: {
		"minLength":    {KindNumber, "minimum number of characters"},
		"maxLength":    {KindNumber, "maximum number of characters"},
		"placeholder":  {KindString, "placeholder text"},
		"defaultValue": {KindString, "pre-filled value"},
	},
	TypeTextarea: {
		"minLength":    {KindNumber, "minimum number of characters"},
		"maxLength":    {KindNumber, "maximum number of characters"},
		"placeholder":  {KindString, "placeholder text"},
		"defaultValue": {KindString, "pre-filled value"},
		"rows":         {KindNumber, "visible text rows"},
	},
	TypeSelect: {
		"options":      {KindList, "ordered list of {value,label} choices"},
		"multiple":     {KindBool, "allow selecting more than one option"},
		"placeholder":  {KindString, "placeholder text"},
		"defaultValue": {KindString, "pre-selected option value"},
	},
	TypeMultiselect: {
		"options":      {KindList, "ordered list of {value,label} choices"},
		"defaultValue": {KindList, "pre-selected option values"},
	},
	TypeCheckbox: {
		"options":      {KindList, "ordered list of {value,label} choices"},
		"defaultValue": {KindList, "pre-checked option values"},
	},
	TypeRadio: {
		"options":      {KindList, "ordered list of {value,label} choices"},
		"defaultValue": {KindString, "pre-selected option value"},
	},
	TypeRating: {
		"max":          {KindNumber, "rating scale maximum"},
		"defaultValue": {KindNumber, "pre-selected rating"},
	},
	TypeDate: {
		"min":          {KindString, "earliest allowed date (YYYY-MM-DD)"},
		"max":          {KindString, "latest allowed date (YYYY-MM-DD)"},
		"defaultValue": {KindString, "pre-filled date (YYYY-MM-DD)"},
	},
	TypeNumber: {
		"min":          {KindNumber, "minimum allowed value"},
		"max":          {KindNumber, "maximum allowed value"},
		"step":         {KindNumber, "value granularity"},
		"placeholder":  {KindString, "placeholder text"},
		"defaultValue": {KindNumber, "pre-filled value"},
	},
	TypeEmail: {
		"placeholder":  {KindString, "placeholder text"},
		"defaultValue": {KindString, "pre-filled value"},
	},
	TypePhone: {
		"placeholder":  {KindString, "placeholder text"},
		"defaultValue": {KindString, "pre-filled value"},
	},
	TypeFile: {
		"accept":  {KindString, "accepted MIME types or extensions"},
		"maxSize": {KindNumber, "maximum file size in bytes"},
	},
}

// ListTypes returns every registered question type in a stable order.
func ListTypes() []QuestionType {
	out := make([]QuestionType, len(questionTypes))
	copy(out, questionTypes)
	return out
}

// IsValidType reports whether t is a registered question type.
func IsValidType(t QuestionType) bool {
	_, ok := configSchemas[t]
	return ok
}

// ConfigSchemaFor returns the recognized config keys for a question type.
// Asking for an unregistered type is a programmer error and panics.
func ConfigSchemaFor(t QuestionType) map[string]FieldSpec {
	spec, ok := configSchemas[t]
	if !ok {
		panic(fmt.Sprintf("schema: unknown question type %q", t))
	}
	out := make(map[string]FieldSpec, len(spec))
	for k, v := range spec {
		out[k] = v
	}
	return out
}
