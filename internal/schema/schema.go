// Package schema holds the static case-type registry: the ordered intake
// questions and field descriptors for every case type the assistant can
// collect. The registry is immutable after process start.
package schema

import (
	"errors"
	"strings"
)

type CaseType string

const (
	CasePhishingSMS      CaseType = "PHISHING_SMS"
	CasePhishingEmail    CaseType = "PHISHING_EMAIL"
	CaseOnlineFraud      CaseType = "ONLINE_FRAUD"
	CaseAccountHack      CaseType = "ACCOUNT_HACK"
	CaseOnlineHarassment CaseType = "ONLINE_HARASSMENT"
	CaseGeneral          CaseType = "GENERAL"
)

type FieldType string

const (
	FieldString  FieldType = "string"
	FieldText    FieldType = "text"
	FieldNumber  FieldType = "number"
	FieldDate    FieldType = "date"
	FieldBoolean FieldType = "boolean"
	FieldEnum    FieldType = "enum"
	FieldArray   FieldType = "array"
)

// Skipped is the sentinel stored when the user declined or could not
// provide a field. It is a valid value for every field type.
const Skipped = "SKIPPED"

var ErrUnknownCaseType = errors.New("unknown case type")

type FieldQuestion struct {
	Field     string
	Prompt    string
	PromptAr  string
	AllowSkip bool
}

type FieldDescriptor struct {
	Type     FieldType
	Required bool
	Options  []string
}

type CaseSchema struct {
	Type      CaseType
	Title     string
	Questions []FieldQuestion
	Fields    map[string]FieldDescriptor
}

// Get returns the schema for a case type. The registry never changes after
// init, so the returned pointer must be treated as read-only.
func Get(ct CaseType) (*CaseSchema, error) {
	s, ok := registry[ct]
	if !ok {
		return nil, ErrUnknownCaseType
	}
	return s, nil
}

func KnownTypes() []CaseType {
	return []CaseType{
		CasePhishingSMS,
		CasePhishingEmail,
		CaseOnlineFraud,
		CaseAccountHack,
		CaseOnlineHarassment,
		CaseGeneral,
	}
}

// Parse maps a free-form token to a known case type. Tokens are matched
// after trimming and uppercasing.
func Parse(token string) (CaseType, bool) {
	ct := CaseType(strings.ToUpper(strings.TrimSpace(token)))
	_, ok := registry[ct]
	return ct, ok
}

// Resolve walks a dot-separated field path through nested maps. The second
// return is false when any path segment is absent.
func Resolve(data map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	var cur any = data
	for _, p := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// empty reports whether a resolved value counts as "no value yet".
// The Skipped sentinel is a value, not emptiness.
func empty(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// NextPendingQuestion returns the first question whose field path resolves
// to an undefined, nil or empty value in data, or nil when every question
// (including skipped ones) has been answered.
func (s *CaseSchema) NextPendingQuestion(data map[string]any) *FieldQuestion {
	for i := range s.Questions {
		q := &s.Questions[i]
		v, ok := Resolve(data, q.Field)
		if !ok || empty(v) {
			return q
		}
	}
	return nil
}

// MissingRequired collects every required field that has no value. A field
// whose stored value is the Skipped sentinel is still reported missing
// unless its path appears in ignore; callers that treat an explicit skip
// as acceptable pass the session's skipped set here.
func (s *CaseSchema) MissingRequired(data map[string]any, ignore map[string]bool) []string {
	var missing []string
	for path, desc := range s.Fields {
		if !desc.Required {
			continue
		}
		if ignore[path] {
			continue
		}
		v, ok := Resolve(data, path)
		if !ok || empty(v) || v == Skipped {
			missing = append(missing, path)
		}
	}
	// Field maps iterate in random order; report in question order.
	return s.sortByQuestionOrder(missing)
}

func (s *CaseSchema) sortByQuestionOrder(paths []string) []string {
	if len(paths) < 2 {
		return paths
	}
	pos := make(map[string]int, len(s.Questions))
	for i, q := range s.Questions {
		pos[q.Field] = i
	}
	out := make([]string, 0, len(paths))
	for _, q := range s.Questions {
		for _, p := range paths {
			if p == q.Field {
				out = append(out, p)
			}
		}
	}
	for _, p := range paths {
		if _, ok := pos[p]; !ok {
			out = append(out, p)
		}
	}
	return out
}

// QuestionFor returns the question that collects the given field path.
func (s *CaseSchema) QuestionFor(path string) *FieldQuestion {
	for i := range s.Questions {
		if s.Questions[i].Field == path {
			return &s.Questions[i]
		}
	}
	return nil
}
