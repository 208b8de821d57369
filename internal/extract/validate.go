package extract

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/qanoon-app/qanoon/internal/schema"
)

var boolTokens = map[string]bool{
	"yes": true, "no": false, "true": true, "false": false,
	"y": true, "n": false, "1": true, "0": false,
}

// Validate reports whether a value is acceptable for a field descriptor.
// The Skipped sentinel is always valid; the engine decides separately
// whether skipping is allowed for the pending question.
func Validate(value any, desc schema.FieldDescriptor) bool {
	if value == schema.Skipped {
		return true
	}
	switch desc.Type {
	case schema.FieldString, schema.FieldText:
		s, ok := value.(string)
		return ok && len(strings.TrimSpace(s)) > 1
	case schema.FieldNumber:
		switch n := value.(type) {
		case float64:
			return n > 0
		case int:
			return n > 0
		case string:
			f, ok := parseAmount(n)
			return ok && f > 0
		}
		return false
	case schema.FieldDate:
		s, ok := value.(string)
		if !ok {
			_, isTime := value.(time.Time)
			return isTime
		}
		if _, err := time.Parse(isoDate, strings.TrimSpace(s)); err == nil {
			return true
		}
		_, err := dateparse.ParseAny(s)
		return err == nil
	case schema.FieldBoolean:
		if _, ok := value.(bool); ok {
			return true
		}
		s, ok := value.(string)
		if !ok {
			return false
		}
		_, known := boolTokens[strings.ToLower(strings.TrimSpace(s))]
		return known
	case schema.FieldEnum:
		s, ok := value.(string)
		if !ok {
			return false
		}
		return matchesOption(s, desc.Options)
	case schema.FieldArray:
		switch v := value.(type) {
		case []string, []any:
			return true
		case string:
			return strings.Contains(v, ",")
		default:
			return false
		}
	default:
		s, ok := value.(string)
		if ok {
			return strings.TrimSpace(s) != ""
		}
		return value != nil
	}
}

// matchesOption accepts a value that is a case-insensitive substring of an
// option or vice versa; underscores in options read as spaces.
func matchesOption(value string, options []string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return false
	}
	for _, opt := range options {
		o := strings.ToLower(strings.ReplaceAll(opt, "_", " "))
		vn := strings.ReplaceAll(v, "_", " ")
		if strings.Contains(o, vn) || strings.Contains(vn, o) {
			return true
		}
	}
	return false
}

// parseAmount parses a number, tolerating currency words, commas and
// surrounding text like "QAR 1,500".
func parseAmount(s string) (float64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, s)
	if cleaned == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseBoolToken maps a yes/no style answer to a bool.
func parseBoolToken(s string) (bool, bool) {
	b, ok := boolTokens[strings.ToLower(strings.TrimSpace(s))]
	return b, ok
}
