// Package extract turns unstructured user replies into typed field values.
// Extraction is best-effort by contract: a model hiccup yields the Skipped
// sentinel, never an error, so a single failure cannot break the intake
// conversation. Validation is the separate gate that decides whether a
// value is accepted into the case record.
package extract

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/qanoon-app/qanoon/internal/llm"
	"github.com/qanoon-app/qanoon/internal/schema"
)

// skipPhrases indicate the user cannot or will not answer. Substring
// match, case-insensitive, checked before any model call.
var skipPhrases = []string{
	"i don't know", "i dont know", "don't know", "dont know",
	"don't remember", "dont remember", "can't remember", "cant remember",
	"not sure", "unsure", "no idea", "skip", "later",
	"لا أعرف", "لا اعرف", "لا أتذكر", "لا اتذكر", "تخطي", "تخطى",
}

// IsSkipRequest reports whether the reply is an explicit skip.
func IsSkipRequest(message string) bool {
	lower := strings.ToLower(strings.TrimSpace(message))
	for _, p := range skipPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

const extractionSystemPrompt = "You extract a single field value from a user's reply to an intake question. Answer with only the value itself, no explanation, no punctuation around it."

type Extractor struct {
	gw  llm.Gateway
	now func() time.Time
}

func NewExtractor(gw llm.Gateway) *Extractor {
	return &Extractor{gw: gw, now: time.Now}
}

// Extract produces a typed value for the pending question, or the Skipped
// sentinel when the user skipped, the model failed, or a date could not be
// normalized. It never returns an error.
func (e *Extractor) Extract(ctx context.Context, q schema.FieldQuestion, desc schema.FieldDescriptor, userMessage string) any {
	if IsSkipRequest(userMessage) {
		return schema.Skipped
	}
	reply, err := e.gw.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: extractionSystemPrompt},
		{Role: llm.RoleUser, Content: e.buildPrompt(q, desc, userMessage)},
	})
	if err != nil {
		log.Printf("qanoon extract gateway_failed field=%s err=%q", q.Field, err.Error())
		return schema.Skipped
	}
	clean := stripQuotes(strings.TrimSpace(reply))
	if clean == "" {
		return schema.Skipped
	}
	switch desc.Type {
	case schema.FieldDate:
		if iso, ok := e.normalizeDate(clean, userMessage); ok {
			return iso
		}
		log.Printf("qanoon extract date_unparseable field=%s value=%q", q.Field, clean)
		return schema.Skipped
	case schema.FieldNumber:
		if f, ok := parseAmount(clean); ok {
			return f
		}
		return clean
	case schema.FieldBoolean:
		if b, ok := parseBoolToken(clean); ok {
			return b
		}
		return clean
	case schema.FieldArray:
		if strings.Contains(clean, ",") {
			return splitList(clean)
		}
		return clean
	default:
		return clean
	}
}

func (e *Extractor) buildPrompt(q schema.FieldQuestion, desc schema.FieldDescriptor, userMessage string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question asked: %s\nUser's reply: %s\n\n", q.Prompt, userMessage)
	switch desc.Type {
	case schema.FieldDate:
		fmt.Fprintf(&b, "The field is a date. Convert relative expressions like \"yesterday\" or \"last Tuesday\" to an absolute date in YYYY-MM-DD format. Today is %s.", e.now().Format("2006-01-02"))
	case schema.FieldNumber:
		b.WriteString("The field is a number. Answer with only the numeric amount, digits and an optional decimal point.")
	case schema.FieldBoolean:
		b.WriteString("The field is yes/no. Answer with only \"yes\" or \"no\".")
	case schema.FieldEnum:
		fmt.Fprintf(&b, "Answer with exactly one of: %s.", strings.Join(desc.Options, ", "))
	case schema.FieldArray:
		b.WriteString("The field is a list. Answer with the items separated by commas.")
	default:
		b.WriteString("Answer with only the extracted value.")
	}
	return b.String()
}

// stripQuotes removes one layer of surrounding quote characters the model
// tends to add.
func stripQuotes(s string) string {
	for len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') || (first == '`' && last == '`') {
			s = strings.TrimSpace(s[1 : len(s)-1])
			continue
		}
		break
	}
	return s
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
