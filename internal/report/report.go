// Package report renders a completed case into its user-facing artifacts:
// the markdown case report, the plain-text file on disk, and the PDF.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/qanoon-app/qanoon/internal/contacts"
	"github.com/qanoon-app/qanoon/internal/schema"
)

const Disclaimer = "This report is general legal information generated from the details you provided. It is not formal legal advice. Consult a licensed Qatari lawyer before acting on it."

const disclaimerAr = "هذا التقرير معلومات قانونية عامة مبنية على التفاصيل التي قدمتها، وليس استشارة قانونية رسمية. استشر محامياً قطرياً مرخصاً قبل اتخاذ أي إجراء."

// BuildMarkdown assembles the full case report. Field values appear in the
// schema's question order; skipped fields are listed as not provided rather
// than omitted, so the reader can see what is still missing.
func BuildMarkdown(caseType schema.CaseType, caseID string, data map[string]any, analysis, language string, completedAt time.Time) string {
	sch, err := schema.Get(caseType)
	if err != nil {
		sch = &schema.CaseSchema{Type: caseType, Title: string(caseType)}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", sch.Title)
	fmt.Fprintf(&b, "- Case ID: %s\n", caseID)
	fmt.Fprintf(&b, "- Case type: %s\n", caseType)
	fmt.Fprintf(&b, "- Date: %s\n\n", completedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "%s\n\n", disclaimerFor(language))

	fmt.Fprintf(&b, "## Case Details\n\n")
	for _, q := range sch.Questions {
		v, ok := schema.Resolve(data, q.Field)
		fmt.Fprintf(&b, "- **%s** %s\n", q.Prompt, formatValue(v, ok))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Legal Analysis\n\n")
	fmt.Fprintf(&b, "%s\n\n", strings.TrimSpace(analysis))

	fmt.Fprintf(&b, "## Relevant Authorities\n\n")
	fmt.Fprintf(&b, "%s\n", contacts.FormatList(contacts.For(caseType), language))

	return b.String()
}

func disclaimerFor(language string) string {
	if language == "ar" {
		return disclaimerAr
	}
	return Disclaimer
}

func formatValue(v any, present bool) string {
	if !present {
		return "Not provided"
	}
	switch t := v.(type) {
	case string:
		if t == schema.Skipped {
			return "Not provided (skipped)"
		}
		return t
	case bool:
		if t {
			return "Yes"
		}
		return "No"
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", t), "0"), ".")
	case []string:
		return strings.Join(t, ", ")
	case []any:
		parts := make([]string, 0, len(t))
		for _, p := range t {
			parts = append(parts, fmt.Sprint(p))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(v)
	}
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// Filename builds the canonical report filename:
// {caseType}-{clientIdentifier}-{date}-{language}.txt. The client name is
// lowercased and reduced to filesystem-safe characters.
func Filename(caseType schema.CaseType, clientName string, date time.Time, language string) string {
	client := strings.ToLower(strings.TrimSpace(clientName))
	client = unsafeFilenameChars.ReplaceAllString(client, "_")
	client = strings.Trim(client, "_")
	if client == "" {
		client = "anonymous"
	}
	if language != "ar" {
		language = "en"
	}
	return fmt.Sprintf("%s-%s-%s-%s.txt", strings.ToLower(string(caseType)), client, date.Format("2006-01-02"), language)
}

// WriteText persists a report under dir with a temp-file-then-rename so a
// crash mid-write never leaves a truncated report behind. Returns the full
// path written.
func WriteText(dir, filename, content string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, filename)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", err
	}
	return path, nil
}
