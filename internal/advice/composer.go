// Package advice assembles collected case data and static legal-text
// snippets into one completion request and returns the narrative analysis.
package advice

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/qanoon-app/qanoon/internal/llm"
	"github.com/qanoon-app/qanoon/internal/schema"
)

const systemPromptEn = `You are a legal assistant for Qatar. Using the structured case data and the statute excerpts provided, write a clear preliminary legal analysis for the complainant: summarize the facts, identify the likely applicable provisions, outline realistic next steps, and note what evidence to preserve. Be factual and measured. End with a reminder that this is general guidance, not formal legal advice, and that a licensed Qatari lawyer should be consulted.`

const systemPromptAr = `أنت مساعد قانوني في دولة قطر. باستخدام بيانات الحالة والنصوص القانونية المرفقة، اكتب تحليلاً قانونياً أولياً واضحاً باللغة العربية: لخص الوقائع، وحدد المواد القانونية المنطبقة، واشرح الخطوات العملية التالية، وبيّن الأدلة الواجب الاحتفاظ بها. اختم بتنبيه أن هذا إرشاد عام وليس استشارة قانونية رسمية.`

type Composer struct {
	gw llm.Gateway
}

func NewComposer(gw llm.Gateway) *Composer {
	return &Composer{gw: gw}
}

// Compose produces the final analysis narrative for a completed intake.
// This is the single gateway call of the legal-advice transition; errors
// propagate so the engine can keep the session in its pre-completion state.
func (c *Composer) Compose(ctx context.Context, caseType schema.CaseType, data map[string]any, language string) (string, error) {
	system := systemPromptEn
	if language == "ar" {
		system = systemPromptAr
	}
	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize case data: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Case type: %s\n\n", caseType)
	b.WriteString("Relevant statute excerpts:\n")
	for _, s := range snippetsFor(caseType) {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	fmt.Fprintf(&b, "\nCollected case data (fields marked %s were not provided):\n%s\n", schema.Skipped, payload)

	return c.gw.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: system},
		{Role: llm.RoleUser, Content: b.String()},
	})
}
