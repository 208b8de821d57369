// Package intent decides whether a user wants to start a structured
// report, which case type a conversation describes, and what a user wants
// after receiving legal analysis. Keyword fast paths run before any model
// call, and every model failure is absorbed into a safe default.
package intent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/qanoon-app/qanoon/internal/llm"
	"github.com/qanoon-app/qanoon/internal/schema"
)

// startKeywords short-circuit the model call for obvious affirmatives.
// Matched as whole words: substring matching over tokens this short fires
// inside ordinary words ("ok" in "broken").
var startKeywords = map[string]bool{
	"yes": true, "start": true, "begin": true, "proceed": true,
	"ready": true, "sure": true, "okay": true, "ok": true,
	"نعم": true, "ابدأ": true, "موافق": true, "جاهز": true,
}

func hasStartKeyword(message string) bool {
	for _, w := range strings.Fields(strings.ToLower(message)) {
		if startKeywords[strings.Trim(w, ".,!?؟،:;\"'()")] {
			return true
		}
	}
	return false
}

const startIntentPrompt = `The user is chatting with a legal assistant. Decide whether their last message indicates they want to START filing a structured legal report, or just CONTINUE the conversation.

Answer with exactly one token: START_REPORT or CONTINUE.

Last message:
%s`

const classifyPrompt = `Classify the legal matter described in the conversation below into exactly one of these case types:

PHISHING_SMS, PHISHING_EMAIL, ONLINE_FRAUD, ACCOUNT_HACK, ONLINE_HARASSMENT, GENERAL

Answer with only the case type token, nothing else.

Conversation:
%s`

type Detector struct {
	gw llm.Gateway
}

func NewDetector(gw llm.Gateway) *Detector {
	return &Detector{gw: gw}
}

// DetectStartReportIntent reports whether the message asks to begin the
// structured report. The keyword fast path never reaches the gateway;
// gateway failures default to false so an unavailable model never blocks
// free conversation.
func (d *Detector) DetectStartReportIntent(ctx context.Context, message string) bool {
	if hasStartKeyword(message) {
		return true
	}
	reply, err := d.gw.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: "You are a strict one-token classifier."},
		{Role: llm.RoleUser, Content: fmt.Sprintf(startIntentPrompt, message)},
	})
	if err != nil {
		log.Printf("qanoon intent start_detect_failed err=%q", err.Error())
		return false
	}
	return strings.EqualFold(strings.TrimSpace(reply), "START_REPORT")
}

// ClassifyCaseType maps the user-authored turns of a conversation to a
// known case type. Unknown tokens and gateway failures fall back to
// GENERAL; this function never fails outward.
func (d *Detector) ClassifyCaseType(ctx context.Context, userTurns []string) schema.CaseType {
	block := strings.TrimSpace(strings.Join(userTurns, "\n"))
	if block == "" {
		return schema.CaseGeneral
	}
	reply, err := d.gw.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: "You are a strict one-token classifier."},
		{Role: llm.RoleUser, Content: fmt.Sprintf(classifyPrompt, block)},
	})
	if err != nil {
		log.Printf("qanoon intent classify_failed err=%q", err.Error())
		return schema.CaseGeneral
	}
	if ct, ok := schema.Parse(reply); ok {
		return ct
	}
	log.Printf("qanoon intent classify_unknown_token token=%q", strings.TrimSpace(reply))
	return schema.CaseGeneral
}

type PostAnalysisIntent string

const (
	IntentFormalComplaint PostAnalysisIntent = "formal_complaint"
	IntentContactInfo     PostAnalysisIntent = "contact_info"
	IntentUnknown         PostAnalysisIntent = "unknown"
)

var complaintPhrases = []string{
	"formal complaint", "file a complaint", "file the complaint", "submit a complaint",
	"file a report", "report this", "press charges", "شكوى رسمية", "أقدم شكوى",
}

var contactPhrases = []string{
	"contact", "phone number", "who do i call", "who can i call", "reach out",
	"email address", "hotline", "أرقام التواصل", "رقم الهاتف",
}

// DetectPostAnalysisIntent is keyword-only: first matching phrase list
// wins, complaints before contacts.
func DetectPostAnalysisIntent(message string) PostAnalysisIntent {
	lower := strings.ToLower(message)
	for _, p := range complaintPhrases {
		if strings.Contains(lower, p) {
			return IntentFormalComplaint
		}
	}
	for _, p := range contactPhrases {
		if strings.Contains(lower, p) {
			return IntentContactInfo
		}
	}
	return IntentUnknown
}
