package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/qanoon-app/qanoon/internal/llm"
	"github.com/qanoon-app/qanoon/internal/schema"
	"github.com/qanoon-app/qanoon/internal/session"
)

// scriptedGateway returns queued replies (or errors) in order and counts
// every Complete call.
type scriptedGateway struct {
	script []scriptStep
	calls  int
}

type scriptStep struct {
	reply string
	err   error
}

func (g *scriptedGateway) Complete(_ context.Context, _ []llm.Message) (string, error) {
	g.calls++
	if len(g.script) == 0 {
		return "", errors.New("scripted gateway exhausted")
	}
	step := g.script[0]
	g.script = g.script[1:]
	return step.reply, step.err
}

func (g *scriptedGateway) CompleteWithImage(_ context.Context, _, _ string) (string, error) {
	g.calls++
	if len(g.script) == 0 {
		return "", errors.New("scripted gateway exhausted")
	}
	step := g.script[0]
	g.script = g.script[1:]
	return step.reply, step.err
}

func (g *scriptedGateway) GenerateImage(_ context.Context, _ string) (string, error) {
	return "", errors.New("not scripted")
}

func newTestEngine(script ...scriptStep) (*Engine, *scriptedGateway, *session.Directory) {
	gw := &scriptedGateway{script: script}
	dir := session.NewDirectory(time.Minute, time.Minute)
	return New(gw, dir), gw, dir
}

func reply(s string) scriptStep { return scriptStep{reply: s} }

func TestKeywordFastPathSkipsGateway(t *testing.T) {
	e, gw, dir := newTestEngine()
	res := e.ProcessTurn(context.Background(), "s1", "yes", "")
	if gw.calls != 0 {
		t.Fatalf("fast path made %d gateway calls", gw.calls)
	}
	if res.Reply != confirmStartQuestion("en") {
		t.Fatalf("reply=%q", res.Reply)
	}
	s, _ := dir.Lookup("s1")
	if s.Mode != session.ModeAwaitingConfirmation {
		t.Fatalf("mode=%s", s.Mode)
	}
}

func TestConfirmationDeclineRevertsToConversation(t *testing.T) {
	e, _, dir := newTestEngine(reply("Of course, happy to keep chatting."))
	dir.Update("s1", func(s *session.Session) { s.Mode = session.ModeAwaitingConfirmation })

	res := e.ProcessTurn(context.Background(), "s1", "not right now thanks", "")
	if res.Reply != "Of course, happy to keep chatting." {
		t.Fatalf("reply=%q", res.Reply)
	}
	s, _ := dir.Lookup("s1")
	if s.Mode != session.ModeConversation {
		t.Fatalf("mode=%s", s.Mode)
	}
}

// Full end-to-end intake: conversation -> confirmation -> checklist with a
// skipped optional field -> legal advice with a single compose call.
func TestEndToEndPhishingSMSIntake(t *testing.T) {
	e, gw, dir := newTestEngine(
		reply("START_REPORT"),                       // intent fallback
		reply("PHISHING_SMS"),                       // classification
		reply("Aisha Al-Kuwari"),                    // name
		reply("55511222"),                           // phone
		reply("92000"),                              // sender
		reply("Your card is blocked, click the link"), // message text
		reply("no"),                                 // clicked link
		reply("none"),                               // shared info
		reply("ANALYSIS NARRATIVE"),                 // compose
	)
	var completed []CompletedCase
	e.OnComplete(func(c CompletedCase) { completed = append(completed, c) })

	ctx := context.Background()
	const sid = "e2e"

	res := e.ProcessTurn(ctx, sid, "I got a phishing SMS, I want to report it", "")
	if res.Reply != confirmStartQuestion("en") {
		t.Fatalf("expected confirmation question, got %q", res.Reply)
	}

	res = e.ProcessTurn(ctx, sid, "yes", "")
	if !strings.Contains(res.Reply, "What is your full name?") {
		t.Fatalf("expected first question, got %q", res.Reply)
	}
	s, _ := dir.Lookup(sid)
	if s.Mode != session.ModeChecklist || s.Case.CaseType != schema.CasePhishingSMS {
		t.Fatalf("mode=%s caseType=%v", s.Mode, s.Case.CaseType)
	}

	turns := []struct {
		msg      string
		wantNext string
	}{
		{"My name is Aisha Al-Kuwari", "What is your phone number?"},
		{"55511222", "When did you receive the phishing SMS?"},
		{"I don't remember", "What number or sender name did the SMS come from?"}, // skip, no gateway call
		{"it came from 92000", "What did the message say?"},
		{"Your card is blocked, click the link", "Did you click any link in the message?"},
		{"no I did not", "What information did you share, if any?"},
	}
	for _, tc := range turns {
		res = e.ProcessTurn(ctx, sid, tc.msg, "")
		if !strings.Contains(res.Reply, tc.wantNext) {
			t.Fatalf("after %q expected %q, got %q", tc.msg, tc.wantNext, res.Reply)
		}
		if res.IsComplete {
			t.Fatalf("premature completion after %q", tc.msg)
		}
	}

	res = e.ProcessTurn(ctx, sid, "none", "")
	if !strings.Contains(res.Reply, "How much money did you lose") {
		t.Fatalf("expected loss question, got %q", res.Reply)
	}

	res = e.ProcessTurn(ctx, sid, "skip", "")
	if !res.IsComplete {
		t.Fatal("expected completion")
	}
	if res.Reply != "ANALYSIS NARRATIVE" {
		t.Fatalf("reply=%q", res.Reply)
	}
	if gw.calls != 9 {
		t.Fatalf("gateway calls=%d want 9", gw.calls)
	}

	s, _ = dir.Lookup(sid)
	if s.Mode != session.ModeLegalAdvice || !s.CaseCompleted {
		t.Fatalf("mode=%s completed=%v", s.Mode, s.CaseCompleted)
	}
	if s.Case.Status != session.CaseComplete {
		t.Fatalf("case status=%s", s.Case.Status)
	}
	if v, _ := schema.Resolve(s.Case.Data, "incident.date"); v != schema.Skipped {
		t.Fatalf("skipped field stored %v", v)
	}
	if !s.Skipped["incident.date"] || !s.Skipped["incident.financialLoss"] {
		t.Fatalf("skip set=%v", s.Skipped)
	}
	if v, _ := schema.Resolve(s.Case.Data, "incident.clickedLink"); v != false {
		t.Fatalf("boolean stored %v", v)
	}
	if len(completed) != 1 {
		t.Fatalf("completion hook invoked %d times", len(completed))
	}
	if completed[0].ClientName != "Aisha Al-Kuwari" || completed[0].CaseType != schema.CasePhishingSMS {
		t.Fatalf("completed=%+v", completed[0])
	}
}

func TestSkipOnDisallowedQuestionIsIdempotentReAsk(t *testing.T) {
	e, gw, dir := newTestEngine()
	sid, _, _, err := e.StartCase(schema.CaseGeneral, "en")
	if err != nil {
		t.Fatalf("StartCase: %v", err)
	}
	for i := 0; i < 3; i++ {
		res := e.ProcessTurn(context.Background(), sid, "skip", "")
		if !strings.HasPrefix(res.Reply, clarifyRequired("en")) {
			t.Fatalf("iteration %d: reply=%q", i, res.Reply)
		}
	}
	s, _ := dir.Lookup(sid)
	if s.Mode != session.ModeChecklist {
		t.Fatalf("mode changed to %s", s.Mode)
	}
	if len(s.Case.Data) != 0 {
		t.Fatalf("field written despite disallowed skip: %v", s.Case.Data)
	}
	if gw.calls != 0 {
		t.Fatalf("skip handling made %d gateway calls", gw.calls)
	}
}

func TestInvalidAnswerReAsksWithoutWriting(t *testing.T) {
	e, _, dir := newTestEngine(reply("definitely maybe"))
	dir.Update("s1", func(s *session.Session) {
		s.Mode = session.ModeChecklist
		s.Case = newCaseRecord(schema.CasePhishingSMS)
		for _, f := range []string{"complainant.name", "complainant.phone", "incident.date", "incident.senderNumber", "incident.messageText"} {
			s.Case = s.Case.WithField(f, "prefilled value")
		}
	})

	res := e.ProcessTurn(context.Background(), "s1", "hard to say really", "")
	if !strings.HasPrefix(res.Reply, clarifyInvalid("en")) {
		t.Fatalf("reply=%q", res.Reply)
	}
	s, _ := dir.Lookup("s1")
	if _, ok := schema.Resolve(s.Case.Data, "incident.clickedLink"); ok {
		t.Fatal("invalid value was written")
	}
}

func TestValidAnswersWriteExactlyOneFieldEach(t *testing.T) {
	e, _, dir := newTestEngine(
		reply("Mohammed"),
		reply("33445566"),
	)
	sid, _, _, err := e.StartCase(schema.CaseGeneral, "en")
	if err != nil {
		t.Fatalf("StartCase: %v", err)
	}
	e.ProcessTurn(context.Background(), sid, "Mohammed", "")
	e.ProcessTurn(context.Background(), sid, "33445566", "")

	s, _ := dir.Lookup(sid)
	writes := 0
	for _, q := range []string{"complainant.name", "complainant.phone", "inquiry.date", "inquiry.description"} {
		if _, ok := schema.Resolve(s.Case.Data, q); ok {
			writes++
		}
	}
	if writes != 2 {
		t.Fatalf("expected exactly 2 field writes, found %d: %v", writes, s.Case.Data)
	}
}

func TestComposeFailureKeepsChecklistState(t *testing.T) {
	e, _, dir := newTestEngine(
		reply("Mohammed"),
		reply("33445566"),
		reply("I was overcharged by my landlord"),
		scriptStep{err: llm.ErrUpstreamUnavailable}, // compose fails
		reply("ANALYSIS OK"),                        // retry succeeds
	)
	sid, _, _, err := e.StartCase(schema.CaseGeneral, "en")
	if err != nil {
		t.Fatalf("StartCase: %v", err)
	}
	ctx := context.Background()
	e.ProcessTurn(ctx, sid, "Mohammed", "")
	e.ProcessTurn(ctx, sid, "33445566", "")
	e.ProcessTurn(ctx, sid, "skip", "") // inquiry.date allows skip

	res := e.ProcessTurn(ctx, sid, "I was overcharged by my landlord", "")
	if res.IsComplete {
		t.Fatal("turn completed despite compose failure")
	}
	if res.Reply != apology("en") {
		t.Fatalf("reply=%q", res.Reply)
	}
	s, _ := dir.Lookup(sid)
	if s.Mode != session.ModeChecklist || s.CaseCompleted {
		t.Fatalf("mode=%s completed=%v", s.Mode, s.CaseCompleted)
	}

	// The same turn can be retried once the gateway recovers.
	res = e.ProcessTurn(ctx, sid, "please try again", "")
	if !res.IsComplete || res.Reply != "ANALYSIS OK" {
		t.Fatalf("retry result=%+v", res)
	}
}

func TestStartCaseUnknownType(t *testing.T) {
	e, _, _ := newTestEngine()
	if _, _, _, err := e.StartCase(schema.CaseType("VISA_ISSUE"), "en"); !errors.Is(err, ErrInvalidCaseType) {
		t.Fatalf("err=%v", err)
	}
}

func TestGetStatus(t *testing.T) {
	e, _, _ := newTestEngine()
	if _, err := e.GetStatus("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("err=%v", err)
	}
	// GetStatus must not create the session it probed for.
	if _, err := e.GetStatus("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("status probe created a session: %v", err)
	}

	sid, _, _, err := e.StartCase(schema.CaseOnlineFraud, "ar")
	if err != nil {
		t.Fatalf("StartCase: %v", err)
	}
	st, err := e.GetStatus(sid)
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if st.Mode != session.ModeChecklist || st.CaseType != schema.CaseOnlineFraud || !st.Active {
		t.Fatalf("status=%+v", st)
	}
}

func TestPostAnalysisContactInfoIsKeywordOnly(t *testing.T) {
	e, gw, dir := newTestEngine()
	dir.Update("s1", func(s *session.Session) {
		s.Mode = session.ModeLegalAdvice
		s.Case = newCaseRecord(schema.CasePhishingSMS)
		s.CaseCompleted = true
	})
	res := e.ProcessTurn(context.Background(), "s1", "who do I call about this?", "")
	if gw.calls != 0 {
		t.Fatalf("keyword branch made %d gateway calls", gw.calls)
	}
	if !strings.Contains(res.Reply, "Cyber Crime Combat Department") {
		t.Fatalf("reply=%q", res.Reply)
	}
}

func TestStartCaseArabicFirstQuestion(t *testing.T) {
	e, _, _ := newTestEngine()
	_, first, _, err := e.StartCase(schema.CasePhishingSMS, "ar")
	if err != nil {
		t.Fatalf("StartCase: %v", err)
	}
	if !strings.Contains(first, "ما هو اسمك الكامل؟") {
		t.Fatalf("first=%q", first)
	}
}
