package extract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/qanoon-app/qanoon/internal/llm"
	"github.com/qanoon-app/qanoon/internal/schema"
)

type fakeGateway struct {
	reply string
	err   error
	calls int
}

func (f *fakeGateway) Complete(_ context.Context, _ []llm.Message) (string, error) {
	f.calls++
	return f.reply, f.err
}

func (f *fakeGateway) CompleteWithImage(_ context.Context, _, _ string) (string, error) {
	return f.reply, f.err
}

func (f *fakeGateway) GenerateImage(_ context.Context, _ string) (string, error) {
	return f.reply, f.err
}

func fixedClock(t *testing.T, iso string) func() time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02", iso)
	if err != nil {
		t.Fatalf("bad fixture date: %v", err)
	}
	return func() time.Time { return ts }
}

var stringDesc = schema.FieldDescriptor{Type: schema.FieldString, Required: true}

func question(field string) schema.FieldQuestion {
	return schema.FieldQuestion{Field: field, Prompt: "test question"}
}

func TestSkipPhrasesShortCircuitGateway(t *testing.T) {
	gw := &fakeGateway{reply: "value"}
	e := NewExtractor(gw)
	for _, msg := range []string{"I don't know", "skip", "not sure honestly", "maybe later", "لا أعرف"} {
		if got := e.Extract(context.Background(), question("x"), stringDesc, msg); got != schema.Skipped {
			t.Fatalf("%q: got %v", msg, got)
		}
	}
	if gw.calls != 0 {
		t.Fatalf("skip phrases reached the gateway %d times", gw.calls)
	}
}

func TestGatewayFailureBecomesSkipped(t *testing.T) {
	e := NewExtractor(&fakeGateway{err: errors.New("status code: 500")})
	if got := e.Extract(context.Background(), question("x"), stringDesc, "my name is Aisha"); got != schema.Skipped {
		t.Fatalf("got %v", got)
	}
}

func TestExtractStripsQuotes(t *testing.T) {
	e := NewExtractor(&fakeGateway{reply: `"Aisha Al-Kuwari"`})
	got := e.Extract(context.Background(), question("complainant.name"), stringDesc, "I'm Aisha Al-Kuwari")
	if got != "Aisha Al-Kuwari" {
		t.Fatalf("got %v", got)
	}
}

func TestExtractDateYesterdayWithFixedClock(t *testing.T) {
	e := NewExtractor(&fakeGateway{reply: "yesterday"})
	e.now = fixedClock(t, "2025-03-15")
	got := e.Extract(context.Background(), question("incident.date"),
		schema.FieldDescriptor{Type: schema.FieldDate, Required: true}, "it happened yesterday")
	if got != "2025-03-14" {
		t.Fatalf("got %v want 2025-03-14", got)
	}
}

func TestExtractDateLastWeekday(t *testing.T) {
	e := NewExtractor(&fakeGateway{reply: "last tuesday"})
	e.now = fixedClock(t, "2025-03-15") // a Saturday
	got := e.Extract(context.Background(), question("incident.date"),
		schema.FieldDescriptor{Type: schema.FieldDate, Required: true}, "last tuesday I think")
	if got != "2025-03-11" {
		t.Fatalf("got %v want 2025-03-11", got)
	}
}

func TestExtractDateUnparseableBecomesSkipped(t *testing.T) {
	e := NewExtractor(&fakeGateway{reply: "during ramadan sometime"})
	e.now = fixedClock(t, "2025-03-15")
	got := e.Extract(context.Background(), question("incident.date"),
		schema.FieldDescriptor{Type: schema.FieldDate, Required: true}, "during ramadan sometime")
	if got != schema.Skipped {
		t.Fatalf("got %v", got)
	}
}

func TestExtractNumberParsesCurrency(t *testing.T) {
	e := NewExtractor(&fakeGateway{reply: "QAR 1,500"})
	got := e.Extract(context.Background(), question("incident.financialLoss"),
		schema.FieldDescriptor{Type: schema.FieldNumber}, "about 1500 riyals")
	if got != float64(1500) {
		t.Fatalf("got %v (%T)", got, got)
	}
}

func TestExtractBooleanAndArray(t *testing.T) {
	e := NewExtractor(&fakeGateway{reply: "Yes"})
	got := e.Extract(context.Background(), question("incident.clickedLink"),
		schema.FieldDescriptor{Type: schema.FieldBoolean}, "yeah I clicked it")
	if got != true {
		t.Fatalf("boolean got %v", got)
	}

	e = NewExtractor(&fakeGateway{reply: "screenshots, bank receipt , chat log"})
	got = e.Extract(context.Background(), question("incident.evidenceItems"),
		schema.FieldDescriptor{Type: schema.FieldArray}, "I have screenshots, a bank receipt and the chat log")
	list, ok := got.([]string)
	if !ok || len(list) != 3 || list[1] != "bank receipt" {
		t.Fatalf("array got %v", got)
	}
}

func TestStripQuotes(t *testing.T) {
	for in, want := range map[string]string{
		`"quoted"`:     "quoted",
		`'single'`:     "single",
		"`tick`":       "tick",
		`""double""`:   "double",
		`plain`:        "plain",
		`"unbalanced`:  `"unbalanced`,
	} {
		if got := stripQuotes(in); got != want {
			t.Fatalf("stripQuotes(%q)=%q want %q", in, got, want)
		}
	}
}
