// Package engine is the conversation state machine: it decides, turn by
// turn, whether a session is in free conversation, answering the intake
// checklist, or receiving legal analysis, and it owns every mode
// transition. It is a library; transports sit outside and consume
// StartCase, ProcessTurn and GetStatus.
package engine

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/qanoon-app/qanoon/internal/advice"
	"github.com/qanoon-app/qanoon/internal/contacts"
	"github.com/qanoon-app/qanoon/internal/extract"
	"github.com/qanoon-app/qanoon/internal/intent"
	"github.com/qanoon-app/qanoon/internal/llm"
	"github.com/qanoon-app/qanoon/internal/schema"
	"github.com/qanoon-app/qanoon/internal/session"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidCaseType = schema.ErrUnknownCaseType
)

// TurnResult is what a transport relays back to the user for one turn.
type TurnResult struct {
	Reply      string
	Options    []string
	IsComplete bool
	CaseData   map[string]any
}

type Status struct {
	Mode     session.Mode
	CaseType schema.CaseType
	Active   bool
}

// CompletedCase is handed to the completion hook when intake finishes. The
// engine does no file or database I/O itself; archiving and report writing
// are the hook owner's concern.
type CompletedCase struct {
	SessionID   string
	CaseID      string
	CaseType    schema.CaseType
	Language    string
	ClientName  string
	Data        map[string]any
	Analysis    string
	CompletedAt time.Time
}

type CompletionHook func(CompletedCase)

type Engine struct {
	gw         llm.Gateway
	dir        *session.Directory
	intents    *intent.Detector
	extractor  *extract.Extractor
	composer   *advice.Composer
	onComplete CompletionHook
	tracer     trace.Tracer
}

func New(gw llm.Gateway, dir *session.Directory) *Engine {
	return &Engine{
		gw:        gw,
		dir:       dir,
		intents:   intent.NewDetector(gw),
		extractor: extract.NewExtractor(gw),
		composer:  advice.NewComposer(gw),
		tracer:    otel.Tracer("qanoon/engine"),
	}
}

// OnComplete registers the hook invoked once per completed case.
func (e *Engine) OnComplete(hook CompletionHook) { e.onComplete = hook }

// StartCase opens a new session directly in checklist mode for a known
// case type and returns the first question.
func (e *Engine) StartCase(caseType schema.CaseType, language string) (sessionID, firstMessage string, options []string, err error) {
	sch, err := schema.Get(caseType)
	if err != nil {
		return "", "", nil, ErrInvalidCaseType
	}
	if language != "ar" {
		language = "en"
	}
	id := uuid.NewString()
	s := e.dir.Get(id)
	s.Lock()
	defer s.Unlock()
	s.Language = language
	s.Mode = session.ModeChecklist
	s.Case = newCaseRecord(caseType)

	q := sch.NextPendingQuestion(s.Case.Data)
	first := checklistIntro(language, sch) + questionText(q, language)
	s.History = append(s.History, llm.Message{Role: llm.RoleAssistant, Content: first})
	return id, first, nil, nil
}

// ProcessTurn runs one conversational turn. It never returns an error:
// every internal failure becomes an apologetic reply with
// IsComplete=false, and the session's mode is left exactly as it was
// before the failing step.
func (e *Engine) ProcessTurn(ctx context.Context, sessionID, message, imageB64 string) TurnResult {
	s := e.dir.Get(sessionID)
	s.Lock()
	defer s.Unlock()

	ctx, span := e.tracer.Start(ctx, "engine.process_turn",
		trace.WithAttributes(
			attribute.String("session.id", s.ID),
			attribute.String("session.mode", string(s.Mode)),
		))
	defer span.End()

	started := time.Now()
	res, err := e.dispatch(ctx, s, message, imageB64)
	if err != nil {
		span.RecordError(err)
		log.Printf("qanoon engine turn_failed session=%s mode=%s err=%q", s.ID, s.Mode, err.Error())
		return TurnResult{Reply: apology(s.Language)}
	}
	log.Printf("qanoon engine turn_complete session=%s mode=%s complete=%v elapsed_ms=%d",
		s.ID, s.Mode, res.IsComplete, time.Since(started).Milliseconds())
	return res
}

// GetStatus reports session state without creating a session.
func (e *Engine) GetStatus(sessionID string) (Status, error) {
	s, ok := e.dir.Lookup(sessionID)
	if !ok {
		return Status{}, ErrSessionNotFound
	}
	st := Status{Mode: s.Mode}
	if s.Case != nil {
		st.CaseType = s.Case.CaseType
		st.Active = s.Case.Status == session.CaseInProgress
	}
	return st, nil
}

func (e *Engine) dispatch(ctx context.Context, s *session.Session, message, imageB64 string) (TurnResult, error) {
	if strings.TrimSpace(imageB64) != "" {
		return e.handleImage(ctx, s, message, imageB64)
	}
	if strings.TrimSpace(message) == "" {
		return TurnResult{Reply: emptyMessageReply(s.Language)}, nil
	}
	switch s.Mode {
	case session.ModeConversation:
		return e.handleConversation(ctx, s, message)
	case session.ModeAwaitingConfirmation:
		return e.handleConfirmation(ctx, s, message)
	case session.ModeChecklist:
		return e.handleChecklist(ctx, s, message)
	case session.ModeLegalAdvice:
		return e.handlePostAnalysis(ctx, s, message)
	default:
		return TurnResult{}, errors.New("session in unknown mode " + string(s.Mode))
	}
}

func (e *Engine) handleConversation(ctx context.Context, s *session.Session, message string) (TurnResult, error) {
	if e.intents.DetectStartReportIntent(ctx, message) {
		s.Mode = session.ModeAwaitingConfirmation
		reply := confirmStartQuestion(s.Language)
		s.AppendTurn(message, reply)
		return TurnResult{Reply: reply, Options: confirmOptions(s.Language)}, nil
	}
	return e.converse(ctx, s, message)
}

// converse forwards the full history plus the conversation system prompt
// to the gateway and returns its reply verbatim.
func (e *Engine) converse(ctx context.Context, s *session.Session, message string) (TurnResult, error) {
	msgs := make([]llm.Message, 0, len(s.History)+2)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: conversationSystemPrompt(s.Language)})
	msgs = append(msgs, s.History...)
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: message})
	reply, err := e.gw.Complete(ctx, msgs)
	if err != nil {
		return TurnResult{}, err
	}
	s.AppendTurn(message, reply)
	return TurnResult{Reply: reply}, nil
}

func (e *Engine) handleConfirmation(ctx context.Context, s *session.Session, message string) (TurnResult, error) {
	if !isAffirmative(message) {
		s.Mode = session.ModeConversation
		return e.converse(ctx, s, message)
	}
	s.Mode = session.ModeChecklist
	if s.Case == nil {
		ct := e.intents.ClassifyCaseType(ctx, s.UserTurns())
		s.Case = newCaseRecord(ct)
	}
	sch, err := schema.Get(s.Case.CaseType)
	if err != nil {
		return TurnResult{}, err
	}
	q := sch.NextPendingQuestion(s.Case.Data)
	reply := checklistIntro(s.Language, sch) + questionText(q, s.Language)
	s.AppendTurn(message, reply)
	return TurnResult{Reply: reply}, nil
}

func (e *Engine) handleChecklist(ctx context.Context, s *session.Session, message string) (TurnResult, error) {
	if s.Case == nil {
		return TurnResult{}, errors.New("checklist mode without a case record")
	}
	sch, err := schema.Get(s.Case.CaseType)
	if err != nil {
		return TurnResult{}, err
	}
	q := sch.NextPendingQuestion(s.Case.Data)
	if q == nil {
		return e.finishChecklist(ctx, s, sch, message)
	}
	desc := sch.Fields[q.Field]

	if extract.IsSkipRequest(message) {
		if !q.AllowSkip {
			return e.reAsk(s, q, message, clarifyRequired(s.Language)), nil
		}
		e.writeField(s, q.Field, schema.Skipped)
		return e.advance(ctx, s, sch, message)
	}

	value := e.extractor.Extract(ctx, *q, desc, message)
	if value == schema.Skipped && !q.AllowSkip {
		// Best-effort extraction gave up on a question that cannot be
		// skipped; ask again instead of silently writing the sentinel.
		return e.reAsk(s, q, message, clarifyRequired(s.Language)), nil
	}
	if !extract.Validate(value, desc) {
		return e.reAsk(s, q, message, clarifyInvalid(s.Language)), nil
	}
	e.writeField(s, q.Field, value)
	return e.advance(ctx, s, sch, message)
}

// reAsk repeats the pending question with a clarification prefix. No field
// is written and the checklist does not advance.
func (e *Engine) reAsk(s *session.Session, q *schema.FieldQuestion, message, prefix string) TurnResult {
	reply := prefix + questionText(q, s.Language)
	s.AppendTurn(message, reply)
	return TurnResult{Reply: reply}
}

func (e *Engine) writeField(s *session.Session, path string, value any) {
	s.Case = s.Case.WithField(path, value)
	if value == schema.Skipped {
		s.Skipped[path] = true
	}
}

func (e *Engine) advance(ctx context.Context, s *session.Session, sch *schema.CaseSchema, message string) (TurnResult, error) {
	if q := sch.NextPendingQuestion(s.Case.Data); q != nil {
		reply := questionText(q, s.Language)
		s.AppendTurn(message, reply)
		return TurnResult{Reply: reply}, nil
	}
	return e.finishChecklist(ctx, s, sch, message)
}

// finishChecklist runs the completeness check and, when nothing blocks
// completion, performs the single legal-advice gateway call. A compose
// failure leaves the session in checklist mode so the user can retry.
func (e *Engine) finishChecklist(ctx context.Context, s *session.Session, sch *schema.CaseSchema, message string) (TurnResult, error) {
	// Explicitly skipped fields never block completion.
	missing := sch.MissingRequired(s.Case.Data, s.Skipped)
	if len(missing) > 0 {
		reply := missingFieldsReply(s.Language, missing)
		if q := sch.QuestionFor(missing[0]); q != nil {
			reply += questionText(q, s.Language)
		}
		s.AppendTurn(message, reply)
		return TurnResult{Reply: reply}, nil
	}

	analysis, err := e.composer.Compose(ctx, s.Case.CaseType, s.Case.Data, s.Language)
	if err != nil {
		return TurnResult{}, err
	}

	completed := *s.Case
	completed.Status = session.CaseComplete
	completed.UpdatedAt = time.Now()
	s.Case = &completed
	s.Mode = session.ModeLegalAdvice
	s.CaseCompleted = true
	s.AppendTurn(message, analysis)

	if e.onComplete != nil {
		e.onComplete(CompletedCase{
			SessionID:   s.ID,
			CaseID:      s.Case.ID,
			CaseType:    s.Case.CaseType,
			Language:    s.Language,
			ClientName:  clientName(s.Case.Data),
			Data:        s.Case.Data,
			Analysis:    analysis,
			CompletedAt: time.Now(),
		})
	}
	return TurnResult{
		Reply:      analysis,
		Options:    postAnalysisOptions(s.Language),
		IsComplete: true,
		CaseData:   s.Case.Data,
	}, nil
}

func (e *Engine) handlePostAnalysis(ctx context.Context, s *session.Session, message string) (TurnResult, error) {
	if s.Case == nil {
		return TurnResult{}, errors.New("legal_advice mode without a case record")
	}
	switch intent.DetectPostAnalysisIntent(message) {
	case intent.IntentFormalComplaint:
		block := contacts.FormatList(contacts.For(s.Case.CaseType), s.Language)
		reply := complaintInstructions(s.Language, block)
		s.AppendTurn(message, reply)
		return TurnResult{Reply: reply}, nil
	case intent.IntentContactInfo:
		reply := contacts.FormatList(contacts.For(s.Case.CaseType), s.Language)
		s.AppendTurn(message, reply)
		return TurnResult{Reply: reply}, nil
	default:
		// The case is done; fall back to free conversation while keeping
		// the completed-case context on the session.
		s.Mode = session.ModeConversation
		return e.converse(ctx, s, message)
	}
}

// handleImage analyzes an uploaded image as evidence. Session mode is
// unchanged: an image does not advance the checklist.
func (e *Engine) handleImage(ctx context.Context, s *session.Session, message, imageB64 string) (TurnResult, error) {
	reply, err := e.gw.CompleteWithImage(ctx, imageB64, "evidence")
	if err != nil {
		return TurnResult{}, err
	}
	userContent := strings.TrimSpace(message)
	if userContent == "" {
		userContent = "[image uploaded]"
	}
	s.AppendTurn(userContent, reply)
	return TurnResult{Reply: reply}, nil
}

func newCaseRecord(ct schema.CaseType) *session.CaseRecord {
	now := time.Now()
	return &session.CaseRecord{
		ID:        uuid.NewString(),
		CaseType:  ct,
		Data:      map[string]any{},
		Status:    session.CaseInProgress,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func clientName(data map[string]any) string {
	if v, ok := schema.Resolve(data, "complainant.name"); ok {
		if s, ok := v.(string); ok && s != schema.Skipped && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return "anonymous"
}
