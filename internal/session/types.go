// Package session holds per-conversation state and the in-memory directory
// that maps opaque session ids to it. Live session state is intentionally
// in-memory only; durable storage of completed cases is a separate concern.
package session

import (
	"strings"
	"sync"
	"time"

	"github.com/qanoon-app/qanoon/internal/llm"
	"github.com/qanoon-app/qanoon/internal/schema"
)

// Mode is the conversational phase. A session is in exactly one mode at
// any time; transitions happen only inside the engine's turn handler.
type Mode string

const (
	ModeConversation         Mode = "conversation"
	ModeAwaitingConfirmation Mode = "awaiting_confirmation"
	ModeChecklist            Mode = "checklist"
	ModeLegalAdvice          Mode = "legal_advice"
)

type CaseStatus string

const (
	CaseInProgress CaseStatus = "in_progress"
	CaseComplete   CaseStatus = "complete"
)

// CaseRecord is the structured data collected for one case instance. It is
// owned by exactly one session and updated copy-on-write: WithField returns
// a new record, so a turn that fails mid-flight never leaves a partial
// write behind.
type CaseRecord struct {
	ID        string
	CaseType  schema.CaseType
	Data      map[string]any
	Status    CaseStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WithField returns a copy of the record with value written at the
// dot-separated path, creating intermediate containers as needed.
func (r *CaseRecord) WithField(path string, value any) *CaseRecord {
	next := &CaseRecord{
		ID:        r.ID,
		CaseType:  r.CaseType,
		Data:      deepCopy(r.Data),
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: time.Now(),
	}
	parts := strings.Split(path, ".")
	cur := next.Data
	for i := 0; i < len(parts)-1; i++ {
		child, ok := cur[parts[i]].(map[string]any)
		if !ok {
			child = map[string]any{}
			cur[parts[i]] = child
		}
		cur = child
	}
	cur[parts[len(parts)-1]] = value
	return next
}

func deepCopy(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if child, ok := v.(map[string]any); ok {
			out[k] = deepCopy(child)
			continue
		}
		out[k] = v
	}
	return out
}

// Session is one user's ongoing interaction. History is append-only for
// the session's lifetime; entries disappear only when the whole session is
// evicted.
type Session struct {
	ID            string
	Mode          Mode
	Language      string
	History       []llm.Message
	Skipped       map[string]bool
	Case          *CaseRecord
	CaseCompleted bool
	LastActive    time.Time

	// mu serializes turns: concurrent turns for one session id would race
	// on field writes and history order.
	mu sync.Mutex
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// AppendTurn records the user/assistant exchange of one completed turn.
func (s *Session) AppendTurn(user, assistant string) {
	s.History = append(s.History,
		llm.Message{Role: llm.RoleUser, Content: user},
		llm.Message{Role: llm.RoleAssistant, Content: assistant},
	)
}

// UserTurns returns the user-authored history contents in order.
func (s *Session) UserTurns() []string {
	var out []string
	for _, m := range s.History {
		if m.Role == llm.RoleUser {
			out = append(out, m.Content)
		}
	}
	return out
}
