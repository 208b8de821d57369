package session

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/qanoon-app/qanoon/internal/schema"
)

func TestGetCreatesDefaultSession(t *testing.T) {
	d := NewDirectory(time.Minute, time.Minute)
	s := d.Get("abc")
	if s.Mode != ModeConversation {
		t.Fatalf("new session mode=%s", s.Mode)
	}
	if s.Case != nil || s.CaseCompleted {
		t.Fatal("new session should have no case state")
	}
	if again := d.Get("abc"); again != s {
		t.Fatal("Get must return the same session instance per id")
	}
	if d.Len() != 1 {
		t.Fatalf("len=%d", d.Len())
	}
}

// Concurrent first turns for one session id must all observe the same
// Session instance; otherwise each caller locks a different mutex and
// turn serialization is lost.
func TestGetConcurrentCreateReturnsSingleInstance(t *testing.T) {
	d := NewDirectory(time.Minute, time.Minute)
	const goroutines = 16
	for trial := 0; trial < 200; trial++ {
		id := "shared-" + strconv.Itoa(trial)
		start := make(chan struct{})
		got := make([]*Session, goroutines)
		var wg sync.WaitGroup
		for i := 0; i < goroutines; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				got[i] = d.Get(id)
			}(i)
		}
		close(start)
		wg.Wait()
		for i := 1; i < goroutines; i++ {
			if got[i] != got[0] {
				t.Fatalf("trial %d: goroutine %d observed a different session instance for id %s", trial, i, id)
			}
		}
	}
}

func TestLookupDoesNotCreate(t *testing.T) {
	d := NewDirectory(time.Minute, time.Minute)
	if _, ok := d.Lookup("ghost"); ok {
		t.Fatal("lookup created a session")
	}
	if d.Len() != 0 {
		t.Fatalf("len=%d after lookup", d.Len())
	}
}

func TestEvictStaleRemovesIdleSessions(t *testing.T) {
	d := NewDirectory(20*time.Millisecond, time.Hour)
	d.Get("idle")
	time.Sleep(30 * time.Millisecond)
	d.EvictStale()
	if _, ok := d.Lookup("idle"); ok {
		t.Fatal("idle session survived eviction")
	}
}

func TestGetRefreshesTTL(t *testing.T) {
	d := NewDirectory(40*time.Millisecond, time.Hour)
	d.Get("busy")
	for i := 0; i < 3; i++ {
		time.Sleep(20 * time.Millisecond)
		d.Get("busy")
	}
	d.EvictStale()
	if _, ok := d.Lookup("busy"); !ok {
		t.Fatal("active session was evicted")
	}
}

func TestUpdateMergesFields(t *testing.T) {
	d := NewDirectory(time.Minute, time.Minute)
	d.Update("u1", func(s *Session) {
		s.Language = "ar"
		s.Mode = ModeChecklist
	})
	s, ok := d.Lookup("u1")
	if !ok || s.Language != "ar" || s.Mode != ModeChecklist {
		t.Fatalf("update not applied: %+v", s)
	}
}

func TestWithFieldCopyOnWrite(t *testing.T) {
	orig := &CaseRecord{
		ID:       "c1",
		CaseType: schema.CasePhishingSMS,
		Data:     map[string]any{"complainant": map[string]any{"name": "Aisha"}},
		Status:   CaseInProgress,
	}
	next := orig.WithField("incident.date", "2025-03-01")
	if _, ok := schema.Resolve(orig.Data, "incident.date"); ok {
		t.Fatal("original record mutated")
	}
	v, ok := schema.Resolve(next.Data, "incident.date")
	if !ok || v != "2025-03-01" {
		t.Fatalf("field not written: %v %v", v, ok)
	}
	if v, _ := schema.Resolve(next.Data, "complainant.name"); v != "Aisha" {
		t.Fatalf("existing data lost: %v", v)
	}

	// Writing into a nested map must not alias the original's containers.
	next2 := next.WithField("complainant.phone", "555")
	if _, ok := schema.Resolve(next.Data, "complainant.phone"); ok {
		t.Fatal("parent record mutated through shared container")
	}
	if v, _ := schema.Resolve(next2.Data, "complainant.name"); v != "Aisha" {
		t.Fatalf("sibling value lost: %v", v)
	}
}

func TestAppendTurnAndUserTurns(t *testing.T) {
	s := &Session{}
	s.AppendTurn("hello", "hi there")
	s.AppendTurn("I was scammed", "I'm sorry to hear that")
	if len(s.History) != 4 {
		t.Fatalf("history len=%d", len(s.History))
	}
	turns := s.UserTurns()
	if len(turns) != 2 || turns[1] != "I was scammed" {
		t.Fatalf("user turns=%v", turns)
	}
}
