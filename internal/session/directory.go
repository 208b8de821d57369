package session

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	// DefaultTTL is how long an idle session survives before eviction.
	DefaultTTL = 24 * time.Hour
	// DefaultSweep is the janitor interval; eviction runs on this timer,
	// never on the request path.
	DefaultSweep = 1 * time.Hour
)

// Directory maps session ids to live sessions. Reads refresh the session's
// TTL, so only genuinely idle sessions age out. The directory mutex makes
// get-or-create single flight: concurrent first turns for one id must all
// land on the same Session instance, or its per-session mutex serializes
// nothing.
type Directory struct {
	mu    sync.Mutex
	cache *gocache.Cache
	ttl   time.Duration
}

func NewDirectory(ttl, sweep time.Duration) *Directory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if sweep <= 0 {
		sweep = DefaultSweep
	}
	return &Directory{cache: gocache.New(ttl, sweep), ttl: ttl}
}

// Get returns the session for id, creating a default conversation-mode
// session if absent. Every call refreshes the activity timestamp.
func (d *Directory) Get(id string) *Session {
	d.mu.Lock()
	defer d.mu.Unlock()
	if v, ok := d.cache.Get(id); ok {
		s := v.(*Session)
		s.LastActive = time.Now()
		d.cache.Set(id, s, d.ttl)
		return s
	}
	s := &Session{
		ID:         id,
		Mode:       ModeConversation,
		Language:   "en",
		Skipped:    map[string]bool{},
		LastActive: time.Now(),
	}
	d.cache.Set(id, s, d.ttl)
	return s
}

// Lookup returns the session without creating one; status checks use this
// so probing an unknown id does not manufacture state.
func (d *Directory) Lookup(id string) (*Session, bool) {
	v, ok := d.cache.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}

// Update applies fn to the session under its lock. Get already refreshed
// the TTL.
func (d *Directory) Update(id string, fn func(*Session)) {
	s := d.Get(id)
	s.Lock()
	fn(s)
	s.Unlock()
}

// EvictStale forces an expiry sweep. The janitor does this periodically on
// its own; tests and operational tooling call it directly.
func (d *Directory) EvictStale() {
	d.cache.DeleteExpired()
}

// Len reports the number of live (possibly expired, not yet swept) sessions.
func (d *Directory) Len() int {
	return d.cache.ItemCount()
}
