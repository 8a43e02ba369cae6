package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Petrins/fraud-detector/internal/models"
)

// TTL is how long a resolved verdict stays usable. Entries older than this
// are treated as absent and replaced on the next write.
const TTL = 24 * time.Hour

// Entry is one cached verdict.
type Entry struct {
	Domain    string
	Verdict   models.Verdict
	CreatedAt time.Time
}

// Store is a thread-safe TTL cache of domain verdicts. Stale entries are
// ignored on read and overwritten on write; there is no explicit delete.
type Store struct {
	mu    sync.RWMutex
	items map[string]Entry
	now   func() time.Time
}

func New() *Store {
	return &Store{
		items: make(map[string]Entry),
		now:   time.Now,
	}
}

// NewWithClock builds a store with an injected clock for tests.
func NewWithClock(now func() time.Time) *Store {
	s := New()
	s.now = now
	return s
}

// Get returns the entry for domain if one exists and is still fresh.
func (s *Store) Get(domain string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, found := s.items[domain]
	if !found {
		return Entry{}, false
	}
	if s.now().Sub(entry.CreatedAt) >= TTL {
		return Entry{}, false
	}
	return entry, true
}

// Put stores a verdict, unconditionally overwriting any prior entry for the
// domain. Last write wins; no merge.
func (s *Store) Put(domain string, verdict models.Verdict) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[domain] = Entry{
		Domain:    domain,
		Verdict:   verdict,
		CreatedAt: s.now(),
	}
}

// Cleanup removes expired entries. Reads never return them anyway; this
// just reclaims memory.
func (s *Store) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for domain, entry := range s.items {
		if now.Sub(entry.CreatedAt) >= TTL {
			delete(s.items, domain)
		}
	}
}

// StartCleanup launches a goroutine that calls Cleanup on the given
// interval until ctx is cancelled.
func (s *Store) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Cleanup()
			case <-ctx.Done():
				return
			}
		}
	}()
}
