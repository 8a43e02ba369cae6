package cache

import (
	"testing"
	"time"

	"github.com/Petrins/fraud-detector/internal/models"
)

func TestGetFreshEntry(t *testing.T) {
	now := time.Now()
	s := NewWithClock(func() time.Time { return now })

	verdict := models.Verdict{Harmless: 92, Undetected: 8}
	s.Put("example.com", verdict)

	// Still fresh one minute short of the TTL.
	now = now.Add(TTL - time.Minute)

	entry, found := s.Get("example.com")
	if !found {
		t.Fatal("Expected a cache hit for a fresh entry")
	}
	if entry.Verdict != verdict {
		t.Errorf("Cached verdict %+v != stored %+v", entry.Verdict, verdict)
	}
	if entry.Domain != "example.com" {
		t.Errorf("Entry domain %q != expected", entry.Domain)
	}
}

func TestGetExpiredEntry(t *testing.T) {
	now := time.Now()
	s := NewWithClock(func() time.Time { return now })

	s.Put("example.com", models.Verdict{Harmless: 92, Undetected: 8})

	// An entry that is exactly TTL old is already stale.
	now = now.Add(TTL)

	if _, found := s.Get("example.com"); found {
		t.Error("Expected a miss for an entry at the TTL boundary")
	}
}

func TestGetUnknownDomain(t *testing.T) {
	s := New()
	if _, found := s.Get("never-stored.com"); found {
		t.Error("Expected a miss for a domain that was never stored")
	}
}

func TestPutOverwrites(t *testing.T) {
	now := time.Now()
	s := NewWithClock(func() time.Time { return now })

	s.Put("example.com", models.Verdict{Suspicious: 40, Undetected: 60})

	// A later write replaces the verdict and restarts the clock.
	now = now.Add(23 * time.Hour)
	fresh := models.Verdict{Harmless: 92, Undetected: 8}
	s.Put("example.com", fresh)

	now = now.Add(2 * time.Hour)

	entry, found := s.Get("example.com")
	if !found {
		t.Fatal("Expected a hit: the second write restarted the TTL")
	}
	if entry.Verdict != fresh {
		t.Errorf("Got %+v, expected the overwritten verdict %+v", entry.Verdict, fresh)
	}
}

func TestCleanup(t *testing.T) {
	now := time.Now()
	s := NewWithClock(func() time.Time { return now })

	s.Put("old.com", models.Verdict{Undetected: 100})
	now = now.Add(TTL / 2)
	s.Put("recent.com", models.Verdict{Undetected: 100})
	now = now.Add(TTL / 2)

	s.Cleanup()

	s.mu.RLock()
	_, oldKept := s.items["old.com"]
	_, recentKept := s.items["recent.com"]
	s.mu.RUnlock()

	if oldKept {
		t.Error("Cleanup left an expired entry in place")
	}
	if !recentKept {
		t.Error("Cleanup removed an entry that was still fresh")
	}
}
