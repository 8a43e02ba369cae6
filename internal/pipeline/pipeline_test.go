package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/Petrins/fraud-detector/internal/authority"
	"github.com/Petrins/fraud-detector/internal/cache"
	"github.com/Petrins/fraud-detector/internal/lists"
	"github.com/Petrins/fraud-detector/internal/models"
)

// fakeAuthority serves canned stats per domain and records what was asked.
type fakeAuthority struct {
	stats   map[string]authority.Stats
	err     error
	lookups []string
}

func (f *fakeAuthority) Lookup(_ context.Context, domain string) (authority.Stats, error) {
	f.lookups = append(f.lookups, domain)
	if f.err != nil {
		return authority.Stats{}, f.err
	}
	return f.stats[domain], nil
}

func TestDenylistShortCircuits(t *testing.T) {
	auth := &fakeAuthority{}
	p := New(lists.New([]string{"evil.com"}), cache.New(), auth)

	for _, hostname := range []string{"evil.com", "login.evil.com"} {
		got := p.Check(context.Background(), hostname)

		if got.Source != models.SourceDenylist {
			t.Errorf("Check(%q).Source = %q, expected denylist", hostname, got.Source)
		}
		if got.Verdict.Malicious != 95 || got.Verdict.Suspicious != 5 {
			t.Errorf("Check(%q) verdict = %+v, expected 95/5", hostname, got.Verdict)
		}
	}

	if len(auth.lookups) != 0 {
		t.Errorf("Deny-listed domains must not reach the authority, saw lookups: %v", auth.lookups)
	}
}

func TestFreshCacheHitSkipsAuthority(t *testing.T) {
	auth := &fakeAuthority{}
	store := cache.New()
	p := New(nil, store, auth)

	cached := models.Verdict{Harmless: 80, Undetected: 20}
	store.Put("example.com", cached)

	got := p.Check(context.Background(), "www.example.com")

	if got.Source != models.SourceCache {
		t.Errorf("Source = %q, expected cache", got.Source)
	}
	if got.Verdict != cached {
		t.Errorf("Verdict = %+v, expected the cached %+v", got.Verdict, cached)
	}
	if len(auth.lookups) != 0 {
		t.Errorf("Cache hit must not reach the authority, saw lookups: %v", auth.lookups)
	}
}

func TestAuthoritySignalIsNormalizedAndCached(t *testing.T) {
	auth := &fakeAuthority{stats: map[string]authority.Stats{
		"bad.com": {Malicious: 30, Suspicious: 10, Harmless: 5, Undetected: 5, Checked: true},
	}}
	store := cache.New()
	p := New(nil, store, auth)

	got := p.Check(context.Background(), "bad.com")

	if got.Source != models.SourceAuthority {
		t.Fatalf("Source = %q, expected authority", got.Source)
	}
	// 30/10/5/5 engines over 50 total scale to 60/20/10/10 percent.
	expected := models.Verdict{Malicious: 60, Suspicious: 20, Harmless: 10, Undetected: 10}
	if got.Verdict != expected {
		t.Errorf("Verdict = %+v, expected %+v", got.Verdict, expected)
	}

	entry, found := store.Get("bad.com")
	if !found {
		t.Fatal("Authority verdict was not cached")
	}
	if entry.Verdict != expected {
		t.Errorf("Cached %+v, expected %+v", entry.Verdict, expected)
	}
}

func TestVerdictFromStatsSumsTo100(t *testing.T) {
	tests := []struct {
		name  string
		stats authority.Stats
	}{
		{"Indivisible totals", authority.Stats{Malicious: 1, Suspicious: 1, Harmless: 1, Undetected: 0, Checked: true}},
		{"Typical clean scan", authority.Stats{Harmless: 70, Undetected: 23, Checked: true}},
		{"Single engine", authority.Stats{Malicious: 1, Checked: true}},
		{"No engines", authority.Stats{Checked: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := verdictFromStats(tt.stats)
			if v.Total() != 100 {
				t.Errorf("verdictFromStats(%+v) sums to %d: %+v", tt.stats, v.Total(), v)
			}
		})
	}
}

func TestEmptyBaseLookupRetriesFullHostname(t *testing.T) {
	// The base domain has no record, but the exact hostname does. The
	// pipeline must try both before falling back.
	auth := &fakeAuthority{stats: map[string]authority.Stats{
		"cdn.example.com": {Malicious: 10, Harmless: 10, Checked: true},
	}}
	p := New(nil, cache.New(), auth)

	got := p.Check(context.Background(), "cdn.example.com")

	if len(auth.lookups) != 2 || auth.lookups[0] != "example.com" || auth.lookups[1] != "cdn.example.com" {
		t.Fatalf("Lookups = %v, expected base then full hostname", auth.lookups)
	}
	if got.Source != models.SourceAuthority || got.Verdict.Malicious != 50 {
		t.Errorf("Decision = %+v, expected the full-hostname stats adopted", got)
	}
}

func TestAuthorityErrorFallsBackToHeuristics(t *testing.T) {
	auth := &fakeAuthority{err: errors.New("connection refused")}
	p := New(nil, cache.New(), auth)

	// A threat-marked domain: the heuristic verdict is strong enough to be
	// adopted as-is.
	got := p.Check(context.Background(), "phish-login.com")

	if got.Source != models.SourceHeuristic {
		t.Errorf("Source = %q, expected heuristic", got.Source)
	}
	if got.Verdict.Malicious != 87 || got.Verdict.Suspicious != 13 {
		t.Errorf("Verdict = %+v, expected the 87/13 heuristic verdict", got.Verdict)
	}
}

func TestWeakHeuristicBecomesNoData(t *testing.T) {
	// No authority data and nothing alarming about the domain: report
	// "undetected" rather than a low-confidence heuristic guess.
	p := New(nil, cache.New(), &fakeAuthority{})

	got := p.Check(context.Background(), "mycoolblog.net")

	expected := models.Verdict{Undetected: 100}
	if got.Verdict != expected {
		t.Errorf("Verdict = %+v, expected %+v", got.Verdict, expected)
	}
	if got.Source != models.SourceAuthority {
		t.Errorf("Source = %q, expected authority for the no-data verdict", got.Source)
	}
}

func TestNilCollaboratorsAreSafe(t *testing.T) {
	p := New(nil, nil, nil)

	got := p.Check(context.Background(), "example.com")

	if got.Verdict.Total() != 100 {
		t.Errorf("Verdict sums to %d, expected 100: %+v", got.Verdict.Total(), got.Verdict)
	}
}
