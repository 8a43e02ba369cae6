package pipeline

import (
	"context"
	"log"

	"github.com/Petrins/fraud-detector/internal/authority"
	"github.com/Petrins/fraud-detector/internal/cache"
	"github.com/Petrins/fraud-detector/internal/features"
	"github.com/Petrins/fraud-detector/internal/lists"
	"github.com/Petrins/fraud-detector/internal/models"
	"github.com/Petrins/fraud-detector/internal/reputation"
)

// Fixed verdict for deny-listed domains. Deliberately distinct from the
// scorer's 87/13 threat override so the two sources stay distinguishable.
const (
	denylistMalicious  = 95
	denylistSuspicious = 5
)

// Minimum heuristic signal required before the fallback verdict is adopted
// over a no-data authority response.
const (
	HeuristicMaliciousFloor  = 15
	HeuristicSuspiciousFloor = 30
)

// Authority is the external reputation lookup the pipeline consults before
// falling back to the local classifier.
type Authority interface {
	Lookup(ctx context.Context, domain string) (authority.Stats, error)
}

// Pipeline resolves a hostname to a verdict by consulting, in order: the
// deny list, the verdict cache, the external authority, and the local
// heuristic classifier. All collaborators are injected; any of them may be
// nil and the pipeline degrades accordingly.
type Pipeline struct {
	Denylist  *lists.List
	Cache     *cache.Store
	Authority Authority
}

func New(denylist *lists.List, store *cache.Store, auth Authority) *Pipeline {
	return &Pipeline{Denylist: denylist, Cache: store, Authority: auth}
}

// Check resolves one hostname. The first matching branch is terminal; steps
// always execute in order. It never fails: every path ends in a fully
// populated verdict.
func (p *Pipeline) Check(ctx context.Context, hostname string) models.Decision {
	base := features.BaseDomain(hostname)

	// 1. Deny list, highest priority.
	if p.Denylist.Contains(hostname) || p.Denylist.Contains(base) {
		return models.Decision{
			Domain: hostname,
			Verdict: models.Verdict{
				Malicious:  denylistMalicious,
				Suspicious: denylistSuspicious,
			},
			Source: models.SourceDenylist,
		}
	}

	// 2. Fresh cache hit.
	if p.Cache != nil {
		if entry, ok := p.Cache.Get(base); ok {
			return models.Decision{Domain: hostname, Verdict: entry.Verdict, Source: models.SourceCache}
		}
	}

	// 3. External authority: base domain first, then the full hostname when
	// the base form comes back empty.
	var stats authority.Stats
	var err error
	if p.Authority != nil {
		stats, err = p.Authority.Lookup(ctx, base)
		if err == nil && !stats.HasSignal() && hostname != base {
			if full, ferr := p.Authority.Lookup(ctx, hostname); ferr == nil && full.HasSignal() {
				stats = full
			}
		}
		if err != nil {
			log.Printf("[DEBUG] Authority lookup failed for %s, falling back to heuristics: %v", base, err)
		}
	}

	if err == nil && (stats.HasSignal() || stats.Checked) {
		verdict := verdictFromStats(stats)
		p.put(base, verdict)
		return models.Decision{Domain: hostname, Verdict: verdict, Source: models.SourceAuthority}
	}

	// 4. No usable authority signal: heuristic fallback. Weak heuristic
	// output is discarded in favor of the neutral no-data verdict.
	feats := features.Extract(base)
	verdict := reputation.Classify(base, feats)
	source := models.SourceHeuristic

	if verdict.Malicious <= HeuristicMaliciousFloor && verdict.Suspicious <= HeuristicSuspiciousFloor {
		verdict = models.Verdict{Undetected: 100}
		source = models.SourceAuthority
	}

	p.put(base, verdict)
	return models.Decision{Domain: hostname, Verdict: verdict, Source: source}
}

func (p *Pipeline) put(domain string, verdict models.Verdict) {
	if p.Cache != nil {
		p.Cache.Put(domain, verdict)
	}
}

// verdictFromStats rescales the authority's per-category engine counts into
// a percentage verdict summing to exactly 100, assigning the rounding
// remainder to harmless.
func verdictFromStats(s authority.Stats) models.Verdict {
	total := s.Malicious + s.Suspicious + s.Harmless + s.Undetected
	if total == 0 {
		return models.Verdict{Undetected: 100}
	}

	v := models.Verdict{
		Malicious:  s.Malicious * 100 / total,
		Suspicious: s.Suspicious * 100 / total,
		Undetected: s.Undetected * 100 / total,
	}
	v.Harmless = 100 - v.Malicious - v.Suspicious - v.Undetected
	return v
}
