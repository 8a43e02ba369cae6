package textrisk

import (
	"context"
	"errors"
	"runtime"
	"strings"

	"github.com/Petrins/fraud-detector/internal/models"
)

const (
	// MinTextLength is the shortest input worth analyzing; anything below
	// gets the neutral baseline score.
	MinTextLength = 20
	// MaxTextLength bounds worst-case cost; longer inputs are truncated.
	MaxTextLength = 50000
	// DefaultChunkSize is the slice of text processed between yields.
	DefaultChunkSize = 5000
	// MaxScore leaves headroom for uncertainty.
	MaxScore = 0.95

	baselineScore = 0.1
	multiHighStep = 0.15
	multiHighCap  = 0.3
)

// ErrAborted is returned when the analysis target became invalid before all
// chunks were processed. No partial assessment is emitted.
var ErrAborted = errors.New("textrisk: analysis aborted")

// Analyzer scores free-form text for phishing language. Large inputs are
// processed one chunk at a time, yielding between chunks so a cooperative
// caller is never blocked for more than one chunk's worth of work.
type Analyzer struct {
	chunkSize int
	alive     func() bool
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithChunkSize overrides the chunk length. Intended for tests.
func WithChunkSize(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.chunkSize = n
		}
	}
}

// WithLiveness installs a predicate checked before each chunk; when it
// returns false the run aborts with ErrAborted. Callers use this to drop
// analyses whose target (an open message, a tab) has gone away.
func WithLiveness(alive func() bool) Option {
	return func(a *Analyzer) {
		a.alive = alive
	}
}

func New(opts ...Option) *Analyzer {
	a := &Analyzer{chunkSize: DefaultChunkSize}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze scores text and returns the assessment. The score is a pure
// function of the input: re-running on the same text yields the same
// result. Cancellation (context or liveness) aborts between chunks and
// discards all partial progress.
func (a *Analyzer) Analyze(ctx context.Context, text string) (models.Assessment, error) {
	if len(text) < MinTextLength {
		return models.Assessment{Score: baselineScore, Terms: []models.MatchedTerm{}}, nil
	}

	if len(text) > MaxTextLength {
		text = text[:MaxTextLength]
	}

	var (
		total   float64
		terms   []models.MatchedTerm
		metrics models.RiskMetrics
		chunks  int
	)

	for start := 0; start < len(text); start += a.chunkSize {
		if err := a.checkAlive(ctx); err != nil {
			return models.Assessment{}, err
		}

		end := start + a.chunkSize
		if end > len(text) {
			end = len(text)
		}

		score, chunkTerms, chunkMetrics := scoreChunk(text[start:end])
		total += score
		terms = append(terms, chunkTerms...)
		metrics.HighRiskCount += chunkMetrics.HighRiskCount
		metrics.MediumRiskCount += chunkMetrics.MediumRiskCount
		metrics.LowRiskCount += chunkMetrics.LowRiskCount
		chunks++

		// Yield between chunks so other work on the thread can run.
		runtime.Gosched()
	}

	final := total / float64(chunks)
	if final > MaxScore {
		final = MaxScore
	}
	if terms == nil {
		terms = []models.MatchedTerm{}
	}

	return models.Assessment{Score: final, Terms: terms, Metrics: metrics}, nil
}

func (a *Analyzer) checkAlive(ctx context.Context) error {
	if ctx.Err() != nil {
		return ErrAborted
	}
	if a.alive != nil && !a.alive() {
		return ErrAborted
	}
	return nil
}

// scoreChunk runs every rule table against one chunk and sums their
// contributions, capped at MaxScore.
func scoreChunk(chunk string) (float64, []models.MatchedTerm, models.RiskMetrics) {
	lower := strings.ToLower(chunk)

	score := 0.0
	var terms []models.MatchedTerm
	var metrics models.RiskMetrics

	for _, table := range []PatternTable{highRiskTable, mediumRiskTable, lowRiskTable} {
		matched := table.uniqueMatches(lower)
		contribution := float64(len(matched)) * table.Weight
		if contribution > table.Cap {
			contribution = table.Cap
		}
		score += contribution

		for _, m := range matched {
			terms = append(terms, models.MatchedTerm{Text: m, Level: table.Level})
		}

		switch table.Level {
		case models.SeverityHigh:
			metrics.HighRiskCount += len(matched)
		case models.SeverityMedium:
			metrics.MediumRiskCount += len(matched)
		case models.SeverityLow:
			metrics.LowRiskCount += len(matched)
		}
	}

	for _, rule := range vocabRules {
		count := len(rule.Pattern.FindAllString(lower, -1))
		contribution := float64(count) * rule.Weight
		if contribution > rule.Cap {
			contribution = rule.Cap
		}
		score += contribution
	}

	for _, combo := range comboRules {
		if combo.matches(lower) {
			score += combo.Bonus
		}
	}

	// Multiple distinct high-risk hits in the same chunk compound
	// non-linearly.
	if metrics.HighRiskCount > 1 {
		bonus := multiHighStep * float64(metrics.HighRiskCount-1)
		if bonus > multiHighCap {
			bonus = multiHighCap
		}
		score += bonus
	}

	if score > MaxScore {
		score = MaxScore
	}

	return score, terms, metrics
}

// uniqueMatches returns the distinct phrase and pattern hits in order of
// first appearance in the table.
func (t PatternTable) uniqueMatches(lower string) []string {
	seen := make(map[string]struct{})
	var matched []string

	add := func(m string) {
		if _, ok := seen[m]; !ok {
			seen[m] = struct{}{}
			matched = append(matched, m)
		}
	}

	for _, phrase := range t.Phrases {
		if strings.Contains(lower, phrase) {
			add(phrase)
		}
	}
	for _, pattern := range t.Patterns {
		for _, m := range pattern.FindAllString(lower, -1) {
			add(m)
		}
	}

	return matched
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
