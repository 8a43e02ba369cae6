package models

import "time"

// Source identifies which branch of the decision pipeline produced a verdict.
type Source string

const (
	SourceAllowlist Source = "allowlist"
	SourceDenylist  Source = "denylist"
	SourceCache     Source = "cache"
	SourceAuthority Source = "authority"
	SourceHeuristic Source = "heuristic"
)

// Verdict is the four-way reputation breakdown for a domain. The four
// percentages always sum to exactly 100.
type Verdict struct {
	Harmless   int     `json:"harmless"`
	Malicious  int     `json:"malicious"`
	Suspicious int     `json:"suspicious"`
	Undetected int     `json:"undetected"`
	Confidence float64 `json:"confidence,omitempty"`
	Branded    bool    `json:"is_branded,omitempty"`
}

// Total returns the sum of the four percentage buckets.
func (v Verdict) Total() int {
	return v.Harmless + v.Malicious + v.Suspicious + v.Undetected
}

// Decision is the pipeline's final answer for one domain lookup.
type Decision struct {
	Domain  string  `json:"domain"`
	Verdict Verdict `json:"verdict"`
	Source  Source  `json:"source"`
}

// Severity ranks a matched text pattern.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// MatchedTerm is one pattern hit found in analyzed text.
type MatchedTerm struct {
	Text  string   `json:"text"`
	Level Severity `json:"level"`
}

// RiskMetrics counts pattern hits per severity across an analysis run.
type RiskMetrics struct {
	HighRiskCount   int `json:"high_risk_count"`
	MediumRiskCount int `json:"medium_risk_count"`
	LowRiskCount    int `json:"low_risk_count"`
}

// Assessment is the result of analyzing a message body. Score is
// deterministic for a given input and bounded to [0, 0.95].
type Assessment struct {
	Score   float64       `json:"score"`
	Terms   []MatchedTerm `json:"terms"`
	Metrics RiskMetrics   `json:"metrics"`
}

// DomainRecord is the row shape the persistence sink accepts. One row per
// domain, overwritten on refresh.
type DomainRecord struct {
	Domain           string    `json:"domain"`
	Harmless         int       `json:"harmless"`
	Malicious        int       `json:"malicious"`
	Suspicious       int       `json:"suspicious"`
	Undetected       int       `json:"undetected"`
	Confidence       float64   `json:"confidence"`
	Entropy          float64   `json:"entropy"`
	LexicalDiversity float64   `json:"lexical_diversity"`
	IsBranded        bool      `json:"is_branded"`
	LastChecked      time.Time `json:"last_checked"`
}
