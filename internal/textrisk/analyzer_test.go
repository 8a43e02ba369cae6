package textrisk

import (
	"context"
	"math"
	"strings"
	"testing"
)

const giveawayText = "Congratulations you have won $1000, click here to claim your prize!!!"

func TestAnalyzeShortText(t *testing.T) {
	a := New()

	for _, text := range []string{"", "hi", "short message"} {
		got, err := a.Analyze(context.Background(), text)
		if err != nil {
			t.Fatalf("Analyze(%q) returned error: %v", text, err)
		}
		if got.Score != 0.1 {
			t.Errorf("Analyze(%q).Score = %.2f, expected baseline 0.10", text, got.Score)
		}
		if got.Terms == nil || len(got.Terms) != 0 {
			t.Errorf("Analyze(%q).Terms = %v, expected empty non-nil slice", text, got.Terms)
		}
	}
}

func TestAnalyzeGiveawayText(t *testing.T) {
	a := New()

	got, err := a.Analyze(context.Background(), giveawayText)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	// Stacked signals (two high-risk phrases, money amount, exclamations,
	// combo bonuses) blow past the cap.
	if got.Score < 0.7 {
		t.Errorf("Score %.2f, expected >= 0.70 for blatant giveaway text", got.Score)
	}
	if got.Score > MaxScore {
		t.Errorf("Score %.2f exceeds cap %.2f", got.Score, MaxScore)
	}
	if got.Metrics.HighRiskCount < 2 {
		t.Errorf("HighRiskCount = %d, expected >= 2", got.Metrics.HighRiskCount)
	}
	if len(got.Terms) == 0 {
		t.Error("Expected matched terms for giveaway text")
	}
}

func TestAnalyzeBenignText(t *testing.T) {
	a := New()

	text := "Hi team, attaching the quarterly report we discussed in the meeting yesterday. Let me know if the numbers line up with your expectations."
	got, err := a.Analyze(context.Background(), text)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if got.Score > 0.3 {
		t.Errorf("Score %.2f too high for ordinary office text", got.Score)
	}
	if got.Metrics.HighRiskCount != 0 {
		t.Errorf("HighRiskCount = %d, expected 0", got.Metrics.HighRiskCount)
	}
}

func TestAnalyzeScoreMonotonic(t *testing.T) {
	a := New()
	ctx := context.Background()

	base := "Please review the attached document when you get a chance today."
	withOne := base + " Urgent action required."
	withTwo := withOne + " Verify your account immediately or it will be suspended."

	scoreOf := func(text string) float64 {
		got, err := a.Analyze(ctx, text)
		if err != nil {
			t.Fatalf("Analyze(%q) returned error: %v", text, err)
		}
		return got.Score
	}

	s0, s1, s2 := scoreOf(base), scoreOf(withOne), scoreOf(withTwo)
	if s1 < s0 || s2 < s1 {
		t.Errorf("Score should not decrease as risk phrases are added: %.3f, %.3f, %.3f", s0, s1, s2)
	}
	if s2 <= s0 {
		t.Errorf("Adding two high-risk phrases should raise the score: %.3f -> %.3f", s0, s2)
	}
}

func TestAnalyzeChunkSizeInsensitive(t *testing.T) {
	// When chunk boundaries fall on paragraph boundaries, the per-chunk
	// mean should not depend on how many paragraphs share a chunk.
	paragraph := "Urgent action required, verify your account now to avoid suspension of service. "
	text := strings.Repeat(paragraph, 64)

	ctx := context.Background()
	narrow := New(WithChunkSize(len(paragraph) * 8))
	wide := New(WithChunkSize(len(paragraph) * 16))

	a, err := narrow.Analyze(ctx, text)
	if err != nil {
		t.Fatalf("narrow Analyze returned error: %v", err)
	}
	b, err := wide.Analyze(ctx, text)
	if err != nil {
		t.Fatalf("wide Analyze returned error: %v", err)
	}

	if math.Abs(a.Score-b.Score) > 0.05 {
		t.Errorf("Chunking changed the score too much: %.3f vs %.3f", a.Score, b.Score)
	}
}

func TestAnalyzeContextCancellation(t *testing.T) {
	a := New(WithChunkSize(10))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := a.Analyze(ctx, strings.Repeat("verify your account now ", 50))
	if err != ErrAborted {
		t.Fatalf("Expected ErrAborted, got %v", err)
	}
	if got.Score != 0 || got.Terms != nil {
		t.Errorf("Aborted run must discard partial progress, got %+v", got)
	}
}

func TestAnalyzeLivenessAbort(t *testing.T) {
	// Liveness flips to false after the first chunk; the run must abort
	// with nothing to show for the chunks already scored.
	calls := 0
	a := New(
		WithChunkSize(30),
		WithLiveness(func() bool {
			calls++
			return calls <= 1
		}),
	)

	_, err := a.Analyze(context.Background(), strings.Repeat("click here to claim your prize ", 20))
	if err != ErrAborted {
		t.Fatalf("Expected ErrAborted after liveness failure, got %v", err)
	}
	if calls < 2 {
		t.Errorf("Liveness checked %d times, expected at least 2", calls)
	}
}

func TestMoneyComboRequiresAmount(t *testing.T) {
	a := New()
	ctx := context.Background()

	bare, err := a.Analyze(ctx, "Please claim the $ symbol artwork we discussed earlier.")
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	amount, err := a.Analyze(ctx, "Please claim the $100 reward we discussed earlier.")
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	// A bare currency symbol next to "claim" is not a money lure.
	if bare.Score > 0.1 {
		t.Errorf("Bare-symbol text scored %.2f, expected no money signal", bare.Score)
	}
	if amount.Score < bare.Score+0.25 {
		t.Errorf("Amount text scored %.2f vs %.2f, expected the money combo to fire", amount.Score, bare.Score)
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	a := New()
	ctx := context.Background()

	first, err := a.Analyze(ctx, giveawayText)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	for i := 0; i < 5; i++ {
		got, err := a.Analyze(ctx, giveawayText)
		if err != nil {
			t.Fatalf("Analyze returned error: %v", err)
		}
		if got.Score != first.Score || len(got.Terms) != len(first.Terms) {
			t.Fatalf("Analysis changed between runs: %+v vs %+v", first, got)
		}
	}
}

func TestAnalyzeTruncatesLongInput(t *testing.T) {
	a := New()

	// Risk phrases placed past the length limit must not count.
	padding := strings.Repeat("a", MaxTextLength)
	text := padding + " urgent action required verify your account"

	got, err := a.Analyze(context.Background(), text)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if got.Metrics.HighRiskCount != 0 {
		t.Errorf("Phrases beyond the truncation point were scored: %+v", got.Metrics)
	}
}
