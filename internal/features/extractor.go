package features

import (
	"math"
	"regexp"
	"strings"
)

// Features is the fixed set of lexical/statistical signals derived from a
// hostname. It is recomputed per call and never mutated afterwards.
type Features struct {
	Domain       string
	Length       int
	Labels       []string
	PrimaryLabel string
	TopLevel     string

	VowelCount       int
	ConsonantCount   int
	VowelRatio       float64 // vowels / consonants
	DigitCount       int
	DigitRatio       float64
	DashCount        int
	Entropy          float64 // Shannon entropy (base 2) of the primary label
	LexicalDiversity float64 // unique chars / total chars in the primary label
	SubdomainDepth   int

	HasDigits        bool
	HasDashes        bool
	HasConsonantRun  bool // 4+ consecutive non-vowel characters
	HasDigitRun      bool // 3+ consecutive digits
	HasRandomSegment bool // letter-digit-letter alternation like "ab12cd"
	AllLetters       bool
}

var (
	vowelRe         = regexp.MustCompile(`[aeiou]`)
	digitRe         = regexp.MustCompile(`\d`)
	consonantRunRe  = regexp.MustCompile(`[^aeiou]{4,}`)
	digitRunRe      = regexp.MustCompile(`\d{3,}`)
	randomSegmentRe = regexp.MustCompile(`[a-z]{1,2}\d{1,3}[a-z]{1,2}`)
	allLettersRe    = regexp.MustCompile(`^[a-z]+$`)
)

// Extract derives Features from a lower-cased hostname. It never fails:
// malformed input produces a zeroed feature set so callers can always
// proceed to scoring.
func Extract(domain string) Features {
	domain = strings.ToLower(strings.TrimSpace(domain))

	f := Features{
		Domain: domain,
		Length: len(domain),
	}
	if domain == "" {
		return f
	}

	f.Labels = strings.Split(domain, ".")
	if len(f.Labels) >= 2 {
		f.PrimaryLabel = f.Labels[len(f.Labels)-2]
		f.TopLevel = f.Labels[len(f.Labels)-1]
		f.SubdomainDepth = len(f.Labels) - 2
	} else {
		// A bare label has no TLD; score the whole string as the primary.
		f.PrimaryLabel = domain
	}

	p := f.PrimaryLabel
	if p == "" {
		return f
	}

	f.VowelCount = len(vowelRe.FindAllString(p, -1))
	f.ConsonantCount = len(p) - f.VowelCount
	if f.ConsonantCount > 0 {
		f.VowelRatio = float64(f.VowelCount) / float64(f.ConsonantCount)
	} else {
		f.VowelRatio = float64(f.VowelCount)
	}

	f.DigitCount = len(digitRe.FindAllString(p, -1))
	f.DigitRatio = float64(f.DigitCount) / float64(len(p))
	f.DashCount = strings.Count(p, "-")

	f.HasDigits = f.DigitCount > 0
	f.HasDashes = f.DashCount > 0
	f.HasConsonantRun = consonantRunRe.MatchString(p)
	f.HasDigitRun = digitRunRe.MatchString(p)
	f.HasRandomSegment = randomSegmentRe.MatchString(p)
	f.AllLetters = allLettersRe.MatchString(p)

	f.Entropy = shannonEntropy(p)
	f.LexicalDiversity = lexicalDiversity(p)

	return f
}

// shannonEntropy computes the base-2 entropy of the character distribution.
func shannonEntropy(s string) float64 {
	if s == "" {
		return 0
	}
	freq := make(map[rune]int)
	total := 0
	for _, r := range s {
		freq[r]++
		total++
	}
	entropy := 0.0
	for _, n := range freq {
		p := float64(n) / float64(total)
		entropy -= p * math.Log2(p)
	}
	return entropy
}

func lexicalDiversity(s string) float64 {
	if s == "" {
		return 0
	}
	seen := make(map[rune]struct{})
	total := 0
	for _, r := range s {
		seen[r] = struct{}{}
		total++
	}
	return float64(len(seen)) / float64(total)
}

// publicSuffixes is the suffix list used to reduce a hostname to its
// registrable base domain. Multi-label suffixes must come before their
// final label would match on its own.
var publicSuffixes = []string{
	"co.uk", "co.jp", "co.nz", "co.za",
	"com", "net", "org", "edu", "gov",
	"io", "ai", "app", "dev", "tech", "site", "online", "store", "shop",
	"blog", "info", "biz", "me", "tv", "xyz", "in", "us", "de", "fr", "jp",
	"ru", "uk", "au", "ca", "cn", "to", "cc", "ws", "se", "no", "dk", "fi",
}

// BaseDomain reduces a hostname to its registrable domain, e.g.
// "forum.nulled.to" -> "nulled.to". Unknown suffixes fall back to the last
// two labels.
func BaseDomain(hostname string) string {
	hostname = strings.ToLower(strings.TrimSpace(hostname))
	parts := strings.Split(hostname, ".")
	if len(parts) <= 2 {
		return hostname
	}

	for _, suffix := range publicSuffixes {
		if strings.HasSuffix(hostname, "."+suffix) {
			keep := len(strings.Split(suffix, ".")) + 1
			if keep > len(parts) {
				keep = len(parts)
			}
			return strings.Join(parts[len(parts)-keep:], ".")
		}
	}

	return strings.Join(parts[len(parts)-2:], ".")
}
