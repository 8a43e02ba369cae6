package reputation

import (
	"regexp"
	"strings"

	"github.com/Petrins/fraud-detector/internal/features"
	"github.com/Petrins/fraud-detector/internal/models"
)

// Trust and risk weights. The fractional values are carried over verbatim
// from the tuned production rule set; treat them as versioned configuration
// rather than numbers to be "corrected".
const (
	TrustNormalDiversity = 18.7
	TrustNormalEntropy   = 15.3
	TrustIdealLength     = 12.6
	TrustVowelRatio      = 8.9
	TrustCommonTLD       = 21.5
	TrustModerateTLD     = 12.8
	TrustNoDigits        = 7.4
	TrustPrimaryLength   = 10.7
	TrustFewSubdomains   = 9.6
	TrustAllLetters      = 14.2
	TrustPronounceable   = 17.3
	TrustWordShape       = 14.8
	TrustTechSuffix      = 9.2

	RiskLongDomain         = 7.9
	RiskVeryLongDomain     = 5.2
	RiskHighEntropy        = 6.3
	RiskVeryHighEntropy    = 5.1
	RiskHighDiversity      = 5.4
	RiskFewVowels          = 5.2
	RiskDigitsAndDashes    = 3.5
	RiskManyDigits         = 5.6
	RiskMostlyDigits       = 7.2
	RiskConsonantRun       = 3.8
	RiskDigitRun           = 5.1
	RiskManySubdomains     = 4.3
	RiskManyDashes         = 3.9
	RiskRandomSegment      = 8.1
	RiskBrandImpersonation = 23.7

	// Synergy: several weak signals together are worth more than their sum;
	// isolated signals are dampened.
	synergyThreshold  = 3
	synergyPerPattern = 2.5
	dampeningFactor   = 0.7

	baseConfidence  = 0.6
	brandConfidence = 0.12
)

var (
	wordShapeRe  = regexp.MustCompile(`^[a-z]+-?[a-z]+$`)
	techSuffixRe = regexp.MustCompile(`^[a-z]{2,}(app|web|site|online|cloud|hub|center|portal|pro|io)$`)
)

// Classify scores a domain from its extracted features and returns a
// verdict whose four percentages sum to exactly 100. It never fails; a
// degenerate feature set simply accumulates no trust and no risk and lands
// in the minimal bracket.
func Classify(domain string, f features.Features) models.Verdict {
	domain = strings.ToLower(domain)

	// Known-safe short-circuit. No further scoring for domains we already
	// trust outright.
	for _, safe := range knownSafeDomains {
		if isDomainOrSubdomain(domain, safe) {
			return models.Verdict{
				Harmless:   92,
				Malicious:  0,
				Suspicious: 0,
				Undetected: 8,
				Confidence: baseConfidence,
			}
		}
	}

	trust := 0.0
	risk := 0.0
	confidence := baseConfidence

	// ── Trust accumulation ───────────────────────────────────────────────
	if f.LexicalDiversity >= 0.4 && f.LexicalDiversity <= 0.8 {
		trust += TrustNormalDiversity
	}
	if f.Entropy >= 2.8 && f.Entropy <= 4.2 {
		trust += TrustNormalEntropy
	}
	if f.Length >= 4 && f.Length <= 15 {
		trust += TrustIdealLength
	}
	if f.VowelRatio >= 0.3 && f.VowelRatio <= 0.7 {
		trust += TrustVowelRatio
	}
	if commonTLDs[f.TopLevel] {
		trust += TrustCommonTLD
	}
	if moderatelyCommonTLDs[f.TopLevel] {
		trust += TrustModerateTLD
	}
	if f.DigitCount == 0 {
		trust += TrustNoDigits
	}
	if n := len(f.PrimaryLabel); n >= 3 && n <= 12 {
		trust += TrustPrimaryLength
	}
	if f.SubdomainDepth <= 3 {
		trust += TrustFewSubdomains
	}
	if f.AllLetters {
		trust += TrustAllLetters
	}
	if isPronounceable(f) {
		trust += TrustPronounceable
	}
	if wordShapeRe.MatchString(f.PrimaryLabel) {
		trust += TrustWordShape
	}
	if techSuffixRe.MatchString(f.PrimaryLabel) {
		trust += TrustTechSuffix
	}

	// ── Risk accumulation ────────────────────────────────────────────────
	if f.Length > 25 {
		risk += RiskLongDomain
	}
	if f.Length > 30 {
		risk += RiskVeryLongDomain
	}
	if f.Entropy > 4.5 {
		risk += RiskHighEntropy
	}
	if f.Entropy > 4.8 {
		risk += RiskVeryHighEntropy
	}
	if f.LexicalDiversity > 0.9 {
		risk += RiskHighDiversity
	}
	if f.VowelRatio < 0.1 {
		risk += RiskFewVowels
	}
	if f.HasDigits && f.HasDashes {
		risk += RiskDigitsAndDashes
	}
	if f.DigitRatio > 0.3 {
		risk += RiskManyDigits
	}
	if f.DigitRatio > 0.5 {
		risk += RiskMostlyDigits
	}
	if f.HasConsonantRun {
		risk += RiskConsonantRun
	}
	if f.HasDigitRun {
		risk += RiskDigitRun
	}
	if f.SubdomainDepth > 3 {
		risk += RiskManySubdomains
	}
	if f.DashCount > 3 {
		risk += RiskManyDashes
	}
	if f.HasRandomSegment {
		risk += RiskRandomSegment
	}

	// ── Synergy / dampening ──────────────────────────────────────────────
	patterns := 0
	if f.Entropy > 4.5 {
		patterns++
	}
	if f.DigitRatio > 0.3 {
		patterns++
	}
	if f.HasConsonantRun {
		patterns++
	}
	if f.DashCount > 2 {
		patterns++
	}
	if f.HasRandomSegment {
		patterns++
	}
	if f.SubdomainDepth > 3 {
		patterns++
	}

	if patterns >= synergyThreshold {
		risk += float64(patterns) * synergyPerPattern
	} else {
		risk *= dampeningFactor
	}

	// ── Brand impersonation ──────────────────────────────────────────────
	// Each impersonated brand contributes its own bonus; a label weaving
	// two brands together is worse than one.
	brands := impersonatedBrands(domain, f)
	if brands > 0 {
		risk += float64(brands) * RiskBrandImpersonation
		confidence += brandConfidence
	}

	if trust > 100 {
		trust = 100
	}
	if risk > 100 {
		risk = 100
	}

	verdict := bracketVerdict(risk)
	verdict.Confidence = confidence
	verdict.Branded = brands > 0

	// Hard override for explicit threat markers anywhere in the hostname.
	for _, threat := range threatSubstrings {
		if strings.Contains(domain, threat) {
			verdict.Malicious = 87
			verdict.Suspicious = 13
			verdict.Harmless = 0
			verdict.Undetected = 0
			break
		}
	}

	return normalize(verdict)
}

// IsBrandImpersonation reports whether the primary label embeds a known
// brand fragment while the domain is not the brand's own, with at least one
// extra suspicion marker (digits, dashes, or an uncommon TLD).
func IsBrandImpersonation(domain string, f features.Features) bool {
	return impersonatedBrands(domain, f) > 0
}

// impersonatedBrands counts the distinct brands whose fragments appear in
// the primary label. A brand counts at most once no matter how many of its
// fragments match.
func impersonatedBrands(domain string, f features.Features) int {
	count := 0
	for _, fragments := range brandSubstrings {
		for _, fragment := range fragments {
			if !strings.Contains(f.PrimaryLabel, fragment) {
				continue
			}
			if isDomainOrSubdomain(domain, fragment) {
				continue
			}
			if f.HasDigits || f.HasDashes || !commonTLDs[f.TopLevel] {
				count++
				break
			}
		}
	}
	return count
}

// IsURLShortener reports whether the domain is a known link shortener.
func IsURLShortener(domain string) bool {
	domain = strings.ToLower(domain)
	for _, s := range urlShorteners {
		if isDomainOrSubdomain(domain, s) {
			return true
		}
	}
	return false
}

// bracketVerdict maps the accumulated risk score onto the four-way verdict
// using the four risk brackets.
func bracketVerdict(risk float64) models.Verdict {
	var v models.Verdict

	switch {
	case risk > 60: // high
		v.Malicious = int(risk * 0.36)
		v.Suspicious = int(risk * 0.19)
		v.Harmless = max(0, 100-v.Malicious-v.Suspicious)
	case risk > 40: // medium
		v.Malicious = int(risk * 0.08)
		v.Suspicious = int(risk * 0.27)
		v.Harmless = max(0, 100-v.Malicious-v.Suspicious)
	case risk > 25: // low
		v.Suspicious = int(risk * 0.22)
		v.Harmless = max(0, 100-v.Suspicious)
	default: // minimal, harmless floored at 94
		v.Harmless = max(94, 100-int(risk*0.4))
	}

	return v
}

// normalize rescales the three active buckets so the verdict sums to
// exactly 100, assigning the integer-rounding remainder to harmless.
func normalize(v models.Verdict) models.Verdict {
	total := v.Malicious + v.Suspicious + v.Harmless + v.Undetected
	if total == 100 {
		return v
	}
	if total == 0 {
		v.Harmless = 100
		return v
	}

	factor := 100.0 / float64(total)
	v.Malicious = int(float64(v.Malicious) * factor)
	v.Suspicious = int(float64(v.Suspicious) * factor)
	v.Undetected = int(float64(v.Undetected) * factor)
	v.Harmless = 100 - v.Malicious - v.Suspicious - v.Undetected
	return v
}

// isPronounceable approximates dictionary-word detection: long enough, a
// vowel, a couple of consonants, and a balanced ratio.
func isPronounceable(f features.Features) bool {
	return len(f.PrimaryLabel) >= 4 &&
		f.VowelCount >= 1 &&
		f.ConsonantCount >= 2 &&
		f.VowelRatio >= 0.2 &&
		f.VowelRatio <= 0.8
}

func isDomainOrSubdomain(domain, base string) bool {
	return domain == base || strings.HasSuffix(domain, "."+base)
}
