package textrisk

import (
	"regexp"

	"github.com/Petrins/fraud-detector/internal/models"
)

// The analyzer is data-driven: every signal lives in one of these tables so
// rules can be tuned and unit-tested without touching the scoring loop.

// PatternTable groups weighted rules of one severity. The table's score
// contribution is min(Cap, uniqueMatches * Weight).
type PatternTable struct {
	Level    models.Severity
	Weight   float64
	Cap      float64
	Phrases  []string         // matched as lower-cased substrings
	Patterns []*regexp.Regexp // matched as regular expressions
}

var highRiskTable = PatternTable{
	Level:  models.SeverityHigh,
	Weight: 0.2,
	Cap:    0.9,
	Phrases: []string{
		"verify your account", "login details", "update your payment",
		"confirm your identity", "unusual activity", "security alert",
		"password expired", "account suspended", "urgent action required",
		"suspicious login attempt", "click here to verify", "your account will be terminated",
		"bank account information", "credit card details", "immediate attention required",
		"selected to receive", "you have been selected", "you are a winner",
		"claim your prize", "collect your reward", "free giveaway",
		"you won", "congratulations you have won", "lucky winner",
		"free gift", "cash prize", "free iphone", "free vacation",
		"selected randomly", "lottery winner", "$500 giveaway", "$1000 giveaway",
		"claim your giveaway", "prize is waiting", "click this link to collect",
	},
	Patterns: []*regexp.Regexp{
		regexp.MustCompile(`\b(verify|confirm|validate|update)\s+.{0,20}\s+(account|password|identity|login|credential)`),
		regexp.MustCompile(`\b(unusual|suspicious)\s+.{0,20}\s+(activity|login|sign-?in)`),
		regexp.MustCompile(`\b(payment|transfer|transaction)\s+.{0,10}\s+(canceled|declined|rejected)`),
		regexp.MustCompile(`\b(urgent|immediate|limited\s+time)\s+.{0,15}\s+(action|response|attention)`),
	},
}

var mediumRiskTable = PatternTable{
	Level:  models.SeverityMedium,
	Weight: 0.1,
	Cap:    0.6,
	Phrases: []string{
		"limited time offer", "action required", "important notification",
		"security update", "verify your information", "identity confirmation",
		"login attempt", "account access", "password reset",
		"unusual login", "validate your account", "billing information",
		"exclusive offer", "special promotion", "once in a lifetime",
		"selected customers", "survey reward", "gift card",
		"reward points", "discount code", "apply now",
		"act fast", "don't miss out", "time sensitive", "before it expires",
	},
	Patterns: []*regexp.Regexp{
		regexp.MustCompile(`\b(click|open)\s+.{0,20}\s+(link|attachment)\s+.{0,20}\s+(verify|confirm)`),
		regexp.MustCompile(`\b(limited|one\s+time)\s+.{0,10}\s+(offer|opportunity|deal)`),
		regexp.MustCompile(`\b(won|winner|prize|reward|bonus)\s+.{0,15}\s+(lottery|contest|competition|selected)`),
		regexp.MustCompile(`\bsecurity\s+.{0,10}\s+(breach|violation|incident)`),
	},
}

var lowRiskTable = PatternTable{
	Level:  models.SeverityLow,
	Weight: 0.05,
	Cap:    0.3,
	Patterns: []*regexp.Regexp{
		regexp.MustCompile(`\b(free|discount|save|offer|special)\s+.{0,10}\s+(trial|membership|subscription)`),
		regexp.MustCompile(`\b(exclusive|limited|special)\s+.{0,10}\s+(access|invitation|preview)`),
		regexp.MustCompile(`\b(please|kindly|attention)\s+.{0,15}\s+(review|consider|read)`),
	},
}

// VocabRule counts occurrences of a vocabulary pattern; its contribution is
// min(Cap, count * Weight).
type VocabRule struct {
	Name    string
	Pattern *regexp.Regexp
	Weight  float64
	Cap     float64
}

// moneyRe matches an actual money amount (currency symbol with digits), not
// a bare symbol.
var moneyRe = regexp.MustCompile(`\$\d+|\d+\s*\$|€\d+|\d+\s*€|£\d+|\d+\s*£`)

var vocabRules = []VocabRule{
	{"money", moneyRe, 0.08, 0.24},
	{"links", regexp.MustCompile(`http|click here|click this link|click below|click now`), 0.08, 0.24},
	{"urgency", regexp.MustCompile(`urgent|immediately|today|now|asap|alert|hurry|quickly|fast|limited time|soon|expires`), 0.07, 0.21},
	{"password", regexp.MustCompile(`password|pwd|passwd`), 0.08, 0.24},
	{"security", regexp.MustCompile(`security|secure|protection|encrypt`), 0.05, 0.15},
	{"account", regexp.MustCompile(`account|login|sign in|signin`), 0.06, 0.18},
	{"threat", regexp.MustCompile(`suspicious|unusual|unauthorized|fraud|breach`), 0.08, 0.24},
	{"exclamation", regexp.MustCompile(`!+`), 0.05, 0.2},
	{"typos", regexp.MustCompile(`recieve|informations|companys|verifcation|notifcation|accout`), 0.08, 0.16},
}

// ComboRule adds a flat bonus when two groups of indicators co-occur in the
// same chunk. Scam messages rarely use one trick at a time.
type ComboRule struct {
	Name        string
	Left        []string
	LeftPattern *regexp.Regexp // when set, replaces the Left substring check
	Right       []string
	Bonus       float64
}

var comboRules = []ComboRule{
	// A money amount, not a bare currency symbol.
	{Name: "money_action", LeftPattern: moneyRe, Right: []string{"collect", "claim", "receive"}, Bonus: 0.3},
	{Name: "click_urgency", Left: []string{"click"}, Right: []string{"!"}, Bonus: 0.2},
	{Name: "giveaway", Left: []string{"selected", "winner", "won"}, Right: []string{"prize", "reward", "giveaway"}, Bonus: 0.35},
	{Name: "dear_generic", Left: []string{"dear customer", "dear user"}, Bonus: 0.12},
	{Name: "click_link", Left: []string{"click"}, Right: []string{"link"}, Bonus: 0.15},
	{Name: "verify_info", Left: []string{"verify"}, Right: []string{"information"}, Bonus: 0.12},
	{Name: "update_details", Left: []string{"update"}, Right: []string{"details"}, Bonus: 0.15},
}

// matches reports whether the rule fires on the lower-cased chunk: the left
// side present, and at least one Right indicator when the rule has a Right
// side.
func (c ComboRule) matches(text string) bool {
	if c.LeftPattern != nil {
		if !c.LeftPattern.MatchString(text) {
			return false
		}
	} else if !containsAny(text, c.Left) {
		return false
	}
	if c.Right == nil {
		return true
	}
	return containsAny(text, c.Right)
}
