package reputation

// Static reference tables consumed by the classifier. Kept as data so the
// scoring rules can be reviewed and tuned without touching control flow.

// knownSafeDomains short-circuits classification: an exact or subdomain
// match returns a fixed high-trust verdict immediately.
var knownSafeDomains = []string{
	"google.com", "microsoft.com", "apple.com", "amazon.com", "facebook.com",
	"github.com", "youtube.com", "linkedin.com", "twitter.com", "instagram.com",
	"wikipedia.org", "wordpress.com", "mozilla.org", "adobe.com", "vimeo.com",
	"tumblr.com", "yahoo.com", "netflix.com", "paypal.com", "dropbox.com",
	"gmail.com", "outlook.com", "hotmail.com", "live.com", "icloud.com",
	"pinterest.com", "reddit.com", "quora.com", "spotify.com", "zoom.us",
	"slack.com", "office.com", "notion.so", "canva.com", "shopify.com",
	"cloudflare.com", "godaddy.com", "squarespace.com", "wix.com", "wordpress.org",
	"cloudfront.net", "amazonaws.com", "googleusercontent.com", "googlevideo.com",
	"googleadservices.com", "googleanalytics.com", "gstatic.com", "bing.com",
	"opera.com", "mozilla.com", "firefox.com", "chromium.org",
	"chase.com", "bankofamerica.com", "wellsfargo.com", "citibank.com", "capitalone.com",
	"gitlab.com", "bitbucket.org", "stackoverflow.com", "stackexchange.com",
	"medium.com", "dev.to", "digitalocean.com", "heroku.com", "vercel.app",
	"netlify.app", "stripe.com", "quickbooks.com",
}

// commonTLDs carry the full trust bonus; moderatelyCommonTLDs a reduced one.
var commonTLDs = map[string]bool{
	"com": true, "org": true, "net": true, "edu": true, "gov": true,
	"io": true, "co": true, "info": true, "biz": true, "app": true,
	"dev": true, "me": true, "tech": true, "ai": true, "uk": true,
	"de": true, "fr": true, "jp": true, "ru": true, "br": true,
	"es": true, "it": true, "nl": true, "pl": true, "ca": true,
	"au": true, "in": true, "cn": true,
}

var moderatelyCommonTLDs = map[string]bool{
	"shop": true, "blog": true, "store": true, "site": true,
	"online": true, "xyz": true, "club": true, "live": true,
	"news": true, "life": true, "world": true, "space": true,
}

// brandSubstrings maps a brand to the fragments attackers embed in lookalike
// domains. A primary label containing a fragment, outside the brand's own
// domain, is an impersonation candidate.
var brandSubstrings = map[string][]string{
	"google":    {"google", "gmail", "youtube", "goog"},
	"microsoft": {"microsoft", "office", "outlook", "msft", "hotmail"},
	"apple":     {"apple", "icloud", "itunes"},
	"amazon":    {"amazon", "aws", "amzn"},
	"paypal":    {"paypal", "pay"},
	"facebook":  {"facebook", "fb", "instagram", "meta"},
	"netflix":   {"netflix", "nflx"},
	"twitter":   {"twitter", "twtr"},
	"banking":   {"bank", "chase", "citi", "wells", "fargo", "hsbc", "scotia", "barclays"},
}

// threatSubstrings force a malicious verdict regardless of feature scoring.
var threatSubstrings = []string{"nulled.to", "malicious", "phish", "hack"}

// urlShorteners are domains that hide their final destination. They are not
// scored as malicious but callers may want to surface a redirect warning.
var urlShorteners = []string{
	"bit.ly", "tinyurl.com", "t.co", "goo.gl", "is.gd", "ow.ly",
	"short.to", "tiny.cc", "lnkd.in", "db.tt", "adf.ly", "buff.ly",
	"v.gd", "g.co", "fb.me", "amzn.to", "shorturl.at", "clck.ru", "wp.me",
}
