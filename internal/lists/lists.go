package lists

import "strings"

// List is a read-only set of domains with exact or suffix membership. The
// caller owns refresh; swap in a new List rather than mutating one.
type List struct {
	exact map[string]struct{}
}

// New builds a List from a slice of domain strings. Entries are lower-cased
// and deduplicated.
func New(domains []string) *List {
	l := &List{exact: make(map[string]struct{}, len(domains))}
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			l.exact[d] = struct{}{}
		}
	}
	return l
}

// Contains reports whether domain matches an entry exactly or is a
// subdomain of one ("login.evil.com" matches "evil.com").
func (l *List) Contains(domain string) bool {
	if l == nil {
		return false
	}
	domain = strings.ToLower(domain)
	if _, ok := l.exact[domain]; ok {
		return true
	}
	for i := 0; i < len(domain); i++ {
		if domain[i] == '.' {
			if _, ok := l.exact[domain[i+1:]]; ok {
				return true
			}
		}
	}
	return false
}

// Len returns the number of entries.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.exact)
}
