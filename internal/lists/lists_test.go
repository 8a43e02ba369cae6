package lists

import "testing"

func TestContains(t *testing.T) {
	list := New([]string{"evil.com", "Bad.Example.org", " spaced.net "})

	tests := []struct {
		name     string
		domain   string
		expected bool
	}{
		{"Exact match", "evil.com", true},
		{"Subdomain match", "login.evil.com", true},
		{"Deep subdomain match", "a.b.login.evil.com", true},
		{"Case-insensitive entry", "bad.example.org", true},
		{"Case-insensitive query", "EVIL.COM", true},
		{"Trimmed entry", "spaced.net", true},
		{"Suffix without dot is not a match", "notevil.com", false},
		{"Unrelated domain", "good.com", false},
		{"Parent of an entry", "com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := list.Contains(tt.domain); got != tt.expected {
				t.Errorf("Contains(%q) = %v, expected %v", tt.domain, got, tt.expected)
			}
		})
	}
}

func TestNilListIsEmpty(t *testing.T) {
	var list *List
	if list.Contains("anything.com") {
		t.Error("nil list should contain nothing")
	}
	if list.Len() != 0 {
		t.Error("nil list should have zero length")
	}
}
