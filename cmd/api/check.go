package main

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/Petrins/fraud-detector/internal/models"
	"github.com/Petrins/fraud-detector/internal/reputation"
)

// CheckResponse is the verdict returned for one URL or domain.
type CheckResponse struct {
	Domain       string         `json:"domain"`
	Verdict      models.Verdict `json:"verdict"`
	Source       models.Source  `json:"source"`
	Trusted      bool           `json:"trusted"`
	URLShortener bool           `json:"url_shortener,omitempty"`
}

func checkHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	hostname, ok := hostnameFromRequest(r)
	if !ok {
		http.Error(w, "Missing or malformed 'url'/'domain' parameter", http.StatusBadRequest)
		return
	}

	// Allow list is trust policy, not risk scoring: it short-circuits
	// before the pipeline runs at all.
	if allowlist.Load().Contains(hostname) {
		writeJSON(w, CheckResponse{
			Domain:  hostname,
			Verdict: models.Verdict{Harmless: 100},
			Source:  models.SourceAllowlist,
			Trusted: true,
		})
		return
	}

	decision := newPipeline().Check(r.Context(), hostname)
	writeJSON(w, CheckResponse{
		Domain:       decision.Domain,
		Verdict:      decision.Verdict,
		Source:       decision.Source,
		Trusted:      decision.Verdict.Malicious == 0 && decision.Verdict.Suspicious == 0,
		URLShortener: reputation.IsURLShortener(hostname),
	})
}

// hostnameFromRequest accepts either a full URL or a bare domain.
func hostnameFromRequest(r *http.Request) (string, bool) {
	if raw := r.URL.Query().Get("url"); raw != "" {
		parsed, err := url.Parse(raw)
		if err != nil || parsed.Hostname() == "" {
			return "", false
		}
		return strings.ToLower(parsed.Hostname()), true
	}
	if domain := r.URL.Query().Get("domain"); domain != "" {
		return strings.ToLower(strings.TrimSpace(domain)), true
	}
	return "", false
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ Error encoding response: %v", err)
	}
}
