package authority

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

const defaultBaseURL = "https://www.virustotal.com/api/v3/domains/"

// Stats is the engine-count breakdown the authority reports for a domain.
// Checked distinguishes "scanned and found clean" from "never seen".
type Stats struct {
	Malicious  int  `json:"malicious"`
	Suspicious int  `json:"suspicious"`
	Harmless   int  `json:"harmless"`
	Undetected int  `json:"undetected"`
	Checked    bool `json:"checked"`
}

// HasSignal reports whether any engine flagged the domain.
func (s Stats) HasSignal() bool {
	return s.Malicious > 0 || s.Suspicious > 0
}

// Client queries the external reputation authority. A zero-value API key
// disables lookups: every call reports no data, which pushes callers onto
// the heuristic fallback.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type lookupResponse struct {
	Data struct {
		Attributes struct {
			LastAnalysisStats struct {
				Malicious  int `json:"malicious"`
				Suspicious int `json:"suspicious"`
				Harmless   int `json:"harmless"`
				Undetected int `json:"undetected"`
			} `json:"last_analysis_stats"`
		} `json:"attributes"`
	} `json:"data"`
}

// Lookup fetches the authority's analysis stats for a domain. Unknown
// domains return zero stats without Checked; transport and server errors
// are returned so the caller can decide to fall back.
func (c *Client) Lookup(ctx context.Context, domain string) (Stats, error) {
	if c.apiKey == "" {
		return Stats{}, nil
	}

	for attempt := 1; attempt <= 2; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+domain, nil)
		if err != nil {
			return Stats{}, err
		}
		req.Header.Set("x-apikey", c.apiKey)
		req.Header.Set("User-Agent", "fraud-detector-engine")

		resp, err := c.http.Do(req)
		if err != nil {
			if attempt == 1 {
				select {
				case <-time.After(500 * time.Millisecond):
					continue
				case <-ctx.Done():
					return Stats{}, ctx.Err()
				}
			}
			return Stats{}, err
		}

		switch resp.StatusCode {
		case http.StatusOK:
			var decoded lookupResponse
			if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
				resp.Body.Close()
				return Stats{}, fmt.Errorf("authority: decoding response for %s: %w", domain, err)
			}
			resp.Body.Close()
			raw := decoded.Data.Attributes.LastAnalysisStats
			return Stats{
				Malicious:  raw.Malicious,
				Suspicious: raw.Suspicious,
				Harmless:   raw.Harmless,
				Undetected: raw.Undetected,
				Checked:    true,
			}, nil

		case http.StatusNotFound:
			// Domain never scanned. Not an error, just no data.
			resp.Body.Close()
			return Stats{}, nil

		case http.StatusTooManyRequests:
			resp.Body.Close()
			if attempt == 1 {
				log.Printf("[DEBUG] Authority rate limit hit for %s, backing off and retrying", domain)
				select {
				case <-time.After(1600 * time.Millisecond):
					continue
				case <-ctx.Done():
					return Stats{}, ctx.Err()
				}
			}
			return Stats{}, fmt.Errorf("authority: rate limited looking up %s", domain)

		default:
			status := resp.StatusCode
			resp.Body.Close()
			if attempt == 1 {
				select {
				case <-time.After(500 * time.Millisecond):
					continue
				case <-ctx.Done():
					return Stats{}, ctx.Err()
				}
			}
			return Stats{}, fmt.Errorf("authority: unexpected status %d for %s", status, domain)
		}
	}

	return Stats{}, nil
}
