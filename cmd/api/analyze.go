package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Petrins/fraud-detector/internal/textrisk"
)

// AnalyzeRequest carries the message body to score.
type AnalyzeRequest struct {
	Text string `json:"text"`
}

func analyzeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Malformed JSON body", http.StatusBadRequest)
		return
	}

	assessment, err := analyzer.Analyze(r.Context(), req.Text)
	if err != nil {
		// The only failure mode is cancellation: the client went away
		// mid-analysis, so nobody is waiting for a verdict.
		if errors.Is(err, textrisk.ErrAborted) {
			http.Error(w, "Analysis aborted", http.StatusRequestTimeout)
			return
		}
		http.Error(w, "Analysis failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, assessment)
}
