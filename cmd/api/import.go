package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/Petrins/fraud-detector/internal/models"
	"github.com/Petrins/fraud-detector/internal/store"
)

// ImportResponse reports how many reputation rows were written.
type ImportResponse struct {
	Imported int    `json:"imported"`
	Message  string `json:"message"`
}

// importHandler bulk-upserts pre-resolved reputation rows, e.g. a nightly
// feed from another scanner. Rows are keyed by domain; last write wins.
func importHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var recs []models.DomainRecord
	if err := json.NewDecoder(r.Body).Decode(&recs); err != nil {
		http.Error(w, "Malformed JSON body", http.StatusBadRequest)
		return
	}
	if len(recs) == 0 {
		http.Error(w, "Empty record list", http.StatusBadRequest)
		return
	}

	now := time.Now()
	for i := range recs {
		recs[i].Domain = strings.ToLower(strings.TrimSpace(recs[i].Domain))
		if recs[i].Domain == "" {
			http.Error(w, "Record with empty domain", http.StatusBadRequest)
			return
		}
		if recs[i].LastChecked.IsZero() {
			recs[i].LastChecked = now
		}
	}

	if err := store.SaveReputationBatch(r.Context(), recs); err != nil {
		http.Error(w, "Failed to import reputation rows", http.StatusInternalServerError)
		return
	}

	writeJSON(w, ImportResponse{
		Imported: len(recs),
		Message:  "Reputation rows imported.",
	})
}
