package main

import (
	"encoding/json"
	"net/http"

	"github.com/Petrins/fraud-detector/internal/store"
)

// ResultRow represents a single scanned domain from the database
type ResultRow struct {
	Domain     string          `json:"domain"`
	Malicious  int             `json:"malicious"`
	Suspicious int             `json:"suspicious"`
	Source     string          `json:"source"`
	Data       json.RawMessage `json:"data"` // RawMessage prevents Go from escaping the JSONB object
}

func resultsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	jobID := r.URL.Query().Get("id")
	if jobID == "" {
		http.Error(w, "Missing 'id' parameter", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	// Query the results table, ordered by the sequence they were saved
	query := `SELECT domain, malicious, suspicious, source, data FROM scan_results WHERE job_id = $1 ORDER BY id ASC`

	rows, err := store.DB.Query(ctx, query, jobID)
	if err != nil {
		http.Error(w, "Failed to fetch results", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	var results []ResultRow

	for rows.Next() {
		var row ResultRow
		if err := rows.Scan(&row.Domain, &row.Malicious, &row.Suspicious, &row.Source, &row.Data); err != nil {
			continue // Skip malformed rows
		}
		results = append(results, row)
	}

	// Ensure we return an empty array `[]` instead of `null` if no results are found yet
	if results == nil {
		results = []ResultRow{}
	}

	writeJSON(w, results)
}
