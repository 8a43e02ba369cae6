package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Petrins/fraud-detector/internal/queue"
	"github.com/Petrins/fraud-detector/internal/store"

	"github.com/google/uuid"
)

// UploadResponse is what we send back to the user
type UploadResponse struct {
	JobID     string `json:"job_id"`
	TotalRows int    `json:"total_rows"`
	Message   string `json:"message"`
}

func uploadHandler(w http.ResponseWriter, r *http.Request) {
	// 1. Only allow POST
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// 2. Parse Multipart Form (Max 10MB)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "File too large or malformed", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing 'file' parameter in form data", http.StatusBadRequest)
		return
	}
	defer file.Close()

	// 3. Read CSV of domains (one per row, first column)
	reader := csv.NewReader(file)
	var domains []string

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			http.Error(w, "Invalid CSV format", http.StatusBadRequest)
			return
		}

		if len(record) > 0 {
			domain := strings.ToLower(strings.TrimSpace(record[0]))
			if domain != "" {
				domains = append(domains, domain)
			}
		}
	}

	if len(domains) == 0 {
		http.Error(w, "CSV is empty", http.StatusBadRequest)
		return
	}

	// 4. Create Job in Postgres
	jobID := uuid.New().String()
	ctx := r.Context()

	query := `INSERT INTO jobs (id, status, total_count, created_at) VALUES ($1, 'pending', $2, $3)`
	_, err = store.DB.Exec(ctx, query, jobID, len(domains), time.Now())
	if err != nil {
		fmt.Printf("DB Error: %v\n", err)
		http.Error(w, "Failed to create job", http.StatusInternalServerError)
		return
	}

	// 5. Queue one scan task per domain
	for _, domain := range domains {
		if err := queue.Enqueue(ctx, queue.Task{JobID: jobID, Domain: domain}); err != nil {
			fmt.Printf("Queue Error: %v\n", err)
			http.Error(w, "Failed to enqueue scan tasks", http.StatusInternalServerError)
			return
		}
	}

	// 6. Return Success
	writeJSON(w, UploadResponse{
		JobID:     jobID,
		TotalRows: len(domains),
		Message:   "Job created successfully. Processing started.",
	})
}
