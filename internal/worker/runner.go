package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/Petrins/fraud-detector/internal/features"
	"github.com/Petrins/fraud-detector/internal/models"
	"github.com/Petrins/fraud-detector/internal/pipeline"
	"github.com/Petrins/fraud-detector/internal/queue"
	"github.com/Petrins/fraud-detector/internal/store"
)

// Start launches the worker loop.
// It blocks forever, waiting for tasks.
func Start(p *pipeline.Pipeline) {
	log.Println("👷 Worker started. Waiting for scan tasks...")
	ctx := context.Background()

	for {
		// 1. Blocking Pop from Redis (Waits 0s = forever until item arrives)
		result, err := queue.Client.BLPop(ctx, 0*time.Second, queue.QueueName).Result()
		if err != nil {
			log.Printf("❌ Redis error: %v\n", err)
			time.Sleep(1 * time.Second) // Backoff on error
			continue
		}

		rawJSON := result[1]
		var task queue.Task
		if err := json.Unmarshal([]byte(rawJSON), &task); err != nil {
			log.Printf("❌ Malformed task: %s\n", rawJSON)
			continue
		}

		// 2. PROCESS: resolve the domain through the decision pipeline.
		// The pipeline never fails — worst case it degrades to the
		// heuristic classifier — so there is no error path here.
		scanCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
		decision := p.Check(scanCtx, task.Domain)
		feats := features.Extract(features.BaseDomain(task.Domain))
		cancel()

		// 3. SAVE: scan result, durable reputation row, and job progress in
		// one transaction.
		if err := saveDecision(ctx, task, decision, feats); err != nil {
			log.Printf("❌ Failed to save result for %s: %v\n", task.Domain, err)
			continue
		}

		fmt.Printf("✅ Processed: %s (malicious: %d, source: %s)\n",
			task.Domain, decision.Verdict.Malicious, decision.Source)
	}
}

func saveDecision(ctx context.Context, task queue.Task, decision models.Decision, feats features.Features) error {
	decisionJSON, _ := json.Marshal(decision)

	tx, err := store.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO scan_results (job_id, domain, malicious, suspicious, source, data)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, task.JobID, task.Domain, decision.Verdict.Malicious, decision.Verdict.Suspicious,
		string(decision.Source), decisionJSON)
	if err != nil {
		return fmt.Errorf("inserting scan result: %w", err)
	}

	rec := models.DomainRecord{
		Domain:           decision.Domain,
		Harmless:         decision.Verdict.Harmless,
		Malicious:        decision.Verdict.Malicious,
		Suspicious:       decision.Verdict.Suspicious,
		Undetected:       decision.Verdict.Undetected,
		Confidence:       decision.Verdict.Confidence,
		Entropy:          feats.Entropy,
		LexicalDiversity: feats.LexicalDiversity,
		IsBranded:        decision.Verdict.Branded,
		LastChecked:      time.Now(),
	}
	if err := store.UpsertReputation(ctx, tx, rec); err != nil {
		return err
	}

	// Update job progress; the final task flips the job to 'completed'.
	_, err = tx.Exec(ctx, `
		UPDATE jobs
		SET processed_count = processed_count + 1,
		    status = CASE
		        WHEN processed_count + 1 >= total_count THEN 'completed'
		        ELSE status
		    END,
		    completed_at = CASE
		        WHEN processed_count + 1 >= total_count THEN NOW()
		        ELSE completed_at
		    END
		WHERE id = $1
	`, task.JobID)
	if err != nil {
		return fmt.Errorf("updating job progress: %w", err)
	}

	return tx.Commit(ctx)
}
