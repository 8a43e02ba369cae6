package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Petrins/fraud-detector/internal/models"
)

var DB *pgxpool.Pool

// Init connects to Postgres and runs migrations
func Init(connString string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	DB, err = pgxpool.New(ctx, connString)
	if err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}

	// Verify connection
	if err := DB.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return runMigrations(ctx)
}

type migration struct {
	name  string
	query string
}

// migrations run in slice order: scan_results references jobs, so jobs must
// exist before its DDL executes.
var migrations = []migration{
	{
		// Tracks bulk scan batches.
		name: "jobs",
		query: `
	CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		total_count INT DEFAULT 0,
		processed_count INT DEFAULT 0,
		created_at TIMESTAMP DEFAULT NOW(),
		completed_at TIMESTAMP
	);`,
	},
	{
		// Per-domain pipeline output within a job. The full decision is
		// stored as JSONB so results can be re-read without re-running the
		// pipeline.
		name: "scan_results",
		query: `
	CREATE TABLE IF NOT EXISTS scan_results (
		id SERIAL PRIMARY KEY,
		job_id TEXT NOT NULL REFERENCES jobs(id),
		domain TEXT NOT NULL,
		malicious INT NOT NULL,
		suspicious INT NOT NULL,
		source TEXT NOT NULL,
		data JSONB NOT NULL
	);`,
	},
	{
		// One durable row per domain, overwritten on refresh — the
		// persistence sink for resolved verdicts.
		name: "domain_reputation",
		query: `
	CREATE TABLE IF NOT EXISTS domain_reputation (
		domain TEXT PRIMARY KEY,
		harmless INT NOT NULL DEFAULT 0,
		malicious INT NOT NULL DEFAULT 0,
		suspicious INT NOT NULL DEFAULT 0,
		undetected INT NOT NULL DEFAULT 0,
		confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
		entropy DOUBLE PRECISION NOT NULL DEFAULT 0,
		lexical_diversity DOUBLE PRECISION NOT NULL DEFAULT 0,
		is_branded BOOLEAN NOT NULL DEFAULT FALSE,
		last_checked TIMESTAMP NOT NULL DEFAULT NOW()
	);`,
	},
	{
		// Allow/deny entries, kind is 'allow' or 'deny'.
		name: "list_domains",
		query: `
	CREATE TABLE IF NOT EXISTS list_domains (
		domain TEXT NOT NULL,
		kind TEXT NOT NULL,
		PRIMARY KEY (domain, kind)
	);`,
	},
}

// runMigrations creates the necessary tables if they don't exist
func runMigrations(ctx context.Context) error {
	for _, m := range migrations {
		if _, err := DB.Exec(ctx, m.query); err != nil {
			return fmt.Errorf("migration failed (%s): %w", m.name, err)
		}
	}
	return nil
}

const upsertReputation = `
	INSERT INTO domain_reputation
		(domain, harmless, malicious, suspicious, undetected, confidence,
		 entropy, lexical_diversity, is_branded, last_checked)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (domain) DO UPDATE SET
		harmless = EXCLUDED.harmless,
		malicious = EXCLUDED.malicious,
		suspicious = EXCLUDED.suspicious,
		undetected = EXCLUDED.undetected,
		confidence = EXCLUDED.confidence,
		entropy = EXCLUDED.entropy,
		lexical_diversity = EXCLUDED.lexical_diversity,
		is_branded = EXCLUDED.is_branded,
		last_checked = EXCLUDED.last_checked
`

// UpsertReputation writes one verdict row inside the caller's transaction.
// Last write wins.
func UpsertReputation(ctx context.Context, tx pgx.Tx, rec models.DomainRecord) error {
	_, err := tx.Exec(ctx, upsertReputation,
		rec.Domain, rec.Harmless, rec.Malicious, rec.Suspicious,
		rec.Undetected, rec.Confidence, rec.Entropy, rec.LexicalDiversity,
		rec.IsBranded, rec.LastChecked)
	if err != nil {
		return fmt.Errorf("saving reputation for %s: %w", rec.Domain, err)
	}
	return nil
}

// SaveReputationBatch upserts a batch of verdict rows in one transaction.
func SaveReputationBatch(ctx context.Context, recs []models.DomainRecord) error {
	if len(recs) == 0 {
		return nil
	}

	tx, err := DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("starting batch transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, rec := range recs {
		batch.Queue(upsertReputation,
			rec.Domain, rec.Harmless, rec.Malicious, rec.Suspicious,
			rec.Undetected, rec.Confidence, rec.Entropy, rec.LexicalDiversity,
			rec.IsBranded, rec.LastChecked)
	}

	results := tx.SendBatch(ctx, batch)
	for range recs {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("batch upsert failed: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("closing batch: %w", err)
	}

	return tx.Commit(ctx)
}

// LoadListDomains returns every list entry of the given kind ('allow' or
// 'deny'). The caller rebuilds its in-memory list from the result.
func LoadListDomains(ctx context.Context, kind string) ([]string, error) {
	rows, err := DB.Query(ctx, `SELECT domain FROM list_domains WHERE kind = $1`, kind)
	if err != nil {
		return nil, fmt.Errorf("loading %s list: %w", kind, err)
	}
	defer rows.Close()

	var domains []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			continue // Skip malformed rows
		}
		domains = append(domains, d)
	}
	return domains, rows.Err()
}
