package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/Petrins/fraud-detector/internal/authority"
	"github.com/Petrins/fraud-detector/internal/cache"
	"github.com/Petrins/fraud-detector/internal/lists"
	"github.com/Petrins/fraud-detector/internal/pipeline"
	"github.com/Petrins/fraud-detector/internal/queue"
	"github.com/Petrins/fraud-detector/internal/store"
	"github.com/Petrins/fraud-detector/internal/worker"
)

func main() {
	log.Println("🚀 Starting Fraud Detector Worker...")

	// 1. Initialize Redis
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	if err := queue.Init(redisAddr); err != nil {
		log.Fatalf("❌ Failed to connect to Redis: %v", err)
	}
	log.Println("✅ Connected to Redis")

	// 2. Initialize Database
	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		log.Fatal("❌ DB_URL environment variable is required")
	}
	if err := store.Init(dbURL); err != nil {
		log.Fatalf("❌ Failed to connect to DB: %v", err)
	}
	log.Println("✅ Connected to PostgreSQL")

	// 3. Assemble the decision pipeline. The deny list is loaded once at
	// startup; the worker restarts pick up list changes.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	denied, err := store.LoadListDomains(ctx, "deny")
	cancel()
	if err != nil {
		log.Printf("⚠️  Failed to load deny list, continuing without: %v", err)
	}

	authClient := authority.NewClient(os.Getenv("AUTHORITY_BASE_URL"), os.Getenv("AUTHORITY_API_KEY"))
	engine := pipeline.New(lists.New(denied), cache.New(), authClient)

	// 4. Start the Processing Loop
	worker.Start(engine)
}
