// Command calibrate is an offline batch tool: it loads a response history
// file, runs item calibration, and persists the resulting bank, without
// standing up an HTTP server. Useful for cron-less deployments or for
// seeding a fresh store before the server is ever started.
package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/manhnguyen41/Adaptive-Learning/internal/calibration"
	"github.com/manhnguyen41/Adaptive-Learning/internal/config"
	"github.com/manhnguyen41/Adaptive-Learning/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env file (this is okay if env vars are set elsewhere)")
	}

	cfg := config.Load()
	if cfg.ResponseHistoryPath == "" {
		log.Fatal("ERROR: RESPONSE_HISTORY_PATH is not configured")
	}

	responses, dropped, err := store.LoadResponseHistory(cfg.ResponseHistoryPath)
	if err != nil {
		log.Fatalf("ERROR: failed to load response history from %s: %v", cfg.ResponseHistoryPath, err)
	}
	if dropped > 0 {
		log.Printf("[CALIBRATE] dropped %d malformed response records", dropped)
	}

	bank := calibration.CalibrateBank(responses)
	log.Printf("[CALIBRATE] calibrated %d items from %d responses", len(bank.Items), len(responses))

	bankStore, err := store.Open(cfg.StoreDriver, cfg.StoreDSN)
	if err != nil {
		log.Fatalf("ERROR: failed to open bank store %s: %v", cfg.StoreDSN, err)
	}
	defer bankStore.Close()

	if err := bankStore.Save(bank); err != nil {
		log.Fatalf("ERROR: failed to persist calibrated bank: %v", err)
	}
	log.Printf("[CALIBRATE] bank persisted to %s via %s driver", cfg.StoreDSN, cfg.StoreDriver)
}
