package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"github.com/manhnguyen41/Adaptive-Learning/internal/ability"
	"github.com/manhnguyen41/Adaptive-Learning/internal/api"
	"github.com/manhnguyen41/Adaptive-Learning/internal/calibration"
	"github.com/manhnguyen41/Adaptive-Learning/internal/config"
	"github.com/manhnguyen41/Adaptive-Learning/internal/examprob"
	"github.com/manhnguyen41/Adaptive-Learning/internal/metrics"
	"github.com/manhnguyen41/Adaptive-Learning/internal/store"
)

func main() {
	logPath := os.Getenv("LOG_FILE_PATH")
	if logPath != "" {
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Printf("WARN: could not open log file %s: %v, logging to stdout only", logPath, err)
		} else {
			defer logFile.Close()
			multi := io.MultiWriter(logFile, os.Stdout)
			log.SetOutput(multi)
			gin.DefaultWriter = multi
			gin.DefaultErrorWriter = multi
		}
	}

	cfg := config.Load()

	bankStore, err := store.Open(cfg.StoreDriver, cfg.StoreDSN)
	if err != nil {
		log.Fatalf("ERROR: failed to open bank store: %v", err)
	}
	defer bankStore.Close()

	banks := api.NewBankSource(nil)
	if bank, err := loadOrCalibrate(&cfg, bankStore); err != nil {
		log.Fatalf("ERROR: failed to build initial item bank: %v", err)
	} else {
		banks.Publish(bank)
	}

	metrics.MustRegisterAll()

	estimator := ability.New()
	estimator.MaxIter = cfg.NewtonMaxIter
	estimator.Tolerance = cfg.NewtonTol

	engine := examprob.New()
	engine.ExactDPThreshold = cfg.ExactDPThreshold

	router := gin.Default()
	api.RegisterRoutes(router, banks, estimator, engine)

	scheduler := cron.New()
	if cfg.RecalibrateInterval != "" {
		_, err := scheduler.AddFunc(cfg.RecalibrateInterval, func() {
			log.Println("running scheduled recalibration")
			responses, dropped, err := store.LoadResponseHistory(cfg.ResponseHistoryPath)
			if err != nil {
				log.Printf("ERROR: scheduled recalibration failed: %v", err)
				return
			}
			if dropped > 0 {
				log.Printf("[SERVER] dropped %d malformed response records while loading %s", dropped, cfg.ResponseHistoryPath)
			}
			bank := calibration.CalibrateBank(responses)
			if err := bankStore.Save(bank); err != nil {
				log.Printf("ERROR: failed to persist recalibrated bank: %v", err)
			}
			banks.Publish(bank)
			log.Println("recalibration complete, bank published")
		})
		if err != nil {
			log.Printf("ERROR: failed to schedule recalibration job %q: %v", cfg.RecalibrateInterval, err)
		} else {
			scheduler.Start()
			defer scheduler.Stop()
		}
	}

	addr := cfg.HTTPAddr
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("ERROR: failed to start server: %v", err)
			os.Exit(1)
		}
	}()
	log.Printf("server running on %s", addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}
	log.Println("server exited")
}

// loadOrCalibrate tries to load a previously persisted bank; if the store is
// empty or loading fails it falls back to calibrating fresh from the
// configured response history, persisting the result for next time.
func loadOrCalibrate(cfg *config.Config, bankStore *store.BankStore) (*calibration.Bank, error) {
	if bank, err := bankStore.Load(); err == nil && len(bank.Items) > 0 {
		return bank, nil
	}

	responses, dropped, err := store.LoadResponseHistory(cfg.ResponseHistoryPath)
	if err != nil {
		return nil, err
	}
	if dropped > 0 {
		log.Printf("[SERVER] dropped %d malformed response records while loading %s", dropped, cfg.ResponseHistoryPath)
	}
	bank := calibration.CalibrateBank(responses)
	if err := bankStore.Save(bank); err != nil {
		log.Printf("WARN: failed to persist freshly calibrated bank: %v", err)
	}
	return bank, nil
}
