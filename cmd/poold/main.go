package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ReputePool/internal/api"
	"ReputePool/internal/clock"
	"ReputePool/internal/config"
	"ReputePool/internal/notifier"
	"ReputePool/internal/payout"
	"ReputePool/internal/pool"
	"ReputePool/internal/recorder"
	"ReputePool/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] ReputePool starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init external clients
	payer := payout.NewClient(cfg.Payout.Endpoint, cfg.Proxy)
	attester := notifier.NewAttestationClient(cfg.Attestation.Endpoint, cfg.Proxy)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init pool manager
	pm, err := pool.NewManager(cfg.Pool.StateFile, cfg.OwnerAddress(), cfg.Attestation.Endpoint,
		clock.SystemClock{}, payer, attester, rec)
	if err != nil {
		log.Fatalf("[FATAL] init pool manager: %v", err)
	}
	log.Printf("[INFO] pool owner: %s, balance: %s", pm.Owner().Hex(), pm.Balance().String())

	// Init scheduler
	sched := scheduler.NewScheduler(pm, rec)
	if err := sched.Register(cfg.Schedule.SnapshotCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start HTTP API
	srv := api.NewServer(pm)
	go func() {
		if err := srv.Start(cfg.Server.Listen); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()
	log.Printf("[INFO] ReputePool is listening on %s. Press Ctrl+C to stop.", cfg.Server.Listen)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[ERROR] http shutdown: %v", err)
	}
	log.Println("[INFO] ReputePool stopped")
}
