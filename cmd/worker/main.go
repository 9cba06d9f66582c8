package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"esign-backend/internal/bootstrap"
	"esign-backend/internal/queue"
	"esign-backend/internal/shared/config"
	"esign-backend/internal/shared/telemetry"
	"esign-backend/internal/workerproc"
)

const (
	defaultPollInterval       = 2 * time.Second
	defaultWorkerConcurrency  = 4
	defaultShutdownTimeoutSec = 30
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	concurrency := envInt("WORKER_CONCURRENCY", defaultWorkerConcurrency)
	pollInterval := time.Duration(envInt("WORKER_POLL_INTERVAL_MS", int(defaultPollInterval.Milliseconds()))) * time.Millisecond
	shutdownTimeout := time.Duration(envInt("SHUTDOWN_TIMEOUT_SECONDS", defaultShutdownTimeoutSec)) * time.Second

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}

	sem := make(chan struct{}, max(1, concurrency))
	var wg sync.WaitGroup

	log.Printf("worker started batch=%d concurrency=%d poll=%s", cfg.WorkerBatchSize, concurrency, pollInterval)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

pollLoop:
	for {
		select {
		case <-ctx.Done():
			break pollLoop
		case <-ticker.C:
		}

		jobs, err := app.Queue.Reserve(ctx, time.Now().UTC(), cfg.WorkerBatchSize)
		if err != nil {
			if ctx.Err() != nil {
				break pollLoop
			}
			log.Printf("reserve jobs: %v", err)
			continue
		}

		for _, job := range jobs {
			select {
			case <-ctx.Done():
				break pollLoop
			case sem <- struct{}{}:
			}
			wg.Add(1)
			go func(j queue.Job) {
				defer wg.Done()
				defer func() { <-sem }()
				handleJob(ctx, app.Processor, j)
			}(job)
		}
	}

	log.Printf("shutdown requested, waiting up to %s for in-flight jobs", shutdownTimeout)
	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-time.After(shutdownTimeout):
		log.Printf("shutdown timeout reached; exiting with in-flight jobs")
	}
}

func handleJob(ctx context.Context, processor *workerproc.Processor, job queue.Job) {
	fields := map[string]any{
		"job_id":       job.ID,
		"document_id":  job.DocumentID,
		"signatory_id": job.SignatoryID,
		"channel":      string(job.Channel),
	}
	telemetry.Info("worker.share.received", fields)

	if err := processor.Process(ctx, job); err != nil {
		switch err.(type) {
		case workerproc.ErrInvalidJob:
			fields["error"] = err.Error()
			telemetry.Error("worker.share.invalid_job", fields)
		case workerproc.ErrSkipped:
			fields["reason"] = err.Error()
			telemetry.Info("worker.share.skipped", fields)
		default:
			fields["error"] = err.Error()
			telemetry.Error("worker.share.failed", fields)
		}
		return
	}
	telemetry.Info("worker.share.completed", fields)
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}
