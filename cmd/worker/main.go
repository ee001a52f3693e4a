package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"placement-ats/internal/bootstrap"
	"placement-ats/internal/queue"
	"placement-ats/internal/shared/config"
	"placement-ats/internal/shared/storage/db"
)

const (
	defaultVisibilitySeconds  = 300
	defaultWorkerConcurrency  = 4
	defaultShutdownTimeoutSec = 30
)

type settings struct {
	concurrency       int
	visibilitySeconds int
	shutdownTimeout   time.Duration
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := settings{
		concurrency:       max(1, envInt("WORKER_CONCURRENCY", defaultWorkerConcurrency)),
		visibilitySeconds: envInt("SQS_VISIBILITY_TIMEOUT_SECONDS", defaultVisibilitySeconds),
		shutdownTimeout:   time.Duration(envInt("SHUTDOWN_TIMEOUT_SECONDS", defaultShutdownTimeoutSec)) * time.Second,
	}

	app, err := bootstrap.Build(ctx, cfg, bootstrap.Options{
		DBOptions:  db.DefaultWorkerOptions(s.concurrency),
		SkipQueue:  true,
		SkipRouter: true,
	})
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}
	defer app.Close()

	switch cfg.QueueBackend {
	case queue.BackendSQS:
		err = runSQS(ctx, cfg, s, app.Evaluations)
	case queue.BackendAMQP:
		err = runAMQP(ctx, cfg, s, app.Evaluations)
	default:
		log.Fatalf("QUEUE_BACKEND must be sqs or amqp for the worker, got %q", cfg.QueueBackend)
	}
	if err != nil {
		log.Fatalf("worker: %v", err)
	}
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
