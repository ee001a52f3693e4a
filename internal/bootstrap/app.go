package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"placement-ats/internal/ats"
	"placement-ats/internal/ats/rejection"
	"placement-ats/internal/ats/resumefeedback"
	"placement-ats/internal/ats/skillgap"
	"placement-ats/internal/evaluations"
	"placement-ats/internal/queue"
	"placement-ats/internal/services/health"
	"placement-ats/internal/shared/cache"
	"placement-ats/internal/shared/config"
	"placement-ats/internal/shared/server"
	"placement-ats/internal/shared/server/middleware"
	"placement-ats/internal/shared/storage/db"
	"placement-ats/internal/shared/storage/object"
	localstore "placement-ats/internal/shared/storage/object/local"
	memorystore "placement-ats/internal/shared/storage/object/memory"
	s3store "placement-ats/internal/shared/storage/object/s3"
	"placement-ats/internal/students"
	"placement-ats/internal/uploads"
)

// App holds shared dependencies.
type App struct {
	Config      config.Config
	Router      *gin.Engine
	DB          *sql.DB
	Store       object.ObjectStore
	Queue       queue.Client
	Cache       *cache.Redis
	Screener    ats.Screener
	Evaluations *evaluations.Service
	Interpreter *rejection.Interpreter
	Analyzer    *skillgap.Analyzer
	Feedback    *resumefeedback.Engine
	Health      *health.Service
}

// Options tunes Build for the calling process.
type Options struct {
	// DBOptions overrides the pool defaults; zero value means DefaultServerOptions.
	DBOptions db.Options
	// SkipQueue leaves the producer unset, as the worker only consumes.
	SkipQueue bool
	// SkipRouter leaves Router nil.
	SkipRouter bool
}

// Build prepares shared dependencies and wires routes.
func Build(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}

	if cfg.ATSWeights == (ats.Weights{}) {
		cfg.ATSWeights = ats.DefaultWeights()
	}
	engine, err := ats.NewEngine(cfg.ATSWeights)
	if err != nil {
		return nil, fmt.Errorf("ats weights: %w", err)
	}
	screener := ats.Screener{
		Engine:   engine,
		Feedback: ats.NewFeedbackGenerator(cfg.ATSReasonThreshold),
	}

	sqlDB, err := buildDB(ctx, cfg, opts.DBOptions)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var queueClient queue.Client
	if !opts.SkipQueue {
		queueClient, err = buildQueue(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	resultCache := cache.NewRedis(ctx, cache.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.CacheTTL,
	})

	var repo evaluations.Repo
	if sqlDB != nil {
		repo = &evaluations.PGRepo{DB: sqlDB}
	} else {
		repo = evaluations.NewMemoryRepo()
	}

	svc := &evaluations.Service{
		Repo:     repo,
		Screener: screener,
		Store:    store,
		Queue:    queueClient,
	}
	if resultCache.Enabled() {
		svc.Cache = resultCache
	}

	checks := map[string]health.Pinger{}
	if sqlDB != nil {
		checks["database"] = dbPinger{db: sqlDB}
	}
	if resultCache.Enabled() {
		checks["cache"] = resultCache
	}

	app := &App{
		Config:      cfg,
		DB:          sqlDB,
		Store:       store,
		Queue:       queueClient,
		Cache:       resultCache,
		Screener:    screener,
		Evaluations: svc,
		Interpreter: rejection.New(),
		Analyzer:    skillgap.New(),
		Feedback:    resumefeedback.New(),
		Health:      health.NewService(checks),
	}

	if !opts.SkipRouter {
		var uploadsHandler *uploads.Handler
		if cfg.ObjectStoreType == "s3" {
			uploadsHandler, err = uploads.NewHandler(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
			if err != nil {
				return nil, err
			}
		}
		app.Router = server.NewRouter(server.RouterDeps{
			Config:             cfg,
			EvaluationsHandler: evaluations.NewHandler(svc),
			StudentsHandler:    students.NewHandler(app.Interpreter, app.Analyzer, app.Feedback),
			UploadsHandler:     uploadsHandler,
			Health:             app.Health,
			Limiter:            middleware.NewRateLimiter(nil),
		})
	}

	return app, nil
}

// Close releases connections held by the app.
func (a *App) Close() {
	if a == nil {
		return
	}
	if closer, ok := a.Queue.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			log.Printf("bootstrap: queue close: %v", err)
		}
	}
	if a.Cache != nil {
		_ = a.Cache.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}

func buildDB(ctx context.Context, cfg config.Config, opts db.Options) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if opts == (db.Options{}) {
		opts = db.DefaultServerOptions()
	}
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(opts))
	if err != nil {
		if cfg.IsDevLike() {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if cfg.IsDevLike() {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	case "memory":
		return memorystore.New(), nil
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	switch cfg.QueueBackend {
	case queue.BackendSQS:
		return queue.NewSQSClient(ctx, cfg.SQSQueueURL, cfg.AWSRegion)
	case queue.BackendAMQP:
		return queue.NewAMQPClient(cfg.RabbitMQURL, cfg.RabbitMQQueue)
	default:
		return nil, nil
	}
}

type dbPinger struct {
	db *sql.DB
}

func (p dbPinger) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}
