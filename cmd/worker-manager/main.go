// cmd/worker-manager/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"underwriting-workers/internal/common/aws"
	"underwriting-workers/internal/common/camunda"
	"underwriting-workers/internal/common/config"
	"underwriting-workers/internal/common/database"
	"underwriting-workers/internal/common/logger"
	"underwriting-workers/internal/common/observability"
	"underwriting-workers/internal/underwriting"
	"underwriting-workers/internal/underwriting/artifacts"
	"underwriting-workers/internal/underwriting/eligibility"
	"underwriting-workers/pkg/registry"

	ce "underwriting-workers/internal/workers/underwriting/check-eligibility"
	es "underwriting-workers/internal/workers/underwriting/evaluate-submission"
	nd "underwriting-workers/internal/workers/underwriting/notify-decision"
	rd "underwriting-workers/internal/workers/underwriting/record-decision"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	zapLog = zapLog.With(zap.String("service", cfg.App.Name), zap.String("environment", cfg.App.Environment))
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...", zap.String("version", cfg.App.Version))

	obs := observability.New("worker-manager", log)
	defer obs.Shutdown()

	ctx := context.Background()

	activities := registry.Underwriting(cfg.App.Version)
	for taskType := range cfg.Workers {
		if activities.Find(taskType) == nil {
			zapLog.Warn("configured worker has no registered activity", zap.String("taskType", taskType))
		}
	}

	// --- Model artifacts: nothing can be decided without them ---
	set, err := artifacts.Load(cfg.Artifacts, log)
	if err != nil {
		zapLog.Fatal("model artifacts failed to load", zap.Error(err))
	}
	decisionService, err := underwriting.NewDecisionService(set, log)
	if err != nil {
		zapLog.Fatal("decision service unavailable", zap.Error(err))
	}
	gate := eligibility.NewGate(cfg.Eligibility)

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClient(cfg.Camunda)
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	if err := pg.EnsureSchema(ctx); err != nil {
		zapLog.Fatal("postgres schema setup failed", zap.Error(err))
	}
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init SNS when notifications are on ---
	var publisher nd.Publisher
	if cfg.Integrations.AWS.SNS.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client failed", zap.Error(err))
		}
		publisher = snsClient
		zapLog.Info("SNS client initialized", zap.String("region", cfg.Integrations.AWS.Region))
	}

	// --- Register workers ---
	workers := camunda.NewWorkerSet(zeebe.GetClient(), log)

	evaluateHandler, err := es.NewHandler(es.LoadConfig(cfg), decisionService, gate, redis.GetClient(), obs, log)
	if err != nil {
		zapLog.Fatal("failed to create evaluate-submission handler", zap.Error(err))
	}
	workers.Start(es.TaskType, config.GetWorkerConfig(cfg, es.TaskType), evaluateHandler.Handle)

	eligibilityHandler, err := ce.NewHandler(ce.LoadConfig(cfg), gate, obs, log)
	if err != nil {
		zapLog.Fatal("failed to create check-eligibility handler", zap.Error(err))
	}
	workers.Start(ce.TaskType, config.GetWorkerConfig(cfg, ce.TaskType), eligibilityHandler.Handle)

	recordHandler := rd.NewHandler(rd.LoadConfig(cfg), pg.GetDB(), esClient, obs, log)
	workers.Start(rd.TaskType, config.GetWorkerConfig(cfg, rd.TaskType), recordHandler.Handle)

	notifyHandler, err := nd.NewHandler(nd.LoadConfig(cfg), publisher, obs, log)
	if err != nil {
		zapLog.Fatal("failed to create notify-decision handler", zap.Error(err))
	}
	workers.Start(nd.TaskType, config.GetWorkerConfig(cfg, nd.TaskType), notifyHandler.Handle)

	zapLog.Info("Workers registered",
		zap.Strings("running", workers.Running()),
		zap.String("modelVersion", set.Version()),
	)

	// --- Health / readiness / metrics ---
	http.HandleFunc("/health", healthHandler)
	http.Handle("/ready", readinessHandler(map[string]readinessCheck{
		"zeebe":    zeebe.HealthCheck,
		"postgres": pg.Ping,
		"redis":    redis.Ping,
	}, set.Version()))
	http.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: cfg.Server.Address}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	workers.Close()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}
