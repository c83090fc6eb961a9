// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	awsx "career-workers/internal/common/aws"
	"career-workers/internal/common/camunda"
	"career-workers/internal/common/config"
	"career-workers/internal/common/database"
	"career-workers/internal/common/logger"
	"career-workers/internal/common/observability"
	"career-workers/internal/common/validation"
	"career-workers/internal/knowledgebase"
	"career-workers/internal/scoring"
	"career-workers/internal/store"
	"career-workers/pkg/registry"

	// Career Workers (3)
	cs "career-workers/internal/workers/career/compute-score"
	ej "career-workers/internal/workers/career/evaluate-journey"
	rr "career-workers/internal/workers/career/recommend-roles"

	// Knowledge Base Workers (2)
	rkb "career-workers/internal/workers/knowledge-base/refresh-kb"
	sr "career-workers/internal/workers/knowledge-base/search-roles"

	// Communication Workers (1)
	ssn "career-workers/internal/workers/communication/send-score-notification"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("info", "console")
		boot.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.ForService(
		logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output),
		cfg.Observability.ServiceName, cfg.App.Version, cfg.App.Environment,
	)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)
	zapLog.Info("Starting worker manager...")

	obs, err := observability.New(observability.Options{
		ServiceName:    cfg.Observability.ServiceName,
		Version:        cfg.App.Version,
		Environment:    cfg.App.Environment,
		TracingEnabled: cfg.Observability.TracingEnabled,
		SampleRatio:    cfg.Observability.SampleRatio,
	})
	if err != nil {
		zapLog.Warn("observability partially initialised", zap.Error(err))
	}

	ctx := context.Background()

	// --- Init Zeebe Client ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(camunda.ConfigFrom(cfg.Camunda))
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL ---
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres config invalid", zap.Error(err))
	}
	if err := database.WaitReady(ctx, pg, 15, 2*time.Second, 30*time.Second); err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis ---
	rdb, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		zapLog.Fatal("redis config invalid", zap.Error(err))
	}
	if err := database.WaitReady(ctx, rdb, 10, 2*time.Second, 30*time.Second); err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Knowledge Base ---
	provider, err := knowledgebase.NewCachedProvider(knowledgebase.ProviderConfig{
		Paths:    cfg.KnowledgeBase.Paths(),
		RedisKey: cfg.KnowledgeBase.RedisKey,
		CacheTTL: cfg.KnowledgeBase.CacheDuration(),
		Persist:  cfg.KnowledgeBase.Persist,
	}, rdb.Client, log)
	if err != nil {
		zapLog.Fatal("knowledge base provider init failed", zap.Error(err))
	}

	// Interfaces stay nil when search is off so the workers see no index at all.
	var (
		indexer  rkb.Indexer
		searcher sr.Searcher
	)
	if cfg.KnowledgeBase.SearchEnabled {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			zapLog.Fatal("elasticsearch config invalid", zap.Error(err))
		}
		if err := database.WaitReady(ctx, es, 15, 2*time.Second, 30*time.Second); err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		index := knowledgebase.NewIndex(es.Client, cfg.KnowledgeBase.IndexName, log)
		if err := index.EnsureIndex(ctx); err != nil {
			zapLog.Warn("knowledge base index unavailable", zap.Error(err))
		}
		indexer, searcher = index, index
		zapLog.Info("Elasticsearch connected successfully", zap.String("index", index.Name()))
	}

	// --- Shared Services ---
	st := store.New(pg.DB, log)
	engine := scoring.NewEngine(st, provider, log)

	reg, err := registry.LoadRegistry(cfg.KnowledgeBase.RegistryPath)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.Error(err))
	}
	validator, err := validation.NewValidator(reg)
	if err != nil {
		zapLog.Fatal("activity registry schemas invalid", zap.Error(err))
	}

	var (
		emailSender ssn.EmailSender
		smsSender   ssn.SMSSender
	)
	notify := cfg.Notifications
	if notify.Email.Enabled || notify.SMS.Enabled {
		awsCfg, err := awsx.LoadConfig(ctx, notify.AWS.Region)
		if err != nil {
			zapLog.Fatal("aws config load failed", zap.Error(err))
		}
		if notify.Email.Enabled {
			emailSender = awsx.NewSESClient(awsCfg)
		}
		if notify.SMS.Enabled {
			smsSender = awsx.NewSNSClient(awsCfg, notify.SMS.SenderID)
		}
	}

	zapLog.Info("All service clients initialized")

	// --- Register Workers ---
	client := zeebe.GetClient()
	var workers []*camunda.CamundaWorker
	start := func(taskType string, h camunda.JobHandler) {
		wcfg := cfg.Workers[taskType]
		if !wcfg.Enabled {
			zapLog.Info("worker disabled", zap.String("taskType", taskType))
			return
		}
		workers = append(workers, camunda.NewWorker(client, taskType, wcfg, h, obs, log))
	}

	start(cs.TaskType, cs.NewHandler(cs.LoadConfig(cfg), engine, st, validator, log))
	start(rr.TaskType, rr.NewHandler(rr.LoadConfig(cfg), engine, st, validator, log))
	start(ej.TaskType, ej.NewHandler(ej.LoadConfig(cfg), st, validator, log))
	start(rkb.TaskType, rkb.NewHandler(rkb.LoadConfig(cfg), provider, indexer, validator, log))
	start(sr.TaskType, sr.NewHandler(sr.LoadConfig(cfg), provider, searcher, validator, log))
	start(ssn.TaskType, ssn.NewHandler(ssn.LoadConfig(cfg), st, emailSender, smsSender, validator, log))

	zapLog.Info("Workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := readiness(checkCtx, zeebe, pg, rdb); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.HTTPPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping HTTP server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}
	if obs != nil {
		if err := obs.Shutdown(shutdownCtx); err != nil {
			zapLog.Error("Error flushing telemetry", zap.Error(err))
		}
	}

	zapLog.Info("Worker manager stopped")
}

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

func readiness(ctx context.Context, zeebe *camunda.Client, deps ...database.Dependency) error {
	if err := zeebe.HealthCheck(ctx); err != nil {
		return fmt.Errorf("zeebe: %w", err)
	}
	return database.CheckAll(ctx, deps...)
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}
