// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"tour-workers/internal/common/camunda"
	"tour-workers/internal/common/config"
	"tour-workers/internal/common/database"
	"tour-workers/internal/common/logger"
	"tour-workers/internal/common/observability"
	"tour-workers/internal/models"

	// Tour Search Workers (4)
	cpd "tour-workers/internal/workers/tours/check-price-drops"
	psc "tour-workers/internal/workers/tours/parse-search-criteria"
	rtr "tour-workers/internal/workers/tours/rank-tour-results"
	vob "tour-workers/internal/workers/tours/validate-offer-batch"

	// Data Access Workers (2)
	qhi "tour-workers/internal/workers/data-access/query-hotel-index"
	qp "tour-workers/internal/workers/data-access/query-postgresql"

	// Notification Workers (1)
	spa "tour-workers/internal/workers/notifications/send-price-alert"

	// Infrastructure Workers (1)
	brp "tour-workers/internal/workers/infrastructure/build-result-payload"
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
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zeebeClient := camundaClient.GetClient()
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		// Test the connection with context
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		// Test the connection
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	if exists, err := esClient.IndexExists(ctx, cfg.Database.Elasticsearch.HotelIndex); err != nil {
		zapLog.Warn("hotel index check failed", zap.Error(err))
	} else if !exists {
		zapLog.Warn("hotel index missing, query-hotel-index jobs will fail until it is created",
			zap.String("index", cfg.Database.Elasticsearch.HotelIndex))
	}

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		// Test the connection with context
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- START: Register ALL 8 Workers ---

	// --- 1. Tour Search Workers (4) ---
	if cfg.Workers[psc.TaskType].Enabled {
		handler := psc.NewHandler(
			&psc.Config{
				Timeout:       config.GetDuration(cfg.Workers[psc.TaskType].Timeout),
				DefaultAdults: 2,
			},
			log,
		)
		startWorker(zeebeClient, psc.TaskType, cfg.Workers[psc.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[vob.TaskType].Enabled {
		handler := vob.NewHandler(
			&vob.Config{
				Timeout:      config.GetDuration(cfg.Workers[vob.TaskType].Timeout),
				MaxBatchSize: 5000,
			},
			log,
		)
		startWorker(zeebeClient, vob.TaskType, cfg.Workers[vob.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[rtr.TaskType].Enabled {
		handler := rtr.NewHandler(
			&rtr.Config{
				MaxCards:       cfg.Scoring.MaxCards,
				Timeout:        config.GetDuration(cfg.Workers[rtr.TaskType].Timeout),
				DefaultWeights: models.PriorityWeights(cfg.Scoring.DefaultWeights),
			},
			obs, log,
		)
		startWorker(zeebeClient, rtr.TaskType, cfg.Workers[rtr.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[cpd.TaskType].Enabled {
		handler := cpd.NewHandler(
			&cpd.Config{
				Timeout:        config.GetDuration(cfg.Workers[cpd.TaskType].Timeout),
				MinDropPercent: cfg.Notifications.SMS.MinDropPercent,
				SnapshotTTL:    30 * 24 * time.Hour,
			},
			redis.Client, log,
		)
		startWorker(zeebeClient, cpd.TaskType, cfg.Workers[cpd.TaskType], handler.Handle, zapLog)
	}

	// --- 2. Data Access Workers (2) ---
	if cfg.Workers[qp.TaskType].Enabled {
		handler := qp.NewHandler(
			&qp.Config{
				Timeout: config.GetDuration(cfg.Workers[qp.TaskType].Timeout),
				MaxRows: 200,
			},
			pg.DB, log,
		)
		startWorker(zeebeClient, qp.TaskType, cfg.Workers[qp.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[qhi.TaskType].Enabled {
		handler := qhi.NewHandler(
			&qhi.Config{
				Timeout:      config.GetDuration(cfg.Workers[qhi.TaskType].Timeout),
				DefaultIndex: cfg.Database.Elasticsearch.HotelIndex,
			},
			esClient.Client, log,
		)
		startWorker(zeebeClient, qhi.TaskType, cfg.Workers[qhi.TaskType], handler.Handle, zapLog)
	}

	// --- 3. Notification Workers (1) ---
	if cfg.Workers[spa.TaskType].Enabled {
		handler, err := spa.NewHandler(
			&spa.Config{
				EmailEnabled: cfg.Notifications.Email.Enabled,
				SMSEnabled:   cfg.Notifications.SMS.Enabled,
				FromEmail:    cfg.Notifications.Email.FromEmail,
				AWSRegion:    cfg.Notifications.AWS.Region,
				SenderID:     cfg.Notifications.SMS.DefaultSenderID,
				Timeout:      config.GetDuration(cfg.Workers[spa.TaskType].Timeout),
			},
			pg.DB, log,
		)
		if err != nil {
			zapLog.Fatal("failed to create send-price-alert handler", zap.Error(err))
		}
		startWorker(zeebeClient, spa.TaskType, cfg.Workers[spa.TaskType], handler.Handle, zapLog)
	}

	// --- 4. Infrastructure Workers (1) ---
	if cfg.Workers[brp.TaskType].Enabled {
		handler := brp.NewHandler(
			&brp.Config{
				Timeout:      config.GetDuration(cfg.Workers[brp.TaskType].Timeout),
				RegistryPath: cfg.Registry.SchemaPath,
				AppVersion:   cfg.App.Version,
				CacheTTL:     5 * time.Minute,
			},
			log,
		)
		startWorker(zeebeClient, brp.TaskType, cfg.Workers[brp.TaskType], handler.Handle, zapLog)
	}

	zapLog.Info("All 8 workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := camundaClient.HealthCheck(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "unavailable",
					"error":  err.Error(),
					"time":   time.Now().Format(time.RFC3339),
				})
				return
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
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

	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}
	obs.Shutdown(shutdownCtx)

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(handlerFunc).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
