// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"college-advisor/internal/admission"
	"college-advisor/internal/common/camunda"
	"college-advisor/internal/common/config"
	"college-advisor/internal/common/database"
	"college-advisor/internal/common/logger"
	"college-advisor/internal/common/observability"
	"college-advisor/internal/datasets"
	"college-advisor/pkg/registry"

	cq "college-advisor/internal/workers/admission/classify-query"
	fs "college-advisor/internal/workers/admission/filter-seats"
	nq "college-advisor/internal/workers/admission/normalize-query"
	pr "college-advisor/internal/workers/admission/predict-rank"
)

const registryPath = "configs/activity-registry.json"

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// connectWithRetry opens and pings a dependency until it answers. A client whose ping failed is
// closed before the next attempt.
func connectWithRetry[C io.Closer](open func() (C, error), ping func(C) error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) (C, error) {
	var conn C
	err := retryWithBackoff(func() error {
		c, err := open()
		if err != nil {
			return err
		}
		if err := ping(c); err != nil {
			_ = c.Close()
			return err
		}
		conn = c
		return nil
	}, maxRetries, initialDelay, log, operationName)
	return conn, err
}

func fatal(log logger.Logger, msg string, err error) {
	log.WithError(err).Error(msg, nil)
	os.Exit(1)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewStructured("info", "console").Error("config load failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	log.Info("Starting worker manager...", map[string]interface{}{
		"app":         cfg.App.Name,
		"environment": cfg.App.Environment,
		"seatSource":  cfg.Datasets.SeatSource,
	})

	obs := observability.New("worker-manager", log)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- PostgreSQL, only when seat tables live there ---
	var pg *database.PostgresClient
	if cfg.Datasets.SeatSource == config.SeatSourcePostgres {
		pg, err = connectWithRetry(
			func() (*database.PostgresClient, error) { return database.NewPostgres(cfg.Database.Postgres) },
			func(c *database.PostgresClient) error { return c.Ping(ctx) },
			15, 2*time.Second, log, "PostgreSQL connection")
		if err != nil {
			fatal(log, "postgres failed after retries", err)
		}
		defer pg.Close()
		log.Info("PostgreSQL connected successfully", nil)
	}

	// --- Reference tables ---
	var tables *datasets.Tables
	if pg != nil {
		tables, err = datasets.Load(ctx, cfg.Datasets, pg.DB, log)
	} else {
		tables, err = datasets.Load(ctx, cfg.Datasets, nil, log)
	}
	if err != nil {
		fatal(log, "dataset load failed", err)
	}

	advisor := admission.NewAdvisor(tables, log)

	// --- Redis result cache ---
	var seatCache *redis.Client
	if cfg.Cache.Enabled {
		rc, err := connectWithRetry(
			func() (*database.RedisClient, error) { return database.NewRedis(cfg.Database.Redis) },
			func(c *database.RedisClient) error { return c.Ping(ctx) },
			10, 2*time.Second, log, "Redis connection")
		if err != nil {
			fatal(log, "redis failed after retries", err)
		}
		defer rc.Close()
		seatCache = rc.Client
		log.Info("Redis connected successfully", nil)
	}

	// --- Zeebe client with retry ---
	var client *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		client, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, log, "Zeebe client initialization")
	if err != nil {
		fatal(log, "zeebe client failed after retries", err)
	}
	logTopology(ctx, client, log)

	checkRegistry(log)

	// --- Workers ---
	workers := camunda.NewWorkers(client.GetClient(), obs, log)

	normalizeCfg := config.GetWorkerConfig(cfg, nq.TaskType)
	workers.Start(nq.TaskType, normalizeCfg, nq.NewHandler(
		&nq.Config{Timeout: config.GetDuration(normalizeCfg.Timeout)},
		advisor.Normalizer(), log,
	))

	predictCfg := config.GetWorkerConfig(cfg, pr.TaskType)
	workers.Start(pr.TaskType, predictCfg, pr.NewHandler(
		&pr.Config{Timeout: config.GetDuration(predictCfg.Timeout)},
		advisor.Predictor(), log,
	))

	classifyCfg := config.GetWorkerConfig(cfg, cq.TaskType)
	workers.Start(cq.TaskType, classifyCfg, cq.NewHandler(
		&cq.Config{Timeout: config.GetDuration(classifyCfg.Timeout)},
		log,
	))

	filterCfg := config.GetWorkerConfig(cfg, fs.TaskType)
	workers.Start(fs.TaskType, filterCfg, fs.NewHandler(
		&fs.Config{
			Timeout:  config.GetDuration(filterCfg.Timeout),
			CacheTTL: cfg.Cache.TTL(),
		},
		advisor, seatCache, log,
	))

	log.Info("Workers registered", map[string]interface{}{"running": workers.Running()})

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			writeStatus(w, http.StatusOK, map[string]interface{}{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			if err := client.HealthCheck(r.Context()); err != nil {
				writeStatus(w, http.StatusServiceUnavailable, map[string]interface{}{
					"status": "unavailable",
					"error":  err.Error(),
				})
				return
			}
			writeStatus(w, http.StatusOK, map[string]interface{}{
				"status":   "ready",
				"workers":  workers.Running(),
				"datasets": tables.Stats(),
				"time":     time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		log.Info("Health/Metrics server listening", map[string]interface{}{"address": cfg.Metrics.Address})
		if err := http.ListenAndServe(cfg.Metrics.Address, nil); err != nil {
			log.Error("Health/Metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("Shutdown signal received, stopping workers...", nil)
	workers.Close()

	if err := client.Close(); err != nil {
		log.Error("Error closing Zeebe client", map[string]interface{}{"error": err.Error()})
	}

	log.Info("Worker manager stopped gracefully", nil)
}

func writeStatus(w http.ResponseWriter, code int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func logTopology(ctx context.Context, client *camunda.Client, log logger.Logger) {
	res, err := client.ExecuteWithRetry(ctx, func(ctx context.Context) (interface{}, error) {
		return client.GetClient().NewTopologyCommand().Send(ctx)
	}, "topology")
	if err != nil {
		log.Warn("failed to read broker topology", map[string]interface{}{"error": err.Error()})
		return
	}
	topology, ok := res.(*pb.TopologyResponse)
	if !ok {
		return
	}
	log.Info("Zeebe client connected successfully", map[string]interface{}{
		"brokers":    len(topology.Brokers),
		"partitions": topology.PartitionsCount,
		"gateway":    topology.GatewayVersion,
	})
}

// checkRegistry warns about started task types the activity registry does not describe.
func checkRegistry(log logger.Logger) {
	reg, err := registry.Load(registryPath)
	if err != nil {
		log.Warn("activity registry unavailable", map[string]interface{}{
			"path":  registryPath,
			"error": err.Error(),
		})
		return
	}
	for _, taskType := range []string{nq.TaskType, pr.TaskType, cq.TaskType, fs.TaskType} {
		if _, ok := reg.Find(taskType); !ok {
			log.Warn("task type missing from activity registry", map[string]interface{}{"taskType": taskType})
		}
	}
}
