// cmd/visa-service/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"visa-predictor/internal/api"
	"visa-predictor/internal/classifier"
	"visa-predictor/internal/common/camunda"
	"visa-predictor/internal/common/config"
	"visa-predictor/internal/common/database"
	"visa-predictor/internal/common/errors"
	"visa-predictor/internal/common/logger"
	"visa-predictor/internal/common/observability"
	"visa-predictor/internal/visa"
	pva "visa-predictor/internal/workers/visa/predict-visa-approval"
	"visa-predictor/pkg/registry"
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
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("info", "console")
		boot.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service": cfg.App.Name,
		"version": cfg.App.Version,
	})

	zapLog.Info("Starting visa decision service...",
		zap.String("environment", cfg.App.Environment),
		zap.String("classifierMode", cfg.Classifier.Mode),
	)

	obs := observability.New(observability.Options{
		ServiceName: cfg.App.Name,
		Version:     cfg.App.Version,
		Tracing: observability.TracingOptions{
			Enabled:     cfg.Tracing.Enabled,
			Endpoint:    cfg.Tracing.Endpoint,
			SampleRatio: cfg.Tracing.SampleRatio,
		},
		Logger: log,
	})
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Prediction cache (optional) ---
	var redisClient *database.RedisClient
	if cfg.Classifier.Cache.Enabled {
		redisClient = database.NewRedis(cfg.Database.Redis)
		err = retryWithBackoff(func() error {
			return redisClient.Ping(ctx)
		}, 5, time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Warn("prediction cache disabled", zap.Error(err))
			_ = redisClient.Close()
			redisClient = nil
		} else {
			zapLog.Info("Redis connected successfully")
		}
	}

	// --- Classifier & engine ---
	clf, err := classifier.Build(cfg.Classifier, redisClient, log)
	if err != nil {
		zapLog.Fatal("classifier setup failed", zap.Error(err))
	}

	engine := visa.NewEngine(visa.EngineOptions{
		Classifier: clf,
		Logger:     log,
		Tracer:     obs.Tracer(),
		Recorder:   obs,
	})

	// --- Zeebe workers (optional) ---
	var zeebe *camunda.Client
	var workers []*camunda.CamundaWorker
	if cfg.Camunda.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			zeebe, err = camunda.NewClientWithConfig(ctx, &camunda.ClientConfig{
				GatewayAddress:         cfg.Camunda.BrokerAddress,
				UsePlaintextConnection: cfg.Camunda.Plaintext,
				ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
			})
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		zapLog.Info("Zeebe client connected successfully")

		handler, err := pva.NewHandler(pva.HandlerOptions{
			AppConfig: cfg,
			Engine:    engine,
			Logger:    log,
		})
		if err != nil {
			zapLog.Fatal("failed to create predict-visa-approval handler", zap.Error(err))
		}
		if handler.IsEnabled() {
			workers = append(workers, camunda.NewWorker(zeebe.GetClient(), pva.TaskType, handler.WorkerOptions(), handler.Handle, log))
		} else {
			zapLog.Info("worker disabled", zap.String("taskType", pva.TaskType))
		}
	}

	// --- HTTP server ---
	readiness := api.ReadinessGroup{clf}
	if zeebe != nil {
		readiness = append(readiness, zeebe)
	}
	srv, err := api.NewServer(api.Options{
		Config:      cfg.Server,
		Engine:      engine,
		Readiness:   readiness,
		Logger:      log,
		InputSchema: registeredInputSchema(cfg.Registry.Path, log),
	})
	if err != nil {
		zapLog.Fatal("http server setup failed", zap.Error(err))
	}
	go func() {
		if err := srv.Start(); err != nil {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping HTTP server", zap.Error(err))
	}
	for _, w := range workers {
		w.Stop()
	}
	if zeebe != nil {
		if err := zeebe.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}

	zapLog.Info("Visa decision service stopped gracefully")
}

// registeredInputSchema returns the input schema registered for the predict
// activity, or nil to use the built-in one. A broken registry is logged, not
// fatal.
func registeredInputSchema(path string, log logger.Logger) map[string]interface{} {
	if path == "" {
		return nil
	}

	reg, err := registry.LoadRegistry(path)
	if err != nil {
		stdErr := errors.NewRegistryLoadFailedError(path, err)
		log.Warn("Activity registry not loaded, using built-in schema", map[string]interface{}{
			"errorCode": string(stdErr.Code),
			"details":   stdErr.Details,
		})
		return nil
	}

	activity, ok := reg.FindByTaskType(pva.TaskType)
	if !ok || len(activity.InputSchema) == 0 {
		log.Info("No registered schema for activity, using built-in schema", map[string]interface{}{
			"taskType": pva.TaskType,
		})
		return nil
	}
	if !activity.Serving() {
		log.Warn("Registered activity is not marked as serving", map[string]interface{}{
			"taskType": pva.TaskType,
			"status":   activity.ImplementationStatus,
		})
	}
	if missing := activity.MissingErrorCodes(pva.ErrorCodes()...); len(missing) > 0 {
		log.Warn("Registered activity does not declare all error codes", map[string]interface{}{
			"taskType": pva.TaskType,
			"missing":  missing,
		})
	}
	log.Info("Using registered input schema", map[string]interface{}{
		"taskType": pva.TaskType,
		"version":  activity.Version,
	})
	return activity.InputSchema
}
