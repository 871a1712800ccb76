package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"

	"restaurant-pos/pos/activities"
	"restaurant-pos/pos/config"
	"restaurant-pos/pos/export"
	"restaurant-pos/pos/logging"
	"restaurant-pos/pos/workflows"
)

func main() {
	_ = godotenv.Load()

	logger, err := logging.New("pos-worker")
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load(getEnv("POS_CONFIG", "pos.yaml"))
	if err != nil {
		logger.Fatal("Unable to load config", zap.Error(err))
	}

	// Create Temporal client
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    logging.NewTemporalLogger(logger),
	})
	if err != nil {
		logger.Fatal("Unable to create Temporal client", zap.Error(err))
	}
	defer c.Close()

	exporter, err := export.New(context.Background(), cfg.Export)
	if err != nil {
		logger.Fatal("Unable to create receipt exporter", zap.Error(err))
	}

	identity := "pos-worker-" + hostname()
	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{
		Identity:                               identity,
		MaxConcurrentActivityExecutionSize:     100,
		MaxConcurrentWorkflowTaskExecutionSize: 50,
	})

	w.RegisterWorkflow(workflows.OrderSessionWorkflow)

	receiptActivities := &activities.ReceiptActivities{Exporter: exporter}
	w.RegisterActivity(receiptActivities.ExportReceipt)

	logger.Info("Worker starting",
		zap.String("taskQueue", cfg.Temporal.TaskQueue),
		zap.String("identity", identity),
		zap.String("exportKind", cfg.Export.Kind),
	)

	err = w.Run(worker.InterruptCh())
	if err != nil {
		logger.Fatal("Unable to start worker", zap.Error(err))
	}
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
