package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"restaurant-pos/pos/config"
	"restaurant-pos/pos/export"
	"restaurant-pos/pos/logging"
	"restaurant-pos/pos/terminal"
)

func main() {
	_ = godotenv.Load()

	logger, err := logging.New("pos-register")
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load(getEnv("POS_CONFIG", "pos.yaml"))
	if err != nil {
		logger.Fatal("Unable to load config", zap.Error(err))
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		logger.Fatal("Unable to load menu", zap.Error(err))
	}
	taxRate, err := cfg.TaxRate()
	if err != nil {
		logger.Fatal("Invalid tax rate", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	exporter, err := export.New(ctx, cfg.Export)
	if err != nil {
		logger.Fatal("Unable to create receipt exporter", zap.Error(err))
	}

	session := terminal.NewSession(uuid.NewString(), catalog, taxRate, exporter, logger)
	logger.Info("Register open", zap.String("sessionID", session.ID))

	fmt.Println("Restaurant register. Type help for commands.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		out, err := session.Handle(ctx, scanner.Text())
		if errors.Is(err, terminal.ErrQuit) {
			break
		}
		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		if out != "" {
			fmt.Println(out)
		}
		if ctx.Err() != nil {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Error("Reading input failed", zap.Error(err))
	}

	logger.Info("Register closed", zap.String("sessionID", session.ID))
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
