package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"

	"restaurant-pos/pos/config"
	"restaurant-pos/pos/logging"
	"restaurant-pos/pos/menu"
	"restaurant-pos/pos/pricing"
	"restaurant-pos/pos/types"
	"restaurant-pos/pos/workflows"
)

// orderItem is one entry of ORDER_ITEMS
type orderItem struct {
	Category types.CategoryKey
	Index    int
	Quantity string
}

func main() {
	_ = godotenv.Load()

	logger, err := logging.New("pos-starter")
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

	items, err := parseItems(catalog, getEnv("ORDER_ITEMS", "food:Ramen=3,drinks:Water=2"))
	if err != nil {
		logger.Fatal("Invalid ORDER_ITEMS", zap.Error(err))
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

	sessionID := getEnv("SESSION_ID", uuid.NewString())
	workflowID := "pos-session-" + sessionID

	ctx := context.Background()
	we, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: cfg.Temporal.TaskQueue,
	}, workflows.OrderSessionWorkflow, workflows.SessionInput{
		SessionID:   sessionID,
		Catalog:     *catalog,
		TaxRate:     taxRate,
		IdleTimeout: cfg.Session.IdleTimeout,

		MaxSignalsPerRun: cfg.Session.MaxSignalsPerRun,
	})
	if err != nil {
		logger.Fatal("Unable to start workflow", zap.Error(err))
	}
	logger.Info("Started session", zap.String("workflowID", we.GetID()), zap.String("runID", we.GetRunID()))

	signal := func(name string, arg interface{}) {
		if err := c.SignalWorkflow(ctx, workflowID, "", name, arg); err != nil {
			logger.Fatal("Failed to send signal", zap.String("signal", name), zap.Error(err))
		}
	}

	for _, item := range items {
		signal(workflows.SignalToggleSelection, types.SelectionSignal{Category: item.Category, Index: item.Index, Selected: true})
		signal(workflows.SignalSetQuantity, types.QuantitySignal{Category: item.Category, Index: item.Index, Text: item.Quantity})
	}
	signal(workflows.SignalComputeTotal, nil)
	signal(workflows.SignalGenerateReceipt, nil)
	if getEnv("EXPORT_RECEIPT", "false") == "true" {
		signal(workflows.SignalExportReceipt, types.ExportSignal{Destination: os.Getenv("EXPORT_DESTINATION")})
	}

	if getEnv("ASYNC", "false") == "true" {
		fmt.Printf("Session %s left open. Interact with it using:\n", workflowID)
		fmt.Printf("  tctl workflow query -w %s -qt %s\n", workflowID, workflows.QueryStatus)
		fmt.Printf("  tctl workflow query -w %s -qt %s -i '\"3x4\"'\n", workflowID, workflows.QueryEvaluate)
		fmt.Printf("  tctl workflow signal -w %s -n %s\n", workflowID, workflows.SignalCloseSession)
		return
	}

	signal(workflows.SignalCloseSession, nil)

	var result workflows.SessionResult
	if err := we.Get(ctx, &result); err != nil {
		logger.Fatal("Workflow execution failed", zap.Error(err))
	}

	fmt.Println(result.ReceiptText)
	if result.Totals != nil {
		logger.Info("Session closed",
			zap.String("total", pricing.FormatMoney(result.Totals.Total)),
			zap.Strings("exported", result.Exported),
		)
	}
}

// parseItems reads "category:Name=qty" entries separated by commas. The
// category prefix is optional; items are looked up by name.
func parseItems(c *menu.Catalog, list string) ([]orderItem, error) {
	var items []orderItem
	for _, entry := range strings.Split(list, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		name, qty, ok := strings.Cut(entry, "=")
		if !ok {
			qty = "1"
		}

		var want *types.CategoryKey
		if prefix, rest, found := strings.Cut(name, ":"); found {
			key, err := types.ParseCategoryKey(prefix)
			if err != nil {
				return nil, err
			}
			want = &key
			name = rest
		}

		key, index, found := c.Find(strings.TrimSpace(name))
		if !found {
			return nil, fmt.Errorf("no menu item named %q", name)
		}
		if want != nil && *want != key {
			return nil, fmt.Errorf("%q is not in category %s", name, *want)
		}
		items = append(items, orderItem{Category: key, Index: index, Quantity: strings.TrimSpace(qty)})
	}
	return items, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
