package workflows

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"restaurant-pos/pos/activities"
	"restaurant-pos/pos/calculator"
	"restaurant-pos/pos/menu"
	"restaurant-pos/pos/order"
	"restaurant-pos/pos/pricing"
	"restaurant-pos/pos/receipt"
	"restaurant-pos/pos/types"
)

// Signal and query names understood by OrderSessionWorkflow
const (
	SignalToggleSelection = "toggle-selection"
	SignalSetQuantity     = "set-quantity"
	SignalComputeTotal    = "compute-total"
	SignalGenerateReceipt = "generate-receipt"
	SignalExportReceipt   = "export-receipt"
	SignalResetOrder      = "reset-order"
	SignalCloseSession    = "close-session"

	QueryStatus   = "get-status"
	QueryTotals   = "get-totals"
	QueryReceipt  = "get-receipt"
	QueryEvaluate = "evaluate"

	StageOpen   = "open"
	StageClosed = "closed"

	ClosedBySignal      = "close-signal"
	ClosedByIdleTimeout = "idle-timeout"

	DefaultIdleTimeout = 30 * time.Minute

	// DefaultMaxSignalsPerRun bounds the history of one run. A session that
	// handles more signals continues as new with its order carried over.
	DefaultMaxSignalsPerRun = 1000
)

// SessionInput is the input to OrderSessionWorkflow
type SessionInput struct {
	SessionID   string
	Catalog     menu.Catalog
	TaxRate     decimal.Decimal
	IdleTimeout time.Duration

	MaxSignalsPerRun int
	Carry            *SessionCarry `json:",omitempty"`
}

// SessionCarry is the session state handed from one run to the next
type SessionCarry struct {
	Lines       map[types.CategoryKey][]types.OrderLine
	Totals      *types.OrderTotals
	Receipt     *types.Receipt
	ReceiptText string
	Exported    []string
	LastError   string
}

// SessionResult is the output of OrderSessionWorkflow
type SessionResult struct {
	SessionID   string
	Totals      *types.OrderTotals
	ReceiptText string
	Exported    []string
	ClosedBy    string
}

// OrderSessionWorkflow owns the order state of one register session.
// Temporal hands signals to the workflow one at a time, which serialises
// every edit to the session's order.
func OrderSessionWorkflow(ctx workflow.Context, input SessionInput) (*SessionResult, error) {
	logger := workflow.GetLogger(ctx)

	if err := input.Catalog.Validate(); err != nil {
		return nil, err
	}
	if err := pricing.ValidateTaxRate(input.TaxRate); err != nil {
		return nil, err
	}
	idleTimeout := input.IdleTimeout
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	maxSignals := input.MaxSignalsPerRun
	if maxSignals <= 0 {
		maxSignals = DefaultMaxSignalsPerRun
	}

	catalog := &input.Catalog
	state := order.NewState(catalog)
	status := types.SessionStatus{
		SessionID: input.SessionID,
		Stage:     StageOpen,
		IdleSince: workflow.Now(ctx),
	}
	var lastReceipt *types.Receipt
	if carry := input.Carry; carry != nil {
		if err := state.Restore(carry.Lines); err != nil {
			return nil, err
		}
		lastReceipt = carry.Receipt
		status.Totals = carry.Totals
		status.ReceiptText = carry.ReceiptText
		status.Exported = carry.Exported
		status.LastError = carry.LastError
	}

	retryPolicy := &temporal.RetryPolicy{
		InitialInterval:        1 * time.Second,
		BackoffCoefficient:     2.0,
		MaximumInterval:        30 * time.Second,
		MaximumAttempts:        5,
		NonRetryableErrorTypes: []string{"PermanentError", "ValidationError"},
	}
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy:         retryPolicy,
	})

	err := workflow.SetQueryHandler(ctx, QueryStatus, func() (types.SessionStatus, error) {
		s := status
		s.Lines = state.Snapshot()
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	err = workflow.SetQueryHandler(ctx, QueryTotals, func() (types.OrderTotals, error) {
		return pricing.ComputeTotals(catalog, state, input.TaxRate), nil
	})
	if err != nil {
		return nil, err
	}
	err = workflow.SetQueryHandler(ctx, QueryReceipt, func() (string, error) {
		return status.ReceiptText, nil
	})
	if err != nil {
		return nil, err
	}
	err = workflow.SetQueryHandler(ctx, QueryEvaluate, func(expression string) (string, error) {
		return calculator.Display(expression), nil
	})
	if err != nil {
		return nil, err
	}

	sigToggle := workflow.GetSignalChannel(ctx, SignalToggleSelection)
	sigQuantity := workflow.GetSignalChannel(ctx, SignalSetQuantity)
	sigCompute := workflow.GetSignalChannel(ctx, SignalComputeTotal)
	sigReceipt := workflow.GetSignalChannel(ctx, SignalGenerateReceipt)
	sigExport := workflow.GetSignalChannel(ctx, SignalExportReceipt)
	sigReset := workflow.GetSignalChannel(ctx, SignalResetOrder)
	sigClose := workflow.GetSignalChannel(ctx, SignalCloseSession)

	closedBy := ""
	handled := 0

	logger.Info("Order session started", "sessionID", input.SessionID, "taxRate", input.TaxRate.String(), "continued", input.Carry != nil)

	for closedBy == "" {
		selector := workflow.NewSelector(ctx)
		timerCtx, cancelTimer := workflow.WithCancel(ctx)
		idleTimer := workflow.NewTimer(timerCtx, idleTimeout)

		selector.AddReceive(sigToggle, func(ch workflow.ReceiveChannel, more bool) {
			var payload types.SelectionSignal
			ch.Receive(ctx, &payload)
			if err := state.ToggleSelection(payload.Category, payload.Index, payload.Selected); err != nil {
				status.LastError = err.Error()
				logger.Warn("Selection rejected", "error", err)
				return
			}
			logger.Debug("Selection changed", "category", payload.Category.String(), "index", payload.Index, "selected", payload.Selected)
		})

		selector.AddReceive(sigQuantity, func(ch workflow.ReceiveChannel, more bool) {
			var payload types.QuantitySignal
			ch.Receive(ctx, &payload)
			if err := state.SetQuantity(payload.Category, payload.Index, payload.Text); err != nil {
				status.LastError = err.Error()
				logger.Warn("Quantity rejected", "error", err)
				return
			}
			logger.Debug("Quantity changed", "category", payload.Category.String(), "index", payload.Index, "text", payload.Text)
		})

		selector.AddReceive(sigCompute, func(ch workflow.ReceiveChannel, more bool) {
			ch.Receive(ctx, nil)
			totals := pricing.ComputeTotals(catalog, state, input.TaxRate)
			status.Totals = &totals
			logger.Info("Totals computed", "total", pricing.FormatMoney(totals.Total))
		})

		selector.AddReceive(sigReceipt, func(ch workflow.ReceiveChannel, more bool) {
			ch.Receive(ctx, nil)
			r, err := generateReceipt(ctx, catalog, state, input.TaxRate)
			if err != nil {
				status.LastError = err.Error()
				logger.Error("Receipt generation failed", "error", err)
				return
			}
			lastReceipt = &r
			status.Totals = &r.Totals
			status.ReceiptText = receipt.Format(r)
			logger.Info("Receipt generated", "number", r.Number, "lines", len(r.Lines))
		})

		selector.AddReceive(sigExport, func(ch workflow.ReceiveChannel, more bool) {
			var payload types.ExportSignal
			ch.Receive(ctx, &payload)

			req := activities.ExportRequest{
				SessionID:   input.SessionID,
				Destination: payload.Destination,
				Text:        status.ReceiptText,
			}
			if lastReceipt != nil {
				req.Number = lastReceipt.Number
				if req.Destination == "" {
					req.Destination = receipt.FileName(lastReceipt.Number)
				}
			}

			var result activities.ExportResult
			err := workflow.ExecuteActivity(ctx, "ExportReceipt", req).Get(ctx, &result)
			if err != nil {
				status.LastError = fmt.Sprintf("export failed: %v", err)
				logger.Warn("Receipt export failed", "error", err)
				return
			}
			status.Exported = append(status.Exported, result.Location)
			status.LastError = ""
		})

		selector.AddReceive(sigReset, func(ch workflow.ReceiveChannel, more bool) {
			ch.Receive(ctx, nil)
			state.Reset()
			lastReceipt = nil
			status.Totals = nil
			status.ReceiptText = ""
			status.LastError = ""
			logger.Info("Order reset", "sessionID", input.SessionID)
		})

		selector.AddReceive(sigClose, func(ch workflow.ReceiveChannel, more bool) {
			ch.Receive(ctx, nil)
			closedBy = ClosedBySignal
		})

		selector.AddFuture(idleTimer, func(f workflow.Future) {
			if err := f.Get(ctx, nil); err == nil {
				closedBy = ClosedByIdleTimeout
				logger.Warn("Order session idle, closing", "sessionID", input.SessionID, "idleTimeout", idleTimeout)
			}
		})

		selector.Select(ctx)
		cancelTimer()
		status.IdleSince = workflow.Now(ctx)
		handled++

		// Buffered signals would be lost across the run boundary, so only
		// continue once every channel is drained.
		if closedBy == "" && handled >= maxSignals && !pendingSignals(sigToggle, sigQuantity, sigCompute, sigReceipt, sigExport, sigReset, sigClose) {
			next := input
			next.Carry = &SessionCarry{
				Lines:       state.Snapshot(),
				Totals:      status.Totals,
				Receipt:     lastReceipt,
				ReceiptText: status.ReceiptText,
				Exported:    status.Exported,
				LastError:   status.LastError,
			}
			logger.Info("Order session continuing as new", "sessionID", input.SessionID, "handled", handled)
			return nil, workflow.NewContinueAsNewError(ctx, OrderSessionWorkflow, next)
		}
	}

	status.Stage = StageClosed
	logger.Info("Order session closed", "sessionID", input.SessionID, "closedBy", closedBy)

	return &SessionResult{
		SessionID:   input.SessionID,
		Totals:      status.Totals,
		ReceiptText: status.ReceiptText,
		Exported:    status.Exported,
		ClosedBy:    closedBy,
	}, nil
}

func pendingSignals(channels ...workflow.ReceiveChannel) bool {
	for _, ch := range channels {
		if ch.Len() > 0 {
			return true
		}
	}
	return false
}

// generateReceipt draws the receipt number inside a side effect so replays
// see the same number.
func generateReceipt(ctx workflow.Context, c *menu.Catalog, state *order.State, taxRate decimal.Decimal) (types.Receipt, error) {
	var number int
	encoded := workflow.SideEffect(ctx, func(ctx workflow.Context) interface{} {
		return receipt.NewNumber(rand.New(rand.NewSource(time.Now().UnixNano())))
	})
	if err := encoded.Get(&number); err != nil {
		return types.Receipt{}, err
	}

	totals := pricing.ComputeTotals(c, state, taxRate)
	return receipt.Build(c, state, totals, taxRate, number, workflow.Now(ctx)), nil
}
