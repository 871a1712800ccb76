package activities

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.temporal.io/sdk/activity"

	"restaurant-pos/pos/export"
	"restaurant-pos/pos/receipt"
	"restaurant-pos/pos/types"
)

// ExportRequest carries a rendered receipt to its destination
type ExportRequest struct {
	SessionID   string
	Number      int
	Destination string
	Text        string
}

// ExportResult reports where the receipt was written
type ExportResult struct {
	Location string
}

// ReceiptActivities contains receipt-related activities
type ReceiptActivities struct {
	Exporter export.Exporter
}

// ExportReceipt writes a receipt through the configured exporter. The
// destination comes from a signal, so it must be a local name that stays
// inside the exporter's directory.
func (a *ReceiptActivities) ExportReceipt(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Exporting receipt", "sessionID", req.SessionID, "number", req.Number, "destination", req.Destination)

	if strings.TrimSpace(req.Text) == "" {
		logger.Warn("Receipt is empty", "sessionID", req.SessionID)
		return nil, &types.ValidationError{Msg: "receipt is empty"}
	}
	destination := req.Destination
	if destination == "" {
		destination = receipt.FileName(req.Number)
	}
	if !filepath.IsLocal(destination) {
		logger.Warn("Receipt destination rejected", "sessionID", req.SessionID, "destination", req.Destination)
		return nil, &types.ValidationError{Msg: fmt.Sprintf("destination %q must be a relative path inside the export directory", req.Destination)}
	}
	if a.Exporter == nil {
		return nil, &types.PermanentError{Msg: "no receipt exporter configured"}
	}

	location, err := a.Exporter.Export(ctx, destination, []byte(req.Text))
	if err != nil {
		// Transient: the retry policy decides how often to try again
		logger.Warn("Receipt export failed", "sessionID", req.SessionID, "error", err)
		return nil, err
	}

	logger.Info("Receipt exported", "sessionID", req.SessionID, "location", location)
	return &ExportResult{Location: location}, nil
}
