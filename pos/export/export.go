package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"restaurant-pos/pos/config"
)

// Exporter writes a rendered receipt to its destination and returns where it went
type Exporter interface {
	Export(ctx context.Context, name string, body []byte) (string, error)
}

// New builds the exporter selected by cfg.Kind
func New(ctx context.Context, cfg config.Export) (Exporter, error) {
	switch cfg.Kind {
	case "", "file":
		return &FileExporter{Dir: cfg.Dir}, nil
	case "s3":
		return NewS3Exporter(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown export kind %q", cfg.Kind)
	}
}

// FileExporter saves receipts on the local filesystem. An absolute name is
// used as given; a relative name is placed under Dir.
type FileExporter struct {
	Dir string
}

func (e *FileExporter) Export(ctx context.Context, name string, body []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := name
	if !filepath.IsAbs(name) && e.Dir != "" {
		path = filepath.Join(e.Dir, name)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create receipt dir: %w", err)
		}
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("write receipt: %w", err)
	}
	return path, nil
}
