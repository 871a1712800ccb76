package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"restaurant-pos/pos/menu"
	"restaurant-pos/pos/pricing"
	"restaurant-pos/pos/types"
)

type Config struct {
	Temporal Temporal `yaml:"temporal"`
	Pricing  Pricing  `yaml:"pricing"`
	Menu     Menu     `yaml:"menu"`
	Session  Session  `yaml:"session"`
	Export   Export   `yaml:"export"`
}

type Temporal struct {
	HostPort  string `yaml:"host_port"`
	Namespace string `yaml:"namespace"`
	TaskQueue string `yaml:"task_queue"`
}

type Pricing struct {
	TaxRate string `yaml:"tax_rate"`
}

type Menu struct {
	// Path to a YAML menu; empty means the built-in menu
	Path string `yaml:"path"`
}

type Session struct {
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	// Signals one workflow run handles before continuing as new; 0 uses the workflow default
	MaxSignalsPerRun int `yaml:"max_signals_per_run"`
}

type Export struct {
	Kind string `yaml:"kind"` // "file" or "s3"
	Dir  string `yaml:"dir"`
	S3   S3     `yaml:"s3"`
}

type S3 struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Prefix    string `yaml:"prefix"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Temporal: Temporal{
			HostPort:  "localhost:7233",
			Namespace: "default",
			TaskQueue: "pos-task-queue",
		},
		Pricing: Pricing{TaxRate: pricing.DefaultTaxRate.String()},
		Session: Session{IdleTimeout: 30 * time.Minute},
		Export:  Export{Kind: "file", Dir: "."},
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, &types.ValidationError{Msg: fmt.Sprintf("decode config %s: %v", path, err)}
			}
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Temporal.HostPort = getEnv("TEMPORAL_HOST", c.Temporal.HostPort)
	c.Temporal.Namespace = getEnv("TEMPORAL_NAMESPACE", c.Temporal.Namespace)
	c.Temporal.TaskQueue = getEnv("ORDER_TASK_QUEUE", c.Temporal.TaskQueue)
	c.Pricing.TaxRate = getEnv("POS_TAX_RATE", c.Pricing.TaxRate)
	c.Menu.Path = getEnv("POS_MENU_PATH", c.Menu.Path)
	if v := os.Getenv("POS_IDLE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Session.IdleTimeout = d
		}
	}
	c.Export.Kind = getEnv("POS_EXPORT_KIND", c.Export.Kind)
	c.Export.Dir = getEnv("POS_EXPORT_DIR", c.Export.Dir)
	c.Export.S3.Endpoint = getEnv("R2_ENDPOINT", c.Export.S3.Endpoint)
	c.Export.S3.Bucket = getEnv("R2_BUCKET_NAME", c.Export.S3.Bucket)
	c.Export.S3.AccessKey = getEnv("R2_ACCESS_KEY", c.Export.S3.AccessKey)
	c.Export.S3.SecretKey = getEnv("R2_SECRET_KEY", c.Export.S3.SecretKey)
}

// Validate checks the values that the pricing engine and exporters rely on
func (c *Config) Validate() error {
	rate, err := c.TaxRate()
	if err != nil {
		return err
	}
	if err := pricing.ValidateTaxRate(rate); err != nil {
		return err
	}
	if c.Session.IdleTimeout <= 0 {
		return &types.ValidationError{Msg: fmt.Sprintf("idle timeout must be positive: %s", c.Session.IdleTimeout)}
	}
	if c.Session.MaxSignalsPerRun < 0 {
		return &types.ValidationError{Msg: fmt.Sprintf("max signals per run must not be negative: %d", c.Session.MaxSignalsPerRun)}
	}
	switch c.Export.Kind {
	case "file":
	case "s3":
		if c.Export.S3.Bucket == "" {
			return &types.ValidationError{Msg: "s3 export requires a bucket"}
		}
	default:
		return &types.ValidationError{Msg: fmt.Sprintf("unknown export kind %q", c.Export.Kind)}
	}
	return nil
}

// TaxRate parses the configured rate
func (c *Config) TaxRate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(c.Pricing.TaxRate)
	if err != nil {
		return decimal.Zero, &types.ValidationError{Msg: fmt.Sprintf("invalid tax rate %q", c.Pricing.TaxRate)}
	}
	return rate, nil
}

// Catalog loads the configured menu, or the built-in one
func (c *Config) Catalog() (*menu.Catalog, error) {
	if c.Menu.Path == "" {
		return menu.Default(), nil
	}
	return menu.Load(c.Menu.Path)
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
