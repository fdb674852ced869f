package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config drives the vehicle simulator. Values come from an optional YAML
// file, overridden by environment variables (a .env file is honoured).
type Config struct {
	NATSURL string `yaml:"nats_url" validate:"required"`
	// TickIntervalMS is the wall-clock gap between position feeds.
	TickIntervalMS int `yaml:"tick_interval_ms" validate:"gte=100"`
	// VehicleSpeed is the fraction of a full route a train covers per second.
	VehicleSpeed float64 `yaml:"vehicle_speed" validate:"gt=0,lte=1"`
	// MetricsAddr is the prometheus listen address. Empty disables the listener.
	MetricsAddr string `yaml:"metrics_addr" validate:"omitempty,hostname_port"`
	// NetworkFile points at a YAML network definition. Empty uses the
	// built-in inner London network.
	NetworkFile string `yaml:"network_file"`
}

func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMS) * time.Millisecond
}

func defaultConfig() *Config {
	return &Config{
		NATSURL:        "nats://127.0.0.1:4222",
		TickIntervalMS: 1000,
		VehicleSpeed:   0.01,
	}
}

// Load reads the YAML file at path (skipped when path is empty), applies
// environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	// Load .env into environment (ignore if missing)
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path != "" {
		buf, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATSURL = v
	}
	if v := os.Getenv("TICK_INTERVAL_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid TICK_INTERVAL_MS: %q", v)
		}
		cfg.TickIntervalMS = ms
	}
	if v := os.Getenv("VEHICLE_SPEED"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid VEHICLE_SPEED: %q", v)
		}
		cfg.VehicleSpeed = f
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("NETWORK_FILE"); v != "" {
		cfg.NetworkFile = v
	}
	return nil
}
