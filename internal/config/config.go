package config

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Owner string `yaml:"owner"`
	Pool  struct {
		StateFile string `yaml:"state_file"`
	} `yaml:"pool"`
	Attestation struct {
		Endpoint string `yaml:"endpoint"`
	} `yaml:"attestation"`
	Payout struct {
		Endpoint string `yaml:"endpoint"`
	} `yaml:"payout"`
	Server struct {
		Listen string `yaml:"listen"`
	} `yaml:"server"`
	Schedule struct {
		SnapshotCron string `yaml:"snapshot_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("POOL_OWNER"); v != "" {
		cfg.Owner = v
	}
	if v := os.Getenv("POOL_STATE_FILE"); v != "" {
		cfg.Pool.StateFile = v
	}
	if v := os.Getenv("ATTESTATION_ENDPOINT"); v != "" {
		cfg.Attestation.Endpoint = v
	}
	if v := os.Getenv("PAYOUT_ENDPOINT"); v != "" {
		cfg.Payout.Endpoint = v
	}
	if v := os.Getenv("POOL_LISTEN"); v != "" {
		cfg.Server.Listen = v
	}
	if v := os.Getenv("SNAPSHOT_CRON"); v != "" {
		cfg.Schedule.SnapshotCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Pool.StateFile == "" {
		cfg.Pool.StateFile = "data/pool_state.json"
	}
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8547"
	}
	if cfg.Schedule.SnapshotCron == "" {
		cfg.Schedule.SnapshotCron = "0 0 0 * * *"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/repute_pool.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Owner == "" {
		return fmt.Errorf("owner is required")
	}
	if !common.IsHexAddress(c.Owner) {
		return fmt.Errorf("owner must be a hex address")
	}
	if c.Payout.Endpoint == "" {
		return fmt.Errorf("payout.endpoint is required")
	}
	return nil
}

// OwnerAddress returns the parsed owner address. Call Validate first.
func (c *Config) OwnerAddress() common.Address {
	return common.HexToAddress(c.Owner)
}
