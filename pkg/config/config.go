// Package config loads the runtime configuration for the jit CLI.
// Values come from an optional jit.toml file in the user config
// folder, overridden by environment variables. The loaded Config is
// passed explicitly to the access handler rather than read from the
// environment at call sites.
package config

import (
	"os"
	"path"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

type Config struct {
	// AccountID is the AWS account access is granted in. If empty it
	// is discovered from the caller identity at startup.
	AccountID string

	// Region for the Identity Center and IAM clients. Empty defers to
	// the ambient AWS configuration.
	Region string

	// RevocationWebhookURL receives the revocation signal once a
	// grant's duration elapses. Empty disables revocation scheduling
	// entirely.
	RevocationWebhookURL string

	// SlackWebhookURL is the incoming webhook notifications are
	// posted to. Empty disables notifications.
	SlackWebhookURL string

	// MaxDuration is the ceiling applied to requested access
	// durations, encoded like "PT8H".
	MaxDuration string
}

// DefaultMaxDuration caps grants at eight hours unless configured
// otherwise.
const DefaultMaxDuration = "PT8H"

// ConfigFolder returns the folder jit.toml lives in, creating nothing.
// JIT_CONFIG_HOME overrides the platform default.
func ConfigFolder() (string, error) {
	if custom := os.Getenv("JIT_CONFIG_HOME"); custom != "" {
		return path.Join(custom, ".jit"), nil
	}
	if runtime.GOOS == "windows" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		return path.Join(configDir, ".jit"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return path.Join(homeDir, ".jit"), nil
}

// Load reads jit.toml if present, then applies environment overrides.
func Load() (Config, error) {
	cfg := Config{MaxDuration: DefaultMaxDuration}

	folder, err := ConfigFolder()
	if err != nil {
		return Config{}, err
	}
	file := filepath.Join(folder, "jit.toml")
	if _, err := os.Stat(file); err == nil {
		if _, err := toml.DecodeFile(file, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)
	if cfg.MaxDuration == "" {
		cfg.MaxDuration = DefaultMaxDuration
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("AWS_ACCOUNT_ID"); v != "" {
		cfg.AccountID = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.Region = v
	}
	if v := os.Getenv("JIT_REVOCATION_WEBHOOK_URL"); v != "" {
		cfg.RevocationWebhookURL = v
	}
	// spelling used by the original tooling, kept for compatibility
	if v := os.Getenv("REVOKATION_WEBHOOK_URL"); v != "" && cfg.RevocationWebhookURL == "" {
		cfg.RevocationWebhookURL = v
	}
	if v := os.Getenv("JIT_SLACK_WEBHOOK_URL"); v != "" {
		cfg.SlackWebhookURL = v
	}
	if v := os.Getenv("JIT_MAX_DURATION"); v != "" {
		cfg.MaxDuration = v
	}
}
