package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads the settings file, applies defaults and environment overrides,
// and returns merged Settings. A missing file produces defaults only.
func Load(path string) (Settings, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyDefaults(&cfg)
			applyEnvOverrides(&cfg)
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &ConfigError{Message: "failed to parse config: " + err.Error()}
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// applyDefaults fills zero-value fields, including the home-relative paths
// that Defaults() cannot compute.
func applyDefaults(cfg *Settings) {
	home, _ := os.UserHomeDir()
	gatewayBase := filepath.Join(home, ".openclaw")

	if cfg.Gateway.Bin == "" {
		cfg.Gateway.Bin = "openclaw"
	}
	if cfg.Gateway.Config == "" {
		cfg.Gateway.Config = filepath.Join(gatewayBase, "openclaw.json")
	}
	if cfg.Gateway.SessionsDir == "" {
		cfg.Gateway.SessionsDir = filepath.Join(gatewayBase, "sessions")
	}
	if cfg.Gateway.ProcessPattern == "" {
		cfg.Gateway.ProcessPattern = "openclaw-gateway"
	}
	if cfg.Gateway.WriteStrategy == "" {
		cfg.Gateway.WriteStrategy = "lockfile"
	}
	if cfg.Agents.Dir == "" {
		cfg.Agents.Dir = filepath.Join(gatewayBase, "agents")
	}
	if cfg.Agents.Main == "" {
		cfg.Agents.Main = "main"
	}
	if cfg.Agents.SharedWorkspace == "" {
		cfg.Agents.SharedWorkspace = filepath.Join(cfg.Agents.Dir, cfg.Agents.Main)
	}
	if cfg.Defaults.Model == "" {
		cfg.Defaults.Model = "claude-sonnet-4"
	}
	if cfg.Telegram.APIBase == "" {
		cfg.Telegram.APIBase = "https://api.telegram.org"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Style == "" {
		cfg.Logging.Style = "pretty"
	}
}

// applyEnvOverrides reads ROSTER_* environment variables and overrides
// settings values.
func applyEnvOverrides(cfg *Settings) {
	if v := os.Getenv("ROSTER_GATEWAY_BIN"); v != "" {
		cfg.Gateway.Bin = v
	}
	if v := os.Getenv("ROSTER_GATEWAY_CONFIG"); v != "" {
		cfg.Gateway.Config = v
	}
	if v := os.Getenv("ROSTER_AGENTS_DIR"); v != "" {
		cfg.Agents.Dir = v
	}
	if v := os.Getenv("ROSTER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
