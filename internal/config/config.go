package config

import "fmt"

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// Defaults returns Settings with sensible defaults applied. Path-valued
// fields that depend on the home directory are filled by applyDefaults once
// the home directory is known.
func Defaults() Settings {
	return Settings{
		Gateway: GatewaySettings{
			Bin:            "openclaw",
			ProcessPattern: "openclaw-gateway",
			WriteStrategy:  "lockfile",
		},
		Agents: AgentSettings{
			Main: "main",
		},
		Defaults: AgentDefaults{
			Model: "claude-sonnet-4",
		},
		Telegram: TelegramSettings{
			APIBase: "https://api.telegram.org",
		},
		Logging: LoggingSettings{
			Level: "info",
			Style: "pretty",
		},
	}
}
