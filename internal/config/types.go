// Package config resolves roster's own settings: where the gateway lives,
// where agent workspaces go, and how the shared gateway config file may be
// written. Settings are resolved once at startup and passed into the
// provisioning workflow as an immutable value.
package config

// Settings is the root configuration for roster.
type Settings struct {
	Gateway  GatewaySettings  `yaml:"gateway,omitempty"`
	Agents   AgentSettings    `yaml:"agents,omitempty"`
	Defaults AgentDefaults    `yaml:"defaults,omitempty"`
	Telegram TelegramSettings `yaml:"telegram,omitempty"`
	Logging  LoggingSettings  `yaml:"logging,omitempty"`
}

// GatewaySettings describes the external gateway this tool provisions
// agents for: its CLI binary, its shared JSON config file, and how that
// file may be mutated.
type GatewaySettings struct {
	Bin            string `yaml:"bin,omitempty"`            // gateway CLI binary name or path
	Config         string `yaml:"config,omitempty"`         // shared gateway JSON config file
	SessionsDir    string `yaml:"sessionsDir,omitempty"`    // per-agent session directories
	ProcessPattern string `yaml:"processPattern,omitempty"` // pgrep -f pattern for the running gateway
	WriteStrategy  string `yaml:"writeStrategy,omitempty"`  // "lockfile" | "none"
}

// AgentSettings controls where agent workspaces are created and which agent
// is the orchestrating "main" agent.
type AgentSettings struct {
	Dir             string `yaml:"dir,omitempty"`             // base directory for agent workspaces
	Main            string `yaml:"main,omitempty"`            // id of the main orchestrator agent
	SharedWorkspace string `yaml:"sharedWorkspace,omitempty"` // source of shared onboarding documents
}

// AgentDefaults holds per-agent defaults used when a request omits a value.
type AgentDefaults struct {
	Model string `yaml:"model,omitempty"`
}

// TelegramSettings configures the bot-token verification endpoint.
// APIBase is overridable so tests can point at a local server.
type TelegramSettings struct {
	APIBase string `yaml:"apiBase,omitempty"`
}

// LoggingSettings controls log output.
type LoggingSettings struct {
	Level string `yaml:"level,omitempty"` // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	Style string `yaml:"style,omitempty"` // "pretty" | "json"
}
