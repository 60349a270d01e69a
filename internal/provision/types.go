// Package provision implements the agent provisioning workflow: scaffold a
// workspace, register the agent with the gateway, optionally bind a Telegram
// bot, grant cross-agent permissions in the shared gateway config, update the
// dashboard registry, and nudge the gateway to reload.
package provision

// Request describes the agent to provision. Caller-supplied, immutable.
type Request struct {
	Name          string
	Emoji         string
	Soul          string
	Model         string
	TelegramToken string
}

// Result is the outcome of one provisioning run. Log holds one human-readable
// line per step, success or degraded, in execution order.
type Result struct {
	OK               bool
	RunID            string
	AgentID          string
	Name             string
	Emoji            string
	Workspace        string
	Model            string
	HasTelegram      bool
	TelegramUsername string
	Message          string
	Err              string
	Log              []string
}
