// Package gatewaycli shells out to the gateway's own command-line interface
// for the operations the gateway owns: listing registered agents, adding an
// agent, and setting an agent's display identity.
package gatewaycli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/soyeahso/roster/internal/logging"
)

// Agent is one entry from `<bin> agents list --json`.
type Agent struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Client wraps the external gateway binary.
type Client struct {
	// Bin is the gateway CLI binary name or path.
	Bin string

	log *logging.Logger
}

// NewClient creates a client for the given gateway binary.
func NewClient(bin string, log *logging.Logger) *Client {
	return &Client{Bin: bin, log: log.Sub("gatewaycli")}
}

// run executes the gateway binary and returns its stdout.
func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	c.log.Debug().Str("bin", c.Bin).Strs("args", args).Msg("running gateway command")

	out, err := exec.CommandContext(ctx, c.Bin, args...).Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("%s exited %d: %s", c.Bin, exitErr.ExitCode(), bytes.TrimSpace(exitErr.Stderr))
		}
		return nil, fmt.Errorf("%s: %w", c.Bin, err)
	}
	return out, nil
}

// ListAgents returns the gateway's current agent registry.
func (c *Client) ListAgents(ctx context.Context) ([]Agent, error) {
	out, err := c.run(ctx, "agents", "list", "--json")
	if err != nil {
		return nil, err
	}
	agents, err := parseAgentList(out)
	if err != nil {
		return nil, fmt.Errorf("parsing %s output: %w", c.Bin, err)
	}
	return agents, nil
}

// AddAgent registers a new agent with its workspace and model.
func (c *Client) AddAgent(ctx context.Context, id, workspace, model string) error {
	_, err := c.run(ctx, "agents", "add", id,
		"--workspace", workspace,
		"--model", model,
		"--non-interactive", "--json")
	return err
}

// SetIdentity sets an agent's display name and emoji.
func (c *Client) SetIdentity(ctx context.Context, id, name, emoji string) error {
	_, err := c.run(ctx, "agents", "set-identity", id,
		"--name", name,
		"--emoji", emoji)
	return err
}

// parseAgentList accepts either a bare JSON array of agents or an object
// with an "agents" key, since gateway versions differ on the envelope.
func parseAgentList(data []byte) ([]Agent, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	if data[0] == '[' {
		var agents []Agent
		if err := json.Unmarshal(data, &agents); err != nil {
			return nil, err
		}
		return agents, nil
	}

	var wrapped struct {
		Agents []Agent `json:"agents"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Agents, nil
}
