// Package gatewayconf reads and mutates the gateway's shared JSON config
// file. The document is owned by the gateway process; roster applies a batch
// of mutations in memory between a single read and a single write, and keeps
// every key it does not understand intact.
package gatewayconf

import (
	"encoding/json"
	"fmt"
)

// Document wraps the parsed gateway config. All access goes through nested
// map[string]any so foreign keys survive the read-modify-write round trip.
type Document struct {
	root map[string]any
}

// New returns an empty document.
func New() *Document {
	return &Document{root: map[string]any{}}
}

// Parse decodes a gateway config document from JSON bytes.
func Parse(data []byte) (*Document, error) {
	var root map[string]any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("gatewayconf: parse: %w", err)
	}
	if root == nil {
		root = map[string]any{}
	}
	return &Document{root: root}, nil
}

// MarshalIndent encodes the document back to pretty-printed JSON.
func (d *Document) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(d.root, "", "  ")
}

// getPath traverses nested maps using the given path segments.
func getPath(root map[string]any, path ...string) (any, bool) {
	current := any(root)
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// ensureMap walks the path, creating intermediate maps as needed, and
// returns the map at the end of it. Non-map values along the way are
// replaced.
func ensureMap(root map[string]any, path ...string) map[string]any {
	current := root
	for _, key := range path {
		next, ok := current[key].(map[string]any)
		if !ok {
			next = map[string]any{}
			current[key] = next
		}
		current = next
	}
	return current
}

// agentList returns the agents.list slice, creating it when absent.
func (d *Document) agentList() []any {
	agents := ensureMap(d.root, "agents")
	list, ok := agents["list"].([]any)
	if !ok {
		list = []any{}
		agents["list"] = list
	}
	return list
}

// AgentIDs returns the ids of all agents in the config's agent list.
func (d *Document) AgentIDs() []string {
	var ids []string
	for _, entry := range d.agentList() {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if id, ok := m["id"].(string); ok && id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// HasAgent reports whether an agent with the given id is in the list.
func (d *Document) HasAgent(id string) bool {
	for _, existing := range d.AgentIDs() {
		if existing == id {
			return true
		}
	}
	return false
}

// ensureAgentEntry returns the list entry for the given agent id, appending
// a minimal entry when none exists yet.
func (d *Document) ensureAgentEntry(id string) map[string]any {
	list := d.agentList()
	for _, entry := range list {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if existing, _ := m["id"].(string); existing == id {
			return m
		}
	}
	entry := map[string]any{"id": id}
	ensureMap(d.root, "agents")["list"] = append(list, entry)
	return entry
}

// EnsureAllowAgent adds sub to owner's subagents.allowAgents list.
// Returns true when the id was added, false when it was already present.
func (d *Document) EnsureAllowAgent(owner, sub string) bool {
	entry := d.ensureAgentEntry(owner)
	subagents := ensureMap(entry, "subagents")
	allow, _ := subagents["allowAgents"].([]any)
	for _, v := range allow {
		if s, ok := v.(string); ok && s == sub {
			return false
		}
	}
	subagents["allowAgents"] = append(allow, sub)
	return true
}

// SetAllowAgents replaces an agent's subagents.allowAgents list outright.
func (d *Document) SetAllowAgents(id string, allow []string) {
	entry := d.ensureAgentEntry(id)
	list := make([]any, 0, len(allow))
	for _, a := range allow {
		list = append(list, a)
	}
	ensureMap(entry, "subagents")["allowAgents"] = list
}

// EnsureTelegramAccount creates a telegram channel account keyed by the
// agent id with the fixed policy defaults, and enables the telegram channel.
// An existing account is left untouched. Returns true when created.
func (d *Document) EnsureTelegramAccount(id, botToken string) bool {
	telegram := ensureMap(d.root, "channels", "telegram")
	telegram["enabled"] = true

	accounts := ensureMap(telegram, "accounts")
	if _, exists := accounts[id]; exists {
		return false
	}
	accounts[id] = map[string]any{
		"enabled":     true,
		"dmPolicy":    "pairing",
		"botToken":    botToken,
		"groupPolicy": "allowlist",
		"streamMode":  "partial",
	}
	return true
}

// EnsureBinding routes a channel account to an agent, deduplicated by the
// {agentId, channel, accountId} triple. Returns true when appended.
func (d *Document) EnsureBinding(agentID, channel, accountID string) bool {
	bindings, _ := d.root["bindings"].([]any)
	for _, entry := range bindings {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		gotAgent, _ := m["agentId"].(string)
		match, _ := m["match"].(map[string]any)
		gotChannel, _ := match["channel"].(string)
		gotAccount, _ := match["accountId"].(string)
		if gotAgent == agentID && gotChannel == channel && gotAccount == accountID {
			return false
		}
	}
	d.root["bindings"] = append(bindings, map[string]any{
		"agentId": agentID,
		"match": map[string]any{
			"channel":   channel,
			"accountId": accountID,
		},
	})
	return true
}

// EnableAgentToAgent sets the global agent-to-agent messaging capability.
// The flag is only ever set true here, never cleared.
func (d *Document) EnableAgentToAgent() {
	ensureMap(d.root, "tools", "agentToAgent")["enabled"] = true
}

// GatewayPort returns gateway.port, defaulting to 18789 when absent.
func (d *Document) GatewayPort() int {
	v, ok := getPath(d.root, "gateway", "port")
	if !ok {
		return 18789
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 18789
	}
}

// AuthToken returns gateway.auth.token, or "" when absent.
func (d *Document) AuthToken() string {
	v, _ := getPath(d.root, "gateway", "auth", "token")
	s, _ := v.(string)
	return s
}
