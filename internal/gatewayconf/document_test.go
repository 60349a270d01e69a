package gatewayconf

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `{
  "agents": {
    "list": [
      {"id": "main", "subagents": {"allowAgents": ["scout"]}},
      {"id": "scout"}
    ]
  },
  "gateway": {"port": 19001, "auth": {"token": "tok-123"}},
  "channels": {"telegram": {"enabled": false, "accounts": {}}},
  "bindings": [],
  "unknownTopLevel": {"keep": "me"}
}`

func parseSample(t *testing.T) *Document {
	t.Helper()
	doc, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)
	return doc
}

func TestAgentIDs(t *testing.T) {
	doc := parseSample(t)
	assert.Equal(t, []string{"main", "scout"}, doc.AgentIDs())
	assert.True(t, doc.HasAgent("main"))
	assert.False(t, doc.HasAgent("nova"))
}

func TestEnsureAllowAgent(t *testing.T) {
	doc := parseSample(t)

	assert.True(t, doc.EnsureAllowAgent("main", "nova"))
	// Same mutation against the same loaded document is a no-op
	assert.False(t, doc.EnsureAllowAgent("main", "nova"))
	assert.False(t, doc.EnsureAllowAgent("main", "scout"))

	data, err := doc.MarshalIndent()
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	list := out["agents"].(map[string]any)["list"].([]any)
	main := list[0].(map[string]any)
	allow := main["subagents"].(map[string]any)["allowAgents"].([]any)
	assert.Equal(t, []any{"scout", "nova"}, allow)
}

func TestSetAllowAgents(t *testing.T) {
	doc := parseSample(t)
	doc.SetAllowAgents("nova", []string{"main"})

	// The entry is created since nova was not in the list
	assert.True(t, doc.HasAgent("nova"))

	data, err := doc.MarshalIndent()
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	list := out["agents"].(map[string]any)["list"].([]any)
	require.Len(t, list, 3)
	nova := list[2].(map[string]any)
	assert.Equal(t, "nova", nova["id"])
	assert.Equal(t, []any{"main"}, nova["subagents"].(map[string]any)["allowAgents"])
}

func TestEnsureTelegramAccount(t *testing.T) {
	doc := parseSample(t)

	assert.True(t, doc.EnsureTelegramAccount("nova", "123:abc"))
	assert.False(t, doc.EnsureTelegramAccount("nova", "456:other"))

	data, err := doc.MarshalIndent()
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))

	telegram := out["channels"].(map[string]any)["telegram"].(map[string]any)
	assert.Equal(t, true, telegram["enabled"])

	accounts := telegram["accounts"].(map[string]any)
	require.Len(t, accounts, 1)
	acct := accounts["nova"].(map[string]any)
	assert.Equal(t, true, acct["enabled"])
	assert.Equal(t, "pairing", acct["dmPolicy"])
	// The second Ensure call must not have replaced the token
	assert.Equal(t, "123:abc", acct["botToken"])
	assert.Equal(t, "allowlist", acct["groupPolicy"])
	assert.Equal(t, "partial", acct["streamMode"])
}

func TestEnsureBinding(t *testing.T) {
	doc := parseSample(t)

	assert.True(t, doc.EnsureBinding("nova", "telegram", "nova"))
	// Running the binding step twice does not duplicate
	assert.False(t, doc.EnsureBinding("nova", "telegram", "nova"))
	// A different account id is a distinct binding
	assert.True(t, doc.EnsureBinding("nova", "telegram", "other"))

	data, err := doc.MarshalIndent()
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	bindings := out["bindings"].([]any)
	require.Len(t, bindings, 2)
	first := bindings[0].(map[string]any)
	assert.Equal(t, "nova", first["agentId"])
	match := first["match"].(map[string]any)
	assert.Equal(t, "telegram", match["channel"])
	assert.Equal(t, "nova", match["accountId"])
}

func TestEnableAgentToAgent(t *testing.T) {
	doc := parseSample(t)
	doc.EnableAgentToAgent()
	doc.EnableAgentToAgent()

	v, ok := getPath(doc.root, "tools", "agentToAgent", "enabled")
	require.True(t, ok)
	assert.Equal(t, true, v)
}

func TestGatewayPortAndToken(t *testing.T) {
	doc := parseSample(t)
	assert.Equal(t, 19001, doc.GatewayPort())
	assert.Equal(t, "tok-123", doc.AuthToken())

	empty := New()
	assert.Equal(t, 18789, empty.GatewayPort())
	assert.Equal(t, "", empty.AuthToken())
}

func TestUnknownKeysSurviveRoundTrip(t *testing.T) {
	doc := parseSample(t)
	doc.EnsureAllowAgent("main", "nova")
	doc.EnableAgentToAgent()

	data, err := doc.MarshalIndent()
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	unknown := out["unknownTopLevel"].(map[string]any)
	assert.Equal(t, "me", unknown["keep"])
}

func TestParseEmptyObject(t *testing.T) {
	doc, err := Parse([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, doc.AgentIDs())
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte(`not json`))
	assert.Error(t, err)
}
