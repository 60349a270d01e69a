package gatewaycli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyeahso/roster/internal/logging"
)

func testLogger() *logging.Logger {
	return logging.New(nil, "silent", "json")
}

func TestParseAgentListArray(t *testing.T) {
	agents, err := parseAgentList([]byte(`[{"id":"main","name":"Main"},{"id":"scout"}]`))
	require.NoError(t, err)
	require.Len(t, agents, 2)
	assert.Equal(t, "main", agents[0].ID)
	assert.Equal(t, "Main", agents[0].Name)
	assert.Equal(t, "scout", agents[1].ID)
}

func TestParseAgentListWrapped(t *testing.T) {
	agents, err := parseAgentList([]byte(`{"agents":[{"id":"main"}]}`))
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, "main", agents[0].ID)
}

func TestParseAgentListEmpty(t *testing.T) {
	agents, err := parseAgentList([]byte("  \n"))
	require.NoError(t, err)
	assert.Empty(t, agents)
}

func TestParseAgentListInvalid(t *testing.T) {
	_, err := parseAgentList([]byte(`[{"id":`))
	assert.Error(t, err)
}

// stubGateway writes a shell script that mimics the gateway binary.
func stubGateway(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "openclaw")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

func TestListAgents(t *testing.T) {
	bin := stubGateway(t, `echo '[{"id":"main","name":"Main"}]'`)
	c := NewClient(bin, testLogger())

	agents, err := c.ListAgents(context.Background())
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, "main", agents[0].ID)
}

func TestRunNonZeroExit(t *testing.T) {
	bin := stubGateway(t, `echo "no such agent" >&2; exit 3`)
	c := NewClient(bin, testLogger())

	_, err := c.ListAgents(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exited 3")
	assert.Contains(t, err.Error(), "no such agent")
}

func TestRunMissingBinary(t *testing.T) {
	c := NewClient(filepath.Join(t.TempDir(), "does-not-exist"), testLogger())
	_, err := c.ListAgents(context.Background())
	assert.Error(t, err)
}

func TestAddAgentPassesArgs(t *testing.T) {
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args.txt")
	bin := filepath.Join(dir, "openclaw")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\necho \"$@\" > "+argsFile+"\n"), 0o755))

	c := NewClient(bin, testLogger())
	require.NoError(t, c.AddAgent(context.Background(), "nova", "/ws/nova", "gpt-test"))

	args, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Contains(t, string(args), "agents add nova")
	assert.Contains(t, string(args), "--workspace /ws/nova")
	assert.Contains(t, string(args), "--model gpt-test")
	assert.Contains(t, string(args), "--non-interactive")
}
