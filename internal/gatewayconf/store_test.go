package gatewayconf

import (
	"encoding/json"
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

func TestStoreLoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "openclaw.json"), StrategyNone, testLogger())
	doc, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, doc.AgentIDs())
}

func TestStoreUpdateSingleWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openclaw.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))

	store := NewStore(path, StrategyNone, testLogger())
	err := store.Update(func(doc *Document) error {
		doc.EnsureAllowAgent("main", "nova")
		doc.SetAllowAgents("nova", []string{"main"})
		doc.EnableAgentToAgent()
		return nil
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))

	// All mutations landed in one write, foreign keys intact
	assert.Contains(t, out, "unknownTopLevel")
	tools := out["tools"].(map[string]any)["agentToAgent"].(map[string]any)
	assert.Equal(t, true, tools["enabled"])
}

func TestStoreUpdateLockfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openclaw.json")
	store := NewStore(path, StrategyLockfile, testLogger())

	err := store.Update(func(doc *Document) error {
		doc.SetAllowAgents("nova", []string{"main"})
		return nil
	})
	require.NoError(t, err)

	// Lock released after the update
	_, err = os.Stat(path + ".lock")
	assert.True(t, os.IsNotExist(err))

	doc, err := store.Load()
	require.NoError(t, err)
	assert.True(t, doc.HasAgent("nova"))
}

func TestStoreUpdateHeldLockDegrades(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "openclaw.json")
	// Simulate another writer holding the lock
	require.NoError(t, os.WriteFile(path+".lock", []byte("9999\n"), 0o600))

	store := NewStore(path, StrategyLockfile, testLogger())
	err := store.Update(func(doc *Document) error {
		doc.SetAllowAgents("nova", []string{"main"})
		return nil
	})
	// Update proceeds unguarded rather than failing
	require.NoError(t, err)

	doc, err := store.Load()
	require.NoError(t, err)
	assert.True(t, doc.HasAgent("nova"))

	// The foreign lock is not ours to remove
	_, err = os.Stat(path + ".lock")
	assert.NoError(t, err)
}
