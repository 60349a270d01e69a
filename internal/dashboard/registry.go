// Package dashboard maintains the local JSON registry the dashboard UI
// reads its known-agents list from.
package dashboard

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/soyeahso/roster/internal/fsutil"
)

// Entry describes one agent's connection metadata in the registry.
type Entry struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Emoji     string `json:"emoji,omitempty"`
	Host      string `json:"host"`
	Port      int    `json:"port"`
	Token     string `json:"token,omitempty"`
	Workspace string `json:"workspace"`
	Machine   string `json:"machine,omitempty"`
}

// Registry is the dashboard's agent list.
type Registry struct {
	Agents []Entry `json:"agents"`
}

// Load reads the registry file. A missing file yields an empty registry.
func Load(path string) (Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Registry{}, nil
		}
		return Registry{}, fmt.Errorf("dashboard: read %s: %w", path, err)
	}

	var reg Registry
	if err := json.Unmarshal(data, &reg); err != nil {
		return Registry{}, fmt.Errorf("dashboard: parse %s: %w", path, err)
	}
	return reg, nil
}

// Add appends an entry unless one with the same id already exists.
// Returns true when appended.
func (r *Registry) Add(e Entry) bool {
	for _, existing := range r.Agents {
		if existing.ID == e.ID {
			return false
		}
	}
	r.Agents = append(r.Agents, e)
	return true
}

// Save writes the registry back atomically.
func Save(path string, reg Registry) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("dashboard: marshal: %w", err)
	}
	return fsutil.WriteFileAtomic(path, data, 0o600)
}
