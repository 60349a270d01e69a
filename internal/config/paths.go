package config

import (
	"os"
	"path/filepath"
)

const defaultBaseDir = ".roster"

// Paths holds resolved filesystem paths for roster's own data.
type Paths struct {
	Base      string // ~/.roster
	Config    string // ~/.roster/config.yaml
	Dashboard string // ~/.roster/dashboard.json
	History   string // ~/.roster/history.db
}

// ResolvePaths computes all standard paths from the home directory.
// If ROSTER_HOME is set, it overrides the default base directory.
func ResolvePaths() (Paths, error) {
	base := os.Getenv("ROSTER_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Paths{}, err
		}
		base = filepath.Join(home, defaultBaseDir)
	}

	return Paths{
		Base:      base,
		Config:    filepath.Join(base, "config.yaml"),
		Dashboard: filepath.Join(base, "dashboard.json"),
		History:   filepath.Join(base, "history.db"),
	}, nil
}

// EnsureDirs creates the base directory if it doesn't exist.
func (p Paths) EnsureDirs() error {
	return os.MkdirAll(p.Base, 0o700)
}
