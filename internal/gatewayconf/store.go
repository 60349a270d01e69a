package gatewayconf

import (
	"fmt"
	"os"
	"time"

	"github.com/soyeahso/roster/internal/fsutil"
	"github.com/soyeahso/roster/internal/logging"
)

// Write strategies for the shared config file. The gateway process and
// other tools write the same file; "lockfile" narrows the lost-update window
// with a best-effort sibling lock, "none" accepts last-writer-wins.
const (
	StrategyLockfile = "lockfile"
	StrategyNone     = "none"
)

const (
	lockRetries  = 20
	lockInterval = 100 * time.Millisecond
)

// Store performs read-modify-write cycles against the gateway config file.
type Store struct {
	Path     string
	Strategy string

	log *logging.Logger
}

// NewStore creates a store for the config file at path.
func NewStore(path, strategy string, log *logging.Logger) *Store {
	return &Store{Path: path, Strategy: strategy, log: log.Sub("gatewayconf")}
}

// Load reads and parses the config file. A missing file yields an empty
// document so provisioning can still seed a fresh gateway install.
func (s *Store) Load() (*Document, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("gatewayconf: read %s: %w", s.Path, err)
	}
	return Parse(data)
}

// Update reads the document once, applies fn's mutations in memory, and
// writes the whole document back once, atomically. Under the lockfile
// strategy the full window is guarded by a sibling lock; failure to take
// the lock degrades to the unguarded path rather than failing the update.
func (s *Store) Update(fn func(*Document) error) error {
	unlock, err := s.lock()
	if err != nil {
		s.log.Warn().Err(err).Msg("config lock unavailable, proceeding unguarded")
	}
	defer unlock()

	doc, err := s.Load()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}

	data, err := doc.MarshalIndent()
	if err != nil {
		return fmt.Errorf("gatewayconf: marshal: %w", err)
	}
	return fsutil.WriteFileAtomic(s.Path, data, 0o600)
}

// lock takes the sibling lock file when the strategy asks for it. The
// returned func releases the lock and is always safe to call.
func (s *Store) lock() (func(), error) {
	if s.Strategy != StrategyLockfile {
		return func() {}, nil
	}

	lockPath := s.Path + ".lock"
	for i := 0; i < lockRetries; i++ {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			fmt.Fprintf(f, "%d\n", os.Getpid())
			f.Close()
			return func() { _ = os.Remove(lockPath) }, nil
		}
		if !os.IsExist(err) {
			return func() {}, fmt.Errorf("gatewayconf: create lock: %w", err)
		}
		time.Sleep(lockInterval)
	}
	return func() {}, fmt.Errorf("gatewayconf: lock %s held too long", lockPath)
}
