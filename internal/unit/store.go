package unit

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Erfan-XRay/MTPulse/internal/argv"
	"github.com/Erfan-XRay/MTPulse/internal/util"
)

// Store reads and writes unit descriptors in a systemd unit directory.
// Writes are atomic so a crash mid-write can never leave a truncated
// descriptor that fails to supervise on next activation.
type Store struct {
	dir string
}

// NewStore returns a Store over dir, normally /etc/systemd/system.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the descriptor path for a unit name.
func (s *Store) Path(unitName string) string {
	return filepath.Join(s.dir, unitName)
}

// Exists reports whether a descriptor is installed for unitName.
func (s *Store) Exists(unitName string) bool {
	_, err := os.Stat(s.Path(unitName))
	return err == nil
}

// Read returns the ArgVector embedded in the installed descriptor.
// Returns (nil, nil) if no descriptor is installed.
func (s *Store) Read(unitName string) (*argv.ArgVector, error) {
	data, err := os.ReadFile(s.Path(unitName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading descriptor: %w", err)
	}
	args, err := ParseDescriptor(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing descriptor %s: %w", s.Path(unitName), err)
	}
	return &args, nil
}

// Write atomically installs the descriptor content for unitName.
func (s *Store) Write(unitName, content string) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("creating unit directory: %w", err)
	}
	if err := util.AtomicWriteFile(s.Path(unitName), []byte(content), 0644); err != nil {
		return fmt.Errorf("writing descriptor: %w", err)
	}
	return nil
}

// Remove deletes the descriptor. Removing an absent descriptor is a
// no-op success, keeping uninstall idempotent.
func (s *Store) Remove(unitName string) error {
	err := os.Remove(s.Path(unitName))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing descriptor: %w", err)
	}
	return nil
}
