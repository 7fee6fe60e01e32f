// Package hostpkg installs the host packages the proxy build needs.
// Installation runs once per host, gated by a marker file, so repeated
// installs don't re-run the package manager.
package hostpkg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/Erfan-XRay/MTPulse/internal/util"
)

// buildPackages are the packages required to clone and compile the
// proxy from source.
var buildPackages = []string{
	"git",
	"curl",
	"build-essential",
	"libssl-dev",
	"zlib1g-dev",
}

// Apt installs build dependencies with apt-get.
type Apt struct {
	// MarkerPath gates repeated installation. Written after the first
	// successful install; removed by uninstall.
	MarkerPath string
}

// New returns an Apt installer gated by markerPath.
func New(markerPath string) *Apt {
	return &Apt{MarkerPath: markerPath}
}

// EnsurePackages installs the build package set unless the marker file
// says a previous run already did.
func (a *Apt) EnsurePackages(ctx context.Context) error {
	if _, err := os.Stat(a.MarkerPath); err == nil {
		return nil
	}

	update := exec.CommandContext(ctx, "apt-get", "update", "-q")
	update.Env = append(os.Environ(), "DEBIAN_FRONTEND=noninteractive")
	if out, err := update.CombinedOutput(); err != nil {
		return fmt.Errorf("apt-get update: %w: %s", err, out)
	}

	args := append([]string{"install", "-y", "-q"}, buildPackages...)
	install := exec.CommandContext(ctx, "apt-get", args...)
	install.Env = append(os.Environ(), "DEBIAN_FRONTEND=noninteractive")
	if out, err := install.CombinedOutput(); err != nil {
		return fmt.Errorf("apt-get install: %w: %s", err, out)
	}

	if err := os.MkdirAll(filepath.Dir(a.MarkerPath), 0755); err != nil {
		return fmt.Errorf("creating marker directory: %w", err)
	}
	if err := util.AtomicWriteFile(a.MarkerPath, []byte("ok\n"), 0644); err != nil {
		return fmt.Errorf("writing setup marker: %w", err)
	}
	return nil
}
