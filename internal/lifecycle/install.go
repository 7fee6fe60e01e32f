package lifecycle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Erfan-XRay/MTPulse/internal/argv"
	"github.com/Erfan-XRay/MTPulse/internal/plan"
	"github.com/Erfan-XRay/MTPulse/internal/unit"
)

// InstallRequest carries the operator's install decisions. Port must
// already be validated by the collecting surface; the planner rejects
// out-of-range values regardless.
type InstallRequest struct {
	Port int

	// ReuseBinary skips the build when a binary is already installed.
	// Ignored when no binary exists.
	ReuseBinary bool
}

// InstallResult is the read-back of a completed install.
type InstallResult struct {
	Args argv.ArgVector

	// Address is the public address, empty when the lookup failed.
	// The install itself does not depend on it.
	Address string
}

// Install runs the full install flow. Reinstalling recreates the
// descriptor and secret from scratch; it never merges with prior
// state. No state is committed before the build succeeds, so a failed
// build leaves the host exactly as it was.
func (c *Controller) Install(ctx context.Context, req InstallRequest) (*InstallResult, error) {
	build := !(req.ReuseBinary && c.BinaryInstalled())

	if build {
		c.progress("Installing build packages")
		if err := c.deps.Packages.EnsurePackages(ctx); err != nil {
			return nil, fmt.Errorf("installing packages: %w", err)
		}

		c.progress("Building proxy from source")
		artifact, _, err := c.deps.Builder.Build(ctx)
		if err != nil {
			return nil, err
		}

		c.progress("Installing binary")
		if err := c.installBinary(artifact); err != nil {
			return nil, err
		}
		// Workspace no longer needed once the binary is in place.
		_ = c.deps.Builder.Cleanup()
	} else {
		c.progress("Reusing installed binary")
	}

	c.progress("Fetching proxy secret and config")
	if err := os.MkdirAll(c.cfg.Paths.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	if err := c.deps.Fetcher.FetchAux(ctx, c.cfg.SecretFilePath(), c.cfg.ProxyConfigPath()); err != nil {
		return nil, err
	}

	c.progress("Planning configuration")
	args, err := plan.Install(c.planDefaults(), req.Port)
	if err != nil {
		return nil, err
	}

	c.progress("Writing service descriptor")
	if err := c.persist(args); err != nil {
		return nil, err
	}

	c.progress("Activating service")
	unitName := c.cfg.Service.Unit
	if err := c.deps.Super.DaemonReload(); err != nil {
		return nil, fmt.Errorf("reloading service definitions: %w", err)
	}
	if err := c.deps.Super.Enable(unitName); err != nil {
		return nil, fmt.Errorf("enabling service: %w", err)
	}
	// Restart rather than start: a reinstall over a running service
	// must pick up the regenerated secret.
	if err := c.deps.Super.Restart(unitName); err != nil {
		return nil, fmt.Errorf("starting service: %w", err)
	}

	result := &InstallResult{Args: args}
	if addr, err := c.deps.Fetcher.PublicIP(ctx); err == nil {
		result.Address = addr
	}
	return result, nil
}

func (c *Controller) installBinary(artifact string) error {
	data, err := os.ReadFile(artifact)
	if err != nil {
		return fmt.Errorf("reading build artifact: %w", err)
	}
	dest := c.cfg.BinaryPath()
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("creating install directory: %w", err)
	}
	if err := os.WriteFile(dest+".tmp", data, 0755); err != nil {
		return fmt.Errorf("staging binary: %w", err)
	}
	// Rename over the old binary; a running service keeps its open
	// file handle and switches on next restart.
	if err := os.Rename(dest+".tmp", dest); err != nil {
		os.Remove(dest + ".tmp")
		return fmt.Errorf("installing binary: %w", err)
	}
	return nil
}

func (c *Controller) persist(args argv.ArgVector) error {
	content := unit.Render(c.cfg.Paths.DataDir, args)
	return c.deps.Store.Write(c.cfg.Service.Unit, content)
}

func (c *Controller) planDefaults() plan.Defaults {
	return plan.Defaults{
		Binary:     c.cfg.BinaryPath(),
		RunUser:    c.cfg.Service.RunUser,
		StatPort:   c.cfg.Service.StatPort,
		Workers:    c.cfg.Service.Workers,
		SecretFile: c.cfg.SecretFilePath(),
		ConfigFile: c.cfg.ProxyConfigPath(),
	}
}
