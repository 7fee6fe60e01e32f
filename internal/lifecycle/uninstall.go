package lifecycle

import (
	"context"
	"os"
)

// StepResult is the outcome of one uninstall step.
type StepResult struct {
	Name string
	Err  error
}

// UninstallReport lists every step attempted and how it went.
type UninstallReport struct {
	Steps []StepResult
}

// Failed returns the number of steps that errored.
func (r UninstallReport) Failed() int {
	n := 0
	for _, s := range r.Steps {
		if s.Err != nil {
			n++
		}
	}
	return n
}

// Uninstall removes everything this tool manages. Every step is
// independently best-effort so a half-broken install still gets fully
// cleaned up; running it twice, or on a host that was never installed,
// is harmless. Confirmation is the caller's responsibility.
func (c *Controller) Uninstall(ctx context.Context) UninstallReport {
	unitName := c.cfg.Service.Unit
	var report UninstallReport

	step := func(name string, fn func() error) {
		c.progress(name)
		report.Steps = append(report.Steps, StepResult{Name: name, Err: fn()})
	}

	installed := c.deps.Store.Exists(unitName)

	step("Stopping service", func() error {
		if !installed && !c.deps.Super.IsActive(unitName) {
			return nil
		}
		return c.deps.Super.Stop(unitName)
	})
	step("Disabling service", func() error {
		if !installed && !c.deps.Super.IsEnabled(unitName) {
			return nil
		}
		return c.deps.Super.Disable(unitName)
	})
	step("Removing service descriptor", func() error {
		return c.deps.Store.Remove(unitName)
	})
	step("Reloading service definitions", func() error {
		return c.deps.Super.DaemonReload()
	})
	step("Removing proxy binary", func() error {
		return os.RemoveAll(c.cfg.Paths.InstallDir)
	})
	step("Removing data directory", func() error {
		// Includes the aux files, the address cache, and the package
		// setup marker.
		return os.RemoveAll(c.cfg.Paths.DataDir)
	})
	step("Removing build artifacts", func() error {
		return c.deps.Builder.Cleanup()
	})

	return report
}
