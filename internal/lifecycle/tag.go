package lifecycle

import (
	"context"
	"fmt"

	"github.com/Erfan-XRay/MTPulse/internal/argv"
	"github.com/Erfan-XRay/MTPulse/internal/plan"
)

// SetTag applies a sponsor tag change: tag == "" removes the tag, a
// 32-hex value sets it. Preconditions: the service must be active and
// a descriptor must exist; replacing or clearing an already-set tag
// requires confirmed=true. Nothing is mutated when any precondition
// fails. On success the descriptor is rewritten, service definitions
// reloaded, and the service restarted; without the restart the running
// process would keep its old invocation and the change would be
// silently inert.
func (c *Controller) SetTag(ctx context.Context, tag string, confirmed bool) (argv.ArgVector, error) {
	unitName := c.cfg.Service.Unit

	if !c.deps.Super.IsActive(unitName) {
		return argv.ArgVector{}, ErrServiceNotActive
	}

	existing, err := c.deps.Store.Read(unitName)
	if err != nil {
		return argv.ArgVector{}, err
	}
	if existing == nil {
		return argv.ArgVector{}, ErrDescriptorMissing
	}

	if existing.Tag != "" && existing.Tag != tag && !confirmed {
		return argv.ArgVector{}, ErrConfirmationRequired
	}

	next, err := plan.SetTag(existing, tag)
	if err != nil {
		return argv.ArgVector{}, err
	}

	if err := c.persist(next); err != nil {
		return argv.ArgVector{}, err
	}
	if err := c.deps.Super.DaemonReload(); err != nil {
		return argv.ArgVector{}, fmt.Errorf("reloading service definitions: %w", err)
	}
	if err := c.deps.Super.Restart(unitName); err != nil {
		return argv.ArgVector{}, fmt.Errorf("restarting service: %w", err)
	}
	return next, nil
}
