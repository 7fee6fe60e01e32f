// Package lifecycle orchestrates the proxy's install, reconfigure, and
// uninstall flows. The controller is the sole writer of the service
// descriptor; all host effects go through injected collaborators so
// the flows are testable against fakes.
package lifecycle

import (
	"context"
	"errors"
	"os"

	"github.com/Erfan-XRay/MTPulse/internal/argv"
	"github.com/Erfan-XRay/MTPulse/internal/config"
	"github.com/Erfan-XRay/MTPulse/internal/status"
	"github.com/Erfan-XRay/MTPulse/internal/unit"
)

var (
	// ErrServiceNotActive is returned by SetTag when the proxy service
	// is not running.
	ErrServiceNotActive = errors.New("proxy service is not active")

	// ErrDescriptorMissing is returned by SetTag when no descriptor is
	// installed to mutate.
	ErrDescriptorMissing = errors.New("service descriptor not found")

	// ErrConfirmationRequired is returned by SetTag when a tag is
	// already set and the caller has not confirmed replacing it.
	ErrConfirmationRequired = errors.New("a tag is already set; confirm replacement")
)

// Supervisor is the supervised-service layer.
type Supervisor interface {
	DaemonReload() error
	Enable(unitName string) error
	Disable(unitName string) error
	Start(unitName string) error
	Stop(unitName string) error
	Restart(unitName string) error
	IsActive(unitName string) bool
	IsEnabled(unitName string) bool
	Status(unitName string) string
	Logs(unitName string, lineCount int) (string, error)
}

// Builder compiles the proxy binary from source.
type Builder interface {
	Build(ctx context.Context) (artifact string, buildLog string, err error)
	Cleanup() error
}

// Fetcher retrieves the collaborator-supplied files and the host's
// public address.
type Fetcher interface {
	FetchAux(ctx context.Context, secretPath, configPath string) error
	PublicIP(ctx context.Context) (string, error)
}

// PackageInstaller installs host build dependencies once per host.
type PackageInstaller interface {
	EnsurePackages(ctx context.Context) error
}

// Deps are the controller's injected collaborators.
type Deps struct {
	Store    *unit.Store
	Super    Supervisor
	Builder  Builder
	Fetcher  Fetcher
	Packages PackageInstaller

	// Progress, when set, receives one line per flow step for operator
	// feedback. The controller itself never prints.
	Progress func(step string)
}

// Controller runs the lifecycle flows.
type Controller struct {
	cfg  *config.Config
	deps Deps
}

// New returns a controller over cfg and deps.
func New(cfg *config.Config, deps Deps) *Controller {
	return &Controller{cfg: cfg, deps: deps}
}

func (c *Controller) progress(step string) {
	if c.deps.Progress != nil {
		c.deps.Progress(step)
	}
}

// BinaryInstalled reports whether a proxy binary exists at the
// canonical install path.
func (c *Controller) BinaryInstalled() bool {
	_, err := os.Stat(c.cfg.BinaryPath())
	return err == nil
}

// State derives the installation state on demand; it is never stored.
func (c *Controller) State() status.State {
	installed := c.BinaryInstalled() || c.deps.Store.Exists(c.cfg.Service.Unit)
	return status.Detect(installed, c.deps.Super.IsActive(c.cfg.Service.Unit))
}

// CurrentArgs reads the persisted invocation, or (nil, nil) when no
// descriptor is installed.
func (c *Controller) CurrentArgs() (*argv.ArgVector, error) {
	return c.deps.Store.Read(c.cfg.Service.Unit)
}
