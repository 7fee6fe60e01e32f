// ABOUTME: Shared wiring for mtpulse commands.
// ABOUTME: Builds the controller, reporter, and collaborators from config.

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Erfan-XRay/MTPulse/internal/buildtool"
	"github.com/Erfan-XRay/MTPulse/internal/config"
	"github.com/Erfan-XRay/MTPulse/internal/hostpkg"
	"github.com/Erfan-XRay/MTPulse/internal/lifecycle"
	"github.com/Erfan-XRay/MTPulse/internal/netfetch"
	"github.com/Erfan-XRay/MTPulse/internal/status"
	"github.com/Erfan-XRay/MTPulse/internal/style"
	"github.com/Erfan-XRay/MTPulse/internal/systemd"
	"github.com/Erfan-XRay/MTPulse/internal/unit"
	"github.com/Erfan-XRay/MTPulse/internal/util"
)

const lockTimeout = 10 * time.Second

// app is the assembled dependency graph every command runs against.
type app struct {
	cfg        *config.Config
	controller *lifecycle.Controller
	reporter   *status.Reporter
	supervisor systemd.Systemctl
	store      *unit.Store
}

// newApp loads config and wires the real collaborators.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	store := unit.NewStore(cfg.Paths.UnitDir)
	sup := systemd.New()
	fetcher := netfetch.New(cfg.Source.SecretURL, cfg.Source.ConfigURL, cfg.Source.IPURL, cfg.IPCachePath())

	ctl := lifecycle.New(cfg, lifecycle.Deps{
		Store:    store,
		Super:    sup,
		Builder:  buildtool.New(cfg.Source.Repo),
		Fetcher:  fetcher,
		Packages: hostpkg.New(cfg.SetupMarkerPath()),
		Progress: func(step string) {
			fmt.Println(style.Dim.Render("-> " + step))
		},
	})

	reporter := &status.Reporter{
		Unit:       cfg.Service.Unit,
		BinaryPath: cfg.BinaryPath(),
		Store:      store,
		Supervisor: sup,
		Address:    fetcher,
	}

	return &app{
		cfg:        cfg,
		controller: ctl,
		reporter:   reporter,
		supervisor: sup,
		store:      store,
	}, nil
}

// locked runs fn while holding the host-wide operation lock. Mutating
// commands go through this so two mtpulse invocations never interleave
// systemd and filesystem changes.
func (a *app) locked(fn func() error) error {
	lock, err := util.AcquireLock(a.cfg.LockPath(), lockTimeout)
	if err != nil {
		return err
	}
	defer lock.Unlock()
	return fn()
}

func newStdinReader() *bufio.Reader {
	return bufio.NewReader(os.Stdin)
}

// confirm asks a [y/N] question on stdin.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	response, _ := reader.ReadString('\n')
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
