package status

import (
	"context"
	"fmt"
	"os"

	"github.com/Erfan-XRay/MTPulse/internal/argv"
)

// descriptorReader is the slice of the descriptor store the reporter
// needs.
type descriptorReader interface {
	Read(unitName string) (*argv.ArgVector, error)
	Exists(unitName string) bool
}

// supervisor is the slice of the supervised-service layer the reporter
// needs.
type supervisor interface {
	IsActive(unitName string) bool
	IsEnabled(unitName string) bool
}

// addressSource resolves the host's public address.
type addressSource interface {
	PublicIP(ctx context.Context) (string, error)
}

// Reporter assembles the status view. It never mutates anything.
type Reporter struct {
	Unit       string
	BinaryPath string
	Store      descriptorReader
	Supervisor supervisor
	Address    addressSource
}

// Report reads back the current installation state and, when the
// service is active, the descriptor's invocation plus the public
// address. A failed address lookup degrades the view (empty Address,
// no links) rather than failing the report.
func (r *Reporter) Report(ctx context.Context) (*View, error) {
	installed := r.binaryInstalled() || r.Store.Exists(r.Unit)
	active := r.Supervisor.IsActive(r.Unit)

	view := &View{
		State:   Detect(installed, active),
		Enabled: r.Supervisor.IsEnabled(r.Unit),
	}
	if view.State != StateActive {
		return view, nil
	}

	args, err := r.Store.Read(r.Unit)
	if err != nil {
		return nil, fmt.Errorf("reading descriptor: %w", err)
	}
	if args == nil {
		// Active service without a descriptor: systemd still has the
		// old definition loaded. Report activity only.
		return view, nil
	}

	view.Port = args.Port
	view.Secret = args.Secret
	view.Tag = args.Tag

	if addr, err := r.Address.PublicIP(ctx); err == nil {
		view.Address = addr
		view.Links = ShareLinks(addr, args.Port, args.Secret)
	}
	return view, nil
}

func (r *Reporter) binaryInstalled() bool {
	_, err := os.Stat(r.BinaryPath)
	return err == nil
}
