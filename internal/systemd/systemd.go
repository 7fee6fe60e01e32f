// Package systemd drives the host's service supervisor through
// systemctl and journalctl. It is the real implementation of the
// lifecycle.Supervisor collaborator; everything here is a thin exec
// wrapper with no policy of its own.
package systemd

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/Erfan-XRay/MTPulse/internal/util"
)

// Systemctl shells out to the host systemd.
type Systemctl struct{}

// New returns the host supervisor.
func New() Systemctl {
	return Systemctl{}
}

// DaemonReload makes systemd re-read unit descriptors. Required after
// any descriptor write; systemd only reloads definitions on demand.
func (Systemctl) DaemonReload() error {
	return util.ExecRun("", "systemctl", "daemon-reload")
}

// Enable marks the unit for start at boot.
func (Systemctl) Enable(unitName string) error {
	return util.ExecRun("", "systemctl", "enable", unitName)
}

// Disable removes the unit's boot activation.
func (Systemctl) Disable(unitName string) error {
	return util.ExecRun("", "systemctl", "disable", unitName)
}

// Start starts the unit.
func (Systemctl) Start(unitName string) error {
	return util.ExecRun("", "systemctl", "start", unitName)
}

// Stop stops the unit.
func (Systemctl) Stop(unitName string) error {
	return util.ExecRun("", "systemctl", "stop", unitName)
}

// Restart restarts the unit, starting it if stopped. The running
// process only re-reads its invocation on restart, so this is the
// step that makes a descriptor change take effect.
func (Systemctl) Restart(unitName string) error {
	return util.ExecRun("", "systemctl", "restart", unitName)
}

// IsActive reports whether the unit is currently running.
// systemctl exits nonzero for inactive units; only the printed state
// matters here.
func (Systemctl) IsActive(unitName string) bool {
	output, err := exec.Command("systemctl", "is-active", unitName).Output()
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(output)) == "active"
}

// IsEnabled reports whether the unit starts at boot.
func (Systemctl) IsEnabled(unitName string) bool {
	output, err := exec.Command("systemctl", "is-enabled", unitName).Output()
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(output)) == "enabled"
}

// Status returns the human-readable unit status. systemctl status
// exits nonzero for inactive or missing units while still printing a
// useful report, so the exit code is ignored.
func (Systemctl) Status(unitName string) string {
	output, _ := exec.Command("systemctl", "status", "--no-pager", "--full", unitName).CombinedOutput()
	return strings.TrimSpace(string(output))
}

// Logs returns the last lineCount journal lines for the unit.
func (Systemctl) Logs(unitName string, lineCount int) (string, error) {
	if lineCount < 1 {
		return "", fmt.Errorf("line count %d must be positive", lineCount)
	}
	return util.ExecWithOutput("", "journalctl", "-u", unitName, "-n", strconv.Itoa(lineCount), "--no-pager")
}
