// Package util provides small host-level helpers: atomic file writes,
// command execution wrappers, and cross-process locking.
package util

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// ExecWithOutput runs a command in workDir and returns its trimmed
// stdout. On failure the returned error includes the command's stderr,
// which is usually the only useful diagnostic from tools like
// systemctl and git.
func ExecWithOutput(workDir, name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// ExecRun runs a command in workDir, discarding stdout.
func ExecRun(workDir, name string, args ...string) error {
	_, err := ExecWithOutput(workDir, name, args...)
	return err
}
