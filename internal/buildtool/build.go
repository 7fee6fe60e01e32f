// Package buildtool clones and compiles the proxy from source. It is
// the real implementation of the lifecycle.Builder collaborator.
package buildtool

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
)

// artifactRelPath is where the proxy's build system leaves the binary
// inside a source tree.
const artifactRelPath = "objs/bin/mtproto-proxy"

// workDirPrefix names build workspaces so Cleanup can find stale ones.
const workDirPrefix = "mtpulse-build-"

// BuildError carries the combined clone/compile log so the operator
// can see why a build failed.
type BuildError struct {
	Log string
	Err error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build failed: %v", e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// Make builds the proxy with git clone + make.
type Make struct {
	// RepoURL is the proxy source repository.
	RepoURL string

	// WorkRoot is where build workspaces are created. Empty means the
	// system temp directory.
	WorkRoot string
}

// New returns a builder for repoURL.
func New(repoURL string) *Make {
	return &Make{RepoURL: repoURL}
}

func (m *Make) workRoot() string {
	if m.WorkRoot != "" {
		return m.WorkRoot
	}
	return os.TempDir()
}

// Build clones the source and compiles it in a fresh workspace,
// returning the artifact path and the full build log. The workspace
// is left in place on failure so the log's file references resolve;
// Cleanup removes all workspaces.
func (m *Make) Build(ctx context.Context) (string, string, error) {
	dir := filepath.Join(m.workRoot(), workDirPrefix+uuid.NewString())

	var log bytes.Buffer
	run := func(workDir, name string, args ...string) error {
		fmt.Fprintf(&log, "$ %s %v\n", name, args)
		cmd := exec.CommandContext(ctx, name, args...)
		cmd.Dir = workDir
		cmd.Stdout = &log
		cmd.Stderr = &log
		return cmd.Run()
	}

	if err := run("", "git", "clone", "--depth", "1", m.RepoURL, dir); err != nil {
		return "", log.String(), &BuildError{Log: log.String(), Err: fmt.Errorf("cloning %s: %w", m.RepoURL, err)}
	}
	if err := run(dir, "make", "-j2"); err != nil {
		return "", log.String(), &BuildError{Log: log.String(), Err: fmt.Errorf("compiling: %w", err)}
	}

	artifact := filepath.Join(dir, artifactRelPath)
	if _, err := os.Stat(artifact); err != nil {
		return "", log.String(), &BuildError{Log: log.String(), Err: fmt.Errorf("build produced no artifact at %s", artifact)}
	}
	return artifact, log.String(), nil
}

// Cleanup removes every build workspace under the work root,
// including ones left by earlier failed runs. Best-effort.
func (m *Make) Cleanup() error {
	matches, err := filepath.Glob(filepath.Join(m.workRoot(), workDirPrefix+"*"))
	if err != nil {
		return err
	}
	var firstErr error
	for _, dir := range matches {
		if err := os.RemoveAll(dir); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
