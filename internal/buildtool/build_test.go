package buildtool

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuildErrorUnwraps(t *testing.T) {
	inner := errors.New("boom")
	err := &BuildError{Log: "some log", Err: inner}
	if !errors.Is(err, inner) {
		t.Error("BuildError does not unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "build failed") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestCleanupRemovesWorkspaces(t *testing.T) {
	root := t.TempDir()
	m := &Make{RepoURL: "unused", WorkRoot: root}

	stale := filepath.Join(root, workDirPrefix+"deadbeef")
	if err := os.MkdirAll(filepath.Join(stale, "objs"), 0755); err != nil {
		t.Fatal(err)
	}
	unrelated := filepath.Join(root, "keep-me")
	if err := os.MkdirAll(unrelated, 0755); err != nil {
		t.Fatal(err)
	}

	if err := m.Cleanup(); err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale workspace not removed")
	}
	if _, err := os.Stat(unrelated); err != nil {
		t.Error("Cleanup removed an unrelated directory")
	}
}

func TestCleanupEmptyRootIsNoop(t *testing.T) {
	m := &Make{RepoURL: "unused", WorkRoot: t.TempDir()}
	if err := m.Cleanup(); err != nil {
		t.Fatalf("Cleanup on empty root errored: %v", err)
	}
}
