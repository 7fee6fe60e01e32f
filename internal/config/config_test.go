package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Service.Unit != "mtpulse.service" {
		t.Errorf("unit = %q, want default", cfg.Service.Unit)
	}
	if cfg.Paths.InstallDir != "/opt/MTProxy" {
		t.Errorf("install_dir = %q, want default", cfg.Paths.InstallDir)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
version = 1

[service]
unit = "myproxy.service"
stat_port = 9999

[paths]
data_dir = "/srv/mtpulse"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Service.Unit != "myproxy.service" {
		t.Errorf("unit = %q", cfg.Service.Unit)
	}
	if cfg.Service.StatPort != 9999 {
		t.Errorf("stat_port = %d", cfg.Service.StatPort)
	}
	if cfg.Paths.DataDir != "/srv/mtpulse" {
		t.Errorf("data_dir = %q", cfg.Paths.DataDir)
	}
	// Unset fields keep defaults.
	if cfg.Service.RunUser != "nobody" {
		t.Errorf("run_user = %q, want default", cfg.Service.RunUser)
	}
}

func TestLoadRejectsBadVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("version = 99\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil || !strings.Contains(err.Error(), "version") {
		t.Fatalf("expected version error, got %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MTPULSE_DATA_DIR", "/tmp/mtpulse-test")
	t.Setenv("MTPULSE_UNIT", "override.service")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Paths.DataDir != "/tmp/mtpulse-test" {
		t.Errorf("data_dir = %q, want env override", cfg.Paths.DataDir)
	}
	if cfg.Service.Unit != "override.service" {
		t.Errorf("unit = %q, want env override", cfg.Service.Unit)
	}
}

func TestValidateRejectsRelativePaths(t *testing.T) {
	cfg := Default()
	cfg.Paths.DataDir = "relative/path"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for relative data_dir")
	}
}

func TestValidateRejectsBadUnitName(t *testing.T) {
	cfg := Default()
	cfg.Service.Unit = "mtpulse"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unit name without .service suffix")
	}
}

func TestDerivedPaths(t *testing.T) {
	cfg := Default()
	cfg.Paths.DataDir = "/srv/data"
	cfg.Paths.InstallDir = "/srv/bin"

	if got := cfg.BinaryPath(); got != "/srv/bin/mtproto-proxy" {
		t.Errorf("BinaryPath = %q", got)
	}
	if got := cfg.SecretFilePath(); got != "/srv/data/proxy-secret" {
		t.Errorf("SecretFilePath = %q", got)
	}
	if got := cfg.ProxyConfigPath(); got != "/srv/data/proxy-multi.conf" {
		t.Errorf("ProxyConfigPath = %q", got)
	}
}
