// Package config loads the mtpulse settings file. All values have
// working defaults; the file and the MTPULSE_* environment overrides
// exist for non-standard hosts (alternate unit directory, self-hosted
// mirrors, test rigs).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultPath is where mtpulse looks for its settings file.
const DefaultPath = "/etc/mtpulse/config.toml"

// ConfigVersion is the current supported settings schema version.
const ConfigVersion = 1

// Config holds the tool's own settings: where the proxy lives, which
// unit supervises it, and which external endpoints supply its
// collaborator files. It does not hold proxy runtime configuration;
// that lives in the service descriptor's invocation line.
type Config struct {
	Version int `toml:"version"`

	Service struct {
		Unit     string `toml:"unit"`
		RunUser  string `toml:"run_user"`
		StatPort int    `toml:"stat_port"`
		Workers  int    `toml:"workers"`
	} `toml:"service"`

	Paths struct {
		InstallDir string `toml:"install_dir"`
		DataDir    string `toml:"data_dir"`
		UnitDir    string `toml:"unit_dir"`
	} `toml:"paths"`

	Source struct {
		Repo      string `toml:"repo"`
		SecretURL string `toml:"secret_url"`
		ConfigURL string `toml:"config_url"`
		IPURL     string `toml:"ip_url"`
	} `toml:"source"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{Version: ConfigVersion}
	cfg.Service.Unit = "mtpulse.service"
	cfg.Service.RunUser = "nobody"
	cfg.Service.StatPort = 8888
	cfg.Service.Workers = 1
	cfg.Paths.InstallDir = "/opt/MTProxy"
	cfg.Paths.DataDir = "/var/lib/mtpulse"
	cfg.Paths.UnitDir = "/etc/systemd/system"
	cfg.Source.Repo = "https://github.com/TelegramMessenger/MTProxy"
	cfg.Source.SecretURL = "https://core.telegram.org/getProxySecret"
	cfg.Source.ConfigURL = "https://core.telegram.org/getProxyConfig"
	cfg.Source.IPURL = "https://api.ipify.org"
	return cfg
}

// Load reads the settings file (MTPULSE_CONFIG overrides the default
// location), applies environment overrides, and validates. A missing
// file is not an error; defaults apply.
func Load() (*Config, error) {
	path := os.Getenv("MTPULSE_CONFIG")
	if path == "" {
		path = DefaultPath
	}
	return LoadFrom(path)
}

// LoadFrom reads settings from an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays MTPULSE_* environment variables. These exist so
// tests and one-off runs can redirect filesystem paths without a file.
func (c *Config) applyEnv() {
	if v := os.Getenv("MTPULSE_UNIT"); v != "" {
		c.Service.Unit = v
	}
	if v := os.Getenv("MTPULSE_INSTALL_DIR"); v != "" {
		c.Paths.InstallDir = v
	}
	if v := os.Getenv("MTPULSE_DATA_DIR"); v != "" {
		c.Paths.DataDir = v
	}
	if v := os.Getenv("MTPULSE_UNIT_DIR"); v != "" {
		c.Paths.UnitDir = v
	}
}

// Validate checks the settings for values the rest of the tool relies on.
func (c *Config) Validate() error {
	if c.Version != ConfigVersion {
		return fmt.Errorf("unsupported config version %d (want %d)", c.Version, ConfigVersion)
	}
	if !strings.HasSuffix(c.Service.Unit, ".service") {
		return fmt.Errorf("service unit %q must end in .service", c.Service.Unit)
	}
	if c.Service.RunUser == "" {
		return fmt.Errorf("service run_user must not be empty")
	}
	if c.Service.Workers < 1 {
		return fmt.Errorf("service workers must be at least 1")
	}
	for name, dir := range map[string]string{
		"install_dir": c.Paths.InstallDir,
		"data_dir":    c.Paths.DataDir,
		"unit_dir":    c.Paths.UnitDir,
	} {
		if !filepath.IsAbs(dir) {
			return fmt.Errorf("paths.%s %q must be absolute", name, dir)
		}
	}
	return nil
}

// BinaryPath is where the built proxy binary is installed.
func (c *Config) BinaryPath() string {
	return filepath.Join(c.Paths.InstallDir, "mtproto-proxy")
}

// SecretFilePath is where the downloaded proxy secret blob lives.
func (c *Config) SecretFilePath() string {
	return filepath.Join(c.Paths.DataDir, "proxy-secret")
}

// ProxyConfigPath is where the downloaded proxy config blob lives.
func (c *Config) ProxyConfigPath() string {
	return filepath.Join(c.Paths.DataDir, "proxy-multi.conf")
}

// IPCachePath is where the first successful public-address lookup is
// cached. Removed on uninstall.
func (c *Config) IPCachePath() string {
	return filepath.Join(c.Paths.DataDir, "public-ip")
}

// SetupMarkerPath gates the once-per-host package installation.
func (c *Config) SetupMarkerPath() string {
	return filepath.Join(c.Paths.DataDir, ".packages-installed")
}

// LockPath is the cross-process lock taken around mutating operations.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "mtpulse.lock")
}
