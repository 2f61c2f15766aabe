// Package config loads scan-run configuration from YAML.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

// Config is a full scan-run configuration.
type Config struct {
	Targets []TargetConfig `yaml:"targets"`
	Scrape  Scrape         `yaml:"scrape"`
	Cache   Cache          `yaml:"cache"`
	Publish Publish        `yaml:"publish"`
	Logging Logging        `yaml:"logging"`
}

// TargetConfig is one profile URL to scan, with an optional platform
// override for URLs detection cannot classify (shortlinks, redirects).
type TargetConfig struct {
	URL      string `yaml:"url"`
	Platform string `yaml:"platform"`
}

// Scrape holds the engine timing and auth knobs.
type Scrape struct {
	SettleDelay    Duration `yaml:"settle_delay"`
	StepDelay      Duration `yaml:"step_delay"`
	BrowserCookies bool     `yaml:"browser_cookies"`
}

// Cache controls profile caching between runs.
type Cache struct {
	Enabled bool     `yaml:"enabled"`
	TTL     Duration `yaml:"ttl"`
	Path    string   `yaml:"path"`
}

// Publish holds defaults for publish runs.
type Publish struct {
	ExpectedHandle string `yaml:"expected_handle"`
	AutoSubmit     bool   `yaml:"auto_submit"`
}

// Logging controls log output.
type Logging struct {
	Level string `yaml:"level"`
}

// Duration wraps time.Duration with YAML string parsing ("2s", "15m").
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the standard library duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// ConfigDir returns the XDG config directory for socialite.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "socialite")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/socialite/config.yaml > ./socialite.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "socialite.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./socialite.yaml\n\nRun 'socialite init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Default returns the built-in default configuration.
func Default() (*Config, error) {
	return Parse(DefaultConfigYAML)
}

// Parse parses YAML bytes into a Config, applying defaults.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{
		Scrape: Scrape{
			SettleDelay:    Duration(2 * time.Second),
			StepDelay:      Duration(3 * time.Second),
			BrowserCookies: true,
		},
		Cache: Cache{
			Enabled: true,
			TTL:     Duration(15 * time.Minute),
		},
		Logging: Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
