package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Device contains connection settings for the RFID service.
type Device struct {
	URL            string `toml:"url"`
	BasePath       string `toml:"base_path"`
	APIToken       string `toml:"api_token"`
	APIKey         string `toml:"api_key"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Sync contains settings for the tag editing session.
type Sync struct {
	// ConfirmDelayMS is how long to wait after a write or erase before
	// re-reading the channel. Default: 1000
	ConfirmDelayMS int `toml:"confirm_delay_ms"`
	DefaultChannel int `toml:"default_channel"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Simulator contains settings for the offline device simulator.
type Simulator struct {
	Bind     string `toml:"bind"`
	Channels int    `toml:"channels"`
}

// Config encapsulates all configuration values for spooltag.
//
// Configuration sections:
//   - Device: RFID service location and credentials
//   - Sync: confirmation timing and initial channel selection
//   - Logging: log format, level, and optional file output
//   - Simulator: bind address and channel count for `spooltag simulate`
type Config struct {
	Device    Device    `toml:"device"`
	Sync      Sync      `toml:"sync"`
	Logging   Logging   `toml:"logging"`
	Simulator Simulator `toml:"simulator"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. Missing files are
// not an error; defaults and environment fallbacks apply.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file).DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigFile)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// DeviceBaseURL joins the device URL and the RFID component path.
func (c *Config) DeviceBaseURL() string {
	return strings.TrimRight(c.Device.URL, "/") + c.Device.BasePath
}

// RequestTimeout returns the per-request transport timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Device.RequestTimeout) * time.Second
}

// ConfirmDelay returns the delay before the post-write confirmation read.
func (c *Config) ConfirmDelay() time.Duration {
	return time.Duration(c.Sync.ConfirmDelayMS) * time.Millisecond
}

// Encode renders the configuration as TOML. Credentials are masked unless
// revealSecrets is set.
func (c *Config) Encode(revealSecrets bool) ([]byte, error) {
	out := *c
	if !revealSecrets {
		out.Device.APIToken = mask(out.Device.APIToken)
		out.Device.APIKey = mask(out.Device.APIKey)
	}
	data, err := toml.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
