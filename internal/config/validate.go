package config

import (
	"errors"
	"fmt"
	"net/url"

	"spooltag/internal/services"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDevice(); err != nil {
		return services.Wrap(services.ErrConfiguration, "config", err.Error(), nil)
	}
	if err := c.validateSync(); err != nil {
		return services.Wrap(services.ErrConfiguration, "config", err.Error(), nil)
	}
	if err := c.validateLogging(); err != nil {
		return services.Wrap(services.ErrConfiguration, "config", err.Error(), nil)
	}
	if err := c.validateSimulator(); err != nil {
		return services.Wrap(services.ErrConfiguration, "config", err.Error(), nil)
	}
	return nil
}

func (c *Config) validateDevice() error {
	parsed, err := url.Parse(c.Device.URL)
	if err != nil || parsed.Host == "" {
		return fmt.Errorf("device.url %q is not a valid URL", c.Device.URL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("device.url scheme must be http or https, got %q", parsed.Scheme)
	}
	if c.Device.RequestTimeout < 0 {
		return errors.New("device.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateSync() error {
	if c.Sync.ConfirmDelayMS < 0 {
		return errors.New("sync.confirm_delay_ms must be positive")
	}
	if c.Sync.DefaultChannel < 0 {
		return errors.New("sync.default_channel must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
}

func (c *Config) validateSimulator() error {
	if c.Simulator.Channels < 1 || c.Simulator.Channels > maxChannels {
		return fmt.Errorf("simulator.channels must be between 1 and %d", maxChannels)
	}
	return nil
}
