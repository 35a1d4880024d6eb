package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeDevice()
	c.normalizeSync()
	if err := c.normalizeLogging(); err != nil {
		return err
	}
	c.normalizeSimulator()
	return nil
}

func (c *Config) normalizeDevice() {
	if value, ok := os.LookupEnv("SPOOLTAG_DEVICE_URL"); ok && strings.TrimSpace(value) != "" {
		c.Device.URL = value
	}
	c.Device.URL = strings.TrimRight(strings.TrimSpace(c.Device.URL), "/")
	if c.Device.URL == "" {
		c.Device.URL = defaultDeviceURL
	}
	if !strings.Contains(c.Device.URL, "://") {
		c.Device.URL = "http://" + c.Device.URL
	}

	c.Device.BasePath = strings.TrimRight(strings.TrimSpace(c.Device.BasePath), "/")
	if c.Device.BasePath == "" {
		c.Device.BasePath = defaultBasePath
	}
	if !strings.HasPrefix(c.Device.BasePath, "/") {
		c.Device.BasePath = "/" + c.Device.BasePath
	}

	if c.Device.APIToken == "" {
		if value, ok := os.LookupEnv("SPOOLTAG_API_TOKEN"); ok {
			c.Device.APIToken = value
		}
	}
	c.Device.APIToken = strings.TrimSpace(c.Device.APIToken)
	if c.Device.APIKey == "" {
		if value, ok := os.LookupEnv("SPOOLTAG_API_KEY"); ok {
			c.Device.APIKey = value
		}
	}
	c.Device.APIKey = strings.TrimSpace(c.Device.APIKey)

	if c.Device.RequestTimeout == 0 {
		c.Device.RequestTimeout = defaultRequestTimeout
	}
}

func (c *Config) normalizeSync() {
	if c.Sync.ConfirmDelayMS == 0 {
		c.Sync.ConfirmDelayMS = defaultConfirmDelayMS
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "json":
	default:
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	var err error
	if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}

func (c *Config) normalizeSimulator() {
	c.Simulator.Bind = strings.TrimSpace(c.Simulator.Bind)
	if c.Simulator.Bind == "" {
		c.Simulator.Bind = defaultSimulatorBind
	}
	if c.Simulator.Channels == 0 {
		c.Simulator.Channels = defaultSimulatorSlots
	}
}
