package testsupport

import (
	"path/filepath"
	"testing"

	"spooltag/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config with a per-test log file and a short
// confirmation delay. It applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Logging.File = filepath.Join(base, "logs", "spooltag.log")
	cfgVal.Sync.ConfirmDelayMS = 10
	cfgVal.Simulator.Bind = "127.0.0.1:0"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithDeviceURL points the config at a device, usually a Device from NewDevice.
func WithDeviceURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Device.URL = url
	}
}

// WithAPIToken sets the bearer token on the test config.
func WithAPIToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Device.APIToken = token
	}
}

// WithConfirmDelay overrides the confirmation delay in milliseconds.
func WithConfirmDelay(ms int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sync.ConfirmDelayMS = ms
	}
}
