package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"spooltag/internal/config"
	"spooltag/internal/engine"
	"spooltag/internal/logging"
	"spooltag/internal/rfidapi"
)

type commandContext struct {
	configFlag *string
	deviceFlag *string
	verbose    *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, deviceFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		deviceFlag: deviceFlag,
		verbose:    verbose,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.configPath = resolved
		c.configSeen = exists
		if c.deviceFlag != nil {
			if url := strings.TrimSpace(*c.deviceFlag); url != "" {
				if !strings.Contains(url, "://") {
					url = "http://" + url
				}
				cfg.Device.URL = url
				if err := cfg.Validate(); err != nil {
					c.configErr = err
					return
				}
			}
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureLogger writes to the configured log file, and to stderr only with
// --verbose so status lines stay readable.
func (c *commandContext) ensureLogger(cmd *cobra.Command) (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		opts := logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format}
		if cfg.Logging.File != "" {
			opts.OutputPaths = []string{cfg.Logging.File}
		}
		if c.verbose != nil && *c.verbose {
			opts.Console = cmd.ErrOrStderr()
		}
		if len(opts.OutputPaths) == 0 && opts.Console == nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.New(opts)
		if err != nil {
			c.loggerErr = fmt.Errorf("init logger: %w", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// newEngine builds a session against the configured device with status
// lines rendered on stderr.
func (c *commandContext) newEngine(cmd *cobra.Command) (*engine.Engine, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger(cmd)
	if err != nil {
		return nil, err
	}
	client, err := rfidapi.NewConfiguredClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	opts := engine.OptionsFromConfig(cfg)
	opts.Logger = logger
	opts.Status = newStatusPrinter(cmd.ErrOrStderr())
	return engine.New(client, opts), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
