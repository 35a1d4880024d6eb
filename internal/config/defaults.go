package config

const (
	defaultConfigPath     = "~/.config/spooltag/config.toml"
	projectConfigFile     = "spooltag.toml"
	defaultDeviceURL      = "http://127.0.0.1:7125"
	defaultBasePath       = "/server/rfid"
	defaultRequestTimeout = 10
	defaultConfirmDelayMS = 1000
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultSimulatorBind  = "127.0.0.1:7125"
	defaultSimulatorSlots = 4
	maxChannels           = 16
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Device: Device{
			URL:            defaultDeviceURL,
			BasePath:       defaultBasePath,
			RequestTimeout: defaultRequestTimeout,
		},
		Sync: Sync{
			ConfirmDelayMS: defaultConfirmDelayMS,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Simulator: Simulator{
			Bind:     defaultSimulatorBind,
			Channels: defaultSimulatorSlots,
		},
	}
}
