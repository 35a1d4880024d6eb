// Package config loads, normalizes, and validates spooltag configuration data.
//
// It supplies repository defaults, reads TOML files, expands the optional log
// file path, and honours environment fallbacks such as SPOOLTAG_DEVICE_URL and
// SPOOLTAG_API_TOKEN. The Config type centralizes every knob the CLI and the
// device simulator need.
//
// Always obtain settings through this package so downstream code receives a
// canonical device URL, log format, and clear validation errors.
package config
