package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"spooltag/internal/testsupport"
)

type cliTestEnv struct {
	device     *testsupport.Device
	configPath string
}

func setupCLITestEnv(t *testing.T, channels int) *cliTestEnv {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("SPOOLTAG_DEVICE_URL", "")
	t.Setenv("SPOOLTAG_API_TOKEN", "")
	t.Setenv("SPOOLTAG_API_KEY", "")
	dev := testsupport.NewDevice(t, channels)
	cfg := testsupport.NewConfig(t, testsupport.WithDeviceURL(dev.URL()))
	data, err := cfg.Encode(true)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	configPath := filepath.Join(t.TempDir(), "spooltag.toml")
	testsupport.WriteFile(t, configPath, string(data))
	return &cliTestEnv{device: dev, configPath: configPath}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}
