package testsupport

import (
	"net/http/httptest"
	"testing"

	"spooltag/internal/devicesim"
	"spooltag/internal/tags"
)

// Device is a simulated RFID service running on httptest.
type Device struct {
	*devicesim.Device
	Server *httptest.Server
}

// URL returns the Moonraker root, suitable for config.Device.URL.
func (d *Device) URL() string { return d.Server.URL }

// BaseURL returns the RFID component root, suitable for rfidapi.NewClient.
func (d *Device) BaseURL() string { return d.Server.URL + devicesim.DefaultBasePath }

// NewDevice starts a simulator with the given channel count and registers
// cleanup.
func NewDevice(t testing.TB, channels int, opts ...devicesim.Options) *Device {
	t.Helper()

	var o devicesim.Options
	if len(opts) > 0 {
		o = opts[0]
	}
	dev := devicesim.NewDevice(channels)
	srv := httptest.NewServer(devicesim.NewServer(dev, o))
	t.Cleanup(srv.Close)
	return &Device{Device: dev, Server: srv}
}

// Filament builds programmed filament data with the identifying fields set.
func Filament(materialType, brand, colorHex string) *tags.FilamentData {
	return &tags.FilamentData{
		Type:     tags.Str(materialType),
		Brand:    tags.Str(brand),
		ColorHex: tags.Str(colorHex),
		Diameter: tags.Num(1.75),
	}
}

// MustInsert places a tag and fails the test on error.
func MustInsert(t testing.TB, d *Device, channel int, tag devicesim.Tag) {
	t.Helper()
	if err := d.Insert(channel, tag); err != nil {
		t.Fatalf("insert tag on channel %d: %v", channel, err)
	}
}
