package main

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"spooltag/internal/devicesim"
	"spooltag/internal/engine"
	"spooltag/internal/services"
	"spooltag/internal/tags"
	"spooltag/internal/testsupport"
)

func TestTagsCommandListsChannels(t *testing.T) {
	env := setupCLITestEnv(t, 3)
	testsupport.MustInsert(t, env.device, 1, devicesim.Tag{Filament: testsupport.Filament("PETG", "Acme", "00FF00")})
	testsupport.MustInsert(t, env.device, 2, devicesim.Tag{})

	out, errOut, err := runCLI(t, []string{"tags"}, env.configPath)
	if err != nil {
		t.Fatalf("tags: %v", err)
	}
	requireContains(t, out, "Acme PETG")
	requireContains(t, out, "#00FF00")
	requireContains(t, out, "Empty Tag")
	requireContains(t, out, "No Tag")
	requireContains(t, errOut, "[INFO] Refreshing channels...")
	requireContains(t, errOut, "[OK] Channels refreshed successfully")
}

func TestTagsCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t, 2)
	testsupport.MustInsert(t, env.device, 0, devicesim.Tag{})

	out, _, err := runCLI(t, []string{"tags", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("tags --json: %v", err)
	}
	var records []tags.ChannelRecord
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(records) != 2 || !records[0].TagEmpty {
		t.Fatalf("unexpected records %+v", records)
	}
}

func TestTagsCommandReportsDeviceFailureOnce(t *testing.T) {
	env := setupCLITestEnv(t, 1)
	env.device.FailNext("tags", devicesim.Failure{Status: 503, Message: "Klippy not ready"})

	_, errOut, err := runCLI(t, []string{"tags"}, env.configPath)
	if err == nil {
		t.Fatal("expected failure")
	}
	if !isReported(err) || !errors.Is(err, services.ErrTransport) {
		t.Fatalf("expected reported transport error, got %v", err)
	}
	requireContains(t, errOut, "[ERROR] Failed to refresh channels: Klippy not ready")
}

func TestShowCommandGatesReadOnlyTag(t *testing.T) {
	env := setupCLITestEnv(t, 2)
	testsupport.MustInsert(t, env.device, 1, devicesim.Tag{
		Type:     devicesim.TagM1,
		Filament: testsupport.Filament("PLA", "Snapmaker", "FFFFFF"),
	})

	out, errOut, err := runCLI(t, []string{"show", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, errOut, "[INFO] Refreshing channel 1...")
	requireContains(t, out, "== Channel 1 ==")
	requireContains(t, out, "Snapmaker PLA")
	requireContains(t, out, "Writable:")
	requireContains(t, out, "M1 (Snapmaker) tags are read-only. Use an NTAG tag instead.")
}

func TestWriteCommandProgramsTag(t *testing.T) {
	env := setupCLITestEnv(t, 2)
	testsupport.MustInsert(t, env.device, 1, devicesim.Tag{})

	args := []string{"write", "1", "--type", "PETG", "--brand", "Acme", "--color", "00FF00", "-f", "color2=FF0000", "-f", "weight=750"}
	out, errOut, err := runCLI(t, args, env.configPath)
	if err != nil {
		t.Fatalf("write: %v\n%s", err, errOut)
	}
	requireContains(t, errOut, "[INFO] Writing tag...")
	requireContains(t, errOut, "[OK] Tag written and verified successfully on channel 1")
	requireContains(t, out, "Acme PETG")
	requireContains(t, out, "750 g")

	rec, err := env.device.Record(1)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	f := rec.ProgrammedFilament()
	if f == nil || f.MinTemp.Text() != "220" {
		t.Fatalf("expected PETG default min temp, got %+v", f)
	}
	if len(f.AdditionalColorHexes) != 1 || f.AdditionalColorHexes[0].Text() != "FF0000" {
		t.Fatalf("unexpected additional colours %+v", f.AdditionalColorHexes)
	}
}

func TestWriteCommandDryRun(t *testing.T) {
	env := setupCLITestEnv(t, 1)
	testsupport.MustInsert(t, env.device, 0, devicesim.Tag{Filament: testsupport.Filament("ABS", "Acme", "112233")})

	out, _, err := runCLI(t, []string{"write", "0", "--dry-run", "-f", "max_temp=235.9"}, env.configPath)
	if err != nil {
		t.Fatalf("write --dry-run: %v", err)
	}
	var got struct {
		Form    map[string][]string `json:"form"`
		Payload struct {
			Type    string `json:"type"`
			Brand   string `json:"brand"`
			MinTemp int    `json:"min_temp"`
			MaxTemp int    `json:"max_temp"`
		} `json:"payload"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if got.Payload.Type != "ABS" || got.Payload.Brand != "Acme" {
		t.Fatalf("expected payload from tag contents, got %+v", got.Payload)
	}
	if got.Payload.MinTemp != 230 || got.Payload.MaxTemp != 235 {
		t.Fatalf("expected ABS default and truncated override, got %+v", got.Payload)
	}
	if v := got.Form["brand"]; len(v) != 1 || v[0] != "Acme" {
		t.Fatalf("expected form data to carry brand, got %v", got.Form)
	}

	rec, _ := env.device.Record(0)
	if f := rec.ProgrammedFilament(); f == nil || f.MaxTemp.Present() {
		t.Fatalf("dry run must not write, got %+v", rec)
	}
}

func TestWriteCommandValidation(t *testing.T) {
	env := setupCLITestEnv(t, 1)
	testsupport.MustInsert(t, env.device, 0, devicesim.Tag{})

	_, errOut, err := runCLI(t, []string{"write", "0", "-f", "diameter=abc"}, env.configPath)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	requireContains(t, errOut, "[ERROR] Write failed: diameter must be a number")

	if _, _, err := runCLI(t, []string{"write", "0", "-f", "channel=3"}, env.configPath); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected channel field to be rejected, got %v", err)
	}
	if _, _, err := runCLI(t, []string{"write", "0", "-f", "nonsense"}, env.configPath); err == nil {
		t.Fatal("expected malformed field pair to fail")
	}
}

func TestEraseCommandRequiresConfirmation(t *testing.T) {
	env := setupCLITestEnv(t, 1)
	testsupport.MustInsert(t, env.device, 0, devicesim.Tag{Filament: testsupport.Filament("PLA", "Acme", "FFFFFF")})

	_, errOut, err := runCLI(t, []string{"erase", "0"}, env.configPath)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	requireContains(t, errOut, "[ERROR] Please confirm tag erasure")

	out, errOut, err := runCLI(t, []string{"erase", "0", "--yes"}, env.configPath)
	if err != nil {
		t.Fatalf("erase --yes: %v", err)
	}
	requireContains(t, errOut, "[OK] Tag erased and verified on channel 0")
	requireContains(t, out, "Empty Tag")
}

func TestMaterialsCommand(t *testing.T) {
	out, _, err := runCLI(t, []string{"materials"}, "")
	if err != nil {
		t.Fatalf("materials: %v", err)
	}
	requireContains(t, out, "PETG")
	requireContains(t, out, "220-250°C")
}

func TestConfigInitShowValidate(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	target := filepath.Join(t.TempDir(), "config.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, target)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	t.Setenv("SPOOLTAG_API_TOKEN", "secret-token")
	out, _, err = runCLI(t, []string{"config", "show"}, target)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "# source: "+target)
	requireContains(t, out, "********")
	if strings.Contains(out, "secret-token") {
		t.Fatalf("expected token to be masked:\n%s", out)
	}
}

func TestDeviceFlagOverridesConfig(t *testing.T) {
	env := setupCLITestEnv(t, 1)
	other := testsupport.NewDevice(t, 4)

	out, _, err := runCLI(t, []string{"--device", other.URL(), "tags", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("tags: %v", err)
	}
	var records []tags.ChannelRecord
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected records from the overriding device, got %d", len(records))
	}
}

func TestSeedDemoTags(t *testing.T) {
	dev := devicesim.NewDevice(2)
	if err := seedDemoTags(dev); err != nil {
		t.Fatalf("seedDemoTags: %v", err)
	}
	programmed, _ := dev.Record(0)
	if programmed.ProgrammedFilament() == nil {
		t.Fatalf("expected programmed tag on channel 0, got %+v", programmed)
	}
	blank, _ := dev.Record(1)
	if !blank.TagEmpty {
		t.Fatalf("expected blank tag on channel 1, got %+v", blank)
	}
}

func TestParseChannel(t *testing.T) {
	if ch, err := parseChannel(" 3 "); err != nil || ch != 3 {
		t.Fatalf("parseChannel: %d, %v", ch, err)
	}
	for _, raw := range []string{"-1", "x", ""} {
		if _, err := parseChannel(raw); err == nil {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}

func TestRenderStatusLine(t *testing.T) {
	if got := renderStatusLine(engine.StatusError, "Erase failed: x", false); got != "[ERROR] Erase failed: x" {
		t.Fatalf("unexpected line %q", got)
	}
	colored := renderStatusLine(engine.StatusSuccess, "ok", true)
	if !strings.HasPrefix(colored, ansiGreen) || !strings.HasSuffix(colored, ansiReset) {
		t.Fatalf("expected green line, got %q", colored)
	}
}
