package devicesim_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"spooltag/internal/devicesim"
	"spooltag/internal/form"
	"spooltag/internal/tags"
)

type envelope struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func do(t *testing.T, h http.Handler, method, path string, body any, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return w, env
}

func TestListTagsReportsEveryChannel(t *testing.T) {
	dev := devicesim.NewDevice(3)
	if err := dev.InsertBlank(1); err != nil {
		t.Fatalf("insert: %v", err)
	}
	srv := devicesim.NewServer(dev, devicesim.Options{})

	w, env := do(t, srv, http.MethodGet, "/server/rfid/tags", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var list struct {
		Channels []tags.ChannelRecord `json:"channels"`
	}
	if err := json.Unmarshal(env.Result, &list); err != nil {
		t.Fatalf("decode channels: %v", err)
	}
	if len(list.Channels) != 3 {
		t.Fatalf("expected 3 channels, got %d", len(list.Channels))
	}
	if list.Channels[0].TagPresent {
		t.Fatal("expected channel 0 to be empty")
	}
	if !list.Channels[1].TagPresent || !list.Channels[1].TagEmpty || list.Channels[1].UID == "" {
		t.Fatalf("expected blank tag on channel 1, got %+v", list.Channels[1])
	}
}

func TestGetTagInvalidChannel(t *testing.T) {
	srv := devicesim.NewServer(devicesim.NewDevice(4), devicesim.Options{})
	w, env := do(t, srv, http.MethodGet, "/server/rfid/tags/9", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if env.Error == nil || env.Error.Message != "Invalid channel: 9. Must be 0-3" {
		t.Fatalf("unexpected error body %s", w.Body.String())
	}
}

func TestWriteThenReadBack(t *testing.T) {
	dev := devicesim.NewDevice(2)
	if err := dev.InsertBlank(0); err != nil {
		t.Fatalf("insert: %v", err)
	}
	srv := devicesim.NewServer(dev, devicesim.Options{Bare: true})

	minTemp := 230
	payload := form.WritePayload{
		Channel:  0,
		Type:     "abs",
		Brand:    "Generic",
		ColorHex: "FF0000",
		Diameter: 1.75,
		Alpha:    "80",
		Color3:   "00FF00",
		MinTemp:  &minTemp,
	}
	w := httptest.NewRecorder()
	body, _ := json.Marshal(payload)
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/server/rfid/write_openspool", bytes.NewReader(body)))

	var res devicesim.Result
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if !res.Success || !res.Verified {
		t.Fatalf("expected verified write, got %+v", res)
	}
	if res.Message != "Tag written and verified successfully on channel 0" {
		t.Fatalf("unexpected message %q", res.Message)
	}

	rec, err := dev.Record(0)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	f := rec.ProgrammedFilament()
	if f == nil {
		t.Fatalf("expected programmed tag, got %+v", rec)
	}
	if f.Type.Text() != "ABS" || f.Alpha.Text() != "80" || f.MinTemp.Text() != "230" {
		t.Fatalf("unexpected filament %+v", f)
	}
	if len(f.AdditionalColorHexes) != 1 || f.AdditionalColorHexes[0].Text() != "00FF00" {
		t.Fatalf("unexpected additional colours %+v", f.AdditionalColorHexes)
	}
}

func TestWriteRejectsReadOnlyAndMissingTags(t *testing.T) {
	dev := devicesim.NewDevice(2)
	if err := dev.Insert(1, devicesim.Tag{Type: devicesim.TagM1}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	payload := form.WritePayload{Type: "PLA", Brand: "Generic", ColorHex: "FFFFFF", Diameter: 1.75}

	if res := dev.Write(payload); res.Success || res.Error != "No tag detected on channel 0" {
		t.Fatalf("unexpected result for empty channel %+v", res)
	}
	payload.Channel = 1
	if res := dev.Write(payload); res.Success || !strings.Contains(res.Error, "read-only") {
		t.Fatalf("unexpected result for M1 tag %+v", res)
	}
}

func TestEraseRequiresConfirmation(t *testing.T) {
	dev := devicesim.NewDevice(1)
	if err := dev.Insert(0, devicesim.Tag{Filament: &tags.FilamentData{Brand: tags.Str("Generic")}}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if res := dev.Erase(form.ErasePayload{Channel: 0}); res.Success {
		t.Fatal("expected unconfirmed erase to fail")
	}
	res := dev.Erase(form.ErasePayload{Channel: 0, Confirm: true})
	if !res.Success || !res.Verified {
		t.Fatalf("expected verified erase, got %+v", res)
	}
	rec, _ := dev.Record(0)
	if !rec.TagEmpty {
		t.Fatalf("expected empty tag after erase, got %+v", rec)
	}
}

func TestFailNextInjectsOneFailure(t *testing.T) {
	dev := devicesim.NewDevice(1)
	srv := devicesim.NewServer(dev, devicesim.Options{})
	dev.FailNext("tags", devicesim.Failure{Status: http.StatusServiceUnavailable, Message: "Klippy not ready"})

	w, env := do(t, srv, http.MethodGet, "/server/rfid/tags", nil)
	if w.Code != http.StatusServiceUnavailable || env.Error == nil || env.Error.Message != "Klippy not ready" {
		t.Fatalf("expected injected failure, got %d %s", w.Code, w.Body.String())
	}
	if w, _ := do(t, srv, http.MethodGet, "/server/rfid/tags", nil); w.Code != http.StatusOK {
		t.Fatalf("expected failure to be one-shot, got %d", w.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	srv := devicesim.NewServer(devicesim.NewDevice(1), devicesim.Options{Token: "secret"})

	if w, _ := do(t, srv, http.MethodGet, "/server/rfid/tags", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without credentials, got %d", w.Code)
	}
	if w, _ := do(t, srv, http.MethodGet, "/server/rfid/tags", nil, "Authorization", "Bearer secret"); w.Code != http.StatusOK {
		t.Fatalf("expected bearer token to pass, got %d", w.Code)
	}
	if w, _ := do(t, srv, http.MethodGet, "/server/rfid/tags", nil, "X-Api-Key", "secret"); w.Code != http.StatusOK {
		t.Fatalf("expected api key to pass, got %d", w.Code)
	}
}
