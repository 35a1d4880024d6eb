package form_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"spooltag/internal/form"
	"spooltag/internal/services"
	"spooltag/internal/tags"
)

func baseValues() form.Values {
	return form.Values{
		Channel:  1,
		Type:     "PLA",
		Brand:    "Generic",
		ColorHex: "FFFFFFFF",
		Diameter: "1.75",
	}
}

func TestEncodeWriteSplitsPrimaryColour(t *testing.T) {
	v := baseValues()
	v.ColorHex = "00FF0073"
	p, err := form.EncodeWrite(v, form.NewColorTracker())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if p.ColorHex != "00FF00" || p.Alpha != "73" {
		t.Fatalf("expected 00FF00/73, got %s/%s", p.ColorHex, p.Alpha)
	}

	v.ColorHex = "#0000ff"
	p, err = form.EncodeWrite(v, form.NewColorTracker())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if p.ColorHex != "0000FF" || p.Alpha != "" {
		t.Fatalf("expected 0000FF without alpha, got %s/%q", p.ColorHex, p.Alpha)
	}
	body, _ := json.Marshal(p)
	if strings.Contains(string(body), "alpha") {
		t.Fatalf("opaque alpha should be omitted: %s", body)
	}
}

func TestEncodeWriteMaterialDefaults(t *testing.T) {
	v := baseValues()
	v.Type = "ABS"
	p, err := form.EncodeWrite(v, nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if p.MinTemp == nil || *p.MinTemp != 230 || p.MaxTemp == nil || *p.MaxTemp != 260 {
		t.Fatalf("expected ABS defaults, got %v/%v", p.MinTemp, p.MaxTemp)
	}
	if p.Density == nil || *p.Density != 1.04 {
		t.Fatalf("expected ABS density, got %v", p.Density)
	}
	if p.BedMinTemp == nil || *p.BedMinTemp != 90 || p.BedMaxTemp == nil || *p.BedMaxTemp != 110 {
		t.Fatalf("expected ABS bed defaults, got %v/%v", p.BedMinTemp, p.BedMaxTemp)
	}

	v.MinTemp = "235.9"
	p, err = form.EncodeWrite(v, nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if *p.MinTemp != 235 || *p.MaxTemp != 260 {
		t.Fatalf("expected override 235 with default 260, got %d/%d", *p.MinTemp, *p.MaxTemp)
	}
}

func TestEncodeWriteUnknownMaterialOmitsOptionalFields(t *testing.T) {
	v := baseValues()
	v.Type = "EXOTIC"
	p, err := form.EncodeWrite(v, nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	body, _ := json.Marshal(p)
	for _, key := range []string{"density", "min_temp", "max_temp", "bed_min_temp", "bed_max_temp", "weight", "subtype"} {
		if strings.Contains(string(body), `"`+key+`"`) {
			t.Fatalf("expected %s to be omitted: %s", key, body)
		}
	}
}

func TestEncodeWriteOnlySendsTouchedSlots(t *testing.T) {
	rec := tags.ChannelRecord{
		Channel:    0,
		TagPresent: true,
		Filament: &tags.FilamentData{
			Type:                 tags.Str("PLA"),
			Brand:                tags.Str("Generic"),
			ColorHex:             tags.Str("FFFFFF"),
			AdditionalColorHexes: []tags.Value{tags.Str("FF0000")},
		},
	}
	s := form.NewSynchronizer(form.Widgets{})
	s.Load(rec)
	// A stale value in an untouched slot must not leak into the payload.
	v := s.Values()
	v.Color3 = "00FF00"

	p, err := form.EncodeWrite(v, trackerFor(s))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if p.Color2 != "FF0000" {
		t.Fatalf("expected color2 FF0000, got %q", p.Color2)
	}
	if p.Color3 != "" || p.Color4 != "" || p.Color5 != "" {
		t.Fatalf("expected only color2, got %+v", p)
	}
}

func TestEncodeWriteValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*form.Values)
		want   string
	}{
		{"missing type", func(v *form.Values) { v.Type = " " }, "type is required"},
		{"missing brand", func(v *form.Values) { v.Brand = "" }, "brand is required"},
		{"short colour", func(v *form.Values) { v.ColorHex = "FFF" }, "color_hex"},
		{"non hex colour", func(v *form.Values) { v.ColorHex = "GGGGGG" }, "color_hex must be hexadecimal"},
		{"bad diameter", func(v *form.Values) { v.Diameter = "wide" }, "diameter must be a number"},
		{"zero diameter", func(v *form.Values) { v.Diameter = "0" }, "diameter must be greater than 0"},
		{"bad temp", func(v *form.Values) { v.MinTemp = "hot" }, "min_temp must be a number"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := baseValues()
			tc.mutate(&v)
			_, err := form.EncodeWrite(v, nil)
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if msg := services.UserMessage(err); !strings.Contains(msg, tc.want) {
				t.Fatalf("expected message containing %q, got %q", tc.want, msg)
			}
		})
	}
}

func TestEncodeWriteRejectsBadSlotColour(t *testing.T) {
	tracker := form.NewColorTracker()
	tracker.Touch(4)
	v := baseValues()
	v.Color4 = "12345"
	_, err := form.EncodeWrite(v, tracker)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestEncodeErase(t *testing.T) {
	if _, err := form.EncodeErase(2, false); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected unconfirmed erase to be refused, got %v", err)
	} else if services.UserMessage(err) != form.EraseConfirmMessage {
		t.Fatalf("unexpected message %q", services.UserMessage(err))
	}
	p, err := form.EncodeErase(2, true)
	if err != nil {
		t.Fatalf("erase: %v", err)
	}
	if p.Channel != 2 || !p.Confirm {
		t.Fatalf("unexpected payload %+v", p)
	}
}

func TestProjectEncodeRoundTrip(t *testing.T) {
	rec := tags.ChannelRecord{
		Channel:    4,
		TagPresent: true,
		Filament: &tags.FilamentData{
			Type:                 tags.Str("PETG"),
			Brand:                tags.Str("Prusament"),
			ColorHex:             tags.Str("112233"),
			Alpha:                tags.Str("80"),
			AdditionalColorHexes: []tags.Value{tags.Str("AABBCC"), tags.Str("DDEEFF")},
			Diameter:             tags.Num(1.75),
			MinTemp:              tags.Num(240),
			MaxTemp:              tags.Num(250),
			BedMinTemp:           tags.Num(80),
			BedMaxTemp:           tags.Num(85),
			Density:              tags.Num(1.27),
			Weight:               tags.Num(750),
		},
	}
	s := form.NewSynchronizer(form.Widgets{})
	s.Load(rec)
	p, err := s.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	// Feed the payload back as the tag would report it after a write.
	back := tags.ChannelRecord{
		Channel:    p.Channel,
		TagPresent: true,
		Filament: &tags.FilamentData{
			Type:                 tags.Str(p.Type),
			Brand:                tags.Str(p.Brand),
			ColorHex:             tags.Str(p.ColorHex),
			Alpha:                tags.Str(p.Alpha),
			AdditionalColorHexes: []tags.Value{tags.Str(p.Color2), tags.Str(p.Color3)},
			Diameter:             tags.Num(p.Diameter),
			MinTemp:              tags.Num(float64(*p.MinTemp)),
			MaxTemp:              tags.Num(float64(*p.MaxTemp)),
			BedMinTemp:           tags.Num(float64(*p.BedMinTemp)),
			BedMaxTemp:           tags.Num(float64(*p.BedMaxTemp)),
			Density:              tags.Num(*p.Density),
			Weight:               tags.Num(*p.Weight),
		},
	}
	s2 := form.NewSynchronizer(form.Widgets{})
	s2.Load(back)
	if s2.Values() != s.Values() {
		t.Fatalf("round trip changed values\n got %+v\nwant %+v", s2.Values(), s.Values())
	}
	p2, err := s2.Encode()
	if err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	b1, _ := json.Marshal(p)
	b2, _ := json.Marshal(p2)
	if string(b1) != string(b2) {
		t.Fatalf("payload not stable\n%s\n%s", b1, b2)
	}
}

func trackerFor(s *form.Synchronizer) *form.ColorTracker {
	t := form.NewColorTracker()
	for _, slot := range s.TouchedSlots() {
		t.Touch(slot)
	}
	return t
}
