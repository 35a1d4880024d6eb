package form

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"spooltag/internal/material"
	"spooltag/internal/services"
)

// WritePayload is the body of POST /write_openspool.
type WritePayload struct {
	Channel    int      `json:"channel" validate:"gte=0"`
	Type       string   `json:"type" validate:"required"`
	Brand      string   `json:"brand" validate:"required"`
	ColorHex   string   `json:"color_hex" validate:"len=6,rgbhex"`
	Diameter   float64  `json:"diameter" validate:"gt=0"`
	Subtype    string   `json:"subtype,omitempty"`
	Density    *float64 `json:"density,omitempty"`
	MinTemp    *int     `json:"min_temp,omitempty"`
	MaxTemp    *int     `json:"max_temp,omitempty"`
	Alpha      string   `json:"alpha,omitempty" validate:"omitempty,len=2,rgbhex"`
	Color2     string   `json:"color2,omitempty" validate:"omitempty,len=6,rgbhex"`
	Color3     string   `json:"color3,omitempty" validate:"omitempty,len=6,rgbhex"`
	Color4     string   `json:"color4,omitempty" validate:"omitempty,len=6,rgbhex"`
	Color5     string   `json:"color5,omitempty" validate:"omitempty,len=6,rgbhex"`
	BedMinTemp *int     `json:"bed_min_temp,omitempty"`
	BedMaxTemp *int     `json:"bed_max_temp,omitempty"`
	Weight     *float64 `json:"weight,omitempty"`
}

// Slot returns the encoded value of a secondary colour slot.
func (p WritePayload) Slot(s Slot) string {
	switch s {
	case 2:
		return p.Color2
	case 3:
		return p.Color3
	case 4:
		return p.Color4
	case 5:
		return p.Color5
	default:
		return ""
	}
}

func (p *WritePayload) setSlot(s Slot, v string) {
	switch s {
	case 2:
		p.Color2 = v
	case 3:
		p.Color3 = v
	case 4:
		p.Color4 = v
	case 5:
		p.Color5 = v
	}
}

// ErasePayload is the body of POST /erase.
type ErasePayload struct {
	Channel int  `json:"channel"`
	Confirm bool `json:"confirm"`
}

const (
	opWrite = "write"
	opErase = "erase"

	// EraseConfirmMessage is shown when an erase is submitted unconfirmed.
	EraseConfirmMessage = "Please confirm tag erasure"
)

var (
	leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	leadingInt   = regexp.MustCompile(`^[+-]?\d+`)
	hexDigits    = regexp.MustCompile(`^[0-9A-F]+$`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("rgbhex", func(fl validator.FieldLevel) bool {
		return hexDigits.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("form: register rgbhex validation: %v", err))
	}
	return v
}

// EncodeWrite builds the write payload from form values and the touch
// state. Optional numeric fields fall back to the selected material's
// defaults; secondary colours are only sent when touched and non-empty.
func EncodeWrite(v Values, tracker *ColorTracker) (WritePayload, error) {
	raw := normalizeHex(strings.TrimSpace(v.ColorHex))
	colorHex := raw
	if len(colorHex) > 6 {
		colorHex = colorHex[:6]
	}
	alpha := defaultAlpha
	if len(raw) >= 8 {
		alpha = raw[6:8]
	}

	p := WritePayload{
		Channel:  v.Channel,
		Type:     strings.TrimSpace(v.Type),
		Brand:    strings.TrimSpace(v.Brand),
		ColorHex: colorHex,
		Subtype:  strings.TrimSpace(v.Subtype),
	}
	if alpha != defaultAlpha {
		p.Alpha = alpha
	}

	diameter, ok, err := parseFloatField("diameter", v.Diameter)
	if err != nil {
		return WritePayload{}, err
	}
	if !ok {
		return WritePayload{}, services.Validation(opWrite, "diameter is required")
	}
	p.Diameter = diameter

	defaults, known := material.Lookup(p.Type)

	if p.Density, err = floatOrDefault("density", v.Density, defaults.Density, known); err != nil {
		return WritePayload{}, err
	}
	if p.MinTemp, err = intOrDefault("min_temp", v.MinTemp, defaults.MinTemp, known); err != nil {
		return WritePayload{}, err
	}
	if p.MaxTemp, err = intOrDefault("max_temp", v.MaxTemp, defaults.MaxTemp, known); err != nil {
		return WritePayload{}, err
	}
	if p.BedMinTemp, err = intOrDefault("bed_min_temp", v.BedMinTemp, defaults.BedMinTemp, known); err != nil {
		return WritePayload{}, err
	}
	if p.BedMaxTemp, err = intOrDefault("bed_max_temp", v.BedMaxTemp, defaults.BedMaxTemp, known); err != nil {
		return WritePayload{}, err
	}
	if p.Weight, err = floatOrDefault("weight", v.Weight, 0, false); err != nil {
		return WritePayload{}, err
	}

	for _, slot := range Slots {
		if tracker == nil || !tracker.Touched(slot) {
			continue
		}
		if color := normalizeHex(strings.TrimSpace(v.SlotValue(slot))); color != "" {
			p.setSlot(slot, color)
		}
	}

	if err := validate.Struct(p); err != nil {
		return WritePayload{}, services.Validation(opWrite, validationMessage(err))
	}
	return p, nil
}

// EncodeErase builds the erase payload. Confirmation is mandatory.
func EncodeErase(channel int, confirmed bool) (ErasePayload, error) {
	if !confirmed {
		return ErasePayload{}, services.Validation(opErase, EraseConfirmMessage)
	}
	return ErasePayload{Channel: channel, Confirm: true}, nil
}

func parseFloatField(name, raw string) (float64, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, nil
	}
	m := leadingFloat.FindString(raw)
	f, err := strconv.ParseFloat(m, 64)
	if m == "" || err != nil {
		return 0, false, services.Validation(opWrite, name+" must be a number")
	}
	return f, true, nil
}

func floatOrDefault(name, raw string, fallback float64, known bool) (*float64, error) {
	f, ok, err := parseFloatField(name, raw)
	if err != nil {
		return nil, err
	}
	if ok {
		return &f, nil
	}
	if known && fallback != 0 {
		return &fallback, nil
	}
	return nil, nil
}

func intOrDefault(name, raw string, fallback int, known bool) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		m := leadingInt.FindString(raw)
		n, err := strconv.Atoi(m)
		if m == "" || err != nil {
			return nil, services.Validation(opWrite, name+" must be a number")
		}
		return &n, nil
	}
	if known && fallback != 0 {
		return &fallback, nil
	}
	return nil, nil
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err.Error()
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "len":
		return fmt.Sprintf("%s must be %s hex digits", fe.Field(), fe.Param())
	case "rgbhex":
		return fmt.Sprintf("%s must be hexadecimal", fe.Field())
	case "gt", "gte":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
