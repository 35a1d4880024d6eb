package form

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	formcodec "github.com/go-playground/form"

	"spooltag/internal/services"
)

var (
	decoder = formcodec.NewDecoder()
	encoder = formcodec.NewEncoder()
)

// patch carries a partial form update. Nil fields are left untouched.
type patch struct {
	Type       *string `form:"type"`
	Brand      *string `form:"brand"`
	Subtype    *string `form:"subtype"`
	ColorHex   *string `form:"color_hex"`
	Color2     *string `form:"color2"`
	Color3     *string `form:"color3"`
	Color4     *string `form:"color4"`
	Color5     *string `form:"color5"`
	Diameter   *string `form:"diameter"`
	Density    *string `form:"density"`
	MinTemp    *string `form:"min_temp"`
	MaxTemp    *string `form:"max_temp"`
	BedMinTemp *string `form:"bed_min_temp"`
	BedMaxTemp *string `form:"bed_max_temp"`
	Weight     *string `form:"weight"`
}

func (p *patch) slot(s Slot) *string {
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
		return nil
	}
}

var editableFields = map[string]struct{}{
	"type": {}, "brand": {}, "subtype": {}, "color_hex": {},
	"color2": {}, "color3": {}, "color4": {}, "color5": {},
	"diameter": {}, "density": {}, "min_temp": {}, "max_temp": {},
	"bed_min_temp": {}, "bed_max_temp": {}, "weight": {},
}

// EditableFields lists the field names Apply accepts.
func EditableFields() []string {
	out := make([]string, 0, len(editableFields))
	for k := range editableFields {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// FormData encodes the values the way a browser submits the form.
func (v Values) FormData() (url.Values, error) {
	data, err := encoder.Encode(&v)
	if err != nil {
		return nil, fmt.Errorf("encode form values: %w", err)
	}
	return data, nil
}

// DecodeValues builds form values from submitted form data.
func DecodeValues(data url.Values) (Values, error) {
	var v Values
	if err := decoder.Decode(&v, data); err != nil {
		return Values{}, services.Wrap(services.ErrValidation, "form", "decode form data", err)
	}
	return v, nil
}

// ParseFields turns "key=value" pairs into form data.
func ParseFields(pairs []string) (url.Values, error) {
	data := url.Values{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, services.Validation("form", fmt.Sprintf("invalid field %q, expected key=value", pair))
		}
		data.Set(key, value)
	}
	return data, nil
}

// Apply replays edits as if the operator typed them: the material goes
// through SelectType, colours through their input and blur events. The
// channel is not editable here; use SetChannel.
func (s *Synchronizer) Apply(data url.Values) error {
	for key := range data {
		if _, ok := editableFields[key]; !ok {
			return services.Validation("form", fmt.Sprintf("unknown field %q", key))
		}
	}
	var p patch
	if err := decoder.Decode(&p, data); err != nil {
		return services.Wrap(services.ErrValidation, "form", "decode form data", err)
	}

	if p.Type != nil {
		s.SelectType(strings.TrimSpace(*p.Type))
	}
	assign := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	assign(&s.values.Brand, p.Brand)
	assign(&s.values.Subtype, p.Subtype)
	assign(&s.values.Diameter, p.Diameter)
	assign(&s.values.Density, p.Density)
	assign(&s.values.MinTemp, p.MinTemp)
	assign(&s.values.MaxTemp, p.MaxTemp)
	assign(&s.values.BedMinTemp, p.BedMinTemp)
	assign(&s.values.BedMaxTemp, p.BedMaxTemp)
	assign(&s.values.Weight, p.Weight)

	if p.ColorHex != nil {
		s.MainInput(strings.TrimSpace(*p.ColorHex))
		s.MainBlur()
	}
	for _, slot := range Slots {
		if raw := p.slot(slot); raw != nil {
			s.SlotInput(slot, strings.TrimSpace(*raw))
			s.SlotBlur(slot)
		}
	}
	return nil
}
