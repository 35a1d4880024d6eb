package form

import (
	"fmt"
	"strings"
)

// Slot identifies a secondary colour field. Valid slots are 2 through 5.
type Slot int

// Slots lists the secondary colour slots in display order.
var Slots = []Slot{2, 3, 4, 5}

// Key returns the form and payload field name of the slot.
func (s Slot) Key() string { return fmt.Sprintf("color%d", int(s)) }

// Valid reports whether s is a secondary colour slot.
func (s Slot) Valid() bool { return s >= 2 && s <= 5 }

// ParseSlot maps "color3" or "3" to a slot.
func ParseSlot(name string) (Slot, bool) {
	name = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), "color")
	if len(name) != 1 {
		return 0, false
	}
	s := Slot(name[0] - '0')
	return s, s.Valid()
}

// Values is the editable write form. All fields hold raw text the way an
// input element does; parsing happens in the encoder.
type Values struct {
	Channel    int    `form:"channel"`
	Type       string `form:"type"`
	Brand      string `form:"brand"`
	Subtype    string `form:"subtype"`
	ColorHex   string `form:"color_hex"`
	Color2     string `form:"color2"`
	Color3     string `form:"color3"`
	Color4     string `form:"color4"`
	Color5     string `form:"color5"`
	Diameter   string `form:"diameter"`
	Density    string `form:"density"`
	MinTemp    string `form:"min_temp"`
	MaxTemp    string `form:"max_temp"`
	BedMinTemp string `form:"bed_min_temp"`
	BedMaxTemp string `form:"bed_max_temp"`
	Weight     string `form:"weight"`
}

// SlotValue returns the text of a secondary colour field.
func (v *Values) SlotValue(s Slot) string {
	if p := v.slot(s); p != nil {
		return *p
	}
	return ""
}

// SetSlot stores text in a secondary colour field.
func (v *Values) SetSlot(s Slot, value string) {
	if p := v.slot(s); p != nil {
		*p = value
	}
}

func (v *Values) slot(s Slot) *string {
	switch s {
	case 2:
		return &v.Color2
	case 3:
		return &v.Color3
	case 4:
		return &v.Color4
	case 5:
		return &v.Color5
	default:
		return nil
	}
}

// normalizeHex strips one leading '#' and upper-cases, as the inputs do on
// every keystroke.
func normalizeHex(raw string) string {
	return strings.ToUpper(strings.TrimPrefix(raw, "#"))
}

func isHex(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
