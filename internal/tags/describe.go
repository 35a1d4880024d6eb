package tags

import (
	"math"
	"strconv"
	"strings"
)

// Status is the presence classification of a channel.
type Status string

const (
	StatusAbsent  Status = "absent"
	StatusPresent Status = "present"
	StatusEmpty   Status = "empty"
)

// Label returns the human text for the status.
func (s Status) Label() string {
	switch s {
	case StatusEmpty:
		return "Empty Tag"
	case StatusPresent:
		return "Tag Present"
	default:
		return "No Tag"
	}
}

const (
	emptyTagNote = "Tag detected but not programmed. Use the Tag Operations block to add filament information."
	noTagNote    = "No RFID tag detected on this channel"
)

// Summary is the display model of one channel card. Empty strings mean the
// row is not shown.
type Summary struct {
	Channel      int
	Status       Status
	Note         string
	Filament     string
	Color        string
	Swatches     []string
	Diameter     string
	Density      string
	Weight       string
	ExtruderTemp string
	BedTemp      string
	TagType      string
	UID          string
}

// Describe builds the display summary for a record.
func Describe(r ChannelRecord) Summary {
	r = r.normalized()
	s := Summary{Channel: r.Channel, Status: StatusAbsent}
	switch {
	case r.TagEmpty:
		s.Status = StatusEmpty
	case r.TagPresent:
		s.Status = StatusPresent
	}

	if !r.TagPresent {
		s.Note = noTagNote
		return s
	}
	if r.TagEmpty {
		s.Note = emptyTagNote
	}
	s.TagType = r.TagType
	s.UID = r.UID

	f := r.ProgrammedFilament()
	if f == nil {
		return s
	}

	if f.Brand.Present() || f.Type.Present() {
		desc := f.Brand.Or("Unknown") + " " + f.Type.Or("")
		if sub := f.Subtype; sub.Present() && sub.Text() != "Basic" && sub.Text() != "Reserved" {
			desc += " (" + sub.Text() + ")"
		}
		s.Filament = strings.TrimSpace(desc)
	}

	if f.ColorHex.Present() {
		hex := f.ColorHex.Text()
		s.Color = "#" + hex
		if f.Alpha.Present() && f.Alpha.Text() != "FF" {
			s.Color += " (" + f.Alpha.Text() + " alpha)"
		}
		s.Swatches = append(s.Swatches, "#"+hex)
		for _, extra := range f.AdditionalColorHexes {
			if extra.Present() {
				s.Swatches = append(s.Swatches, "#"+extra.Text())
			}
		}
	}

	if f.Diameter.Present() {
		s.Diameter = f.Diameter.Text() + " mm"
	}
	if f.Density.Present() {
		s.Density = f.Density.Text() + " g/cm³"
	}
	if grams, ok := f.Weight.Float(); ok && f.Weight.Present() {
		s.Weight = FormatWeight(grams)
	}
	if f.MinTemp.Present() && f.MaxTemp.Present() {
		s.ExtruderTemp = f.MinTemp.Text() + "°C - " + f.MaxTemp.Text() + "°C"
	}
	s.BedTemp = bedTemp(f)
	return s
}

func bedTemp(f *FilamentData) string {
	minT, maxT := f.BedMinTemp, f.BedMaxTemp
	switch {
	case minT.Present() && maxT.Present() && minT.Text() != maxT.Text():
		return minT.Text() + "°C - " + maxT.Text() + "°C"
	case minT.Present():
		return minT.Text() + "°C"
	case maxT.Present():
		return maxT.Text() + "°C"
	case f.BedTemp.Present():
		return f.BedTemp.Text() + "°C"
	default:
		return ""
	}
}

// FormatWeight renders a spool weight in grams, switching to kilograms at
// 1000 g with at most one decimal.
func FormatWeight(grams float64) string {
	if grams < 1000 {
		return strconv.FormatFloat(grams, 'f', -1, 64) + " g"
	}
	kg := grams / 1000
	if kg == math.Trunc(kg) {
		return strconv.FormatFloat(kg, 'f', -1, 64) + " kg"
	}
	return strconv.FormatFloat(math.Round(kg*10)/10, 'f', 1, 64) + " kg"
}
