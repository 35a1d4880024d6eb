package form

import (
	"strings"

	"spooltag/internal/material"
	"spooltag/internal/tags"
)

const (
	defaultBrand    = "Generic"
	defaultColorHex = "FFFFFF"
	defaultAlpha    = "FF"
	defaultDiameter = "1.75"
)

// Projection is the full set of form state derived from one channel record.
type Projection struct {
	Values Values
	// Placeholders is nil when the projected type has no material profile.
	Placeholders *material.Placeholders
	// Touched lists the secondary slots that came from the tag.
	Touched []Slot
}

// Project derives the write form from a channel record. Per field the
// precedence is tag value, then default, then empty; material defaults only
// reach placeholders here, never values.
func Project(rec tags.ChannelRecord) Projection {
	f := rec.ProgrammedFilament()
	if f == nil {
		f = &tags.FilamentData{}
	}

	v := Values{
		Channel:  rec.Channel,
		Type:     f.Type.Or(material.DefaultType),
		Brand:    f.Brand.Or(defaultBrand),
		Subtype:  f.Subtype.Or(""),
		ColorHex: strings.ToUpper(f.ColorHex.Or(defaultColorHex)) + strings.ToUpper(f.Alpha.Or(defaultAlpha)),
		Diameter: f.Diameter.Or(defaultDiameter),
		Density:  f.Density.Or(""),
		MinTemp:  f.MinTemp.Or(""),
		MaxTemp:  f.MaxTemp.Or(""),
		Weight:   f.Weight.Or(""),
	}

	switch {
	case f.BedMinTemp.Present():
		v.BedMinTemp = f.BedMinTemp.Text()
	case f.BedTemp.Present():
		v.BedMinTemp = f.BedTemp.Text()
	}
	switch {
	case f.BedMaxTemp.Present():
		v.BedMaxTemp = f.BedMaxTemp.Text()
	case f.BedTemp.Present():
		v.BedMaxTemp = f.BedTemp.Text()
	}

	p := Projection{Values: v}
	for i, s := range Slots {
		if i < len(f.AdditionalColorHexes) && f.AdditionalColorHexes[i].Present() {
			p.Values.SetSlot(s, strings.ToUpper(f.AdditionalColorHexes[i].Text()))
			p.Touched = append(p.Touched, s)
		}
	}
	if ph, ok := material.PlaceholdersFor(v.Type); ok {
		p.Placeholders = &ph
	}
	return p
}
