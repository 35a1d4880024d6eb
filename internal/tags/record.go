package tags

// FilamentData is the filament description programmed onto a tag.
type FilamentData struct {
	Type                 Value   `json:"type,omitzero"`
	Brand                Value   `json:"brand,omitzero"`
	Subtype              Value   `json:"subtype,omitzero"`
	ColorHex             Value   `json:"color_hex,omitzero"`
	Alpha                Value   `json:"alpha,omitzero"`
	AdditionalColorHexes []Value `json:"additional_color_hexes,omitempty"`
	Diameter             Value   `json:"diameter,omitzero"`
	Density              Value   `json:"density,omitzero"`
	MinTemp              Value   `json:"min_temp,omitzero"`
	MaxTemp              Value   `json:"max_temp,omitzero"`
	BedMinTemp           Value   `json:"bed_min_temp,omitzero"`
	BedMaxTemp           Value   `json:"bed_max_temp,omitzero"`
	BedTemp              Value   `json:"bed_temp,omitzero"`
	Weight               Value   `json:"weight,omitzero"`
}

// ChannelRecord is the tag state the device reports for one channel.
type ChannelRecord struct {
	Channel    int           `json:"channel"`
	TagPresent bool          `json:"tag_present"`
	TagEmpty   bool          `json:"tag_empty,omitempty"`
	TagType    string        `json:"tag_type,omitempty"`
	UID        string        `json:"uid,omitempty"`
	Filament   *FilamentData `json:"filament,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// ProgrammedFilament returns the filament data when the tag is present and
// programmed. Filament data on an absent or empty tag is never meaningful.
func (r ChannelRecord) ProgrammedFilament() *FilamentData {
	if !r.TagPresent || r.TagEmpty {
		return nil
	}
	return r.Filament
}

// ReadOnly reports whether the tag technology cannot be written or erased.
func (r ChannelRecord) ReadOnly() bool {
	return r.TagType == ReadOnlyTagType
}

// normalized enforces tag_empty => tag_present and detaches shared memory
// so stored records cannot be mutated through caller-held pointers.
func (r ChannelRecord) normalized() ChannelRecord {
	if r.TagEmpty {
		r.TagPresent = true
	}
	r.Filament = r.Filament.clone()
	return r
}

func (f *FilamentData) clone() *FilamentData {
	if f == nil {
		return nil
	}
	cp := *f
	if f.AdditionalColorHexes != nil {
		cp.AdditionalColorHexes = append([]Value(nil), f.AdditionalColorHexes...)
	}
	return &cp
}
