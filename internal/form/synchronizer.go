package form

import (
	"spooltag/internal/material"
	"spooltag/internal/tags"
)

// Synchronizer owns the write form for one editing session: its values,
// placeholders, colour widgets and the secondary colour touch state.
// It is not safe for concurrent use; the engine serializes access.
type Synchronizer struct {
	values       Values
	placeholders material.Placeholders
	tracker      *ColorTracker
	widgets      Widgets
}

// NewSynchronizer builds a form in its reset state.
func NewSynchronizer(widgets Widgets) *Synchronizer {
	s := &Synchronizer{tracker: NewColorTracker(), widgets: widgets}
	s.Reset(0)
	return s
}

// Values returns a copy of the current field values.
func (s *Synchronizer) Values() Values { return s.values }

// Placeholders returns the auto-fill hints of the selected material.
func (s *Synchronizer) Placeholders() material.Placeholders { return s.placeholders }

// Touched reports whether a secondary slot is marked as set.
func (s *Synchronizer) Touched(slot Slot) bool { return s.tracker.Touched(slot) }

// TouchedSlots lists the marked secondary slots.
func (s *Synchronizer) TouchedSlots() []Slot { return s.tracker.Slots() }

// Load projects rec into the form. Touches from a previous session are
// discarded; slots carried by the tag come back touched.
func (s *Synchronizer) Load(rec tags.ChannelRecord) {
	p := Project(rec)
	s.values = p.Values
	if p.Placeholders != nil {
		s.placeholders = *p.Placeholders
	}

	show(s.widgets.main(), "#"+s.values.ColorHex)

	s.tracker.Reset()
	for _, slot := range p.Touched {
		s.tracker.Touch(slot)
	}
	for _, slot := range Slots {
		if s.tracker.Touched(slot) {
			show(s.widgets.slot(slot), "#"+s.values.SlotValue(slot))
		} else {
			show(s.widgets.slot(slot), "#"+defaultColorHex)
		}
	}
}

// Reset returns the form to its initial state for channel.
func (s *Synchronizer) Reset(channel int) {
	s.Load(tags.ChannelRecord{Channel: channel})
}

// SetChannel changes the selected channel without touching other fields.
func (s *Synchronizer) SetChannel(channel int) {
	s.values.Channel = channel
}

// SelectType sets the material and refreshes the placeholders. Unknown
// materials keep the previous hints.
func (s *Synchronizer) SelectType(name string) {
	s.values.Type = name
	if ph, ok := material.PlaceholdersFor(name); ok {
		s.placeholders = ph
	}
}

// MainPickerChanged handles a change notification from the primary picker,
// which reports RRGGBBAA.
func (s *Synchronizer) MainPickerChanged(hexa string) {
	if hexa == "" {
		return
	}
	s.values.ColorHex = normalizeHex(hexa)
	s.widgets.main().ApplyColor()
}

// MainInput handles typing in the primary colour field.
func (s *Synchronizer) MainInput(raw string) {
	s.values.ColorHex = normalizeHex(raw)
}

// MainBlur pushes a complete primary colour to the widget.
func (s *Synchronizer) MainBlur() {
	v := s.values.ColorHex
	switch {
	case isHex(v, 6):
		show(s.widgets.main(), "#"+v+defaultAlpha)
	case isHex(v, 8):
		show(s.widgets.main(), "#"+v)
	}
}

// PickerShown marks a slot as set when its picker is opened.
func (s *Synchronizer) PickerShown(slot Slot) {
	s.tracker.Touch(slot)
}

// PickerChanged handles a change notification from a secondary picker. The
// field only follows the picker once the slot is touched.
func (s *Synchronizer) PickerChanged(slot Slot, hexa string) {
	if hexa == "" || !slot.Valid() {
		return
	}
	if s.tracker.Touched(slot) {
		v := normalizeHex(hexa)
		if len(v) > 6 {
			v = v[:6]
		}
		s.values.SetSlot(slot, v)
	}
	s.widgets.slot(slot).ApplyColor()
}

// SlotInput handles typing in a secondary colour field.
func (s *Synchronizer) SlotInput(slot Slot, raw string) {
	if !slot.Valid() {
		return
	}
	v := normalizeHex(raw)
	s.values.SetSlot(slot, v)
	if v != "" {
		s.tracker.Touch(slot)
	}
}

// SlotBlur commits a secondary colour field. Clearing the field untouches
// the slot and resets the widget to white.
func (s *Synchronizer) SlotBlur(slot Slot) {
	if !slot.Valid() {
		return
	}
	v := s.values.SlotValue(slot)
	switch {
	case isHex(v, 6):
		s.tracker.Touch(slot)
		show(s.widgets.slot(slot), "#"+v)
	case v == "":
		s.tracker.Untouch(slot)
		show(s.widgets.slot(slot), "#"+defaultColorHex)
	}
}

// Encode builds the write payload from the current form.
func (s *Synchronizer) Encode() (WritePayload, error) {
	return EncodeWrite(s.values, s.tracker)
}
