package form

// ColorInput is the colour-picker widget contract. SetColor stages a value
// ("#RRGGBB" or "#RRGGBBAA") and ApplyColor commits it to the visible
// preview. Change notifications flow back through the Synchronizer's
// PickerChanged methods.
type ColorInput interface {
	SetColor(value string)
	ApplyColor()
}

type nopColorInput struct{}

func (nopColorInput) SetColor(string) {}

func (nopColorInput) ApplyColor() {}

// Widgets binds colour inputs to the form. Missing inputs are ignored.
type Widgets struct {
	Main  ColorInput
	Slots map[Slot]ColorInput
}

func (w Widgets) main() ColorInput {
	if w.Main == nil {
		return nopColorInput{}
	}
	return w.Main
}

func (w Widgets) slot(s Slot) ColorInput {
	if in, ok := w.Slots[s]; ok && in != nil {
		return in
	}
	return nopColorInput{}
}

func show(in ColorInput, value string) {
	in.SetColor(value)
	in.ApplyColor()
}
