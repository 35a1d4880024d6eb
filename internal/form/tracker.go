package form

import "sort"

// ColorTracker records which secondary colour slots the operator has
// explicitly set in the current editing session. Untouched slots are never
// written, whatever their field or widget still holds.
type ColorTracker struct {
	touched map[Slot]struct{}
}

// NewColorTracker returns an empty tracker.
func NewColorTracker() *ColorTracker {
	return &ColorTracker{touched: make(map[Slot]struct{}, len(Slots))}
}

// Touch marks a slot as set.
func (t *ColorTracker) Touch(s Slot) {
	if s.Valid() {
		t.touched[s] = struct{}{}
	}
}

// Untouch clears the mark on a slot.
func (t *ColorTracker) Untouch(s Slot) {
	delete(t.touched, s)
}

// Touched reports whether the slot is marked.
func (t *ColorTracker) Touched(s Slot) bool {
	_, ok := t.touched[s]
	return ok
}

// Reset clears every mark.
func (t *ColorTracker) Reset() {
	clear(t.touched)
}

// Slots returns the touched slots in ascending order.
func (t *ColorTracker) Slots() []Slot {
	out := make([]Slot, 0, len(t.touched))
	for s := range t.touched {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
