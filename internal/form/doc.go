// Package form keeps the filament write form in step with channel state.
//
// Project derives field values and placeholders from a channel record,
// ColorTracker remembers which secondary colour slots the operator set, and
// EncodeWrite turns the form into the device write payload, filling unset
// numeric fields from the material profile. Synchronizer ties these together
// for one editing session and routes colour widget events.
package form
