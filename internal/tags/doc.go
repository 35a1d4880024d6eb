// Package tags models per-channel RFID tag state.
//
// It owns the wire shape of channel records, the value-presence predicate
// shared by every consumer, the channel-keyed Store that the engine keeps in
// sync with the device, the read-only capability gate, and the display
// summary used by channel listings.
package tags
