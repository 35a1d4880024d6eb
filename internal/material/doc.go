// Package material holds the static table of filament material defaults.
//
// The table feeds two consumers: form placeholders, which only tell the
// operator what would be auto-filled, and the write encoder, which
// substitutes the defaults for optional fields left empty.
package material
