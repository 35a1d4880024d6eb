// Package main hosts the spooltag CLI entrypoint and command graph.
//
// The Cobra command tree reads and programs OpenSpool RFID tags through the
// printer's RFID service: tags and show list channels, write and erase drive
// the engine's request cycles, materials prints the auto-fill defaults,
// config scaffolds the TOML file and simulate serves an in-memory device for
// offline use. Configuration resolution and logger setup live in the shared
// command context so subcommands stay declarative.
package main
