// Package services defines shared utilities consumed by the sync engine and
// the device client.
//
// Key responsibilities:
//   - Context helpers that stamp channel numbers, operation names, and
//     correlation identifiers for logging.
//   - Error markers plus the Wrap helper that classify failures as transport,
//     remote operation, or validation problems and carry the message the
//     operator sees.
//
// Use these helpers when adding new operations so error reporting and
// observability stay uniform.
package services
