// Package devicesim simulates the printer's RFID service for offline use and
// tests.
//
// Device keeps per-channel tag state and applies writes and erases with the
// same rules as the real component: erase needs confirm=true, M1 tags are
// read-only, and every operation reads the tag back for verification. Server
// serves it under /server/rfid with Moonraker's result envelope and error
// bodies.
package devicesim
