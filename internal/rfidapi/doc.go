// Package rfidapi is the HTTP client for the device's RFID service.
//
// Responses may arrive wrapped in Moonraker's {"result": ...} envelope; the
// client removes one such wrapper before decoding. Failures are classified
// with the services markers: ErrTransport for network, HTTP status and
// decoding problems, ErrRemoteOperation when the device answers
// success=false.
package rfidapi
