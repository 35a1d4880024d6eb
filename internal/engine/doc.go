// Package engine drives an operator session against the RFID device.
//
// An Engine owns the channel store, the write and erase forms and the
// lifecycle state of the four request cycles (read-all, read-one, write,
// erase). Each cycle announces itself on the StatusSink before the request
// is dispatched and reports its outcome afterwards. Successful writes and
// erases reset their form and schedule a quiet read-one of the affected
// channel after the confirmation delay; Wait blocks until those finish.
//
// The capability gate is evaluated on every submission, so a read-only
// channel refuses writes and erases with services.ErrValidation without
// contacting the device.
package engine
