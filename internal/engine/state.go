package engine

import "spooltag/internal/rfidapi"

// Op names one of the four request cycles.
type Op string

const (
	OpReadAll Op = rfidapi.OpReadAll
	OpReadOne Op = rfidapi.OpReadOne
	OpWrite   Op = rfidapi.OpWrite
	OpErase   Op = rfidapi.OpErase
)

// Ops lists every operation in display order.
var Ops = []Op{OpReadAll, OpReadOne, OpWrite, OpErase}

// State is the lifecycle position of an operation.
type State int

const (
	Idle State = iota
	InFlight
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case InFlight:
		return "in_flight"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// StatusKind classifies an operator-facing status message.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusError
)

func (k StatusKind) String() string {
	switch k {
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "info"
	}
}

// StatusSink receives status messages. Show is called from the goroutine
// running the operation, which for confirmation refreshes is a timer
// goroutine.
type StatusSink interface {
	Show(kind StatusKind, message string)
}

// StatusFunc adapts a function to StatusSink.
type StatusFunc func(kind StatusKind, message string)

func (f StatusFunc) Show(kind StatusKind, message string) { f(kind, message) }

type discardStatus struct{}

func (discardStatus) Show(StatusKind, string) {}
