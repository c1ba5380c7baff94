package core

import "fmt"

// Status is a native-style engine status code. Zero is success; the failure
// block mirrors the wrapped engine's header values so a cgo backend can
// return its codes unchanged.
type Status int

const (
	// StatusSuccess reports a completed operation. It never translates
	// into an error.
	StatusSuccess Status = 0

	// StatusUnknown reports an unclassified engine failure.
	StatusUnknown Status = 0x80000000 + iota - 1

	// StatusOutOfMemory reports an allocation failure inside the engine.
	StatusOutOfMemory

	// StatusNotSupported reports an operation the current backend does not
	// support.
	StatusNotSupported

	// StatusIncompatible reports data the engine cannot accept, such as an
	// item/label length mismatch.
	StatusIncompatible

	// StatusInternalLogic reports a broken invariant inside the engine.
	StatusInternalLogic

	// StatusOverflow reports an arithmetic or capacity overflow.
	StatusOverflow

	// StatusNotImplemented reports a contract method the backend has not
	// implemented.
	StatusNotImplemented
)

// statusMessages holds the fixed human-readable message for each known
// failure code. Unrecognized codes fall through to "Unexpected error".
var statusMessages = map[Status]string{
	StatusUnknown:        "Unknown error occurred",
	StatusOutOfMemory:    "Insufficient memory",
	StatusNotSupported:   "Unsupported operation",
	StatusIncompatible:   "Incompatible data",
	StatusInternalLogic:  "Internal error",
	StatusOverflow:       "Overflow",
	StatusNotImplemented: "Not implemented",
}

// Message returns the fixed message for the code, or "Unexpected error" for
// a code outside the documented set.
func (s Status) Message() string {
	if msg, ok := statusMessages[s]; ok {
		return msg
	}
	return "Unexpected error"
}

// TrainError is a translated engine failure carrying both the original
// numeric code and the resolved message.
type TrainError struct {
	Code    Status
	Message string
}

// Error implements the error interface.
func (e *TrainError) Error() string {
	return fmt.Sprintf("%s (code %#x)", e.Message, int(e.Code))
}

// NewTrainError translates a status code into a *TrainError. Success codes
// never produce an error; NewTrainError returns nil for them.
func NewTrainError(code Status) *TrainError {
	if code == StatusSuccess {
		return nil
	}
	return &TrainError{Code: code, Message: code.Message()}
}
