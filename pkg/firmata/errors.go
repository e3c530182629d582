package firmata

import "errors"

var (
	// ErrSysexOverflow indicates a sysex message longer than MaxDataBytes.
	ErrSysexOverflow = errors.New("sysex message too long")
	// ErrIncomplete indicates a message interrupted by another status byte.
	ErrIncomplete = errors.New("incomplete message")
	// ErrEmptySysex indicates a sysex message without command byte.
	ErrEmptySysex = errors.New("empty sysex message")
)
