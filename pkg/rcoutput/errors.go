package rcoutput

import "errors"

var (
	// ErrNoSenderAttached indicates the pin has no transmitter.
	ErrNoSenderAttached = errors.New("no sender attached")
	// ErrMalformedPayload indicates the payload is shorter than the
	// subcommand requires or carries an invalid value.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrUnknownCommand indicates an unrecognized subcommand.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrPinOutOfRange indicates a pin beyond the board.
	ErrPinOutOfRange = errors.New("pin out of range")
)
