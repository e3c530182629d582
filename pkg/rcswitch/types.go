// Package rcswitch provides RF remote control code transmitters.
//
// A Transmitter sends codes of the common 315/433MHz remote switches
// (tri-state codes, long values, binary strings) using the pulse timings
// of the selected protocol.
package rcswitch

import (
	"errors"
)

// Transmitter sends RF codes from a single output pin.
type Transmitter interface {
	// SetProtocol selects the protocol and resets the pulse length to
	// the protocol default.
	SetProtocol(id int) error
	// SetPulseLength overrides the pulse length in microseconds.
	SetPulseLength(us int)
	// SetRepeatTransmit sets how many times a code is sent.
	SetRepeatTransmit(n int)
	// SendTristate sends a code of '0', '1' and 'F' symbols.
	SendTristate(code string) error
	// SendLong sends the bitCount least significant bits of value.
	SendLong(value uint32, bitCount int) error
	// SendString sends a code of '0' and '1' characters.
	SendString(code string) error
	// Close releases the output pin.
	Close() error
}

// Factory creates transmitters bound to a pin.
type Factory interface {
	NewTransmitter(pin byte) (Transmitter, error)
}

// FactoryFunc is the func form of Factory.
type FactoryFunc func(pin byte) (Transmitter, error)

// NewTransmitter implements Factory.
func (f FactoryFunc) NewTransmitter(pin byte) (Transmitter, error) {
	return f(pin)
}

// Defaults of a new transmitter.
const (
	DefaultProtocol       = 1
	DefaultRepeatTransmit = 10
)

var (
	// ErrUnknownProtocol indicates the protocol id is not in the table.
	ErrUnknownProtocol = errors.New("unknown protocol")
	// ErrBitCount indicates a bit count outside 1..32.
	ErrBitCount = errors.New("bit count out of range")
	// ErrInvalidBit indicates a binary code with characters other than '0' and '1'.
	ErrInvalidBit = errors.New("invalid bit")
	// ErrNoGPIO indicates no GPIO is mapped to the pin.
	ErrNoGPIO = errors.New("no GPIO mapped to pin")
)
