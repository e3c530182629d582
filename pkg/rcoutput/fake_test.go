package rcoutput

import (
	"errors"
	"fmt"

	"github.com/robotalks/rcout/pkg/rcswitch"
)

type fakeTransmitter struct {
	pin      byte
	calls    []string
	closed   bool
	closeErr error
}

func (t *fakeTransmitter) record(format string, args ...interface{}) {
	t.calls = append(t.calls, fmt.Sprintf(format, args...))
}

func (t *fakeTransmitter) SetProtocol(id int) error {
	if _, ok := rcswitch.LookupProtocol(id); !ok {
		return rcswitch.ErrUnknownProtocol
	}
	t.record("protocol %d", id)
	return nil
}

func (t *fakeTransmitter) SetPulseLength(us int) {
	t.record("pulse %d", us)
}

func (t *fakeTransmitter) SetRepeatTransmit(n int) {
	t.record("repeat %d", n)
}

func (t *fakeTransmitter) SendTristate(code string) error {
	if _, ok := rcswitch.TristateBits(code); !ok {
		return rcswitch.ErrInvalidBit
	}
	t.record("tristate %s", code)
	return nil
}

func (t *fakeTransmitter) SendLong(value uint32, bitCount int) error {
	if _, ok := rcswitch.LongBits(value, bitCount); !ok {
		return rcswitch.ErrBitCount
	}
	t.record("long %d/%d", value, bitCount)
	return nil
}

func (t *fakeTransmitter) SendString(code string) error {
	t.record("string %s", code)
	return nil
}

func (t *fakeTransmitter) Close() error {
	t.closed = true
	return t.closeErr
}

type fakeFactory struct {
	created []*fakeTransmitter
	err     error
}

func (f *fakeFactory) NewTransmitter(pin byte) (rcswitch.Transmitter, error) {
	if f.err != nil {
		return nil, f.err
	}
	tx := &fakeTransmitter{pin: pin}
	f.created = append(f.created, tx)
	return tx, nil
}

// last returns the most recent transmitter created for the pin.
func (f *fakeFactory) last(pin byte) *fakeTransmitter {
	for i := len(f.created) - 1; i >= 0; i-- {
		if f.created[i].pin == pin {
			return f.created[i]
		}
	}
	return nil
}

func (f *fakeFactory) calls() []string {
	var calls []string
	for _, tx := range f.created {
		calls = append(calls, tx.calls...)
	}
	return calls
}

var errFactory = errors.New("factory failure")
