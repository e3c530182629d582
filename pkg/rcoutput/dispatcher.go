package rcoutput

import (
	"fmt"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/rcout/pkg/rcswitch"
)

// Dispatcher routes host commands to the transmitters in a Registry.
// Every operation runs to completion under one lock, including the
// transmission itself.
type Dispatcher struct {
	Registry *Registry

	lock sync.Mutex
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(reg *Registry) *Dispatcher {
	return &Dispatcher{Registry: reg}
}

// HandleSysex dispatches raw arguments: subcommand, pin, payload.
func (d *Dispatcher) HandleSysex(argv []byte) Result {
	if len(argv) < 2 {
		return Suppressed(fmt.Errorf("%w: subcommand and pin required", ErrMalformedPayload))
	}
	return d.Dispatch(Command{
		Subcommand: ParseSubcommand(argv[0]),
		Pin:        argv[1],
		Data:       argv[2:],
	})
}

// Dispatch executes a command.
func (d *Dispatcher) Dispatch(cmd Command) Result {
	if ParseSubcommand(byte(cmd.Subcommand)) == Unknown {
		return Suppressed(fmt.Errorf("%w %s", ErrUnknownCommand, cmd.Subcommand))
	}
	d.lock.Lock()
	defer d.lock.Unlock()
	tx, ok := d.Registry.Get(cmd.Pin)
	if !ok {
		return Suppressed(fmt.Errorf("%s pin %d: %w", cmd.Subcommand, cmd.Pin, ErrNoSenderAttached))
	}
	n, err := execute(tx, cmd)
	if err != nil {
		return Suppressed(fmt.Errorf("%s pin %d: %w", cmd.Subcommand, cmd.Pin, err))
	}
	return Acknowledged(cmd.Subcommand, cmd.Pin, cmd.Data[:n])
}

// HandlePinMode attaches a transmitter when the pin switches to
// PinModeRCOutput and detaches it on any other mode. It returns whether
// the mode was accepted as RC output.
func (d *Dispatcher) HandlePinMode(pin, mode byte) bool {
	d.lock.Lock()
	defer d.lock.Unlock()
	if mode != PinModeRCOutput {
		if err := d.Registry.Detach(pin); err != nil {
			glog.Warningf("pin %d: detach: %v", pin, err)
		}
		return false
	}
	if err := d.Registry.Attach(pin); err != nil {
		glog.Warningf("pin %d: attach: %v", pin, err)
		return false
	}
	return true
}

// HandleCapability returns the mode/resolution pairs the pin supports.
func (d *Dispatcher) HandleCapability(pin byte) []byte {
	if !d.Registry.HasPin(pin) {
		return nil
	}
	return []byte{PinModeRCOutput, CapabilityResolution}
}

// Reset detaches all transmitters.
func (d *Dispatcher) Reset() error {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.Registry.Reset()
}

func execute(tx rcswitch.Transmitter, cmd Command) (int, error) {
	data := cmd.Data
	switch cmd.Subcommand {
	case ConfigProtocol:
		if len(data) < 1 {
			return 0, ErrMalformedPayload
		}
		return 1, tx.SetProtocol(int(data[0]))
	case ConfigPulseLength:
		val, n := littleEndian(data, 2)
		if n == 0 {
			return 0, ErrMalformedPayload
		}
		tx.SetPulseLength(val)
		return n, nil
	case ConfigRepeatTransmit:
		if len(data) < 1 || data[0] == 0 {
			return 0, fmt.Errorf("%w: repeat count must be at least 1", ErrMalformedPayload)
		}
		tx.SetRepeatTransmit(int(data[0]))
		return 1, nil
	case CodeTristate:
		if len(data) == 0 {
			return 0, ErrMalformedPayload
		}
		return SendTristate(tx, data)
	case CodeLong:
		return SendLong(tx, data)
	case CodeChar:
		if len(data) == 0 {
			return 0, ErrMalformedPayload
		}
		return SendString(tx, data)
	}
	return 0, ErrUnknownCommand
}

// littleEndian reads up to max bytes as a little-endian number.
func littleEndian(data []byte, max int) (val int, n int) {
	if n = len(data); n > max {
		n = max
	}
	for i := n - 1; i >= 0; i-- {
		val = val<<8 | int(data[i])
	}
	return
}
