package rcoutput

import (
	"fmt"

	"github.com/golang/glog"

	fx "github.com/robotalks/rcout/pkg/framework"
	"github.com/robotalks/rcout/pkg/rcswitch"
)

// DefaultTotalPins is the pin count of an Arduino Uno.
const DefaultTotalPins = 20

// Registry owns at most one transmitter per pin.
// It is not safe for concurrent use, Dispatcher serializes access.
type Registry struct {
	Factory rcswitch.Factory

	senders []rcswitch.Transmitter
}

// NewRegistry creates a Registry with totalPins slots.
func NewRegistry(totalPins int, factory rcswitch.Factory) *Registry {
	if totalPins <= 0 {
		totalPins = DefaultTotalPins
	}
	return &Registry{
		Factory: factory,
		senders: make([]rcswitch.Transmitter, totalPins),
	}
}

// TotalPins returns the number of pin slots.
func (r *Registry) TotalPins() int {
	return len(r.senders)
}

// HasPin indicates the pin exists on the board.
func (r *Registry) HasPin(pin byte) bool {
	return int(pin) < len(r.senders)
}

// Attach creates a transmitter for the pin, replacing an existing one.
func (r *Registry) Attach(pin byte) error {
	if !r.HasPin(pin) {
		return fmt.Errorf("%w: %d", ErrPinOutOfRange, pin)
	}
	if err := r.Detach(pin); err != nil {
		glog.Warningf("pin %d: close previous sender: %v", pin, err)
	}
	tx, err := r.Factory.NewTransmitter(pin)
	if err != nil {
		return fmt.Errorf("pin %d: %w", pin, err)
	}
	r.senders[pin] = tx
	glog.Infof("pin %d: sender attached", pin)
	return nil
}

// Detach destroys the transmitter of the pin if there's one.
func (r *Registry) Detach(pin byte) error {
	if !r.HasPin(pin) {
		return nil
	}
	tx := r.senders[pin]
	if tx == nil {
		return nil
	}
	r.senders[pin] = nil
	glog.Infof("pin %d: sender detached", pin)
	return tx.Close()
}

// Get looks up the transmitter of the pin. The registry keeps ownership.
func (r *Registry) Get(pin byte) (rcswitch.Transmitter, bool) {
	if !r.HasPin(pin) || r.senders[pin] == nil {
		return nil, false
	}
	return r.senders[pin], true
}

// Attached lists pins with a transmitter.
func (r *Registry) Attached() []byte {
	var pins []byte
	for pin, tx := range r.senders {
		if tx != nil {
			pins = append(pins, byte(pin))
		}
	}
	return pins
}

// Reset detaches every pin.
func (r *Registry) Reset() error {
	var errs fx.AggregatedError
	for pin := range r.senders {
		errs.Add(r.Detach(byte(pin)))
	}
	return errs.Aggregate()
}
