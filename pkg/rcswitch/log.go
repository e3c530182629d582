package rcswitch

import (
	"strings"

	"github.com/golang/glog"
)

// LogTransmitter only logs what would be sent.
type LogTransmitter struct {
	Pin      byte
	settings Settings
}

// NewLogTransmitter creates a LogTransmitter.
func NewLogTransmitter(pin byte) *LogTransmitter {
	return &LogTransmitter{Pin: pin, settings: DefaultSettings()}
}

// LogFactory creates LogTransmitters.
var LogFactory = FactoryFunc(func(pin byte) (Transmitter, error) {
	return NewLogTransmitter(pin), nil
})

// Settings returns current settings.
func (t *LogTransmitter) Settings() Settings {
	return t.settings
}

// SetProtocol implements Transmitter.
func (t *LogTransmitter) SetProtocol(id int) error {
	if err := t.settings.SetProtocol(id); err != nil {
		return err
	}
	glog.Infof("pin %d: protocol %d (pulse %dus)", t.Pin, id, t.settings.PulseLength)
	return nil
}

// SetPulseLength implements Transmitter.
func (t *LogTransmitter) SetPulseLength(us int) {
	t.settings.PulseLength = us
	glog.Infof("pin %d: pulse length %dus", t.Pin, us)
}

// SetRepeatTransmit implements Transmitter.
func (t *LogTransmitter) SetRepeatTransmit(n int) {
	t.settings.RepeatTransmit = n
	glog.Infof("pin %d: repeat %d", t.Pin, n)
}

// SendTristate implements Transmitter.
func (t *LogTransmitter) SendTristate(code string) error {
	if _, ok := TristateBits(code); !ok {
		return ErrInvalidBit
	}
	glog.Infof("pin %d: tri-state %s", t.Pin, code)
	return nil
}

// SendLong implements Transmitter.
func (t *LogTransmitter) SendLong(value uint32, bitCount int) error {
	bits, ok := LongBits(value, bitCount)
	if !ok {
		return ErrBitCount
	}
	glog.Infof("pin %d: long %d/%d (%s)", t.Pin, value, bitCount, bits)
	return nil
}

// SendString implements Transmitter.
func (t *LogTransmitter) SendString(code string) error {
	if strings.Trim(code, "01") != "" {
		return ErrInvalidBit
	}
	glog.Infof("pin %d: bits %s", t.Pin, code)
	return nil
}

// Close implements Transmitter.
func (t *LogTransmitter) Close() error {
	glog.V(2).Infof("pin %d: closed", t.Pin)
	return nil
}
