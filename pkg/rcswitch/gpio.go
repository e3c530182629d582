package rcswitch

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// GPIOTransmitter generates the RF waveform by toggling a GPIO which
// drives the data line of a transmitter module.
type GPIOTransmitter struct {
	Pin gpio.PinOut
	// Sleep waits between pulse edges, time.Sleep if nil.
	Sleep func(time.Duration)

	settings Settings
	lock     sync.Mutex
}

// NewGPIOTransmitter creates a transmitter with default settings and
// drives the pin low.
func NewGPIOTransmitter(p gpio.PinOut) (*GPIOTransmitter, error) {
	if err := p.Out(gpio.Low); err != nil {
		return nil, err
	}
	return &GPIOTransmitter{Pin: p, settings: DefaultSettings()}, nil
}

// Settings returns a snapshot of current settings.
func (t *GPIOTransmitter) Settings() Settings {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.settings
}

// SetProtocol implements Transmitter.
func (t *GPIOTransmitter) SetProtocol(id int) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.settings.SetProtocol(id)
}

// SetPulseLength implements Transmitter.
func (t *GPIOTransmitter) SetPulseLength(us int) {
	t.lock.Lock()
	t.settings.PulseLength = us
	t.lock.Unlock()
}

// SetRepeatTransmit implements Transmitter.
func (t *GPIOTransmitter) SetRepeatTransmit(n int) {
	t.lock.Lock()
	t.settings.RepeatTransmit = n
	t.lock.Unlock()
}

// SendTristate implements Transmitter.
func (t *GPIOTransmitter) SendTristate(code string) error {
	bits, ok := TristateBits(code)
	if !ok {
		return fmt.Errorf("tri-state code %q: %w", code, ErrInvalidBit)
	}
	return t.send(bits)
}

// SendLong implements Transmitter.
func (t *GPIOTransmitter) SendLong(value uint32, bitCount int) error {
	bits, ok := LongBits(value, bitCount)
	if !ok {
		return fmt.Errorf("%w: %d", ErrBitCount, bitCount)
	}
	return t.send(bits)
}

// SendString implements Transmitter.
func (t *GPIOTransmitter) SendString(code string) error {
	for i := 0; i < len(code); i++ {
		if code[i] != '0' && code[i] != '1' {
			return fmt.Errorf("%w %q at %d", ErrInvalidBit, code[i], i)
		}
	}
	return t.send(code)
}

// Close implements Transmitter.
func (t *GPIOTransmitter) Close() error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if err := t.Pin.Out(gpio.Low); err != nil {
		return err
	}
	return t.Pin.Halt()
}

func (t *GPIOTransmitter) send(bits string) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	s := t.settings
	for n := 0; n < s.RepeatTransmit; n++ {
		for i := 0; i < len(bits); i++ {
			pulse := s.Protocol.Zero
			if bits[i] == '1' {
				pulse = s.Protocol.One
			}
			if err := t.transmit(&s, pulse); err != nil {
				return err
			}
		}
		if err := t.transmit(&s, s.Protocol.Sync); err != nil {
			return err
		}
	}
	return t.Pin.Out(gpio.Low)
}

func (t *GPIOTransmitter) transmit(s *Settings, pulse HighLow) error {
	first, second := gpio.High, gpio.Low
	if s.Protocol.Inverted {
		first, second = gpio.Low, gpio.High
	}
	if err := t.Pin.Out(first); err != nil {
		return err
	}
	t.sleep(time.Duration(s.PulseLength*pulse.High) * time.Microsecond)
	if err := t.Pin.Out(second); err != nil {
		return err
	}
	t.sleep(time.Duration(s.PulseLength*pulse.Low) * time.Microsecond)
	return nil
}

func (t *GPIOTransmitter) sleep(d time.Duration) {
	if fn := t.Sleep; fn != nil {
		fn(d)
		return
	}
	time.Sleep(d)
}

// GPIOFactory creates GPIOTransmitters for pins mapped to GPIO names
// registered in periph's gpioreg.
type GPIOFactory struct {
	Names map[byte]string
}

// NewTransmitter implements Factory.
func (f *GPIOFactory) NewTransmitter(pin byte) (Transmitter, error) {
	name, ok := f.Names[pin]
	if !ok {
		return nil, fmt.Errorf("%w %d", ErrNoGPIO, pin)
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("GPIO %q for pin %d not found", name, pin)
	}
	glog.V(2).Infof("pin %d -> %s", pin, p)
	tx, err := NewGPIOTransmitter(p)
	if err != nil {
		return nil, err
	}
	return tx, nil
}
