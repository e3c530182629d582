package rcswitch

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

type pulse struct {
	level gpio.Level
	dur   time.Duration
}

type recordingPin struct {
	*gpiotest.Pin
	pulses []pulse
}

func newRecordingPin() *recordingPin {
	return &recordingPin{Pin: &gpiotest.Pin{N: "GPIO17", Num: 17}}
}

func (p *recordingPin) Out(l gpio.Level) error {
	p.pulses = append(p.pulses, pulse{level: l})
	return p.Pin.Out(l)
}

func (p *recordingPin) sleep(d time.Duration) {
	p.pulses[len(p.pulses)-1].dur += d
}

func (p *recordingPin) reset() {
	p.pulses = nil
}

func newTestTransmitter(t *testing.T) (*GPIOTransmitter, *recordingPin) {
	p := newRecordingPin()
	tx, err := NewGPIOTransmitter(p)
	require.NoError(t, err)
	tx.Sleep = p.sleep
	p.reset()
	return tx, p
}

func us(n int) time.Duration {
	return time.Duration(n) * time.Microsecond
}

func hl(pulseLen int, h HighLow) []pulse {
	return []pulse{{gpio.High, us(pulseLen * h.High)}, {gpio.Low, us(pulseLen * h.Low)}}
}

func waveform(p Protocol, pulseLen int, bits string) []pulse {
	var out []pulse
	for i := 0; i < len(bits); i++ {
		if bits[i] == '1' {
			out = append(out, hl(pulseLen, p.One)...)
		} else {
			out = append(out, hl(pulseLen, p.Zero)...)
		}
	}
	return append(out, hl(pulseLen, p.Sync)...)
}

func TestNewGPIOTransmitterDrivesLow(t *testing.T) {
	p := newRecordingPin()
	tx, err := NewGPIOTransmitter(p)
	require.NoError(t, err)
	require.Equal(t, []pulse{{level: gpio.Low}}, p.pulses)
	require.Equal(t, DefaultSettings(), tx.Settings())
}

func TestGPIOSendTristate(t *testing.T) {
	tx, p := newTestTransmitter(t)
	tx.SetRepeatTransmit(1)
	require.NoError(t, tx.SendTristate("0F1"))
	proto1 := Protocols[0]
	expect := append(waveform(proto1, 350, "000111"), pulse{level: gpio.Low})
	require.Equal(t, expect, p.pulses)
}

func TestGPIOSendLongRepeats(t *testing.T) {
	tx, p := newTestTransmitter(t)
	tx.SetRepeatTransmit(2)
	tx.SetPulseLength(300)
	require.NoError(t, tx.SendLong(5, 3))
	once := waveform(Protocols[0], 300, "101")
	expect := append(append(append([]pulse{}, once...), once...), pulse{level: gpio.Low})
	require.Equal(t, expect, p.pulses)
}

func TestGPIOInvertedProtocol(t *testing.T) {
	tx, p := newTestTransmitter(t)
	require.NoError(t, tx.SetProtocol(6))
	require.Equal(t, 450, tx.Settings().PulseLength)
	tx.SetRepeatTransmit(1)
	require.NoError(t, tx.SendString("1"))
	require.Equal(t, []pulse{
		{gpio.Low, us(900)}, {gpio.High, us(450)},
		{gpio.Low, us(450 * 23)}, {gpio.High, us(450)},
		{level: gpio.Low},
	}, p.pulses)
}

func TestGPIOErrors(t *testing.T) {
	tx, p := newTestTransmitter(t)
	require.True(t, errors.Is(tx.SetProtocol(0), ErrUnknownProtocol))
	require.True(t, errors.Is(tx.SetProtocol(8), ErrUnknownProtocol))
	require.Equal(t, DefaultProtocol, tx.Settings().ProtocolID)
	require.True(t, errors.Is(tx.SendLong(1, 0), ErrBitCount))
	require.True(t, errors.Is(tx.SendLong(1, 33), ErrBitCount))
	require.True(t, errors.Is(tx.SendString("012"), ErrInvalidBit))
	require.True(t, errors.Is(tx.SendTristate("0X"), ErrInvalidBit))
	require.Empty(t, p.pulses)
}

func TestGPIOClose(t *testing.T) {
	tx, p := newTestTransmitter(t)
	require.NoError(t, tx.Close())
	require.Equal(t, []pulse{{level: gpio.Low}}, p.pulses)
}

func TestLongBits(t *testing.T) {
	bits, ok := LongBits(42, 8)
	require.True(t, ok)
	require.Equal(t, "00101010", bits)
	bits, ok = LongBits(0xffffffff, 32)
	require.True(t, ok)
	require.Len(t, bits, 32)
	_, ok = LongBits(1, 0)
	require.False(t, ok)
}

func TestTristateBits(t *testing.T) {
	bits, ok := TristateBits("0F1")
	require.True(t, ok)
	require.Equal(t, "000111", bits)
	_, ok = TristateBits("X")
	require.False(t, ok)
}

func TestGPIOFactoryUnmapped(t *testing.T) {
	f := &GPIOFactory{Names: map[byte]string{}}
	_, err := f.NewTransmitter(3)
	require.True(t, errors.Is(err, ErrNoGPIO))
}
