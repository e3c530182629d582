package rcoutput

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/rcout/pkg/rcswitch"
)

func newTestDispatcher(t *testing.T, pins ...byte) (*Dispatcher, *fakeFactory) {
	f := &fakeFactory{}
	d := NewDispatcher(NewRegistry(8, f))
	for _, pin := range pins {
		require.True(t, d.HandlePinMode(pin, PinModeRCOutput))
	}
	return d, f
}

func TestDispatch(t *testing.T) {
	testCases := []struct {
		name  string
		cmd   Command
		ack   []byte
		calls []string
	}{
		{"protocol", Command{ConfigProtocol, 3, []byte{2}}, []byte{2}, []string{"protocol 2"}},
		{"pulse length", Command{ConfigPulseLength, 3, []byte{0x5e, 0x01}}, []byte{0x5e, 0x01}, []string{"pulse 350"}},
		{"pulse length one byte", Command{ConfigPulseLength, 3, []byte{0xc8}}, []byte{0xc8}, []string{"pulse 200"}},
		{"pulse length extra bytes", Command{ConfigPulseLength, 3, []byte{0x5e, 0x01, 0x07}}, []byte{0x5e, 0x01}, []string{"pulse 350"}},
		{"repeat", Command{ConfigRepeatTransmit, 3, []byte{15, 1}}, []byte{15}, []string{"repeat 15"}},
		{"tristate", Command{CodeTristate, 3, []byte{0xd3}}, []byte{0xd3}, []string{"tristate 1F01"}},
		{"long", Command{CodeLong, 3, []byte{0x08, 0x00, 0x2a, 0x00, 0x00, 0x00}}, []byte{0x08, 0x00, 0x2a, 0x00, 0x00, 0x00}, []string{"long 42/8"}},
		{"char", Command{CodeChar, 3, []byte("1001")}, []byte("1001"), []string{"string 1001"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, f := newTestDispatcher(t, 3)
			res := d.Dispatch(tc.cmd)
			require.True(t, res.IsAcknowledged(), "reason %v", res.Reason)
			require.Nil(t, res.Reason)
			require.Equal(t, tc.cmd.Subcommand, res.Ack.Subcommand)
			require.Equal(t, byte(3), res.Ack.Pin)
			require.Equal(t, tc.ack, res.Ack.Data)
			require.Equal(t, tc.calls, f.calls())
		})
	}
}

func TestDispatchSuppressed(t *testing.T) {
	testCases := []struct {
		name string
		cmd  Command
		err  error
	}{
		{"unknown", Command{Subcommand(0x33), 3, []byte{1}}, ErrUnknownCommand},
		{"unknown zero", Command{Unknown, 3, nil}, ErrUnknownCommand},
		{"not attached", Command{CodeTristate, 4, []byte{0xd3}}, ErrNoSenderAttached},
		{"out of range", Command{CodeTristate, 100, []byte{0xd3}}, ErrNoSenderAttached},
		{"protocol missing", Command{ConfigProtocol, 3, nil}, ErrMalformedPayload},
		{"protocol unknown", Command{ConfigProtocol, 3, []byte{99}}, rcswitch.ErrUnknownProtocol},
		{"pulse missing", Command{ConfigPulseLength, 3, nil}, ErrMalformedPayload},
		{"repeat zero", Command{ConfigRepeatTransmit, 3, []byte{0}}, ErrMalformedPayload},
		{"tristate empty", Command{CodeTristate, 3, nil}, ErrMalformedPayload},
		{"tristate reserved", Command{CodeTristate, 3, []byte{0x80}}, rcswitch.ErrInvalidBit},
		{"long short", Command{CodeLong, 3, []byte{8, 0, 42}}, ErrMalformedPayload},
		{"long bit count", Command{CodeLong, 3, []byte{33, 0, 42, 0, 0, 0}}, rcswitch.ErrBitCount},
		{"char empty", Command{CodeChar, 3, []byte{}}, ErrMalformedPayload},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, f := newTestDispatcher(t, 3)
			res := d.Dispatch(tc.cmd)
			require.False(t, res.IsAcknowledged())
			require.Nil(t, res.Ack)
			require.True(t, errors.Is(res.Reason, tc.err), "got %v", res.Reason)
			require.Empty(t, f.calls())
		})
	}
}

func TestHandleSysex(t *testing.T) {
	d, f := newTestDispatcher(t, 2)
	res := d.HandleSysex([]byte{byte(ConfigPulseLength), 2, 0x5e, 0x01})
	require.True(t, res.IsAcknowledged())
	require.Equal(t, []byte{0x12, 2, 2, 0x5e, 0x01}, res.Ack.Bytes())
	require.Equal(t, []string{"pulse 350"}, f.calls())

	res = d.HandleSysex([]byte{byte(CodeTristate)})
	require.True(t, errors.Is(res.Reason, ErrMalformedPayload))
	res = d.HandleSysex([]byte{0x7e, 2, 1})
	require.True(t, errors.Is(res.Reason, ErrUnknownCommand))
}

func TestPinModeSwitch(t *testing.T) {
	d, f := newTestDispatcher(t)
	require.False(t, d.HandlePinMode(1, 0x01))
	require.Empty(t, f.created)

	require.True(t, d.HandlePinMode(1, PinModeRCOutput))
	require.True(t, d.HandlePinMode(1, PinModeRCOutput))
	require.Len(t, f.created, 2)
	require.True(t, f.created[0].closed)

	require.True(t, d.Dispatch(Command{CodeChar, 1, []byte("1")}).IsAcknowledged())

	require.False(t, d.HandlePinMode(1, 0x01))
	require.True(t, f.created[1].closed)
	res := d.Dispatch(Command{CodeChar, 1, []byte("1")})
	require.True(t, errors.Is(res.Reason, ErrNoSenderAttached))

	require.False(t, d.HandlePinMode(50, PinModeRCOutput))
}

func TestPinModeFactoryFailure(t *testing.T) {
	f := &fakeFactory{err: errFactory}
	d := NewDispatcher(NewRegistry(8, f))
	require.False(t, d.HandlePinMode(1, PinModeRCOutput))
	res := d.Dispatch(Command{CodeChar, 1, []byte("1")})
	require.True(t, errors.Is(res.Reason, ErrNoSenderAttached))
}

func TestDispatcherReset(t *testing.T) {
	d, f := newTestDispatcher(t, 0, 3, 7)
	require.NoError(t, d.Reset())
	for _, tx := range f.created {
		require.True(t, tx.closed)
	}
	for pin := byte(0); pin < 8; pin++ {
		for _, sub := range []Subcommand{CodeTristate, CodeLong, CodeChar} {
			res := d.Dispatch(Command{sub, pin, []byte{0x08, 0x00, 0x2a, 0x00, 0x00, 0x00}})
			require.True(t, errors.Is(res.Reason, ErrNoSenderAttached))
		}
	}
	require.Empty(t, f.calls())
}

func TestCapability(t *testing.T) {
	d, _ := newTestDispatcher(t)
	require.Equal(t, []byte{PinModeRCOutput, CapabilityResolution}, d.HandleCapability(0))
	require.Equal(t, []byte{PinModeRCOutput, CapabilityResolution}, d.HandleCapability(7))
	require.Nil(t, d.HandleCapability(8))
}

func TestSubcommand(t *testing.T) {
	require.Equal(t, CodeLong, ParseSubcommand(0x22))
	require.Equal(t, Unknown, ParseSubcommand(0x23))
	require.True(t, ConfigRepeatTransmit.IsConfig())
	require.False(t, ConfigRepeatTransmit.IsCode())
	require.True(t, CodeChar.IsCode())
	require.False(t, Unknown.IsConfig())
	require.False(t, Unknown.IsCode())
	require.Equal(t, "CONFIG_PULSE_LENGTH", ConfigPulseLength.String())
	require.Equal(t, "0x7e", Subcommand(0x7e).String())
}
