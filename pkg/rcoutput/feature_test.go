package rcoutput

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/rcout/pkg/firmata"
)

func TestFeatureSysex(t *testing.T) {
	d, f := newTestDispatcher(t, 4)
	feat := NewFeature(d)

	long := []byte{0x08, 0x00, 0x2a, 0x00, 0x00, 0x00}
	msg := CommandMessage(Command{CodeLong, 4, long})
	require.Equal(t, []byte{
		firmata.StartSysex, SysexRCOutputData, 0x22, 4,
		0x08, 0x00, 0x28, 0x01, 0x00, 0x00, 0x00,
		firmata.EndSysex,
	}, msg.Bytes())

	reply, handled := feat.HandleSysex(msg.Command, msg.Data)
	require.True(t, handled)
	require.NotNil(t, reply)
	require.Equal(t, msg.Bytes(), reply.Bytes())
	require.Equal(t, []string{"long 42/8"}, f.calls())
}

func TestFeatureSuppressed(t *testing.T) {
	d, f := newTestDispatcher(t)
	feat := NewFeature(d)
	msg := CommandMessage(Command{CodeTristate, 4, []byte{0xd3}})
	reply, handled := feat.HandleSysex(msg.Command, msg.Data)
	require.True(t, handled)
	require.Nil(t, reply)
	require.Empty(t, f.calls())

	reply, handled = feat.HandleSysex(SysexRCOutputData, []byte{byte(CodeTristate)})
	require.True(t, handled)
	require.Nil(t, reply)
}

func TestFeatureIgnoresOtherSysex(t *testing.T) {
	d, _ := newTestDispatcher(t)
	reply, handled := NewFeature(d).HandleSysex(0x42, []byte{0x21, 4})
	require.False(t, handled)
	require.Nil(t, reply)
}

func TestFeaturePinModeAndReset(t *testing.T) {
	d, f := newTestDispatcher(t)
	feat := NewFeature(d)
	require.Equal(t, []byte{PinModeRCOutput, CapabilityResolution}, feat.HandleCapability(2))
	require.True(t, feat.HandlePinMode(2, PinModeRCOutput))
	require.Equal(t, []byte{2}, d.Registry.Attached())
	feat.Reset()
	require.Empty(t, d.Registry.Attached())
	require.True(t, f.created[0].closed)
}
