package rcoutput

import (
	"github.com/golang/glog"

	"github.com/robotalks/rcout/pkg/firmata"
)

// Feature plugs a Dispatcher into a firmata.Device.
//
// Payloads travel 7-bit encoded inside RCOUTPUT_DATA sysex messages:
//
//	F0 5C <subcommand> <pin> <7-bit encoded payload> F7
//
// and acknowledgements are mirrored the same way with the processed part
// of the payload.
type Feature struct {
	Dispatcher *Dispatcher
}

// NewFeature creates a Feature.
func NewFeature(d *Dispatcher) *Feature {
	return &Feature{Dispatcher: d}
}

// HandlePinMode implements firmata.Feature.
func (f *Feature) HandlePinMode(pin, mode byte) bool {
	return f.Dispatcher.HandlePinMode(pin, mode)
}

// HandleCapability implements firmata.Feature.
func (f *Feature) HandleCapability(pin byte) []byte {
	return f.Dispatcher.HandleCapability(pin)
}

// HandleSysex implements firmata.Feature.
func (f *Feature) HandleSysex(cmd byte, argv []byte) (*firmata.Message, bool) {
	if cmd != SysexRCOutputData {
		return nil, false
	}
	if len(argv) >= 2 {
		argv = append([]byte{argv[0], argv[1]}, firmata.Decode7Bit(argv[2:])...)
	}
	res := f.Dispatcher.HandleSysex(argv)
	if !res.IsAcknowledged() {
		glog.Warningf("rcoutput: %v", res.Reason)
		return nil, true
	}
	return AckMessage(res.Ack), true
}

// Reset implements firmata.Feature.
func (f *Feature) Reset() {
	if err := f.Dispatcher.Reset(); err != nil {
		glog.Errorf("rcoutput: reset: %v", err)
	}
}

// CommandMessage encodes a command as a sysex message.
func CommandMessage(cmd Command) *firmata.Message {
	return sysexMessage(cmd.Subcommand, cmd.Pin, cmd.Data)
}

// AckMessage encodes an acknowledgement as a sysex message.
func AckMessage(ack *Ack) *firmata.Message {
	return sysexMessage(ack.Subcommand, ack.Pin, ack.Data)
}

func sysexMessage(sub Subcommand, pin byte, data []byte) *firmata.Message {
	argv := append([]byte{byte(sub), pin}, firmata.Encode7Bit(data)...)
	return firmata.NewSysex(SysexRCOutputData, argv...)
}
