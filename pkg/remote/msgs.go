package remote

import (
	"encoding/json"
	"fmt"

	"github.com/golang/protobuf/proto"
)

// Op is the operation of a Command.
type Op int32

// Operations
const (
	// OpSysex executes an RC output subcommand.
	OpSysex Op = 0
	// OpPinMode switches the pin mode, Mode is the firmata pin mode.
	OpPinMode Op = 1
	// OpReset detaches all transmitters.
	OpReset Op = 2
	// OpCapability queries the modes supported by the pin.
	OpCapability Op = 3
)

var opNames = map[Op]string{
	OpSysex:      "SYSEX",
	OpPinMode:    "PIN_MODE",
	OpReset:      "RESET",
	OpCapability: "CAPABILITY",
}

// String implements fmt.Stringer.
func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("OP(%d)", int32(o))
}

// Command is published to the command topic of a device.
type Command struct {
	Seq        uint32 `protobuf:"varint,1,opt,name=seq,proto3" json:"seq,omitempty"`
	Op         Op     `protobuf:"varint,2,opt,name=op,proto3" json:"op,omitempty"`
	Subcommand uint32 `protobuf:"varint,3,opt,name=subcommand,proto3" json:"subcommand,omitempty"`
	Pin        uint32 `protobuf:"varint,4,opt,name=pin,proto3" json:"pin,omitempty"`
	Mode       uint32 `protobuf:"varint,5,opt,name=mode,proto3" json:"mode,omitempty"`
	Data       []byte `protobuf:"bytes,6,opt,name=data,proto3" json:"data,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *Command) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Command) Reset() { *m = Command{} }

// String implements proto.Message.
func (m *Command) String() string { return proto.CompactTextString(m) }

// Reply is published to the reply topic for every Command.
type Reply struct {
	Seq        uint32 `protobuf:"varint,1,opt,name=seq,proto3" json:"seq,omitempty"`
	Subcommand uint32 `protobuf:"varint,2,opt,name=subcommand,proto3" json:"subcommand,omitempty"`
	Pin        uint32 `protobuf:"varint,3,opt,name=pin,proto3" json:"pin,omitempty"`
	// Data is the acknowledged payload or the capability of the pin.
	Data []byte `protobuf:"bytes,4,opt,name=data,proto3" json:"data,omitempty"`
	// Accepted reports whether a pin mode was taken.
	Accepted bool `protobuf:"varint,5,opt,name=accepted,proto3" json:"accepted,omitempty"`
	// Error is the reason a command was suppressed.
	Error string `protobuf:"bytes,6,opt,name=error,proto3" json:"error,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *Reply) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Reply) Reset() { *m = Reply{} }

// String implements proto.Message.
func (m *Reply) String() string { return proto.CompactTextString(m) }

// Meta is published retained to the meta topic while the device is online.
type Meta struct {
	Firmware  string `json:"firmware"`
	Version   string `json:"version"`
	TotalPins int    `json:"total-pins"`
}

// ParseMeta decodes Meta.
func ParseMeta(payload []byte) (*Meta, error) {
	var meta Meta
	if err := json.Unmarshal(payload, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Topics of a device, relative to the topic prefix.
func metaTopic(deviceID string) string  { return deviceID + "/meta" }
func cmdTopic(deviceID string) string   { return deviceID + "/cmd" }
func replyTopic(deviceID string) string { return deviceID + "/reply" }
