package rcoutput

import "fmt"

// Firmata integration.
const (
	// SysexRCOutputData is the sysex command carrying RC output messages.
	SysexRCOutputData byte = 0x5C
	// PinModeRCOutput is the pin mode attaching a transmitter.
	PinModeRCOutput byte = 0x0A
	// CapabilityResolution is reported along with PinModeRCOutput.
	CapabilityResolution byte = 1
)

// Subcommand selects the operation on a pin.
type Subcommand byte

// Subcommands
const (
	Unknown Subcommand = 0x00

	ConfigProtocol       Subcommand = 0x11
	ConfigPulseLength    Subcommand = 0x12
	ConfigRepeatTransmit Subcommand = 0x14

	CodeTristate Subcommand = 0x21
	CodeLong     Subcommand = 0x22
	CodeChar     Subcommand = 0x24
)

var subcommandNames = map[Subcommand]string{
	Unknown:              "UNKNOWN",
	ConfigProtocol:       "CONFIG_PROTOCOL",
	ConfigPulseLength:    "CONFIG_PULSE_LENGTH",
	ConfigRepeatTransmit: "CONFIG_REPEAT_TRANSMIT",
	CodeTristate:         "CODE_TRISTATE",
	CodeLong:             "CODE_LONG",
	CodeChar:             "CODE_CHAR",
}

// ParseSubcommand maps a byte to a known Subcommand, or Unknown.
func ParseSubcommand(b byte) Subcommand {
	if _, ok := subcommandNames[Subcommand(b)]; ok {
		return Subcommand(b)
	}
	return Unknown
}

// IsConfig indicates a configuration subcommand.
func (s Subcommand) IsConfig() bool {
	return s&0xf0 == 0x10 && s != Unknown
}

// IsCode indicates a transmission subcommand.
func (s Subcommand) IsCode() bool {
	return s&0xf0 == 0x20
}

// String implements fmt.Stringer.
func (s Subcommand) String() string {
	if name, ok := subcommandNames[s]; ok {
		return name
	}
	return fmt.Sprintf("0x%02x", byte(s))
}
