package firmata

// Message command bytes (0x80-0xFF), see Firmata.h.
const (
	DigitalMessage     byte = 0x90 // data for a digital port
	AnalogMessage      byte = 0xE0 // data for an analog pin (or PWM)
	ReportAnalog       byte = 0xC0 // enable analog input by pin #
	ReportDigital      byte = 0xD0 // enable digital input by port pair
	SetPinMode         byte = 0xF4 // set a pin mode
	SetDigitalPinValue byte = 0xF5 // set value of an individual digital pin
	ReportVersion      byte = 0xF9 // report protocol version
	SystemReset        byte = 0xFF // reset from MIDI
	StartSysex         byte = 0xF0 // start a MIDI sysex message
	EndSysex           byte = 0xF7 // end a MIDI sysex message
)

// Extended command set using sysex (0x00-0x7F).
const (
	StringData            byte = 0x71 // a string message with 14-bits per char
	CapabilityQuery       byte = 0x6B // ask for supported modes of all pins
	CapabilityResponse    byte = 0x6C // reply with supported modes and resolution
	AnalogMappingQuery    byte = 0x69 // ask for mapping of analog to pin numbers
	AnalogMappingResponse byte = 0x6A // reply with mapping info
	ReportFirmware        byte = 0x79 // report name and version of the firmware
)

// Protocol version reported by the device.
const (
	ProtocolMajorVersion byte = 2
	ProtocolMinorVersion byte = 5
)

// MaxDataBytes is the maximum size of a sysex message body, including
// the command byte.
const MaxDataBytes = 64

// PinModeEnd terminates the mode list of a pin in a capability response.
const PinModeEnd byte = 0x7F

// NoAnalogPin marks a pin without analog channel in analog mappings.
const NoAnalogPin byte = 0x7F
