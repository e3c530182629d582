// Package firmata implements the device side of the Firmata protocol.
package firmata

// A host talks to the device over a byte stream (serial port, TCP,
// WebSocket). Messages are MIDI-style: a status byte followed by a fixed
// number of 7-bit data bytes, or a sysex message enclosed in START_SYSEX
// and END_SYSEX carrying a command byte and any number of 7-bit bytes.
//
// The Device handles the core messages (version, firmware, capabilities,
// pin modes, reset) and passes sysex commands to Features.
//
// Producer: host (firmata client)
// Consumer: device
