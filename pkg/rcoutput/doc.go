// Package rcoutput drives RF remote control transmitters attached to pins
// on behalf of a host.
//
// The host addresses a pin with a subcommand and a payload. Configuration
// subcommands change protocol, pulse length and repeat count of the
// transmitter attached to the pin, code subcommands transmit tri-state
// codes, long values or binary strings. Every command that completes
// successfully is acknowledged by mirroring the processed bytes; commands
// which can't be executed are suppressed, and the missing acknowledgement
// is what the host sees.
package rcoutput
