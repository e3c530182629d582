// Package rc provides shell commands controlling RC output pins.
package rc

import (
	"context"
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/rcout/pkg/cli/sh"
	"github.com/robotalks/rcout/pkg/rcoutput"
	"github.com/robotalks/rcout/pkg/remote"
	"github.com/robotalks/rcout/pkg/tristate"
)

// pinModeOutput is the firmata OUTPUT mode, used to release a pin.
const pinModeOutput = 0x01

func parseUint(s string, bits int) (uint64, error) {
	return strconv.ParseUint(s, 0, bits)
}

func parsePin(c *ishell.Context, minArgs int, usage string) (byte, bool) {
	if len(c.Args) < minArgs {
		c.Err(fmt.Errorf("arguments: %s", usage))
		return 0, false
	}
	pin, err := parseUint(c.Args[0], 8)
	if err != nil {
		c.Err(fmt.Errorf("invalid pin %q: %v", c.Args[0], err))
		return 0, false
	}
	return byte(pin), true
}

func sysex(c *ishell.Context, sub rcoutput.Subcommand, pin byte, data []byte) {
	sh.DoCommand(c, func(ctx context.Context, client *remote.Client) (*remote.Reply, error) {
		return client.Sysex(ctx, sub, pin, data)
	})
}

// LongPayload encodes bit count and value as a CODE_LONG payload.
func LongPayload(bitCount, value string) ([]byte, error) {
	bits, err := parseUint(bitCount, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid bit count %q: %v", bitCount, err)
	}
	val, err := parseUint(value, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid value %q: %v", value, err)
	}
	return rcoutput.LongValue{BitCount: uint16(bits), Value: uint32(val)}.Bytes(), nil
}

var (
	// ModeCmd switches a pin on or off RC output.
	ModeCmd = ishell.Cmd{
		Name:    "rc.mode",
		Aliases: []string{"rcm"},
		Help:    "PIN on|off",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			pin, ok := parsePin(c, 2, "PIN on|off")
			if !ok {
				return
			}
			var mode byte
			switch c.Args[1] {
			case "on":
				mode = rcoutput.PinModeRCOutput
			case "off":
				mode = pinModeOutput
			default:
				c.Err(fmt.Errorf("expect on or off: %q", c.Args[1]))
				return
			}
			sh.DoCommand(c, func(ctx context.Context, client *remote.Client) (*remote.Reply, error) {
				return client.Do(ctx, &remote.Command{Op: remote.OpPinMode, Pin: uint32(pin), Mode: uint32(mode)})
			})
		}),
	}

	// ProtocolCmd selects the protocol.
	ProtocolCmd = ishell.Cmd{
		Name:    "rc.protocol",
		Aliases: []string{"rcp"},
		Help:    "PIN PROTOCOL",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			pin, ok := parsePin(c, 2, "PIN PROTOCOL")
			if !ok {
				return
			}
			id, err := parseUint(c.Args[1], 8)
			if err != nil {
				c.Err(err)
				return
			}
			sysex(c, rcoutput.ConfigProtocol, pin, []byte{byte(id)})
		}),
	}

	// PulseCmd sets the pulse length.
	PulseCmd = ishell.Cmd{
		Name:    "rc.pulse",
		Aliases: []string{"rcl"},
		Help:    "PIN MICROSECONDS",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			pin, ok := parsePin(c, 2, "PIN MICROSECONDS")
			if !ok {
				return
			}
			us, err := parseUint(c.Args[1], 16)
			if err != nil {
				c.Err(err)
				return
			}
			sysex(c, rcoutput.ConfigPulseLength, pin, []byte{byte(us), byte(us >> 8)})
		}),
	}

	// RepeatCmd sets the repeat count.
	RepeatCmd = ishell.Cmd{
		Name:    "rc.repeat",
		Aliases: []string{"rcr"},
		Help:    "PIN COUNT",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			pin, ok := parsePin(c, 2, "PIN COUNT")
			if !ok {
				return
			}
			n, err := parseUint(c.Args[1], 8)
			if err != nil {
				c.Err(err)
				return
			}
			sysex(c, rcoutput.ConfigRepeatTransmit, pin, []byte{byte(n)})
		}),
	}

	// TristateCmd sends a tri-state code.
	TristateCmd = ishell.Cmd{
		Name:    "rc.tristate",
		Aliases: []string{"rct"},
		Help:    "PIN CODE",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			pin, ok := parsePin(c, 2, "PIN CODE")
			if !ok {
				return
			}
			packed, err := tristate.Pack(c.Args[1])
			if err != nil {
				c.Err(err)
				return
			}
			sysex(c, rcoutput.CodeTristate, pin, packed)
		}),
	}

	// LongCmd sends a long value.
	LongCmd = ishell.Cmd{
		Name:    "rc.long",
		Aliases: []string{"rcv"},
		Help:    "PIN BITS VALUE",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			pin, ok := parsePin(c, 3, "PIN BITS VALUE")
			if !ok {
				return
			}
			data, err := LongPayload(c.Args[1], c.Args[2])
			if err != nil {
				c.Err(err)
				return
			}
			sysex(c, rcoutput.CodeLong, pin, data)
		}),
	}

	// SendCmd sends a binary string.
	SendCmd = ishell.Cmd{
		Name:    "rc.send",
		Aliases: []string{"rcs"},
		Help:    "PIN BINARY",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			pin, ok := parsePin(c, 2, "PIN BINARY")
			if !ok {
				return
			}
			sysex(c, rcoutput.CodeChar, pin, []byte(c.Args[1]))
		}),
	}

	// CapsCmd queries capability of a pin.
	CapsCmd = ishell.Cmd{
		Name:    "rc.caps",
		Aliases: []string{"rcc"},
		Help:    "PIN",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			pin, ok := parsePin(c, 1, "PIN")
			if !ok {
				return
			}
			sh.DoCommand(c, func(ctx context.Context, client *remote.Client) (*remote.Reply, error) {
				return client.Do(ctx, &remote.Command{Op: remote.OpCapability, Pin: uint32(pin)})
			})
		}),
	}

	// ResetCmd detaches all transmitters.
	ResetCmd = ishell.Cmd{
		Name:    "rc.reset",
		Aliases: []string{"rcx"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, func(ctx context.Context, client *remote.Client) (*remote.Reply, error) {
				return client.Do(ctx, &remote.Command{Op: remote.OpReset})
			})
		}),
	}
)

func init() {
	sh.AddCmds(
		&ModeCmd,
		&ProtocolCmd,
		&PulseCmd,
		&RepeatCmd,
		&TristateCmd,
		&LongCmd,
		&SendCmd,
		&CapsCmd,
		&ResetCmd,
	)
}
