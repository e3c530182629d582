package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	fx "github.com/robotalks/rcout/pkg/framework"
	"github.com/robotalks/rcout/pkg/rcoutput"
)

// PinPreset maps a pin to a GPIO and optionally attaches a transmitter
// on startup.
type PinPreset struct {
	Pin  byte   `yaml:"pin"`
	GPIO string `yaml:"gpio"`
	// Attach attaches a transmitter without waiting for the host.
	Attach      bool `yaml:"attach"`
	Protocol    int  `yaml:"protocol"`
	PulseLength int  `yaml:"pulse_length"`
	Repeat      int  `yaml:"repeat"`
}

// Pins is the content of a pins file.
//
//	pins:
//	  - pin: 10
//	    gpio: GPIO17
//	    attach: true
//	    protocol: 1
//	    pulse_length: 350
//	    repeat: 10
type Pins struct {
	Pins []PinPreset `yaml:"pins"`
}

// ParsePins parses YAML content.
func ParsePins(data []byte) (*Pins, error) {
	var pins Pins
	if err := yaml.Unmarshal(data, &pins); err != nil {
		return nil, err
	}
	if err := pins.Validate(); err != nil {
		return nil, err
	}
	return &pins, nil
}

// LoadPins loads a pins file.
func LoadPins(fn string) (*Pins, error) {
	data, err := os.ReadFile(fn)
	if err != nil {
		return nil, err
	}
	pins, err := ParsePins(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return pins, nil
}

// Validate checks values fit into the command payloads.
func (p *Pins) Validate() error {
	seen := make(map[byte]bool)
	for _, preset := range p.Pins {
		if seen[preset.Pin] {
			return fmt.Errorf("pin %d: duplicated", preset.Pin)
		}
		seen[preset.Pin] = true
		if preset.Protocol < 0 || preset.Protocol > 0xff {
			return fmt.Errorf("pin %d: invalid protocol %d", preset.Pin, preset.Protocol)
		}
		if preset.PulseLength < 0 || preset.PulseLength > 0xffff {
			return fmt.Errorf("pin %d: invalid pulse length %d", preset.Pin, preset.PulseLength)
		}
		if preset.Repeat < 0 || preset.Repeat > 0xff {
			return fmt.Errorf("pin %d: invalid repeat %d", preset.Pin, preset.Repeat)
		}
	}
	return nil
}

// GPIONames returns the pin to GPIO name map.
func (p *Pins) GPIONames() map[byte]string {
	names := make(map[byte]string)
	for _, preset := range p.Pins {
		if preset.GPIO != "" {
			names[preset.Pin] = preset.GPIO
		}
	}
	return names
}

// Commands returns the configuration commands of a preset, in the order
// they must be applied. Protocol goes first as it resets the pulse length.
func (p *PinPreset) Commands() []rcoutput.Command {
	var cmds []rcoutput.Command
	if p.Protocol > 0 {
		cmds = append(cmds, rcoutput.Command{
			Subcommand: rcoutput.ConfigProtocol,
			Pin:        p.Pin,
			Data:       []byte{byte(p.Protocol)},
		})
	}
	if p.PulseLength > 0 {
		cmds = append(cmds, rcoutput.Command{
			Subcommand: rcoutput.ConfigPulseLength,
			Pin:        p.Pin,
			Data:       []byte{byte(p.PulseLength), byte(p.PulseLength >> 8)},
		})
	}
	if p.Repeat > 0 {
		cmds = append(cmds, rcoutput.Command{
			Subcommand: rcoutput.ConfigRepeatTransmit,
			Pin:        p.Pin,
			Data:       []byte{byte(p.Repeat)},
		})
	}
	return cmds
}

// Apply attaches the preset pins and configures them through the dispatcher.
func (p *Pins) Apply(d *rcoutput.Dispatcher) error {
	var errs fx.AggregatedError
	for i := range p.Pins {
		preset := &p.Pins[i]
		if !preset.Attach {
			continue
		}
		if !d.HandlePinMode(preset.Pin, rcoutput.PinModeRCOutput) {
			errs.Add(fmt.Errorf("pin %d: attach failed", preset.Pin))
			continue
		}
		for _, cmd := range preset.Commands() {
			if res := d.Dispatch(cmd); !res.IsAcknowledged() {
				errs.Add(res.Reason)
			}
		}
	}
	return errs.Aggregate()
}
