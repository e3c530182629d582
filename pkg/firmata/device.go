package firmata

import (
	"context"
	"io"
	"sync"

	"github.com/golang/glog"
)

// Feature extends the device with pin modes and sysex commands.
type Feature interface {
	// HandlePinMode is called for every SET_PIN_MODE. It returns true if
	// the feature takes the pin in that mode.
	HandlePinMode(pin, mode byte) bool
	// HandleCapability returns mode/resolution pairs the pin supports.
	HandleCapability(pin byte) []byte
	// HandleSysex handles a sysex command. If handled, reply (optional)
	// is sent back to the host.
	HandleSysex(cmd byte, argv []byte) (reply *Message, handled bool)
	// Reset is called on SYSTEM_RESET.
	Reset()
}

// Firmware identifies the firmware reported to the host.
type Firmware struct {
	Name         string
	Major, Minor byte
}

// DefaultFirmware is reported if none is specified.
var DefaultFirmware = Firmware{Name: "rcout", Major: 2, Minor: 5}

// Device serves the Firmata protocol over a byte stream.
type Device struct {
	ReadWriter io.ReadWriter
	Features   []Feature
	Firmware   Firmware
	TotalPins  int

	writeLock sync.Mutex
	parser    Parser
}

// NewDevice creates a Device.
func NewDevice(rw io.ReadWriter, totalPins int, features ...Feature) *Device {
	return &Device{
		ReadWriter: rw,
		Features:   features,
		Firmware:   DefaultFirmware,
		TotalPins:  totalPins,
	}
}

// Send writes a message to the host.
func (d *Device) Send(msg *Message) error {
	d.writeLock.Lock()
	defer d.writeLock.Unlock()
	_, err := msg.WriteTo(d.ReadWriter)
	return err
}

// Run reports version and firmware like a booting board does, then
// processes messages until the stream fails or ctx is done.
func (d *Device) Run(ctx context.Context) error {
	if err := d.Send(d.versionMessage()); err != nil {
		return err
	}
	if err := d.Send(d.firmwareMessage()); err != nil {
		return err
	}

	dataCh, errCh := make(chan []byte), make(chan error, 1)
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go d.readLoop(subCtx, dataCh, errCh)
	for {
		select {
		case data := <-dataCh:
			for _, b := range data {
				pr := d.parser.Parse(b)
				if pr.Err != nil {
					glog.Warningf("firmata: %v", pr.Err)
				}
				if pr.Message != nil {
					if err := d.Handle(pr.Message); err != nil {
						return err
					}
				}
			}
		case err := <-errCh:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (d *Device) readLoop(ctx context.Context, dataCh chan []byte, errCh chan error) {
	buf := make([]byte, MaxDataBytes)
	for {
		n, err := d.ReadWriter.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			select {
			case dataCh <- data:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			errCh <- err
			return
		}
	}
}

// Handle processes a single message. Only write errors are returned.
func (d *Device) Handle(msg *Message) error {
	if msg.Sysex {
		return d.handleSysex(msg)
	}
	switch msg.Type() {
	case ReportVersion:
		return d.Send(d.versionMessage())
	case SetPinMode:
		pin, mode := msg.Data[0], msg.Data[1]
		var taken bool
		for _, f := range d.Features {
			if f.HandlePinMode(pin, mode) {
				taken = true
			}
		}
		glog.V(2).Infof("firmata: pin %d mode 0x%02x taken=%v", pin, mode, taken)
	case SystemReset:
		glog.Info("firmata: system reset")
		for _, f := range d.Features {
			f.Reset()
		}
	default:
		glog.V(4).Infof("firmata: ignored message 0x%02x %x", msg.Command, msg.Data)
	}
	return nil
}

func (d *Device) handleSysex(msg *Message) error {
	switch msg.Command {
	case ReportFirmware:
		return d.Send(d.firmwareMessage())
	case CapabilityQuery:
		return d.Send(d.capabilityMessage())
	case AnalogMappingQuery:
		data := make([]byte, d.TotalPins)
		for i := range data {
			data[i] = NoAnalogPin
		}
		return d.Send(NewSysex(AnalogMappingResponse, data...))
	}
	for _, f := range d.Features {
		reply, handled := f.HandleSysex(msg.Command, msg.Data)
		if !handled {
			continue
		}
		if reply != nil {
			return d.Send(reply)
		}
		return nil
	}
	glog.V(2).Infof("firmata: unhandled sysex 0x%02x", msg.Command)
	return nil
}

func (d *Device) versionMessage() *Message {
	return &Message{Command: ReportVersion, Data: []byte{ProtocolMajorVersion, ProtocolMinorVersion}}
}

func (d *Device) firmwareMessage() *Message {
	data := append([]byte{d.Firmware.Major, d.Firmware.Minor}, Encode14Bit(d.Firmware.Name)...)
	return NewSysex(ReportFirmware, data...)
}

func (d *Device) capabilityMessage() *Message {
	var data []byte
	for pin := 0; pin < d.TotalPins; pin++ {
		for _, f := range d.Features {
			data = append(data, f.HandleCapability(byte(pin))...)
		}
		data = append(data, PinModeEnd)
	}
	return NewSysex(CapabilityResponse, data...)
}
