// Package config provides the common options of rcout programs.
package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"

	"github.com/robotalks/rcout/pkg/rcoutput"
	"github.com/robotalks/rcout/pkg/rcswitch"
)

// Drivers of transmitters.
const (
	DriverGPIO = "gpio"
	DriverLog  = "log"
)

// Config defines options of the daemon.
type Config struct {
	// DeviceID identifies the device on MQTT.
	DeviceID string
	// MQTTBrokerURL enables the remote bridge if not empty.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string
	// Serial is the serial port a firmata host is attached to.
	Serial string
	// Listen is the TCP address serving firmata hosts.
	Listen string
	// WebSocket is the HTTP address serving firmata over websocket.
	WebSocket string
	// PinsFile is the YAML file with the GPIO map and pin presets.
	PinsFile string
	// Driver selects the transmitter implementation.
	Driver string
	// TotalPins is the number of pins reported to the host.
	TotalPins int
}

// DefaultMQTTBrokerURL is used by clients if not specified.
const DefaultMQTTBrokerURL = "mqtt://localhost:1883/rcout/"

var defaultConfig = Config{
	Driver:    DriverGPIO,
	TotalPins: rcoutput.DefaultTotalPins,
}

func init() {
	if val := os.Getenv("RCOUT_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	if val := os.Getenv("RCOUT_DEVICE_ID"); val != "" {
		defaultConfig.DeviceID = val
	} else {
		defaultConfig.DeviceID = MachineID()
	}
	if val := os.Getenv("RCOUT_SERIAL"); val != "" {
		defaultConfig.Serial = val
	}
	if val := os.Getenv("RCOUT_PINS"); val != "" {
		defaultConfig.PinsFile = val
	}
	if val := os.Getenv("RCOUT_DRIVER"); val != "" {
		defaultConfig.Driver = val
	}
	if val := os.Getenv("RCOUT_TOTAL_PINS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			defaultConfig.TotalPins = n
		}
	}
}

// MachineID returns an ID of this machine specific to rcout, or an empty
// string if the machine ID is not available.
func MachineID() string {
	id, err := machineid.ProtectedID("rcout")
	if err != nil {
		glog.Warningf("machine id: %v", err)
		return ""
	}
	if len(id) > 12 {
		id = id[:12]
	}
	return id
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.DeviceID, "id", defaultConfig.DeviceID, "Device ID")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL, empty to disable")
	flag.StringVar(&defaultConfig.Serial, "serial", defaultConfig.Serial, "Serial port of the firmata host")
	flag.StringVar(&defaultConfig.Listen, "listen", defaultConfig.Listen, "TCP address serving firmata hosts")
	flag.StringVar(&defaultConfig.WebSocket, "ws", defaultConfig.WebSocket, "HTTP address serving firmata over websocket")
	flag.StringVar(&defaultConfig.PinsFile, "pins", defaultConfig.PinsFile, "YAML file of GPIO map and pin presets")
	flag.StringVar(&defaultConfig.Driver, "driver", defaultConfig.Driver, "Transmitter driver: gpio or log")
	flag.IntVar(&defaultConfig.TotalPins, "total-pins", defaultConfig.TotalPins, "Number of pins")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// LoadPins loads the pins file, or returns an empty one if not specified.
func (c *Config) LoadPins() (*Pins, error) {
	if c.PinsFile == "" {
		return &Pins{}, nil
	}
	return LoadPins(c.PinsFile)
}

// NewFactory creates the transmitter factory of the configured driver.
func (c *Config) NewFactory(pins *Pins) (rcswitch.Factory, error) {
	switch c.Driver {
	case DriverGPIO:
		return &rcswitch.GPIOFactory{Names: pins.GPIONames()}, nil
	case DriverLog:
		return rcswitch.LogFactory, nil
	}
	return nil, fmt.Errorf("unknown driver %q", c.Driver)
}

// NewDispatcher creates the dispatcher with presets applied.
func (c *Config) NewDispatcher() (*rcoutput.Dispatcher, error) {
	if c.TotalPins <= 0 || c.TotalPins > 128 {
		return nil, fmt.Errorf("invalid total pins %d", c.TotalPins)
	}
	pins, err := c.LoadPins()
	if err != nil {
		return nil, err
	}
	factory, err := c.NewFactory(pins)
	if err != nil {
		return nil, err
	}
	d := rcoutput.NewDispatcher(rcoutput.NewRegistry(c.TotalPins, factory))
	if err := pins.Apply(d); err != nil {
		return nil, err
	}
	return d, nil
}

// MustNewDispatcher creates the dispatcher and fails on error.
func (c *Config) MustNewDispatcher() *rcoutput.Dispatcher {
	d, err := c.NewDispatcher()
	if err != nil {
		log.Fatalln(err)
	}
	return d
}

// SetupClientFlags sets command line flags used by remote clients.
func SetupClientFlags() {
	defaultConfig.DeviceID = os.Getenv("RCOUT_DEVICE_ID")
	flag.StringVar(&defaultConfig.DeviceID, "id", defaultConfig.DeviceID, "Device ID to connect")
	if defaultConfig.MQTTBrokerURL == "" {
		defaultConfig.MQTTBrokerURL = DefaultMQTTBrokerURL
	}
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL")
}
