package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"io"
	"log"

	"github.com/golang/glog"
	"periph.io/x/host/v3"

	"github.com/robotalks/rcout/pkg/config"
	"github.com/robotalks/rcout/pkg/firmata"
	fx "github.com/robotalks/rcout/pkg/framework"
	"github.com/robotalks/rcout/pkg/rcoutput"
	"github.com/robotalks/rcout/pkg/remote"
)

func init() {
	config.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf := config.NewConfig()
	if conf.Driver == config.DriverGPIO {
		if _, err := host.Init(); err != nil {
			log.Fatalln(err)
		}
	}
	d := conf.MustNewDispatcher()
	feature := rcoutput.NewFeature(d)
	newDevice := func(rw io.ReadWriter) *firmata.Device {
		return firmata.NewDevice(rw, conf.TotalPins, feature)
	}

	runner := fx.NewRunner().HandleSignals()
	if conf.Serial != "" {
		port, err := firmata.OpenSerial(conf.Serial)
		if err != nil {
			log.Fatalln(err)
		}
		runner.Go(fx.NamedRun("serial", &firmata.StreamRunner{Stream: port, NewDevice: newDevice}))
	}
	if conf.Listen != "" {
		runner.Go(fx.NamedRun("tcp", &firmata.Server{Addr: conf.Listen, NewDevice: newDevice}))
	}
	if conf.WebSocket != "" {
		runner.Go(fx.NamedRun("websocket", &firmata.WebSocketServer{Addr: conf.WebSocket, NewDevice: newDevice}))
	}
	if conf.MQTTBrokerURL != "" {
		if conf.DeviceID == "" {
			log.Fatalln("device id is required for MQTT")
		}
		runner.Go(&remote.BridgeRunner{
			Bridge:    remote.NewBridge(conf.DeviceID, d),
			BrokerURL: conf.MQTTBrokerURL,
		})
	}
	if len(runner.Runners) == 0 {
		log.Fatalln("at least one of -serial, -listen, -ws, -mqtt is required")
	}

	err := runner.Wait()
	if e := d.Reset(); e != nil {
		glog.Errorf("reset: %v", e)
	}
	if err != nil {
		glog.Flush()
		log.Fatalln(err)
	}
}
