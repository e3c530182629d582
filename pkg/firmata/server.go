package firmata

import (
	"context"
	"io"
	"net"

	"github.com/golang/glog"
	"github.com/tarm/serial"

	fx "github.com/robotalks/rcout/pkg/framework"
)

// DefaultBaud is the baud rate firmata hosts expect.
const DefaultBaud = 57600

// OpenSerial opens a serial port with the default baud rate.
func OpenSerial(name string) (io.ReadWriteCloser, error) {
	port, err := serial.OpenPort(&serial.Config{Name: name, Baud: DefaultBaud})
	if err != nil {
		return nil, err
	}
	return port, nil
}

// StreamRunner runs a Device over a stream and closes the stream when done.
type StreamRunner struct {
	Stream    io.ReadWriteCloser
	NewDevice func(io.ReadWriter) *Device
}

// Run implements Runnable.
func (r *StreamRunner) Run(ctx context.Context) error {
	dev := r.NewDevice(r.Stream)
	return fx.RunWithContextCloser(ctx, r.Stream, func() error {
		return dev.Run(ctx)
	})
}

// Server accepts firmata hosts over TCP, each connection is served by
// its own Device.
type Server struct {
	Addr      string
	NewDevice func(io.ReadWriter) *Device
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	glog.Infof("firmata: listening on %s", ln.Addr())
	return fx.RunWithContextCloser(ctx, ln, func() error {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return err
			}
			go s.serve(ctx, conn)
		}
	})
}

func (s *Server) serve(ctx context.Context, conn net.Conn) {
	glog.Infof("firmata: host %s connected", conn.RemoteAddr())
	r := &StreamRunner{Stream: conn, NewDevice: s.NewDevice}
	err := r.Run(ctx)
	glog.Infof("firmata: host %s disconnected: %v", conn.RemoteAddr(), err)
}
