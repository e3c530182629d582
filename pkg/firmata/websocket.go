package firmata

import (
	"context"
	"io"
	"net/http"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"
)

// WebSocketServer serves firmata hosts over websocket, each connection
// carries the raw firmata byte stream in binary frames.
type WebSocketServer struct {
	Addr      string
	Path      string
	NewDevice func(io.ReadWriter) *Device
}

// Handler returns the http.Handler serving websocket connections.
func (s *WebSocketServer) Handler(ctx context.Context) http.Handler {
	return websocket.Handler(func(conn *websocket.Conn) {
		conn.PayloadType = websocket.BinaryFrame
		glog.Infof("firmata: websocket host %s connected", conn.Request().RemoteAddr)
		r := &StreamRunner{Stream: conn, NewDevice: s.NewDevice}
		err := r.Run(ctx)
		glog.Infof("firmata: websocket host %s disconnected: %v", conn.Request().RemoteAddr, err)
	})
}

// Run implements Runnable.
func (s *WebSocketServer) Run(ctx context.Context) error {
	path := s.Path
	if path == "" {
		path = "/"
	}
	mux := http.NewServeMux()
	mux.Handle(path, s.Handler(ctx))
	server := &http.Server{Addr: s.Addr, Handler: mux}
	glog.Infof("firmata: websocket listening on %s%s", s.Addr, path)
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		server.Close()
		<-errCh
		return ctx.Err()
	}
}
