package firmata

import (
	"context"
	"io"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

func readFull(t *testing.T, r io.Reader, n int) []byte {
	buf := make([]byte, n)
	_, err := io.ReadFull(r, buf)
	require.NoError(t, err)
	return buf
}

var bootBytes = []byte{
	ReportVersion, 2, 5,
	StartSysex, ReportFirmware, 2, 5, 'r', 0, 'c', 0, 'o', 0, 'u', 0, 't', 0, EndSysex,
}

func TestServerTCP(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	s := &Server{
		Addr: addr,
		NewDevice: func(rw io.ReadWriter) *Device {
			return NewDevice(rw, 2)
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Run(ctx)
	}()

	var conn net.Conn
	require.Eventually(t, func() bool {
		conn, err = net.Dial("tcp", addr)
		return err == nil
	}, time.Second, 10*time.Millisecond)
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(time.Second))

	require.Equal(t, bootBytes, readFull(t, conn, len(bootBytes)))
	_, err = conn.Write([]byte{StartSysex, CapabilityQuery, EndSysex})
	require.NoError(t, err)
	require.Equal(t, []byte{StartSysex, CapabilityResponse, PinModeEnd, PinModeEnd, EndSysex}, readFull(t, conn, 5))

	cancel()
	select {
	case err := <-errCh:
		require.Equal(t, context.Canceled, err)
	case <-time.After(time.Second):
		t.Fatal("server not stopped")
	}
}

func TestWebSocketServer(t *testing.T) {
	s := &WebSocketServer{
		NewDevice: func(rw io.ReadWriter) *Device {
			return NewDevice(rw, 1)
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hs := httptest.NewServer(s.Handler(ctx))
	defer hs.Close()

	url := "ws" + strings.TrimPrefix(hs.URL, "http")
	conn, err := websocket.Dial(url, "", hs.URL)
	require.NoError(t, err)
	defer conn.Close()
	conn.PayloadType = websocket.BinaryFrame
	conn.SetDeadline(time.Now().Add(time.Second))

	require.Equal(t, bootBytes, readFull(t, conn, len(bootBytes)))
	_, err = conn.Write([]byte{StartSysex, AnalogMappingQuery, EndSysex})
	require.NoError(t, err)
	require.Equal(t, []byte{StartSysex, AnalogMappingResponse, NoAnalogPin, EndSysex}, readFull(t, conn, 4))
}
