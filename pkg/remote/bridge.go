package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/golang/glog"
	"github.com/golang/protobuf/proto"

	"github.com/robotalks/rcout/pkg/firmata"
	"github.com/robotalks/rcout/pkg/rcoutput"
)

// Bridge executes commands received from MQTT on a device.
type Bridge struct {
	DeviceID   string
	Dispatcher *rcoutput.Dispatcher
	Meta       Meta
}

// NewBridge creates a Bridge.
func NewBridge(deviceID string, d *rcoutput.Dispatcher) *Bridge {
	return &Bridge{
		DeviceID:   deviceID,
		Dispatcher: d,
		Meta: Meta{
			Firmware:  firmata.DefaultFirmware.Name,
			Version:   fmt.Sprintf("%d.%d", firmata.DefaultFirmware.Major, firmata.DefaultFirmware.Minor),
			TotalPins: d.Registry.TotalPins(),
		},
	}
}

// Handle executes a command.
func (b *Bridge) Handle(cmd *Command) *Reply {
	reply := &Reply{Seq: cmd.Seq, Subcommand: cmd.Subcommand, Pin: cmd.Pin}
	if cmd.Pin > 0xff {
		reply.Error = fmt.Sprintf("%v: %d", rcoutput.ErrPinOutOfRange, cmd.Pin)
		return reply
	}
	pin := byte(cmd.Pin)
	switch cmd.Op {
	case OpSysex:
		if cmd.Subcommand > 0xff {
			reply.Error = fmt.Sprintf("%v 0x%x", rcoutput.ErrUnknownCommand, cmd.Subcommand)
			break
		}
		res := b.Dispatcher.Dispatch(rcoutput.Command{
			Subcommand: rcoutput.ParseSubcommand(byte(cmd.Subcommand)),
			Pin:        pin,
			Data:       cmd.Data,
		})
		if !res.IsAcknowledged() {
			glog.Warningf("remote: seq %d: %v", cmd.Seq, res.Reason)
			reply.Error = res.Reason.Error()
			break
		}
		reply.Subcommand = uint32(res.Ack.Subcommand)
		reply.Data = res.Ack.Data
	case OpPinMode:
		if cmd.Mode > 0x7f {
			reply.Error = fmt.Sprintf("invalid pin mode %d", cmd.Mode)
			break
		}
		reply.Accepted = b.Dispatcher.HandlePinMode(pin, byte(cmd.Mode))
	case OpReset:
		if err := b.Dispatcher.Reset(); err != nil {
			reply.Error = err.Error()
		}
	case OpCapability:
		reply.Data = b.Dispatcher.HandleCapability(pin)
		if reply.Data == nil {
			reply.Error = fmt.Sprintf("%v: %d", rcoutput.ErrPinOutOfRange, cmd.Pin)
		}
	default:
		reply.Error = fmt.Sprintf("%v op %v", rcoutput.ErrUnknownCommand, cmd.Op)
	}
	return reply
}

// HandlePayload decodes a command, executes it and encodes the reply.
// It returns nil if the payload is not a command.
func (b *Bridge) HandlePayload(payload []byte) []byte {
	var cmd Command
	if err := proto.Unmarshal(payload, &cmd); err != nil {
		glog.Warningf("remote: invalid command: %v", err)
		return nil
	}
	glog.V(4).Infof("remote: %v", &cmd)
	out, err := proto.Marshal(b.Handle(&cmd))
	if err != nil {
		glog.Errorf("remote: encode reply: %v", err)
		return nil
	}
	return out
}

// Serve subscribes the command topic and publishes the meta.
// Commands are executed in order on a separate goroutine, so replies are
// never published from inside the MQTT callback.
// Closing the returned Closer stops serving and clears the meta.
func (b *Bridge) Serve(ps PubSub) (io.Closer, error) {
	s := &serving{
		bridge: b,
		ps:     ps,
		cmdCh:  make(chan []byte, 16),
		doneCh: make(chan struct{}),
	}
	sub, err := ps.Subscribe(cmdTopic(b.DeviceID), s.enqueue)
	if err != nil {
		return nil, err
	}
	s.sub = sub
	if err := b.PublishMeta(ps); err != nil {
		sub.Close()
		return nil, err
	}
	go s.run()
	return s, nil
}

// PublishMeta publishes the retained meta.
func (b *Bridge) PublishMeta(ps PubSub) error {
	meta, err := json.Marshal(&b.Meta)
	if err != nil {
		return err
	}
	return ps.Publish(metaTopic(b.DeviceID), meta, true)
}

// Run connects to the broker and serves until ctx is done.
func (b *Bridge) Run(ctx context.Context, brokerURL string) error {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return err
	}
	opts.SetBinaryWill(topicPrefix+metaTopic(b.DeviceID), nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("rcout:" + b.DeviceID)
	}
	q := NewQueue(opts, topicPrefix)
	q.OnConnect = func(q *Queue) {
		// retained meta is cleared by the will after reconnecting.
		go func() {
			if err := b.PublishMeta(q); err != nil {
				glog.Warningf("remote: publish meta: %v", err)
			}
		}()
	}
	if err = q.Connect(); err != nil {
		return err
	}
	defer q.Close()
	s, err := b.Serve(q)
	if err != nil {
		return err
	}
	glog.Infof("remote: serving %s%s", topicPrefix, cmdTopic(b.DeviceID))
	<-ctx.Done()
	if err := s.Close(); err != nil {
		glog.Warningf("remote: %v", err)
	}
	return ctx.Err()
}

// BridgeRunner is the Runnable form of a Bridge.
type BridgeRunner struct {
	Bridge    *Bridge
	BrokerURL string
}

// Name implements Named.
func (r *BridgeRunner) Name() string {
	return "mqtt-bridge"
}

// Run implements Runnable.
func (r *BridgeRunner) Run(ctx context.Context) error {
	return r.Bridge.Run(ctx, r.BrokerURL)
}

type serving struct {
	bridge *Bridge
	ps     PubSub
	sub    io.Closer
	cmdCh  chan []byte
	doneCh chan struct{}
	once   sync.Once
}

func (s *serving) enqueue(topic string, payload []byte) {
	select {
	case s.cmdCh <- payload:
	case <-s.doneCh:
	}
}

func (s *serving) run() {
	for {
		select {
		case payload := <-s.cmdCh:
			reply := s.bridge.HandlePayload(payload)
			if reply == nil {
				continue
			}
			if err := s.ps.Publish(replyTopic(s.bridge.DeviceID), reply, false); err != nil {
				glog.Errorf("remote: publish reply: %v", err)
			}
		case <-s.doneCh:
			return
		}
	}
}

func (s *serving) Close() (err error) {
	s.once.Do(func() {
		close(s.doneCh)
		err = s.sub.Close()
		if e := s.ps.Publish(metaTopic(s.bridge.DeviceID), nil, true); err == nil {
			err = e
		}
	})
	return
}
