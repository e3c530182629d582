package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/golang/protobuf/proto"

	"github.com/robotalks/rcout/pkg/rcoutput"
)

// DefaultTimeout is how long a Client waits for a reply.
const DefaultTimeout = 5 * time.Second

var (
	// ErrTimeout indicates no reply was received in time.
	ErrTimeout = errors.New("timeout waiting for reply")
	// ErrClosed indicates the client is closed.
	ErrClosed = errors.New("client closed")
	// ErrRejected indicates the device didn't execute the command.
	ErrRejected = errors.New("rejected")
)

// Client sends commands to a device.
type Client struct {
	PubSub   PubSub
	DeviceID string
	Timeout  time.Duration

	lock    sync.Mutex
	seq     uint32
	pending map[uint32]chan *Reply
	sub     io.Closer
}

// NewClient subscribes the reply topic of the device.
func NewClient(ps PubSub, deviceID string) (*Client, error) {
	c := &Client{
		PubSub:   ps,
		DeviceID: deviceID,
		Timeout:  DefaultTimeout,
		pending:  make(map[uint32]chan *Reply),
	}
	sub, err := ps.Subscribe(replyTopic(deviceID), c.handleReply)
	if err != nil {
		return nil, err
	}
	c.sub = sub
	return c, nil
}

// Close unsubscribes and fails all pending commands.
func (c *Client) Close() error {
	c.lock.Lock()
	sub := c.sub
	c.sub = nil
	for seq, ch := range c.pending {
		close(ch)
		delete(c.pending, seq)
	}
	c.lock.Unlock()
	if sub == nil {
		return nil
	}
	return sub.Close()
}

// Do sends a command and waits for the reply. Seq is assigned by the Client.
// A reply carrying an error is returned along with ErrRejected.
func (c *Client) Do(ctx context.Context, cmd *Command) (*Reply, error) {
	ch := make(chan *Reply, 1)
	c.lock.Lock()
	if c.sub == nil {
		c.lock.Unlock()
		return nil, ErrClosed
	}
	c.seq++
	cmd.Seq = c.seq
	c.pending[cmd.Seq] = ch
	c.lock.Unlock()
	defer c.expire(cmd.Seq)

	payload, err := proto.Marshal(cmd)
	if err != nil {
		return nil, err
	}
	if err = c.PubSub.Publish(cmdTopic(c.DeviceID), payload, false); err != nil {
		return nil, err
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case reply, ok := <-ch:
		if !ok {
			return nil, ErrClosed
		}
		if reply.Error != "" {
			return reply, fmt.Errorf("%w: %s", ErrRejected, reply.Error)
		}
		return reply, nil
	case <-timer.C:
		return nil, ErrTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Sysex sends an RC output subcommand.
func (c *Client) Sysex(ctx context.Context, sub rcoutput.Subcommand, pin byte, data []byte) (*Reply, error) {
	return c.Do(ctx, &Command{Op: OpSysex, Subcommand: uint32(sub), Pin: uint32(pin), Data: data})
}

// PinMode switches the pin on or off RC output mode.
func (c *Client) PinMode(ctx context.Context, pin, mode byte) (bool, error) {
	reply, err := c.Do(ctx, &Command{Op: OpPinMode, Pin: uint32(pin), Mode: uint32(mode)})
	if err != nil {
		return false, err
	}
	return reply.Accepted, nil
}

// Capability queries the mode/resolution pairs of the pin.
func (c *Client) Capability(ctx context.Context, pin byte) ([]byte, error) {
	reply, err := c.Do(ctx, &Command{Op: OpCapability, Pin: uint32(pin)})
	if err != nil {
		return nil, err
	}
	return reply.Data, nil
}

// Reset detaches all transmitters on the device.
func (c *Client) Reset(ctx context.Context) error {
	_, err := c.Do(ctx, &Command{Op: OpReset})
	return err
}

func (c *Client) expire(seq uint32) {
	c.lock.Lock()
	delete(c.pending, seq)
	c.lock.Unlock()
}

func (c *Client) handleReply(topic string, payload []byte) {
	var reply Reply
	if err := proto.Unmarshal(payload, &reply); err != nil {
		glog.Warningf("remote: invalid reply: %v", err)
		return
	}
	c.lock.Lock()
	ch := c.pending[reply.Seq]
	delete(c.pending, reply.Seq)
	c.lock.Unlock()
	if ch == nil {
		glog.V(2).Infof("remote: reply of expired seq %d", reply.Seq)
		return
	}
	ch <- &reply
}

// Discover collects the meta of online devices for the duration of wait.
func Discover(ctx context.Context, ps PubSub, wait time.Duration) (map[string]*Meta, error) {
	var lock sync.Mutex
	devices := make(map[string]*Meta)
	sub, err := ps.Subscribe(metaTopic("+"), func(topic string, payload []byte) {
		id := topic[:len(topic)-len(metaTopic(""))]
		lock.Lock()
		defer lock.Unlock()
		if len(payload) == 0 {
			delete(devices, id)
			return
		}
		meta, err := ParseMeta(payload)
		if err != nil {
			glog.Warningf("remote: %s: invalid meta: %v", id, err)
			return
		}
		devices[id] = meta
	})
	if err != nil {
		return nil, err
	}
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
	sub.Close()
	lock.Lock()
	defer lock.Unlock()
	return devices, nil
}
