package sh

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/rcout/pkg/config"
	"github.com/robotalks/rcout/pkg/remote"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive  bool
	OutputJSON   bool
	AutoConnect  bool
	DiscoverWait time.Duration

	Shell  *ishell.Shell
	Config *config.Config
	Queue  *remote.Queue
	Conn   *Conn
}

// Conn is the connection to a device.
type Conn struct {
	DeviceID string
	Client   *remote.Client
}

// DeviceInfo is a discovered device.
type DeviceInfo struct {
	ID string `json:"id"`
	remote.Meta
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

// ErrNotConnected indicates no device is connected.
var ErrNotConnected = errors.New("not connected")

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&DiscoverCmd,
		&ConnectCmd,
		&DisconnectCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *config.Config) *Shell {
	s := &Shell{
		Interactive:  !evalOnly,
		OutputJSON:   outputJSON,
		DiscoverWait: time.Second,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a connection.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Conn == nil {
			c.Err(ErrNotConnected)
			return
		}
		fn(c)
	}
}

// FormatInfo prints DeviceInfo into friendly string for display.
func FormatInfo(info DeviceInfo) string {
	return fmt.Sprintf("%s: %s %s, %d pins", info.ID, info.Firmware, info.Version, info.TotalPins)
}

// FormatReply prints a Reply into friendly string for display.
func FormatReply(reply *remote.Reply) string {
	if len(reply.Data) == 0 {
		return "OK"
	}
	return "OK " + hex.EncodeToString(reply.Data)
}

// DoCommand runs a command on the connected device and prints the reply.
func DoCommand(c *ishell.Context, fn func(context.Context, *remote.Client) (*remote.Reply, error)) error {
	s := ShellFrom(c)
	if s.Conn == nil {
		c.Err(ErrNotConnected)
		return ErrNotConnected
	}
	reply, err := fn(context.Background(), s.Conn.Client)
	if err != nil {
		c.Err(err)
		return err
	}
	if s.OutputJSON {
		out, err := json.Marshal(reply)
		if err != nil {
			c.Err(err)
			return err
		}
		c.Println(string(out))
		return nil
	}
	c.Println(FormatReply(reply))
	return nil
}

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

func (s *Shell) queue() (*remote.Queue, error) {
	if s.Queue != nil {
		return s.Queue, nil
	}
	q, err := remote.NewQueueFromURL(s.Config.MQTTBrokerURL)
	if err != nil {
		return nil, err
	}
	if err = q.Connect(); err != nil {
		return nil, err
	}
	s.Queue = q
	return q, nil
}

// DiscoverDevices discovers online devices.
func (s *Shell) DiscoverDevices() ([]DeviceInfo, error) {
	q, err := s.queue()
	if err != nil {
		return nil, err
	}
	devices, err := remote.Discover(context.Background(), q, s.DiscoverWait)
	if err != nil {
		return nil, err
	}
	infoList := make([]DeviceInfo, 0, len(devices))
	for id, meta := range devices {
		infoList = append(infoList, DeviceInfo{ID: id, Meta: *meta})
	}
	sort.Slice(infoList, func(i, j int) bool { return infoList[i].ID < infoList[j].ID })
	return infoList, nil
}

// SelectDevice discovers devices and asks for a choice.
func (s *Shell) SelectDevice() (*DeviceInfo, error) {
	infoList, err := s.DiscoverDevices()
	if err != nil || len(infoList) == 0 {
		return nil, err
	}
	var index int
	if len(infoList) > 1 {
		if !s.Interactive {
			return nil, fmt.Errorf("more than 1 devices discovered in non-interactive mode")
		}
		items := make([]string, len(infoList))
		for n, info := range infoList {
			items[n] = FormatInfo(info)
		}
		index = s.Shell.MultiChoice(items, "Which one to connect?")
	}
	return &infoList[index], nil
}

// Connect connects the device.
func (s *Shell) Connect(deviceID string) error {
	q, err := s.queue()
	if err != nil {
		return err
	}
	client, err := remote.NewClient(q, deviceID)
	if err != nil {
		return err
	}
	s.Disconnect()
	s.Conn = &Conn{DeviceID: deviceID, Client: client}
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", deviceID))
	return nil
}

// Disconnect disconnects current device.
func (s *Shell) Disconnect() {
	if s.Conn != nil {
		s.Conn.Client.Close()
		s.Conn = nil
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.AutoConnect && s.Config.DeviceID != "" {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", s.Config.DeviceID)
		}
		if err := s.Connect(s.Config.DeviceID); err != nil {
			log.Fatalf("connect %q failed: %v", s.Config.DeviceID, err)
		}
	}
	defer func() {
		s.Disconnect()
		if s.Queue != nil {
			s.Queue.Close()
		}
	}()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// DiscoverCmd discovers devices.
	DiscoverCmd = ishell.Cmd{
		Name:    "discover",
		Aliases: []string{"list", "l"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			infoList, err := s.DiscoverDevices()
			if err != nil {
				c.Err(err)
				return
			}
			if s.OutputJSON {
				out, err := json.Marshal(infoList)
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(string(out))
				return
			}
			if len(infoList) == 0 {
				c.Println("No devices found")
				return
			}
			for _, info := range infoList {
				c.Println(FormatInfo(info))
			}
		},
	}

	// ConnectCmd connects a device.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "[ID]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			var id string
			if len(c.Args) > 0 {
				id = c.Args[0]
			} else {
				info, err := s.SelectDevice()
				if err != nil {
					c.Err(err)
					return
				}
				if info == nil {
					c.Err(fmt.Errorf("no device discovered"))
					return
				}
				id = info.ID
			}
			if err := s.Connect(id); err != nil {
				c.Err(err)
				return
			}
		},
	}

	// DisconnectCmd disconnects current device.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(config.NewConfig()).WithAutoConnect(true).Run(flag.Args()...)
}
