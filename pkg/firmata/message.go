package firmata

import (
	"io"
)

// Message is a parsed Firmata message.
type Message struct {
	// Command is the status byte, or the sysex command if Sysex is set.
	Command byte
	Sysex   bool
	Data    []byte
}

// NewSysex creates a sysex message.
func NewSysex(cmd byte, data ...byte) *Message {
	return &Message{Command: cmd, Sysex: true, Data: data}
}

// Type returns the command without the channel for channel messages.
func (m *Message) Type() byte {
	if !m.Sysex && m.Command < 0xF0 {
		return m.Command & 0xF0
	}
	return m.Command
}

// Channel returns the port/pin number carried in a channel message.
func (m *Message) Channel() byte {
	if !m.Sysex && m.Command < 0xF0 {
		return m.Command & 0x0F
	}
	return 0
}

// Bytes returns encoded bytes for sending.
func (m *Message) Bytes() []byte {
	if !m.Sysex {
		b := make([]byte, len(m.Data)+1)
		b[0] = m.Command
		copy(b[1:], m.Data)
		return b
	}
	b := make([]byte, len(m.Data)+3)
	b[0], b[1] = StartSysex, m.Command&0x7F
	copy(b[2:], m.Data)
	b[len(b)-1] = EndSysex
	return b
}

// WriteTo writes encoded bytes.
func (m *Message) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(m.Bytes())
	return int64(n), err
}

// Encode7Bit encodes 8-bit data into 7-bit bytes, LSB first, the same
// way as Firmata's Encoder7Bit.
func Encode7Bit(data []byte) []byte {
	out := make([]byte, 0, Encoded7BitLen(len(data)))
	var shift uint
	var previous byte
	for _, b := range data {
		if shift == 0 {
			out = append(out, b&0x7F)
			shift++
			previous = b >> 7
			continue
		}
		out = append(out, ((b<<shift)&0x7F)|previous)
		if shift == 6 {
			out = append(out, b>>1)
			shift = 0
		} else {
			shift++
			previous = b >> (8 - shift)
		}
	}
	if shift > 0 {
		out = append(out, previous)
	}
	return out
}

// Decode7Bit reverses Encode7Bit. Trailing bits not forming a whole byte
// are dropped.
func Decode7Bit(data []byte) []byte {
	out := make([]byte, Decoded7BitLen(len(data)))
	for i := range out {
		j := i << 3
		pos, shift := j/7, uint(j%7)
		b := data[pos] >> shift
		if pos+1 < len(data) {
			b |= data[pos+1] << (7 - shift)
		}
		out[i] = b
	}
	return out
}

// Encoded7BitLen is the number of 7-bit bytes for n bytes.
func Encoded7BitLen(n int) int {
	return (n*8 + 6) / 7
}

// Decoded7BitLen is the number of bytes carried by n 7-bit bytes.
func Decoded7BitLen(n int) int {
	return (n * 7) >> 3
}

// Encode14Bit encodes each byte as a LSB/MSB pair of 7-bit bytes, used
// for strings.
func Encode14Bit(s string) []byte {
	out := make([]byte, 0, len(s)*2)
	for i := 0; i < len(s); i++ {
		out = append(out, s[i]&0x7F, s[i]>>7)
	}
	return out
}

// Decode14Bit reverses Encode14Bit.
func Decode14Bit(data []byte) string {
	out := make([]byte, len(data)/2)
	for i := range out {
		out[i] = data[i*2]&0x7F | data[i*2+1]<<7
	}
	return string(out)
}
