package rcswitch

// HighLow is a pulse made of a high and a low phase, in multiples of
// the pulse length.
type HighLow struct {
	High, Low int
}

// Protocol describes the waveform of a remote protocol.
type Protocol struct {
	PulseLength int // microseconds
	Sync        HighLow
	Zero        HighLow
	One         HighLow
	// Inverted swaps the logic levels of every pulse.
	Inverted bool
}

// Protocols is indexed by protocol id - 1.
var Protocols = []Protocol{
	{350, HighLow{1, 31}, HighLow{1, 3}, HighLow{3, 1}, false},  // 1
	{650, HighLow{1, 10}, HighLow{1, 2}, HighLow{2, 1}, false},  // 2
	{100, HighLow{30, 71}, HighLow{4, 11}, HighLow{9, 6}, false}, // 3
	{380, HighLow{1, 6}, HighLow{1, 3}, HighLow{3, 1}, false},   // 4
	{500, HighLow{6, 14}, HighLow{1, 2}, HighLow{2, 1}, false},  // 5
	{450, HighLow{23, 1}, HighLow{1, 2}, HighLow{2, 1}, true},   // 6 (HT6P20B)
	{150, HighLow{2, 62}, HighLow{1, 6}, HighLow{6, 1}, false},  // 7 (HS2303-PT)
}

// LookupProtocol returns the protocol with the given id (1 based).
func LookupProtocol(id int) (Protocol, bool) {
	if id < 1 || id > len(Protocols) {
		return Protocol{}, false
	}
	return Protocols[id-1], true
}

// Settings holds the mutable configuration of a transmitter.
type Settings struct {
	ProtocolID     int
	Protocol       Protocol
	PulseLength    int
	RepeatTransmit int
}

// DefaultSettings returns the settings of a freshly attached transmitter.
func DefaultSettings() Settings {
	p, _ := LookupProtocol(DefaultProtocol)
	return Settings{
		ProtocolID:     DefaultProtocol,
		Protocol:       p,
		PulseLength:    p.PulseLength,
		RepeatTransmit: DefaultRepeatTransmit,
	}
}

// SetProtocol selects the protocol and its default pulse length.
func (s *Settings) SetProtocol(id int) error {
	p, ok := LookupProtocol(id)
	if !ok {
		return ErrUnknownProtocol
	}
	s.ProtocolID, s.Protocol, s.PulseLength = id, p, p.PulseLength
	return nil
}

// TristateBits expands a tri-state code into its binary form:
// '0' -> "00", 'F' -> "01", '1' -> "11".
func TristateBits(code string) (string, bool) {
	bits := make([]byte, 0, len(code)*2)
	for i := 0; i < len(code); i++ {
		switch code[i] {
		case '0':
			bits = append(bits, '0', '0')
		case 'F':
			bits = append(bits, '0', '1')
		case '1':
			bits = append(bits, '1', '1')
		default:
			return "", false
		}
	}
	return string(bits), true
}

// LongBits formats the bitCount least significant bits of value, MSB first.
func LongBits(value uint32, bitCount int) (string, bool) {
	if bitCount < 1 || bitCount > 32 {
		return "", false
	}
	bits := make([]byte, bitCount)
	for i := 0; i < bitCount; i++ {
		if value&(1<<uint(bitCount-1-i)) != 0 {
			bits[i] = '1'
		} else {
			bits[i] = '0'
		}
	}
	return string(bits), true
}
