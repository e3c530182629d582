package firmata

// Parser parses bytes received from the host.
type Parser struct {
	state   parseState
	message *Message
	need    int
}

// ParseResult indicates the result after one parsing step.
type ParseResult struct {
	// Message is set when a message is complete.
	Message *Message
	// Err is set when bytes were discarded.
	Err error
}

type parseState int

const (
	stateIdle         parseState = iota // waiting for a status byte
	stateData                           // waiting for data bytes of a MIDI message
	stateSysex                          // receiving sysex body
	stateSysexDiscard                   // sysex overflowed, skipping to END_SYSEX
)

// dataLen returns the number of data bytes following a status byte,
// or -1 if the status byte is not understood.
func dataLen(status byte) int {
	if status < 0xF0 {
		switch status & 0xF0 {
		case ReportAnalog, ReportDigital:
			return 1
		default:
			return 2
		}
	}
	switch status {
	case SetPinMode, SetDigitalPinValue:
		return 2
	case ReportVersion, SystemReset:
		return 0
	}
	return -1
}

// Reset drops any partially received message.
func (p *Parser) Reset() {
	p.state, p.message, p.need = stateIdle, nil, 0
}

// Receiving indicates a message is partially received.
func (p *Parser) Receiving() bool {
	return p.state != stateIdle
}

// Parse consumes one byte.
func (p *Parser) Parse(b byte) (pr ParseResult) {
	if b < 0x80 {
		return p.parseData(b)
	}
	if b == EndSysex {
		return p.endSysex()
	}
	if p.state == stateData || p.state == stateSysex {
		pr.Err = ErrIncomplete
	}
	p.Reset()
	if b == StartSysex {
		p.state, p.message = stateSysex, &Message{Sysex: true}
		return
	}
	need := dataLen(b)
	switch {
	case need < 0:
		// unsupported status byte, ignored.
	case need == 0:
		pr.Message = &Message{Command: b}
	default:
		p.state, p.need = stateData, need
		p.message = &Message{Command: b, Data: make([]byte, 0, need)}
	}
	return
}

func (p *Parser) parseData(b byte) (pr ParseResult) {
	switch p.state {
	case stateData:
		p.message.Data = append(p.message.Data, b)
		if len(p.message.Data) >= p.need {
			pr.Message = p.message
			p.Reset()
		}
	case stateSysex:
		// Data still holds the command byte here.
		if len(p.message.Data) >= MaxDataBytes {
			p.state, p.message = stateSysexDiscard, nil
			pr.Err = ErrSysexOverflow
			return
		}
		p.message.Data = append(p.message.Data, b)
	}
	return
}

func (p *Parser) endSysex() (pr ParseResult) {
	state, msg := p.state, p.message
	p.Reset()
	if state != stateSysex {
		if state == stateData {
			pr.Err = ErrIncomplete
		}
		return
	}
	if len(msg.Data) == 0 {
		pr.Err = ErrEmptySysex
		return
	}
	msg.Command, msg.Data = msg.Data[0], msg.Data[1:]
	pr.Message = msg
	return
}
