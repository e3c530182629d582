package rcoutput

// Command is a decoded host command.
type Command struct {
	Subcommand Subcommand
	Pin        byte
	Data       []byte
}

// Ack mirrors a successfully processed command back to the host.
type Ack struct {
	Subcommand Subcommand
	Pin        byte
	// Data is the part of the payload which was processed.
	Data []byte
}

// Bytes encodes the acknowledgement as subcommand, pin, length, data.
func (a *Ack) Bytes() []byte {
	b := make([]byte, len(a.Data)+3)
	b[0], b[1], b[2] = byte(a.Subcommand), a.Pin, byte(len(a.Data))
	copy(b[3:], a.Data)
	return b
}

// Result is the outcome of a dispatched command. Exactly one of Ack and
// Reason is set.
type Result struct {
	Ack    *Ack
	Reason error
}

// Acknowledged creates a Result carrying an acknowledgement. data is copied.
func Acknowledged(sub Subcommand, pin byte, data []byte) Result {
	ack := &Ack{Subcommand: sub, Pin: pin, Data: make([]byte, len(data))}
	copy(ack.Data, data)
	return Result{Ack: ack}
}

// Suppressed creates a Result without acknowledgement.
func Suppressed(reason error) Result {
	return Result{Reason: reason}
}

// IsAcknowledged indicates an acknowledgement should be emitted.
func (r Result) IsAcknowledged() bool {
	return r.Ack != nil
}
