package rcoutput

import (
	"encoding/binary"
	"fmt"

	"github.com/robotalks/rcout/pkg/rcswitch"
	"github.com/robotalks/rcout/pkg/tristate"
)

// LongPayloadLen is the size of a CODE_LONG payload:
// 2 bytes bit count and 4 bytes value, both little-endian.
const LongPayloadLen = 6

// LongValue is the decoded CODE_LONG payload.
type LongValue struct {
	BitCount uint16
	Value    uint32
}

// DecodeLong decodes the first LongPayloadLen bytes of data.
func DecodeLong(data []byte) (LongValue, error) {
	if len(data) < LongPayloadLen {
		return LongValue{}, fmt.Errorf("%w: long value needs %d bytes, got %d",
			ErrMalformedPayload, LongPayloadLen, len(data))
	}
	return LongValue{
		BitCount: binary.LittleEndian.Uint16(data[0:2]),
		Value:    binary.LittleEndian.Uint32(data[2:6]),
	}, nil
}

// Bytes encodes the payload.
func (v LongValue) Bytes() []byte {
	b := make([]byte, LongPayloadLen)
	binary.LittleEndian.PutUint16(b[0:2], v.BitCount)
	binary.LittleEndian.PutUint32(b[2:6], v.Value)
	return b
}

// SendTristate unpacks all symbols in packed and sends them.
// It returns the number of bytes consumed.
func SendTristate(tx rcswitch.Transmitter, packed []byte) (int, error) {
	code, err := tristate.Unpack(packed, len(packed)*tristate.SymbolsPerByte)
	if err != nil {
		return 0, err
	}
	if err = tx.SendTristate(code); err != nil {
		return 0, err
	}
	return len(packed), nil
}

// SendLong sends the value encoded in data and returns LongPayloadLen.
func SendLong(tx rcswitch.Transmitter, data []byte) (int, error) {
	v, err := DecodeLong(data)
	if err != nil {
		return 0, err
	}
	if err = tx.SendLong(v.Value, int(v.BitCount)); err != nil {
		return 0, err
	}
	return LongPayloadLen, nil
}

// SendString sends every byte of data as a character and returns the
// number of characters sent.
func SendString(tx rcswitch.Transmitter, data []byte) (int, error) {
	if err := tx.SendString(string(data)); err != nil {
		return 0, err
	}
	return len(data), nil
}
