// Package tristate converts tri-state codes between their textual form
// ('0', '1', 'F') and the packed form with 4 symbols per byte.
package tristate

import (
	"errors"
	"fmt"
	"io"
)

// Tri-state bit values.
const (
	Bit0        byte = 0x00
	BitF        byte = 0x01
	BitReserved byte = 0x02
	Bit1        byte = 0x03
)

// SymbolsPerByte is the number of 2-bit symbols packed into a byte.
const SymbolsPerByte = 4

// ReservedChar is what the reserved bit pattern (binary 10) decodes to.
// It is never accepted by Pack.
const ReservedChar = 'X'

var (
	// ErrInvalidSymbol indicates a character other than '0', '1' or 'F'.
	ErrInvalidSymbol = errors.New("invalid tri-state symbol")
	// ErrShortInput indicates fewer packed bytes than symbols requested.
	ErrShortInput = errors.New("not enough packed tri-state data")
)

// PackedLen returns the number of bytes needed for n symbols.
func PackedLen(n int) int {
	return (n + SymbolsPerByte - 1) / SymbolsPerByte
}

// Bits returns the bit value of a symbol character.
func Bits(c byte) (byte, bool) {
	switch c {
	case '0':
		return Bit0, true
	case 'F':
		return BitF, true
	case '1':
		return Bit1, true
	}
	return 0, false
}

// Char returns the character of a 2-bit value. Only the lowest 2 bits are used.
func Char(bits byte) byte {
	switch bits & 0x03 {
	case Bit0:
		return '0'
	case BitF:
		return 'F'
	case Bit1:
		return '1'
	}
	return ReservedChar
}

// PackTo writes code into dst, 4 symbols per byte starting from the most
// significant bit pair. Unused low-order pairs of the last byte are zero.
// It returns the number of bytes written. dst is left untouched if code
// contains an invalid symbol.
func PackTo(dst []byte, code string) (int, error) {
	n := PackedLen(len(code))
	if len(dst) < n {
		return 0, io.ErrShortBuffer
	}
	for i := 0; i < len(code); i++ {
		if _, ok := Bits(code[i]); !ok {
			return 0, fmt.Errorf("%w %q at %d", ErrInvalidSymbol, code[i], i)
		}
	}
	for i := 0; i < n; i++ {
		dst[i] = 0
	}
	for i := 0; i < len(code); i++ {
		bits, _ := Bits(code[i])
		dst[i/SymbolsPerByte] |= bits << shiftOf(i)
	}
	return n, nil
}

// Pack packs code into a new slice.
func Pack(code string) ([]byte, error) {
	buf := make([]byte, PackedLen(len(code)))
	n, err := PackTo(buf, code)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// UnpackTo decodes exactly count symbols from packed into dst and returns
// the number of characters written.
func UnpackTo(dst []byte, packed []byte, count int) (int, error) {
	if count < 0 || count > len(packed)*SymbolsPerByte {
		return 0, ErrShortInput
	}
	if len(dst) < count {
		return 0, io.ErrShortBuffer
	}
	for i := 0; i < count; i++ {
		dst[i] = Char(packed[i/SymbolsPerByte] >> shiftOf(i))
	}
	return count, nil
}

// Unpack decodes count symbols from packed.
func Unpack(packed []byte, count int) (string, error) {
	if count < 0 {
		return "", ErrShortInput
	}
	buf := make([]byte, count)
	n, err := UnpackTo(buf, packed, count)
	if err != nil {
		return "", err
	}
	return string(buf[:n]), nil
}

func shiftOf(index int) uint {
	return uint(6 - (index%SymbolsPerByte)*2)
}
