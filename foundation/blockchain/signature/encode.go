package signature

import (
	"encoding/binary"
	"math"
)

// encodingVersion is the first byte of every canonical encoding. Changing
// the layout of any encoded value requires bumping this value since hashes
// and signatures are computed over these bytes.
const encodingVersion byte = 1

// Encodable is implemented by values that can write their fields into the
// canonical encoding. Field order is part of the hash domain.
type Encodable interface {
	EncodeTo(enc *Encoder)
}

// Encoder produces the canonical byte encoding used for hashing and signing.
// Integers are big endian, floats are their IEEE-754 bits and every variable
// length value is prefixed with its length.
type Encoder struct {
	buf []byte
}

// NewEncoder constructs an encoder with the version byte already written.
func NewEncoder() *Encoder {
	return &Encoder{
		buf: []byte{encodingVersion},
	}
}

// Encode returns the canonical encoding of the value.
func Encode(value Encodable) []byte {
	enc := NewEncoder()
	value.EncodeTo(enc)

	return enc.Bytes()
}

// Tag writes a type marker so two different values with the same field
// layout can never produce the same encoding.
func (e *Encoder) Tag(tag string) {
	e.Bytes32([]byte(tag))
}

// Uint32 writes a fixed width integer.
func (e *Encoder) Uint32(v uint32) {
	e.buf = binary.BigEndian.AppendUint32(e.buf, v)
}

// Float64 writes the IEEE-754 bits of the value. Negative zero is folded
// into positive zero so equal amounts always encode the same way.
func (e *Encoder) Float64(v float64) {
	if v == 0 {
		v = 0
	}
	e.buf = binary.BigEndian.AppendUint64(e.buf, math.Float64bits(v))
}

// Bytes32 writes a length prefixed byte sequence.
func (e *Encoder) Bytes32(b []byte) {
	e.Uint32(uint32(len(b)))
	e.buf = append(e.buf, b...)
}

// Len writes the number of elements of a sequence that follows.
func (e *Encoder) Len(n int) {
	e.Uint32(uint32(n))
}

// Bytes returns the encoding produced so far.
func (e *Encoder) Bytes() []byte {
	return e.buf
}
