// Package binio provides the little-endian primitive encoding shared by the
// save envelope codec, the per-title header codecs, and the struct transcoders.
//
// Reader operates over a fully buffered input so callers can probe ahead and
// rewind to a Mark. Writer accumulates output in memory so length fields can be
// backpatched once the size of the data that follows them is known.
package binio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

var (
	// ErrShortRead is returned when a read runs past the end of the input.
	ErrShortRead = errors.New("unexpected end of data")

	// ErrMarkExceeded is returned by Reset when the reader advanced further past
	// the mark than the mark's limit allows.
	ErrMarkExceeded = errors.New("read past mark limit")
)

// Mark records a reader position that can be returned to with Reset.
type Mark struct {
	pos   int
	limit int
}

// Pos returns the marked offset.
func (m Mark) Pos() int64 {
	return int64(m.pos)
}

// Reader decodes little-endian primitives from an in-memory buffer.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Pos returns the current read offset.
func (r *Reader) Pos() int64 {
	return int64(r.pos)
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Mark records the current position. A later Reset succeeds only if at most
// limit bytes were consumed since the mark.
func (r *Reader) Mark(limit int) Mark {
	return Mark{pos: r.pos, limit: limit}
}

// Reset rewinds the reader to m.
func (r *Reader) Reset(m Mark) error {
	if r.pos-m.pos > m.limit {
		return fmt.Errorf("failed to reset to offset %d; %w", m.pos, ErrMarkExceeded)
	}
	r.pos = m.pos
	return nil
}

func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("invalid read length %d at offset %d", n, r.pos)
	}
	if r.Remaining() < n {
		return nil, fmt.Errorf("failed to read %d bytes at offset %d; %w", n, r.pos, ErrShortRead)
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadBytes returns a copy of the next n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	b, err := r.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// ReadUint8 reads a single byte.
func (r *Reader) ReadUint8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUint16 reads a little-endian uint16.
func (r *Reader) ReadUint16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadUint32 reads a little-endian uint32.
func (r *Reader) ReadUint32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadInt32 reads a little-endian int32.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadInt64 reads a little-endian int64.
func (r *Reader) ReadInt64() (int64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b)), nil
}

// ReadFloat32 reads an IEEE-754 single.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	return math.Float32frombits(v), err
}

// ReadFloat64 reads an IEEE-754 double.
func (r *Reader) ReadFloat64() (float64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

// ReadGUID reads 16 raw bytes as a GUID.
func (r *Reader) ReadGUID() (uuid.UUID, error) {
	b, err := r.take(16)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.FromBytes(b)
}
