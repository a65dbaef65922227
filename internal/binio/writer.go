package binio

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Writer encodes little-endian primitives into an in-memory buffer.
type Writer struct {
	buf []byte
}

// NewWriter creates an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Pos returns the offset the next write will land at.
func (w *Writer) Pos() int64 {
	return int64(len(w.buf))
}

// Bytes returns the encoded output. The slice aliases the writer's buffer.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// WriteBytes appends p verbatim.
func (w *Writer) WriteBytes(p []byte) {
	w.buf = append(w.buf, p...)
}

// WriteUint8 appends a single byte.
func (w *Writer) WriteUint8(v uint8) {
	w.buf = append(w.buf, v)
}

// WriteUint16 appends a little-endian uint16.
func (w *Writer) WriteUint16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

// WriteUint32 appends a little-endian uint32.
func (w *Writer) WriteUint32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

// WriteInt32 appends a little-endian int32.
func (w *Writer) WriteInt32(v int32) {
	w.WriteUint32(uint32(v))
}

// WriteInt64 appends a little-endian int64.
func (w *Writer) WriteInt64(v int64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, uint64(v))
}

// WriteFloat32 appends an IEEE-754 single.
func (w *Writer) WriteFloat32(v float32) {
	w.WriteUint32(math.Float32bits(v))
}

// WriteFloat64 appends an IEEE-754 double.
func (w *Writer) WriteFloat64(v float64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, math.Float64bits(v))
}

// WriteGUID appends the 16 raw bytes of id.
func (w *Writer) WriteGUID(id uuid.UUID) {
	w.buf = append(w.buf, id[:]...)
}

// PatchInt32 overwrites the int32 previously written at offset.
func (w *Writer) PatchInt32(offset int64, v int32) error {
	if offset < 0 || offset+4 > int64(len(w.buf)) {
		return fmt.Errorf("patch offset %d out of range (length %d)", offset, len(w.buf))
	}
	binary.LittleEndian.PutUint32(w.buf[offset:], uint32(v))
	return nil
}
