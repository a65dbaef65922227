package binio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// FString is a length-prefixed engine string. A positive length prefix is an
// 8-bit (Latin-1) string, a negative one a UTF-16LE string; both count a
// trailing NUL. A zero prefix is the null string, distinct from the empty
// string.
//
// Wide records the wire form so a decoded string is written back the way it
// was read. NewFString picks the 8-bit form for ASCII and UTF-16LE otherwise.
type FString struct {
	Value string
	Valid bool
	Wide  bool
}

// fstringJSON is the JSON form of a string whose wire form differs from the
// one NewFString would choose.
type fstringJSON struct {
	Value string `json:"Value"`
	Wide  bool   `json:"Wide"`
}

// NewFString returns a non-null FString holding s.
func NewFString(s string) FString {
	return FString{Value: s, Valid: true, Wide: !isASCII(s)}
}

// String returns the string value; the null string reads as "".
func (s FString) String() string {
	return s.Value
}

// Equal reports whether two strings have the same value, nullness and wire
// form.
func (s FString) Equal(other FString) bool {
	if !s.Valid || !other.Valid {
		return s.Valid == other.Valid
	}
	return s.Value == other.Value && s.Wide == other.Wide
}

// EncodedSize returns the number of bytes WriteFString will emit for s, or 4
// when s cannot be encoded in its wire form.
func (s FString) EncodedSize() int {
	if !s.Valid {
		return 4
	}
	body, err := s.encode()
	if err != nil {
		return 4
	}
	if s.Wide {
		return 4 + len(body) + 2
	}
	return 4 + len(body) + 1
}

func (s FString) encode() ([]byte, error) {
	if s.Wide {
		return utf16le().NewEncoder().Bytes([]byte(s.Value))
	}
	if isASCII(s.Value) {
		return []byte(s.Value), nil
	}
	return charmap.ISO8859_1.NewEncoder().Bytes([]byte(s.Value))
}

// MarshalJSON encodes the null string as JSON null and a string in its
// default wire form as a JSON string. Any other string is written as an
// object carrying the wire form.
func (s FString) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	if s.Wide != !isASCII(s.Value) {
		return json.Marshal(fstringJSON{Value: s.Value, Wide: s.Wide})
	}
	return json.Marshal(s.Value)
}

// UnmarshalJSON accepts a JSON string, null, or the object form written by
// MarshalJSON.
func (s *FString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if string(trimmed) == "null" {
		*s = FString{}
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var obj fstringJSON
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return fmt.Errorf("failed to decode string; %w", err)
		}
		*s = FString{Value: obj.Value, Valid: true, Wide: obj.Wide}
		return nil
	}
	var v string
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return fmt.Errorf("failed to decode string; %w", err)
	}
	*s = NewFString(v)
	return nil
}

func utf16le() encoding.Encoding {
	return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// ReadFString reads a length-prefixed string.
func (r *Reader) ReadFString() (FString, error) {
	start := r.pos
	n, err := r.ReadInt32()
	if err != nil {
		return FString{}, err
	}

	switch {
	case n == 0:
		return FString{}, nil
	case n > 0:
		b, err := r.take(int(n))
		if err != nil {
			return FString{}, err
		}
		if b[n-1] != 0 {
			return FString{}, fmt.Errorf("string at offset %d is not NUL terminated", start)
		}
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(b[:n-1])
		if err != nil {
			return FString{}, fmt.Errorf("failed to decode string at offset %d; %w", start, err)
		}
		return FString{Value: string(decoded), Valid: true}, nil
	default:
		if n == math.MinInt32 {
			return FString{}, fmt.Errorf("invalid string length at offset %d", start)
		}
		units := int(-n)
		if units > r.Remaining()/2 {
			return FString{}, fmt.Errorf("failed to read wide string at offset %d; %w", start, ErrShortRead)
		}
		b, err := r.take(units * 2)
		if err != nil {
			return FString{}, err
		}
		if b[len(b)-1] != 0 || b[len(b)-2] != 0 {
			return FString{}, fmt.Errorf("wide string at offset %d is not NUL terminated", start)
		}
		decoded, err := utf16le().NewDecoder().Bytes(b[:len(b)-2])
		if err != nil {
			return FString{}, fmt.Errorf("failed to decode wide string at offset %d; %w", start, err)
		}
		return FString{Value: string(decoded), Valid: true, Wide: true}, nil
	}
}

// WriteFString writes s in its recorded wire form. An 8-bit string holding
// characters outside Latin-1 is an error.
func (w *Writer) WriteFString(s FString) error {
	if !s.Valid {
		w.WriteInt32(0)
		return nil
	}

	body, err := s.encode()
	if err != nil {
		return fmt.Errorf("failed to encode string %q; %w", s.Value, err)
	}
	if s.Wide {
		w.WriteInt32(-int32(len(body)/2 + 1))
		w.WriteBytes(body)
		w.WriteBytes([]byte{0, 0})
		return nil
	}
	w.WriteInt32(int32(len(body) + 1))
	w.WriteBytes(body)
	w.WriteUint8(0)
	return nil
}
