package gvas

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/leefowlercu/uesave-converter/internal/binio"
	"github.com/leefowlercu/uesave-converter/internal/headers"
)

// noneName terminates every property list.
const noneName = "None"

// maxStructDepth bounds nested property lists.
const maxStructDepth = 64

// ErrPropertySize is returned when a property value does not occupy exactly
// its declared size.
var ErrPropertySize = errors.New("property size mismatch")

// nativeStructs are engine structs with binary layouts of their own. Their
// bodies are never parsed as property lists.
var nativeStructs = map[string]bool{
	"Box":            true,
	"Color":          true,
	"DateTime":       true,
	"Guid":           true,
	"IntPoint":       true,
	"IntVector":      true,
	"LinearColor":    true,
	"Quat":           true,
	"Rotator":        true,
	"SoftClassPath":  true,
	"SoftObjectPath": true,
	"Timespan":       true,
	"Vector":         true,
	"Vector2D":       true,
	"Vector4":        true,
}

// Property is one tagged property. Tag fields that only some types carry are
// omitted from JSON when unused. Value holds the type-specific JSON form;
// bodies the codec does not interpret are base64 strings.
type Property struct {
	Name       string          `json:"Name"`
	Type       string          `json:"Type"`
	Index      int32           `json:"Index,omitempty"`
	StructType string          `json:"StructType,omitempty"`
	StructGUID *uuid.UUID      `json:"StructGuid,omitempty"`
	EnumType   string          `json:"EnumType,omitempty"`
	InnerType  string          `json:"InnerType,omitempty"`
	KeyType    string          `json:"KeyType,omitempty"`
	ValueType  string          `json:"ValueType,omitempty"`
	GUID       *uuid.UUID      `json:"Guid,omitempty"`
	Value      json.RawMessage `json:"Value"`
}

func (s *Serializer) readProperties(r *binio.Reader, format headers.FormatVersion, depth int) ([]Property, error) {
	if depth > maxStructDepth {
		return nil, fmt.Errorf("struct nesting deeper than %d", maxStructDepth)
	}

	props := []Property{}
	for {
		offset := r.Pos()
		name, err := readName(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read property name at offset %d; %w", offset, err)
		}
		if name == noneName {
			return props, nil
		}

		p, err := s.readProperty(r, name, format, depth)
		if err != nil {
			return nil, fmt.Errorf("failed to read property %q at offset %d; %w", name, offset, err)
		}
		props = append(props, p)
	}
}

func (s *Serializer) readProperty(r *binio.Reader, name string, format headers.FormatVersion, depth int) (Property, error) {
	p := Property{Name: name}

	var err error
	if p.Type, err = readName(r); err != nil {
		return p, fmt.Errorf("failed to read type; %w", err)
	}
	size, err := r.ReadInt32()
	if err != nil {
		return p, fmt.Errorf("failed to read size; %w", err)
	}
	if size < 0 {
		return p, fmt.Errorf("negative size %d", size)
	}
	if p.Index, err = r.ReadInt32(); err != nil {
		return p, fmt.Errorf("failed to read array index; %w", err)
	}

	var boolValue uint8
	switch p.Type {
	case "StructProperty":
		if p.StructType, err = readName(r); err != nil {
			return p, fmt.Errorf("failed to read struct type; %w", err)
		}
		id, err := r.ReadGUID()
		if err != nil {
			return p, fmt.Errorf("failed to read struct guid; %w", err)
		}
		if id != uuid.Nil {
			p.StructGUID = &id
		}
	case "BoolProperty":
		if boolValue, err = r.ReadUint8(); err != nil {
			return p, fmt.Errorf("failed to read bool value; %w", err)
		}
		if boolValue > 1 {
			return p, fmt.Errorf("bool value %d is not 0 or 1", boolValue)
		}
	case "ByteProperty", "EnumProperty":
		if p.EnumType, err = readName(r); err != nil {
			return p, fmt.Errorf("failed to read enum type; %w", err)
		}
	case "ArrayProperty", "SetProperty":
		if p.InnerType, err = readName(r); err != nil {
			return p, fmt.Errorf("failed to read inner type; %w", err)
		}
	case "MapProperty":
		if p.KeyType, err = readName(r); err != nil {
			return p, fmt.Errorf("failed to read key type; %w", err)
		}
		if p.ValueType, err = readName(r); err != nil {
			return p, fmt.Errorf("failed to read value type; %w", err)
		}
	}

	hasGUID, err := r.ReadUint8()
	if err != nil {
		return p, fmt.Errorf("failed to read guid flag; %w", err)
	}
	switch hasGUID {
	case 0:
	case 1:
		id, err := r.ReadGUID()
		if err != nil {
			return p, fmt.Errorf("failed to read property guid; %w", err)
		}
		p.GUID = &id
	default:
		return p, fmt.Errorf("guid flag %d is not 0 or 1", hasGUID)
	}

	if p.Type == "BoolProperty" {
		if size != 0 {
			return p, fmt.Errorf("%w: bool declares %d bytes", ErrPropertySize, size)
		}
		p.Value = json.RawMessage("false")
		if boolValue == 1 {
			p.Value = json.RawMessage("true")
		}
		return p, nil
	}

	start := r.Pos()
	if p.Value, err = s.readValue(r, &p, int(size), format, depth); err != nil {
		return p, err
	}
	if consumed := r.Pos() - start; consumed != int64(size) {
		return p, fmt.Errorf("%w: declared %d bytes, read %d", ErrPropertySize, size, consumed)
	}
	return p, nil
}

func (s *Serializer) readValue(r *binio.Reader, p *Property, size int, format headers.FormatVersion, depth int) (json.RawMessage, error) {
	switch p.Type {
	case "IntProperty":
		return readNumber(r.ReadInt32)
	case "Int64Property":
		return readNumber(r.ReadInt64)
	case "UInt32Property":
		return readNumber(r.ReadUint32)
	case "FloatProperty":
		v, err := r.ReadFloat32()
		if err != nil {
			return nil, err
		}
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return nil, fmt.Errorf("float value %v has no JSON form", v)
		}
		return json.Marshal(v)
	case "DoubleProperty":
		v, err := r.ReadFloat64()
		if err != nil {
			return nil, err
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("double value %v has no JSON form", v)
		}
		return json.Marshal(v)
	case "StrProperty", "NameProperty", "EnumProperty":
		v, err := r.ReadFString()
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	case "ByteProperty":
		if p.EnumType == noneName {
			return readNumber(r.ReadUint8)
		}
		v, err := r.ReadFString()
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	case "StructProperty":
		return s.readStruct(r, p, size, format, depth)
	default:
		return readRaw(r, size)
	}
}

func (s *Serializer) readStruct(r *binio.Reader, p *Property, size int, format headers.FormatVersion, depth int) (json.RawMessage, error) {
	if tc := s.structs.Lookup(p.StructType); tc != nil {
		blob, err := tc.Deserialize(r, size, format)
		if err != nil {
			return nil, fmt.Errorf("failed to deserialize %s; %w", p.StructType, err)
		}
		return tc.ToJSON(blob)
	}

	body, err := r.ReadBytes(size)
	if err != nil {
		return nil, err
	}
	if !nativeStructs[p.StructType] {
		if props, ok := s.parseNested(body, format, depth+1); ok {
			return json.Marshal(props)
		}
	}
	return json.Marshal(base64.StdEncoding.EncodeToString(body))
}

// parseNested reports whether body is a property list that re-encodes to
// the same bytes.
func (s *Serializer) parseNested(body []byte, format headers.FormatVersion, depth int) ([]Property, bool) {
	sub := binio.NewReader(body)
	props, err := s.readProperties(sub, format, depth)
	if err != nil || sub.Remaining() != 0 {
		return nil, false
	}

	w := binio.NewWriter()
	if err := s.writeProperties(w, props, format, depth); err != nil {
		return nil, false
	}
	if !bytes.Equal(w.Bytes(), body) {
		return nil, false
	}
	return props, true
}

func (s *Serializer) writeProperties(w *binio.Writer, props []Property, format headers.FormatVersion, depth int) error {
	if depth > maxStructDepth {
		return fmt.Errorf("struct nesting deeper than %d", maxStructDepth)
	}

	for i := range props {
		if err := s.writeProperty(w, &props[i], format, depth); err != nil {
			return fmt.Errorf("failed to write property %q; %w", props[i].Name, err)
		}
	}
	return writeName(w, noneName)
}

func (s *Serializer) writeProperty(w *binio.Writer, p *Property, format headers.FormatVersion, depth int) error {
	if p.Name == "" || p.Name == noneName {
		return fmt.Errorf("invalid property name %q", p.Name)
	}
	if p.Type == "" {
		return errors.New("property type is empty")
	}

	if err := writeName(w, p.Name); err != nil {
		return err
	}
	if err := writeName(w, p.Type); err != nil {
		return err
	}
	sizeOffset := w.Pos()
	w.WriteInt32(0)
	w.WriteInt32(p.Index)

	switch p.Type {
	case "StructProperty":
		if err := writeName(w, p.StructType); err != nil {
			return err
		}
		if p.StructGUID != nil {
			w.WriteGUID(*p.StructGUID)
		} else {
			w.WriteGUID(uuid.Nil)
		}
	case "BoolProperty":
		var v bool
		if err := json.Unmarshal(p.Value, &v); err != nil {
			return fmt.Errorf("failed to decode bool value; %w", err)
		}
		if v {
			w.WriteUint8(1)
		} else {
			w.WriteUint8(0)
		}
	case "ByteProperty", "EnumProperty":
		if err := writeName(w, p.EnumType); err != nil {
			return err
		}
	case "ArrayProperty", "SetProperty":
		if err := writeName(w, p.InnerType); err != nil {
			return err
		}
	case "MapProperty":
		if err := writeName(w, p.KeyType); err != nil {
			return err
		}
		if err := writeName(w, p.ValueType); err != nil {
			return err
		}
	}

	if p.GUID != nil {
		w.WriteUint8(1)
		w.WriteGUID(*p.GUID)
	} else {
		w.WriteUint8(0)
	}

	if p.Type == "BoolProperty" {
		return nil
	}

	start := w.Pos()
	if err := s.writeValue(w, p, format, depth); err != nil {
		return err
	}
	size := w.Pos() - start
	if size > math.MaxInt32 {
		return fmt.Errorf("value of %d bytes does not fit the size field", size)
	}
	return w.PatchInt32(sizeOffset, int32(size))
}

func (s *Serializer) writeValue(w *binio.Writer, p *Property, format headers.FormatVersion, depth int) error {
	switch p.Type {
	case "IntProperty":
		var v int32
		if err := decodeValue(p.Value, &v); err != nil {
			return err
		}
		w.WriteInt32(v)
	case "Int64Property":
		var v int64
		if err := decodeValue(p.Value, &v); err != nil {
			return err
		}
		w.WriteInt64(v)
	case "UInt32Property":
		var v uint32
		if err := decodeValue(p.Value, &v); err != nil {
			return err
		}
		w.WriteUint32(v)
	case "FloatProperty":
		var v float32
		if err := decodeValue(p.Value, &v); err != nil {
			return err
		}
		w.WriteFloat32(v)
	case "DoubleProperty":
		var v float64
		if err := decodeValue(p.Value, &v); err != nil {
			return err
		}
		w.WriteFloat64(v)
	case "StrProperty", "NameProperty", "EnumProperty":
		return writeStringValue(w, p.Value)
	case "ByteProperty":
		if p.EnumType == noneName {
			var v uint8
			if err := decodeValue(p.Value, &v); err != nil {
				return err
			}
			w.WriteUint8(v)
			return nil
		}
		return writeStringValue(w, p.Value)
	case "StructProperty":
		return s.writeStruct(w, p, format, depth)
	default:
		return writeRaw(w, p.Value)
	}
	return nil
}

func (s *Serializer) writeStruct(w *binio.Writer, p *Property, format headers.FormatVersion, depth int) error {
	if tc := s.structs.Lookup(p.StructType); tc != nil {
		blob, err := tc.FromJSON(p.Value)
		if err != nil {
			return fmt.Errorf("failed to decode %s; %w", p.StructType, err)
		}
		start := w.Pos()
		n, err := tc.Serialize(w, blob, format)
		if err != nil {
			return fmt.Errorf("failed to serialize %s; %w", p.StructType, err)
		}
		if written := w.Pos() - start; written != int64(n) {
			return fmt.Errorf("%s transcoder reported %d bytes, wrote %d", p.StructType, n, written)
		}
		return nil
	}

	if jsonKind(p.Value) == '[' {
		var nested []Property
		if err := json.Unmarshal(p.Value, &nested); err != nil {
			return fmt.Errorf("failed to decode %s properties; %w", p.StructType, err)
		}
		return s.writeProperties(w, nested, format, depth+1)
	}
	return writeRaw(w, p.Value)
}

func readName(r *binio.Reader) (string, error) {
	s, err := r.ReadFString()
	if err != nil {
		return "", err
	}
	if !s.Valid {
		return "", errors.New("name is null")
	}
	if !s.Equal(binio.NewFString(s.Value)) {
		return "", fmt.Errorf("name %q is not stored in its default string encoding", s.Value)
	}
	return s.Value, nil
}

func writeName(w *binio.Writer, name string) error {
	return w.WriteFString(binio.NewFString(name))
}

func readNumber[T any](read func() (T, error)) (json.RawMessage, error) {
	v, err := read()
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func readRaw(r *binio.Reader, size int) (json.RawMessage, error) {
	body, err := r.ReadBytes(size)
	if err != nil {
		return nil, err
	}
	return json.Marshal(base64.StdEncoding.EncodeToString(body))
}

func writeRaw(w *binio.Writer, raw json.RawMessage) error {
	var encoded string
	if err := decodeValue(raw, &encoded); err != nil {
		return err
	}
	body, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("failed to decode base64 value; %w", err)
	}
	w.WriteBytes(body)
	return nil
}

func writeStringValue(w *binio.Writer, raw json.RawMessage) error {
	var v binio.FString
	if err := decodeValue(raw, &v); err != nil {
		return err
	}
	return w.WriteFString(v)
}

func decodeValue(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return errors.New("value is missing")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode value; %w", err)
	}
	return nil
}

// jsonKind returns the first significant byte of raw.
func jsonKind(raw json.RawMessage) byte {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
