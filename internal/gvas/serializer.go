// Package gvas converts Unreal Engine save games between their binary GVAS
// envelope and an editable JSON document.
//
// The envelope header and the tagged property list are handled generically.
// Per-class custom headers are delegated to a headers.Table and opaque
// struct payloads to a structs.Registry.
package gvas

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tidwall/jsonc"

	"github.com/leefowlercu/uesave-converter/internal/binio"
	"github.com/leefowlercu/uesave-converter/internal/headers"
	"github.com/leefowlercu/uesave-converter/internal/structs"
)

var (
	// ErrPayloadLength is returned when a custom header declares a payload
	// length that does not match the bytes that follow it.
	ErrPayloadLength = errors.New("custom header payload length mismatch")

	// ErrRoundTrip is returned when a decoded save does not re-encode to its
	// original bytes.
	ErrRoundTrip = errors.New("save does not round-trip")
)

// Document is the JSON form of a save game.
type Document struct {
	Header       Header          `json:"Header"`
	CustomHeader json.RawMessage `json:"CustomHeader,omitempty"`
	Properties   []Property      `json:"Properties"`
	Trailer      []byte          `json:"Trailer,omitempty"`
}

// Serializer converts save games using a class header table and a struct registry.
type Serializer struct {
	classes *headers.Table
	structs *structs.Registry
	verify  bool
}

// Option configures a Serializer.
type Option func(*Serializer)

// WithVerify makes ConvertToJSON re-encode its output and fail unless the
// result matches the input byte for byte.
func WithVerify(verify bool) Option {
	return func(s *Serializer) {
		s.verify = verify
	}
}

// NewSerializer returns a serializer. Both the table and the registry are
// read-only and may be shared between serializers.
func NewSerializer(classes *headers.Table, registry *structs.Registry, opts ...Option) *Serializer {
	s := &Serializer{classes: classes, structs: registry}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ConvertToJSON reads a binary save from in and writes its JSON document to out.
func (s *Serializer) ConvertToJSON(in io.Reader, out io.Writer) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read save; %w", err)
	}

	doc, err := s.Decode(data)
	if err != nil {
		return err
	}

	encoded, err := marshalDocument(doc)
	if err != nil {
		return err
	}

	if s.verify {
		if err := s.verifyRoundTrip(data, encoded); err != nil {
			return err
		}
	}

	if _, err := out.Write(encoded); err != nil {
		return fmt.Errorf("failed to write JSON; %w", err)
	}
	return nil
}

// ConvertFromJSON reads a JSON document from in and writes the binary save to
// out. Comments and trailing commas in the input are accepted.
func (s *Serializer) ConvertFromJSON(in io.Reader, out io.Writer) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read JSON; %w", err)
	}

	doc, err := unmarshalDocument(data)
	if err != nil {
		return err
	}

	encoded, err := s.Encode(doc)
	if err != nil {
		return err
	}

	if _, err := out.Write(encoded); err != nil {
		return fmt.Errorf("failed to write save; %w", err)
	}
	return nil
}

// Decode parses a complete binary save.
func (s *Serializer) Decode(data []byte) (*Document, error) {
	r := binio.NewReader(data)

	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	format := header.Format()

	codec := s.classes.Lookup(header.SaveClass.Value)
	headerStart := r.Pos()
	presence, err := codec.Decode(r, format)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s header for %q; %w", codec.Kind, header.SaveClass.Value, err)
	}

	payloadStart := r.Pos()
	if presence == headers.HeaderPresent {
		if consumed := payloadStart - headerStart; consumed != codec.Size(format) {
			return nil, fmt.Errorf("%s header consumed %d bytes, expected %d", codec.Kind, consumed, codec.Size(format))
		}
		if remaining := int64(r.Remaining()); int64(codec.DataLength()) != remaining {
			return nil, fmt.Errorf("%w: declared %d bytes, found %d", ErrPayloadLength, codec.DataLength(), remaining)
		}
	}

	props, err := s.readProperties(r, format, 0)
	if err != nil {
		return nil, err
	}

	doc := &Document{Header: header, Properties: props}
	if codec.HasCustomHeader() {
		if doc.CustomHeader, err = codec.ToJSON(); err != nil {
			return nil, err
		}
	}
	if r.Remaining() > 0 {
		if doc.Trailer, err = r.ReadBytes(r.Remaining()); err != nil {
			return nil, err
		}
	}

	return doc, nil
}

// Encode renders doc as a binary save.
func (s *Serializer) Encode(doc *Document) ([]byte, error) {
	w := binio.NewWriter()

	if err := writeHeader(w, doc.Header); err != nil {
		return nil, fmt.Errorf("failed to write envelope header; %w", err)
	}
	format := doc.Header.Format()

	codec := s.classes.Lookup(doc.Header.SaveClass.Value)
	if err := codec.FromJSON(doc.CustomHeader); err != nil {
		return nil, err
	}
	headerStart := w.Pos()
	placeholder, err := codec.Encode(w, format)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s header; %w", codec.Kind, err)
	}
	payloadStart := w.Pos()
	if written := payloadStart - headerStart; written != codec.Size(format) {
		return nil, fmt.Errorf("%s header wrote %d bytes, expected %d", codec.Kind, written, codec.Size(format))
	}

	if err := s.writeProperties(w, doc.Properties, format, 0); err != nil {
		return nil, err
	}
	w.WriteBytes(doc.Trailer)

	if err := codec.Backpatch(w, placeholder, w.Pos()-payloadStart); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func (s *Serializer) verifyRoundTrip(original, encoded []byte) error {
	doc, err := unmarshalDocument(encoded)
	if err != nil {
		return fmt.Errorf("%w; %w", ErrRoundTrip, err)
	}
	reencoded, err := s.Encode(doc)
	if err != nil {
		return fmt.Errorf("%w; %w", ErrRoundTrip, err)
	}
	if !bytes.Equal(original, reencoded) {
		return fmt.Errorf("%w: first difference at offset %d", ErrRoundTrip, firstDifference(original, reencoded))
	}
	return nil
}

func marshalDocument(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode JSON; %w", err)
	}
	return buf.Bytes(), nil
}

func unmarshalDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON; %w", err)
	}
	return &doc, nil
}

func firstDifference(a, b []byte) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
