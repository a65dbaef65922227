// Package structs dispatches opaque struct payloads, keyed by their declared
// struct type name, to custom byte/text transcoders.
package structs

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/leefowlercu/uesave-converter/internal/binio"
	"github.com/leefowlercu/uesave-converter/internal/headers"
)

// Blob is an uninterpreted struct payload. A nil Value is the explicit null
// marker and serializes to zero bytes.
type Blob struct {
	Value []byte
}

// Transcoder converts one family of struct types between bytes and JSON.
type Transcoder interface {
	// TypeNames returns every struct type name this transcoder handles.
	TypeNames() []string

	// FromJSON decodes exactly one JSON value.
	FromJSON(raw json.RawMessage) (*Blob, error)

	// ToJSON encodes blob as a single JSON value.
	ToJSON(blob *Blob) (json.RawMessage, error)

	// Deserialize reads exactly size bytes.
	Deserialize(r *binio.Reader, size int, format headers.FormatVersion) (*Blob, error)

	// Serialize writes blob and returns the number of bytes written.
	Serialize(w *binio.Writer, blob *Blob, format headers.FormatVersion) (int, error)
}

// Registry maps struct type names to transcoders. It is read-only once built.
type Registry struct {
	byName map[string]Transcoder
}

// NewRegistry builds a registry. A type name claimed by two transcoders is an error.
func NewRegistry(transcoders ...Transcoder) (*Registry, error) {
	r := &Registry{byName: make(map[string]Transcoder)}

	for _, tc := range transcoders {
		names := tc.TypeNames()
		if len(names) == 0 {
			return nil, fmt.Errorf("struct transcoder %T declares no type names", tc)
		}
		for _, name := range names {
			if name == "" {
				return nil, fmt.Errorf("struct transcoder %T declares an empty type name", tc)
			}
			if _, exists := r.byName[name]; exists {
				return nil, fmt.Errorf("struct type %q already registered", name)
			}
			r.byName[name] = tc
		}
	}

	return r, nil
}

// DefaultRegistry builds the registry of every known title-specific struct.
func DefaultRegistry() (*Registry, error) {
	return NewRegistry(NewBlobTranscoder(ParcelSimulatorBlobTypes...))
}

// Lookup returns the transcoder for typeName, or nil when the struct should
// get the generic treatment.
func (r *Registry) Lookup(typeName string) Transcoder {
	if r == nil {
		return nil
	}
	return r.byName[typeName]
}

// TypeNames returns all registered struct type names, sorted.
func (r *Registry) TypeNames() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
