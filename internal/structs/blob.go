package structs

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/leefowlercu/uesave-converter/internal/binio"
	"github.com/leefowlercu/uesave-converter/internal/headers"
)

// ParcelSimulatorBlobTypes are Parcel Simulator structs stored as raw bytes.
var ParcelSimulatorBlobTypes = []string{"F_ParcelCriterion_Contents"}

// BlobTranscoder passes struct bytes through untouched, as base64 in JSON.
type BlobTranscoder struct {
	names []string
}

// NewBlobTranscoder returns a blob transcoder for the given struct type names.
func NewBlobTranscoder(names ...string) *BlobTranscoder {
	cp := make([]string, len(names))
	copy(cp, names)
	return &BlobTranscoder{names: cp}
}

// TypeNames returns the struct type names handled.
func (b *BlobTranscoder) TypeNames() []string {
	cp := make([]string, len(b.names))
	copy(cp, b.names)
	return cp
}

// FromJSON decodes a base64 string, or null into a Blob with a nil Value.
func (b *BlobTranscoder) FromJSON(raw json.RawMessage) (*Blob, error) {
	var s *string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to decode blob value; %w", err)
	}
	if s == nil {
		return &Blob{}, nil
	}

	data, err := base64.StdEncoding.DecodeString(*s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode blob base64; %w", err)
	}
	return &Blob{Value: data}, nil
}

// ToJSON encodes the blob as a base64 string, or null when it holds no bytes.
func (b *BlobTranscoder) ToJSON(blob *Blob) (json.RawMessage, error) {
	if blob == nil || blob.Value == nil {
		return json.RawMessage("null"), nil
	}
	return json.Marshal(base64.StdEncoding.EncodeToString(blob.Value))
}

// Deserialize reads size bytes verbatim.
func (b *BlobTranscoder) Deserialize(r *binio.Reader, size int, _ headers.FormatVersion) (*Blob, error) {
	data, err := r.ReadBytes(size)
	if err != nil {
		return nil, fmt.Errorf("failed to read %d byte blob; %w", size, err)
	}
	return &Blob{Value: data}, nil
}

// Serialize writes the stored bytes verbatim.
func (b *BlobTranscoder) Serialize(w *binio.Writer, blob *Blob, _ headers.FormatVersion) (int, error) {
	if blob == nil || blob.Value == nil {
		return 0, nil
	}
	w.WriteBytes(blob.Value)
	return len(blob.Value), nil
}
