// Package headers implements the per-title custom header codecs that sit
// between a save envelope's class path and its generic property payload.
//
// A Codec is a closed set of variants selected by Kind. Every operation
// switches on the Kind, so adding a title means adding a Kind, its
// declarations in the dispatch Table, and a case in each method.
package headers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/leefowlercu/uesave-converter/internal/binio"
)

var (
	// ErrSentinelMismatch is returned when a header is guaranteed by the
	// envelope format version but its sentinel name is missing or wrong.
	ErrSentinelMismatch = errors.New("custom header sentinel mismatch")

	// ErrInvalidHeader is returned when a header is present but malformed.
	ErrInvalidHeader = errors.New("invalid custom header")
)

// Kind identifies a header codec variant.
type Kind int

const (
	// KindNone is the default variant for classes without a custom header.
	KindNone Kind = iota
	// KindAbioticWorld is the Abiotic Factor world and world metadata header.
	KindAbioticWorld
	// KindAbioticPlayer is the Abiotic Factor character header.
	KindAbioticPlayer
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindAbioticWorld:
		return "abiotic-world"
	case KindAbioticPlayer:
		return "abiotic-player"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Presence is the outcome of decoding a header region.
type Presence int

const (
	HeaderAbsent Presence = iota
	HeaderPresent
)

// FormatVersion is the envelope version information a header gate may inspect.
type FormatVersion struct {
	SaveGame   int32
	PackageUE4 int32
	PackageUE5 int32
}

// DefaultMinSaveGameVersion is the first save game version that carries
// custom headers.
const DefaultMinSaveGameVersion int32 = 3

// Policy controls how header presence is determined.
type Policy struct {
	// MinSaveGameVersion gates header presence on the envelope format.
	MinSaveGameVersion int32

	// LegacyProbe selects the unconditional probe: headers are looked for at
	// every format version and a sentinel mismatch rewinds instead of failing.
	LegacyProbe bool
}

// DefaultPolicy returns the version-gated policy.
func DefaultPolicy() Policy {
	return Policy{MinSaveGameVersion: DefaultMinSaveGameVersion}
}

func (p Policy) supports(format FormatVersion) bool {
	return p.LegacyProbe || format.SaveGame >= p.MinSaveGameVersion
}

// Placeholder locates a length field written by Encode for later backpatching.
type Placeholder struct {
	offset int64
	valid  bool
}

// Valid reports whether Encode wrote a length field.
func (p Placeholder) Valid() bool {
	return p.valid
}

// Codec holds one file's custom header state.
type Codec struct {
	Kind    Kind
	Version int32
	Unknown int32

	dataLength int32
	policy     Policy
}

// NewCodec returns an empty codec of the given kind.
func NewCodec(kind Kind, policy Policy) *Codec {
	return &Codec{Kind: kind, policy: policy}
}

// HasCustomHeader reports whether this variant's class can carry a header.
func (c *Codec) HasCustomHeader() bool {
	return c.Kind != KindNone
}

// DataLength returns the payload length declared by (or backpatched into) the header.
func (c *Codec) DataLength() int32 {
	return c.dataLength
}

// Size returns the exact number of bytes Encode will write for format.
func (c *Codec) Size(format FormatVersion) int64 {
	if !c.HasCustomHeader() || !c.policy.supports(format) || c.Version == 0 {
		return 0
	}
	switch c.Kind {
	case KindAbioticWorld:
		return worldHeaderSize()
	case KindAbioticPlayer:
		return playerHeaderSize
	default:
		return 0
	}
}

// Decode reads the header region at the reader's position. When the header
// is absent the reader is left where it started.
func (c *Codec) Decode(r *binio.Reader, format FormatVersion) (Presence, error) {
	c.Version, c.Unknown, c.dataLength = 0, 0, 0

	if !c.HasCustomHeader() || !c.policy.supports(format) {
		return HeaderAbsent, nil
	}

	switch c.Kind {
	case KindAbioticWorld:
		return c.decodeWorld(r)
	case KindAbioticPlayer:
		return c.decodePlayer(r)
	default:
		return HeaderAbsent, fmt.Errorf("no decoder for header kind %s", c.Kind)
	}
}

// Encode writes the header, leaving a placeholder for the payload length.
func (c *Codec) Encode(w *binio.Writer, format FormatVersion) (Placeholder, error) {
	if c.Size(format) == 0 {
		return Placeholder{}, nil
	}

	switch c.Kind {
	case KindAbioticWorld:
		return c.encodeWorld(w)
	case KindAbioticPlayer:
		return c.encodePlayer(w), nil
	default:
		return Placeholder{}, fmt.Errorf("no encoder for header kind %s", c.Kind)
	}
}

// Backpatch rewrites the placeholder with the final payload length.
func (c *Codec) Backpatch(w *binio.Writer, p Placeholder, dataLength int64) error {
	if !p.valid {
		return nil
	}
	if dataLength < 0 || dataLength > math.MaxInt32 {
		return fmt.Errorf("payload length %d does not fit the header length field", dataLength)
	}
	c.dataLength = int32(dataLength)
	if err := w.PatchInt32(p.offset, c.dataLength); err != nil {
		return fmt.Errorf("failed to backpatch header length; %w", err)
	}
	return nil
}

// ToJSON returns the named header fields this variant exposes, or nil for
// variants without a custom header.
func (c *Codec) ToJSON() (json.RawMessage, error) {
	var v any
	switch c.Kind {
	case KindNone:
		return nil, nil
	case KindAbioticWorld:
		v = worldHeaderJSON{Version: c.Version, Unknown: c.Unknown}
	case KindAbioticPlayer:
		v = playerHeaderJSON{Version: c.Version}
	default:
		return nil, fmt.Errorf("no JSON form for header kind %s", c.Kind)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s header; %w", c.Kind, err)
	}
	return data, nil
}

// FromJSON loads header fields from their JSON form. Missing fields default
// to zero and unknown fields are ignored.
func (c *Codec) FromJSON(raw json.RawMessage) error {
	c.Version, c.Unknown, c.dataLength = 0, 0, 0

	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	switch c.Kind {
	case KindNone:
		return nil
	case KindAbioticWorld:
		var v worldHeaderJSON
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("failed to decode %s header; %w", c.Kind, err)
		}
		c.Version, c.Unknown = v.Version, v.Unknown
	case KindAbioticPlayer:
		var v playerHeaderJSON
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("failed to decode %s header; %w", c.Kind, err)
		}
		c.Version = v.Version
	default:
		return fmt.Errorf("no JSON form for header kind %s", c.Kind)
	}
	return nil
}
