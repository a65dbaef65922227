package headers

import (
	"fmt"

	"github.com/leefowlercu/uesave-converter/internal/binio"
)

// worldSentinel prefixes the Abiotic Factor world header.
const worldSentinel = "ABF_SAVE_VERSION"

// legacyCharacterMagic is the second int32 of a character save written before
// headers existed: the bytes "Char" from the first property name.
const legacyCharacterMagic int32 = 1918986307

const playerHeaderSize = 4 + 4

type worldHeaderJSON struct {
	Version int32 `json:"Version"`
	Unknown int32 `json:"Unknown"`
}

type playerHeaderJSON struct {
	Version int32 `json:"Version"`
}

func worldHeaderSize() int64 {
	return int64(binio.NewFString(worldSentinel).EncodedSize()) + 4 + 4 + 4
}

// probeWorldSentinel consumes at most the sentinel's encoded size.
func probeWorldSentinel(r *binio.Reader) (bool, string) {
	n, err := r.ReadInt32()
	if err != nil {
		return false, "end of data"
	}
	if n != int32(len(worldSentinel)+1) {
		return false, fmt.Sprintf("name length %d", n)
	}
	b, err := r.ReadBytes(int(n))
	if err != nil {
		return false, "end of data"
	}
	if string(b) != worldSentinel+"\x00" {
		return false, fmt.Sprintf("name %q", string(b[:len(b)-1]))
	}
	return true, ""
}

func (c *Codec) decodeWorld(r *binio.Reader) (Presence, error) {
	mark := r.Mark(binio.NewFString(worldSentinel).EncodedSize())

	if ok, found := probeWorldSentinel(r); !ok {
		if !c.policy.LegacyProbe {
			return HeaderAbsent, fmt.Errorf("%w: expected %q at offset %d, found %s",
				ErrSentinelMismatch, worldSentinel, mark.Pos(), found)
		}
		// Older saves have no header; the probed bytes belong to the payload.
		if err := r.Reset(mark); err != nil {
			return HeaderAbsent, err
		}
		return HeaderAbsent, nil
	}

	var err error
	if c.Version, err = r.ReadInt32(); err != nil {
		return HeaderAbsent, fmt.Errorf("%w: failed to read version; %w", ErrInvalidHeader, err)
	}
	if c.Unknown, err = r.ReadInt32(); err != nil {
		return HeaderAbsent, fmt.Errorf("%w: failed to read auxiliary field; %w", ErrInvalidHeader, err)
	}
	if c.dataLength, err = r.ReadInt32(); err != nil {
		return HeaderAbsent, fmt.Errorf("%w: failed to read data length; %w", ErrInvalidHeader, err)
	}
	if c.Version == 0 {
		return HeaderAbsent, fmt.Errorf("%w: header present with version 0", ErrInvalidHeader)
	}
	return HeaderPresent, nil
}

func (c *Codec) encodeWorld(w *binio.Writer) (Placeholder, error) {
	if err := w.WriteFString(binio.NewFString(worldSentinel)); err != nil {
		return Placeholder{}, err
	}
	w.WriteInt32(c.Version)
	w.WriteInt32(c.Unknown)
	p := Placeholder{offset: w.Pos(), valid: true}
	w.WriteInt32(0)
	return p, nil
}

func (c *Codec) decodePlayer(r *binio.Reader) (Presence, error) {
	mark := r.Mark(playerHeaderSize)

	version, err := r.ReadInt32()
	if err != nil {
		return HeaderAbsent, fmt.Errorf("%w: failed to read version; %w", ErrInvalidHeader, err)
	}
	dataLength, err := r.ReadInt32()
	if err != nil {
		return HeaderAbsent, fmt.Errorf("%w: failed to read data length; %w", ErrInvalidHeader, err)
	}

	if dataLength == legacyCharacterMagic {
		if err := r.Reset(mark); err != nil {
			return HeaderAbsent, err
		}
		return HeaderAbsent, nil
	}
	if version == 0 {
		return HeaderAbsent, fmt.Errorf("%w: header present with version 0", ErrInvalidHeader)
	}

	c.Version = version
	c.dataLength = dataLength
	return HeaderPresent, nil
}

func (c *Codec) encodePlayer(w *binio.Writer) Placeholder {
	w.WriteInt32(c.Version)
	p := Placeholder{offset: w.Pos(), valid: true}
	w.WriteInt32(0)
	return p
}
