package gvas

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/leefowlercu/uesave-converter/internal/binio"
	"github.com/leefowlercu/uesave-converter/internal/headers"
)

// fileMagic is "GVAS" read as a little-endian uint32.
const fileMagic uint32 = 0x53415647

// saveGameVersionUE5 is the first save game version that records a UE5
// package version.
const saveGameVersionUE5 = 3

// ErrNotSaveGame is returned when the input does not start with the GVAS magic.
var ErrNotSaveGame = errors.New("not a save game file")

// Header is the generic envelope preamble.
type Header struct {
	SaveGameVersion int32          `json:"SaveGameVersion"`
	PackageVersion  PackageVersion `json:"PackageVersion"`
	EngineVersion   EngineVersion  `json:"EngineVersion"`
	CustomFormat    CustomFormat   `json:"CustomFormat"`
	SaveClass       binio.FString  `json:"SaveClass"`
}

// PackageVersion holds the object package versions the save was written with.
type PackageVersion struct {
	UE4 int32 `json:"UE4"`
	UE5 int32 `json:"UE5,omitempty"`
}

// EngineVersion identifies the engine build that wrote the save.
type EngineVersion struct {
	Major      uint16        `json:"Major"`
	Minor      uint16        `json:"Minor"`
	Patch      uint16        `json:"Patch"`
	Changelist uint32        `json:"Changelist"`
	Branch     binio.FString `json:"Branch"`
}

// CustomFormat lists the custom version GUIDs recorded by the engine.
type CustomFormat struct {
	Version  int32           `json:"Version"`
	Versions []CustomVersion `json:"Versions"`
}

// CustomVersion is one custom version entry.
type CustomVersion struct {
	ID    uuid.UUID `json:"Id"`
	Value int32     `json:"Value"`
}

// Format returns the version information header codecs are gated on.
func (h Header) Format() headers.FormatVersion {
	return headers.FormatVersion{
		SaveGame:   h.SaveGameVersion,
		PackageUE4: h.PackageVersion.UE4,
		PackageUE5: h.PackageVersion.UE5,
	}
}

func readHeader(r *binio.Reader) (Header, error) {
	var h Header

	magic, err := r.ReadUint32()
	if err != nil {
		return h, fmt.Errorf("failed to read file magic; %w", err)
	}
	if magic != fileMagic {
		return h, fmt.Errorf("%w: magic %#08x", ErrNotSaveGame, magic)
	}

	if h.SaveGameVersion, err = r.ReadInt32(); err != nil {
		return h, fmt.Errorf("failed to read save game version; %w", err)
	}
	if h.PackageVersion.UE4, err = r.ReadInt32(); err != nil {
		return h, fmt.Errorf("failed to read package version; %w", err)
	}
	if h.SaveGameVersion >= saveGameVersionUE5 {
		if h.PackageVersion.UE5, err = r.ReadInt32(); err != nil {
			return h, fmt.Errorf("failed to read UE5 package version; %w", err)
		}
	}

	ev := &h.EngineVersion
	if ev.Major, err = r.ReadUint16(); err != nil {
		return h, fmt.Errorf("failed to read engine version; %w", err)
	}
	if ev.Minor, err = r.ReadUint16(); err != nil {
		return h, fmt.Errorf("failed to read engine version; %w", err)
	}
	if ev.Patch, err = r.ReadUint16(); err != nil {
		return h, fmt.Errorf("failed to read engine version; %w", err)
	}
	if ev.Changelist, err = r.ReadUint32(); err != nil {
		return h, fmt.Errorf("failed to read engine changelist; %w", err)
	}
	if ev.Branch, err = r.ReadFString(); err != nil {
		return h, fmt.Errorf("failed to read engine branch; %w", err)
	}

	if h.CustomFormat.Version, err = r.ReadInt32(); err != nil {
		return h, fmt.Errorf("failed to read custom format version; %w", err)
	}
	count, err := r.ReadInt32()
	if err != nil {
		return h, fmt.Errorf("failed to read custom version count; %w", err)
	}
	if count < 0 || int(count) > r.Remaining()/20 {
		return h, fmt.Errorf("invalid custom version count %d", count)
	}
	h.CustomFormat.Versions = make([]CustomVersion, 0, count)
	for i := int32(0); i < count; i++ {
		var cv CustomVersion
		if cv.ID, err = r.ReadGUID(); err != nil {
			return h, fmt.Errorf("failed to read custom version %d; %w", i, err)
		}
		if cv.Value, err = r.ReadInt32(); err != nil {
			return h, fmt.Errorf("failed to read custom version %d; %w", i, err)
		}
		h.CustomFormat.Versions = append(h.CustomFormat.Versions, cv)
	}

	if h.SaveClass, err = r.ReadFString(); err != nil {
		return h, fmt.Errorf("failed to read save class; %w", err)
	}

	return h, nil
}

func writeHeader(w *binio.Writer, h Header) error {
	w.WriteUint32(fileMagic)
	w.WriteInt32(h.SaveGameVersion)
	w.WriteInt32(h.PackageVersion.UE4)
	if h.SaveGameVersion >= saveGameVersionUE5 {
		w.WriteInt32(h.PackageVersion.UE5)
	}

	w.WriteUint16(h.EngineVersion.Major)
	w.WriteUint16(h.EngineVersion.Minor)
	w.WriteUint16(h.EngineVersion.Patch)
	w.WriteUint32(h.EngineVersion.Changelist)
	if err := w.WriteFString(h.EngineVersion.Branch); err != nil {
		return err
	}

	w.WriteInt32(h.CustomFormat.Version)
	w.WriteInt32(int32(len(h.CustomFormat.Versions)))
	for _, cv := range h.CustomFormat.Versions {
		w.WriteGUID(cv.ID)
		w.WriteInt32(cv.Value)
	}

	return w.WriteFString(h.SaveClass)
}
