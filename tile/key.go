package tile

import (
	"bytes"
	"encoding/binary"

	"github.com/bodgit/hdpack/tilehash"
)

const (
	// NoIndex marks a key that has no usable tile index.
	NoIndex = 0xffffffff

	// DefaultPalette is the palette of a palette-agnostic key.
	DefaultPalette = 0xffffffff

	spriteMask = 0xff000000
)

// Key is the identity of a native tile as displayed. Tiles from CHR-RAM are
// identified by their palette and bitmap, everything else by its palette and
// index into tile memory.
type Key struct {
	PaletteColors uint32
	Data          [DataSize]byte
	Index         uint32
	ChrRAM        bool
}

func (k Key) composite() uint64 {
	return uint64(k.Index) | uint64(k.PaletteColors)<<32
}

// Hash returns the table hash of k. Keys that are Equal hash the same.
func (k Key) Hash() uint32 {
	if k.ChrRAM {
		var b [4 + DataSize]byte
		binary.LittleEndian.PutUint32(b[:4], k.PaletteColors)
		copy(b[4:], k.Data[:])
		return tilehash.Checksum(b[:])
	}
	c := k.composite()
	return tilehash.Words(0, uint32(c), uint32(c>>32))
}

// Equal reports whether k and o identify the same tile. Keys of different
// kinds never match.
func (k Key) Equal(o Key) bool {
	if k.ChrRAM != o.ChrRAM {
		return false
	}
	if k.ChrRAM {
		return k.PaletteColors == o.PaletteColors && bytes.Equal(k.Data[:], o.Data[:])
	}
	return k.composite() == o.composite()
}

// IsSprite reports whether the palette marks the tile as a sprite.
func (k Key) IsSprite() bool {
	return k.PaletteColors&spriteMask == spriteMask
}

// WithDefaultPalette returns a copy of k with the palette-agnostic palette.
func (k Key) WithDefaultPalette() Key {
	k.PaletteColors = DefaultPalette
	return k
}
