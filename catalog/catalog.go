/*
Package catalog holds everything loaded from one pack and resolves native
tiles to their replacements.

A Catalog is assembled with a Builder and is read-only once built, so a
single instance can be shared with the render loop without locking. Records
refer to conditions and bitmaps by id into arrays owned by the Catalog.

Candidates sharing a key are kept in the order they were added. Resolution
returns the first candidate whose conditions all hold, so packs must list
conditional replacements before the unconditional one they override.
*/
package catalog

import (
	"github.com/bodgit/hdpack/bitmap"
	"github.com/bodgit/hdpack/condition"
	"github.com/bodgit/hdpack/palette"
	"github.com/bodgit/hdpack/screen"
	"github.com/bodgit/hdpack/tile"
)

// ConditionID identifies a condition within its Catalog.
type ConditionID int

// BitmapID identifies a bitmap within its Catalog.
type BitmapID int

// Option is a set of pack-wide flags.
type Option uint32

// Pack options.
const (
	OptionNoSpriteLimit Option = 1 << iota
)

// Tile is a replacement for a native tile.
type Tile struct {
	tile.Key

	// X and Y locate the replacement within its bitmap.
	X          uint32
	Y          uint32
	Bitmap     BitmapID
	Brightness uint8
	Default    bool
	Blank      bool
	Pixels     []uint32
	ChrBank    uint32
	Conditions []ConditionID
}

// RGB decodes the native bitmap of t with pal.
func (t *Tile) RGB(pal *palette.Table) [tile.Pixels]uint32 {
	return tile.Decode(&t.Data, pal, t.PaletteColors, t.IsSprite())
}

// Color returns replacement pixel i with the brightness applied.
func (t *Tile) Color(i int) uint32 {
	return brighten(t.Pixels[i], t.Brightness)
}

// Background is a replacement for the whole screen. Its Bitmap refers to the
// background images, not the tile bitmaps.
type Background struct {
	Bitmap     BitmapID
	Brightness uint8
	Conditions []ConditionID
}

func brighten(c uint32, b uint8) uint32 {
	if b == 0xff {
		return c
	}
	scale := func(v uint32) uint32 {
		return (v & 0xff) * uint32(b) / 0xff
	}
	return c&0xff000000 | scale(c>>16)<<16 | scale(c>>8)<<8 | scale(c)
}

type bucket struct {
	key   tile.Key
	tiles []int
}

// Catalog is an immutable, fully loaded pack.
type Catalog struct {
	version     int
	scale       int
	options     Option
	palette     []uint32
	bitmaps     []*bitmap.Bitmap
	screens     []*bitmap.Bitmap
	conditions  []condition.Condition
	tiles       []Tile
	backgrounds []Background
	index       map[uint32][]bucket
}

func (c *Catalog) candidates(key tile.Key) []int {
	for _, b := range c.index[key.Hash()] {
		if b.key.Equal(key) {
			return b.tiles
		}
	}
	return nil
}

func (c *Catalog) holds(ids []ConditionID, grid screen.Grid, x, y int) bool {
	for _, id := range ids {
		if !c.conditions[id].Check(grid, x, y) {
			return false
		}
	}
	return true
}

// Resolve returns the replacement for the native tile key drawn at (x, y).
// If no replacement is registered for the exact key the palette-agnostic key
// is tried instead. It returns false when the tile should be drawn natively.
// A nil Catalog resolves nothing.
func (c *Catalog) Resolve(key tile.Key, x, y int, grid screen.Grid) (*Tile, bool) {
	if c == nil {
		return nil, false
	}
	ids := c.candidates(key)
	if len(ids) == 0 {
		ids = c.candidates(key.WithDefaultPalette())
	}
	for _, id := range ids {
		t := &c.tiles[id]
		if c.holds(t.Conditions, grid, x, y) {
			return t, true
		}
	}
	return nil, false
}

// ResolveBackground returns the first background whose conditions hold.
func (c *Catalog) ResolveBackground(grid screen.Grid) (*Background, bool) {
	if c == nil {
		return nil, false
	}
	for i := range c.backgrounds {
		bg := &c.backgrounds[i]
		if c.holds(bg.Conditions, grid, 0, 0) {
			return bg, true
		}
	}
	return nil, false
}

// Candidates returns every replacement registered under key in resolution
// order. A nil Catalog has none.
func (c *Catalog) Candidates(key tile.Key) []*Tile {
	if c == nil {
		return nil
	}
	ids := c.candidates(key)
	out := make([]*Tile, 0, len(ids))
	for _, id := range ids {
		out = append(out, &c.tiles[id])
	}
	return out
}

// Keys returns the number of distinct keys in the index.
func (c *Catalog) Keys() int {
	n := 0
	for _, b := range c.index {
		n += len(b)
	}
	return n
}

// Condition returns the condition with the given id.
func (c *Catalog) Condition(id ConditionID) *condition.Condition {
	return &c.conditions[id]
}

// Conditions returns all conditions in declaration order.
func (c *Catalog) Conditions() []condition.Condition {
	return c.conditions
}

// Tiles returns all replacement tiles in declaration order.
func (c *Catalog) Tiles() []Tile {
	return c.tiles
}

// Backgrounds returns all backgrounds in declaration order.
func (c *Catalog) Backgrounds() []Background {
	return c.backgrounds
}

// Bitmap returns the bitmap with the given id.
func (c *Catalog) Bitmap(id BitmapID) *bitmap.Bitmap {
	return c.bitmaps[id]
}

// Bitmaps returns all bitmaps in declaration order.
func (c *Catalog) Bitmaps() []*bitmap.Bitmap {
	return c.bitmaps
}

// BackgroundBitmap returns the background image with the given id.
func (c *Catalog) BackgroundBitmap(id BitmapID) *bitmap.Bitmap {
	return c.screens[id]
}

// BackgroundBitmaps returns all background images in declaration order.
func (c *Catalog) BackgroundBitmaps() []*bitmap.Bitmap {
	return c.screens
}

// Palette returns the colour table the pack overrides the renderer's with.
// It returns false unless the pack supplied exactly 64 colors.
func (c *Catalog) Palette() (palette.Table, bool) {
	t, err := palette.FromSlice(c.palette)
	return t, err == nil
}

// RawPalette returns the palette colors exactly as declared.
func (c *Catalog) RawPalette() []uint32 {
	return c.palette
}

// Version returns the pack format version.
func (c *Catalog) Version() int { return c.version }

// Scale returns the size multiplier of replacement tiles.
func (c *Catalog) Scale() int { return c.scale }

// Options returns the pack-wide flags.
func (c *Catalog) Options() Option { return c.options }

// Stats summarises a Catalog.
type Stats struct {
	Version       int  `yaml:"version"`
	Scale         int  `yaml:"scale"`
	Bitmaps       int  `yaml:"bitmaps"`
	Conditions    int  `yaml:"conditions"`
	Tiles         int  `yaml:"tiles"`
	Keys          int  `yaml:"keys"`
	Blank         int  `yaml:"blank"`
	Backgrounds   int  `yaml:"backgrounds"`
	Palette       bool `yaml:"palette"`
	NoSpriteLimit bool `yaml:"noSpriteLimit"`
}

// Stats returns a summary of c.
func (c *Catalog) Stats() Stats {
	_, pal := c.Palette()
	s := Stats{
		Version:       c.version,
		Scale:         c.scale,
		Bitmaps:       len(c.bitmaps),
		Conditions:    len(c.conditions),
		Tiles:         len(c.tiles),
		Keys:          c.Keys(),
		Backgrounds:   len(c.backgrounds),
		Palette:       pal,
		NoSpriteLimit: c.options&OptionNoSpriteLimit != 0,
	}
	for i := range c.tiles {
		if c.tiles[i].Blank {
			s.Blank++
		}
	}
	return s
}
