/*
Package condition implements the predicates pack authors attach to
replacement tiles and backgrounds to pick between candidates depending on what
else is on screen.
*/
package condition

import (
	"bytes"
	"errors"

	"github.com/bodgit/hdpack/screen"
	"github.com/bodgit/hdpack/tile"
)

// Kind selects what a Condition inspects and how its position is computed.
type Kind int

// Kinds of condition.
const (
	TileAtPosition Kind = iota
	SpriteAtPosition
	TileNearby
	SpriteNearby
)

var kindNames = [...]string{
	TileAtPosition:   "tileAtPosition",
	SpriteAtPosition: "spriteAtPosition",
	TileNearby:       "tileNearby",
	SpriteNearby:     "spriteNearby",
}

var errUnknownKind = errors.New("condition: unknown kind")

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind returns the Kind named s.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, errUnknownKind
}

// Condition is a named predicate over the screen grid.
//
// X and Y are absolute for the AtPosition kinds and relative to the tile
// being resolved for the Nearby kinds. A non-negative TileIndex matches by
// index, otherwise TileData is compared.
//
// The Nearby kinds never compare PaletteColors.
type Condition struct {
	Name          string
	Kind          Kind
	X             int32
	Y             int32
	PaletteColors uint32
	TileIndex     int32
	TileData      [tile.DataSize]byte
}

func (c *Condition) pick(p *screen.PixelInfo) *screen.TileInfo {
	if c.Kind == SpriteAtPosition || c.Kind == SpriteNearby {
		return &p.Sprite
	}
	return &p.Tile
}

func (c *Condition) matchesTarget(t *screen.TileInfo) bool {
	if c.TileIndex >= 0 {
		return t.Index == uint32(c.TileIndex)
	}
	return bytes.Equal(t.Data[:], c.TileData[:])
}

func (c *Condition) atPosition(grid screen.Grid) bool {
	i := screen.Index(int(c.X), int(c.Y))
	if i < 0 || i >= len(grid) {
		return false
	}
	t := c.pick(&grid[i])
	return t.PaletteColors == c.PaletteColors && c.matchesTarget(t)
}

func (c *Condition) nearby(grid screen.Grid, x, y int) bool {
	i := screen.Index(x+int(c.X), y+int(c.Y))
	if i < 0 || i >= len(grid) {
		return false
	}
	return c.matchesTarget(c.pick(&grid[i]))
}

// Check reports whether c holds for the tile drawn at (x, y). Positions
// outside the grid never match.
func (c *Condition) Check(grid screen.Grid, x, y int) bool {
	switch c.Kind {
	case TileAtPosition, SpriteAtPosition:
		return c.atPosition(grid)
	case TileNearby, SpriteNearby:
		return c.nearby(grid, x, y)
	}
	return false
}
