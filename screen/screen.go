/*
Package screen describes the per-frame snapshot of what the tile generator
drew at every pixel of the display.
*/
package screen

import "github.com/bodgit/hdpack/tile"

const (
	// Width of the display in pixels. Grid rows are addressed by shifting
	// the row number left by eight.
	Width = 256

	// Height of the display in pixels.
	Height = 240

	// PixelCount is the number of entries in a Grid.
	PixelCount = Width * Height
)

// TileInfo is the tile or sprite drawn at a pixel.
type TileInfo struct {
	tile.Key

	OffsetX             uint8
	OffsetY             uint8
	HorizontalMirroring bool
	VerticalMirroring   bool
	BackgroundPriority  bool
	BgColorIndex        uint8
	SpriteColorIndex    uint8
	BgColor             uint8
	SpriteColor         uint8
	NametableValue      uint8
}

// PixelInfo holds both layers for one pixel.
type PixelInfo struct {
	Tile   TileInfo
	Sprite TileInfo
}

// Grid is a row-major array of PixelCount entries, refreshed once per frame.
type Grid []PixelInfo

// NewGrid returns an empty Grid.
func NewGrid() Grid {
	return make(Grid, PixelCount)
}

// Index returns the grid index of pixel (x, y).
func Index(x, y int) int {
	return y<<8 + x
}

// Reset clears every entry.
func (g Grid) Reset() {
	for i := range g {
		g[i] = PixelInfo{}
	}
}
