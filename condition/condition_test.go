package condition

import (
	"testing"

	"github.com/bodgit/hdpack/screen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind(t *testing.T) {
	for _, k := range []Kind{TileAtPosition, SpriteAtPosition, TileNearby, SpriteNearby} {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := ParseKind("tileSomewhere")
	assert.Equal(t, errUnknownKind, err)
	assert.Equal(t, "unknown", Kind(42).String())
}

func TestTileAtPosition(t *testing.T) {
	c := &Condition{Kind: TileAtPosition, X: 5, Y: 3, TileIndex: 7, PaletteColors: 0xaabbccdd}

	grid := screen.NewGrid()
	require.Equal(t, 773, screen.Index(5, 3))

	assert.False(t, c.Check(grid, 0, 0))

	grid[773].Tile.PaletteColors = 0xaabbccdd
	grid[773].Tile.Index = 7
	assert.True(t, c.Check(grid, 0, 0))
	assert.True(t, c.Check(grid, 100, 100), "render position is ignored")

	grid[773].Tile.PaletteColors = 0xaabbccde
	assert.False(t, c.Check(grid, 0, 0), "palette must match")

	grid[773].Tile.PaletteColors = 0xaabbccdd
	grid[773].Tile.Index = 8
	assert.False(t, c.Check(grid, 0, 0), "index must match")

	// A grid too small to hold index 773
	assert.False(t, c.Check(grid[:773], 0, 0))
	assert.True(t, (&Condition{Kind: TileAtPosition, X: 5, Y: 3, TileIndex: 8, PaletteColors: 0xaabbccdd}).Check(grid[:774], 0, 0))
}

func TestSpriteAtPositionData(t *testing.T) {
	c := &Condition{Kind: SpriteAtPosition, X: 1, Y: 1, TileIndex: -1, PaletteColors: 0xff010203}
	c.TileData[0] = 0x80
	c.TileData[15] = 0x01

	grid := screen.NewGrid()
	i := screen.Index(1, 1)
	grid[i].Sprite.PaletteColors = 0xff010203
	grid[i].Sprite.Data = c.TileData
	assert.True(t, c.Check(grid, 0, 0))

	// The tile layer is not consulted
	grid[i].Tile = grid[i].Sprite
	grid[i].Sprite.Data[15] = 0x02
	assert.False(t, c.Check(grid, 0, 0))
}

func TestOutOfRange(t *testing.T) {
	grid := screen.NewGrid()

	tables := []struct {
		name string
		c    Condition
		x, y int
	}{
		{"absolute below", Condition{Kind: TileAtPosition, X: 0, Y: -1}, 0, 0},
		{"absolute past end", Condition{Kind: TileAtPosition, X: 0, Y: screen.Height}, 0, 0},
		{"nearby above", Condition{Kind: TileNearby, X: 0, Y: -8}, 0, 4},
		{"nearby below", Condition{Kind: SpriteNearby, X: 0, Y: 8}, 0, screen.Height - 4},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			assert.False(t, table.c.Check(grid, table.x, table.y))
		})
	}
}

func TestNearbyIgnoresPalette(t *testing.T) {
	near := &Condition{Kind: TileNearby, X: 8, Y: -8, TileIndex: 3, PaletteColors: 0x01020304}
	abs := &Condition{Kind: TileAtPosition, X: 24, Y: 8, TileIndex: 3, PaletteColors: 0x01020304}

	grid := screen.NewGrid()
	i := screen.Index(24, 8)
	grid[i].Tile.Index = 3
	grid[i].Tile.PaletteColors = 0x0a0b0c0d

	assert.True(t, near.Check(grid, 16, 16))
	assert.False(t, abs.Check(grid, 16, 16))

	grid[i].Tile.PaletteColors = 0x01020304
	assert.True(t, abs.Check(grid, 16, 16))

	// Evaluated from elsewhere the relative position moves
	assert.False(t, near.Check(grid, 0, 16))
}

func TestNearbyData(t *testing.T) {
	c := &Condition{Kind: SpriteNearby, X: -8, Y: 0, TileIndex: -1}
	c.TileData[3] = 0xaa

	grid := screen.NewGrid()
	grid[screen.Index(32, 40)].Sprite.Data = c.TileData
	grid[screen.Index(32, 40)].Sprite.PaletteColors = 0xffffffff

	assert.True(t, c.Check(grid, 40, 40))
	assert.False(t, c.Check(grid, 48, 40))
}
