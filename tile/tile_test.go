package tile

import (
	"bytes"
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/bodgit/hdpack/palette"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomKey(r *rand.Rand, chrRAM bool) Key {
	k := Key{
		PaletteColors: r.Uint32(),
		Index:         r.Uint32(),
		ChrRAM:        chrRAM,
	}
	r.Read(k.Data[:])
	return k
}

func TestKeyEqualImpliesHash(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		for _, chrRAM := range []bool{false, true} {
			a := randomKey(r, chrRAM)

			// Copy with the fields the kind ignores changed
			b := a
			if chrRAM {
				b.Index = r.Uint32()
			} else {
				r.Read(b.Data[:])
			}
			require.True(t, a.Equal(b))
			require.True(t, b.Equal(a))
			require.Equal(t, a.Hash(), b.Hash())

			c := randomKey(r, chrRAM)
			if a.Hash() != c.Hash() {
				require.False(t, a.Equal(c))
			}
		}
	}
}

func TestKeyHashSpans(t *testing.T) {
	static := Key{PaletteColors: 0x0f162738, Index: 7}
	other := static
	other.Index = 8
	assert.NotEqual(t, static.Hash(), other.Hash())
	assert.False(t, static.Equal(other))

	dynamic := Key{PaletteColors: 0x0f162738, ChrRAM: true}
	dynamic.Data[15] = 0x01
	changed := dynamic
	changed.Data[15] = 0x02
	assert.NotEqual(t, dynamic.Hash(), changed.Hash())
	assert.False(t, dynamic.Equal(changed))

	changed = dynamic
	changed.PaletteColors++
	assert.False(t, dynamic.Equal(changed))

	// Same fields, different kinds
	mixed := dynamic
	mixed.ChrRAM = false
	assert.False(t, dynamic.Equal(mixed))
	assert.False(t, mixed.Equal(dynamic))
}

func TestKeyEqualCollision(t *testing.T) {
	// Static keys whose two words fold to the same hash
	a := Key{Index: 1, PaletteColors: 0}
	b := Key{Index: 0, PaletteColors: 4}
	require.Equal(t, a.Hash(), b.Hash())
	assert.False(t, a.Equal(b))
}

func TestWithDefaultPalette(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for _, chrRAM := range []bool{false, true} {
		k := randomKey(r, chrRAM)
		d := k.WithDefaultPalette()
		assert.Equal(t, uint32(DefaultPalette), d.PaletteColors)
		assert.Equal(t, k.Data, d.Data)
		assert.Equal(t, k.Index, d.Index)
		assert.Equal(t, k.ChrRAM, d.ChrRAM)
	}
}

func TestIsSprite(t *testing.T) {
	tables := []struct {
		palette uint32
		sprite  bool
	}{
		{0xff000000, true},
		{0xff0f1020, true},
		{0xfe0f1020, false},
		{0x7f0f1020, false},
		{0x00ffffff, false},
	}

	for _, table := range tables {
		assert.Equal(t, table.sprite, Key{PaletteColors: table.palette}.IsSprite(), "%08x", table.palette)
	}
}

func TestColorIndex(t *testing.T) {
	var data [DataSize]byte
	data[0] = 0x3c
	data[planeBytes] = 0x7e

	want := []uint8{0, 2, 3, 3, 3, 3, 2, 0}
	for x, c := range want {
		assert.Equal(t, c, ColorIndex(&data, x, 0), "pixel %d", x)
	}
}

func TestDecode(t *testing.T) {
	var pal palette.Table
	for i := range pal {
		pal[i] = uint32(i) << 8
	}

	var data [DataSize]byte
	// Row 0: colors 0, 1, 2, 3 repeated
	data[0] = 0x55
	data[planeBytes] = 0x33

	selector := uint32(0x0f1a2b3c)

	bg := Decode(&data, &pal, selector, false)
	require.Len(t, bg, Pixels)
	assert.Equal(t, uint32(0xff000f00), bg[0])
	assert.Equal(t, uint32(0xff001a00), bg[1])
	assert.Equal(t, uint32(0xff002b00), bg[2])
	assert.Equal(t, uint32(0xff003c00), bg[3])
	for _, c := range bg {
		assert.NotEqual(t, uint32(0), c&opaque)
	}

	sprite := Decode(&data, &pal, selector|0xff000000, true)
	for i, c := range sprite {
		x, y := i%tileWidth, i/tileWidth
		if ColorIndex(&data, x, y) == 0 {
			assert.Equal(t, uint32(Transparent), c)
		} else {
			assert.Equal(t, uint32(opaque), c&opaque)
		}
	}
	assert.Equal(t, bg[1:4], sprite[1:4])
}

func TestDecodeAlwaysFull(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		var data [DataSize]byte
		r.Read(data[:])
		out := Decode(&data, &palette.Default, r.Uint32(), i%2 == 0)
		assert.Len(t, out[:], Pixels)
	}
}

func TestIsBlank(t *testing.T) {
	buf := make([]uint32, Pixels)
	for i := range buf {
		buf[i] = 0xff112233
	}
	assert.True(t, IsBlank(buf))
	assert.True(t, IsBlank(nil))
	assert.True(t, IsBlank(buf[:1]))

	for i := range buf {
		dup := append([]uint32(nil), buf...)
		dup[i]++
		assert.False(t, IsBlank(dup), "pixel %d", i)
	}
}

func TestEncode(t *testing.T) {
	p := color.Palette{
		color.RGBA{0x00, 0x00, 0x00, 0xff},
		color.RGBA{0xff, 0x00, 0x00, 0xff},
		color.RGBA{0x00, 0xff, 0x00, 0xff},
		color.RGBA{0x00, 0x00, 0xff, 0xff},
	}
	m := image.NewPaletted(image.Rect(0, 0, tileWidth, tileHeight), p)
	for y := 0; y < tileHeight; y++ {
		for x := 0; x < tileWidth; x++ {
			m.SetColorIndex(x, y, uint8((x+y)%colorsPerSet))
		}
	}

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, m))
	require.Equal(t, DataSize, b.Len())

	var data [DataSize]byte
	copy(data[:], b.Bytes())
	for y := 0; y < tileHeight; y++ {
		for x := 0; x < tileWidth; x++ {
			assert.Equal(t, m.ColorIndexAt(x, y), ColorIndex(&data, x, y))
		}
	}
}

func TestEncodeQuantizes(t *testing.T) {
	m := image.NewRGBA(image.Rect(0, 0, tileWidth, tileHeight))
	for y := 0; y < tileHeight; y++ {
		for x := 0; x < tileWidth; x++ {
			m.Set(x, y, color.RGBA{uint8(x * 32), uint8(y * 32), 0x80, 0xff})
		}
	}

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, m))
	assert.Equal(t, DataSize, b.Len())
}

func TestEncodeWrongSize(t *testing.T) {
	m := image.NewRGBA(image.Rect(0, 0, 16, 8))
	assert.Equal(t, errWrongSize, Encode(new(bytes.Buffer), m))
}
