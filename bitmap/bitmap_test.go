package bitmap

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage() *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, 16, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			m.SetNRGBA(x, y, color.NRGBA{uint8(x), uint8(y), 0x40, 0xff})
		}
	}
	return m
}

func TestDecode(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, testImage()))

	b, err := Decode("test.png", buf)
	require.NoError(t, err)

	assert.Equal(t, "test.png", b.Name)
	assert.Equal(t, 16, b.Width)
	assert.Equal(t, 8, b.Height)
	assert.Len(t, b.Pixels, 16*8)
	assert.Equal(t, uint32(0xff030540), b.At(3, 5))
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode("junk", bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}

func TestFromImageOffset(t *testing.T) {
	m := testImage().SubImage(image.Rect(8, 0, 16, 8))
	b := FromImage("sub", m)
	assert.Equal(t, 8, b.Width)
	assert.Equal(t, uint32(0xff080040), b.At(0, 0))
}

func TestTile(t *testing.T) {
	b := FromImage("test", testImage())

	px, err := b.Tile(8, 0, 8)
	require.NoError(t, err)
	require.Len(t, px, 64)
	assert.Equal(t, uint32(0xff080040), px[0])
	assert.Equal(t, uint32(0xff0f0740), px[63])

	px[0] = 0
	assert.Equal(t, uint32(0xff080040), b.At(8, 0), "Tile returns a copy")

	_, err = b.Tile(9, 0, 8)
	assert.Equal(t, errOutOfBounds, err)
	_, err = b.Tile(-1, 0, 8)
	assert.Equal(t, errOutOfBounds, err)
	_, err = b.Tile(0, 0, 0)
	assert.Equal(t, errBadSize, err)
}
