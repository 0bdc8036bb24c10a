package tile

import "github.com/bodgit/hdpack/palette"

// Transparent is emitted for sprite pixels using color 0.
const Transparent = 0x00ffffff

const opaque = 0xff000000

// ColorIndex returns the 2-bit color of the pixel at (x, y).
func ColorIndex(data *[DataSize]byte, x, y int) uint8 {
	shift := uint(7 - x)
	lo := data[y] >> shift & 0x01
	hi := data[y+planeBytes] >> shift & 0x01
	return lo | hi<<1
}

// Decode converts a native bitmap into 64 row-major 0xAARRGGBB pixels. The
// selector holds four palette entries, one per byte, with color 0 in the most
// significant byte.
func Decode(data *[DataSize]byte, pal *palette.Table, selector uint32, sprite bool) [Pixels]uint32 {
	var rgb [Pixels]uint32
	for y := 0; y < tileHeight; y++ {
		for x := 0; x < tileWidth; x++ {
			c := ColorIndex(data, x, y)
			if sprite && c == 0 {
				rgb[y*tileWidth+x] = Transparent
				continue
			}
			rgb[y*tileWidth+x] = pal[selector>>((colorsPerSet-1-c)*8)&(palette.Size-1)] | opaque
		}
	}
	return rgb
}

// IsBlank reports whether every pixel in buf is the same. Empty and single
// pixel buffers are blank.
func IsBlank(buf []uint32) bool {
	for _, c := range buf {
		if c != buf[0] {
			return false
		}
	}
	return true
}
