/*
Package tile implements native tile identity and decoding.

A native tile is 8 by 8 pixels stored as 16 bytes: eight bytes holding bit 0
of each pixel followed by eight bytes holding bit 1, one byte per row with the
most significant bit being the leftmost pixel. The 2-bit value picks one of
four colors from the palette applied to the tile.
*/
package tile

const (
	tileWidth    = 8
	tileHeight   = tileWidth
	tilePixels   = tileWidth * tileHeight
	planeBytes   = tileHeight
	dataBytes    = planeBytes * 2
	colorsPerSet = 4
)

// Size is the width and height of a native tile in pixels.
const Size = tileWidth

// Pixels is the number of pixels in a decoded native tile.
const Pixels = tilePixels

// DataSize is the size in bytes of a native tile bitmap.
const DataSize = dataBytes
