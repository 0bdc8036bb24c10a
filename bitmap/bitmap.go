/*
Package bitmap holds the decoded images a pack draws its replacement tiles
and backgrounds from.

Pixels are stored row-major as 0xAARRGGBB so that a rectangle cut out of a
bitmap can be handed straight to the renderer. Decoding goes through the
standard image registry so callers choose which formats are available by
importing the decoders they need.
*/
package bitmap

// Bitmap is a decoded image.
type Bitmap struct {
	Name   string
	Width  int
	Height int
	Pixels []uint32
}

// At returns the pixel at (x, y).
func (b *Bitmap) At(x, y int) uint32 {
	return b.Pixels[y*b.Width+x]
}
