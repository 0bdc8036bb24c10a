package bitmap

import (
	"errors"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
)

var (
	errOutOfBounds = errors.New("bitmap: rectangle outside image")
	errBadSize     = errors.New("bitmap: invalid rectangle size")
)

func argb(c color.Color) uint32 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return uint32(n.A)<<24 | uint32(n.R)<<16 | uint32(n.G)<<8 | uint32(n.B)
}

// FromImage converts m into a Bitmap.
func FromImage(name string, m image.Image) *Bitmap {
	r := m.Bounds()
	b := &Bitmap{
		Name:   name,
		Width:  r.Dx(),
		Height: r.Dy(),
		Pixels: make([]uint32, 0, r.Dx()*r.Dy()),
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			b.Pixels = append(b.Pixels, argb(m.At(x, y)))
		}
	}
	return b
}

// Decode reads an image in any registered format from r.
func Decode(name string, r io.Reader) (*Bitmap, error) {
	m, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return FromImage(name, m), nil
}

// Open decodes the image file at path. The Bitmap is named after the base
// name of the file.
func Open(path string) (*Bitmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(filepath.Base(path), f)
}

// Tile returns a copy of the size by size square with its top-left corner at
// (x, y).
func (b *Bitmap) Tile(x, y, size int) ([]uint32, error) {
	if size <= 0 {
		return nil, errBadSize
	}
	if x < 0 || y < 0 || x+size > b.Width || y+size > b.Height {
		return nil, errOutOfBounds
	}

	out := make([]uint32, 0, size*size)
	for row := y; row < y+size; row++ {
		i := row*b.Width + x
		out = append(out, b.Pixels[i:i+size]...)
	}
	return out, nil
}
