package tile

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/ericpauley/go-quantize/quantize"
)

var errWrongSize = errors.New("tile: image is wrong size")

type encoder struct {
	w io.Writer
}

func (e *encoder) encode(m *image.Paletted) error {
	var b [DataSize]byte
	for y := 0; y < tileHeight; y++ {
		for x := 0; x < tileWidth; x++ {
			c := m.ColorIndexAt(x, y) & (colorsPerSet - 1)
			b[y] |= (c & 0x01) << uint(7-x)
			b[y+planeBytes] |= (c >> 1 & 0x01) << uint(7-x)
		}
	}
	_, err := e.w.Write(b[:])
	return err
}

// Encode writes the 8 by 8 Image m to w as a native tile bitmap. Images with
// more than four colors are reduced first; the palette order of a paletted
// image decides the color index of each pixel.
func Encode(w io.Writer, m image.Image) error {
	b := m.Bounds()
	if b.Dx() != tileWidth || b.Dy() != tileHeight {
		return errWrongSize
	}

	pm, _ := m.(*image.Paletted)
	if pm == nil {
		if cp, ok := m.ColorModel().(color.Palette); ok {
			pm = image.NewPaletted(b, cp)
			for y := b.Min.Y; y < b.Max.Y; y++ {
				for x := b.Min.X; x < b.Max.X; x++ {
					pm.Set(x, y, cp.Convert(m.At(x, y)))
				}
			}
		}
	}
	if pm == nil || len(pm.Palette) > colorsPerSet {
		q := quantize.MedianCutQuantizer{}
		pm = image.NewPaletted(b, q.Quantize(make(color.Palette, 0, colorsPerSet), m))
		draw.Draw(pm, b, m, b.Min, draw.Src)
	}

	// Adjust image so that top-left corner is at (0, 0)
	if pm.Rect.Min != (image.Point{}) {
		dup := *pm
		dup.Rect = dup.Rect.Sub(dup.Rect.Min)
		pm = &dup
	}

	e := encoder{w: w}

	return e.encode(pm)
}
