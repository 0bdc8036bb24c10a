/*
Package palette models the renderer's global 64 entry colour table.

Entries are stored as 0xAARRGGBB. The table is owned by the renderer; a loaded
pack may override it while it is active and must put the previous contents
back when it is unloaded.
*/
package palette

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Size is the number of entries in a colour table.
const Size = 0x40

var errBadLength = errors.New("palette: expected 64 colors")

// Table is a full colour table.
type Table [Size]uint32

// Accessor reads and replaces the renderer's active colour table.
type Accessor interface {
	Get() Table
	Set(Table)
}

// Default is the stock 2C02 colour table.
var Default = Table{
	0xff666666, 0xff002a88, 0xff1412a7, 0xff3b00a4, 0xff5c007e, 0xff6e0040, 0xff6c0600, 0xff561d00,
	0xff333500, 0xff0b4800, 0xff005200, 0xff004f08, 0xff00404d, 0xff000000, 0xff000000, 0xff000000,
	0xffadadad, 0xff155fd9, 0xff4240ff, 0xff7527fe, 0xffa01acc, 0xffb71e7b, 0xffb53120, 0xff994e00,
	0xff6b6d00, 0xff388700, 0xff0c9300, 0xff008f32, 0xff007c8d, 0xff000000, 0xff000000, 0xff000000,
	0xfffffeff, 0xff64b0ff, 0xff9290ff, 0xffc676ff, 0xfff36aff, 0xfffe6ecc, 0xfffe8170, 0xffea9e22,
	0xffbcbe00, 0xff88d800, 0xff5ce430, 0xff45e082, 0xff48cdde, 0xff4f4f4f, 0xff000000, 0xff000000,
	0xfffffeff, 0xffc0dfff, 0xffd3d2ff, 0xffe8c8ff, 0xfffbc2ff, 0xfffec4ea, 0xfffeccc5, 0xfff7d8a5,
	0xffe4e594, 0xffcfef96, 0xffbdf4ab, 0xffb3f3cc, 0xffb5ebf2, 0xffb8b8b8, 0xff000000, 0xff000000,
}

// Store is a goroutine safe Accessor holding a single table.
type Store struct {
	mu    sync.RWMutex
	table Table
}

// NewStore returns a Store initialised with t.
func NewStore(t Table) *Store {
	return &Store{table: t}
}

// Get returns a copy of the current table.
func (s *Store) Get() Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

// Set replaces the current table.
func (s *Store) Set(t Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = t
}

// RGBA returns entry i as a color.RGBA.
func (t *Table) RGBA(i int) color.RGBA {
	c := t[i&(Size-1)]
	return color.RGBA{byte(c >> 16), byte(c >> 8), byte(c), byte(c >> 24)}
}

// FromSlice converts a slice of colors into a Table. It fails unless exactly
// 64 colors are supplied.
func FromSlice(colors []uint32) (Table, error) {
	var t Table
	if len(colors) != Size {
		return t, errBadLength
	}
	copy(t[:], colors)
	return t, nil
}

// Parse reads a comma separated list of 64 RRGGBB hex colors. Alpha is forced
// to opaque.
func Parse(s string) ([]uint32, error) {
	fields := strings.Split(s, ",")
	if len(fields) != Size {
		return nil, errBadLength
	}
	colors := make([]uint32, 0, Size)
	for _, f := range fields {
		v, err := strconv.ParseUint(strings.TrimSpace(f), 16, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "palette: bad color %q", f)
		}
		colors = append(colors, uint32(v)|0xff000000)
	}
	return colors, nil
}

// Format is the inverse of Parse.
func Format(colors []uint32) string {
	var b strings.Builder
	for i, c := range colors {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%06X", c&0xffffff)
	}
	return b.String()
}
