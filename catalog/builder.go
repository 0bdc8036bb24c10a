package catalog

import (
	"github.com/bodgit/hdpack/bitmap"
	"github.com/bodgit/hdpack/condition"
	"github.com/bodgit/hdpack/tile"
	"github.com/pkg/errors"
)

var (
	errBuilt            = errors.New("catalog: builder already built")
	errBadScale         = errors.New("catalog: scale must be at least 1")
	errUnknownBitmap    = errors.New("catalog: unknown bitmap")
	errUnknownCondition = errors.New("catalog: unknown condition")
)

// Builder assembles a Catalog. Tiles are indexed as they are added, in
// order, and nothing can be added once Build has been called.
type Builder struct {
	c     *Catalog
	names map[string]ConditionID
}

// NewBuilder returns a Builder for an empty Catalog with a scale of 1.
func NewBuilder() *Builder {
	return &Builder{
		c: &Catalog{
			scale: 1,
			index: make(map[uint32][]bucket),
		},
		names: make(map[string]ConditionID),
	}
}

// SetVersion records the pack format version.
func (b *Builder) SetVersion(v int) error {
	if b.c == nil {
		return errBuilt
	}
	b.c.version = v
	return nil
}

// SetScale sets the size multiplier of replacement tiles. It must be called
// before any tiles are added.
func (b *Builder) SetScale(s int) error {
	if b.c == nil {
		return errBuilt
	}
	if s < 1 {
		return errBadScale
	}
	b.c.scale = s
	return nil
}

// SetOptions adds to the pack-wide flags.
func (b *Builder) SetOptions(o Option) error {
	if b.c == nil {
		return errBuilt
	}
	b.c.options |= o
	return nil
}

// SetPalette records the colour table override. Any length is accepted but
// only a full 64 color table is ever installed.
func (b *Builder) SetPalette(colors []uint32) error {
	if b.c == nil {
		return errBuilt
	}
	b.c.palette = append([]uint32(nil), colors...)
	return nil
}

// AddBitmap adds a decoded bitmap and returns its id.
func (b *Builder) AddBitmap(bm *bitmap.Bitmap) (BitmapID, error) {
	if b.c == nil {
		return 0, errBuilt
	}
	b.c.bitmaps = append(b.c.bitmaps, bm)
	return BitmapID(len(b.c.bitmaps) - 1), nil
}

// Bitmaps returns the number of bitmaps added so far.
func (b *Builder) Bitmaps() int {
	if b.c == nil {
		return 0
	}
	return len(b.c.bitmaps)
}

// AddBackgroundBitmap adds a decoded background image and returns its id.
// Images are shared by name.
func (b *Builder) AddBackgroundBitmap(bm *bitmap.Bitmap) (BitmapID, error) {
	if b.c == nil {
		return 0, errBuilt
	}
	if id, ok := b.BackgroundBitmapByName(bm.Name); ok {
		return id, nil
	}
	b.c.screens = append(b.c.screens, bm)
	return BitmapID(len(b.c.screens) - 1), nil
}

// BackgroundBitmapByName returns the id of an already added background image.
func (b *Builder) BackgroundBitmapByName(name string) (BitmapID, bool) {
	if b.c == nil {
		return 0, false
	}
	for i, s := range b.c.screens {
		if s.Name == name {
			return BitmapID(i), true
		}
	}
	return 0, false
}

// AddCondition adds a condition and returns its id. Names must be unique.
func (b *Builder) AddCondition(c condition.Condition) (ConditionID, error) {
	if b.c == nil {
		return 0, errBuilt
	}
	if _, ok := b.names[c.Name]; ok {
		return 0, errors.Errorf("catalog: duplicate condition %q", c.Name)
	}
	b.c.conditions = append(b.c.conditions, c)
	id := ConditionID(len(b.c.conditions) - 1)
	b.names[c.Name] = id
	return id, nil
}

// ConditionByName returns the id of the condition called name.
func (b *Builder) ConditionByName(name string) (ConditionID, bool) {
	if b.c == nil {
		return 0, false
	}
	id, ok := b.names[name]
	return id, ok
}

func (b *Builder) checkRefs(bm BitmapID, bitmaps []*bitmap.Bitmap, conditions []ConditionID) error {
	if bm < 0 || int(bm) >= len(bitmaps) {
		return errUnknownBitmap
	}
	for _, id := range conditions {
		if id < 0 || int(id) >= len(b.c.conditions) {
			return errUnknownCondition
		}
	}
	return nil
}

func (b *Builder) insert(key tile.Key, id int) {
	h := key.Hash()
	buckets := b.c.index[h]
	for i := range buckets {
		if buckets[i].key.Equal(key) {
			buckets[i].tiles = append(buckets[i].tiles, id)
			return
		}
	}
	b.c.index[h] = append(buckets, bucket{key: key, tiles: []int{id}})
}

// AddTile adds a replacement tile after its key's existing candidates. The
// replacement pixels are cut out of the tile's bitmap and checked for
// blankness here. Default tiles are also indexed under the palette-agnostic
// key.
func (b *Builder) AddTile(t Tile) error {
	if b.c == nil {
		return errBuilt
	}
	if err := b.checkRefs(t.Bitmap, b.c.bitmaps, t.Conditions); err != nil {
		return err
	}

	size := tile.Size * b.c.scale
	px, err := b.c.bitmaps[t.Bitmap].Tile(int(t.X), int(t.Y), size)
	if err != nil {
		return err
	}
	t.Pixels = px
	t.Blank = tile.IsBlank(px)

	b.c.tiles = append(b.c.tiles, t)
	id := len(b.c.tiles) - 1

	b.insert(t.Key, id)
	if t.Default && t.PaletteColors != tile.DefaultPalette {
		b.insert(t.WithDefaultPalette(), id)
	}
	return nil
}

// AddBackground adds a whole screen replacement.
func (b *Builder) AddBackground(bg Background) error {
	if b.c == nil {
		return errBuilt
	}
	if err := b.checkRefs(bg.Bitmap, b.c.screens, bg.Conditions); err != nil {
		return err
	}
	b.c.backgrounds = append(b.c.backgrounds, bg)
	return nil
}

// Build returns the finished Catalog. The Builder cannot be used afterwards.
func (b *Builder) Build() (*Catalog, error) {
	if b.c == nil {
		return nil, errBuilt
	}
	c := b.c
	b.c = nil
	b.names = nil
	return c, nil
}
