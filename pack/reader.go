package pack

import (
	"bufio"
	"context"
	"encoding/hex"
	"io"
	"io/ioutil"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/bodgit/hdpack/catalog"
	"github.com/bodgit/hdpack/condition"
	"github.com/bodgit/hdpack/palette"
	"github.com/bodgit/hdpack/tile"
	"github.com/pkg/errors"
)

const (
	tagVersion    = "ver"
	tagScale      = "scale"
	tagImage      = "img"
	tagPalette    = "palette"
	tagOptions    = "options"
	tagCondition  = "condition"
	tagTile       = "tile"
	tagBackground = "background"

	optionNoSpriteLimit = "disableSpriteLimit"

	conditionFields  = 6
	tileFields       = 7
	chrRAMTileFields = 9
)

var (
	errNoOpener         = errors.New("no image opener")
	errMissingBracket   = errors.New("unterminated condition list")
	errMissingTag       = errors.New("missing record tag")
	errUnexpectedPrefix = errors.New("conditions not allowed on this record")
	errEmptyName        = errors.New("empty name")
)

// Parser turns a definition file into a Catalog.
type Parser struct {
	// File names the input in errors.
	File string

	// Open decodes the images referenced by img and background records.
	Open OpenFunc

	// Logger receives notices about records that are skipped.
	Logger *log.Logger
}

type record struct {
	conditions []string
	tag        string
	fields     []string
	value      string
}

func splitRecord(line string) (*record, error) {
	r := new(record)
	if strings.HasPrefix(line, "[") {
		end := strings.IndexByte(line, ']')
		if end < 0 {
			return nil, errMissingBracket
		}
		r.conditions = strings.Split(line[1:end], "&")
		line = line[end+1:]
	}
	if !strings.HasPrefix(line, "<") {
		return nil, errMissingTag
	}
	end := strings.IndexByte(line, '>')
	if end < 0 {
		return nil, errMissingTag
	}
	r.tag = line[1:end]
	r.value = strings.TrimSpace(line[end+1:])
	r.fields = strings.Split(r.value, ",")
	for i := range r.fields {
		r.fields[i] = strings.TrimSpace(r.fields[i])
	}
	return r, nil
}

func parseHex32(s string) (uint32, error) {
	t := strings.TrimPrefix(strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X"), "$")
	if len(t) == 0 || len(t) > 8 {
		return 0, errors.Errorf("bad palette %q", s)
	}
	v, err := strconv.ParseUint(t, 16, 32)
	if err != nil {
		return 0, errors.Errorf("bad palette %q", s)
	}
	return uint32(v), nil
}

func isTileData(s string) bool {
	return len(s) == tile.DataSize*2
}

func parseTileData(s string) ([tile.DataSize]byte, error) {
	var b [tile.DataSize]byte
	if !isTileData(s) {
		return b, errors.Errorf("bad tile data %q", s)
	}
	if _, err := hex.Decode(b[:], []byte(s)); err != nil {
		return b, errors.Wrapf(err, "bad tile data %q", s)
	}
	return b, nil
}

func parseInt32(s, what string) (int32, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, errors.Errorf("bad %s %q", what, s)
	}
	return int32(v), nil
}

func parseUint32(s, what string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, errors.Errorf("bad %s %q", what, s)
	}
	return uint32(v), nil
}

func parseBrightness(s string) (uint8, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !(f >= 0 && f <= 1) {
		return 0, errors.Errorf("bad brightness %q", s)
	}
	return uint8(math.Round(f * 0xff)), nil
}

func parseYesNo(s string) (bool, error) {
	switch s {
	case "Y":
		return true, nil
	case "N":
		return false, nil
	}
	return false, errors.Errorf("bad flag %q", s)
}

func checkName(s string) error {
	if s == "" {
		return errEmptyName
	}
	if strings.ContainsAny(s, "[]&,<>") {
		return errors.Errorf("bad name %q", s)
	}
	return nil
}

// ParseCondition parses the fields of a condition record.
func ParseCondition(fields []string) (condition.Condition, error) {
	var c condition.Condition
	if len(fields) != conditionFields {
		return c, errors.Errorf("condition needs %d fields, got %d", conditionFields, len(fields))
	}

	var err error
	c.Name = fields[0]
	if err = checkName(c.Name); err != nil {
		return c, err
	}
	if c.Kind, err = condition.ParseKind(fields[1]); err != nil {
		return c, errors.Wrapf(err, "%q", fields[1])
	}
	if c.X, err = parseInt32(fields[2], "x"); err != nil {
		return c, err
	}
	if c.Y, err = parseInt32(fields[3], "y"); err != nil {
		return c, err
	}
	if isTileData(fields[4]) {
		c.TileIndex = -1
		if c.TileData, err = parseTileData(fields[4]); err != nil {
			return c, err
		}
	} else {
		if c.TileIndex, err = parseInt32(fields[4], "tile index"); err != nil {
			return c, err
		}
		if c.TileIndex < 0 {
			return c, errors.Errorf("bad tile index %q", fields[4])
		}
	}
	if c.PaletteColors, err = parseHex32(fields[5]); err != nil {
		return c, err
	}
	return c, nil
}

// ParseTile parses the fields of a tile record. The returned Tile has no
// conditions and no pixels.
func ParseTile(fields []string) (catalog.Tile, error) {
	var t catalog.Tile
	if len(fields) < tileFields {
		return t, errors.Errorf("tile needs at least %d fields, got %d", tileFields, len(fields))
	}

	bm, err := parseUint32(fields[0], "bitmap index")
	if err != nil {
		return t, err
	}
	t.Bitmap = catalog.BitmapID(bm)

	if isTileData(fields[1]) {
		if len(fields) > chrRAMTileFields {
			return t, errors.Errorf("tile has too many fields, got %d", len(fields))
		}
		t.ChrRAM = true
		t.Index = tile.NoIndex
		if t.Data, err = parseTileData(fields[1]); err != nil {
			return t, err
		}
		if len(fields) > tileFields {
			if t.ChrBank, err = parseUint32(fields[tileFields], "chr bank"); err != nil {
				return t, err
			}
		}
		if len(fields) > tileFields+1 {
			if t.Index, err = parseUint32(fields[tileFields+1], "tile index"); err != nil {
				return t, err
			}
		}
	} else {
		if len(fields) > tileFields {
			return t, errors.Errorf("tile has too many fields, got %d", len(fields))
		}
		if t.Index, err = parseUint32(fields[1], "tile index"); err != nil {
			return t, err
		}
	}

	if t.PaletteColors, err = parseHex32(fields[2]); err != nil {
		return t, err
	}
	if t.X, err = parseUint32(fields[3], "x"); err != nil {
		return t, err
	}
	if t.Y, err = parseUint32(fields[4], "y"); err != nil {
		return t, err
	}
	if t.Brightness, err = parseBrightness(fields[5]); err != nil {
		return t, err
	}
	if t.Default, err = parseYesNo(fields[6]); err != nil {
		return t, err
	}
	return t, nil
}

func (p *Parser) logger() *log.Logger {
	if p.Logger == nil {
		return log.New(ioutil.Discard, "", 0)
	}
	return p.Logger
}

func (p *Parser) checkOpener() error {
	if p.Open == nil {
		return errNoOpener
	}
	return nil
}

func (p *Parser) conditions(b *catalog.Builder, names []string) ([]catalog.ConditionID, error) {
	if len(names) == 0 {
		return nil, nil
	}
	ids := make([]catalog.ConditionID, 0, len(names))
	for _, name := range names {
		id, ok := b.ConditionByName(strings.TrimSpace(name))
		if !ok {
			return nil, errors.Errorf("unknown condition %q", name)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (p *Parser) record(b *catalog.Builder, r *record) error {
	if len(r.conditions) > 0 && r.tag != tagTile && r.tag != tagBackground {
		return errUnexpectedPrefix
	}

	switch r.tag {
	case tagVersion:
		v, err := strconv.Atoi(r.value)
		if err != nil {
			return errors.Errorf("bad version %q", r.value)
		}
		return b.SetVersion(v)
	case tagScale:
		s, err := strconv.Atoi(r.value)
		if err != nil {
			return errors.Errorf("bad scale %q", r.value)
		}
		return b.SetScale(s)
	case tagImage:
		if err := checkImageName(r.value); err != nil {
			return err
		}
		if err := p.checkOpener(); err != nil {
			return err
		}
		bm, err := p.Open(r.value)
		if err != nil {
			return errors.Wrapf(err, "image %q", r.value)
		}
		bm.Name = r.value
		if _, err := b.AddBitmap(bm); err != nil {
			return err
		}
	case tagPalette:
		colors, err := palette.Parse(r.value)
		if err != nil {
			return err
		}
		return b.SetPalette(colors)
	case tagOptions:
		for _, o := range r.fields {
			switch o {
			case optionNoSpriteLimit:
				if err := b.SetOptions(catalog.OptionNoSpriteLimit); err != nil {
					return err
				}
			default:
				p.logger().Printf("%s: ignoring unknown option %q\n", p.File, o)
			}
		}
	case tagCondition:
		c, err := ParseCondition(r.fields)
		if err != nil {
			return err
		}
		if _, err := b.AddCondition(c); err != nil {
			return err
		}
	case tagTile:
		t, err := ParseTile(r.fields)
		if err != nil {
			return err
		}
		if t.Conditions, err = p.conditions(b, r.conditions); err != nil {
			return err
		}
		if err := b.AddTile(t); err != nil {
			return errors.Wrapf(err, "bitmap %d", t.Bitmap)
		}
	case tagBackground:
		return p.background(b, r)
	default:
		p.logger().Printf("%s: ignoring unknown record <%s>\n", p.File, r.tag)
	}
	return nil
}

func checkImageName(s string) error {
	if s == "" {
		return errEmptyName
	}
	if strings.ContainsAny(s, ",") {
		return errors.Errorf("bad image name %q", s)
	}
	return nil
}

func (p *Parser) background(b *catalog.Builder, r *record) error {
	if len(r.fields) < 1 || len(r.fields) > 2 {
		return errors.Errorf("background needs 1 or 2 fields, got %d", len(r.fields))
	}

	var err error
	bg := catalog.Background{Brightness: 0xff}

	name := r.fields[0]
	if err = checkImageName(name); err != nil {
		return err
	}
	if len(r.fields) == 2 {
		if bg.Brightness, err = parseBrightness(r.fields[1]); err != nil {
			return err
		}
	}
	if bg.Conditions, err = p.conditions(b, r.conditions); err != nil {
		return err
	}

	id, ok := b.BackgroundBitmapByName(name)
	if !ok {
		if err = p.checkOpener(); err != nil {
			return err
		}
		bm, err := p.Open(name)
		if err != nil {
			return errors.Wrapf(err, "background %q", name)
		}
		bm.Name = name
		if id, err = b.AddBackgroundBitmap(bm); err != nil {
			return err
		}
	}
	bg.Bitmap = id

	return b.AddBackground(bg)
}

// Parse reads a definition file from r. Nothing is returned unless every
// record loads; the first failure is returned as a *LoadError.
func (p *Parser) Parse(ctx context.Context, r io.Reader) (*catalog.Catalog, error) {
	b := catalog.NewBuilder()

	s := bufio.NewScanner(r)
	for n := 1; s.Scan(); n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		rec, err := splitRecord(line)
		if err == nil {
			err = p.record(b, rec)
		}
		if err != nil {
			return nil, &LoadError{File: p.File, Line: n, Err: err}
		}
	}
	if err := s.Err(); err != nil {
		return nil, &LoadError{File: p.File, Err: err}
	}

	c, err := b.Build()
	if err != nil {
		return nil, &LoadError{File: p.File, Err: err}
	}
	p.logger().Printf("%s: loaded %d tiles, %d conditions, %d backgrounds\n", p.File, len(c.Tiles()), len(c.Conditions()), len(c.Backgrounds()))
	return c, nil
}
