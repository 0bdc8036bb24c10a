package pack

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bodgit/hdpack/catalog"
	"github.com/bodgit/hdpack/condition"
	"github.com/bodgit/hdpack/palette"
)

func formatHex32(v uint32) string {
	return fmt.Sprintf("%08X", v)
}

func formatBrightness(b uint8) string {
	return strconv.FormatFloat(float64(b)/0xff, 'g', -1, 64)
}

func formatYesNo(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}

func formatConditions(c *catalog.Catalog, ids []catalog.ConditionID) string {
	if len(ids) == 0 {
		return ""
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, c.Condition(id).Name)
	}
	return "[" + strings.Join(names, "&") + "]"
}

// FormatCondition returns the definition record for c.
func FormatCondition(c *condition.Condition) string {
	var target string
	if c.TileIndex >= 0 {
		target = strconv.Itoa(int(c.TileIndex))
	} else {
		target = fmt.Sprintf("%X", c.TileData[:])
	}
	return fmt.Sprintf("<%s>%s,%s,%d,%d,%s,%s", tagCondition, c.Name, c.Kind, c.X, c.Y, target, formatHex32(c.PaletteColors))
}

// FormatTile returns the definition record for t, which must belong to c.
func FormatTile(c *catalog.Catalog, t *catalog.Tile) string {
	var b strings.Builder
	b.WriteString(formatConditions(c, t.Conditions))
	fmt.Fprintf(&b, "<%s>%d,", tagTile, t.Bitmap)
	if t.ChrRAM {
		fmt.Fprintf(&b, "%X", t.Data[:])
	} else {
		fmt.Fprintf(&b, "%d", t.Index)
	}
	fmt.Fprintf(&b, ",%s,%d,%d,%s,%s", formatHex32(t.PaletteColors), t.X, t.Y, formatBrightness(t.Brightness), formatYesNo(t.Default))
	if t.ChrRAM {
		fmt.Fprintf(&b, ",%d,%d", t.ChrBank, t.Index)
	}
	return b.String()
}

// FormatBackground returns the definition record for bg, which must belong
// to c.
func FormatBackground(c *catalog.Catalog, bg *catalog.Background) string {
	return fmt.Sprintf("%s<%s>%s,%s", formatConditions(c, bg.Conditions), tagBackground, c.BackgroundBitmap(bg.Bitmap).Name, formatBrightness(bg.Brightness))
}

// Write writes a definition file for c to w. Parsing the output yields an
// equivalent Catalog given the same images.
func Write(w io.Writer, c *catalog.Catalog) error {
	bw := bufio.NewWriter(w)

	if c.Version() != 0 {
		fmt.Fprintf(bw, "<%s>%d\n", tagVersion, c.Version())
	}
	fmt.Fprintf(bw, "<%s>%d\n", tagScale, c.Scale())
	if c.Options()&catalog.OptionNoSpriteLimit != 0 {
		fmt.Fprintf(bw, "<%s>%s\n", tagOptions, optionNoSpriteLimit)
	}
	if t, ok := c.Palette(); ok {
		fmt.Fprintf(bw, "<%s>%s\n", tagPalette, palette.Format(t[:]))
	}
	for _, bm := range c.Bitmaps() {
		fmt.Fprintf(bw, "<%s>%s\n", tagImage, bm.Name)
	}
	for i := range c.Conditions() {
		fmt.Fprintln(bw, FormatCondition(&c.Conditions()[i]))
	}
	for i := range c.Tiles() {
		fmt.Fprintln(bw, FormatTile(c, &c.Tiles()[i]))
	}
	for i := range c.Backgrounds() {
		fmt.Fprintln(bw, FormatBackground(c, &c.Backgrounds()[i]))
	}

	return bw.Flush()
}
