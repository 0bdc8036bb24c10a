package palette

import (
	"image/color"
	"strconv"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	colors := Default[:]
	s := Format(colors)
	assert.True(t, strings.HasPrefix(s, "666666,002A88,"))

	got, err := Parse(s)
	require.NoError(t, err)
	assert.Equal(t, colors, got)

	table, err := FromSlice(got)
	require.NoError(t, err)
	assert.Equal(t, Default, table)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("112233,445566")
	assert.Error(t, err)

	_, err = Parse(strings.Repeat("ZZZZZZ,", Size-1) + "000000")
	assert.Error(t, err)

	_, err = FromSlice(make([]uint32, Size-1))
	assert.Error(t, err)
}

func TestParseBadColor(t *testing.T) {
	colors := strings.Split(Format(Default[:]), ",")
	colors[5] = "GGGGGG"

	_, err := Parse(strings.Join(colors, ","))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"GGGGGG"`)

	var ne *strconv.NumError
	assert.True(t, errors.As(err, &ne))
}

func TestStore(t *testing.T) {
	s := NewStore(Default)
	assert.Equal(t, Default, s.Get())

	var other Table
	other[0] = 0xff123456
	s.Set(other)
	assert.Equal(t, other, s.Get())
	assert.Equal(t, color.RGBA{0x12, 0x34, 0x56, 0xff}, other.RGBA(0))
}
