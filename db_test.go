package hdpack

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDB(t *testing.T) {
	file := filepath.Join(t.TempDir(), "hdpack.db")

	db, err := NewDB(file)
	require.NoError(t, err)

	dir, err := db.FindPackByCRC("DEADBEEF")
	require.NoError(t, err)
	assert.Equal(t, "", dir)

	a, b := t.TempDir(), t.TempDir()
	require.NoError(t, db.Register("deadbeef", a))
	require.NoError(t, db.Register("1234", a))
	require.NoError(t, db.Register("CAFEF00D", b))

	dir, err = db.FindPackByCRC("DEADBEEF")
	require.NoError(t, err)
	assert.Equal(t, a, dir)

	dir, err = db.FindPackByCRC("00001234")
	require.NoError(t, err)
	assert.Equal(t, a, dir)

	// Re-registering moves the checksum
	require.NoError(t, db.Register("DEADBEEF", b))
	dir, err = db.FindPackByCRC("deadbeef")
	require.NoError(t, err)
	assert.Equal(t, b, dir)

	require.NoError(t, db.Close())

	// Registrations persist
	db, err = NewDB(file)
	require.NoError(t, err)
	defer db.Close()

	packs, err := db.Packs()
	require.NoError(t, err)
	want := map[string][]string{
		a: {"00001234"},
		b: {"CAFEF00D", "DEADBEEF"},
	}
	require.Len(t, packs, 2)
	for _, p := range packs {
		assert.Equal(t, want[p.Dir], p.Checksums, p.Dir)
	}
}

func TestDBBadChecksum(t *testing.T) {
	db, err := NewDB(filepath.Join(t.TempDir(), "hdpack.db"))
	require.NoError(t, err)
	defer db.Close()

	for _, crc := range []string{"", "XYZ", "123456789"} {
		assert.Error(t, db.Register(crc, t.TempDir()), crc)
		_, err := db.FindPackByCRC(crc)
		assert.Error(t, err, crc)
	}
}
