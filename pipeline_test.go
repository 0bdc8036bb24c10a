package hdpack

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/hdpack/pack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodPack = "<img>tiles.png\n<tile>0,1,00000000,0,0,1,N\n"

func mkdir(t *testing.T, parts ...string) string {
	dir := filepath.Join(parts...)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	return dir
}

func TestValidate(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a", "b", "c/d"} {
		writePack(t, mkdir(t, root, name), goodPack)
	}
	mkdir(t, root, "empty")

	// Hidden directories are skipped
	writePack(t, mkdir(t, root, ".hidden"), "<tile>garbage\n")

	require.NoError(t, Validate(context.Background(), root, 2, nil))
}

func TestValidateError(t *testing.T) {
	root := t.TempDir()
	writePack(t, mkdir(t, root, "good"), goodPack)
	writePack(t, mkdir(t, root, "bad"), goodPack+"<condition>x,tileNowhere,0,0,1,00000000\n")

	err := Validate(context.Background(), root, 4, nil)
	var le *pack.LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, 3, le.Line)
}

func TestValidateCancelled(t *testing.T) {
	root := t.TempDir()
	writePack(t, mkdir(t, root, "a"), goodPack)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, Validate(ctx, root, 1, nil))
}

func TestValidateMissing(t *testing.T) {
	assert.Error(t, Validate(context.Background(), filepath.Join(t.TempDir(), "missing"), 1, nil))
}
