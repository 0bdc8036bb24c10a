/*
Package pack reads and writes pack definition files.

A definition file is plain ASCII, one record per line. A record starts with a
tag in angle brackets and carries comma separated fields. Tile and background
records may be prefixed with a bracketed, ampersand separated list of
condition names that must all hold for the record to be used:

	<ver>100
	<scale>2
	<img>tiles.png
	<condition>onTitle,tileAtPosition,16,16,66,0F162738
	[onTitle]<tile>0,66,0F162738,0,0,1,N
	<tile>0,66,0F162738,16,0,1,N
	<background>title.png,0.5

Conditions must be declared before they are referenced and the scale before
any tile. Bitmaps are numbered in the order of their img records.
*/
package pack

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/hdpack/bitmap"
	"github.com/bodgit/hdpack/catalog"
)

// Filename is the name of the definition file within a pack directory.
const Filename = "hires.txt"

// LoadError is returned for any record that cannot be loaded. Line is 1-based
// and zero when the error is not tied to a record.
type LoadError struct {
	File string
	Line int
	Err  error
}

func (e *LoadError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("pack: %s: %v", e.File, e.Err)
	}
	return fmt.Sprintf("pack: %s:%d: %v", e.File, e.Line, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// OpenFunc returns the decoded image referenced by name.
type OpenFunc func(name string) (*bitmap.Bitmap, error)

// DirOpener returns an OpenFunc resolving names relative to dir.
func DirOpener(dir string) OpenFunc {
	return func(name string) (*bitmap.Bitmap, error) {
		return bitmap.Open(filepath.Join(dir, filepath.Clean(name)))
	}
}

// Load parses the definition file in dir, decoding the bitmaps it references
// from the same directory.
func Load(ctx context.Context, dir string, logger *log.Logger) (*catalog.Catalog, error) {
	f, err := os.Open(filepath.Join(dir, Filename))
	if err != nil {
		return nil, &LoadError{File: Filename, Err: err}
	}
	defer f.Close()

	p := &Parser{
		File:   Filename,
		Open:   DirOpener(dir),
		Logger: logger,
	}

	return p.Parse(ctx, f)
}
