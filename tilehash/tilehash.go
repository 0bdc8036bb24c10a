/*
Package tilehash implements the 32-bit hash used to index native tiles.

Input is consumed as little-endian 32-bit words. Each word is added to the
accumulator which is then rotated left by two bits. It is fast and spreads
tile keys well across a table but it is not collision resistant so any table
built on it must compare keys in full.
*/
package tilehash

import (
	"encoding/binary"
	"hash"
	"math/bits"
)

// Size of a tilehash checksum in bytes.
const Size = 4

type digest struct {
	sum uint32
	buf [Size]byte
	n   int
}

// New creates a new hash.Hash32 computing the tile hash. A trailing partial
// word is zero padded when the sum is read. Its Sum method will lay the value
// out in big-endian byte order.
func New() hash.Hash32 {
	return &digest{}
}

func (d *digest) Size() int { return Size }

func (d *digest) BlockSize() int { return Size }

func (d *digest) Reset() { *d = digest{} }

func fold(sum uint32, word uint32) uint32 {
	return bits.RotateLeft32(sum+word, 2)
}

func update(sum uint32, p []byte) uint32 {
	for ; len(p) >= Size; p = p[Size:] {
		sum = fold(sum, binary.LittleEndian.Uint32(p))
	}
	if len(p) > 0 {
		var tmp [Size]byte
		copy(tmp[:], p)
		sum = fold(sum, binary.LittleEndian.Uint32(tmp[:]))
	}
	return sum
}

// Update returns the result of adding the bytes in p to the sum. p should be
// a multiple of four bytes long, a short final word is zero padded.
func Update(sum uint32, p []byte) uint32 {
	return update(sum, p)
}

// Words folds whole 32-bit words into sum without going through a byte
// encoding.
func Words(sum uint32, words ...uint32) uint32 {
	for _, w := range words {
		sum = fold(sum, w)
	}
	return sum
}

func (d *digest) Write(p []byte) (n int, err error) {
	n = len(p)
	if d.n > 0 {
		c := copy(d.buf[d.n:], p)
		d.n += c
		p = p[c:]
		if d.n < Size {
			return
		}
		d.sum = fold(d.sum, binary.LittleEndian.Uint32(d.buf[:]))
		d.n = 0
	}
	whole := len(p) &^ (Size - 1)
	d.sum = update(d.sum, p[:whole])
	d.n = copy(d.buf[:], p[whole:])
	return
}

func (d *digest) Sum32() uint32 {
	if d.n == 0 {
		return d.sum
	}
	return update(d.sum, d.buf[:d.n])
}

func (d *digest) Sum(in []byte) []byte {
	s := d.Sum32()
	return append(in, byte(s>>24), byte(s>>16), byte(s>>8), byte(s))
}

// Checksum returns the tile hash of data.
func Checksum(data []byte) uint32 { return Update(0, data) }
