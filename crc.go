package hdpack

import (
	"bytes"
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

const (
	inesHeader  = 16
	inesTrainer = 512
)

var inesMagic = []byte{'N', 'E', 'S', 0x1a}

// CRCFile returns the upper case hex CRC32 of the ROM image in file. The
// iNES header and any trainer are not included.
func CRCFile(file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var header [inesHeader]byte
	n, err := io.ReadFull(f, header[:])
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}

	h := crc32.NewIEEE()
	switch {
	case n == inesHeader && bytes.Equal(header[:len(inesMagic)], inesMagic):
		// Skip the trainer if flags 6 says there is one
		if header[6]&0x04 != 0 {
			if _, err = f.Seek(inesTrainer, io.SeekCurrent); err != nil {
				return "", err
			}
		}
	default:
		h.Write(header[:n])
	}

	if _, err = io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%.*X", crc32.Size<<1, h.Sum(nil)), nil
}
