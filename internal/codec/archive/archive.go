// Package archive builds and reads the minimal ZIP container used for
// swatch bundles: exactly one member, stored without compression.
//
// Layout, in order:
//   - local file header + file name + payload
//   - central directory header + file name
//   - end of central directory record
//
// All multi-byte ZIP fields are little-endian.
package archive

import (
	"errors"
	"fmt"
	"math"
	"time"

	"opalite-go/internal/codec/bytebuf"
)

const (
	localHeaderSignature   = 0x04034b50 // PK\x03\x04
	centralHeaderSignature = 0x02014b50 // PK\x01\x02
	endOfCentralSignature  = 0x06054b50 // PK\x05\x06

	localHeaderLen   = 30
	centralHeaderLen = 46
	endOfCentralLen  = 22

	zipVersion   = 20
	methodStored = 0
)

var (
	ErrNotArchive       = errors.New("not a zip archive")
	ErrUnsupported      = errors.New("unsupported zip layout")
	ErrChecksumMismatch = errors.New("zip entry checksum mismatch")
	ErrTooLarge         = errors.New("zip entry too large")
)

// Entry is the single member of an archive.
type Entry struct {
	Name     string
	Modified time.Time // DOS resolution, no time zone
	CRC32    uint32
	Data     []byte
}

// Wrap returns a single-entry, store-only ZIP archive holding payload under name.
// modified is packed as a DOS timestamp.
func Wrap(name string, payload []byte, modified time.Time) ([]byte, error) {
	if len(name) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: name is %d bytes", ErrTooLarge, len(name))
	}
	if uint64(len(payload)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: payload is %d bytes", ErrTooLarge, len(payload))
	}

	date, clock := bytebuf.DOSDateTime(modified)
	crc := bytebuf.CRC32(payload)
	size := uint32(len(payload))
	nameLen := uint16(len(name))

	w := bytebuf.NewWriter(localHeaderLen + centralHeaderLen + endOfCentralLen + 2*len(name) + len(payload))

	// Local file header.
	w.WriteU32LE(localHeaderSignature)
	w.WriteU16LE(zipVersion) // version needed
	w.WriteU16LE(0)          // flags
	w.WriteU16LE(methodStored)
	w.WriteU16LE(clock)
	w.WriteU16LE(date)
	w.WriteU32LE(crc)
	w.WriteU32LE(size) // compressed
	w.WriteU32LE(size) // uncompressed
	w.WriteU16LE(nameLen)
	w.WriteU16LE(0) // extra
	w.WriteString(name)
	w.WriteBytes(payload)

	centralOffset := w.Len()

	// Central directory header.
	w.WriteU32LE(centralHeaderSignature)
	w.WriteU16LE(zipVersion) // version made by
	w.WriteU16LE(zipVersion) // version needed
	w.WriteU16LE(0)
	w.WriteU16LE(methodStored)
	w.WriteU16LE(clock)
	w.WriteU16LE(date)
	w.WriteU32LE(crc)
	w.WriteU32LE(size)
	w.WriteU32LE(size)
	w.WriteU16LE(nameLen)
	w.WriteU16LE(0) // extra
	w.WriteU16LE(0) // comment
	w.WriteU16LE(0) // disk number start
	w.WriteU16LE(0) // internal attributes
	w.WriteU32LE(0) // external attributes
	w.WriteU32LE(0) // local header offset
	w.WriteString(name)

	centralSize := w.Len() - centralOffset
	if uint64(w.Len()) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: archive exceeds 4 GiB", ErrTooLarge)
	}

	// End of central directory.
	w.WriteU32LE(endOfCentralSignature)
	w.WriteU16LE(0) // this disk
	w.WriteU16LE(0) // disk with central directory
	w.WriteU16LE(1) // entries on this disk
	w.WriteU16LE(1) // total entries
	w.WriteU32LE(uint32(centralSize))
	w.WriteU32LE(uint32(centralOffset))
	w.WriteU16LE(0) // comment

	return w.Bytes(), nil
}
