package archive

import (
	"encoding/binary"
	"fmt"
	"time"

	"opalite-go/internal/codec/bytebuf"
)

var le = binary.LittleEndian

// Read parses a single-entry, store-only archive as produced by Wrap and
// verifies the entry's sizes and CRC-32. Archives with a trailing comment are
// accepted; multi-entry or compressed archives are not.
func Read(data []byte) (*Entry, error) {
	eocd, err := findEndOfCentral(data)
	if err != nil {
		return nil, err
	}

	entries := le.Uint16(data[eocd+10:])
	if entries != 1 {
		return nil, fmt.Errorf("%w: %d entries", ErrUnsupported, entries)
	}
	cdSize := int(le.Uint32(data[eocd+12:]))
	cdOffset := int(le.Uint32(data[eocd+16:]))
	if cdOffset+cdSize > eocd || cdSize < centralHeaderLen {
		return nil, fmt.Errorf("%w: central directory out of range", ErrNotArchive)
	}

	cd := data[cdOffset:]
	if le.Uint32(cd) != centralHeaderSignature {
		return nil, fmt.Errorf("%w: bad central directory signature", ErrNotArchive)
	}
	method := le.Uint16(cd[10:])
	if method != methodStored {
		return nil, fmt.Errorf("%w: compression method %d", ErrUnsupported, method)
	}
	crc := le.Uint32(cd[16:])
	compressed := le.Uint32(cd[20:])
	uncompressed := le.Uint32(cd[24:])
	if compressed != uncompressed {
		return nil, fmt.Errorf("%w: stored entry sizes differ (%d != %d)", ErrUnsupported, compressed, uncompressed)
	}
	localOffset := int(le.Uint32(cd[42:]))

	if localOffset+localHeaderLen > cdOffset {
		return nil, fmt.Errorf("%w: local header out of range", ErrNotArchive)
	}
	lh := data[localOffset:]
	if le.Uint32(lh) != localHeaderSignature {
		return nil, fmt.Errorf("%w: bad local header signature", ErrNotArchive)
	}
	clock := le.Uint16(lh[10:])
	date := le.Uint16(lh[12:])
	nameLen := int(le.Uint16(lh[26:]))
	extraLen := int(le.Uint16(lh[28:]))

	start := localOffset + localHeaderLen + nameLen + extraLen
	end := start + int(compressed)
	if end > cdOffset {
		return nil, fmt.Errorf("%w: entry data out of range", ErrNotArchive)
	}

	payload := data[start:end]
	if got := bytebuf.CRC32(payload); got != crc {
		return nil, fmt.Errorf("%w: header %#08x, data %#08x", ErrChecksumMismatch, crc, got)
	}

	return &Entry{
		Name:     string(lh[localHeaderLen : localHeaderLen+nameLen]),
		Modified: dosTime(date, clock),
		CRC32:    crc,
		Data:     append([]byte(nil), payload...),
	}, nil
}

// findEndOfCentral returns the offset of the end of central directory record,
// scanning backwards over a possible archive comment.
func findEndOfCentral(data []byte) (int, error) {
	if len(data) < localHeaderLen+centralHeaderLen+endOfCentralLen {
		return 0, fmt.Errorf("%w: %d bytes is too short", ErrNotArchive, len(data))
	}
	if le.Uint32(data) != localHeaderSignature {
		return 0, fmt.Errorf("%w: bad signature", ErrNotArchive)
	}
	lowest := len(data) - endOfCentralLen - 0xFFFF
	if lowest < 0 {
		lowest = 0
	}
	for i := len(data) - endOfCentralLen; i >= lowest; i-- {
		if le.Uint32(data[i:]) == endOfCentralSignature &&
			i+endOfCentralLen+int(le.Uint16(data[i+20:])) == len(data) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: end of central directory not found", ErrNotArchive)
}

func dosTime(date, clock uint16) time.Time {
	return time.Date(
		int(date>>9)+1980,
		time.Month(date>>5&0x0f),
		int(date&0x1f),
		int(clock>>11),
		int(clock>>5&0x3f),
		int(clock&0x1f)*2,
		0,
		time.UTC,
	)
}
