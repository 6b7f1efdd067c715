package bytebuf

import "time"

// crcPolynomial is the reflected IEEE 802.3 polynomial.
const crcPolynomial = 0xEDB88320

// CRC32 computes the IEEE CRC-32 of b one bit at a time, matching the value
// stored in ZIP and PNG headers.
func CRC32(b []byte) uint32 {
	crc := uint32(0xFFFFFFFF)
	for _, c := range b {
		crc ^= uint32(c)
		for range 8 {
			if crc&1 != 0 {
				crc = (crc >> 1) ^ crcPolynomial
			} else {
				crc >>= 1
			}
		}
	}
	return ^crc
}

// DOSDateTime packs t into the 16-bit date and time fields of a ZIP header.
// The year offset is clamped to [0, 127]; seconds have 2-second resolution.
func DOSDateTime(t time.Time) (date uint16, clock uint16) {
	year := t.Year() - 1980
	if year < 0 {
		year = 0
	}
	if year > 127 {
		year = 127
	}
	date = uint16(year)<<9 | uint16(t.Month())<<5 | uint16(t.Day())
	clock = uint16(t.Hour())<<11 | uint16(t.Minute())<<5 | uint16(t.Second()/2)
	return date, clock
}
