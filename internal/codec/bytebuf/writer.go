// Package bytebuf holds the byte-packing helpers shared by the binary encoders:
// a growable buffer with explicit-endian integer and string writers, the CRC-32
// used by ZIP, and the DOS date/time packing used for archive timestamps.
package bytebuf

import (
	"encoding/binary"
	"math"
	"unicode/utf16"
)

// Writer is an append-only byte buffer. The zero value is ready to use.
type Writer struct {
	buf []byte
}

// NewWriter returns a Writer with room for capacity bytes.
func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

// Bytes returns the written bytes. The slice aliases the buffer until the next write.
func (w *Writer) Bytes() []byte { return w.buf }

// WriteU16BE appends v as two big-endian bytes.
func (w *Writer) WriteU16BE(v uint16) {
	w.buf = binary.BigEndian.AppendUint16(w.buf, v)
}

// WriteU32BE appends v as four big-endian bytes.
func (w *Writer) WriteU32BE(v uint32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
}

// WriteU16LE appends v as two little-endian bytes (ZIP headers).
func (w *Writer) WriteU16LE(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

// WriteU32LE appends v as four little-endian bytes (ZIP headers).
func (w *Writer) WriteU32LE(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

// WriteF32BE appends v as a big-endian IEEE-754 single.
func (w *Writer) WriteF32BE(v float32) {
	w.WriteU32BE(math.Float32bits(v))
}

// WriteUTF16BE appends every UTF-16 code unit of s big-endian, without a BOM.
// Invalid UTF-8 sequences are written as U+FFFD.
func (w *Writer) WriteUTF16BE(s string) {
	for _, unit := range utf16.Encode([]rune(s)) {
		w.WriteU16BE(unit)
	}
}

// WriteBytes appends b verbatim.
func (w *Writer) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteString appends the raw bytes of s.
func (w *Writer) WriteString(s string) {
	w.buf = append(w.buf, s...)
}

// UTF16Len returns the number of UTF-16 code units WriteUTF16BE emits for s.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
