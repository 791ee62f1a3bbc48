package record

import (
	"encoding/binary"
	"fmt"
)

// Writer writes big-endian scalars into a preallocated buffer, advancing Off.
type Writer struct {
	Buf []byte
	Off int
}

func NewWriter(buf []byte) *Writer {
	return &Writer{Buf: buf}
}

// Remaining returns the number of bytes left after the cursor.
func (w *Writer) Remaining() int {
	return max(len(w.Buf)-w.Off, 0)
}

// WriteScalar writes the low size bytes of v in two's complement. The cursor
// advances by size even when an error is returned, which keeps the layout in
// sync with Length. Out-of-range values are written truncated and reported.
func (w *Writer) WriteScalar(v int64, size int, signed bool) error {
	if size < 0 {
		return fmt.Errorf("%w: %d", ErrUnsupportedSize, size)
	}
	off := w.Off
	w.Off += size
	if !IsSupportedSize(size) {
		return fmt.Errorf("%w: %d", ErrUnsupportedSize, size)
	}
	if off+size > len(w.Buf) {
		return fmt.Errorf("%w: need %d bytes at %d, have %d", ErrShortBuffer, size, off, len(w.Buf))
	}
	putBigEndian(w.Buf[off:off+size], uint64(v))
	if !fits(v, size, signed) {
		return fmt.Errorf("%w: %d does not fit %s", ErrOutOfRange, v, describeScalar(size, signed))
	}
	return nil
}

func (w *Writer) WriteUint16(v uint16) error { return w.WriteScalar(int64(v), 2, false) }
func (w *Writer) WriteUint32(v uint32) error { return w.WriteScalar(int64(v), 4, false) }
func (w *Writer) WriteInt32(v int32) error   { return w.WriteScalar(int64(v), 4, true) }

func putBigEndian(b []byte, v uint64) {
	switch len(b) {
	case 1:
		b[0] = byte(v)
	case 2:
		binary.BigEndian.PutUint16(b, uint16(v))
	case 4:
		binary.BigEndian.PutUint32(b, uint32(v))
	case 8:
		binary.BigEndian.PutUint64(b, v)
	}
}

func fits(v int64, size int, signed bool) bool {
	if size == 8 {
		// int64 covers int64 and, via SetUint, uint64 bit patterns
		return true
	}
	bits := uint(size * 8)
	if signed {
		lim := int64(1) << (bits - 1)
		return v >= -lim && v < lim
	}
	return v >= 0 && uint64(v) < uint64(1)<<bits
}

func describeScalar(size int, signed bool) string {
	if signed {
		return fmt.Sprintf("int%d", size*8)
	}
	return fmt.Sprintf("uint%d", size*8)
}
