package sfnt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/bits"

	"github.com/andreyvit/sfnt/record"
)

const (
	// Version is the sfntVersion of TrueType outlines, 1.0 in 16.16 fixed point.
	Version = 0x00010000

	HeaderSize   = 12
	DirEntrySize = 16

	// MaxTables is the largest table count for which numTables*16, and so
	// searchRange and rangeShift, fit the 16-bit header fields.
	MaxTables = math.MaxUint16 / DirEntrySize
)

// ErrTooLarge is returned when a font cannot be represented: too many tables
// for the offset table, or table offsets beyond 32 bits.
var ErrTooLarge = errors.New("font too large")

// Header is the offset table at the start of the font.
type Header struct {
	Version       uint32
	NumTables     uint16
	SearchRange   uint16
	EntrySelector uint16
	RangeShift    uint16
}

// DirEntry describes one table. Checksum is always zero, checksums are not
// computed.
type DirEntry struct {
	Tag      Tag
	Checksum uint32
	Offset   uint32
	Length   uint32
}

// Layout is the computed shape of an assembled font.
type Layout struct {
	Header  Header
	Entries []DirEntry
	Size    int
}

func (lay *Layout) Entry(tag Tag) (DirEntry, bool) {
	for _, e := range lay.Entries {
		if e.Tag == tag {
			return e, true
		}
	}
	return DirEntry{}, false
}

// Output is the result of Assemble.
type Output struct {
	Data     []byte
	Layout   Layout
	Problems []*record.FieldError
}

func makeHeader(numTables int, standardRangeShift bool) Header {
	h := Header{
		Version:   Version,
		NumTables: uint16(numTables),
	}
	if numTables == 0 {
		return h
	}
	entrySelector := bits.Len(uint(numTables)) - 1 // floor(log2(numTables))
	searchRange := (1 << entrySelector) * DirEntrySize
	rangeShift := numTables * DirEntrySize
	if standardRangeShift {
		rangeShift -= searchRange
	}
	h.EntrySelector = uint16(entrySelector)
	h.SearchRange = uint16(searchRange)
	h.RangeShift = uint16(rangeShift)
	return h
}

// Layout computes table lengths, directory offsets and the total size from
// the current state of the table records. It must be recomputed after any
// list is modified. Header fields and offsets are only meaningful for fonts
// that Assemble accepts, see ErrTooLarge.
func (f *Font) Layout() Layout {
	n := len(f.defs)
	lay := Layout{
		Header:  makeHeader(n, f.opt.StandardRangeShift),
		Entries: make([]DirEntry, n),
	}
	off := HeaderSize + n*DirEntrySize
	for i, td := range f.defs {
		length := record.Length(f.tables[i], td.schema)
		lay.Entries[i] = DirEntry{
			Tag:    td.tag,
			Offset: uint32(off),
			Length: uint32(length),
		}
		off += length
	}
	lay.Size = off
	return lay
}

func checkLayout(numTables, size int) error {
	if numTables > MaxTables {
		return fmt.Errorf("sfnt: %d tables, at most %d fit the offset table: %w", numTables, MaxTables, ErrTooLarge)
	}
	if uint64(size) > math.MaxUint32 {
		return fmt.Errorf("sfnt: font needs %d bytes, offsets are limited to 32 bits: %w", size, ErrTooLarge)
	}
	return nil
}

// checkedLayout is Layout that fails instead of producing truncated header
// fields or offsets.
func (f *Font) checkedLayout() (Layout, error) {
	if err := checkLayout(len(f.defs), 0); err != nil {
		return Layout{}, err
	}
	lay := f.Layout()
	if err := checkLayout(len(f.defs), lay.Size); err != nil {
		return Layout{}, err
	}
	return lay, nil
}

// Assemble encodes the whole font into a newly allocated buffer.
func (f *Font) Assemble() (*Output, error) {
	lay, err := f.checkedLayout()
	if err != nil {
		return nil, err
	}
	data := make([]byte, lay.Size)
	problems, err := f.assembleInto(data, lay)
	if err != nil {
		return nil, err
	}
	return &Output{
		Data:     data,
		Layout:   lay,
		Problems: problems,
	}, nil
}

// AssembleInto encodes the font into dst, which must be exactly Layout().Size
// bytes long, and returns the computed layout along with encoding problems.
func (f *Font) AssembleInto(dst []byte) (Layout, []*record.FieldError, error) {
	lay, err := f.checkedLayout()
	if err != nil {
		return lay, nil, err
	}
	if len(dst) != lay.Size {
		return lay, nil, fmt.Errorf("sfnt: buffer is %d bytes, font needs %d", len(dst), lay.Size)
	}
	problems, err := f.assembleInto(dst, lay)
	return lay, problems, err
}

func (f *Font) assembleInto(data []byte, lay Layout) ([]*record.FieldError, error) {
	policy := record.ContinueOnError
	if f.opt.Strict {
		policy = record.StopOnError
	}
	enc := record.NewEncoder(data, record.EncodeOptions{
		Policy: policy,
		Logger: f.logger,
	})
	w := enc.Writer()

	h := lay.Header
	ensure(w.WriteInt32(int32(h.Version)))
	ensure(w.WriteUint16(h.NumTables))
	ensure(w.WriteUint16(h.SearchRange))
	ensure(w.WriteUint16(h.EntrySelector))
	ensure(w.WriteUint16(h.RangeShift))

	for _, e := range lay.Entries {
		ensure(w.WriteUint32(uint32(e.Tag)))
		ensure(w.WriteUint32(e.Checksum))
		ensure(w.WriteUint32(e.Offset))
		ensure(w.WriteUint32(e.Length))
	}
	if f.opt.Verbose {
		f.logger.LogAttrs(context.Background(), slog.LevelDebug, "sfnt: header",
			slog.Int("tables", int(h.NumTables)), hexAttr("bytes", data[:HeaderSize]))
	}

	for i, td := range f.defs {
		e := lay.Entries[i]
		if enc.Off() != int(e.Offset) {
			panic(fmt.Errorf("sfnt: %s starts at %d, directory says %d", td.name, enc.Off(), e.Offset))
		}
		if f.opt.Verbose {
			f.logger.LogAttrs(context.Background(), slog.LevelDebug, "sfnt: table",
				slog.String("table", td.name), slog.String("tag", td.tag.String()),
				slog.Int("off", int(e.Offset)), slog.Int("len", int(e.Length)))
		}
		if err := enc.WriteRecord(td.name, f.tables[i], td.schema); err != nil {
			return nil, fmt.Errorf("sfnt: %w", err)
		}
	}
	if enc.Off() != lay.Size {
		panic(fmt.Errorf("sfnt: wrote %d bytes, layout says %d", enc.Off(), lay.Size))
	}
	return enc.Problems(), nil
}

func ensure(err error) {
	if err != nil {
		panic(err)
	}
}
