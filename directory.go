package sfnt

import (
	"encoding/binary"
)

// ReadLayout decodes the header and table directory of an assembled font and
// checks that every table lies within data. Table payloads are not decoded.
func ReadLayout(data []byte) (Layout, error) {
	var lay Layout
	if len(data) < HeaderSize {
		return lay, dataErrf(data, 0, nil, "font header: %d bytes required", HeaderSize)
	}
	be := binary.BigEndian
	lay.Header = Header{
		Version:       be.Uint32(data[0:]),
		NumTables:     be.Uint16(data[4:]),
		SearchRange:   be.Uint16(data[6:]),
		EntrySelector: be.Uint16(data[8:]),
		RangeShift:    be.Uint16(data[10:]),
	}

	n := int(lay.Header.NumTables)
	dirEnd := HeaderSize + n*DirEntrySize
	if len(data) < dirEnd {
		return lay, dataErrf(data, HeaderSize, nil, "table directory: %d entries need %d bytes, got %d", n, dirEnd, len(data))
	}

	lay.Entries = make([]DirEntry, n)
	lay.Size = dirEnd
	for i := range lay.Entries {
		off := HeaderSize + i*DirEntrySize
		e := DirEntry{
			Tag:      Tag(be.Uint32(data[off:])),
			Checksum: be.Uint32(data[off+4:]),
			Offset:   be.Uint32(data[off+8:]),
			Length:   be.Uint32(data[off+12:]),
		}
		end := uint64(e.Offset) + uint64(e.Length)
		if int(e.Offset) < dirEnd || end > uint64(len(data)) {
			return lay, dataErrf(data, off, nil, "table '%v' at %d+%d lies outside of the font", e.Tag, e.Offset, e.Length)
		}
		lay.Entries[i] = e
		lay.Size = max(lay.Size, int(end))
	}
	return lay, nil
}

// TableData returns the payload of the table with the given tag.
func TableData(data []byte, lay Layout, tag Tag) ([]byte, bool) {
	e, ok := lay.Entry(tag)
	if !ok {
		return nil, false
	}
	return data[e.Offset : e.Offset+e.Length], true
}
