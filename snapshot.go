package sfnt

import (
	"bytes"
	"fmt"

	"github.com/andreyvit/sfnt/record"
	"github.com/vmihailenco/msgpack/v5"
)

const snapshotFormatVer = 1

// snapshot is the msgpack representation of the table records of a Font.
type snapshot struct {
	Ver    int            `msgpack:"v"`
	Tables map[string]any `msgpack:"t"`
}

// MarshalSnapshot captures the current values of all table records. Table
// payloads are not encoded, use Assemble for that.
func (f *Font) MarshalSnapshot() ([]byte, error) {
	snap := snapshot{
		Ver:    snapshotFormatVer,
		Tables: make(map[string]any, len(f.defs)),
	}
	for i, td := range f.defs {
		snap.Tables[td.name] = record.Export(f.tables[i])
	}

	var buf bytes.Buffer
	enc := msgpack.GetEncoder()
	enc.Reset(&buf)
	enc.SetSortMapKeys(true)
	err := enc.Encode(&snap)
	msgpack.PutEncoder(enc)
	if err != nil {
		return nil, fmt.Errorf("sfnt: failed to encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalSnapshot restores table records captured by MarshalSnapshot.
// Every table present in the snapshot is replaced by a record built from its
// defaults, tables absent from it are left alone. On error no table changes.
func (f *Font) UnmarshalSnapshot(data []byte) error {
	var snap snapshot
	var r bytes.Reader
	r.Reset(data)
	dec := msgpack.GetDecoder()
	dec.Reset(&r)
	err := dec.Decode(&snap)
	msgpack.PutDecoder(dec)
	if err != nil {
		return dataErrf(data, 0, err, "failed to decode snapshot")
	}
	if snap.Ver != snapshotFormatVer {
		return dataErrf(data, 0, nil, "unsupported snapshot version %d", snap.Ver)
	}

	return f.importTables(snap.Tables, true)
}
