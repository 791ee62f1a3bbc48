package sfnt

import (
	"fmt"
	"log/slog"

	"github.com/andreyvit/sfnt/record"
)

type Options struct {
	Logger *slog.Logger

	// Verbose logs every table written by Assemble.
	Verbose bool

	// Strict makes Assemble fail on the first field that cannot be encoded.
	// By default such fields are reported in Output.Problems.
	Strict bool

	// StandardRangeShift computes rangeShift as numTables*16 - searchRange.
	// Without it, rangeShift is numTables*16.
	StandardRangeShift bool
}

// Font holds one live record per table of a Registry. Records are meant to be
// mutated directly between New and Assemble. Font is not safe for concurrent
// use.
type Font struct {
	defs   []*TableDef
	tables []*record.Record
	logger *slog.Logger
	opt    Options
}

// New initializes a default record for every table currently defined in reg.
// Tables defined in reg later are not part of the font.
func New(reg *Registry, opt Options) *Font {
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	f := &Font{
		defs:   reg.Tables(),
		logger: opt.Logger,
		opt:    opt,
	}
	f.tables = make([]*record.Record, len(f.defs))
	for i, td := range f.defs {
		f.tables[i] = record.New(td.schema)
	}
	return f
}

func (f *Font) TableDefs() []*TableDef {
	return append([]*TableDef(nil), f.defs...)
}

// Table returns the record of the named table, or nil.
func (f *Font) Table(name string) *record.Record {
	if i := f.indexOf(name); i >= 0 {
		return f.tables[i]
	}
	return nil
}

func (f *Font) MustTable(name string) *record.Record {
	rec := f.Table(name)
	if rec == nil {
		panic(fmt.Errorf("font has no table %s", name))
	}
	return rec
}

// ResetTable replaces the named table with a fresh default record and returns
// it.
func (f *Font) ResetTable(name string) *record.Record {
	i := f.indexOf(name)
	if i < 0 {
		panic(fmt.Errorf("font has no table %s", name))
	}
	f.tables[i] = record.New(f.defs[i].schema)
	return f.tables[i]
}

// ImportTables imports values, keyed by table name and shaped like the output
// of record.Export, into the named tables. Either every named table is updated
// or, on error, none is. Tables not named keep their records.
func (f *Font) ImportTables(values map[string]any) error {
	return f.importTables(values, false)
}

// importTables stages every named table on a copy of its record, or on a fresh
// default record when reset is set, and swaps the copies in once all imports
// succeed.
func (f *Font) importTables(values map[string]any, reset bool) error {
	for name := range values {
		if f.indexOf(name) < 0 {
			return tableErrf(name, ErrUnknownTable, "")
		}
	}
	staged := make([]*record.Record, len(f.defs))
	for i, td := range f.defs {
		v, ok := values[td.name]
		if !ok {
			continue
		}
		var rec *record.Record
		if reset {
			rec = record.New(td.schema)
		} else {
			rec = f.tables[i].Clone()
		}
		if err := record.Import(rec, v); err != nil {
			return tableErrf(td.name, err, "")
		}
		staged[i] = rec
	}
	for i, rec := range staged {
		if rec != nil {
			f.tables[i] = rec
		}
	}
	return nil
}

func (f *Font) indexOf(name string) int {
	for i, td := range f.defs {
		if td.name == name {
			return i
		}
	}
	return -1
}
