package sfnt

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/andreyvit/sfnt/record"
)

func TestAssemble_scenario(t *testing.T) {
	f := newTestFont(itemsReg(), Options{})
	eq(t, f.Layout().Size, 12+16+6)

	f.MustTable("tbl").List("items").AddNew().Set("v", 9)
	out, err := f.Assemble()
	ok(t, err)
	eq(t, len(out.Problems), 0)
	eq(t, hexstr(out.Data), hexstr(x(
		"00010000 0001 0010 0000 0010"+
			"74626c20 00000000 0000001c 00000007"+
			"00000007 00 00 09")))
}

func TestAssemble_layoutConsistency(t *testing.T) {
	f := newTestFont(miniReg(), Options{})
	f.MustTable("hmtx").List("hMetrics").AddNew().Set("lsb", -5)
	f.MustTable("loca").List("offsets").AddNew().SetScalar(0x1234)

	out, err := f.Assemble()
	ok(t, err)
	lay := out.Layout

	sum := 0
	for i, td := range f.TableDefs() {
		e := lay.Entries[i]
		eq(t, e.Tag, td.Tag())
		eq(t, e.Checksum, uint32(0))
		eq(t, int(e.Length), record.Length(f.MustTable(td.Name()), td.Schema()))
		if i == 0 {
			eq(t, int(e.Offset), HeaderSize+len(lay.Entries)*DirEntrySize)
		} else {
			prev := lay.Entries[i-1]
			eq(t, e.Offset, prev.Offset+prev.Length)
		}
		sum += int(e.Length)
	}
	eq(t, lay.Size, HeaderSize+DirEntrySize*len(lay.Entries)+sum)
	eq(t, len(out.Data), lay.Size)
}

func TestAssemble_payloadsMatchStandaloneEncoding(t *testing.T) {
	f := newTestFont(miniReg(), Options{})
	f.MustTable("head").Set("xMin", -100)
	f.MustTable("loca").List("offsets").At(1).SetScalar(77)

	out, err := f.Assemble()
	ok(t, err)

	for _, td := range f.TableDefs() {
		rec := f.MustTable(td.Name())
		want := make([]byte, record.Length(rec, td.Schema()))
		enc := record.NewEncoder(want, record.EncodeOptions{})
		ok(t, enc.WriteRecord(td.Name(), rec, td.Schema()))

		got, found := TableData(out.Data, out.Layout, td.Tag())
		eq(t, found, true)
		if !bytes.Equal(got, want) {
			t.Errorf("%s: payload %x, wanted %x", td.Name(), got, want)
		}
	}
}

func TestAssemble_header(t *testing.T) {
	tests := []struct {
		n        int
		standard bool
		want     Header
	}{
		{0, false, Header{Version, 0, 0, 0, 0}},
		{0, true, Header{Version, 0, 0, 0, 0}},
		{1, false, Header{Version, 1, 16, 0, 16}},
		{1, true, Header{Version, 1, 16, 0, 0}},
		{4, false, Header{Version, 4, 64, 2, 64}},
		{4, true, Header{Version, 4, 64, 2, 0}},
		{9, false, Header{Version, 9, 128, 3, 144}},
		{9, true, Header{Version, 9, 128, 3, 16}},
		{16, false, Header{Version, 16, 256, 4, 256}},
	}
	for _, tt := range tests {
		eq(t, makeHeader(tt.n, tt.standard), tt.want)
	}
}

func TestAssemble_rangeShiftModes(t *testing.T) {
	out, err := newTestFont(miniReg(), Options{}).Assemble()
	ok(t, err)
	eq(t, hexstr(out.Data[:HeaderSize]), "00010000"+"0004"+"0040"+"0002"+"0040")

	out, err = newTestFont(miniReg(), Options{StandardRangeShift: true}).Assemble()
	ok(t, err)
	eq(t, hexstr(out.Data[:HeaderSize]), "00010000"+"0004"+"0040"+"0002"+"0000")
}

func TestAssemble_noTables(t *testing.T) {
	out, err := newTestFont(NewRegistry(), Options{}).Assemble()
	ok(t, err)
	eq(t, hexstr(out.Data), "00010000"+"0000"+"0000"+"0000"+"0000")
	eq(t, len(out.Layout.Entries), 0)
}

func manyTablesReg(n int) *Registry {
	reg := NewRegistry()
	empty := record.Define(func(b *record.Builder) {})
	for i := range n {
		reg.Define(fmt.Sprintf("t%d", i), Tag(0x41410000+i), empty)
	}
	return reg
}

func TestAssemble_maxTables(t *testing.T) {
	out, err := newTestFont(manyTablesReg(MaxTables), Options{}).Assemble()
	ok(t, err)
	eq(t, hexstr(out.Data[:HeaderSize]), "00010000"+"0fff"+"8000"+"000b"+"fff0")

	out, err = newTestFont(manyTablesReg(MaxTables), Options{StandardRangeShift: true}).Assemble()
	ok(t, err)
	eq(t, hexstr(out.Data[:HeaderSize]), "00010000"+"0fff"+"8000"+"000b"+"7ff0")

	f := newTestFont(manyTablesReg(MaxTables+1), Options{})
	_, err = f.Assemble()
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("Assemble = %v, wanted ErrTooLarge", err)
	}
	_, _, err = f.AssembleInto(make([]byte, f.Layout().Size))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("AssembleInto = %v, wanted ErrTooLarge", err)
	}
}

func TestCheckLayout(t *testing.T) {
	ok(t, checkLayout(MaxTables, math.MaxUint32))
	if err := checkLayout(1, math.MaxUint32+1); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("checkLayout = %v, wanted ErrTooLarge", err)
	}
	if err := checkLayout(65536, 0); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("checkLayout = %v, wanted ErrTooLarge", err)
	}
}

func TestAssemble_problemsReported(t *testing.T) {
	f := newTestFont(miniReg(), Options{})
	f.MustTable("head").Set("unitsPerEm", 70000)
	f.MustTable("maxp").Delete("numGlyphs")

	out, err := f.Assemble()
	ok(t, err)
	eq(t, len(out.Data), out.Layout.Size)
	eq(t, len(out.Problems), 2)

	p := out.Problems[0]
	eq(t, p.Path, "head.unitsPerEm")
	eq(t, p.Off, 12+4*16+4)
	eq(t, errors.Is(p, record.ErrOutOfRange), true)
	eq(t, hexstr(out.Data[p.Off:p.Off+2]), "1170")

	p = out.Problems[1]
	eq(t, p.Path, "maxp.numGlyphs")
	eq(t, errors.Is(p, record.ErrMissingField), true)
	eq(t, hexstr(out.Data[p.Off:p.Off+2]), "0000")
}

func TestAssemble_strict(t *testing.T) {
	f := newTestFont(miniReg(), Options{Strict: true})
	f.MustTable("head").Set("unitsPerEm", 70000)

	_, err := f.Assemble()
	fe := isErr[*record.FieldError](t, err)
	eq(t, fe.Path, "head.unitsPerEm")
}

func TestAssembleInto(t *testing.T) {
	f := newTestFont(itemsReg(), Options{Verbose: true})
	buf := make([]byte, f.Layout().Size)
	lay, problems, err := f.AssembleInto(buf)
	ok(t, err)
	eq(t, len(problems), 0)
	eq(t, lay.Size, len(buf))

	out, err := f.Assemble()
	ok(t, err)
	eq(t, hexstr(buf), hexstr(out.Data))

	_, _, err = f.AssembleInto(make([]byte, lay.Size+1))
	if err == nil {
		t.Fatalf("AssembleInto accepted a buffer of the wrong size")
	}
}

func TestLayout_tracksMutations(t *testing.T) {
	f := newTestFont(itemsReg(), Options{})
	before := f.Layout()
	items := f.MustTable("tbl").List("items")
	items.Add(items.CreateElement(), items.CreateElement())
	after := f.Layout()
	eq(t, after.Size, before.Size+2)
	eq(t, after.Entries[0].Length, before.Entries[0].Length+2)
}
