package tabledata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/andreyvit/sfnt"
	"github.com/andreyvit/sfnt/record"
	"github.com/andreyvit/sfnt/tableconf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemsFont(t *testing.T) *sfnt.Font {
	t.Helper()
	reg := sfnt.NewRegistry()
	sfnt.DefineTable(reg, "tbl", func(b *record.Builder) {
		b.Leaf("id", 4, record.Default(7))
		b.Group("items", 2, func(b *record.Builder) {
			b.Leaf("v", 1)
		})
	})
	sfnt.DefineTable(reg, "loca", func(b *record.Builder) {
		b.Group("offsets", 2, func(b *record.Builder) {
			b.Value(2)
		})
	})
	return sfnt.New(reg, sfnt.Options{})
}

func TestApply(t *testing.T) {
	f := itemsFont(t)
	err := Apply(f, []byte(`{
		"tbl": {"items": [{"v": 0}, {"v": 0}, {"v": 9}]},
		"loca": {"offsets": [0, 10, 24]}
	}`), "")
	require.NoError(t, err)

	assert.Equal(t, "{id: 7, items: [{v: 0}, {v: 0}, {v: 9}]}", record.Dump(f.MustTable("tbl")))
	assert.Equal(t, 3, f.MustTable("loca").List("offsets").Count())
	assert.Equal(t, int64(24), f.MustTable("loca").List("offsets").At(2).Scalar())

	out, err := f.Assemble()
	require.NoError(t, err)
	data, ok := sfnt.TableData(out.Data, out.Layout, sfnt.MakeTag("tbl"))
	require.True(t, ok)
	assert.Equal(t, []byte{0, 0, 0, 7, 0, 0, 9}, data)
}

func TestApply_selector(t *testing.T) {
	f := itemsFont(t)
	doc := []byte(`{"fonts": {"regular": {"tbl": {"id": 1}}, "bold": {"tbl": {"id": 2}}}}`)

	require.NoError(t, Apply(f, doc, "$.fonts.bold"))
	assert.Equal(t, int64(2), f.MustTable("tbl").Get("id"))

	err := Apply(f, doc, "$.fonts.italic")
	assert.ErrorIs(t, err, ErrNoMatch)

	err = Apply(f, doc, "$.fonts.*")
	assert.ErrorIs(t, err, ErrAmbiguous)

	err = Apply(f, doc, "$.fonts[")
	assert.Error(t, err)
}

func TestApply_errors(t *testing.T) {
	f := itemsFont(t)

	err := Apply(f, []byte(`{"glyf": {}}`), "")
	var te *sfnt.TableError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "glyf", te.Table)
	assert.ErrorIs(t, err, ErrUnknownTable)

	err = Apply(f, []byte(`{"tbl": {"id": "seven"}}`), "")
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "tbl", te.Table)
	var ie *record.ImportError
	assert.ErrorAs(t, err, &ie)

	err = Apply(f, []byte(`{"tbl": {"nope": 1}}`), "")
	assert.ErrorIs(t, err, record.ErrUnknownField)

	err = Apply(f, []byte(`[1, 2]`), "")
	assert.ErrorContains(t, err, "expected an object")

	err = Apply(f, []byte(`{"tbl": `), "")
	assert.Error(t, err)
}

func TestApply_defaultTables(t *testing.T) {
	f := sfnt.New(tableconf.Default(), sfnt.Options{})
	err := Apply(f, []byte(`{
		"maxp": {"numGlyphs": 3},
		"loca": {"offsets": [0, 10, 24, 24]},
		"OS/2": {"usWeightClass": 700}
	}`), "")
	require.NoError(t, err)
	assert.Equal(t, int64(700), f.MustTable("OS/2").Get("usWeightClass"))
	assert.Equal(t, uint32(8), f.Layout().Entries[5].Length)
}

func TestApply_failureKeepsTables(t *testing.T) {
	f := itemsFont(t)
	tbl := record.Dump(f.MustTable("tbl"))
	loca := record.Dump(f.MustTable("loca"))

	err := Apply(f, []byte(`{
		"tbl": {"id": 1, "items": [{"v": 5}]},
		"loca": {"offsets": [0, "x"]}
	}`), "")
	var te *sfnt.TableError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "loca", te.Table)
	assert.Equal(t, tbl, record.Dump(f.MustTable("tbl")))
	assert.Equal(t, loca, record.Dump(f.MustTable("loca")))
}

func TestApply_nullDeletes(t *testing.T) {
	f := itemsFont(t)
	require.NoError(t, Apply(f, []byte(`{"tbl": {"id": null, "items": [{"v": 1}, null]}}`), ""))
	assert.Equal(t, "{id: <missing>, items: [{v: 1}, <nil>]}", record.Dump(f.MustTable("tbl")))

	doc := Export(f)
	assert.Regexp(t, `"id":\s*null`, doc)

	g := itemsFont(t)
	require.NoError(t, Apply(g, []byte(doc), ""))
	assert.Equal(t, record.Dump(f.MustTable("tbl")), record.Dump(g.MustTable("tbl")))
}

func TestExport_roundTrip(t *testing.T) {
	f := itemsFont(t)
	f.MustTable("tbl").Set("id", 42)
	f.MustTable("loca").List("offsets").AddNew().SetScalar(5)

	doc := Export(f)
	assert.Regexp(t, `"id":\s*42`, doc)

	g := itemsFont(t)
	require.NoError(t, Apply(g, []byte(doc), ""))
	for _, name := range []string{"tbl", "loca"} {
		assert.Equal(t, record.Dump(f.MustTable(name)), record.Dump(g.MustTable(name)))
	}
}

func TestApplyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tbl": {"id": 5}}`), 0o644))

	f := itemsFont(t)
	require.NoError(t, ApplyFile(f, path, ""))
	assert.Equal(t, int64(5), f.MustTable("tbl").Get("id"))

	err := ApplyFile(f, filepath.Join(t.TempDir(), "missing.json"), "")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
