package sfnt

import (
	"errors"
	"path/filepath"
	"testing"
)

func storeVariants(t *testing.T) map[string]func() *Store {
	return map[string]func() *Store{
		"memory": func() *Store {
			return NewMemoryStore(StoreOptions{Logf: t.Logf, Verbose: true, IsTesting: true})
		},
		"bolt": func() *Store {
			st, err := OpenStore(filepath.Join(t.TempDir(), "fonts.db"), StoreOptions{Logf: t.Logf, Verbose: true, IsTesting: true})
			ok(t, err)
			return st
		},
	}
}

func TestStore_snapshots(t *testing.T) {
	for name, open := range storeVariants(t) {
		t.Run(name, func(t *testing.T) {
			st := open()
			defer st.Close()

			f := newTestFont(miniReg(), Options{})
			f.MustTable("maxp").Set("numGlyphs", 12)
			ok(t, st.SaveSnapshot("regular", f))
			f.MustTable("maxp").Set("numGlyphs", 13)
			ok(t, st.SaveSnapshot("bold", f))

			names, err := st.Names(Snapshots)
			ok(t, err)
			deepEqual(t, names, []string{"bold", "regular"})
			n, err := st.Count(Snapshots)
			ok(t, err)
			eq(t, n, 2)

			g := newTestFont(miniReg(), Options{})
			ok(t, st.LoadSnapshot("regular", g))
			eq(t, g.MustTable("maxp").Get("numGlyphs"), int64(12))

			err = st.LoadSnapshot("italic", g)
			eq(t, errors.Is(err, ErrNotFound), true)

			ok(t, st.Delete(Snapshots, "bold"))
			ok(t, st.Delete(Snapshots, "bold"))
			n, err = st.Count(Snapshots)
			ok(t, err)
			eq(t, n, 1)
		})
	}
}

func TestStore_builds(t *testing.T) {
	for name, open := range storeVariants(t) {
		t.Run(name, func(t *testing.T) {
			st := open()
			defer st.Close()

			f := newTestFont(miniReg(), Options{})
			f.MustTable("head").Set("unitsPerEm", 70000)
			out, err := f.Assemble()
			ok(t, err)
			ok(t, st.SaveBuild("v1", out))

			data, info, err := st.LoadBuild("v1")
			ok(t, err)
			eq(t, hexstr(data), hexstr(out.Data))
			eq(t, info.Size, len(out.Data))
			deepEqual(t, info.Tables, []string{"head", "maxp", "hmtx", "loca"})
			eq(t, len(info.Problems), 1)
			eq(t, info.Created.IsZero(), false)

			_, _, err = st.LoadBuild("v2")
			eq(t, errors.Is(err, ErrNotFound), true)

			ok(t, st.Delete(Builds, "v1"))
			names, err := st.Names(Builds)
			ok(t, err)
			eq(t, len(names), 0)
		})
	}
}

func TestStore_boltPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fonts.db")
	st, err := OpenStore(path, StoreOptions{IsTesting: true})
	ok(t, err)
	f := newTestFont(itemsReg(), Options{})
	f.MustTable("tbl").Set("id", 1234)
	ok(t, st.SaveSnapshot("s", f))
	ok(t, st.Close())

	st, err = OpenStore(path, StoreOptions{IsTesting: true})
	ok(t, err)
	defer st.Close()
	g := newTestFont(itemsReg(), Options{})
	ok(t, st.LoadSnapshot("s", g))
	eq(t, g.MustTable("tbl").Get("id"), int64(1234))
}

func TestStore_unknownCollection(t *testing.T) {
	st := NewMemoryStore(StoreOptions{})
	defer st.Close()
	_, err := st.Names(Collection("glyphs"))
	if err == nil {
		t.Fatalf("Names accepted an unknown collection")
	}
	n, err := st.Count(Collection("glyphs"))
	if err == nil {
		t.Fatalf("Count accepted an unknown collection")
	}
	eq(t, n, 0)
}

func TestStore_digestMismatch(t *testing.T) {
	st := NewMemoryStore(StoreOptions{})
	defer st.Close()

	out, err := newTestFont(itemsReg(), Options{}).Assemble()
	ok(t, err)
	ok(t, st.SaveBuild("v1", out))

	ok(t, st.write(func(tx storageTx) error {
		return tx.Bucket(string(Builds)).Put([]byte("v1"), []byte("garbage"))
	}))
	_, _, err = st.LoadBuild("v1")
	eq(t, errors.Is(err, ErrCorrupt), true)
}
