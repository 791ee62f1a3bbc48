package record

import (
	"testing"
)

var itemsSchema = Define(func(b *Builder) {
	b.Leaf("id", 4, Default(7))
	b.Group("items", 2, func(b *Builder) {
		b.Leaf("v", 1)
	})
})

func TestNew_defaults(t *testing.T) {
	rec := New(itemsSchema)
	eq(t, rec.Get("id"), int64(7))
	eq(t, rec.List("items").Count(), 2)
	eq(t, rec.List("items").At(1).Get("v"), int64(0))
	eq(t, rec.Len(), 6)
	eq(t, Dump(rec), "{id: 7, items: [{v: 0}, {v: 0}]}")
}

func TestNew_independentInstances(t *testing.T) {
	a, b := New(itemsSchema), New(itemsSchema)
	eq(t, a.Len(), b.Len())

	a.List("items").AddNew().Set("v", 1)
	a.List("items").At(0).Set("v", 5)
	eq(t, a.Len(), 7)
	eq(t, b.Len(), 6)
	eq(t, b.List("items").At(0).Get("v"), int64(0))
}

func TestList_Add(t *testing.T) {
	rec := New(itemsSchema)
	items := rec.List("items")
	items.Reset()
	eq(t, rec.Len(), 4)

	elem := items.CreateElement()
	elem.Set("v", 9)
	eq(t, rec.Len(), 4) // not inserted yet
	items.Add(elem)
	eq(t, rec.Len(), 4+Length(elem, items.Schema()))

	y, z := items.CreateElement(), items.CreateElement()
	y.Set("v", 1)
	z.Set("v", 2)
	items.Add(y, z)
	eq(t, rec.Len(), 7)
	eq(t, Dump(rec), "{id: 7, items: [{v: 9}, {v: 1}, {v: 2}]}")

	elems := items.Elements()
	elems[0] = nil
	eq(t, items.At(0), elem)
}

func TestRecord_scenario(t *testing.T) {
	rec := New(itemsSchema)
	eq(t, rec.Len(), 6)

	elem := rec.List("items").CreateElement()
	elem.Set("v", 9)
	rec.List("items").Add(elem)
	eq(t, rec.Len(), 7)

	buf, problems := encode(t, rec, EncodeOptions{})
	deepEqual(t, buf, []byte{0, 0, 0, 7, 0, 0, 9})
	eq(t, len(problems), 0)
}

func TestRecord_bare(t *testing.T) {
	schema := Define(func(b *Builder) {
		b.Leaf("count", 2)
		b.Group("offsets", 0, func(b *Builder) {
			b.Value(4, Default(1))
		})
	})
	rec := New(schema)
	offsets := rec.List("offsets")
	for _, v := range []int64{0x10, 0x20} {
		offsets.AddNew().SetScalar(v)
	}
	offsets.AddNew()
	rec.Set("count", int64(offsets.Count()))

	eq(t, offsets.At(0).IsBare(), true)
	eq(t, offsets.At(2).Scalar(), int64(1))
	eq(t, Dump(rec), "{count: 3, offsets: [16, 32, 1]}")

	buf, _ := encode(t, rec, EncodeOptions{})
	deepEqual(t, buf, x("0003 00000010 00000020 00000001"))
}

func TestRecord_signed(t *testing.T) {
	schema := Define(func(b *Builder) {
		b.Leaf("a", 1, Signed)
		b.Leaf("b", 2, Signed, Default(-2))
		b.Leaf("c", 4, Signed)
		b.Leaf("d", 8)
	})
	rec := New(schema)
	rec.Set("a", -1)
	rec.Set("c", -0x10000)
	rec.SetUint("d", 0xFFFF_FFFF_FFFF_FFFE)

	buf, problems := encode(t, rec, EncodeOptions{})
	deepEqual(t, buf, x("FF FFFE FFFF0000 FFFFFFFFFFFFFFFE"))
	eq(t, len(problems), 0)
}

func TestRecord_panicsOnUndeclaredField(t *testing.T) {
	rec := New(itemsSchema)
	for name, f := range map[string]func(){
		"unknown get":  func() { rec.Get("nope") },
		"list as leaf": func() { rec.Set("items", 1) },
		"leaf as list": func() { rec.List("id") },
		"bare scalar":  func() { rec.Scalar() },
	} {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatalf("expected panic")
				}
			}()
			f()
		})
	}
}

func TestDefine_panicsOnDuplicate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	Define(func(b *Builder) {
		b.Leaf("a", 2)
		b.Leaf("a", 4)
	})
}

func TestDefine_panicsOnBadSize(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	Define(func(b *Builder) {
		b.Leaf("a", 3)
	})
}

func TestDump_missingAndNil(t *testing.T) {
	eq(t, Dump(nil), "<nil>")

	rec := New(itemsSchema)
	rec.Delete("id")
	rec.Delete("items")
	eq(t, Dump(rec), "{id: <missing>, items: <missing>}")
}
