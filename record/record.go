package record

import (
	"fmt"
	"slices"
)

// Record is a mutable instance of a Schema. Fields are addressed by name;
// scalar fields hold an int64 (8-byte unsigned values are stored as their
// two's complement bit pattern, see SetUint), groups hold a *List.
//
// A record of a bare schema holds a single scalar instead, see Scalar.
type Record struct {
	schema  Schema
	scalars map[string]int64
	lists   map[string]*List
	bare    bool
	scalar  int64
}

// New returns a default instance of schema. Every call allocates an
// independent tree.
func New(schema Schema) *Record {
	if leaf := schema.bareLeaf(); leaf != nil {
		return &Record{schema: schema, bare: true, scalar: leaf.Default}
	}
	rec := &Record{
		schema:  schema,
		scalars: make(map[string]int64),
		lists:   make(map[string]*List),
	}
	for _, f := range schema {
		switch f := f.(type) {
		case *Leaf:
			rec.scalars[f.Name] = f.Default
		case *Group:
			if f.Name == "" {
				continue
			}
			l := &List{field: f}
			if f.Required > 0 {
				l.elems = make([]*Record, f.Required)
				for i := range l.elems {
					l.elems[i] = New(f.Fields)
				}
			}
			rec.lists[f.Name] = l
		}
	}
	return rec
}

func (rec *Record) Schema() Schema { return rec.schema }
func (rec *Record) IsBare() bool   { return rec.bare }

// Len returns the current encoded size of the record. It is recomputed on
// every call, so it always reflects the current number of list elements.
func (rec *Record) Len() int {
	return Length(rec, rec.schema)
}

// Scalar returns the value of a bare record.
func (rec *Record) Scalar() int64 {
	rec.ensureBare()
	return rec.scalar
}

func (rec *Record) SetScalar(v int64) {
	rec.ensureBare()
	rec.scalar = v
}

// Get returns the value of a scalar field, or 0 if the field is missing.
func (rec *Record) Get(name string) int64 {
	v, _ := rec.Lookup(name)
	return v
}

// Lookup returns the value of a scalar field and whether it is present.
func (rec *Record) Lookup(name string) (int64, bool) {
	rec.mustLeaf(name)
	v, ok := rec.scalars[name]
	return v, ok
}

// Has reports whether the named field is present, i.e. hasn't been deleted.
func (rec *Record) Has(name string) bool {
	rec.mustField(name)
	if _, ok := rec.scalars[name]; ok {
		return true
	}
	_, ok := rec.lists[name]
	return ok
}

func (rec *Record) Set(name string, v int64) {
	rec.mustLeaf(name)
	rec.scalars[name] = v
}

// SetUint stores an unsigned value; values above math.MaxInt64 are only
// meaningful for 8-byte unsigned leaves.
func (rec *Record) SetUint(name string, v uint64) {
	rec.Set(name, int64(v))
}

// Delete removes a field from the record. The encoder reports missing fields
// and writes zeros in their place.
func (rec *Record) Delete(name string) {
	rec.mustField(name)
	delete(rec.scalars, name)
	delete(rec.lists, name)
}

// List returns the holder of the named group, or nil if the field has been
// deleted.
func (rec *Record) List(name string) *List {
	f := rec.mustField(name)
	if _, ok := f.(*Group); !ok {
		panic(fmt.Errorf("%s is a scalar field, not a list", name))
	}
	return rec.lists[name]
}

func (rec *Record) list(name string) *List {
	if rec == nil || rec.lists == nil {
		return nil
	}
	return rec.lists[name]
}

// leafValue resolves the value to encode for leaf f. Bare records write their
// scalar for every leaf.
func (rec *Record) leafValue(f *Leaf) (int64, bool) {
	if rec == nil {
		return 0, false
	}
	if rec.bare {
		return rec.scalar, true
	}
	v, ok := rec.scalars[f.Name]
	return v, ok
}

func (rec *Record) mustField(name string) Field {
	if rec.bare {
		panic(fmt.Errorf("bare record has no field %s", name))
	}
	f := rec.schema.Find(name)
	if f == nil || name == "" {
		panic(fmt.Errorf("record does not have field %q", name))
	}
	return f
}

func (rec *Record) mustLeaf(name string) *Leaf {
	f := rec.mustField(name)
	leaf, ok := f.(*Leaf)
	if !ok {
		panic(fmt.Errorf("%s is a list, not a scalar field", name))
	}
	return leaf
}

func (rec *Record) ensureBare() {
	if !rec.bare {
		panic("record is not bare")
	}
}

// List holds the elements of a repeatable group. Element order is encoding
// order.
type List struct {
	field *Group
	elems []*Record
}

func (l *List) Field() *Group  { return l.field }
func (l *List) Schema() Schema { return l.field.Fields }
func (l *List) Count() int     { return len(l.elems) }

func (l *List) At(i int) *Record {
	return l.elems[i]
}

func (l *List) Elements() []*Record {
	return slices.Clone(l.elems)
}

// CreateElement returns a new default element without adding it.
func (l *List) CreateElement() *Record {
	return New(l.field.Fields)
}

// Add appends elements in the given order. Use Add(elems...) to append a
// whole sequence.
func (l *List) Add(elems ...*Record) {
	l.elems = append(l.elems, elems...)
}

// AddNew appends a new default element and returns it.
func (l *List) AddNew() *Record {
	elem := l.CreateElement()
	l.Add(elem)
	return elem
}

// Reset removes all elements, including the required defaults.
func (l *List) Reset() {
	clear(l.elems)
	l.elems = l.elems[:0]
}

// Clone returns a deep copy of rec. Nil list elements stay nil.
func (rec *Record) Clone() *Record {
	if rec == nil {
		return nil
	}
	c := &Record{schema: rec.schema, bare: rec.bare, scalar: rec.scalar}
	if rec.bare {
		return c
	}
	c.scalars = make(map[string]int64, len(rec.scalars))
	for name, v := range rec.scalars {
		c.scalars[name] = v
	}
	c.lists = make(map[string]*List, len(rec.lists))
	for name, l := range rec.lists {
		cl := &List{field: l.field, elems: make([]*Record, len(l.elems))}
		for i, elem := range l.elems {
			cl.elems[i] = elem.Clone()
		}
		c.lists[name] = cl
	}
	return c
}

// assign moves the contents of src into rec. Lists rec already holds keep
// their identity and receive the new elements.
func (rec *Record) assign(src *Record) {
	rec.scalar = src.scalar
	rec.scalars = src.scalars
	for name, l := range src.lists {
		if old := rec.lists[name]; old != nil {
			old.elems = l.elems
			src.lists[name] = old
		}
	}
	rec.lists = src.lists
}
