// Package record implements schema-described records that encode into a
// fixed big-endian binary layout.
//
// A Schema is an ordered list of fields. Each field is either a *Leaf (a
// scalar of 1, 2, 4 or 8 bytes) or a *Group (a repeatable nested record).
// Declaration order is the only link between a field and its byte offset,
// so everything in this package walks schemas strictly in order:
//
//  1. New builds a default mutable Record from a Schema.
//
//  2. Length computes the encoded size of a Record.
//
//  3. Encoder writes a Record into a byte buffer.
//
// A schema that contains an unnamed leaf describes a bare record: instead of
// holding named fields, its instances hold a single scalar. This is how lists
// of plain numbers (say, a glyph offset array) are described.
package record

import "fmt"

// Field is a single schema entry, either *Leaf or *Group.
type Field interface {
	FieldName() string
	isField()
}

// Schema is an ordered sequence of fields.
type Schema []Field

// Leaf is a scalar field.
type Leaf struct {
	Name    string
	Size    int // 1, 2, 4 or 8
	Signed  bool
	Default int64
}

// Group is a repeatable nested record. Required default elements are created
// when the enclosing record is initialized.
type Group struct {
	Name     string
	Fields   Schema
	Required int
}

func (f *Leaf) FieldName() string  { return f.Name }
func (f *Group) FieldName() string { return f.Name }
func (*Leaf) isField()             {}
func (*Group) isField()            {}

// Find returns the named field, or nil.
func (s Schema) Find(name string) Field {
	for _, f := range s {
		if f.FieldName() == name {
			return f
		}
	}
	return nil
}

// bareLeaf returns the unnamed leaf that makes instances of this schema bare
// scalars. If there are several, the last one wins.
func (s Schema) bareLeaf() *Leaf {
	var bare *Leaf
	for _, f := range s {
		if f, ok := f.(*Leaf); ok && f.Name == "" {
			bare = f
		}
	}
	return bare
}

// IsBare reports whether instances of this schema are bare scalars.
func (s Schema) IsBare() bool {
	return s.bareLeaf() != nil
}

// Builder assembles a Schema, see Define.
type Builder struct {
	schema Schema
}

type LeafFlag int

const (
	Signed LeafFlag = 1 << iota
)

type defaultValue int64

// Default sets the initial value of a leaf.
func Default(v int64) any {
	return defaultValue(v)
}

// Define builds a schema. Invalid definitions panic, schemas are expected to
// be defined statically.
func Define(build func(b *Builder)) Schema {
	var b Builder
	build(&b)
	return b.schema
}

// Leaf adds a named scalar field. Options are Signed and Default(v).
func (b *Builder) Leaf(name string, size int, opts ...any) {
	if name == "" {
		panic("leaf name missing, use Value for unnamed leaves")
	}
	b.add(newLeaf(name, size, opts))
}

// Value adds an unnamed leaf, turning records of this schema into bare
// scalars.
func (b *Builder) Value(size int, opts ...any) {
	b.add(newLeaf("", size, opts))
}

// Group adds a repeatable nested record.
func (b *Builder) Group(name string, required int, build func(b *Builder)) {
	if name == "" {
		panic("group name missing")
	}
	if required < 0 {
		panic(fmt.Errorf("group %s: negative required count %d", name, required))
	}
	b.add(&Group{
		Name:     name,
		Fields:   Define(build),
		Required: required,
	})
}

func (b *Builder) add(f Field) {
	if name := f.FieldName(); name != "" && b.schema.Find(name) != nil {
		panic(fmt.Errorf("field %s already defined", name))
	}
	b.schema = append(b.schema, f)
}

func newLeaf(name string, size int, opts []any) *Leaf {
	if !IsSupportedSize(size) {
		panic(fmt.Errorf("leaf %q: unsupported size %d", name, size))
	}
	leaf := &Leaf{Name: name, Size: size}
	for _, opt := range opts {
		switch opt := opt.(type) {
		case LeafFlag:
			if opt&Signed != 0 {
				leaf.Signed = true
			}
		case defaultValue:
			leaf.Default = int64(opt)
		default:
			panic(fmt.Errorf("unexpected leaf option %T", opt))
		}
	}
	return leaf
}

// IsSupportedSize reports whether size is a valid leaf width.
func IsSupportedSize(size int) bool {
	switch size {
	case 1, 2, 4, 8:
		return true
	default:
		return false
	}
}
