package sfnt

import (
	"fmt"

	"github.com/andreyvit/sfnt/record"
)

// TableDef describes one table of the font: its name, directory tag and
// record schema.
type TableDef struct {
	name   string
	tag    Tag
	schema record.Schema
	pos    int // index in Registry.tables
}

func (td *TableDef) Name() string          { return td.name }
func (td *TableDef) Tag() Tag              { return td.tag }
func (td *TableDef) Schema() record.Schema { return td.schema }

// Registry is the ordered list of tables making up a font. The order of
// definition is the order of directory entries and table payloads.
type Registry struct {
	tables       []*TableDef
	tablesByName map[string]*TableDef
	tablesByTag  map[Tag]*TableDef
}

func NewRegistry() *Registry {
	return &Registry{
		tablesByName: make(map[string]*TableDef),
		tablesByTag:  make(map[Tag]*TableDef),
	}
}

// Define appends a table. Duplicate names or tags panic.
func (reg *Registry) Define(name string, tag Tag, schema record.Schema) *TableDef {
	if name == "" {
		panic("table name missing")
	}
	if reg.tablesByName[name] != nil {
		panic(fmt.Errorf("table %s already defined", name))
	}
	if prior := reg.tablesByTag[tag]; prior != nil {
		panic(fmt.Errorf("tag '%v' is already assigned to %s, cannot use it for %s", tag, prior.name, name))
	}
	td := &TableDef{
		name:   name,
		tag:    tag,
		schema: schema,
		pos:    len(reg.tables),
	}
	reg.tables = append(reg.tables, td)
	reg.tablesByName[name] = td
	reg.tablesByTag[tag] = td
	return td
}

// DefineTable appends a table whose tag equals its name.
func DefineTable(reg *Registry, name string, build func(b *record.Builder)) *TableDef {
	return reg.Define(name, MakeTag(name), record.Define(build))
}

func (reg *Registry) Len() int {
	return len(reg.tables)
}

func (reg *Registry) Tables() []*TableDef {
	return append([]*TableDef(nil), reg.tables...)
}

func (reg *Registry) TableNamed(name string) *TableDef {
	return reg.tablesByName[name]
}
