// Package tableconf loads font table definitions from HCL.
//
//	table "hmtx" {
//	  field "hMetrics" {
//	    required = 1
//	    field "advanceWidth" { size = 2 }
//	    field "lsb" {
//	      size   = 2
//	      signed = true
//	    }
//	  }
//	}
//
// A field with nested field blocks is a repeatable group, otherwise it is a
// leaf and needs a size of 1, 2, 4 or 8 bytes. A leaf labeled "" is a bare
// value. The tag defaults to the table name.
package tableconf

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/andreyvit/sfnt"
	"github.com/andreyvit/sfnt/record"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

//go:embed default.hcl
var defaultConfig []byte

var fileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "table", LabelNames: []string{"name"}},
	},
}

var tableSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "tag"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "field", LabelNames: []string{"name"}},
	},
}

var fieldSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "size"},
		{Name: "signed"},
		{Name: "value"},
		{Name: "required"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "field", LabelNames: []string{"name"}},
	},
}

// Default returns a fresh registry with the built-in tables: head, hhea,
// maxp, OS/2, hmtx, loca, name and post.
func Default() *sfnt.Registry {
	reg, err := Load("default.hcl", defaultConfig)
	if err != nil {
		panic(fmt.Errorf("tableconf: built-in tables: %w", err))
	}
	return reg
}

func LoadFile(path string) (*sfnt.Registry, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tableconf: %w", err)
	}
	return Load(path, src)
}

// Load parses table definitions. The returned error is hcl.Diagnostics
// whenever the problem can be attributed to a source location.
func Load(filename string, src []byte) (*sfnt.Registry, error) {
	file, diags := hclsyntax.ParseConfig(src, filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, diags
	}
	content, moreDiags := file.Body.Content(fileSchema)
	diags = append(diags, moreDiags...)

	type pending struct {
		name   string
		tag    sfnt.Tag
		schema record.Schema
	}
	var tables []pending
	byName := make(map[string]*hcl.Block)
	byTag := make(map[sfnt.Tag]*hcl.Block)

	for _, block := range content.Blocks {
		name := block.Labels[0]
		if prev := byName[name]; prev != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate table",
				Detail:   fmt.Sprintf("Table %q was already defined at %s.", name, prev.DefRange),
				Subject:  block.LabelRanges[0].Ptr(),
			})
			continue
		}
		byName[name] = block

		tag, schema, tableDiags := decodeTable(block)
		diags = append(diags, tableDiags...)
		if tableDiags.HasErrors() {
			continue
		}
		if prev := byTag[tag]; prev != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate tag",
				Detail:   fmt.Sprintf("Tag '%v' is already used by table %q.", tag, prev.Labels[0]),
				Subject:  block.DefRange.Ptr(),
			})
			continue
		}
		byTag[tag] = block
		tables = append(tables, pending{name, tag, schema})
	}
	if diags.HasErrors() {
		return nil, diags
	}

	reg := sfnt.NewRegistry()
	for _, t := range tables {
		reg.Define(t.name, t.tag, t.schema)
	}
	return reg, nil
}

func decodeTable(block *hcl.Block) (sfnt.Tag, record.Schema, hcl.Diagnostics) {
	name := block.Labels[0]
	content, diags := block.Body.Content(tableSchema)

	tagStr := name
	if attr := content.Attributes["tag"]; attr != nil {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &tagStr)...)
	}
	tag, err := sfnt.ParseTag(tagStr)
	if err != nil {
		subject := block.LabelRanges[0]
		if attr := content.Attributes["tag"]; attr != nil {
			subject = attr.Expr.Range()
		}
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid table tag",
			Detail:   err.Error() + ".",
			Subject:  &subject,
		})
	}

	schema, fieldDiags := decodeFields(content.Blocks)
	diags = append(diags, fieldDiags...)
	return tag, schema, diags
}

func decodeFields(blocks hcl.Blocks) (record.Schema, hcl.Diagnostics) {
	var schema record.Schema
	var diags hcl.Diagnostics
	seen := make(map[string]bool)
	for _, block := range blocks {
		name := block.Labels[0]
		if name != "" {
			if seen[name] {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Duplicate field",
					Detail:   fmt.Sprintf("Field %q is already defined.", name),
					Subject:  block.LabelRanges[0].Ptr(),
				})
				continue
			}
			seen[name] = true
		}
		f, fieldDiags := decodeField(block)
		diags = append(diags, fieldDiags...)
		if f != nil {
			schema = append(schema, f)
		}
	}
	return schema, diags
}

func decodeField(block *hcl.Block) (record.Field, hcl.Diagnostics) {
	name := block.Labels[0]
	content, diags := block.Body.Content(fieldSchema)
	if diags.HasErrors() {
		return nil, diags
	}
	attrs := content.Attributes

	if len(content.Blocks) > 0 {
		for _, a := range []string{"size", "signed", "value"} {
			if attr := attrs[a]; attr != nil {
				diags = append(diags, attrDiag(attr, "Invalid group attribute",
					fmt.Sprintf("Field %q has nested fields, so it is a group and cannot have %s.", name, a)))
			}
		}
		if name == "" {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unnamed group",
				Detail:   "Only leaf fields can be unnamed.",
				Subject:  block.DefRange.Ptr(),
			})
		}

		g := &record.Group{Name: name}
		if attr := attrs["required"]; attr != nil {
			diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &g.Required)...)
			if g.Required < 0 {
				diags = append(diags, attrDiag(attr, "Invalid required count", "Must not be negative."))
			}
		}
		fields, fieldDiags := decodeFields(content.Blocks)
		diags = append(diags, fieldDiags...)
		g.Fields = fields
		if diags.HasErrors() {
			return nil, diags
		}
		return g, diags
	}

	if attr := attrs["required"]; attr != nil {
		diags = append(diags, attrDiag(attr, "Invalid leaf attribute",
			fmt.Sprintf("Field %q has no nested fields, so it is a leaf and cannot have required.", name)))
	}
	leaf := &record.Leaf{Name: name}
	attr := attrs["size"]
	if attr == nil {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Missing leaf size",
			Detail:   fmt.Sprintf("Field %q needs a size of 1, 2, 4 or 8 bytes.", name),
			Subject:  block.DefRange.Ptr(),
		})
	} else {
		sizeDiags := gohcl.DecodeExpression(attr.Expr, nil, &leaf.Size)
		diags = append(diags, sizeDiags...)
		if !sizeDiags.HasErrors() && !record.IsSupportedSize(leaf.Size) {
			diags = append(diags, attrDiag(attr, "Unsupported leaf size",
				fmt.Sprintf("Size %d is not one of 1, 2, 4 or 8.", leaf.Size)))
		}
	}
	if attr := attrs["signed"]; attr != nil {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &leaf.Signed)...)
	}
	if attr := attrs["value"]; attr != nil {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &leaf.Default)...)
	}
	if diags.HasErrors() {
		return nil, diags
	}
	return leaf, diags
}

func attrDiag(attr *hcl.Attribute, summary, detail string) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   detail,
		Subject:  attr.Expr.Range().Ptr(),
		Context:  attr.Range.Ptr(),
	}
}
