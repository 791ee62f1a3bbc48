// Package tabledata fills font tables from JSON documents.
//
// The selected JSON object maps table names to table values in the shape
// produced by record.Export: objects for records, arrays for repeatable
// groups, numbers for leaves and bare elements.
//
//	{"maxp": {"numGlyphs": 3}, "loca": {"offsets": [0, 10, 24, 24]}}
package tabledata

import (
	"errors"
	"fmt"
	"os"

	"github.com/andreyvit/sfnt"
	"github.com/andreyvit/sfnt/record"
	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// DefaultSelector selects the whole document.
const DefaultSelector = "$"

var (
	ErrNoMatch      = errors.New("selector matched nothing")
	ErrAmbiguous    = errors.New("selector matched more than one value")
	ErrUnknownTable = sfnt.ErrUnknownTable
)

// Apply parses doc, picks the tables object with the JSONPath selector and
// imports every table it names into f. Tables not mentioned keep their
// values, lists that are mentioned replace the existing elements and null
// deletes a field. On error f is left unchanged.
func Apply(f *sfnt.Font, doc []byte, selector string) error {
	root, err := oj.Parse(doc)
	if err != nil {
		return fmt.Errorf("tabledata: %w", err)
	}
	return ApplyValue(f, root, selector)
}

func ApplyFile(f *sfnt.Font, path string, selector string) error {
	doc, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("tabledata: %w", err)
	}
	if err := Apply(f, doc, selector); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// ApplyValue is Apply for an already parsed document.
func ApplyValue(f *sfnt.Font, root any, selector string) error {
	if selector == "" {
		selector = DefaultSelector
	}
	x, err := jp.ParseString(selector)
	if err != nil {
		return fmt.Errorf("tabledata: invalid jsonpath '%s': %w", selector, err)
	}

	results := x.Get(root)
	switch len(results) {
	case 0:
		return fmt.Errorf("tabledata: %s: %w", selector, ErrNoMatch)
	case 1:
	default:
		return fmt.Errorf("tabledata: %s: %w (%d)", selector, ErrAmbiguous, len(results))
	}

	tables, ok := results[0].(map[string]any)
	if !ok {
		return fmt.Errorf("tabledata: %s: expected an object, got %T", selector, results[0])
	}

	return f.ImportTables(tables)
}

// Export renders the current table values as indented JSON with sorted keys,
// suitable as input to Apply.
func Export(f *sfnt.Font) string {
	tables := make(map[string]any)
	for _, td := range f.TableDefs() {
		tables[td.Name()] = record.Export(f.Table(td.Name()))
	}
	return oj.JSON(tables, &ojg.Options{Indent: 2, Sort: true})
}
