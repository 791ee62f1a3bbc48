package record

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Export converts rec into plain Go values: map[string]any for records,
// []any for lists and int64 for scalars (including bare records). Every named
// field of the schema is present; deleted fields and nil list elements are
// exported as nil, so Import can restore them.
func Export(rec *Record) any {
	if rec == nil {
		return nil
	}
	if rec.bare {
		return rec.scalar
	}
	m := make(map[string]any, len(rec.schema))
	for _, f := range rec.schema {
		name := f.FieldName()
		if name == "" {
			continue
		}
		switch f.(type) {
		case *Leaf:
			if v, ok := rec.scalars[name]; ok {
				m[name] = v
			} else {
				m[name] = nil
			}
		case *Group:
			l := rec.lists[name]
			if l == nil {
				m[name] = nil
				continue
			}
			items := make([]any, len(l.elems))
			for i, elem := range l.elems {
				items[i] = Export(elem)
			}
			m[name] = items
		}
	}
	return m
}

// Import assigns values from a tree produced by Export, or parsed from JSON or
// msgpack. Fields absent from data keep their values, and a nil value deletes
// the field. Lists present in data are replaced wholesale, required defaults
// included; a nil item becomes a nil element.
//
// On error rec is left unchanged.
func Import(rec *Record, data any) error {
	tmp := rec.Clone()
	if err := importInto(tmp, data, ""); err != nil {
		return err
	}
	rec.assign(tmp)
	return nil
}

func importInto(rec *Record, data any, path string) error {
	if rec.bare {
		v, err := toInt64(data)
		if err != nil {
			return importErr(path, err)
		}
		rec.scalar = v
		return nil
	}

	m, ok := data.(map[string]any)
	if !ok {
		return importErr(path, fmt.Errorf("expected an object, got %T", data))
	}
	// sorted for deterministic error reporting
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := m[name]
		fpath := joinPath(path, name)
		f := rec.schema.Find(name)
		if f == nil || name == "" {
			return importErr(fpath, ErrUnknownField)
		}
		if value == nil {
			delete(rec.scalars, name)
			delete(rec.lists, name)
			continue
		}
		switch f := f.(type) {
		case *Leaf:
			v, err := toInt64(value)
			if err != nil {
				return importErr(fpath, err)
			}
			rec.scalars[name] = v
		case *Group:
			items, ok := value.([]any)
			if !ok {
				return importErr(fpath, fmt.Errorf("expected an array, got %T", value))
			}
			l := rec.lists[name]
			if l == nil {
				l = &List{field: f}
				rec.lists[name] = l
			}
			l.Reset()
			for i, item := range items {
				if item == nil {
					l.Add(nil)
					continue
				}
				elem := l.CreateElement()
				if err := importInto(elem, item, fmt.Sprintf("%s[%d]", fpath, i)); err != nil {
					return err
				}
				l.Add(elem)
			}
		}
	}
	return nil
}

func toInt64(value any) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		return int64(v), nil
	case float32:
		return floatToInt64(float64(v))
	case float64:
		return floatToInt64(v)
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", value)
	}
}

func floatToInt64(f float64) (int64, error) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("expected an integer, got %v", f)
	}
	return int64(f), nil
}

type ImportError struct {
	Path string
	Err  error
}

func importErr(path string, err error) error {
	return &ImportError{path, err}
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

func (e *ImportError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return e.Path + ": " + e.Err.Error()
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	var buf strings.Builder
	buf.WriteString(parent)
	buf.WriteByte('.')
	buf.WriteString(name)
	return buf.String()
}
