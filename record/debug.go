package record

import (
	"strconv"
	"strings"
)

// Dump renders rec as {name: value, list: [{...}, ...]} in schema order.
func Dump(rec *Record) string {
	if rec == nil {
		return "<nil>"
	}
	var buf strings.Builder
	dump(&buf, rec, rec.schema)
	return buf.String()
}

func dump(buf *strings.Builder, rec *Record, schema Schema) {
	if rec == nil {
		buf.WriteString("<nil>")
		return
	}
	if rec.bare {
		buf.WriteString(strconv.FormatInt(rec.scalar, 10))
		return
	}
	buf.WriteByte('{')
	for i, f := range schema {
		if i > 0 {
			buf.WriteByte(',')
			buf.WriteByte(' ')
		}
		buf.WriteString(f.FieldName())
		buf.WriteByte(':')
		buf.WriteByte(' ')
		switch f := f.(type) {
		case *Leaf:
			if v, ok := rec.scalars[f.Name]; ok {
				buf.WriteString(strconv.FormatInt(v, 10))
			} else {
				buf.WriteString("<missing>")
			}
		case *Group:
			l := rec.list(f.Name)
			if l == nil {
				buf.WriteString("<missing>")
				continue
			}
			buf.WriteByte('[')
			for j, elem := range l.elems {
				if j > 0 {
					buf.WriteByte(',')
					buf.WriteByte(' ')
				}
				dump(buf, elem, f.Fields)
			}
			buf.WriteByte(']')
		}
	}
	buf.WriteByte('}')
}
