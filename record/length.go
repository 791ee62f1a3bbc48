package record

// Length returns the number of bytes rec occupies when encoded with schema.
// Only the shape of rec matters: each leaf contributes its declared size
// regardless of its value, each group contributes the lengths of its current
// elements.
func Length(rec *Record, schema Schema) int {
	var n int
	for _, f := range schema {
		switch f := f.(type) {
		case *Leaf:
			n += max(f.Size, 0)
		case *Group:
			if l := rec.list(f.Name); l != nil {
				for _, elem := range l.elems {
					n += Length(elem, f.Fields)
				}
			}
		}
	}
	return n
}
