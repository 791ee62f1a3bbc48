package record

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
)

// Policy decides what the Encoder does when a leaf cannot be written as
// intended.
type Policy int

const (
	// ContinueOnError records the problem, logs it and keeps encoding. The
	// output always has the length computed by Length.
	ContinueOnError Policy = iota

	// StopOnError returns the first problem.
	StopOnError
)

type EncodeOptions struct {
	Policy Policy
	Logger *slog.Logger
}

// Encoder writes records into a buffer in schema order.
type Encoder struct {
	w        *Writer
	policy   Policy
	logger   *slog.Logger
	problems []*FieldError
}

func NewEncoder(buf []byte, opt EncodeOptions) *Encoder {
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	return &Encoder{
		w:      NewWriter(buf),
		policy: opt.Policy,
		logger: opt.Logger,
	}
}

func (enc *Encoder) Writer() *Writer { return enc.w }
func (enc *Encoder) Off() int        { return enc.w.Off }

// Problems returns all problems recorded so far.
func (enc *Encoder) Problems() []*FieldError {
	return enc.problems
}

// WriteScalar writes a single scalar outside of any record, e.g. a header
// field. name is used in problem reports.
func (enc *Encoder) WriteScalar(name string, v int64, size int, signed bool) error {
	off := enc.w.Off
	if err := enc.w.WriteScalar(v, size, signed); err != nil {
		return enc.fail(&FieldError{Path: name, Off: off, Size: size, Err: err})
	}
	return nil
}

// WriteRecord writes rec using schema. name is the root of problem paths,
// normally the table name.
func (enc *Encoder) WriteRecord(name string, rec *Record, schema Schema) error {
	return enc.writeRecord(&path{name: name, index: -1}, rec, schema)
}

func (enc *Encoder) writeRecord(p *path, rec *Record, schema Schema) error {
	for _, f := range schema {
		switch f := f.(type) {
		case *Group:
			l := rec.list(f.Name)
			if l == nil {
				if rec != nil && rec.bare {
					continue
				}
				err := enc.fail(&FieldError{Path: p.child(f.Name, -1).String(), Off: enc.w.Off, Err: ErrMissingField})
				if err != nil {
					return err
				}
				continue
			}
			for i, elem := range l.elems {
				if err := enc.writeRecord(p.child(f.Name, i), elem, f.Fields); err != nil {
					return err
				}
			}
		case *Leaf:
			off := enc.w.Off
			v, ok := rec.leafValue(f)
			err := enc.w.WriteScalar(v, f.Size, f.Signed)
			if !ok {
				err = ErrMissingField
			}
			if err != nil {
				err = enc.fail(&FieldError{Path: p.child(f.Name, -1).String(), Off: off, Size: f.Size, Err: err})
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (enc *Encoder) fail(fe *FieldError) error {
	enc.problems = append(enc.problems, fe)
	enc.logger.LogAttrs(context.Background(), slog.LevelWarn, "record: field not encoded",
		slog.String("path", fe.Path), slog.Int("off", fe.Off), slog.Any("err", fe.Err))
	if enc.policy == StopOnError {
		return fe
	}
	return nil
}

// path is a lazily rendered field path like "hmtx.metrics[2].lsb".
type path struct {
	parent *path
	name   string
	index  int
}

func (p *path) child(name string, index int) *path {
	return &path{parent: p, name: name, index: index}
}

func (p *path) String() string {
	var buf strings.Builder
	p.render(&buf)
	return buf.String()
}

func (p *path) render(buf *strings.Builder) {
	if p.parent != nil {
		p.parent.render(buf)
		if p.name != "" {
			buf.WriteByte('.')
		}
	}
	if p.name != "" {
		buf.WriteString(p.name)
	}
	if p.index >= 0 {
		buf.WriteByte('[')
		buf.WriteString(strconv.Itoa(p.index))
		buf.WriteByte(']')
	}
}
