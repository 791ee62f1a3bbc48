// Package mmap maps font files into memory for assembling in place and for
// inspection.
package mmap

import (
	"errors"
	"fmt"
	"os"
)

type Options uint

const (
	// Writable maps the file for writing (otherwise, it's mapped read-only).
	Writable Options = 1 << 0

	// SequentialAccess is a hint requesting aggressive read-ahead.
	// Maps to MADV_SEQUENTIAL on Unix.
	SequentialAccess Options = 1 << 1

	// Prefault is a hint requesting the entire file to be loaded in memory
	// up front. Maps to MAP_POPULATE on Linux, ignored elsewhere.
	Prefault Options = 1 << 2
)

func (o Options) Has(v Options) bool {
	return o&v != 0
}

var ErrTooLarge = errors.New("mmap: file too large")

// Mmap maps the first size bytes of f. A zero size yields an empty slice
// without creating a mapping.
func Mmap(f *os.File, size int, opt Options) ([]byte, error) {
	if size < 0 || size > MaxSize {
		return nil, ErrTooLarge
	}
	if size == 0 {
		return []byte{}, nil
	}
	return mmap(f, size, opt)
}

// Munmap unmaps the given slice from memory. The slice must have been returned
// by Mmap.
func Munmap(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return munmap(b)
}

// Mapping is a file together with its memory mapping.
type Mapping struct {
	f    *os.File
	Data []byte
	opt  Options
}

// Create creates or truncates the file at path, sizes it to exactly size bytes
// and maps it writable.
func Create(path string, size int) (*Mapping, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	if err := f.Truncate(int64(size)); err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap: truncate %s: %w", path, err)
	}
	return mapFile(f, size, Writable|SequentialAccess)
}

// Open maps the entire file at path read-only.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if fi.Size() > MaxSize {
		f.Close()
		return nil, ErrTooLarge
	}
	return mapFile(f, int(fi.Size()), SequentialAccess|Prefault)
}

func mapFile(f *os.File, size int, opt Options) (*Mapping, error) {
	data, err := Mmap(f, size, opt)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap: %s: %w", f.Name(), err)
	}
	return &Mapping{f: f, Data: data, opt: opt}, nil
}

// Name returns the path of the mapped file.
func (m *Mapping) Name() string {
	return m.f.Name()
}

// Sync flushes a writable mapping to disk.
func (m *Mapping) Sync() error {
	if !m.opt.Has(Writable) {
		return nil
	}
	if len(m.Data) == 0 {
		return Fdatasync(m.f, nil)
	}
	return Fdatasync(m.f, m.Data)
}

// Close unmaps the data and closes the file. Data must not be used afterwards.
func (m *Mapping) Close() error {
	err := Munmap(m.Data)
	m.Data = nil
	if cerr := m.f.Close(); err == nil {
		err = cerr
	}
	return err
}
