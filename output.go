package sfnt

import (
	"fmt"
	"os"

	"github.com/andreyvit/sfnt/mmap"
	"github.com/andreyvit/sfnt/record"
)

// WriteFile assembles the font directly into a memory-mapped file at path,
// creating or truncating it to exactly Layout().Size bytes. On an encoding
// error in strict mode the partially written file is removed.
func WriteFile(path string, f *Font) (Layout, []*record.FieldError, error) {
	lay, err := f.checkedLayout()
	if err != nil {
		return Layout{}, nil, err
	}
	m, err := mmap.Create(path, lay.Size)
	if err != nil {
		return Layout{}, nil, fmt.Errorf("sfnt: %w", err)
	}

	lay, problems, err := f.AssembleInto(m.Data)
	if err == nil {
		err = m.Sync()
	}
	if cerr := m.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return lay, problems, fmt.Errorf("sfnt: writing %s: %w", path, err)
	}
	return lay, problems, nil
}

// WriteOutput writes an already assembled font to path through a memory
// mapping of exactly len(out.Data) bytes.
func WriteOutput(path string, out *Output) error {
	m, err := mmap.Create(path, len(out.Data))
	if err != nil {
		return fmt.Errorf("sfnt: %w", err)
	}
	copy(m.Data, out.Data)
	err = m.Sync()
	if cerr := m.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("sfnt: writing %s: %w", path, err)
	}
	return nil
}

// ReadFileLayout maps the file at path read-only and parses its header and
// table directory.
func ReadFileLayout(path string) (Layout, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return Layout{}, fmt.Errorf("sfnt: %w", err)
	}
	defer m.Close()
	return ReadLayout(m.Data)
}
