package record

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField    = errors.New("missing field")
	ErrUnsupportedSize = errors.New("unsupported size")
	ErrOutOfRange      = errors.New("value out of range")
	ErrShortBuffer     = errors.New("buffer too short")
	ErrUnknownField    = errors.New("unknown field")
)

// FieldError describes a single leaf that could not be encoded as intended.
type FieldError struct {
	Path string
	Off  int
	Size int
	Err  error
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s (%d bytes at %d): %v", e.Path, e.Size, e.Off, e.Err)
}
