package mmap

import "os"

// Fdatasync flushes the data written to f, or to mapping if the platform can
// sync a mapping directly, without forcing a metadata update. A font written
// through a Mapping is only durable once this returns nil; on failure the
// output file must be treated as garbage and rewritten.
func Fdatasync(f *os.File, mapping []byte) error {
	return fdatasync(f, mapping)
}
