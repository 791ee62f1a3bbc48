//go:build unix

package mmap

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

func mmap(f *os.File, size int, opt Options) ([]byte, error) {
	prot := unix.PROT_READ
	if opt.Has(Writable) {
		prot |= unix.PROT_WRITE
	}

	flags := unix.MAP_SHARED
	if opt.Has(Prefault) {
		flags |= mapPopulate
	}

	b, err := unix.Mmap(int(f.Fd()), 0, size, prot, flags)
	if err != nil {
		return nil, err
	}

	if opt.Has(SequentialAccess) {
		err = unix.Madvise(b, unix.MADV_SEQUENTIAL)
		// ENOSYS is fine, the mapping still works without the hint.
		if err != nil && err != syscall.ENOSYS {
			_ = unix.Munmap(b)
			return nil, fmt.Errorf("madvise(MADV_SEQUENTIAL): %w", err)
		}
	}

	return b, nil
}

func munmap(b []byte) error {
	return unix.Munmap(b)
}
