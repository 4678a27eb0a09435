//go:build unix

package hashengine

import (
	"os"

	"golang.org/x/sys/unix"
)

// mappedFile wraps an mmap'd region so callers can read it as a byte
// slice and release it deterministically on every exit path.
type mappedFile struct {
	data []byte
}

func (m *mappedFile) Bytes() []byte { return m.data }

func (m *mappedFile) Close() error {
	if m.data == nil {
		return nil
	}
	err := unix.Munmap(m.data)
	m.data = nil
	return err
}

// mmapFile maps f's first size bytes and advises the kernel the access
// pattern will be sequential, since hashing always reads front-to-back.
func mmapFile(f *os.File, size int64) (*mappedFile, error) {
	if size == 0 {
		return &mappedFile{data: []byte{}}, nil
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)
	return &mappedFile{data: data}, nil
}
