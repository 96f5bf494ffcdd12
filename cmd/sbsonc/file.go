// file.go - mapped reads and atomic writes of document files

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/opencoff/go-mmap"
)

// mappedFile is a read-only memory mapping of a document file. Views
// handed out over its bytes stay valid until Close.
type mappedFile struct {
	fd *os.File
	mm *mmap.Mapping
}

// openDocument maps fn read-only and returns the mapping and its bytes.
func openDocument(fn string) (*mappedFile, []byte, error) {
	fd, err := os.Open(fn)
	if err != nil {
		return nil, nil, err
	}

	st, err := fd.Stat()
	if err != nil {
		fd.Close()
		return nil, nil, fmt.Errorf("%s: can't stat: %w", fn, err)
	}
	if st.Size() == 0 {
		fd.Close()
		return nil, nil, fmt.Errorf("%s: empty file", fn)
	}

	mm := mmap.New(fd)
	mapping, err := mm.Map(st.Size(), 0, mmap.PROT_READ, mmap.F_READAHEAD)
	if err != nil {
		fd.Close()
		return nil, nil, fmt.Errorf("%s: can't mmap %d bytes: %w", fn, st.Size(), err)
	}

	return &mappedFile{fd: fd, mm: mapping}, mapping.Bytes(), nil
}

func (m *mappedFile) Close() {
	m.mm.Unmap()
	m.fd.Close()
}

// writeDocument writes b to fn through a temp file and rename, so a
// failed run never replaces a good document with a partial one.
func writeDocument(fn string, b []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(fn), ".sbsonc-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	_, err = tmp.Write(b)
	if err2 := tmp.Sync(); err == nil {
		err = err2
	}
	if err2 := tmp.Close(); err == nil {
		err = err2
	}
	if err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%s: %w", fn, err)
	}

	if err = os.Rename(tmpName, fn); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
