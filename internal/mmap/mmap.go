package mmap

import (
	"errors"
	"fmt"
	"io"
	"os"
)

var ErrEmptyFile = errors.New("file is empty")

// File is a read-only view of a whole file or block device in memory.
// Data must not be written to and must not be used after Close.
type File struct {
	Data []byte

	f      *os.File
	mapped bool
}

// Open maps the file or raw device at path read-only.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", path, err)
	}

	// Stat reports zero for block devices, seeking to the end does not.
	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to get size of %q: %w", path, err)
	}
	if size == 0 {
		f.Close()
		return nil, fmt.Errorf("%q: %w, cannot mmap", path, ErrEmptyFile)
	}
	if int64(int(size)) != size {
		f.Close()
		return nil, fmt.Errorf("%q is too large (%d bytes) to be mapped on this platform", path, size)
	}

	data, mapped, err := mapFile(f, int(size))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to mmap file %q with length %d: %w", path, size, err)
	}

	return &File{
		Data:   data,
		f:      f,
		mapped: mapped,
	}, nil
}

func (mf *File) Len() int {
	return len(mf.Data)
}

func (mf *File) Name() string {
	return mf.f.Name()
}

// Close unmaps the memory region and closes the underlying file.
func (mf *File) Close() error {
	var err error
	if mf.Data != nil && mf.mapped {
		if err = unmap(mf.Data); err != nil {
			err = fmt.Errorf("failed to munmap: %w", err)
		}
	}
	mf.Data = nil

	if mf.f != nil {
		if closeErr := mf.f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", closeErr)
		}
		mf.f = nil
	}
	return err
}
