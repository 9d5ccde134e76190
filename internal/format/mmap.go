package format

import (
	"fmt"
	"os"
)

// File is a memory-mapped safetensors file. Tensor views reached through
// the embedded SafeTensors point straight into the mapping; the OS pages
// tensor bytes in on first access, and nothing is copied.
//
// Important: always call Close when done to unmap the file (use defer).
// Every view handed out becomes invalid once the file is closed.
type File struct {
	*SafeTensors
	file   *os.File
	data   []byte
	closed bool
}

// Open memory-maps path read-only and decodes it in place.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if stat.Size() < headerLengthSize {
		_ = f.Close()
		return nil, fmt.Errorf("%w: file is %d bytes", ErrBufferTooShort, stat.Size())
	}

	data, err := mmapFile(f, stat.Size())
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("mmap failed: %w", err)
	}

	st, err := Deserialize(data)
	if err != nil {
		_ = munmapFile(data)
		_ = f.Close()
		return nil, err
	}

	return &File{SafeTensors: st, file: f, data: data}, nil
}

// Close unmaps and closes the file.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true

	var err error
	if f.data != nil {
		err = munmapFile(f.data)
		f.data = nil
	}
	if closeErr := f.file.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
