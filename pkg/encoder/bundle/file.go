package bundle

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const bufferSize = 64 * 1024

// file is a buffered output file of a bundle track.
// It counts the written bytes so the headers may be patched on close.
type file struct {
	mu sync.Mutex
	f  *os.File
	w  *bufio.Writer
	n  int64
}

func newFile(dir string, name string) (*file, error) {
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, err
	}
	return &file{f: f, w: bufio.NewWriterSize(f, bufferSize)}, nil
}

func (f *file) Write(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, err := f.w.Write(data)
	f.n += int64(n)
	if err != nil && n < len(data) {
		return fmt.Errorf("short write [%v!=%v]: %w", n, len(data), err)
	}
	return err
}

func (f *file) WriteString(s string) error { return f.Write([]byte(s)) }

// Written is the number of bytes accepted by the file so far.
func (f *file) Written() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.n
}

// Patch flushes the buffer and overwrites the file at the offset.
func (f *file) Patch(offset int64, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.w.Flush(); err != nil {
		return err
	}
	_, err := f.f.WriteAt(data, offset)
	return err
}

func (f *file) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.w.Flush()
}

// Close flushes the rest of the data and closes the file.
func (f *file) Close() error {
	err := f.Flush()
	if er := f.f.Close(); err == nil {
		err = er
	}
	return err
}
