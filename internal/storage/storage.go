// Package storage reads and writes the files of a dataset folder: raw
// documents, response files, document-info exports and formatted data.
package storage

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Storage wraps a dataset folder.
type Storage struct {
	Folder string
}

// NewStorage creates a Storage for the given folder.
func NewStorage(folder string) *Storage {
	return &Storage{Folder: folder}
}

// Path joins elem onto the storage folder.
func (s *Storage) Path(elem ...string) string {
	return filepath.Join(append([]string{s.Folder}, elem...)...)
}

// WriteFile creates path (and its parent directories) and hands a buffered
// writer to fn. The file is flushed and closed on every path; the first
// error wins.
func WriteFile(path string, fn func(w *bufio.Writer) error) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriter(f)
	if err := fn(w); err != nil {
		return err
	}
	return w.Flush()
}

// ScanFile calls fn for each non-blank line of path with its 1-based line
// number. Trailing carriage returns are removed. Scanning stops at the
// first error returned by fn.
func ScanFile(path string, fn func(line int, text string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		if err := fn(line, text); err != nil {
			return err
		}
	}
	return scanner.Err()
}
