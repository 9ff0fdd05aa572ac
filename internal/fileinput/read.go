// Package fileinput loads local text files into the editor. Files are read
// whole, capped in size, and decoded as UTF-8 with invalid bytes replaced.
package fileinput

import (
	"io"
	"os"
	"strings"

	"github.com/zhubert/tokenlens/internal/errors"
)

// DefaultLimit is the largest file accepted by default.
const DefaultLimit int64 = 5 * 1024 * 1024

// File is a loaded text file.
type File struct {
	Path string
	Text string
	Size int64
}

// Read loads path as text. Files larger than limit are rejected before
// anything is read.
func Read(path string, limit int64) (File, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return File{}, errors.FileNotFound(path)
		}
		return File{}, errors.FileReadFailed(path, err)
	}
	if info.IsDir() {
		return File{}, errors.FileIsDirectory(path)
	}
	if info.Size() > limit {
		return File{}, errors.FileTooLarge(path, info.Size(), limit)
	}

	f, err := os.Open(path)
	if err != nil {
		return File{}, errors.FileReadFailed(path, err)
	}
	defer f.Close()

	text, n, err := readLimited(f, path, limit)
	if err != nil {
		return File{}, err
	}
	return File{Path: path, Text: text, Size: n}, nil
}

// ReadFrom loads text from r, for stdin. name labels errors.
func ReadFrom(r io.Reader, name string, limit int64) (File, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	text, n, err := readLimited(r, name, limit)
	if err != nil {
		return File{}, err
	}
	return File{Path: name, Text: text, Size: n}, nil
}

// readLimited reads one byte past limit so growth after Stat is still caught.
func readLimited(r io.Reader, name string, limit int64) (string, int64, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", 0, errors.FileReadFailed(name, err)
	}
	n := int64(len(data))
	if n > limit {
		return "", 0, errors.FileTooLarge(name, n, limit)
	}
	return strings.ToValidUTF8(string(data), "�"), n, nil
}
