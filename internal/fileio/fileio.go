// Package fileio reads and writes container and document files.
//
// Reads map the file read-only where mmap is available and unwrap compressed
// containers by file suffix. Writes compress by suffix, skip files whose
// content is already identical, and replace files atomically.
package fileio

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/arloliu/msyt/compress"
	"github.com/arloliu/msyt/internal/hash"
)

// ErrFileTooLarge is returned for files that cannot be indexed as a byte slice.
var ErrFileTooLarge = errors.New("file too large")

// Load reads the file at path and calls fn with its content. Files with a
// compression suffix (".zs", ".s2", ".lz4") are decompressed first.
//
// data is only valid during fn: it may be backed by a read-only mapping that
// is released when fn returns. fn must copy anything it keeps and must not
// modify data.
func Load(path string, fn func(data []byte) error) error {
	raw, release, err := mapFile(path)
	if err != nil {
		return err
	}

	codec := compress.ForPath(path)
	if _, ok := codec.(compress.NoOpCompressor); ok {
		defer release()

		return fn(raw)
	}

	data, err := codec.Decompress(raw)
	release()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	return fn(data)
}

// ReadFile returns a copy of the content of path, decompressed by suffix.
func ReadFile(path string) ([]byte, error) {
	var out []byte
	err := Load(path, func(data []byte) error {
		out = append([]byte{}, data...)
		return nil
	})

	return out, err
}

// mapFile returns the content of path and a function releasing it. It prefers
// a read-only mapping and falls back to reading the file.
func mapFile(path string) ([]byte, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	if !stat.Mode().IsRegular() {
		return nil, nil, fmt.Errorf("%s: not a regular file", path)
	}

	size64 := stat.Size()
	if size64 > int64(int(^uint(0)>>1)) {
		return nil, nil, fmt.Errorf("%s: %w", path, ErrFileTooLarge)
	}
	size := int(size64)
	if size == 0 {
		return []byte{}, func() {}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err == nil {
		return data, func() { _ = unix.Munmap(data) }, nil
	}

	// Fallback path that does not require mmap support.
	data = make([]byte, size)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, nil, err
	}

	return data, func() {}, nil
}

// WriteIfChanged writes data to path, compressed according to the path's
// suffix, unless the file already holds exactly that content. Missing parent
// directories are created. The file is replaced atomically.
//
// Returns:
//   - bool: true if the file was written, false if it was already up to date
//   - error: compression or file system errors
func WriteIfChanged(path string, data []byte, perm fs.FileMode) (bool, error) {
	out, err := compress.ForPath(path).Compress(data)
	if err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}

	same, err := sameContent(path, out)
	if err != nil {
		return false, err
	}
	if same {
		return false, nil
	}

	if err := writeAtomic(path, out, perm); err != nil {
		return false, err
	}

	return true, nil
}

// sameContent reports whether the file at path exists and holds content.
func sameContent(path string, content []byte) (bool, error) {
	stat, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !stat.Mode().IsRegular() || stat.Size() != int64(len(content)) {
		return false, nil
	}

	raw, release, err := mapFile(path)
	if err != nil {
		return false, err
	}
	defer release()

	return hash.Digest(raw) == hash.Digest(content), nil
}

func writeAtomic(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	// Create temp file in same directory so the rename stays on one file system.
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)

		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)

		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", path, err)
	}

	return nil
}
