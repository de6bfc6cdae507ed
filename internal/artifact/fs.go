package artifact

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// file is the subset of *os.File behaviour the writer needs.
type file interface {
	Write([]byte) (int, error)
	Close() error
	Name() string
}

// fileSystem abstracts the operations behind create and append writes.
type fileSystem interface {
	MkdirAll(string, fs.FileMode) error
	CreateTemp(string, string) (file, error)
	OpenAppend(string) (file, error)
	ReadFile(string) ([]byte, error)
	Lstat(string) (fs.FileInfo, error)
	Chmod(string, fs.FileMode) error
	Rename(string, string) error
	Remove(string) error
}

// osFileSystem implements fileSystem using the os package.
type osFileSystem struct{}

func (osFileSystem) MkdirAll(path string, perm fs.FileMode) error { return os.MkdirAll(path, perm) }
func (osFileSystem) CreateTemp(dir, pattern string) (file, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return nil, err
	}
	return f, nil
}
func (osFileSystem) OpenAppend(name string) (file, error) {
	// #nosec G304 -- artifact paths are derived from the project layout
	f, err := os.OpenFile(name, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (osFileSystem) ReadFile(name string) ([]byte, error) {
	// #nosec G304 -- artifact paths are derived from the project layout
	return os.ReadFile(name)
}
func (osFileSystem) Lstat(name string) (fs.FileInfo, error)    { return os.Lstat(name) }
func (osFileSystem) Chmod(name string, perm fs.FileMode) error { return os.Chmod(name, perm) }
func (osFileSystem) Rename(oldpath, newpath string) error      { return os.Rename(oldpath, newpath) }
func (osFileSystem) Remove(name string) error                  { return os.Remove(name) }

// createAtomic writes data to a temporary file in the target directory and
// renames it into place. The parent directory must already exist.
func createAtomic(fsys fileSystem, path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := fsys.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		// #nosec G104 -- cleanup best-effort during write failure
		tmp.Close()
		// #nosec G104 -- cleanup best-effort during write failure
		fsys.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		// #nosec G104 -- cleanup best-effort on close failure
		fsys.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := fsys.Chmod(tmpName, perm); err != nil {
		// #nosec G104 -- cleanup best-effort on chmod failure
		fsys.Remove(tmpName)
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}

	if err := fsys.Rename(tmpName, path); err != nil {
		// #nosec G104 -- cleanup best-effort on rename failure
		fsys.Remove(tmpName)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// appendBlock writes the separator and content with a single write call.
func appendBlock(fsys fileSystem, path string, data []byte) error {
	f, err := fsys.OpenAppend(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		// #nosec G104 -- the write error is the one worth reporting
		f.Close()
		return err
	}
	return f.Close()
}
