package budget

import (
	"fmt"
	"os"
	"path/filepath"
)

// FS is the filesystem the engine works against, rooted at the budget
// directory. It is supplied by the caller so the engine never decides how
// exclusivity, locking or backups are handled. All paths are slash-separated
// and relative to the budget root.
type FS interface {
	// ReadFile returns the content of a file.
	ReadFile(name string) ([]byte, error)
	// ReadDir returns the names of the entries in a directory, in no
	// particular order the caller may rely on.
	ReadDir(name string) ([]string, error)
	// WriteFile atomically replaces the content of a file, creating it if
	// needed (write to a temporary file, then rename).
	WriteFile(name string, data []byte) error
	// MkdirAll creates a directory and any missing parents.
	MkdirAll(name string) error
	// Remove deletes a file. Used to roll back a half-finished commit.
	Remove(name string) error
}

// DirFS returns an FS backed by the operating system, rooted at dir.
func DirFS(dir string) FS { return &osFS{root: dir} }

type osFS struct {
	root string
}

func (f *osFS) path(name string) string {
	return filepath.Join(f.root, filepath.FromSlash(name))
}

func (f *osFS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(f.path(name))
}

func (f *osFS) ReadDir(name string) ([]string, error) {
	entries, err := os.ReadDir(f.path(name))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

func (f *osFS) WriteFile(name string, data []byte) error {
	path := f.path(name)
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("could not create temporary file for %q: %w", name, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("could not write %q: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("could not write %q: %w", name, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("could not replace %q: %w", name, err)
	}
	return nil
}

func (f *osFS) MkdirAll(name string) error {
	return os.MkdirAll(f.path(name), 0755)
}

func (f *osFS) Remove(name string) error {
	return os.Remove(f.path(name))
}
