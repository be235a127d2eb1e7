// Package appfs is the filesystem rooted at the lifesaver application
// directory. It holds the database, the log file and the input draft.
package appfs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	ConfigDir = ".config/lifesaver"
	DraftFile = "draft.yaml"
	LogFile   = "lifesaver.log"
	DBFile    = "lifesaver.db"

	// DefaultMaxInputChars caps how much of the input a draft keeps.
	DefaultMaxInputChars = 200_000
)

// AppFS is a filesystem rooted at the application directory.
type AppFS struct {
	root string
}

// New creates an AppFS rooted at ~/.config/lifesaver/.
func New() (*AppFS, error) {
	return NewWithLocation("")
}

// NewWithLocation creates an AppFS with a custom location.
// An empty location uses ~/.config/lifesaver/, an absolute one is used as
// is and a relative one is resolved under ~/.config/lifesaver/.
func NewWithLocation(location string) (*AppFS, error) {
	var root string
	if filepath.IsAbs(location) {
		root = location
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to find home directory: %w", err)
		}
		root = filepath.Join(homeDir, ConfigDir, location)
	}

	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", root, err)
	}
	return &AppFS{root: root}, nil
}

// NewWithRoot creates an AppFS with a custom root (for testing).
func NewWithRoot(root string) *AppFS {
	return &AppFS{root: root}
}

// Open implements fs.FS
func (a *AppFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	return os.Open(filepath.Join(a.root, name))
}

// ReadFile implements fs.ReadFileFS
func (a *AppFS) ReadFile(name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrInvalid}
	}
	return os.ReadFile(filepath.Join(a.root, name))
}

// WriteFile writes data to a file relative to the root, creating parent
// directories as needed.
func (a *AppFS) WriteFile(name string, data []byte, perm os.FileMode) error {
	if !fs.ValidPath(name) {
		return &fs.PathError{Op: "writefile", Path: name, Err: fs.ErrInvalid}
	}

	fullPath := filepath.Join(a.root, name)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, data, perm)
}

// Remove removes a file relative to the root.
func (a *AppFS) Remove(name string) error {
	if !fs.ValidPath(name) {
		return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrInvalid}
	}
	return os.Remove(filepath.Join(a.root, name))
}

// Root returns the root directory path
func (a *AppFS) Root() string {
	return a.root
}

// Path returns the absolute path of name under the root.
func (a *AppFS) Path(name string) string {
	return filepath.Join(a.root, name)
}

// Draft is the unfinished input kept between sessions.
type Draft struct {
	Input string `yaml:"input"`
	Name  string `yaml:"name"`
}

// SaveDraft stores d, keeping at most maxInputChars characters of the
// input. maxInputChars <= 0 uses DefaultMaxInputChars. An empty draft
// removes the file.
func (a *AppFS) SaveDraft(d Draft, maxInputChars int) error {
	if d.Input == "" && d.Name == "" {
		if err := a.Remove(DraftFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove draft: %w", err)
		}
		return nil
	}

	if maxInputChars <= 0 {
		maxInputChars = DefaultMaxInputChars
	}
	d.Input = truncateRunes(d.Input, maxInputChars)

	data, err := yaml.Marshal(&d)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	if err := a.WriteFile(DraftFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write draft: %w", err)
	}
	return nil
}

// LoadDraft returns the saved draft, or an empty one when none exists.
func (a *AppFS) LoadDraft() (Draft, error) {
	var d Draft

	data, err := a.ReadFile(DraftFile)
	if errors.Is(err, fs.ErrNotExist) {
		return d, nil
	}
	if err != nil {
		return d, fmt.Errorf("failed to read draft: %w", err)
	}

	if err := yaml.Unmarshal(data, &d); err != nil {
		return Draft{}, fmt.Errorf("failed to parse draft: %w", err)
	}
	return d, nil
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
