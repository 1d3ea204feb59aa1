// Package fileutil provides per-invocation workspaces and path helpers.
package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrInvalidFileName = errors.New("file name must be a bare name inside the workspace")
)

// Workspace is a freshly created temporary directory owned by one invocation.
// Callers must defer Remove right after NewWorkspace succeeds.
type Workspace struct {
	dir string
}

// NewWorkspace creates an empty directory under the system temp dir.
// The prefix is embedded in the directory name to ease debugging.
func NewWorkspace(prefix string) (*Workspace, error) {
	dir, err := os.MkdirTemp("", "finmemo-"+prefix+"-*")
	if err != nil {
		return nil, fmt.Errorf("creating workspace: %w", err)
	}
	return &Workspace{dir: dir}, nil
}

// Dir returns the absolute workspace path.
func (w *Workspace) Dir() string { return w.dir }

// Path joins a bare file name onto the workspace directory.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.dir, name)
}

// WriteFile writes data to a bare file name inside the workspace.
func (w *Workspace) WriteFile(name string, data []byte) error {
	if err := validateFileName(name); err != nil {
		return err
	}
	if err := os.WriteFile(w.Path(name), data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// ReadFile reads a bare file name from the workspace.
func (w *Workspace) ReadFile(name string) ([]byte, error) {
	if err := validateFileName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(w.Path(name)) // #nosec G304 -- name validated above
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

// CopyFS copies every regular file of fsys into the workspace, keeping the
// directory layout. Existing files are overwritten.
func (w *Workspace) CopyFS(fsys fs.FS) error {
	return fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(w.dir, filepath.FromSlash(path))
		if d.IsDir() {
			return os.MkdirAll(target, 0o700)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("copying %s: %w", path, err)
		}
		return os.WriteFile(target, data, 0o600)
	})
}

// Remove deletes the workspace and everything in it. Safe to call twice.
func (w *Workspace) Remove() error {
	if w == nil || w.dir == "" {
		return nil
	}
	if err := os.RemoveAll(w.dir); err != nil {
		return fmt.Errorf("removing workspace: %w", err)
	}
	return nil
}

func validateFileName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\\\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidFileName, name)
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists returns true if the path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
