package assets

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed templates/*
var templates embed.FS

//go:embed static latex
var dirs embed.FS

// EmbeddedLoader loads assets from embedded filesystem.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadTemplate loads an HTML template from embedded assets by name.
func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := templates.ReadFile("templates/" + name + ".html")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}

	return string(content), nil
}

// LoadDir returns the embedded directory as an fs.FS rooted at it.
func (e *EmbeddedLoader) LoadDir(name string) (fs.FS, error) {
	if err := ValidateDirName(name); err != nil {
		return nil, err
	}
	if info, err := fs.Stat(dirs, name); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %q", ErrDirNotFound, name)
	}

	sub, err := fs.Sub(dirs, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return sub, nil
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)
