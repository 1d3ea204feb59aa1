package assets

import (
	"errors"
	"io/fs"
	"sort"
)

// AssetResolver combines custom and embedded loaders with fallback logic.
// When a custom loader is configured, it tries custom first, then falls back
// to embedded if the asset is not found in the custom location.
type AssetResolver struct {
	custom   AssetLoader // nil if no custom path configured
	embedded AssetLoader
}

// NewAssetResolver creates an AssetResolver.
// If customBasePath is empty, only embedded assets are used.
// Returns error if customBasePath is set but invalid.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	resolver := &AssetResolver{
		embedded: NewEmbeddedLoader(),
	}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}

	return resolver, nil
}

// LoadTemplate loads a template, trying the custom loader first if available.
func (r *AssetResolver) LoadTemplate(name string) (string, error) {
	if r.custom == nil {
		return r.embedded.LoadTemplate(name)
	}

	content, err := r.custom.LoadTemplate(name)
	if err == nil {
		return content, nil
	}

	// Only fall back for "not found" errors, not validation or I/O errors
	if !isNotFoundError(err) {
		return "", err
	}

	return r.embedded.LoadTemplate(name)
}

// LoadDir returns the custom directory layered over the embedded one.
// Files in the custom directory shadow embedded files with the same path.
func (r *AssetResolver) LoadDir(name string) (fs.FS, error) {
	lower, lowerErr := r.embedded.LoadDir(name)
	if lowerErr != nil && !isNotFoundError(lowerErr) {
		return nil, lowerErr
	}
	if r.custom == nil {
		return lower, lowerErr
	}

	upper, err := r.custom.LoadDir(name)
	if err != nil {
		if !isNotFoundError(err) {
			return nil, err
		}
		return lower, lowerErr
	}
	if lowerErr != nil {
		return upper, nil
	}
	return overlayFS{upper: upper, lower: lower}, nil
}

// isNotFoundError checks if the error indicates the asset was not found.
func isNotFoundError(err error) bool {
	return errors.Is(err, ErrTemplateNotFound) ||
		errors.Is(err, ErrDirNotFound)
}

// HasCustomLoader returns true if a custom asset loader is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// overlayFS serves files from upper, then lower. Directory listings merge
// both layers, with upper entries winning on name clashes.
type overlayFS struct {
	upper, lower fs.FS
}

func (o overlayFS) Open(name string) (fs.File, error) {
	f, err := o.upper.Open(name)
	if err != nil {
		return o.lower.Open(name)
	}
	if info, statErr := f.Stat(); statErr == nil && !info.IsDir() {
		return f, nil
	}
	if lf, lowerErr := o.lower.Open(name); lowerErr == nil {
		_ = f.Close()
		return lf, nil
	}
	return f, nil
}

func (o overlayFS) ReadDir(name string) ([]fs.DirEntry, error) {
	upper, upperErr := fs.ReadDir(o.upper, name)
	lower, lowerErr := fs.ReadDir(o.lower, name)
	if upperErr != nil && lowerErr != nil {
		return nil, lowerErr
	}

	seen := make(map[string]bool, len(upper)+len(lower))
	merged := make([]fs.DirEntry, 0, len(upper)+len(lower))
	for _, e := range upper {
		seen[e.Name()] = true
		merged = append(merged, e)
	}
	for _, e := range lower {
		if !seen[e.Name()] {
			merged = append(merged, e)
		}
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Name() < merged[j].Name() })
	return merged, nil
}

// Compile-time interface checks.
var (
	_ AssetLoader  = (*AssetResolver)(nil)
	_ fs.ReadDirFS = overlayFS{}
)
