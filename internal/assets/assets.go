package assets

import "io/fs"

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadTemplate loads an HTML template by name using the embedded loader.
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}

// LoadDir returns an embedded asset directory (StaticDir or LatexDir).
func LoadDir(name string) (fs.FS, error) {
	return defaultLoader.LoadDir(name)
}
