package assets

import "io/fs"

// Well-known asset names.
const (
	// BodyTemplateName is the html/template rendered into index.html.
	BodyTemplateName = "body"

	// StaticDir holds files copied next to index.html (stylesheet, fonts).
	StaticDir = "static"

	// LatexDir holds the cover entry template and its support files.
	LatexDir = "latex"

	// CoverEntry is the LaTeX file compiled by the typesetter.
	CoverEntry = "cover.tex"
)

// AssetLoader defines the contract for loading memo assets.
type AssetLoader interface {
	// LoadTemplate loads an HTML template by name (without .html extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadTemplate(name string) (string, error)

	// LoadDir returns a read-only view of an asset directory.
	// Returns ErrDirNotFound if the directory doesn't exist.
	LoadDir(name string) (fs.FS, error)
}
