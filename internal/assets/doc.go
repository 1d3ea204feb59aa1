// Package assets provides the body template, stylesheet and LaTeX cover
// sources used to render a finance memorandum.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in memo)
//	    ├── FilesystemLoader  - loads from a custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// Directories (static files copied next to the rendered body, LaTeX support
// files copied into the typesetting workspace) are resolved as an overlay:
// files present in the custom directory shadow the embedded ones, everything
// else falls through.
//
// # Directory Structure
//
//	{basePath}/
//	├── templates/
//	│   └── body.html           # html/template source of the memo body
//	├── static/
//	│   └── memo.css            # stylesheet, fonts, any file the body links
//	└── latex/
//	    └── cover.tex           # cover entry template, reads cover-data.tex
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
