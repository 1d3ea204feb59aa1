package assets

import "fmt"

// maxNameLen bounds template and directory names. The memo layout uses short
// words like "body", "static" and "latex".
const maxNameLen = 64

// ValidateAssetName checks a template name such as BodyTemplateName before it
// is turned into templates/{name}.html. Only ASCII letters, digits, '-' and
// '_' are allowed, so the name can neither leave the templates directory nor
// change the .html extension.
func ValidateAssetName(name string) error {
	return checkName("template", name)
}

// ValidateDirName checks a directory name such as StaticDir or LatexDir
// before it is resolved under the asset root. The rules match
// ValidateAssetName: a single path element, never "." or "..".
func ValidateDirName(name string) error {
	return checkName("directory", name)
}

func checkName(kind, name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty %s name", ErrInvalidAssetName, kind)
	}
	if len(name) > maxNameLen {
		return fmt.Errorf("%w: %s name longer than %d bytes", ErrInvalidAssetName, kind, maxNameLen)
	}
	for i := 0; i < len(name); i++ {
		if !nameByte(name[i]) {
			return fmt.Errorf("%w: %s %q has %q at offset %d", ErrInvalidAssetName, kind, name, name[i], i)
		}
	}
	return nil
}

func nameByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_':
		return true
	}
	return false
}
