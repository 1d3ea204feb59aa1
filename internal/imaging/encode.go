package imaging

import (
	"encoding/base64"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMIME is used when neither the declared type nor sniffing helps.
const DefaultMIME = "application/octet-stream"

// DataURI is a self-contained "data:<mime>;base64,<payload>" reference.
// The zero value means no image.
type DataURI string

// Encode returns the data URI for data. Empty input yields an empty URI.
func Encode(data []byte, contentType string) DataURI {
	if len(data) == 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(len("data:;base64,") + 64 + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString("data:")
	b.WriteString(ResolveMIME(data, contentType))
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return DataURI(b.String())
}

// ResolveMIME returns the declared content type when it names an image,
// otherwise the type sniffed from data. Parameters are dropped.
func ResolveMIME(data []byte, contentType string) string {
	if mt, ok := imageMediaType(contentType); ok {
		return mt
	}
	if len(data) == 0 {
		return DefaultMIME
	}
	detected := mimetype.Detect(data).String()
	if mt, _, err := mime.ParseMediaType(detected); err == nil && mt != "" {
		return mt
	}
	return DefaultMIME
}

func imageMediaType(contentType string) (string, bool) {
	if strings.TrimSpace(contentType) == "" {
		return "", false
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mt, "image/") {
		return "", false
	}
	return mt, true
}
