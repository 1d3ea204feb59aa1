package imaging

import (
	"math"
	"path/filepath"
	"strings"
)

// Fit is how the cover photograph fills its frame.
type Fit string

const (
	// FitCover fills the frame; only used when the image already matches it.
	FitCover Fit = "cover"
	// FitContain scales the whole image into the frame without cropping.
	FitContain Fit = "contain"
)

// CoverFrameRatio is the cover photo frame: full A4 width over half its height.
const CoverFrameRatio = 210.0 / 148.5

// DefaultFitTolerance is the relative aspect-ratio difference still filled.
const DefaultFitTolerance = 0.02

// ChooseFit returns FitCover when the image aspect ratio is within tolerance
// of frameRatio, FitContain otherwise. Unknown dimensions always contain.
func ChooseFit(dim Dimensions, ok bool, frameRatio, tolerance float64) Fit {
	if !ok || dim.Width <= 0 || dim.Height <= 0 || frameRatio <= 0 {
		return FitContain
	}
	if tolerance < 0 {
		tolerance = 0
	}
	if math.Abs(dim.Ratio()-frameRatio)/frameRatio <= tolerance {
		return FitCover
	}
	return FitContain
}

// Extension picks the file suffix handed to the typesetter: the declared MIME
// type wins, then the upload name, then ".png".
func Extension(contentType, filename string) string {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "jpeg"), strings.Contains(ct, "jpg"):
		return ".jpg"
	case strings.Contains(ct, "png"):
		return ".png"
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return ".jpg"
	}
	return ".png"
}
