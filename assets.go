package finmemo

import (
	"html/template"

	"github.com/alnah/go-finmemo/internal/imaging"
	"github.com/alnah/go-finmemo/internal/typeset"
)

// EncodeAssets converts the uploads into inline data URIs and picks the cover
// fit. Missing files yield empty URIs; at most MaxPropertyImages property
// images are kept, in upload order.
func EncodeAssets(files Files, fitTolerance float64) AssetBundle {
	bundle := AssetBundle{
		CoverImage:     encodeFile(files.CoverImage),
		Logo:           encodeFile(files.Logo),
		FooterLogo:     encodeFile(files.FooterLogo),
		PropertyImages: []template.URL{},
		CoverFit:       FitContain,
	}

	for _, f := range files.PropertyImages {
		if len(bundle.PropertyImages) == MaxPropertyImages {
			break
		}
		if uri := encodeFile(f); uri != "" {
			bundle.PropertyImages = append(bundle.PropertyImages, uri)
		}
	}

	if !files.CoverImage.Empty() {
		bundle.CoverDimensions, bundle.CoverProbed = imaging.ProbeFile(files.CoverImage.Name, files.CoverImage.Data)
		bundle.CoverFit = imaging.ChooseFit(bundle.CoverDimensions, bundle.CoverProbed, imaging.CoverFrameRatio, fitTolerance)
	}
	return bundle
}

// encodeFile is the single point where upload bytes become a trusted URL.
// The MIME part is either a parsed image media type or a sniffed one.
func encodeFile(f *File) template.URL {
	if f.Empty() {
		return ""
	}
	return template.URL(imaging.Encode(f.Data, f.ContentType)) // #nosec G203 -- data URI built from bytes, not user markup
}

// coverImage returns the typesetter's copy of the cover photograph, or nil.
func coverImage(f *File) *typeset.Image {
	if f.Empty() {
		return nil
	}
	mime := imaging.ResolveMIME(f.Data, f.ContentType)
	return &typeset.Image{Data: f.Data, Ext: imaging.Extension(mime, f.Name)}
}
