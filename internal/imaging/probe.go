package imaging

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"strings"
)

// Dimensions is an image size in pixels.
type Dimensions struct {
	Width  int
	Height int
}

// Ratio returns width divided by height.
func (d Dimensions) Ratio() float64 {
	if d.Height == 0 {
		return 0
	}
	return float64(d.Width) / float64(d.Height)
}

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// Probe reads the pixel size from a PNG or JPEG header. The boolean is false
// for unsupported formats, truncated headers and zero sizes.
func Probe(data []byte) (Dimensions, bool) {
	switch {
	case bytes.HasPrefix(data, pngSignature):
		return probePNG(data)
	case len(data) >= 2 && data[0] == 0xFF && data[1] == 0xD8:
		return probeJPEG(data)
	}
	return Dimensions{}, false
}

// ProbeFile is Probe for an upload. A file name whose extension is neither
// PNG nor JPEG makes the size unknown, since the layout hint cannot be
// trusted for a file that misnames itself.
func ProbeFile(name string, data []byte) (Dimensions, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case "", ".png", ".jpg", ".jpeg":
		return Probe(data)
	}
	return Dimensions{}, false
}

// probePNG reads the IHDR chunk that must follow the signature.
func probePNG(data []byte) (Dimensions, bool) {
	// signature(8) length(4) "IHDR"(4) width(4) height(4)
	if len(data) < 24 || string(data[12:16]) != "IHDR" {
		return Dimensions{}, false
	}
	d := Dimensions{
		Width:  int(binary.BigEndian.Uint32(data[16:20])),
		Height: int(binary.BigEndian.Uint32(data[20:24])),
	}
	return d, d.Width > 0 && d.Height > 0
}

// probeJPEG walks marker segments until a start-of-frame segment.
func probeJPEG(data []byte) (Dimensions, bool) {
	i := 2
	for i+4 <= len(data) {
		if data[i] != 0xFF {
			return Dimensions{}, false
		}
		marker := data[i+1]
		switch {
		case marker == 0xFF:
			// fill byte
			i++
			continue
		case marker == 0xD8 || marker == 0x01 || (marker >= 0xD0 && marker <= 0xD7):
			// standalone markers carry no length
			i += 2
			continue
		case marker == 0xD9 || marker == 0xDA:
			// end of image, or entropy-coded data before any frame header
			return Dimensions{}, false
		}

		length := int(binary.BigEndian.Uint16(data[i+2 : i+4]))
		if length < 2 {
			return Dimensions{}, false
		}
		if isStartOfFrame(marker) {
			// length(2) precision(1) height(2) width(2)
			if i+9 > len(data) {
				return Dimensions{}, false
			}
			d := Dimensions{
				Height: int(binary.BigEndian.Uint16(data[i+5 : i+7])),
				Width:  int(binary.BigEndian.Uint16(data[i+7 : i+9])),
			}
			return d, d.Width > 0 && d.Height > 0
		}
		i += 2 + length
	}
	return Dimensions{}, false
}

// isStartOfFrame excludes DHT (C4), JPG (C8) and DAC (CC), which share the range.
func isStartOfFrame(marker byte) bool {
	return marker >= 0xC0 && marker <= 0xCF &&
		marker != 0xC4 && marker != 0xC8 && marker != 0xCC
}
