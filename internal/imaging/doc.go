// Package imaging turns uploaded image bytes into inline data URIs and reads
// raster dimensions from PNG and JPEG headers to pick a cover fit.
//
// Dimension probing never decodes pixels; it is a layout hint only. Any input
// it does not understand reports unknown dimensions instead of an error.
package imaging
