package processor

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// HasAlphaOrPalette reports whether img uses a color model the JPEG codec
// cannot carry as is. Only the opaque YCbCr, gray and CMYK models pass; every
// other model, including palettes and NYCbCrA from WebP, is converted.
func HasAlphaOrPalette(img image.Image) bool {
	switch img.ColorModel() {
	case color.YCbCrModel, color.GrayModel, color.Gray16Model, color.CMYKModel:
		return false
	}
	return true
}

// ToRGB returns img unchanged when it has no alpha or palette. Otherwise it
// returns an opaque image: the color channels are kept and alpha is dropped,
// not blended against a background.
func ToRGB(img image.Image) image.Image {
	if !HasAlphaOrPalette(img) {
		return img
	}

	// The luma and chroma planes of NYCbCrA are stored unpremultiplied.
	if src, ok := img.(*image.NYCbCrA); ok {
		ycc := src.YCbCr
		return &ycc
	}

	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}
