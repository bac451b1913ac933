// Package imageprep prepares raster images for OCR.
package imageprep

import (
	"image"

	"github.com/disintegration/imaging"
)

// Preprocessor applies a deterministic sequence of adjustments before OCR:
// grayscale conversion, contrast boost, sharpening. Factors of 1.0 are no-ops.
type Preprocessor struct {
	ContrastFactor  float64
	SharpnessFactor float64
	Grayscale       bool
}

// New creates a Preprocessor with the given enhancement factors.
func New(contrast, sharpness float64, grayscale bool) *Preprocessor {
	return &Preprocessor{
		ContrastFactor:  contrast,
		SharpnessFactor: sharpness,
		Grayscale:       grayscale,
	}
}

// Apply transforms img for OCR. Pure transformation, no failure path.
func (p *Preprocessor) Apply(img image.Image) image.Image {
	if p.Grayscale {
		img = imaging.Grayscale(img)
	}
	if p.ContrastFactor > 1 {
		// imaging expects a percentage delta, the config carries a multiplier.
		img = imaging.AdjustContrast(img, (p.ContrastFactor-1)*100)
	}
	if p.SharpnessFactor > 1 {
		img = imaging.Sharpen(img, p.SharpnessFactor-1)
	}
	return img
}
