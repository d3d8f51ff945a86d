// Package preprocess normalizes label images before OCR. The chain is
// grayscale conversion, a histogram min/max contrast stretch, and a mild
// Gaussian blur to suppress high-frequency noise that confuses Tesseract.
package preprocess

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// blurSigma is deliberately small; heavier blur starts eating thin glyph
// strokes at label resolutions.
const blurSigma = 0.5

// Preprocess returns an OCR-ready copy of img. The input is never modified.
func Preprocess(img image.Image) *image.NRGBA {
	gray := imaging.Grayscale(img)
	stretched := stretchContrast(gray)
	return imaging.Blur(stretched, blurSigma)
}

// File opens the image at path and preprocesses it. Open or decode failures
// are wrapped and returned; preprocessing itself is not retried.
func File(path string) (*image.NRGBA, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", path, err)
	}
	return Preprocess(img), nil
}

// stretchContrast remaps pixel intensities so the darkest observed value
// becomes 0 and the brightest becomes 255. A flat image is returned as is.
func stretchContrast(gray *image.NRGBA) *image.NRGBA {
	lo, hi := intensityRange(gray)
	if hi <= lo {
		return gray
	}
	scale := 255.0 / float64(hi-lo)
	return imaging.AdjustFunc(gray, func(c color.NRGBA) color.NRGBA {
		// Already grayscale, so the red channel carries the intensity.
		v := float64(int(c.R)-int(lo)) * scale
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		b := uint8(v + 0.5)
		return color.NRGBA{R: b, G: b, B: b, A: c.A}
	})
}

func intensityRange(gray *image.NRGBA) (lo, hi uint8) {
	lo, hi = 255, 0
	bounds := gray.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := gray.Pix[gray.PixOffset(bounds.Min.X, y):gray.PixOffset(bounds.Max.X, y)]
		for i := 0; i < len(row); i += 4 {
			v := row[i]
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	return lo, hi
}
