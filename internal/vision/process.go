// Package vision implements the image transform stage: canonical
// preprocessing of uploaded drawings, the activation-heatmap reduction, and
// heatmap overlay rendering.
package vision

import (
	"image"

	"github.com/nfnt/resize"

	"github.com/adjei-dev/tremorlens/internal/model"
)

// Process converts an uploaded image to a single-channel drawing in the
// kind's canonical shape: grayscale, resize, then invert so dark pen strokes
// on a light background become high intensity.
func Process(img image.Image, kind model.Kind) *image.Gray {
	w, h := kind.TargetSize()
	gray := grayscale(img)
	gray = toGray(resize.Resize(uint(w), uint(h), gray, resize.Lanczos3))
	for i, v := range gray.Pix {
		gray.Pix[i] = 255 - v
	}
	return gray
}

// PrepareForPrediction processes the image and returns both the model input
// tensor data (NHWC, single channel, scaled to [0,1]) and the processed
// image used for display. The extra resize guards against any drift between
// the processed shape and the model's expected input.
func PrepareForPrediction(img image.Image, kind model.Kind) ([]float32, *image.Gray) {
	processed := Process(img, kind)

	w, h := kind.TargetSize()
	if processed.Bounds().Dx() != w || processed.Bounds().Dy() != h {
		processed = toGray(resize.Resize(uint(w), uint(h), processed, resize.Lanczos3))
	}

	data := make([]float32, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			data[y*w+x] = float32(processed.GrayAt(x, y).Y) / 255.0
		}
	}
	return data, processed
}

// grayscale always copies into a fresh buffer so the caller's image is never
// mutated by the in-place inversion.
func grayscale(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x-bounds.Min.X, y-bounds.Min.Y, img.At(x, y))
		}
	}
	return gray
}

func toGray(img image.Image) *image.Gray {
	if gray, ok := img.(*image.Gray); ok {
		return gray
	}
	return grayscale(img)
}
