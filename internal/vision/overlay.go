package vision

import (
	"image"

	"github.com/adjei-dev/tremorlens/internal/model"
)

// Overlay composites a heatmap onto a processed drawing: the heatmap is
// bilinearly resized to the image dimensions, scaled to 8-bit, smoothed with
// a 3x3 Gaussian kernel, false-colored with a jet palette, and alpha-blended
// onto the grayscale base. Pass alpha <= 0 to use the kind's default blend
// weight.
func Overlay(hm *Heatmap, base *image.Gray, kind model.Kind, alpha float64) *image.RGBA {
	if alpha <= 0 {
		alpha = kind.OverlayAlpha()
	}

	bounds := base.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	field := resizeBilinear(hm.Values, hm.Width, hm.Height, w, h)
	intensity := make([]uint8, w*h)
	for i, v := range field {
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		intensity[i] = uint8(v*255 + 0.5)
	}
	intensity = gaussian3x3(intensity, w, h)

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			hr, hg, hb := jet(intensity[y*w+x])
			g := float64(base.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y)

			i := out.PixOffset(x, y)
			out.Pix[i+0] = blend(float64(hr), g, alpha)
			out.Pix[i+1] = blend(float64(hg), g, alpha)
			out.Pix[i+2] = blend(float64(hb), g, alpha)
			out.Pix[i+3] = 255
		}
	}
	return out
}

func blend(heat, base, alpha float64) uint8 {
	v := heat*alpha + base*(1-alpha)
	if v > 255 {
		v = 255
	}
	return uint8(v + 0.5)
}

// resizeBilinear resamples a float field with half-pixel-centered sampling,
// before quantization so no precision is lost in the upsample.
func resizeBilinear(src []float32, srcW, srcH, dstW, dstH int) []float32 {
	dst := make([]float32, dstW*dstH)
	scaleX := float64(srcW) / float64(dstW)
	scaleY := float64(srcH) / float64(dstH)

	for y := 0; y < dstH; y++ {
		sy := (float64(y)+0.5)*scaleY - 0.5
		y0 := int(sy)
		if sy < 0 {
			sy, y0 = 0, 0
		}
		y1 := y0 + 1
		if y1 > srcH-1 {
			y1 = srcH - 1
		}
		fy := float32(sy - float64(y0))

		for x := 0; x < dstW; x++ {
			sx := (float64(x)+0.5)*scaleX - 0.5
			x0 := int(sx)
			if sx < 0 {
				sx, x0 = 0, 0
			}
			x1 := x0 + 1
			if x1 > srcW-1 {
				x1 = srcW - 1
			}
			fx := float32(sx - float64(x0))

			top := src[y0*srcW+x0]*(1-fx) + src[y0*srcW+x1]*fx
			bottom := src[y1*srcW+x0]*(1-fx) + src[y1*srcW+x1]*fx
			dst[y*dstW+x] = top*(1-fy) + bottom*fy
		}
	}
	return dst
}

// gaussian3x3 applies a separable [1 2 1]/4 blur with clamped edges.
func gaussian3x3(src []uint8, w, h int) []uint8 {
	clampX := func(x int) int {
		if x < 0 {
			return 0
		}
		if x > w-1 {
			return w - 1
		}
		return x
	}
	clampY := func(y int) int {
		if y < 0 {
			return 0
		}
		if y > h-1 {
			return h - 1
		}
		return y
	}

	tmp := make([]uint16, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum := uint16(src[y*w+clampX(x-1)]) + 2*uint16(src[y*w+x]) + uint16(src[y*w+clampX(x+1)])
			tmp[y*w+x] = sum
		}
	}

	out := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum := tmp[clampY(y-1)*w+x] + 2*tmp[y*w+x] + tmp[clampY(y+1)*w+x]
			out[y*w+x] = uint8((sum + 8) / 16)
		}
	}
	return out
}

// jet maps an 8-bit intensity through a blue-green-yellow-red diverging
// palette.
func jet(v uint8) (r, g, b uint8) {
	x := float64(v) / 255.0
	r = jetChannel(1.5 - abs(4*x-3))
	g = jetChannel(1.5 - abs(4*x-2))
	b = jetChannel(1.5 - abs(4*x-1))
	return r, g, b
}

func jetChannel(v float64) uint8 {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return uint8(v*255 + 0.5)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
