package vision

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adjei-dev/tremorlens/internal/model"
)

func TestProcessShape(t *testing.T) {
	tests := []struct {
		kind       model.Kind
		srcW, srcH int
		wantW      int
		wantH      int
	}{
		{kind: model.KindSpiral, srcW: 640, srcH: 480, wantW: 256, wantH: 256},
		{kind: model.KindSpiral, srcW: 31, srcH: 97, wantW: 256, wantH: 256},
		{kind: model.KindWave, srcW: 640, srcH: 480, wantW: 550, wantH: 250},
		{kind: model.KindWave, srcW: 1100, srcH: 500, wantW: 550, wantH: 250},
	}

	for _, tt := range tests {
		src := image.NewRGBA(image.Rect(0, 0, tt.srcW, tt.srcH))
		got := Process(src, tt.kind)
		assert.Equal(t, tt.wantW, got.Bounds().Dx(), "%s %dx%d", tt.kind, tt.srcW, tt.srcH)
		assert.Equal(t, tt.wantH, got.Bounds().Dy(), "%s %dx%d", tt.kind, tt.srcW, tt.srcH)
	}
}

func TestProcessInvertsExactly(t *testing.T) {
	// Input already at the canonical size, so no resampling happens and the
	// inversion must be exactly 255-v per pixel.
	src := image.NewGray(image.Rect(0, 0, 256, 256))
	for y := 0; y < 256; y++ {
		for x := 0; x < 256; x++ {
			src.SetGray(x, y, color.Gray{Y: uint8((x + y) % 256)})
		}
	}

	got := Process(src, model.KindSpiral)
	require.Equal(t, 256, got.Bounds().Dx())
	for y := 0; y < 256; y++ {
		for x := 0; x < 256; x++ {
			want := 255 - uint8((x+y)%256)
			if got.GrayAt(x, y).Y != want {
				t.Fatalf("pixel (%d,%d): got %d, want %d", x, y, got.GrayAt(x, y).Y, want)
			}
		}
	}
}

func TestProcessExtremesSwap(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 550, 250))
	src.SetGray(0, 0, color.Gray{Y: 255})
	src.SetGray(10, 10, color.Gray{Y: 0})

	got := Process(src, model.KindWave)
	assert.Equal(t, uint8(0), got.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(255), got.GrayAt(10, 10).Y)
}

func TestPrepareForPrediction(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 256, 256))
	for i := range src.Pix {
		src.Pix[i] = 255 // inverts to 0
	}
	src.SetGray(3, 2, color.Gray{Y: 0}) // inverts to 255 -> 1.0

	data, processed := PrepareForPrediction(src, model.KindSpiral)
	require.Len(t, data, 256*256)
	require.Equal(t, 256, processed.Bounds().Dx())
	require.Equal(t, 256, processed.Bounds().Dy())

	assert.InDelta(t, 1.0, data[2*256+3], 1e-6)
	assert.InDelta(t, 0.0, data[0], 1e-6)
	for _, v := range data {
		assert.GreaterOrEqual(t, v, float32(0))
		assert.LessOrEqual(t, v, float32(1))
	}
}

func TestPrepareForPredictionWaveLayout(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 200, 200))
	data, processed := PrepareForPrediction(src, model.KindWave)
	assert.Len(t, data, 550*250)
	assert.Equal(t, 550, processed.Bounds().Dx())
	assert.Equal(t, 250, processed.Bounds().Dy())
}
