package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradCAMReduction(t *testing.T) {
	// 1x2 spatial grid, 2 channels, HWC layout.
	// Gradients pool to per-channel means: ch0 = (1+3)/2 = 2, ch1 = (2+0)/2 = 1.
	gradients := []float32{
		1, 2,
		3, 0,
	}
	// Weighted sums: pixel0 = 1*2 + 0*1 = 2, pixel1 = 2*2 + 1*1 = 5.
	features := []float32{
		1, 0,
		2, 1,
	}

	hm, err := GradCAM(features, gradients, 1, 2, 2, 1e-8)
	require.NoError(t, err)
	require.Equal(t, 2, hm.Width)
	require.Equal(t, 1, hm.Height)
	require.Len(t, hm.Values, 2)

	assert.InDelta(t, 2.0/5.0, hm.Values[0], 1e-6)
	assert.InDelta(t, 1.0, hm.Values[1], 1e-6)
}

func TestGradCAMRange(t *testing.T) {
	features := []float32{0.5, -1.2, 3.7, 0.1, -0.4, 2.2}
	gradients := []float32{1.5, -0.3, 0.8, -2.0, 0.9, 0.2}

	hm, err := GradCAM(features, gradients, 3, 2, 1, 1e-8)
	require.NoError(t, err)

	var max float32
	for _, v := range hm.Values {
		assert.GreaterOrEqual(t, v, float32(0))
		assert.LessOrEqual(t, v, float32(1))
		if v > max {
			max = v
		}
	}
	assert.InDelta(t, 1.0, max, 1e-6, "heatmap max should normalize to ~1")
}

func TestGradCAMReluBeforeNormalize(t *testing.T) {
	// One strongly negative pixel must clip to zero, not drag the scale.
	features := []float32{-100, 1}
	gradients := []float32{1, 1}

	hm, err := GradCAM(features, gradients, 1, 2, 1, 1e-8)
	require.NoError(t, err)
	assert.Equal(t, float32(0), hm.Values[0])
	assert.InDelta(t, 1.0, hm.Values[1], 1e-6)
}

func TestGradCAMAllNonPositive(t *testing.T) {
	features := []float32{1, 2, 3, 4}
	gradients := []float32{-1, -1, -1, -1}

	hm, err := GradCAM(features, gradients, 2, 2, 1, 1e-8)
	require.NoError(t, err)
	for _, v := range hm.Values {
		assert.Equal(t, float32(0), v)
	}
}

func TestGradCAMSizeMismatch(t *testing.T) {
	_, err := GradCAM([]float32{1, 2}, []float32{1}, 1, 2, 1, 1e-8)
	assert.Error(t, err)

	_, err = GradCAM(nil, nil, 0, 0, 0, 1e-8)
	assert.Error(t, err)
}
