package report

import (
	"fmt"
	"image"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adjei-dev/tremorlens/internal/model"
)

type stubProvider struct {
	predictions map[model.Kind]float32
	failKind    model.Kind
}

func (s *stubProvider) Activations(kind model.Kind, input []float32) (*model.Activations, error) {
	if kind == s.failKind {
		return nil, fmt.Errorf("inference blew up")
	}
	// 2x2 spatial grid, one channel, with a single hot corner.
	return &model.Activations{
		Prediction: s.predictions[kind],
		Features:   []float32{1, 0.25, 0.25, 0},
		Gradients:  []float32{1, 1, 1, 1},
		Height:     2,
		Width:      2,
		Channels:   1,
	}, nil
}

func testImages() (image.Image, image.Image) {
	return image.NewGray(image.Rect(0, 0, 256, 256)), image.NewGray(image.Rect(0, 0, 550, 250))
}

func TestGenerateNegativeReport(t *testing.T) {
	g := NewGenerator(&stubProvider{predictions: map[model.Kind]float32{
		model.KindSpiral: 0.3,
		model.KindWave:   0.9,
	}})
	g.now = func() time.Time { return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC) }

	spiral, wave := testImages()
	rep, err := g.Generate(spiral, wave, model.UserInfo{Name: "Ama Mensah", Age: 42, Gender: "Female"})
	require.NoError(t, err)

	assert.False(t, rep.Result.Positive)
	assert.InDelta(t, 0.3, rep.Result.Confidence, 1e-6)
	assert.InDelta(t, 0.3, rep.SpiralScore, 1e-6)
	assert.InDelta(t, 0.9, rep.WaveScore, 1e-6)

	assert.Contains(t, rep.HTML, "Ama Mensah")
	assert.Contains(t, rep.HTML, "42")
	assert.Contains(t, rep.HTML, "Female")
	assert.Contains(t, rep.HTML, "March 14, 2026")
	assert.Contains(t, rep.HTML, "30.00%")
	assert.Contains(t, rep.HTML, "(Negative)")
	assert.Contains(t, rep.HTML, "No significant indicators")
	assert.Contains(t, rep.HTML, "Parkinsons_Report_Ama_Mensah_20260314.pdf")
	assert.Equal(t, 4, strings.Count(rep.HTML, "data:image/png;base64,"),
		"two processed images and two overlays must be embedded")
}

func TestGeneratePositiveReport(t *testing.T) {
	g := NewGenerator(&stubProvider{predictions: map[model.Kind]float32{
		model.KindSpiral: 0.7,
		model.KindWave:   0.6,
	}})

	spiral, wave := testImages()
	rep, err := g.Generate(spiral, wave, model.UserInfo{Name: "Kofi", Age: 55, Gender: "Male"})
	require.NoError(t, err)

	assert.True(t, rep.Result.Positive)
	assert.InDelta(t, 0.7, rep.Result.Confidence, 1e-6)
	assert.Contains(t, rep.HTML, "70.00%")
	assert.Contains(t, rep.HTML, "(Positive)")
	assert.Contains(t, rep.HTML, "potential early signs")
	assert.Contains(t, rep.HTML, "2-4 weeks")
	assert.Contains(t, rep.HTML, "Red regions")
}

func TestGenerateAllOrNothing(t *testing.T) {
	g := NewGenerator(&stubProvider{
		predictions: map[model.Kind]float32{model.KindSpiral: 0.7},
		failKind:    model.KindWave,
	})

	spiral, wave := testImages()
	rep, err := g.Generate(spiral, wave, model.UserInfo{Name: "Kofi", Age: 30, Gender: "Male"})
	assert.Error(t, err)
	assert.Nil(t, rep, "no partial report on failure")
}
