package fusion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFuse(t *testing.T) {
	tests := []struct {
		name           string
		spiral         float64
		wave           float64
		wantPositive   bool
		wantConfidence float64
		wantSource     string
	}{
		{
			name:           "spiral negative dominates despite high wave",
			spiral:         0.3,
			wave:           0.9,
			wantPositive:   false,
			wantConfidence: 0.3,
			wantSource:     "Negative",
		},
		{
			name:           "wave negative dominates despite positive spiral",
			spiral:         0.8,
			wave:           0.4,
			wantPositive:   false,
			wantConfidence: 0.4,
			wantSource:     "Negative",
		},
		{
			name:           "both positive takes the higher score",
			spiral:         0.7,
			wave:           0.6,
			wantPositive:   true,
			wantConfidence: 0.7,
			wantSource:     "Positive",
		},
		{
			name:           "both positive wave higher",
			spiral:         0.55,
			wave:           0.95,
			wantPositive:   true,
			wantConfidence: 0.95,
			wantSource:     "Positive",
		},
		{
			name:           "spiral exactly at threshold is negative",
			spiral:         0.5,
			wave:           0.9,
			wantPositive:   false,
			wantConfidence: 0.5,
			wantSource:     "Negative",
		},
		{
			name:           "wave exactly at threshold is negative",
			spiral:         0.9,
			wave:           0.5,
			wantPositive:   false,
			wantConfidence: 0.5,
			wantSource:     "Negative",
		},
		{
			name:           "both negative reports the spiral score",
			spiral:         0.2,
			wave:           0.1,
			wantPositive:   false,
			wantConfidence: 0.2,
			wantSource:     "Negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fuse(tt.spiral, tt.wave)
			assert.Equal(t, tt.wantPositive, got.Positive)
			assert.InDelta(t, tt.wantConfidence, got.Confidence, 1e-12)
			assert.Equal(t, tt.wantSource, got.Source)
		})
	}
}

func TestFuseConjunctiveProperty(t *testing.T) {
	scores := []float64{0, 0.1, 0.3, 0.5, 0.51, 0.7, 0.9, 1}
	for _, spiral := range scores {
		for _, wave := range scores {
			got := Fuse(spiral, wave)
			assert.Equal(t, spiral > Threshold && wave > Threshold, got.Positive,
				"spiral=%v wave=%v", spiral, wave)
		}
	}
}

func TestFuseNarrative(t *testing.T) {
	low := Fuse(0.3, 0.9)
	assert.Contains(t, low.Message, "No significant indicators")
	assert.Contains(t, low.NextSteps, "regular health check-ups")
	assert.NotContains(t, low.HeatmapGuide, "Red regions")

	high := Fuse(0.7, 0.6)
	assert.Contains(t, high.Message, "potential early signs")
	assert.Contains(t, high.NextSteps, "2-4 weeks")
	assert.Contains(t, high.HeatmapGuide, "Red regions")
	assert.Contains(t, high.HeatmapGuide, "Yellow areas")
	assert.Contains(t, high.HeatmapGuide, "Blue areas")
}
