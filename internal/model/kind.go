package model

import "fmt"

// Kind identifies which of the two drawing classifiers an image is meant for.
type Kind string

const (
	KindSpiral Kind = "spiral"
	KindWave   Kind = "wave"
)

// Kinds lists all drawing kinds in the order they appear in reports.
var Kinds = []Kind{KindSpiral, KindWave}

// TargetSize returns the canonical processed-image dimensions for the kind.
// Spiral drawings are square; wave drawings are wide and short.
func (k Kind) TargetSize() (width, height int) {
	switch k {
	case KindWave:
		return 550, 250
	default:
		return 256, 256
	}
}

// NormEpsilon is the denominator guard used when normalizing the kind's
// activation heatmap. The two values are calibration constants carried over
// from model training and must not be unified.
func (k Kind) NormEpsilon() float32 {
	if k == KindWave {
		return 1e-10
	}
	return 1e-8
}

// OverlayAlpha is the default heatmap blend weight for the kind. Wave
// heatmaps tend to be visually subtle, so they get a heavier weight.
func (k Kind) OverlayAlpha() float64 {
	if k == KindWave {
		return 0.7
	}
	return 0.4
}

// Validate rejects unknown kinds.
func (k Kind) Validate() error {
	switch k {
	case KindSpiral, KindWave:
		return nil
	}
	return fmt.Errorf("unknown drawing kind: %q", string(k))
}
