package vision

import "fmt"

// Heatmap is a normalized 2-D activation field with values in [0,1], sized
// to the classifier's last feature-extraction layer.
type Heatmap struct {
	Values []float32
	Width  int
	Height int
}

// GradCAM reduces captured feature maps and gradients to a normalized
// class-activation heatmap: the gradients are averaged over the spatial axes
// to per-channel importance weights, the feature maps are summed with those
// weights, negatives are clipped to zero, and the result is divided by its
// maximum plus epsilon. The ReLU must happen before normalization; reversing
// the order changes results.
func GradCAM(features, gradients []float32, height, width, channels int, epsilon float32) (*Heatmap, error) {
	n := height * width * channels
	if len(features) != n || len(gradients) != n {
		return nil, fmt.Errorf("activation size mismatch: want %d values, got %d features and %d gradients",
			n, len(features), len(gradients))
	}
	if n == 0 {
		return nil, fmt.Errorf("empty activation volume %dx%dx%d", height, width, channels)
	}

	pooled := make([]float32, channels)
	for i, g := range gradients {
		pooled[i%channels] += g
	}
	area := float32(height * width)
	for c := range pooled {
		pooled[c] /= area
	}

	values := make([]float32, height*width)
	var max float32
	for p := 0; p < height*width; p++ {
		var sum float32
		base := p * channels
		for c := 0; c < channels; c++ {
			sum += features[base+c] * pooled[c]
		}
		if sum < 0 {
			sum = 0
		}
		values[p] = sum
		if sum > max {
			max = sum
		}
	}

	denom := max + epsilon
	for p := range values {
		values[p] /= denom
	}

	return &Heatmap{Values: values, Width: width, Height: height}, nil
}
