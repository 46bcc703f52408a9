package model

// Activations holds the results of a single captured forward pass: the scalar
// class score plus the last convolutional layer's feature maps and the
// gradient of the score with respect to them. Feature and gradient data are
// laid out HWC (height-major, channel-minor), batch dimension dropped.
type Activations struct {
	Features   []float32
	Gradients  []float32
	Height     int
	Width      int
	Channels   int
	Prediction float32
}
