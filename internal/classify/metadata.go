package classify

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/adjei-dev/tremorlens/internal/model"
)

// OptimizerConfig mirrors the optimizer block recorded in each model's config
// file at export time. Both classifiers were compiled with the same fixed
// Adam configuration; a mismatch means the artifact pair is from a different
// training run than this code expects.
type OptimizerConfig struct {
	Name         string  `json:"name"`
	LearningRate float64 `json:"learning_rate"`
	Beta1        float64 `json:"beta_1"`
	Beta2        float64 `json:"beta_2"`
	Epsilon      float64 `json:"epsilon"`
}

var expectedOptimizer = OptimizerConfig{
	Name:         "adam",
	LearningRate: 0.001,
	Beta1:        0.9,
	Beta2:        0.999,
	Epsilon:      1e-07,
}

// Metadata is the architecture description stored alongside each ONNX graph.
type Metadata struct {
	InputName    string          `json:"input_name"`
	LastLayer    string          `json:"last_layer"`
	OutputNames  []string        `json:"output_names"`
	InputShape   []int64         `json:"input_shape"`
	FeatureShape []int64         `json:"feature_shape"`
	Optimizer    OptimizerConfig `json:"optimizer"`
}

func loadMetadata(path string) (*Metadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model config: %w", err)
	}
	var meta Metadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse model config %s: %w", path, err)
	}
	return &meta, nil
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-12
}

// validate checks the metadata against the fixed expectations for the kind:
// a four-dimensional NHWC input matching the kind's canonical size, the
// expected last-layer name, the three capture outputs, and the fixed
// optimizer configuration.
func (m *Metadata) validate(kind model.Kind) error {
	w, h := kind.TargetSize()
	if len(m.InputShape) != 4 {
		return fmt.Errorf("%s: input shape must have 4 dims, got %v", kind, m.InputShape)
	}
	if m.InputShape[0] != 1 || m.InputShape[1] != int64(h) || m.InputShape[2] != int64(w) || m.InputShape[3] != 1 {
		return fmt.Errorf("%s: input shape %v does not match expected [1 %d %d 1]", kind, m.InputShape, h, w)
	}
	if len(m.FeatureShape) != 4 || m.FeatureShape[0] != 1 {
		return fmt.Errorf("%s: feature shape must be [1 h w c], got %v", kind, m.FeatureShape)
	}
	if m.LastLayer != lastLayerNames[kind] {
		return fmt.Errorf("%s: last layer %q does not match expected %q", kind, m.LastLayer, lastLayerNames[kind])
	}
	if m.InputName == "" {
		return fmt.Errorf("%s: input name is required", kind)
	}
	if len(m.OutputNames) != 3 {
		return fmt.Errorf("%s: expected 3 output names (prediction, features, gradients), got %v", kind, m.OutputNames)
	}
	opt := m.Optimizer
	if opt.Name != expectedOptimizer.Name ||
		!floatEq(opt.LearningRate, expectedOptimizer.LearningRate) ||
		!floatEq(opt.Beta1, expectedOptimizer.Beta1) ||
		!floatEq(opt.Beta2, expectedOptimizer.Beta2) ||
		!floatEq(opt.Epsilon, expectedOptimizer.Epsilon) {
		return fmt.Errorf("%s: optimizer config %+v does not match the expected Adam configuration", kind, opt)
	}
	return nil
}
