package classify

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/adjei-dev/tremorlens/internal/model"
)

// Classifier wraps one ONNX session together with its pre-allocated input and
// output tensors. The exported graph has three outputs: the sigmoid class
// score, the last conv layer's feature maps, and the gradient of the score
// with respect to those feature maps (captured at export time).
//
// Because the tensors are reused across runs, inference is serialized with a
// mutex; the session itself is not reentrant.
type Classifier struct {
	session    *ort.AdvancedSession
	input      *ort.Tensor[float32]
	prediction *ort.Tensor[float32]
	features   *ort.Tensor[float32]
	gradients  *ort.Tensor[float32]
	meta       *Metadata
	kind       model.Kind
	mu         sync.Mutex
}

func newClassifier(kind model.Kind, modelPath string, meta *Metadata) (*Classifier, error) {
	input, err := ort.NewEmptyTensor[float32](ort.NewShape(meta.InputShape...))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	prediction, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 1))
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("failed to create prediction tensor: %w", err)
	}

	features, err := ort.NewEmptyTensor[float32](ort.NewShape(meta.FeatureShape...))
	if err != nil {
		input.Destroy()
		prediction.Destroy()
		return nil, fmt.Errorf("failed to create feature tensor: %w", err)
	}

	gradients, err := ort.NewEmptyTensor[float32](ort.NewShape(meta.FeatureShape...))
	if err != nil {
		input.Destroy()
		prediction.Destroy()
		features.Destroy()
		return nil, fmt.Errorf("failed to create gradient tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{meta.InputName}, meta.OutputNames,
		[]ort.ArbitraryTensor{input},
		[]ort.ArbitraryTensor{prediction, features, gradients},
		nil)
	if err != nil {
		input.Destroy()
		prediction.Destroy()
		features.Destroy()
		gradients.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session for %s: %w", kind, err)
	}

	return &Classifier{
		session:    session,
		input:      input,
		prediction: prediction,
		features:   features,
		gradients:  gradients,
		meta:       meta,
		kind:       kind,
	}, nil
}

// Predict runs a forward pass and returns the scalar class score.
func (c *Classifier) Predict(input []float32) (float32, error) {
	acts, err := c.PredictWithActivations(input)
	if err != nil {
		return 0, err
	}
	return acts.Prediction, nil
}

// PredictWithActivations runs a forward pass and returns the class score
// along with copies of the captured feature maps and gradients. The copies
// are the caller's to keep; the backing tensors are reused on the next run.
func (c *Classifier) PredictWithActivations(input []float32) (*model.Activations, error) {
	expected := int(c.meta.InputShape[1] * c.meta.InputShape[2] * c.meta.InputShape[3])
	if len(input) != expected {
		return nil, fmt.Errorf("%s: expected %d input values, got %d", c.kind, expected, len(input))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	copy(c.input.GetData(), input)
	if err := c.session.Run(); err != nil {
		return nil, fmt.Errorf("%s inference failed: %w", c.kind, err)
	}

	features := make([]float32, len(c.features.GetData()))
	copy(features, c.features.GetData())
	gradients := make([]float32, len(c.gradients.GetData()))
	copy(gradients, c.gradients.GetData())

	return &model.Activations{
		Prediction: c.prediction.GetData()[0],
		Features:   features,
		Gradients:  gradients,
		Height:     int(c.meta.FeatureShape[1]),
		Width:      int(c.meta.FeatureShape[2]),
		Channels:   int(c.meta.FeatureShape[3]),
	}, nil
}

// dryRun validates the session with a zero-filled input of the correct
// shape. An architecture/weight mismatch surfaces here instead of on the
// first real request.
func (c *Classifier) dryRun() error {
	zeros := make([]float32, c.meta.InputShape[1]*c.meta.InputShape[2]*c.meta.InputShape[3])
	if _, err := c.Predict(zeros); err != nil {
		return fmt.Errorf("%s dry-run prediction failed: %w", c.kind, err)
	}
	return nil
}

func (c *Classifier) destroy() {
	if c.input != nil {
		c.input.Destroy()
	}
	if c.prediction != nil {
		c.prediction.Destroy()
	}
	if c.features != nil {
		c.features.Destroy()
	}
	if c.gradients != nil {
		c.gradients.Destroy()
	}
	if c.session != nil {
		c.session.Destroy()
	}
}
