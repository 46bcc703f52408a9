// Package classify loads and serves the two drawing classifiers.
package classify

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/adjei-dev/tremorlens/internal/model"
)

// ErrNotLoaded is returned when a classifier is requested and loading has
// failed or cannot be completed.
var ErrNotLoaded = errors.New("classifiers are not loaded")

var lastLayerNames = map[model.Kind]string{
	model.KindSpiral: "conv2d_3",
	model.KindWave:   "convo_3",
}

var artifactFiles = map[model.Kind][2]string{
	model.KindSpiral: {"spiral.onnx", "spiral_config.json"},
	model.KindWave:   {"wave.onnx", "wave_config.json"},
}

// Provider owns the two process-lifetime classifier instances behind an
// initialization guard. Construct one at startup and pass it by reference to
// whatever composes requests.
type Provider struct {
	classifiers map[model.Kind]*Classifier
	dir         string
	mu          sync.Mutex
	loaded      bool
	envReady    bool
}

// NewProvider creates an unloaded provider rooted at the given models
// directory. Call Load before serving, or rely on the lazy load in
// Classifier/Activations.
func NewProvider(dir string) *Provider {
	return &Provider{
		dir:         dir,
		classifiers: make(map[model.Kind]*Classifier),
	}
}

// Load loads both classifiers from their four artifact files, validates each
// config, and dry-runs each session on a zero tensor. Repeated calls after a
// successful load are no-ops. On any failure both classifiers are torn down
// and the provider returns to the unloaded state.
func (p *Provider) Load() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loadLocked()
}

func (p *Provider) loadLocked() error {
	if p.loaded {
		return nil
	}

	// Fail fast on missing artifacts before touching the runtime.
	for _, kind := range model.Kinds {
		files := artifactFiles[kind]
		for _, name := range files {
			path := filepath.Join(p.dir, name)
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("required model artifact not found: %s", path)
			}
		}
	}

	metas := make(map[model.Kind]*Metadata, len(model.Kinds))
	for _, kind := range model.Kinds {
		meta, err := loadMetadata(filepath.Join(p.dir, artifactFiles[kind][1]))
		if err != nil {
			return err
		}
		if err := meta.validate(kind); err != nil {
			return fmt.Errorf("invalid model config: %w", err)
		}
		metas[kind] = meta
	}

	if !p.envReady {
		if err := ort.InitializeEnvironment(); err != nil {
			return fmt.Errorf("failed to initialize ONNX environment: %w", err)
		}
		p.envReady = true
	}

	for _, kind := range model.Kinds {
		classifier, err := newClassifier(kind, filepath.Join(p.dir, artifactFiles[kind][0]), metas[kind])
		if err != nil {
			p.resetLocked()
			return err
		}
		p.classifiers[kind] = classifier

		if err := classifier.dryRun(); err != nil {
			p.resetLocked()
			return err
		}
		slog.Info("classifier loaded", "kind", kind, "last_layer", metas[kind].LastLayer)
	}

	p.loaded = true
	return nil
}

func (p *Provider) resetLocked() {
	for kind, classifier := range p.classifiers {
		classifier.destroy()
		delete(p.classifiers, kind)
	}
	p.loaded = false
}

// Classifier returns the classifier for the kind, lazily loading both models
// if needed. Returns ErrNotLoaded (wrapped with the load failure) when
// loading is impossible.
func (p *Provider) Classifier(kind model.Kind) (*Classifier, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.loaded {
		if err := p.loadLocked(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNotLoaded, err)
		}
	}
	return p.classifiers[kind], nil
}

// Activations runs one captured forward pass for the kind on the given input
// tensor data. This is the narrow surface the report pipeline consumes.
func (p *Provider) Activations(kind model.Kind, input []float32) (*model.Activations, error) {
	classifier, err := p.Classifier(kind)
	if err != nil {
		return nil, err
	}
	return classifier.PredictWithActivations(input)
}

// LastLayerName returns the name of the kind's final feature-extraction
// layer. Constant per kind.
func (p *Provider) LastLayerName(kind model.Kind) string {
	return lastLayerNames[kind]
}

// Close tears down both classifiers and the ONNX environment.
func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
	if p.envReady {
		ort.DestroyEnvironment()
		p.envReady = false
	}
}
