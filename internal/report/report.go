// Package report runs the full analysis pipeline for a screening request and
// renders the result as a self-contained HTML document.
package report

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"image"
	"image/png"
	"strings"
	"time"

	"github.com/adjei-dev/tremorlens/internal/fusion"
	"github.com/adjei-dev/tremorlens/internal/model"
	"github.com/adjei-dev/tremorlens/internal/vision"
)

//go:embed templates/report.html
var templateFS embed.FS

var reportTmpl = template.Must(template.ParseFS(templateFS, "templates/report.html"))

// Provider runs one captured forward pass for a drawing kind. Satisfied by
// *classify.Provider.
type Provider interface {
	Activations(kind model.Kind, input []float32) (*model.Activations, error)
}

// Report is a fully rendered screening report.
type Report struct {
	HTML        string
	Result      fusion.Result
	SpiralScore float64
	WaveScore   float64
}

// Generator assembles reports. It holds no per-request state.
type Generator struct {
	provider Provider
	now      func() time.Time
}

func NewGenerator(provider Provider) *Generator {
	return &Generator{provider: provider, now: time.Now}
}

type drawingResult struct {
	processed *image.Gray
	overlay   *image.RGBA
	score     float64
}

func (g *Generator) analyzeDrawing(img image.Image, kind model.Kind) (*drawingResult, error) {
	input, processed := vision.PrepareForPrediction(img, kind)

	acts, err := g.provider.Activations(kind, input)
	if err != nil {
		return nil, fmt.Errorf("%s analysis failed: %w", kind, err)
	}

	heatmap, err := vision.GradCAM(acts.Features, acts.Gradients,
		acts.Height, acts.Width, acts.Channels, kind.NormEpsilon())
	if err != nil {
		return nil, fmt.Errorf("%s heatmap failed: %w", kind, err)
	}

	return &drawingResult{
		processed: processed,
		overlay:   vision.Overlay(heatmap, processed, kind, 0),
		score:     float64(acts.Prediction),
	}, nil
}

type templateData struct {
	Name           string
	Age            int
	Gender         string
	Date           string
	Message        string
	ConfidencePct  string
	Source         string
	NextSteps      string
	HeatmapGuide   string
	SpiralImage    template.URL
	SpiralOverlay  template.URL
	WaveImage      template.URL
	WaveOverlay    template.URL
	PDFFilename    string
}

// Generate runs both drawing pipelines, fuses the scores, and renders the
// report. No partial output: any failure returns an error and nothing else.
func (g *Generator) Generate(spiral, wave image.Image, user model.UserInfo) (*Report, error) {
	spiralRes, err := g.analyzeDrawing(spiral, model.KindSpiral)
	if err != nil {
		return nil, err
	}
	waveRes, err := g.analyzeDrawing(wave, model.KindWave)
	if err != nil {
		return nil, err
	}

	fused := fusion.Fuse(spiralRes.score, waveRes.score)

	now := g.now()
	data := templateData{
		Name:          user.Name,
		Age:           user.Age,
		Gender:        user.Gender,
		Date:          now.Format("January 02, 2006"),
		Message:       fused.Message,
		ConfidencePct: fmt.Sprintf("%.2f%%", fused.Confidence*100),
		Source:        fused.Source,
		NextSteps:     fused.NextSteps,
		HeatmapGuide:  fused.HeatmapGuide,
		PDFFilename: fmt.Sprintf("Parkinsons_Report_%s_%s.pdf",
			strings.ReplaceAll(user.Name, " ", "_"), now.Format("20060102")),
	}

	if data.SpiralImage, err = encodeDataURL(spiralRes.processed); err != nil {
		return nil, err
	}
	if data.SpiralOverlay, err = encodeDataURL(spiralRes.overlay); err != nil {
		return nil, err
	}
	if data.WaveImage, err = encodeDataURL(waveRes.processed); err != nil {
		return nil, err
	}
	if data.WaveOverlay, err = encodeDataURL(waveRes.overlay); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	return &Report{
		HTML:        buf.String(),
		Result:      fused,
		SpiralScore: spiralRes.score,
		WaveScore:   waveRes.score,
	}, nil
}

func encodeDataURL(img image.Image) (template.URL, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode report image: %w", err)
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())), nil
}
