// Package handlers implements the HTTP boundary.
package handlers

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adjei-dev/tremorlens/internal/model"
	"github.com/adjei-dev/tremorlens/internal/report"
	"github.com/adjei-dev/tremorlens/internal/storage"
)

//go:embed templates/home.html
var templateFS embed.FS

var homeTmpl = template.Must(template.ParseFS(templateFS, "templates/home.html"))

const maxUploadBytes = 10 << 20

// Analyzer runs the full screening pipeline. Satisfied by *report.Generator.
type Analyzer interface {
	Generate(spiral, wave image.Image, user model.UserInfo) (*report.Report, error)
}

// Store persists screening records and form submissions. Satisfied by
// *storage.SQLiteStorage.
type Store interface {
	SaveScreening(ctx context.Context, rec model.Screening) error
	SaveContactMessage(ctx context.Context, msg model.ContactMessage) error
	SubscribeNewsletter(ctx context.Context, email string) error
}

// Handler serves all application endpoints.
type Handler struct {
	analyzer   Analyzer
	store      Store
	reportsDir string
}

func NewHandler(analyzer Analyzer, store Store, reportsDir string) *Handler {
	return &Handler{
		analyzer:   analyzer,
		store:      store,
		reportsDir: reportsDir,
	}
}

// Register attaches all routes to the mux. Generated reports are served
// read-only from the reports directory.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/", h.Home)
	mux.HandleFunc("/health", h.Health)
	mux.HandleFunc("/analyze", h.Analyze)
	mux.HandleFunc("/submit-contact", h.SubmitContact)
	mux.HandleFunc("/subscribe-newsletter", h.SubscribeNewsletter)
	mux.HandleFunc("/download-guide/", h.DownloadGuide)
	mux.Handle("/reports/", http.StripPrefix("/reports/", http.FileServer(http.Dir(h.reportsDir))))
}

type apiResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	ReportURL string `json:"report_url,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, resp apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}

func clientError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, apiResponse{Status: "error", Message: message})
}

func serverError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusInternalServerError, apiResponse{Status: "error", Message: message})
}

// Home serves the upload page.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	_ = homeTmpl.Execute(w, nil)
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

func decodeUpload(file multipart.File) (image.Image, error) {
	img, _, err := image.Decode(file)
	return img, err
}

// Analyze accepts the two drawing uploads plus the user_info JSON field,
// runs the screening pipeline, writes the report under a per-request id, and
// returns its URL.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		clientError(w, "Failed to parse form")
		return
	}

	spiralFile, _, spiralErr := r.FormFile("spiral")
	if spiralErr == nil {
		defer func() { _ = spiralFile.Close() }()
	}
	waveFile, _, waveErr := r.FormFile("wave")
	if waveErr == nil {
		defer func() { _ = waveFile.Close() }()
	}
	if spiralErr != nil || waveErr != nil {
		clientError(w, "Both spiral and wave drawings are required")
		return
	}

	var user model.UserInfo
	if err := json.Unmarshal([]byte(r.FormValue("user_info")), &user); err != nil || user.Validate() != nil {
		clientError(w, "Invalid user information. Please provide name, age (18-60), and gender.")
		return
	}

	spiralImg, err := decodeUpload(spiralFile)
	if err != nil {
		clientError(w, "Error reading uploaded images")
		return
	}
	waveImg, err := decodeUpload(waveFile)
	if err != nil {
		clientError(w, "Error reading uploaded images")
		return
	}

	rep, err := h.analyzer.Generate(spiralImg, waveImg, user)
	if err != nil {
		slog.Error("analysis failed", "error", err, "name", user.Name)
		serverError(w, "Analysis failed. Please try again.")
		return
	}

	id := uuid.New().String()
	reportPath := filepath.Join(h.reportsDir, id+".html")
	if err := os.WriteFile(reportPath, []byte(rep.HTML), 0o644); err != nil {
		slog.Error("failed to write report", "error", err, "path", reportPath)
		serverError(w, "Analysis failed. Please try again.")
		return
	}

	rec := model.Screening{
		ID:          id,
		Name:        user.Name,
		Age:         user.Age,
		Gender:      user.Gender,
		SpiralScore: rep.SpiralScore,
		WaveScore:   rep.WaveScore,
		Positive:    rep.Result.Positive,
		Confidence:  rep.Result.Confidence,
		Result:      rep.Result.Source,
		ReportPath:  reportPath,
		CreatedAt:   time.Now(),
	}
	if err := h.store.SaveScreening(r.Context(), rec); err != nil {
		// The report already exists on disk; history is best-effort.
		slog.Warn("failed to record screening", "error", err, "id", id)
	}

	slog.Info("analysis complete", "id", id,
		"spiral_score", rep.SpiralScore, "wave_score", rep.WaveScore,
		"result", rep.Result.Source)

	writeJSON(w, http.StatusOK, apiResponse{
		Status:    "success",
		Message:   "Analysis complete",
		ReportURL: "/reports/" + id + ".html",
	})
}

// SubmitContact stores a contact-form submission.
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	msg := model.ContactMessage{
		Name:    r.FormValue("name"),
		Email:   r.FormValue("email"),
		Subject: r.FormValue("subject"),
		Message: r.FormValue("message"),
	}
	if strings.TrimSpace(msg.Email) == "" || strings.TrimSpace(msg.Message) == "" {
		clientError(w, "Email and message are required")
		return
	}

	if err := h.store.SaveContactMessage(r.Context(), msg); err != nil {
		slog.Error("failed to save contact message", "error", err)
		serverError(w, "Could not submit your message. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{
		Status:  "success",
		Message: "Thank you for your message. We will get back to you soon!",
	})
}

// SubscribeNewsletter adds an address to the mailing list.
func (h *Handler) SubscribeNewsletter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	email := r.FormValue("email")
	if strings.TrimSpace(email) == "" {
		clientError(w, "Email is required")
		return
	}

	err := h.store.SubscribeNewsletter(r.Context(), email)
	switch {
	case errors.Is(err, storage.ErrDuplicateEmail):
		writeJSON(w, http.StatusOK, apiResponse{
			Status:  "success",
			Message: "You are already subscribed to our newsletter.",
		})
	case err != nil:
		slog.Error("failed to subscribe", "error", err)
		serverError(w, "Could not subscribe. Please try again.")
	default:
		writeJSON(w, http.StatusOK, apiResponse{
			Status:  "success",
			Message: "Thank you for subscribing to our newsletter!",
		})
	}
}

var guideTypes = map[string]bool{
	"spiral":  true,
	"wave":    true,
	"general": true,
}

// DownloadGuide acknowledges a drawing-guide download request.
func (h *Handler) DownloadGuide(w http.ResponseWriter, r *http.Request) {
	guide := strings.TrimPrefix(r.URL.Path, "/download-guide/")
	if !guideTypes[guide] {
		clientError(w, "Unknown guide type")
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{
		Status:  "success",
		Message: "Download started for " + guide + " guide",
	})
}
