package handlers

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/Brownie44l1/ai-dashboard/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{
	"index.html",
	"filter_index.html",
	"filter_result.html",
	"normalizer_index.html",
	"normalizer_result.html",
	"token_index.html",
	"token_result.html",
	"onehot_index.html",
	"onehot_result.html",
	"cnn_index.html",
	"cnn_visualize.html",
}

var funcs = template.FuncMap{
	"f2": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"f4": func(v float64) string { return fmt.Sprintf("%.4g", v) },
}

type Handler struct {
	server    *model.Server
	templates map[string]*template.Template
}

func NewHandler(server *model.Server) *Handler {
	templates := make(map[string]*template.Template, len(pages))
	for _, p := range pages {
		templates[p] = template.Must(template.New(p).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+p))
	}
	return &Handler{
		server:    server,
		templates: templates,
	}
}

// Routes registers every tool page on a new mux.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("GET /health", h.Health)

	mux.HandleFunc("GET /image-filter/{$}", h.FilterIndex)
	mux.HandleFunc("POST /image-filter/upload", h.FilterUpload)

	mux.HandleFunc("GET /image-normalizer/{$}", h.NormalizerIndex)
	mux.HandleFunc("POST /image-normalizer/upload", h.NormalizerUpload)

	mux.HandleFunc("GET /token-checker/{$}", h.TokenIndex)
	mux.HandleFunc("POST /token-checker/analyze", h.TokenAnalyze)
	mux.HandleFunc("POST /token-checker/ai_tokenize", h.TokenAITokenize)

	mux.HandleFunc("GET /one-hot-vector/{$}", h.OneHotIndex)
	mux.HandleFunc("POST /one-hot-vector/process", h.OneHotProcess)

	mux.HandleFunc("GET /cnn-visualizer/{$}", h.CNNIndex)
	mux.HandleFunc("POST /cnn-visualizer/upload", h.CNNUpload)
	mux.HandleFunc("POST /cnn-visualizer/visualize_block", h.CNNVisualizeBlock)

	return recoverPanics(mux)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.HealthResponse{
		Status: "healthy",
		Text:   h.server.TextConfigured(),
		Image:  h.server.ImageConfigured(),
	})
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "index.html", "Dashboard", model.Tools)
}

// page is what every template receives; Body carries the tool-specific data.
type page struct {
	Title   string
	Tools   []model.Tool
	Flashes []string
	Body    any
}

// render buffers the page; on a template error nothing but the 500 is written.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, name, title string, body any, extraFlashes ...string) {
	t, ok := h.templates[name]
	if !ok {
		log.Printf("Unknown template: %s", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	flashes := append(popFlashes(w, r), extraFlashes...)
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", page{Title: title, Tools: model.Tools, Flashes: flashes, Body: body}); err != nil {
		log.Printf("Template %s failed: %v", name, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Printf("panic serving %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
