package http

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"newsguard/detector"
	"newsguard/ml"
	"newsguard/monitoring"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Predictor is what the handlers need from a loaded detector.
type Predictor interface {
	Normalize(raw string) string
	Classify(raw string) (*detector.Result, error)
	Info() detector.Info
}

var _ Predictor = (*detector.Detector)(nil)

type Handlers struct {
	predictor Predictor
	metrics   *monitoring.Metrics
	logger    *zap.Logger
}

// NewHandlers records classifications into metrics; nil gets a private collector.
func NewHandlers(predictor Predictor, metrics *monitoring.Metrics, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = monitoring.NewMetrics()
	}
	return &Handlers{predictor: instrument(predictor, metrics), metrics: metrics, logger: logger}
}

func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("POST /{$}", h.handleSubmit)
	mux.HandleFunc("GET /api/health", h.handleHealth)
	mux.HandleFunc("GET /api/model", h.handleModel)
	mux.HandleFunc("POST /api/predict", h.handlePredict)
	mux.HandleFunc("POST /api/normalize", h.handleNormalize)
	mux.HandleFunc("GET /api/metrics", h.handleMetrics)
	mux.HandleFunc("GET /metrics", h.handlePrometheus)
}

type pageData struct {
	Text    string
	Warning string
	Error   string
	Result  *detector.Result
	Verdict string
	Detail  string
}

func (h *Handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, http.StatusOK, pageData{})
}

func (h *Handlers) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderPage(w, statusForBodyError(err), pageData{Error: "Could not read the submitted form."})
		return
	}

	text := r.PostFormValue("news")
	data := pageData{Text: text}
	if detector.IsBlank(text) {
		h.metrics.RecordBlank()
		data.Warning = "Please enter some news content first."
		h.renderPage(w, http.StatusOK, data)
		return
	}

	result, err := h.predictor.Classify(text)
	if err != nil {
		h.logger.Error("classification failed", zap.String("request_id", GetRequestID(r.Context())), zap.Error(err))
		data.Error = "The news could not be analyzed: " + err.Error()
		h.renderPage(w, statusForClassifyError(err), data)
		return
	}

	data.Result = result
	data.Verdict, data.Detail = verdictText(result.Label)
	h.renderPage(w, http.StatusOK, data)
}

func verdictText(label ml.Label) (string, string) {
	if label == ml.Reliable {
		return "This news is likely Reliable.", "The content appears trustworthy and fact-based."
	}
	return "This news is likely Unreliable.", "The content may be misleading or fake."
}

func (h *Handlers) renderPage(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil {
		h.logger.Error("render page", zap.Error(err))
	}
}

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) handleModel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.predictor.Info())
}

func (h *Handlers) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"classification": h.metrics.Snapshot(),
		"system":         h.metrics.GetSystemStats(),
	})
}

func (h *Handlers) handlePrometheus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(h.metrics.ExportPrometheus()))
}

type textRequest struct {
	Text string `json:"text"`
}

func (h *Handlers) decodeText(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, statusForBodyError(err), "invalid JSON body")
		return "", false
	}
	if detector.IsBlank(req.Text) {
		h.metrics.RecordBlank()
		writeError(w, http.StatusBadRequest, detector.ErrEmptyInput.Error())
		return "", false
	}
	return req.Text, true
}

func (h *Handlers) handlePredict(w http.ResponseWriter, r *http.Request) {
	text, ok := h.decodeText(w, r)
	if !ok {
		return
	}

	result, err := h.predictor.Classify(text)
	if err != nil {
		h.logger.Error("classification failed", zap.String("request_id", GetRequestID(r.Context())), zap.Error(err))
		writeError(w, statusForClassifyError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) handleNormalize(w http.ResponseWriter, r *http.Request) {
	text, ok := h.decodeText(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"normalized": h.predictor.Normalize(text)})
}

func statusForClassifyError(err error) int {
	var dimErr *ml.DimensionMismatchError
	if errors.As(err, &dimErr) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func statusForBodyError(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
