// Package httpapi exposes the analyzer over HTTP: a JSON compare endpoint,
// cached HTML reports, health and Prometheus metrics.
package httpapi

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/btkit/btdiff"
	"github.com/btkit/btdiff/internal/report"
	"github.com/btkit/btdiff/pkg/domain"
	"github.com/btkit/btdiff/pkg/ports"
)

// CompareRequest is the POST /api/compare body.
type CompareRequest struct {
	OldDocument string `json:"old_document"`
	NewDocument string `json:"new_document"`
	OldSource   string `json:"old_source,omitempty"`
	NewSource   string `json:"new_source,omitempty"`

	// Optional per-request overrides.
	Tree                string   `json:"tree,omitempty"`
	SimilarityThreshold float64  `json:"similarity_threshold,omitempty"`
	IgnoreAttributes    []string `json:"ignore_attributes,omitempty"`
}

// CompareResponse wraps the result with the report identifier under which
// it was cached.
type CompareResponse struct {
	ID     string             `json:"id"`
	Result *domain.DiffResult `json:"result"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// Server handles the HTTP surface.
type Server struct {
	baseOpts []btdiff.Option
	store    ports.ResultStore
	logger   *slog.Logger

	comparisons *prometheus.CounterVec
	duration    prometheus.Histogram
}

// NewHandler builds the chi router. The store caches results for the
// report endpoint; baseOpts apply to every comparison unless the request
// overrides them.
func NewHandler(store ports.ResultStore, logger *slog.Logger, baseOpts ...btdiff.Option) http.Handler {
	s := &Server{
		baseOpts: baseOpts,
		store:    store,
		logger:   logger,
		comparisons: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "btdiff_comparisons_total",
			Help: "Comparisons served, by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "btdiff_comparison_duration_seconds",
			Help:    "Wall time of one comparison, parse to diff.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(s.comparisons, s.duration)

	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	r.Post("/api/compare", s.handleCompare)
	r.Get("/api/report/{id}", s.handleReport)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintln(w, `{"status":"ok"}`)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request", fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.OldDocument == "" || req.NewDocument == "" {
		writeError(w, http.StatusBadRequest, "request", errors.New("old_document and new_document are required"))
		return
	}

	opts := append([]btdiff.Option{}, s.baseOpts...)
	if req.Tree != "" {
		opts = append(opts, btdiff.WithTree(req.Tree))
	}
	if req.SimilarityThreshold > 0 {
		opts = append(opts, btdiff.WithSimilarityThreshold(req.SimilarityThreshold))
	}
	if len(req.IgnoreAttributes) > 0 {
		opts = append(opts, btdiff.WithIgnoredAttributes(req.IgnoreAttributes...))
	}

	started := time.Now()
	res, err := btdiff.New(opts...).CompareDocuments(
		btdiff.Document{Text: []byte(req.OldDocument), Source: orDefault(req.OldSource, "old")},
		btdiff.Document{Text: []byte(req.NewDocument), Source: orDefault(req.NewSource, "new")},
	)
	s.duration.Observe(time.Since(started).Seconds())
	if err != nil {
		kind := errorKind(err)
		s.comparisons.WithLabelValues(kind).Inc()
		s.logger.Warn("comparison failed", "error", err, "kind", kind)
		writeError(w, http.StatusUnprocessableEntity, kind, err)
		return
	}
	s.comparisons.WithLabelValues("ok").Inc()

	id := resultID(req.OldDocument, req.NewDocument, req.Tree)
	if err := s.store.Save(r.Context(), id, res); err != nil {
		// The comparison itself succeeded; a cache failure only costs
		// the report link.
		s.logger.Warn("failed to cache result", "error", err, "id", id)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(CompareResponse{ID: id, Result: res}); err != nil {
		s.logger.Warn("failed to encode response", "error", err)
	}
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := s.store.Load(r.Context(), id)
	if errors.Is(err, domain.ErrResultNotFound) {
		writeError(w, http.StatusNotFound, "not_found", fmt.Errorf("report %q not found", id))
		return
	}
	if err != nil {
		s.logger.Error("failed to load result", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "internal", errors.New("failed to load report"))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.WriteHTML(w, report.HTMLData{Result: res}); err != nil {
		s.logger.Error("failed to render report", "error", err, "id", id)
	}
}

// errorKind maps the typed comparison errors onto stable labels for both
// metrics and API clients.
func errorKind(err error) string {
	var parseErr *domain.ParseError
	var unresolved *domain.UnresolvedSubtreeError
	var cyclic *domain.CyclicSubtreeError
	var depth *domain.ExpansionDepthError
	var input *domain.InputError
	switch {
	case errors.As(err, &parseErr):
		return "parse_error"
	case errors.As(err, &unresolved):
		return "unresolved_subtree"
	case errors.As(err, &cyclic):
		return "cyclic_subtree"
	case errors.As(err, &depth):
		return "expansion_depth_exceeded"
	case errors.As(err, &input):
		return "input_error"
	default:
		return "internal"
	}
}

func writeError(w http.ResponseWriter, status int, kind string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: err.Error(), Kind: kind})
}

// resultID derives the cache key from the inputs, so identical requests
// reuse the same report.
func resultID(oldDoc, newDoc, tree string) string {
	h := sha256.New()
	h.Write([]byte(oldDoc))
	h.Write([]byte{0})
	h.Write([]byte(newDoc))
	h.Write([]byte{0})
	h.Write([]byte(tree))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
