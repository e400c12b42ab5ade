// Package api serves the content document over HTTP and provides a client for
// it. The document is read and replaced whole; there are no partial updates.
package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jask/showcase/internal/content"
	"github.com/jask/showcase/internal/database/repository"
)

const (
	ContentPath = "/api/content"
	HistoryPath = "/api/content/history"

	maxBodyBytes = 1 << 20
)

// Store is what the handler needs from the content service.
type Store interface {
	Raw(ctx context.Context) ([]byte, error)
	Replace(ctx context.Context, raw []byte) (repository.Entry, error)
	History(ctx context.Context, limit int) ([]repository.Revision, error)
}

// Options tune the handler. Zero values disable the feature.
type Options struct {
	AdminToken string
	WriteRate  float64
	WriteBurst int
}

type response struct {
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
	Revision string `json:"revision,omitempty"`
}

type historyItem struct {
	Revision  string          `json:"revision"`
	CreatedAt time.Time       `json:"createdAt"`
	Content   json.RawMessage `json:"content"`
}

// Handler routes the content API.
type Handler struct {
	store   Store
	log     *zap.Logger
	token   string
	limiter *rate.Limiter
	mux     *http.ServeMux
}

// NewHandler builds the API routes on top of store.
func NewHandler(store Store, log *zap.Logger, opts Options) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Handler{store: store, log: log, token: opts.AdminToken, mux: http.NewServeMux()}
	if opts.WriteRate > 0 {
		burst := opts.WriteBurst
		if burst < 1 {
			burst = 1
		}
		h.limiter = rate.NewLimiter(rate.Limit(opts.WriteRate), burst)
	}
	h.mux.HandleFunc("GET "+ContentPath, h.getContent)
	h.mux.HandleFunc("POST "+ContentPath, h.postContent)
	h.mux.HandleFunc("GET "+HistoryPath, h.getHistory)
	h.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, response{Success: true})
	})
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	h.mux.ServeHTTP(rec, r)
	h.log.Info("request",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", rec.status),
		zap.Duration("elapsed", time.Since(start)))
}

func (h *Handler) getContent(w http.ResponseWriter, r *http.Request) {
	raw, err := h.store.Raw(r.Context())
	if err != nil {
		h.log.Error("load content", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, response{Error: "Failed to load content"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

func (h *Handler) postContent(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, response{Error: "Unauthorized"})
		return
	}
	if h.limiter != nil && !h.limiter.Allow() {
		w.Header().Set("Retry-After", "1")
		writeJSON(w, http.StatusTooManyRequests, response{Error: "Too many requests"})
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, response{Error: "Invalid data format"})
		return
	}
	if !content.IsObject(body) {
		writeJSON(w, http.StatusBadRequest, response{Error: "Invalid data format"})
		return
	}
	e, err := h.store.Replace(r.Context(), body)
	switch {
	case errors.Is(err, content.ErrInvalid):
		writeJSON(w, http.StatusBadRequest, response{Error: err.Error()})
		return
	case err != nil:
		h.log.Error("store content", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, response{Error: "Failed to process request"})
		return
	}
	writeJSON(w, http.StatusOK, response{Success: true, Revision: e.Revision})
}

func (h *Handler) getHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, response{Error: "limit must be a non-negative integer"})
			return
		}
		limit = n
	}
	revs, err := h.store.History(r.Context(), limit)
	if err != nil {
		h.log.Error("load history", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, response{Error: "Failed to load history"})
		return
	}
	items := make([]historyItem, 0, len(revs))
	for _, rev := range revs {
		items = append(items, historyItem{Revision: rev.Revision, CreatedAt: rev.CreatedAt, Content: rev.Value})
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) authorized(r *http.Request) bool {
	if h.token == "" {
		return true
	}
	got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) == 1
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
