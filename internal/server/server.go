// Package server exposes a scanned and laid-out tree over HTTP.
//
// The server is read-only: the tree is built once at startup and every
// request serves from that snapshot, so handlers need no locking. Use the
// refresh endpoint-free model deliberately; restart the server to pick up
// filesystem changes.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/treescope/treescope/pkg/pipeline"
	"github.com/treescope/treescope/pkg/render"
	"github.com/treescope/treescope/pkg/tree"
	"github.com/treescope/treescope/pkg/tree/layout"
	"github.com/treescope/treescope/pkg/tree/query"
	"github.com/treescope/treescope/pkg/treeio"
)

// Server serves a single laid-out tree.
type Server struct {
	logger   *log.Logger
	root     *tree.Node
	space    layout.Space
	treeHash string
	opts     pipeline.Options
}

// New creates a server around a completed pipeline result.
func New(result *pipeline.Result, opts pipeline.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		logger:   logger,
		root:     result.Tree,
		space:    result.Space,
		treeHash: result.TreeHash,
		opts:     opts,
	}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/api/tree", s.handleTree)
	r.Get("/api/layout", s.handleLayout)
	r.Get("/api/nearest", s.handleNearest)
	r.Get("/render.svg", s.handleSVG)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"tree":   s.treeHash,
	})
}

// handleTree returns the full positioned tree in the export format.
func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := treeio.WriteJSON(s.root, s.space, w); err != nil {
		s.logger.Error("write tree", "err", err)
	}
}

// handleLayout returns the layout constants and aggregate statistics.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"space":      s.space,
		"extent":     s.space.Extent(),
		"node_count": s.root.Count(),
		"tree_hash":  s.treeHash,
	})
}

// nearestResponse is the wire shape for spatial queries.
type nearestResponse struct {
	Name      string  `json:"name"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	LeafCount int     `json:"leaf_count"`
	Leaf      bool    `json:"leaf"`
}

// handleNearest resolves the node closest to the point given by the x and
// y query parameters.
func (s *Server) handleNearest(w http.ResponseWriter, r *http.Request) {
	x, errX := strconv.ParseFloat(r.URL.Query().Get("x"), 64)
	y, errY := strconv.ParseFloat(r.URL.Query().Get("y"), 64)
	if errX != nil || errY != nil {
		respondError(w, http.StatusBadRequest, "x and y must be numbers")
		return
	}

	n := query.Nearest(s.root, x, y)
	respondJSON(w, http.StatusOK, nearestResponse{
		Name:      n.Name,
		X:         n.X,
		Y:         n.Y,
		LeafCount: n.LeafCount,
		Leaf:      n.IsLeaf(),
	})
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	var svgOpts []render.SVGOption
	if s.opts.Labels {
		svgOpts = append(svgOpts, render.WithLabels(s.opts.TextSize))
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	if _, err := w.Write(render.RenderSVG(s.root, s.space, svgOpts...)); err != nil {
		s.logger.Error("write svg", "err", err)
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// requestID tags every request with a UUID so log lines from one request
// can be correlated.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type ctxKey string

const requestIDKey ctxKey = "request_id"

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		id, _ := r.Context().Value(requestIDKey).(string)
		s.logger.Info("request",
			"id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}
