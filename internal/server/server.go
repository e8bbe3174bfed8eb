// Package server exposes the evaluation runner over HTTP: payload reads,
// node evaluation, confirmation, the credit ledger and a rendered view of
// the editor graph. The API serves the editing surface; it is not a public
// interface.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/framefold/remap/pkg/errors"
	"github.com/framefold/remap/pkg/flow"
	"github.com/framefold/remap/pkg/pipeline"
)

// Server wraps the HTTP handlers around a pipeline runner.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server. A nil logger discards output.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Server{runner: runner, logger: logger}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/graph", s.handleGraph)
		r.Get("/graph.svg", s.handleGraphSVG)

		r.Get("/credits", s.handleCredits)
		r.Post("/credits/grant", s.handleCreditsGrant)

		r.Route("/nodes/{node}", func(r chi.Router) {
			r.Get("/payloads", s.handlePayloads)
			r.Post("/evaluate", s.handleEvaluate)
			r.Post("/instances/{index}/confirm", s.handleConfirm)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleGraph(w http.ResponseWriter, _ *http.Request) {
	data, err := flow.MarshalGraph(s.runner.Graph)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "marshal graph"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleGraphSVG(w http.ResponseWriter, _ *http.Request) {
	dot := flow.ToDOT(s.runner.Graph, flow.DOTOptions{Detailed: true})
	svg, err := flow.RenderSVG(dot)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "render graph"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func (s *Server) handleCredits(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]int{"balance": s.runner.Credits.Balance()})
}

func (s *Server) handleCreditsGrant(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Amount int `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse grant request"))
		return
	}
	if body.Amount <= 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "grant amount must be positive"))
		return
	}
	balance := s.runner.Credits.Grant(body.Amount)
	s.writeJSON(w, http.StatusOK, map[string]int{"balance": balance})
}

func (s *Server) handlePayloads(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "node")
	if s.runner.Graph.Node(nodeID) == nil {
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "node %q not found", nodeID))
		return
	}
	s.writeJSON(w, http.StatusOK, s.runner.Store.Payloads(nodeID))
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "node")
	res, err := s.runner.EvaluateNode(r.Context(), nodeID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// handleConfirm records the approval and immediately re-evaluates the node,
// so the response already carries the approved (or errored) payload.
func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "node")
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid instance index"))
		return
	}

	if err := s.runner.Confirm(nodeID, index); err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.runner.EvaluateNode(r.Context(), nodeID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidProject, errors.ErrCodeInvalidTree, errors.ErrCodeInvalidTemplate:
		status = http.StatusBadRequest
	case errors.ErrCodeInsufficientCredits:
		status = http.StatusPaymentRequired
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, map[string]string{
		"error": errors.UserMessage(err),
		"code":  string(errors.GetCode(err)),
	})
}
