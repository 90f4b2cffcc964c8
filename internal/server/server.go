// Package server exposes graph snapshots over a small JSON API.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hunk-scm/hunk-go/internal/buildinfo"
	"github.com/hunk-scm/hunk-go/internal/graph"
	"github.com/hunk-scm/hunk-go/internal/repo"
)

// Server handles HTTP requests against one repository accessor. Every
// request recomputes its snapshot, so responses always reflect the
// repository's current state.
type Server struct {
	accessor     repo.Accessor
	defaultLimit int
}

func New(accessor repo.Accessor, defaultLimit int) *Server {
	if defaultLimit < 1 {
		defaultLimit = 1
	}
	return &Server{accessor: accessor, defaultLimit: defaultLimit}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/api/version", s.handleVersion)
	r.Get("/api/graph", s.handleGraph)
	r.Get("/api/graph/chain", s.handleChain)
	r.Get("/api/graph/drop-validation", s.handleDropValidation)
	return r
}

// GraphResponse is the payload for GET /api/graph.
type GraphResponse struct {
	*graph.Snapshot
	LaneRows []graph.LaneRow `json:"lane_rows"`
}

// ChainResponse is the payload for GET /api/graph/chain.
type ChainResponse struct {
	Revisions []string `json:"revisions"`
}

// DropValidationResponse is the payload for GET /api/graph/drop-validation.
type DropValidationResponse struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

type versionResponse struct {
	Version string `json:"version"`
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, versionResponse{Version: buildinfo.Version()})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	options, ok := s.snapshotOptions(w, r)
	if !ok {
		return
	}
	snapshot, err := graph.BuildSnapshot(s.accessor, options)
	if err != nil {
		slog.Error("graph snapshot failed", slog.Any("error", err))
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, GraphResponse{
		Snapshot: snapshot,
		LaneRows: graph.BuildLaneRows(snapshot.Nodes, snapshot.Edges),
	})
}

func (s *Server) handleChain(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "missing name parameter", http.StatusBadRequest)
		return
	}
	remote := r.URL.Query().Get("remote")
	scope, err := parseScope(r.URL.Query().Get("scope"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	options, ok := s.snapshotOptions(w, r)
	if !ok {
		return
	}
	snapshot, err := graph.BuildSnapshot(s.accessor, options)
	if err != nil {
		slog.Error("graph snapshot failed", slog.Any("error", err))
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	chain := graph.BookmarkRevisionChain(snapshot.Nodes, snapshot.Edges, name, remote, scope)
	writeJSON(w, ChainResponse{Revisions: chain})
}

func (s *Server) handleDropValidation(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	name := query.Get("name")
	target := query.Get("target")
	if name == "" || target == "" {
		http.Error(w, "missing name or target parameter", http.StatusBadRequest)
		return
	}
	scope, err := parseScope(query.Get("scope"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	options, ok := s.snapshotOptions(w, r)
	if !ok {
		return
	}
	snapshot, err := graph.BuildSnapshot(s.accessor, options)
	if err != nil {
		slog.Error("graph snapshot failed", slog.Any("error", err))
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	resp := DropValidationResponse{OK: true}
	if err := graph.ValidateBookmarkDrop(snapshot.Nodes, name, query.Get("remote"), scope, target); err != nil {
		resp = DropValidationResponse{OK: false, Reason: err.Error()}
	}
	writeJSON(w, resp)
}

func (s *Server) snapshotOptions(w http.ResponseWriter, r *http.Request) (graph.Options, bool) {
	query := r.URL.Query()
	options := graph.Options{MaxNodes: s.defaultLimit}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			http.Error(w, "invalid limit parameter", http.StatusBadRequest)
			return graph.Options{}, false
		}
		options.MaxNodes = limit
	}
	if raw := query.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			http.Error(w, "invalid offset parameter", http.StatusBadRequest)
			return graph.Options{}, false
		}
		options.Offset = offset
	}
	if raw := query.Get("remotes"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			http.Error(w, "invalid remotes parameter", http.StatusBadRequest)
			return graph.Options{}, false
		}
		options.IncludeRemoteBookmarks = include
	}
	return options, true
}

func parseScope(raw string) (graph.BookmarkScope, error) {
	switch raw {
	case "", "local":
		return graph.ScopeLocal, nil
	case "remote":
		return graph.ScopeRemote, nil
	default:
		return graph.ScopeLocal, errInvalidScope
	}
}

var errInvalidScope = errors.New("invalid scope parameter")

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("encode response", slog.Any("error", err))
	}
}
