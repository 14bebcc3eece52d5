package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/jask/starfolk/internal/catalog"
)

// Handler returns the API routes wrapped in the standard middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/characters", s.handleSearch)
	mux.HandleFunc("GET /api/characters/featured", s.handleFeatured)
	mux.HandleFunc("GET /api/characters/{id}", s.handleCharacter)
	mux.HandleFunc("POST /api/__reload", s.handleReload)
	return chain(mux, s.recoverPanics, s.logRequests, withRequestID, withCORS)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	chars, err := s.store.Search(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chars)
}

func (s *Server) handleFeatured(w http.ResponseWriter, r *http.Request) {
	chars, err := s.store.Featured(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chars)
}

func (s *Server) handleCharacter(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeJSONError(w, http.StatusNotFound, "Not found")
		return
	}
	c, err := s.store.Get(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		writeJSONError(w, http.StatusNotFound, "Not found")
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	n, err := s.Reload(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "count": n})
}

// internalErrorText is all a client learns about a 500; the cause is logged.
const internalErrorText = "Internal server error"

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("request failed",
		zap.String("path", r.URL.Path),
		zap.String("request_id", w.Header().Get(requestIDHeader)),
		zap.Error(err))
	writeJSONError(w, http.StatusInternalServerError, internalErrorText)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
