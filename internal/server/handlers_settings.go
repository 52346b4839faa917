package server

import (
	"net/http"

	"github.com/meltforce/liftlog/internal/workout"
)

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	p, err := s.workout.Preferences(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var patch workout.PreferencesPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := s.workout.UpdatePreferences(r.Context(), patch)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleSeed imports a catalog from the request body, or seeds the
// configured catalog into an empty database when the body is empty.
func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	var n int
	if r.ContentLength != 0 {
		n = s.seeder.Seed(r.Context(), r.Body)
	} else {
		n = s.seeder.SeedIfEmpty(r.Context())
	}
	writeJSON(w, http.StatusOK, map[string]int{"seeded": n})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.db.GetDataStats(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleImportLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := s.db.ListImportLogs(r.Context(), intParam(r, "limit", 50))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) handleAlphaIngest(w http.ResponseWriter, r *http.Request) {
	result, err := s.alpha.Ingest(r.Context(), r.Body)
	if err != nil {
		s.log.Error("alpha ingest error", "error", err, "user", userInfoFromContext(r).Login)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}
