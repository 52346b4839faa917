package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/analytics"
	"github.com/meltforce/liftlog/internal/display"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
	"github.com/meltforce/liftlog/internal/workout"
)

type exerciseRequest struct {
	Name              string  `json:"name"`
	TargetMuscleGroup string  `json:"target_muscle_group"`
	Instructions      *string `json:"instructions"`
	FormCues          *string `json:"form_cues"`
	VideoURL          *string `json:"video_url"`
}

func (req exerciseRequest) validate() error {
	if strings.TrimSpace(req.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(req.TargetMuscleGroup) == "" {
		return errors.New("target_muscle_group is required")
	}
	return nil
}

func (req exerciseRequest) apply(e *models.Exercise) {
	e.Name = strings.TrimSpace(req.Name)
	e.TargetMuscleGroup = strings.TrimSpace(req.TargetMuscleGroup)
	e.Instructions = req.Instructions
	e.FormCues = req.FormCues
	e.VideoURL = req.VideoURL
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	exercises, err := s.db.ListExercises(r.Context(), r.URL.Query().Get("muscle_group"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exercises)
}

func (s *Server) handleMuscleGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.db.ListMuscleGroups(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (s *Server) handleGetExercise(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	e, err := s.db.GetExercise(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleCreateExercise(w http.ResponseWriter, r *http.Request) {
	var req exerciseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	e := models.NewExercise(req.Name, req.TargetMuscleGroup)
	req.apply(&e)
	if err := s.db.InsertExercise(r.Context(), &e); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleUpdateExercise(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req exerciseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	e, err := s.db.GetExercise(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	req.apply(e)
	if err := s.db.UpdateExercise(r.Context(), e); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	removed, err := s.workout.DeleteExercise(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if s.metrics != nil {
		s.metrics.CounterExercisesDeleted.Inc()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"deleted":          id,
		"set_logs_removed": removed,
	})
}

func (s *Server) handlePrevious(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	unit, err := s.displayUnit(r)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	before := time.Now()
	if raw := r.URL.Query().Get("before"); raw != "" {
		if before, err = time.Parse(time.RFC3339, raw); err != nil {
			writeError(w, http.StatusBadRequest, "invalid before: "+err.Error())
			return
		}
	}
	if _, err := s.db.GetExercise(r.Context(), id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	prev, err := s.workout.Previous(r.Context(), id, before)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, display.NewPrevious(id, prev, unit))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	unit, err := s.displayUnit(r)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if _, err := s.db.GetExercise(r.Context(), id); err != nil {
		s.writeServiceError(w, err)
		return
	}

	logs, err := s.db.ListSetLogsByExercise(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	sessions, summary := analytics.ExerciseSummary(logs, s.workout.Location())
	writeJSON(w, http.StatusOK, display.NewHistory(id, sessions, summary, unit))
}

type logSetsRequest struct {
	Unit     models.WeightUnit  `json:"unit"`
	LoggedAt time.Time          `json:"logged_at"`
	Sets     []workout.SetInput `json:"sets"`
}

func (s *Server) handleLogSets(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req logSetsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	n, err := s.workout.LogSets(r.Context(), id, req.Sets, req.Unit, req.LoggedAt)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"sets_saved": n})
}

func (s *Server) handleListSets(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	unit, err := s.displayUnit(r)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	filter := models.SetLogFilter{Start: start, End: end}
	if raw := r.URL.Query().Get("exercise_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid exercise_id")
			return
		}
		filter.ExerciseID = &id
	}

	logs, err := s.db.ListSetLogs(r.Context(), filter)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, display.Sets(logs, unit))
}

func (s *Server) handleDeleteSet(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.db.DeleteSetLog(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "set not found")
			return
		}
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
