package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/display"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/session"
	"github.com/meltforce/liftlog/internal/storage"
	"github.com/meltforce/liftlog/internal/workout"
)

// routineView is a routine with its exercises resolved, in order.
type routineView struct {
	Day         models.Weekday    `json:"day_of_week"`
	ExerciseIDs []uuid.UUID       `json:"exercise_ids"`
	Exercises   []models.Exercise `json:"exercises"`
}

func (s *Server) routineView(r *http.Request, rt models.Routine) (routineView, error) {
	v := routineView{Day: rt.Day, ExerciseIDs: rt.ExerciseIDs, Exercises: []models.Exercise{}}
	for _, id := range rt.ExerciseIDs {
		e, err := s.db.GetExercise(r.Context(), id)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return v, err
		}
		v.Exercises = append(v.Exercises, *e)
	}
	return v, nil
}

func parseDayParam(r *http.Request) (models.Weekday, error) {
	day, err := models.ParseWeekday(chi.URLParam(r, "day"))
	if err != nil {
		return "", &workout.ValidationError{Err: err}
	}
	return day, nil
}

func (s *Server) handleListRoutines(w http.ResponseWriter, r *http.Request) {
	routines, err := s.db.ListRoutines(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	out := make([]routineView, 0, len(routines))
	for _, rt := range routines {
		v, err := s.routineView(r, rt)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		out = append(out, v)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetRoutine(w http.ResponseWriter, r *http.Request) {
	day, err := parseDayParam(r)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	rt, err := s.db.GetRoutine(r.Context(), day)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	v, err := s.routineView(r, *rt)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleSetRoutine(w http.ResponseWriter, r *http.Request) {
	day, err := parseDayParam(r)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	var req struct {
		ExerciseIDs []uuid.UUID `json:"exercise_ids"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	for _, id := range req.ExerciseIDs {
		if _, err := s.db.GetExercise(r.Context(), id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown exercise %s", id))
				return
			}
			s.writeServiceError(w, err)
			return
		}
	}

	if err := s.db.SetRoutine(r.Context(), day, req.ExerciseIDs); err != nil {
		s.writeServiceError(w, err)
		return
	}
	rt, err := s.db.GetRoutine(r.Context(), day)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	v, err := s.routineView(r, *rt)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

type startSessionRequest struct {
	ExerciseIDs []uuid.UUID `json:"exercise_ids"`
	Mode        string      `json:"mode"`
	StartedAt   time.Time   `json:"started_at"`
}

func parsePrefillMode(s string, def session.PrefillMode) (session.PrefillMode, error) {
	switch strings.ToLower(s) {
	case "":
		return def, nil
	case "present":
		return session.PrefillPresent, nil
	case "padded":
		return session.PrefillPadded, nil
	}
	return def, &workout.ValidationError{Err: fmt.Errorf("unknown prefill mode %q", s)}
}

// decodeOptional decodes a JSON body that may be empty.
func decodeOptional(r *http.Request, v any) error {
	err := decodeJSON(r, v)
	if err != nil && errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (s *Server) handleStartRoutineSession(w http.ResponseWriter, r *http.Request) {
	day, err := parseDayParam(r)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	var req startSessionRequest
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	mode, err := parsePrefillMode(req.Mode, session.PrefillPadded)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if req.StartedAt.IsZero() {
		req.StartedAt = time.Now()
	}

	plans, err := s.workout.StartRoutineSession(r.Context(), day, mode, req.StartedAt)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writePlans(w, r, req.StartedAt, plans)
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	mode, err := parsePrefillMode(req.Mode, session.PrefillPresent)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if req.StartedAt.IsZero() {
		req.StartedAt = time.Now()
	}

	plans, err := s.workout.StartSession(r.Context(), req.ExerciseIDs, mode, req.StartedAt)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writePlans(w, r, req.StartedAt, plans)
}

func (s *Server) writePlans(w http.ResponseWriter, r *http.Request, startedAt time.Time, plans []workout.Plan) {
	unit, err := s.displayUnit(r)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	out := make([]display.Plan, 0, len(plans))
	for _, p := range plans {
		out = append(out, display.NewPlan(p.Exercise, p.Previous, p.Entries, unit))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"started_at": startedAt,
		"unit":       unit,
		"exercises":  out,
	})
}

func (s *Server) handleFinishSession(w http.ResponseWriter, r *http.Request) {
	var req workout.FinishRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := s.workout.FinishSession(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
