package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/liftlog/internal/analytics"
	"github.com/meltforce/liftlog/internal/display"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/session"
)

const (
	defaultVolumeWeeks   = 12
	defaultBreakdownDays = 30
)

func (s *Server) handleWeeklyVolume(w http.ResponseWriter, r *http.Request) {
	unit, err := s.displayUnit(r)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	loc := s.workout.Location()
	weeks := intParam(r, "weeks", defaultVolumeWeeks)
	since := analytics.WeekStart(time.Now(), loc).AddDate(0, 0, -7*(weeks-1))

	records, err := s.db.ListSetLogs(r.Context(), models.SetLogFilter{Start: since})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	group := r.URL.Query().Get("muscle_group")
	if group != "" {
		exercises, err := s.db.ListExercises(r.Context(), "")
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		records = analytics.FilterByMuscleGroup(records, exercises, group)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"unit":         unit,
		"muscle_group": group,
		"weeks":        display.WeeklyVolume(analytics.WeeklyVolume(records, loc), unit),
	})
}

func (s *Server) handleMuscleGroupBreakdown(w http.ResponseWriter, r *http.Request) {
	unit, err := s.displayUnit(r)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	days := intParam(r, "days", defaultBreakdownDays)
	since := session.StartOfDay(time.Now(), s.workout.Location()).AddDate(0, 0, -(days - 1))

	records, err := s.db.ListSetLogs(r.Context(), models.SetLogFilter{Start: since})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	exercises, err := s.db.ListExercises(r.Context(), "")
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"unit":   unit,
		"since":  since,
		"groups": display.MuscleGroups(analytics.MuscleGroupBreakdown(records, exercises, since), unit),
	})
}

// handleCalendar lists the days of a month that have at least one set.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	loc := s.workout.Location()
	now := time.Now().In(loc)
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	if raw := r.URL.Query().Get("month"); raw != "" {
		m, err := time.ParseInLocation("2006-01", raw, loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid month, want YYYY-MM")
			return
		}
		month = m
	}
	next := month.AddDate(0, 1, 0)

	records, err := s.db.ListSetLogs(r.Context(), models.SetLogFilter{
		Start: month,
		End:   next.Add(-time.Millisecond),
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"month": month.Format("2006-01"),
		"days":  display.Dates(analytics.WorkoutDays(records, loc)),
	})
}

func (s *Server) handleCalendarDay(w http.ResponseWriter, r *http.Request) {
	loc := s.workout.Location()
	day, err := time.ParseInLocation(time.DateOnly, chi.URLParam(r, "date"), loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		return
	}
	unit, err := s.displayUnit(r)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	records, err := s.db.ListSetLogs(r.Context(), models.SetLogFilter{
		Start: day,
		End:   day.AddDate(0, 0, 1).Add(-time.Millisecond),
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	exercises, err := s.db.ListExercises(r.Context(), "")
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, display.NewDay(analytics.DayDetail(records, exercises, day, loc), unit))
}
