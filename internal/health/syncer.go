package health

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Export results passed to Syncer.OnResult.
const (
	ResultSuccess      = "success"
	ResultUnauthorized = "unauthorized"
	ResultError        = "error"
	ResultDropped      = "dropped"
)

// Syncer runs exports in the background. Submit never blocks on the
// exporter and never reports failure to its caller.
type Syncer struct {
	exporter Exporter
	timeout  time.Duration
	log      *slog.Logger

	// OnResult, when set, is called once per submitted workout.
	OnResult func(result string)

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewSyncer creates a Syncer. Each export gets its own timeout.
func NewSyncer(exporter Exporter, timeout time.Duration, log *slog.Logger) *Syncer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Syncer{exporter: exporter, timeout: timeout, log: log}
}

// Submit exports a workout spanning start to end in a new goroutine.
// Submissions after Close are dropped.
func (s *Syncer) Submit(start, end time.Time) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.log.Warn("health syncer closed, dropping workout", "start", start)
		s.report(ResultDropped)
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	w := NewWorkout(start, end)
	go func() {
		defer s.wg.Done()
		s.export(w)
	}()
}

func (s *Syncer) export(w Workout) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.exporter.Authorize(ctx); err != nil {
		s.log.Warn("health export not authorized", "error", err)
		s.report(ResultUnauthorized)
		return
	}
	if err := s.exporter.SaveWorkout(ctx, w); err != nil {
		s.log.Error("health export failed", "error", err, "start", w.Start, "end", w.End)
		s.report(ResultError)
		return
	}
	s.log.Info("workout exported to health",
		"start", w.Start, "duration_sec", w.DurationSec, "calories", w.Calories)
	s.report(ResultSuccess)
}

func (s *Syncer) report(result string) {
	if s.OnResult != nil {
		s.OnResult(result)
	}
}

// Close stops accepting workouts and waits for in-flight exports.
func (s *Syncer) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.wg.Wait()
}
