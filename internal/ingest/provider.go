package ingest

// Result holds the outcome of an ingest operation.
type Result struct {
	SessionsReceived int   `json:"sessions_received"`
	SetsReceived     int   `json:"sets_received"`
	SetsInserted     int64 `json:"sets_inserted"`
	WarmupsSkipped   int   `json:"warmups_skipped"`
	ExercisesCreated int   `json:"exercises_created"`

	Message string `json:"message,omitempty"`
}
