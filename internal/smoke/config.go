// Package smoke drives an end-to-end exercise of a running crowdscore
// instance: register, login, submit ratings concurrently, then page the
// listing back and verify the pagination contract held.
package smoke

import "time"

// Config controls one smoke run.
type Config struct {
	// BaseURL of the target service, e.g. http://localhost:5001.
	BaseURL string

	// EventID the run submits ratings for. Unique per run by default so
	// reruns against a durable store stay verifiable.
	EventID string

	// NumRatings to submit.
	NumRatings int

	// PageSize used while reading the listing back.
	PageSize int

	// Workers submitting concurrently.
	Workers int

	// Timeout per HTTP request.
	Timeout time.Duration

	// Email registered for the run. Unique per run by default.
	Email string

	// Verbose enables per-request logging.
	Verbose bool
}

// Stats aggregates the run outcome.
type Stats struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	Submitted     int
	SubmitErrors  int
	PagesFetched  int
	RecordsListed int
}
