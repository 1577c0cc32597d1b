package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/crowdscore/crowdscore/internal/smoke"
	"github.com/crowdscore/crowdscore/pkg/logger"
	"github.com/google/uuid"
)

// Default configuration constants.
const (
	defaultNumRatings = 100
	defaultPageSize   = 10
	defaultTimeout    = 10 * time.Second
	defaultRunTimeout = 5 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:5001", "Base URL of the service")
		eventID    = flag.String("event", "", "Event id to rate (default: random per run)")
		numRatings = flag.Int("ratings", defaultNumRatings, "Number of ratings to submit")
		pageSize   = flag.Int("page-size", defaultPageSize, "Page size while reading back")
		workers    = flag.Int("workers", runtime.NumCPU(), "Concurrent submitters")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		email      = flag.String("email", "", "Account email (default: random per run)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	run := uuid.NewString()[:8]
	cfg := &smoke.Config{
		BaseURL:    *baseURL,
		EventID:    *eventID,
		NumRatings: *numRatings,
		PageSize:   *pageSize,
		Workers:    *workers,
		Timeout:    *timeout,
		Email:      *email,
		Verbose:    *verbose,
	}
	if cfg.EventID == "" {
		cfg.EventID = "smoke-" + run
	}
	if cfg.Email == "" {
		cfg.Email = fmt.Sprintf("smoke-%s@example.com", run)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	if err := smoke.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("smoke run failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
