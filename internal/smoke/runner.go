package smoke

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/crowdscore/crowdscore/pkg/logger"
)

// Run executes the complete smoke exercise against a running service.
func Run(ctx context.Context, cfg *Config) error {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting crowdscore smoke run",
		logger.String("baseURL", cfg.BaseURL),
		logger.String("eventID", cfg.EventID),
		logger.Int("ratings", cfg.NumRatings),
		logger.Int("pageSize", cfg.PageSize),
		logger.Int("workers", cfg.Workers))

	c := newClient(cfg.BaseURL, cfg.Timeout)

	// Step 1: service must be up.
	if err := checkHealth(ctx, c); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: account + token.
	if err := authenticate(ctx, c, cfg); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	// Step 3: submit ratings concurrently.
	if err := submitRatings(ctx, c, cfg, stats); err != nil {
		return fmt.Errorf("rating submission failed: %w", err)
	}

	// Step 4: page the listing back and verify the contract.
	if err := verifyPagination(ctx, c, cfg, stats); err != nil {
		return fmt.Errorf("pagination verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	log.Info(ctx, "smoke run completed",
		logger.Int("submitted", stats.Submitted),
		logger.Int("submitErrors", stats.SubmitErrors),
		logger.Int("pages", stats.PagesFetched),
		logger.Int("listed", stats.RecordsListed),
		logger.Duration("took", stats.Duration))
	return nil
}

func checkHealth(ctx context.Context, c *client) error {
	status, err := c.get(ctx, "/api/message", nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("unexpected status %d", status)
	}
	return nil
}

func authenticate(ctx context.Context, c *client, cfg *Config) error {
	type registerResp struct {
		UID   string `json:"uid"`
		Email string `json:"email"`
	}
	var reg registerResp
	status, err := c.post(ctx, "/api/register", map[string]string{
		"email":    cfg.Email,
		"password": "smoke-run",
	}, &reg)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("register: unexpected status %d", status)
	}

	type loginResp struct {
		Token string `json:"token"`
	}
	var login loginResp
	status, err = c.post(ctx, "/api/login", map[string]string{"email": cfg.Email}, &login)
	if err != nil {
		return err
	}
	if status != http.StatusOK || login.Token == "" {
		return fmt.Errorf("login: unexpected status %d", status)
	}
	c.bearer = login.Token
	return nil
}

func submitRatings(ctx context.Context, c *client, cfg *Config, stats *Stats) error {
	var (
		submitted int64
		failed    int64
		wg        sync.WaitGroup
	)
	jobs := make(chan int)

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				type submitResp struct {
					ID string `json:"id"`
				}
				var out submitResp
				status, err := c.post(ctx, "/api/ratings", map[string]any{
					"eventId": cfg.EventID,
					"score":   float64(i),
				}, &out)
				if err != nil || status != http.StatusCreated || out.ID == "" {
					atomic.AddInt64(&failed, 1)
					if cfg.Verbose {
						logger.Get().Warn(ctx, "submit failed",
							logger.Int("index", i),
							logger.Int("status", status),
							logger.Err(err))
					}
					continue
				}
				atomic.AddInt64(&submitted, 1)
			}
		}()
	}

	for i := 0; i < cfg.NumRatings; i++ {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return ctx.Err()
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	stats.Submitted = int(submitted)
	stats.SubmitErrors = int(failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d submissions failed", failed, cfg.NumRatings)
	}
	return nil
}

// verifyPagination pages the listing to exhaustion and checks the contract:
// every submitted record exactly once, newest first, no gaps.
func verifyPagination(ctx context.Context, c *client, cfg *Config, stats *Stats) error {
	type listResp struct {
		Ratings []struct {
			ID        string    `json:"id"`
			EventID   string    `json:"eventId"`
			Score     float64   `json:"score"`
			UID       string    `json:"uid"`
			Timestamp time.Time `json:"timestamp"`
		} `json:"ratings"`
		NextPageToken *string `json:"nextPageToken"`
	}

	seen := make(map[string]bool, cfg.NumRatings)
	var lastTS *time.Time
	token := ""

	for {
		path := fmt.Sprintf("/api/ratings?eventId=%s&pageSize=%d", url.QueryEscape(cfg.EventID), cfg.PageSize)
		if token != "" {
			path += "&pageToken=" + url.QueryEscape(token)
		}

		var out listResp
		status, err := c.get(ctx, path, &out)
		if err != nil {
			return err
		}
		if status != http.StatusOK {
			return fmt.Errorf("list: unexpected status %d", status)
		}
		stats.PagesFetched++

		for _, r := range out.Ratings {
			if seen[r.ID] {
				return fmt.Errorf("duplicate rating %s across pages", r.ID)
			}
			seen[r.ID] = true
			if lastTS != nil && r.Timestamp.After(*lastTS) {
				return fmt.Errorf("ordering violation at rating %s", r.ID)
			}
			ts := r.Timestamp
			lastTS = &ts
		}
		stats.RecordsListed += len(out.Ratings)

		if out.NextPageToken == nil {
			break
		}
		token = *out.NextPageToken
	}

	if stats.RecordsListed != cfg.NumRatings {
		return fmt.Errorf("listed %d records, submitted %d", stats.RecordsListed, cfg.NumRatings)
	}
	return nil
}
