package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "modernc.org/sqlite"
)

// DefaultOpenTimeout bounds how long Open keeps retrying a busy or locked dataset.
const DefaultOpenTimeout = 10 * time.Second

// readOnlyDSN builds a modernc sqlite DSN that opens path read-only.
func readOnlyDSN(path string) string {
	q := url.Values{}
	q.Set("mode", "ro")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "query_only(1)")
	return "file:" + path + "?" + q.Encode()
}

// Open opens the dataset at path read-only, waits for it to answer a ping and
// verifies its schema. A missing file fails immediately.
func Open(ctx context.Context, path string, timeout time.Duration) (*Store, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("dataset %s: is a directory", path)
	}

	db, err := sql.Open("sqlite", readOnlyDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}

	if timeout <= 0 {
		timeout = DefaultOpenTimeout
	}
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = timeout

	attempt := 0
	ping := func() error {
		attempt++
		if err := db.PingContext(ctx); err != nil {
			slog.Warn("dataset ping failed", "path", path, "attempt", attempt, "error", err)
			return err
		}
		return nil
	}
	if err := backoff.Retry(ping, backoff.WithContext(bo, ctx)); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping dataset: %w", err)
	}

	s := New(db)
	if err := s.VerifySchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	slog.Info("dataset opened", "path", path, "attempts", attempt)
	return s, nil
}
