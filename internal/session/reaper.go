package session

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Default lifecycle intervals: sessions live for an hour and the sweep runs
// on the same cadence.
const (
	DefaultTTL           = time.Hour
	DefaultSweepInterval = time.Hour
)

// Reaper deletes session directories older than the TTL on a fixed
// interval. It does not coordinate with in-flight downloads; the TTL is
// expected to dwarf any plausible run.
type Reaper struct {
	store    *Store
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// NewReaper creates a reaper over the store. ttl and interval fall back to
// the defaults when zero; now may be injected for deterministic tests and
// defaults to time.Now.
func NewReaper(store *Store, ttl, interval time.Duration, now func() time.Time, logger *zap.Logger) *Reaper {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if now == nil {
		now = time.Now
	}
	return &Reaper{store: store, ttl: ttl, interval: interval, now: now, logger: logger}
}

// Start runs the sweep loop until the context is cancelled.
func (r *Reaper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.sweep()
			}
		}
	}()
}

// sweep removes every session directory whose age exceeds the TTL.
func (r *Reaper) sweep() {
	entries, err := os.ReadDir(r.store.Root())
	if err != nil {
		r.logger.Warn("reaper cannot list downloads root", zap.Error(err))
		return
	}

	cutoff := r.now().Add(-r.ttl)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(r.store.Root(), entry.Name())); err != nil {
			r.logger.Warn("reaper failed to delete session",
				zap.String("session", entry.Name()),
				zap.Error(err),
			)
			continue
		}
		r.logger.Info("deleted expired session", zap.String("session", entry.Name()))
	}
}
