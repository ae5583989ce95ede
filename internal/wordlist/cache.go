package wordlist

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/threadkit/comments/internal/metrics"
	"github.com/threadkit/comments/internal/moderation"
)

// Lister is the read contract the cache needs from storage.
type Lister interface {
	ListActive(ctx context.Context) ([]Entry, error)
}

// Cache holds the active blocked-word map in memory and refreshes it on a
// schedule. Readers always see either the old or the new fully-formed map —
// refresh swaps an atomic pointer, it never mutates the map in place. A
// failed refresh leaves the previous snapshot serving.
type Cache struct {
	source   Lister
	interval time.Duration
	log      *zap.Logger

	words atomic.Pointer[map[string]moderation.Severity]
	cron  *cron.Cron
}

// NewCache builds a cache over the given source. Call Start to load the
// initial snapshot and begin the refresh schedule.
func NewCache(source Lister, interval time.Duration, log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Cache{
		source:   source,
		interval: interval,
		log:      log,
	}
	empty := make(map[string]moderation.Severity)
	c.words.Store(&empty)
	return c
}

// Start performs the initial load and schedules recurring refreshes. The
// initial load must succeed; later refresh failures only log and keep the
// previous snapshot.
func (c *Cache) Start(ctx context.Context) error {
	if err := c.Refresh(ctx); err != nil {
		return fmt.Errorf("wordlist: initial load: %w", err)
	}

	c.cron = cron.New()
	spec := fmt.Sprintf("@every %s", c.interval)
	if _, err := c.cron.AddFunc(spec, func() {
		refreshCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := c.Refresh(refreshCtx); err != nil {
			metrics.WordCacheRefreshFailures.Inc()
			c.log.Warn("blocked-word cache refresh failed, serving stale snapshot", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("wordlist: schedule refresh: %w", err)
	}
	c.cron.Start()
	return nil
}

// Stop halts the refresh schedule.
func (c *Cache) Stop() {
	if c.cron != nil {
		c.cron.Stop()
	}
}

// Refresh replaces the in-memory map from storage. Entries with unknown
// severities are skipped rather than failing the whole load.
func (c *Cache) Refresh(ctx context.Context) error {
	entries, err := c.source.ListActive(ctx)
	if err != nil {
		return err
	}

	next := make(map[string]moderation.Severity, len(entries))
	for _, e := range entries {
		word := strings.ToLower(strings.TrimSpace(e.Word))
		if word == "" {
			continue
		}
		if !e.Severity.Valid() {
			c.log.Warn("skipping blocked word with unknown severity",
				zap.String("word", word), zap.String("severity", string(e.Severity)))
			continue
		}
		next[word] = e.Severity
	}

	c.words.Store(&next)
	metrics.WordCacheSize.Set(float64(len(next)))
	c.log.Debug("blocked-word cache refreshed", zap.Int("words", len(next)))
	return nil
}

// Lookup resolves a token to its severity. Case-insensitive exact match:
// no stemming, no substring matching.
func (c *Cache) Lookup(token string) (moderation.Severity, bool) {
	m := *c.words.Load()
	sev, ok := m[strings.ToLower(token)]
	return sev, ok
}

// Size returns the number of words in the current snapshot.
func (c *Cache) Size() int {
	return len(*c.words.Load())
}
