package overview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bankpulse/dashboard-api/internal/analytics"
	"github.com/bankpulse/dashboard-api/internal/metrics"
	"github.com/bankpulse/dashboard-api/internal/models"
	"github.com/bankpulse/dashboard-api/internal/sources"
	"github.com/bankpulse/dashboard-api/internal/storage"
	"github.com/sirupsen/logrus"
)

// NoDataText fills every key when there is neither a corpus nor a cached entry
const NoDataText = "No data available"

// CorpusSource provides the text the overview is generated from
type CorpusSource interface {
	PrimeCorpus(ctx context.Context) (string, error)
}

// Cache serves the narrative overview, regenerating it when the stored entry
// is older than the TTL or a refresh is forced
type Cache struct {
	store    storage.StorageInterface
	corpus   CorpusSource
	narrator Narrator
	fallback *Fallback
	key      string
	ttl      time.Duration
	now      func() time.Time

	// serializes regeneration so concurrent misses call the narrator once
	mu sync.Mutex
}

var _ analytics.OverviewProvider = (*Cache)(nil)

// NewCache creates a new overview cache
func NewCache(store storage.StorageInterface, corpus CorpusSource, narrator Narrator, fallback *Fallback, key string, ttl time.Duration) *Cache {
	return &Cache{
		store:    store,
		corpus:   corpus,
		narrator: narrator,
		fallback: fallback,
		key:      key,
		ttl:      ttl,
		now:      time.Now,
	}
}

// storedEntry tolerates both RFC 3339 timestamps and the offset-less
// ISO timestamps of older cache files, and list-valued keys
type storedEntry struct {
	Timestamp string         `json:"timestamp"`
	Data      map[string]any `json:"data"`
}

// Entry returns the stored entry, or storage.ErrNotFound
func (c *Cache) Entry(ctx context.Context) (*models.OverviewCacheEntry, error) {
	b, err := c.store.Retrieve(ctx, c.key)
	if err != nil {
		return nil, err
	}

	var raw storedEntry
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode overview cache entry: %w", err)
	}
	data, err := coerce(raw.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode overview cache entry: %w", err)
	}

	// an unparseable timestamp leaves the zero time, which is always stale
	generatedAt, _ := analytics.ParseTimestamp(raw.Timestamp)
	return &models.OverviewCacheEntry{GeneratedAt: generatedAt, Data: data}, nil
}

func (c *Cache) fresh(entry *models.OverviewCacheEntry) bool {
	return entry != nil && c.now().Sub(entry.GeneratedAt) < c.ttl
}

func (c *Cache) cached(ctx context.Context) *models.OverviewCacheEntry {
	entry, err := c.Entry(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logrus.Warnf("Error reading cached overview: %v", err)
		}
		return nil
	}
	return entry
}

// GetOverview returns the cached overview while it is fresh, and otherwise
// regenerates it. It always returns all four keys.
func (c *Cache) GetOverview(ctx context.Context, force bool) (map[string]string, error) {
	if !force {
		if entry := c.cached(ctx); c.fresh(entry) {
			logrus.Debug("Using cached AI overview")
			metrics.OverviewResultsTotal.WithLabelValues(metrics.OverviewCache).Inc()
			return entry.Data, nil
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// another caller may have regenerated while this one waited
	entry := c.cached(ctx)
	if !force && c.fresh(entry) {
		metrics.OverviewResultsTotal.WithLabelValues(metrics.OverviewCache).Inc()
		return entry.Data, nil
	}

	corpus, err := c.corpus.PrimeCorpus(ctx)
	if err != nil {
		logrus.Warnf("Overview corpus unavailable: %v", err)
		metrics.OverviewResultsTotal.WithLabelValues(metrics.OverviewUnavailable).Inc()
		if entry != nil {
			return entry.Data, nil
		}
		return noData(), nil
	}

	return c.generate(ctx, corpus), nil
}

func (c *Cache) generate(ctx context.Context, corpus string) map[string]string {
	if !c.narrator.Enabled() {
		logrus.Warn("OpenAI API key not configured, using fallback overview")
		metrics.OverviewResultsTotal.WithLabelValues(metrics.OverviewFallback).Inc()
		return c.fallback.Generate(corpus)
	}

	data, err := c.narrator.Analyze(ctx, corpus)
	switch {
	case err == nil:
		metrics.OverviewResultsTotal.WithLabelValues(metrics.OverviewGenerated).Inc()
		c.persist(ctx, data)
		return data
	case errors.Is(err, ErrUnexpectedShape):
		logrus.Warnf("Failed to parse overview response, using fallback: %v", err)
		data = c.fallback.Generate(corpus)
		metrics.OverviewResultsTotal.WithLabelValues(metrics.OverviewFallback).Inc()
		c.persist(ctx, data)
		return data
	default:
		logrus.Errorf("Error generating AI overview: %v", err)
		metrics.OverviewResultsTotal.WithLabelValues(metrics.OverviewFallback).Inc()
		return c.fallback.Generate(corpus)
	}
}

// persist writes the complete entry in one Store call
func (c *Cache) persist(ctx context.Context, data map[string]string) {
	b, err := json.MarshalIndent(models.OverviewCacheEntry{GeneratedAt: c.now(), Data: data}, "", "  ")
	if err != nil {
		logrus.Errorf("Failed to encode overview cache entry: %v", err)
		return
	}
	if err := c.store.Store(ctx, c.key, b); err != nil {
		logrus.Errorf("Failed to store overview cache entry: %v", err)
	}
}

func noData() map[string]string {
	out := make(map[string]string, len(Keys))
	for _, k := range Keys {
		out[k] = NoDataText
	}
	return out
}

// ensure the repository can feed the cache directly
var _ CorpusSource = (sources.Repository)(nil)
