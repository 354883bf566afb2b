package sequences

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"primerdesign/api/models"
)

// SequenceStore is an optional second-level store consulted before the
// provider, e.g. the Elasticsearch sequences index.
type SequenceStore interface {
	GetSequence(ctx context.Context, identifier string) (models.Sequence, bool, error)
	StoreSequence(ctx context.Context, identifier string, seq models.Sequence) error
}

type CacheOverview struct {
	Size        int      `json:"size"`
	TotalBases  int      `json:"totalBases"`
	Identifiers []string `json:"identifiers"`
}

// DefaultStoreTimeout bounds each SequenceStore call.
const DefaultStoreTimeout = 5 * time.Second

// Cache memoizes normalized sequences per identifier for the lifetime of
// the process. Concurrent misses for one identifier share a single
// provider call; entries never expire and failures are not cached.
type Cache struct {
	provider Provider
	store    SequenceStore
	logger   *zap.Logger

	storeTimeout time.Duration

	mu      sync.RWMutex
	entries map[string]models.Sequence
	flights singleflight.Group
}

// NewCache builds a cache over provider. store may be nil.
func NewCache(provider Provider, store SequenceStore, logger *zap.Logger) *Cache {
	return &Cache{
		provider: provider,
		store:    store,
		logger:   logger.Named("sequence-cache"),
		entries:  make(map[string]models.Sequence),

		storeTimeout: DefaultStoreTimeout,
	}
}

// SetStoreTimeout replaces the per-call store deadline; non-positive
// values keep the current one.
func (c *Cache) SetStoreTimeout(d time.Duration) {
	if d > 0 {
		c.storeTimeout = d
	}
}

func (c *Cache) Peek(identifier string) (models.Sequence, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seq, ok := c.entries[NormalizeIdentifier(identifier)]
	return seq, ok
}

// Get returns the sequence for identifier, fetching it at most once at a
// time. A caller whose ctx ends stops waiting; the shared fetch carries on
// for the remaining waiters, bounded by the provider's own deadlines.
func (c *Cache) Get(ctx context.Context, identifier string) (models.Sequence, error) {
	key := NormalizeIdentifier(identifier)
	if key == "" {
		return "", &SequenceFetchError{Identifier: identifier, Reason: "empty identifier"}
	}
	if seq, ok := c.Peek(key); ok {
		return seq, nil
	}

	ch := c.flights.DoChan(key, func() (interface{}, error) {
		return c.fetch(context.WithoutCancel(ctx), key)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(models.Sequence), nil
	case <-ctx.Done():
		return "", &SequenceFetchError{Identifier: key, Reason: "request cancelled", Err: ctx.Err()}
	}
}

func (c *Cache) fetch(ctx context.Context, key string) (models.Sequence, error) {
	// an earlier flight may have landed between Peek and DoChan
	if seq, ok := c.Peek(key); ok {
		return seq, nil
	}

	if c.store != nil {
		storeCtx, cancel := context.WithTimeout(ctx, c.storeTimeout)
		seq, found, err := c.store.GetSequence(storeCtx, key)
		cancel()
		if err != nil {
			c.logger.Warn("sequence store lookup failed", zap.String("identifier", key), zap.Error(err))
		} else if found {
			c.put(key, seq)
			return seq, nil
		}
	}

	raw, err := c.provider.Fetch(ctx, key)
	if err != nil {
		return "", &SequenceFetchError{Identifier: key, Reason: "provider could not resolve identifier", Err: err}
	}
	seq, err := Normalize(key, raw)
	if err != nil {
		return "", err
	}

	c.put(key, seq)
	c.logger.Info("sequence cached", zap.String("identifier", key), zap.Int("length", len(seq)))

	if c.store != nil {
		storeCtx, cancel := context.WithTimeout(ctx, c.storeTimeout)
		defer cancel()
		if err := c.store.StoreSequence(storeCtx, key, seq); err != nil {
			c.logger.Warn("sequence store write failed", zap.String("identifier", key), zap.Error(err))
		}
	}
	return seq, nil
}

func (c *Cache) put(key string, seq models.Sequence) {
	c.mu.Lock()
	c.entries[key] = seq
	c.mu.Unlock()
}

func (c *Cache) Overview() CacheOverview {
	c.mu.RLock()
	defer c.mu.RUnlock()

	overview := CacheOverview{Size: len(c.entries), Identifiers: make([]string, 0, len(c.entries))}
	for id, seq := range c.entries {
		overview.Identifiers = append(overview.Identifiers, id)
		overview.TotalBases += len(seq)
	}
	sort.Strings(overview.Identifiers)
	return overview
}
