package core

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"si-components/internal/ports"
)

// SchemaCache memoizes schema name to schema id lookups for one run. Entries
// are never invalidated; failed lookups are not stored so a later call can
// retry. Concurrent misses on the same name share a single lookup.
type SchemaCache struct {
	lookup ports.SchemaLookupPort

	mu      sync.RWMutex
	entries map[string]string
	flight  singleflight.Group

	hits    atomic.Int64
	misses  atomic.Int64
	lookups atomic.Int64
}

type SchemaCacheStats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Lookups int64 `json:"lookups"`
}

var _ ports.SchemaResolverPort = (*SchemaCache)(nil)

func NewSchemaCache(lookup ports.SchemaLookupPort) *SchemaCache {
	return &SchemaCache{
		lookup:  lookup,
		entries: map[string]string{},
	}
}

// Seed pre-populates an entry, e.g. from configuration or a test.
func (c *SchemaCache) Seed(schemaName string, schemaID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[strings.TrimSpace(schemaName)] = schemaID
}

func (c *SchemaCache) Resolve(ctx context.Context, changeSetID string, schemaName string) (string, error) {
	key := strings.TrimSpace(schemaName)
	if key == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("schema name is required")
	}
	if id, ok := c.get(key); ok {
		c.hits.Add(1)
		return id, nil
	}
	c.misses.Add(1)

	// The shared lookup outlives any single caller; each caller stops
	// waiting when its own context ends.
	lookupCtx := context.WithoutCancel(ctx)
	flight := c.flight.DoChan(key, func() (any, error) {
		// Another flight may have stored the entry between get and DoChan.
		if id, ok := c.get(key); ok {
			return id, nil
		}
		c.lookups.Add(1)
		id, err := c.lookup.LookupSchemaID(lookupCtx, changeSetID, key)
		if err != nil {
			return "", err
		}
		c.mu.Lock()
		c.entries[key] = id
		c.mu.Unlock()
		return id, nil
	})

	select {
	case <-ctx.Done():
		log.Debug().Str("schema", key).Err(ctx.Err()).Msg("schema lookup abandoned")
		return "", ctx.Err()
	case res := <-flight:
		if res.Err != nil {
			log.Debug().Str("schema", key).Err(res.Err).Msg("schema lookup failed")
			return "", res.Err
		}
		id := res.Val.(string)
		log.Debug().Str("schema", key).Str("schema_id", id).Bool("shared", res.Shared).Msg("schema resolved")
		return id, nil
	}
}

func (c *SchemaCache) Stats() SchemaCacheStats {
	c.mu.RLock()
	entries := len(c.entries)
	c.mu.RUnlock()
	return SchemaCacheStats{
		Entries: entries,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Lookups: c.lookups.Load(),
	}
}

func (c *SchemaCache) get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.entries[key]
	return id, ok
}
