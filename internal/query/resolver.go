package query

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/menuplan/internal/cache"
	"github.com/mitchellh/hashstructure/v2"
)

// CachePrefix namespaces every cached query result, so one prefix delete
// invalidates them all.
const CachePrefix = "menuplan:find_items:"

// Result is the answer to FindItems. ItemIDs are unique and ascending.
type Result struct {
	ItemIDs []int64 `json:"item_ids"`
	Tier    string  `json:"tier"`
}

// Resolver answers queries from the cache, then from the first available
// strategy, caching what the strategy returned.
type Resolver struct {
	cache      cache.Cache
	strategies []Strategy
}

func NewResolver(c cache.Cache, strategies ...Strategy) *Resolver {
	if c == nil {
		c = cache.Nop{}
	}
	return &Resolver{cache: c, strategies: strategies}
}

// CacheKey derives the cache key for q.
func CacheKey(q Query) (string, error) {
	h, err := hashstructure.Hash(q, hashstructure.FormatV2, nil)
	if err != nil {
		return "", fmt.Errorf("hashing query: %w", err)
	}
	return fmt.Sprintf("%s%016x", CachePrefix, h), nil
}

func (r *Resolver) FindItems(ctx context.Context, q Query) (*Result, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	key, err := CacheKey(q)
	if err != nil {
		return nil, err
	}

	if raw, ok, err := r.cache.Get(ctx, key); err == nil && ok {
		var ids []int64
		if json.Unmarshal(raw, &ids) == nil {
			return &Result{ItemIDs: ids, Tier: TierCache}, nil
		}
	}

	conds := Conditions(q)
	for _, s := range r.strategies {
		ok, err := s.Available(ctx)
		if err != nil {
			return nil, fmt.Errorf("probing %s strategy: %w", s.Name(), err)
		}
		if !ok {
			continue
		}
		ids, err := s.FindItems(ctx, conds)
		if err != nil {
			return nil, fmt.Errorf("%s strategy: %w", s.Name(), err)
		}
		if raw, err := json.Marshal(ids); err == nil {
			// Cache writes are best effort.
			_ = r.cache.Set(ctx, key, raw)
		}
		return &Result{ItemIDs: ids, Tier: s.Name()}, nil
	}
	return nil, fmt.Errorf("no query strategy available")
}

// Invalidate drops every cached query result.
func (r *Resolver) Invalidate(ctx context.Context) (int, error) {
	return r.cache.DeletePrefix(ctx, CachePrefix)
}
