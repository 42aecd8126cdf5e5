// Package destination resolves destination references into live handles:
// symbolic kinds through configuration, free-text names through the cached
// name search. See docs/ARCHITECTURE.md § Destination Resolver.
package destination

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/okonomi-dev/kiroku/internal/kv"
	"github.com/okonomi-dev/kiroku/internal/notion"
	"github.com/okonomi-dev/kiroku/pkg/types"
)

const (
	// nameCachePrefix namespaces name-to-identifier entries in the store.
	nameCachePrefix = "dbid:"

	// nameCacheTTL bounds how long a resolved name sticks. There is no
	// invalidation: a destination renamed or deleted upstream surfaces
	// as an upstream error at fetch time until the entry ages out.
	nameCacheTTL = 30 * 24 * time.Hour
)

// Service is the slice of the database service the resolver needs.
type Service interface {
	// RetrieveDatabase fetches a destination's schema and returns its
	// completed handle.
	RetrieveDatabase(ctx context.Context, id string) (*types.DestinationHandle, error)

	// Search returns destination candidates for a name query, most
	// recently edited first.
	Search(ctx context.Context, query string) ([]notion.Candidate, error)
}

// Resolver maps destination references to handles. The schema is always
// fetched fresh; only the name-to-identifier mapping is cached.
type Resolver struct {
	svc      Service
	cache    kv.Store
	bindings map[types.DestinationKind]string
	log      *zap.Logger
}

// New creates a Resolver. bindings maps symbolic kinds to their configured
// canonical identifiers.
func New(svc Service, cache kv.Store, bindings map[types.DestinationKind]string, log *zap.Logger) *Resolver {
	return &Resolver{svc: svc, cache: cache, bindings: bindings, log: log}
}

// Resolve turns a reference into a live handle. Symbolic kinds missing from
// configuration fail with ErrConfig, a deployment mistake, distinct from a
// user naming an unknown destination (ErrNotFound).
func (r *Resolver) Resolve(ctx context.Context, ref types.DestinationRef) (*types.DestinationHandle, error) {
	if ref.ByName() {
		return r.resolveByName(ctx, ref.Name)
	}
	return r.resolveKind(ctx, ref.Kind)
}

func (r *Resolver) resolveKind(ctx context.Context, kind types.DestinationKind) (*types.DestinationHandle, error) {
	id, ok := r.bindings[kind]
	if !ok || id == "" {
		return nil, fmt.Errorf("%w: no binding for kind %q", types.ErrConfig, kind)
	}
	return r.svc.RetrieveDatabase(ctx, id)
}

func (r *Resolver) resolveByName(ctx context.Context, name string) (*types.DestinationHandle, error) {
	key := nameCachePrefix + name

	cached, ok, err := r.cache.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("name cache: %w", err)
	}
	if ok {
		// No existence re-check on a hit; a stale identifier surfaces
		// as an upstream error from the fetch below.
		return r.svc.RetrieveDatabase(ctx, string(cached))
	}

	id, err := r.searchByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Put(ctx, key, []byte(id), nameCacheTTL); err != nil {
		r.log.Warn("name cache write failed", zap.String("name", name), zap.Error(err))
	}

	return r.svc.RetrieveDatabase(ctx, id)
}

// searchByName picks exactly one candidate: an exact trimmed-title match if
// any, otherwise the most recently edited result. Ties beyond "most recent"
// are not broken further.
func (r *Resolver) searchByName(ctx context.Context, name string) (string, error) {
	candidates, err := r.svc.Search(ctx, name)
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: no destination named %q", types.ErrNotFound, name)
	}

	for _, c := range candidates {
		if strings.TrimSpace(c.Title) == name {
			return types.NormalizeID(c.ID), nil
		}
	}

	r.log.Debug("no exact title match, using most recent",
		zap.String("name", name), zap.String("id", candidates[0].ID))
	return types.NormalizeID(candidates[0].ID), nil
}
