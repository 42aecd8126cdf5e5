// Package preview stages normalized save requests under short-lived tokens
// so a later confirmation can replay them verbatim.
// See docs/ARCHITECTURE.md § Preview Store.
package preview

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okonomi-dev/kiroku/internal/kv"
	"github.com/okonomi-dev/kiroku/pkg/types"
)

const (
	// keyPrefix namespaces staged previews in the store.
	keyPrefix = "preview:"

	// stageTTL bounds how long a preview waits for confirmation.
	stageTTL = 10 * time.Minute
)

// Store stages and consumes save requests. There is no update operation: a
// "modify then resave" flow arrives upstream as a brand-new message, never
// as a mutation of a staged request.
type Store struct {
	kv kv.Store
}

// New creates a Store over the given key-value capability.
func New(store kv.Store) *Store {
	return &Store{kv: store}
}

// Stage stores the request under a fresh token, valid for about ten
// minutes. The staged content is immutable and is not validated against
// the live schema; validation waits until commit so the schema may change
// between preview and confirm.
func (s *Store) Stage(ctx context.Context, req types.SaveRequest) (string, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode save request: %w", err)
	}

	token := newToken()
	if err := s.kv.Put(ctx, keyPrefix+token, data, stageTTL); err != nil {
		return "", fmt.Errorf("stage preview: %w", err)
	}
	return token, nil
}

// Consume retrieves and logically expires the request staged under token.
// It is one-shot: a second consume returns ErrNotFound, whether the cause
// was expiry or the prior consume; the two are not distinguished.
func (s *Store) Consume(ctx context.Context, token string) (*types.SaveRequest, error) {
	key := keyPrefix + token

	data, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("consume preview: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: preview %s", types.ErrNotFound, token)
	}

	if err := s.kv.Delete(ctx, key); err != nil {
		return nil, fmt.Errorf("consume preview: %w", err)
	}

	var req types.SaveRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("decode save request: %w", err)
	}
	return &req, nil
}

// newToken returns a fresh opaque preview token.
func newToken() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
