package idempotency

import (
	"context"
	"time"

	redisadapter "github.com/robertarktes/webinar-seats/internal/adapters/redis"
)

const MinKeyLength = 16

type Store interface {
	Get(ctx context.Context, key string) (*redisadapter.IdempResponse, error)
	Set(ctx context.Context, key string, resp redisadapter.IdempResponse, ttl time.Duration) error
}

// Idempotency remembers responses per scope and client supplied key so a
// retried request gets the first response back.
type Idempotency struct {
	store Store
	ttl   time.Duration
}

func NewIdempotency(store Store, ttl time.Duration) *Idempotency {
	return &Idempotency{store: store, ttl: ttl}
}

// Response is a recorded reply. Fingerprint identifies the request that
// produced it so a key reused for a different request can be refused.
type Response struct {
	Status      int
	Result      []byte
	Fingerprint string
}

func storeKey(scope, key string) string {
	return scope + ":" + key
}

func (i *Idempotency) Get(ctx context.Context, scope, key string) (*Response, error) {
	stored, err := i.store.Get(ctx, storeKey(scope, key))
	if err != nil || stored == nil {
		return nil, err
	}
	return &Response{Status: stored.Status, Result: stored.Result, Fingerprint: stored.Fingerprint}, nil
}

func (i *Idempotency) Set(ctx context.Context, scope, key string, resp Response) error {
	return i.store.Set(ctx, storeKey(scope, key), redisadapter.IdempResponse{Status: resp.Status, Result: resp.Result, Fingerprint: resp.Fingerprint}, i.ttl)
}
