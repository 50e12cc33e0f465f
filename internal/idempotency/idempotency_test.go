package idempotency_test

import (
	"context"
	"testing"
	"time"

	redisadapter "github.com/robertarktes/webinar-seats/internal/adapters/redis"
	"github.com/robertarktes/webinar-seats/internal/idempotency"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	data map[string]redisadapter.IdempResponse
	ttls map[string]time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string]redisadapter.IdempResponse{}, ttls: map[string]time.Duration{}}
}

func (f *fakeStore) Get(ctx context.Context, key string) (*redisadapter.IdempResponse, error) {
	resp, ok := f.data[key]
	if !ok {
		return nil, nil
	}
	return &resp, nil
}

func (f *fakeStore) Set(ctx context.Context, key string, resp redisadapter.IdempResponse, ttl time.Duration) error {
	f.data[key] = resp
	f.ttls[key] = ttl
	return nil
}

func TestIdempotency_RoundTripIsScoped(t *testing.T) {
	store := newFakeStore()
	idemp := idempotency.NewIdempotency(store, time.Hour)
	ctx := context.Background()

	require.NoError(t, idemp.Set(ctx, "alice", "0123456789abcdef", idempotency.Response{Status: 200, Result: []byte("ok"), Fingerprint: "200"}))

	got, err := idemp.Get(ctx, "alice", "0123456789abcdef")
	require.NoError(t, err)
	require.Equal(t, &idempotency.Response{Status: 200, Result: []byte("ok"), Fingerprint: "200"}, got)
	require.Equal(t, time.Hour, store.ttls["alice:0123456789abcdef"])

	other, err := idemp.Get(ctx, "bob", "0123456789abcdef")
	require.NoError(t, err)
	require.Nil(t, other)
}
