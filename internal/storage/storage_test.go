package storage_test

import (
	"context"
	"testing"

	"github.com/robertarktes/webinar-seats/internal/adapters/memory"
	"github.com/robertarktes/webinar-seats/internal/config"
	"github.com/robertarktes/webinar-seats/internal/observability"
	"github.com/robertarktes/webinar-seats/internal/storage"
	"github.com/stretchr/testify/require"
)

func TestOpenWebinars_Memory(t *testing.T) {
	repo, closeFn, err := storage.OpenWebinars(context.Background(), &config.Config{Storage: config.StorageMemory}, observability.NewNopLogger())
	require.NoError(t, err)
	defer closeFn()

	require.IsType(t, &memory.WebinarRepository{}, repo)
}

func TestOpenWebinars_Unknown(t *testing.T) {
	_, _, err := storage.OpenWebinars(context.Background(), &config.Config{Storage: "sqlite"}, observability.NewNopLogger())
	require.Error(t, err)
}
