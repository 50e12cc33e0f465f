package mongo_test

import (
	"context"
	"testing"
	"time"

	mongoadapter "github.com/robertarktes/webinar-seats/internal/adapters/mongo"
	"github.com/robertarktes/webinar-seats/internal/domain"
	"github.com/robertarktes/webinar-seats/internal/observability"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestWebinarRepository(t *testing.T) {
	ctx := context.Background()

	mongoContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp"),
		},
		Started: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer mongoContainer.Terminate(ctx)

	host, err := mongoContainer.Host(ctx)
	if err != nil {
		t.Fatal(err)
	}
	port, err := mongoContainer.MappedPort(ctx, "27017")
	if err != nil {
		t.Fatal(err)
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI("mongodb://"+host+":"+port.Port()))
	if err != nil {
		t.Fatal(err)
	}
	defer client.Disconnect(ctx)

	repo := mongoadapter.NewWebinarRepository(client.Database("webinars_test"), observability.NewNopLogger())

	missing, err := repo.FindByID(ctx, "webinar-id")
	require.NoError(t, err)
	require.Nil(t, missing)

	w := domain.Webinar{
		ID:          "webinar-id",
		OrganizerID: "alice",
		Title:       "Webinar title",
		StartDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC),
		Seats:       100,
	}
	require.NoError(t, repo.Update(ctx, &w))

	w.Seats = 200
	require.NoError(t, repo.Update(ctx, &w))
	require.NoError(t, repo.Update(ctx, &w))

	got, err := repo.FindByID(ctx, "webinar-id")
	require.NoError(t, err)
	require.Equal(t, 200, got.Seats)
	require.Equal(t, "alice", got.OrganizerID)
	require.True(t, got.EndDate.Equal(w.EndDate))

	count, err := client.Database("webinars_test").Collection("webinars").CountDocuments(ctx, bson.M{})
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}
