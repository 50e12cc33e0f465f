package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	redisclient "github.com/redis/go-redis/v9"
	"github.com/robertarktes/webinar-seats/internal/adapters/crdb"
	"github.com/robertarktes/webinar-seats/internal/adapters/rabbit"
	redisadapter "github.com/robertarktes/webinar-seats/internal/adapters/redis"
	"github.com/robertarktes/webinar-seats/internal/domain"
	httphandler "github.com/robertarktes/webinar-seats/internal/http"
	"github.com/robertarktes/webinar-seats/internal/idempotency"
	"github.com/robertarktes/webinar-seats/internal/observability"
	"github.com/robertarktes/webinar-seats/internal/outbox"
	"github.com/robertarktes/webinar-seats/internal/rateLimit"
	"github.com/robertarktes/webinar-seats/internal/usecase"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startContainer(t *testing.T, req testcontainers.ContainerRequest) testcontainers.Container {
	t.Helper()
	ctx := context.Background()
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Terminate(ctx) })
	return c
}

func hostPort(t *testing.T, c testcontainers.Container, port nat.Port) string {
	t.Helper()
	ctx := context.Background()
	host, err := c.Host(ctx)
	if err != nil {
		t.Fatal(err)
	}
	mapped, err := c.MappedPort(ctx, port)
	if err != nil {
		t.Fatal(err)
	}
	return host + ":" + mapped.Port()
}

func TestIntegration_ChangeSeatsPublishesEvent(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	ctx := context.Background()

	crdbContainer := startContainer(t, testcontainers.ContainerRequest{
		Image:        "cockroachdb/cockroach:v24.1.1",
		Cmd:          []string{"start-single-node", "--insecure"},
		ExposedPorts: []string{"26257/tcp", "8080/tcp"},
		WaitingFor:   wait.ForHTTP("/health?ready=1").WithPort("8080"),
	})
	redisContainer := startContainer(t, testcontainers.ContainerRequest{
		Image:        "redis:7",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	})
	rabbitContainer := startContainer(t, testcontainers.ContainerRequest{
		Image:        "rabbitmq:3.13-management",
		ExposedPorts: []string{"5672/tcp"},
		WaitingFor:   wait.ForLog("Server startup complete"),
	})

	pool, err := pgxpool.New(ctx, "postgresql://root@"+hostPort(t, crdbContainer, "26257")+"/defaultdb?sslmode=disable")
	require.NoError(t, err)
	defer pool.Close()
	crdbRepo := crdb.NewRepository(pool)
	require.NoError(t, crdbRepo.Migrate(ctx))

	seed := domain.Webinar{
		ID:          "webinar-id",
		OrganizerID: "alice",
		Title:       "Webinar title",
		StartDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC),
		Seats:       100,
	}
	require.NoError(t, crdbRepo.Update(ctx, &seed))

	logger := observability.NewNopLogger()
	redisClient := redisclient.NewClient(&redisclient.Options{Addr: hostPort(t, redisContainer, "6379")})
	defer redisClient.Close()
	webinars := redisadapter.NewCachedWebinarRepository(crdbRepo, redisadapter.NewCache(redisClient), time.Minute, logger)
	idemp := idempotency.NewIdempotency(redisadapter.NewIdempotency(redisClient), time.Hour)
	rl := rateLimit.NewRateLimiter(redisadapter.NewCache(redisClient))

	handlers := httphandler.NewHandlers(usecase.NewChangeSeats(webinars, logger), webinars, idemp, logger)
	srv := httptest.NewServer(httphandler.SetupRouter(handlers, logger, rl, httphandler.RateLimit{Rate: 10, Period: time.Minute}, secret))
	defer srv.Close()

	rabbitConn, err := amqp.Dial("amqp://guest:guest@" + hostPort(t, rabbitContainer, "5672") + "/")
	require.NoError(t, err)
	defer rabbitConn.Close()
	consumer, err := rabbit.NewConsumer(rabbitConn, "test.seats_changed.q", 1, crdb.EventSeatsChanged)
	require.NoError(t, err)
	deliveries, err := consumer.Consume(ctx)
	require.NoError(t, err)
	rabbitPub, err := rabbit.NewPublisher(rabbitConn)
	require.NoError(t, err)

	patch := func(actor string, seats int) *http.Response {
		body, _ := json.Marshal(map[string]int{"seats": seats})
		req, _ := http.NewRequest(http.MethodPatch, srv.URL+"/v1/webinars/webinar-id/seats", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token(t, actor))
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	require.Equal(t, http.StatusForbidden, patch("bob", 200).StatusCode)
	require.Equal(t, http.StatusBadRequest, patch("alice", 50).StatusCode)
	require.Equal(t, http.StatusBadRequest, patch("alice", 1500).StatusCode)
	require.Equal(t, http.StatusOK, patch("alice", 200).StatusCode)

	stored, err := crdbRepo.FindByID(ctx, "webinar-id")
	require.NoError(t, err)
	require.Equal(t, 200, stored.Seats)

	published, err := outbox.NewPublisher(crdbRepo, rabbitPub, logger).PublishBatch(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, published)

	select {
	case d := <-deliveries:
		var event crdb.SeatsChanged
		require.NoError(t, json.Unmarshal(d.Body, &event))
		require.Equal(t, "webinar-id", event.WebinarID)
		require.Equal(t, 100, event.PreviousSeats)
		require.Equal(t, 200, event.Seats)
		require.NoError(t, d.Ack(false))
	case <-time.After(10 * time.Second):
		t.Fatal("no webinar.seats_changed event received")
	}
}
