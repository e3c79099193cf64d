package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/nharden/itemfeed-client/internal/testutil"
	"github.com/nharden/itemfeed-client/pkg/cache"
	"github.com/nharden/itemfeed-client/pkg/client"
	"github.com/nharden/itemfeed-client/pkg/pipeline"
)

// setupRedis creates a Redis container for integration testing.
func setupRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("Failed to start Redis container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})

	cleanup := func() {
		redisClient.Close()
		container.Terminate(ctx)
	}

	return redisClient, cleanup
}

const feedBody = `[
	{"id": 755, "listId": 2, "name": ""},
	{"id": 684, "listId": 1, "name": "Item 684"},
	{"id": 680, "listId": 3, "name": "Item 680"},
	{"id": 276, "listId": 1, "name": "Item 276"},
	{"id": 736, "listId": 3, "name": null},
	{"id": 808, "listId": 1, "name": "Item 808"}
]`

func newFeedClient(t *testing.T, mock *testutil.MockFeed, feedCache *cache.Manager) *client.Client {
	t.Helper()

	c, err := client.New(client.Config{
		FeedURL:   mock.URL(),
		UserAgent: "itemfeed-integration/1.0",
		Timeout:   10 * time.Second,
		Cache:     feedCache,
	})
	if err != nil {
		t.Fatalf("client.New() error = %v", err)
	}
	return c
}

// TestFullPipelineFlow runs fetch → parse/filter → sort/group end to end.
func TestFullPipelineFlow(t *testing.T) {
	mock := testutil.NewMockFeed()
	defer mock.Close()
	mock.Respond(testutil.FeedResponse{StatusCode: http.StatusOK, Body: feedBody})

	p := pipeline.New(newFeedClient(t, mock, nil))

	groups, err := p.FetchGroupedItems(context.Background())
	if err != nil {
		t.Fatalf("FetchGroupedItems() error = %v", err)
	}

	ids := groups.GroupIDs()
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 3 {
		t.Fatalf("GroupIDs() = %v, want [1 3]", ids)
	}

	group1 := groups[1]
	wantNames := []string{"Item 276", "Item 684", "Item 808"}
	for i, r := range group1 {
		if r.Name != wantNames[i] {
			t.Errorf("group 1 [%d] = %q, want %q", i, r.Name, wantNames[i])
		}
	}

	for _, listID := range ids {
		for _, r := range groups[listID] {
			if r.Name == "" {
				t.Errorf("blank-named record %d survived the filter", r.ID)
			}
		}
	}
}

// TestCachedRevalidationFlow verifies the conditional request round trip:
// first fetch populates the cache, second fetch revalidates and a 304 is
// answered from the cached bytes.
func TestCachedRevalidationFlow(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockFeed()
	defer mock.Close()
	mock.Respond(testutil.FeedResponse{
		StatusCode: http.StatusOK,
		Body:       feedBody,
		Headers: map[string]string{
			"ETag":          `"v1"`,
			"Cache-Control": "max-age=300",
		},
	})

	feedCache := cache.NewManager(redisClient)
	p := pipeline.New(newFeedClient(t, mock, feedCache))
	ctx := context.Background()

	first, err := p.FetchGroupedItems(ctx)
	if err != nil {
		t.Fatalf("first run error = %v", err)
	}

	// Upstream now answers 304 for the revalidation.
	mock.Respond(testutil.FeedResponse{
		StatusCode: http.StatusNotModified,
		Headers:    map[string]string{"ETag": `"v1"`},
	})

	second, err := p.FetchGroupedItems(ctx)
	if err != nil {
		t.Fatalf("second run error = %v", err)
	}

	if mock.ConditionalCount == 0 {
		t.Error("expected a conditional request on the second fetch")
	}
	if first.Len() != second.Len() {
		t.Errorf("record counts differ across runs: %d vs %d", first.Len(), second.Len())
	}
	if mock.Requests() != 2 {
		t.Errorf("upstream saw %d requests, want 2 (one per pipeline run, no retry)", mock.Requests())
	}
}

// TestPipelineErrorsEndToEnd checks that upstream failures reach the caller
// with no partial result.
func TestPipelineErrorsEndToEnd(t *testing.T) {
	mock := testutil.NewMockFeed()
	defer mock.Close()

	p := pipeline.New(newFeedClient(t, mock, nil))
	ctx := context.Background()

	t.Run("upstream 500", func(t *testing.T) {
		mock.Respond(testutil.FeedResponse{StatusCode: http.StatusInternalServerError, Body: "boom"})

		groups, err := p.FetchGroupedItems(ctx)
		if groups != nil || err == nil {
			t.Errorf("got (%v, %v), want (nil, error)", groups, err)
		}
		if !pipeline.IsFeedError(err) {
			t.Errorf("error = %v, want *client.FeedError", err)
		}
	})

	t.Run("malformed document", func(t *testing.T) {
		mock.Respond(testutil.FeedResponse{StatusCode: http.StatusOK, Body: `[{"id": 1,`})

		groups, err := p.FetchGroupedItems(ctx)
		if groups != nil || err == nil {
			t.Errorf("got (%v, %v), want (nil, error)", groups, err)
		}
		if pipeline.IsFeedError(err) {
			t.Errorf("parse failure misclassified as feed error: %v", err)
		}
	})

	t.Run("empty feed succeeds", func(t *testing.T) {
		mock.Respond(testutil.FeedResponse{StatusCode: http.StatusOK, Body: `[]`})

		groups, err := p.FetchGroupedItems(ctx)
		if err != nil {
			t.Fatalf("FetchGroupedItems() error = %v", err)
		}
		if groups == nil || len(groups) != 0 {
			t.Errorf("groups = %v, want empty non-nil map", groups)
		}
	})
}
