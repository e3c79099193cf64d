package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nharden/itemfeed-client/pkg/cache"
	"github.com/nharden/itemfeed-client/pkg/client"
	"github.com/nharden/itemfeed-client/pkg/items"
	"github.com/nharden/itemfeed-client/pkg/logging"
	"github.com/nharden/itemfeed-client/pkg/pipeline"
)

var (
	servePort     string
	serveFeedURL  string
	serveRedisURL string
	serveLogLevel string
	serveLogJSON  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the grouped item feed HTTP daemon",
	Long: "serve exposes the grouped feed at /v1/items/grouped, with health and\n" +
		"Prometheus metrics endpoints. With --redis-url set, raw feed responses\n" +
		"are cached and revalidated with conditional requests.",
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", getEnv("PORT", "8080"), "listen port")
	serveCmd.Flags().StringVar(&serveFeedURL, "feed-url", getEnv("FEED_URL", client.DefaultFeedURL), "feed URL")
	serveCmd.Flags().StringVar(&serveRedisURL, "redis-url", getEnv("REDIS_URL", ""), "Redis address for the response cache (empty disables caching)")
	serveCmd.Flags().StringVar(&serveLogLevel, "log-level", getEnv("LOG_LEVEL", "info"), "log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&serveLogJSON, "log-json", true, "log JSON to stderr (false for console output)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(serveLogLevel),
		Pretty: !serveLogJSON,
		Output: os.Stderr,
	})

	// Optional Redis-backed response cache.
	var redisClient *redis.Client
	var feedCache *cache.Manager
	if serveRedisURL != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: serveRedisURL})
		if err := redisClient.Ping(cmd.Context()).Err(); err != nil {
			return fmt.Errorf("connect to redis at %s: %w", serveRedisURL, err)
		}
		feedCache = cache.NewManager(redisClient)
		logger.Info().Str("redis", serveRedisURL).Msg("Feed cache enabled")
	}

	feedClient, err := client.New(client.Config{
		FeedURL:   serveFeedURL,
		UserAgent: getEnv("USER_AGENT", "itemfeed/0.1.0"),
		Timeout:   30 * time.Second,
		Cache:     feedCache,
	})
	if err != nil {
		return err
	}

	p := pipeline.New(feedClient)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", healthHandler)
	mux.HandleFunc("/readyz", readyHandler(redisClient))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/v1/items/grouped", groupedItemsHandler(p))

	server := &http.Server{
		Addr:         ":" + servePort,
		Handler:      requestLogMiddleware(logger, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Str("feed_url", serveFeedURL).Msg("Starting itemfeed server")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

// readyHandler reports readiness. With caching enabled, Redis must answer.
func readyHandler(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			if err := redisClient.Ping(r.Context()).Err(); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				fmt.Fprintf(w, "redis unavailable: %v", err)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	}
}

// itemGroup is one group in the response, rendered in ascending listId order.
type itemGroup struct {
	ListID int64          `json:"listId"`
	Items  []items.Record `json:"items"`
}

// groupedItems is the /v1/items/grouped response envelope.
type groupedItems struct {
	Groups []itemGroup `json:"groups"`
	Count  int         `json:"count"`
}

func groupedResponse(groups items.Grouped) groupedItems {
	resp := groupedItems{
		Groups: make([]itemGroup, 0, len(groups)),
		Count:  groups.Len(),
	}
	for _, listID := range groups.GroupIDs() {
		resp.Groups = append(resp.Groups, itemGroup{ListID: listID, Items: groups[listID]})
	}
	return resp
}

func groupedItemsHandler(p *pipeline.Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		groups, err := p.FetchGroupedItems(ctx)
		if err != nil {
			status := http.StatusBadGateway
			if !pipeline.IsFeedError(err) {
				// Upstream answered but with an undecodable document.
				status = http.StatusInternalServerError
			}
			http.Error(w, err.Error(), status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(groupedResponse(groups)); err != nil {
			hlog := zerolog.Ctx(r.Context())
			hlog.Warn().Err(err).Msg("Failed to write response")
		}
	}
}

// requestLogMiddleware assigns a request id and logs one line per request.
func requestLogMiddleware(logger zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		reqLogger := logger.With().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()

		w.Header().Set("X-Request-Id", requestID)

		start := time.Now()
		next.ServeHTTP(w, r.WithContext(reqLogger.WithContext(r.Context())))
		reqLogger.Info().Dur("duration", time.Since(start)).Msg("Request handled")
	})
}
