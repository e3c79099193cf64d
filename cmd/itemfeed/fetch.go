package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nharden/itemfeed-client/pkg/client"
	"github.com/nharden/itemfeed-client/pkg/items"
	"github.com/nharden/itemfeed-client/pkg/logging"
	"github.com/nharden/itemfeed-client/pkg/pipeline"
)

var (
	fetchFeedURL string
	fetchJSON    bool
	fetchTimeout time.Duration
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the feed once and print the grouped items",
	RunE:  runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchFeedURL, "feed-url", getEnv("FEED_URL", client.DefaultFeedURL), "feed URL")
	fetchCmd.Flags().BoolVar(&fetchJSON, "json", false, "print groups as JSON instead of text")
	fetchCmd.Flags().DurationVar(&fetchTimeout, "timeout", 30*time.Second, "overall fetch timeout")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	logging.Setup(logging.Config{
		Level:  logging.LogLevel(getEnv("LOG_LEVEL", "warn")),
		Pretty: true,
		Output: os.Stderr,
	})

	feedClient, err := client.New(client.Config{
		FeedURL:   fetchFeedURL,
		UserAgent: getEnv("USER_AGENT", "itemfeed/0.1.0"),
		Timeout:   fetchTimeout,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), fetchTimeout)
	defer cancel()

	groups, err := pipeline.New(feedClient).FetchGroupedItems(ctx)
	if err != nil {
		return err
	}

	if fetchJSON {
		return json.NewEncoder(os.Stdout).Encode(groupedResponse(groups))
	}

	printGroups(groups)
	return nil
}

func printGroups(groups items.Grouped) {
	for _, listID := range groups.GroupIDs() {
		fmt.Printf("List %d:\n", listID)
		for _, r := range groups[listID] {
			fmt.Printf("  %s (id %d)\n", r.Name, r.ID)
		}
	}
}
