// Command itemfeed is the CLI for the grouped item feed client: a one-shot
// fetch command and a small HTTP daemon exposing the grouped feed.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "itemfeed",
	Short: "Grouped item feed client",
	Long: "itemfeed retrieves the remote item feed, filters out blank-named records,\n" +
		"sorts them by list id and name, and groups them by list id.",
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
