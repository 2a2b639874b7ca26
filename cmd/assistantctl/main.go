// assistantctl is a CLI client for the trip assistant service plus a few
// operator utilities that talk to the catalog directly.
package main

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Sample Bali package used to seed a conversation when no itinerary file is
// given on the command line.
//
//go:embed itinerary.json
var defaultItinerary []byte

var (
	apiFlag  string
	userFlag string
	rootCmd  = &cobra.Command{
		Use:   "assistantctl",
		Short: "CLI client for the trip assistant REST API",
	}
)

func main() {
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Assistant service base URL")

	// chat subcommand
	chatCmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Send one message in a conversation and print the transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if userFlag == "" {
				return fmt.Errorf("--user required")
			}
			itineraryPath, _ := cmd.Flags().GetString("itinerary")
			return runChat(apiFlag, userFlag, args[0], itineraryPath, os.Stdout)
		},
	}
	chatCmd.Flags().StringVarP(&userFlag, "user", "u", "", "User ID (required)")
	chatCmd.Flags().StringP("itinerary", "i", "", "Path to an itinerary JSON file (defaults to the sample Bali package)")
	rootCmd.AddCommand(chatCmd)

	// transcript subcommand
	transcriptCmd := &cobra.Command{
		Use:   "transcript",
		Short: "Print the visible transcript for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userFlag == "" {
				return fmt.Errorf("--user required")
			}
			return runTranscript(apiFlag, userFlag, os.Stdout)
		},
	}
	transcriptCmd.Flags().StringVarP(&userFlag, "user", "u", "", "User ID (required)")
	rootCmd.AddCommand(transcriptCmd)

	// search subcommand
	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Search catalog activities by meaning",
		RunE: func(cmd *cobra.Command, args []string) error {
			activity, _ := cmd.Flags().GetString("activity")
			destination, _ := cmd.Flags().GetString("destination")
			return runActivitySearch(apiFlag, activity, destination, os.Stdout)
		},
	}
	searchCmd.Flags().StringP("activity", "q", "", "Activity phrase (required)")
	searchCmd.Flags().StringP("destination", "d", "", "Destination name (required)")
	_ = searchCmd.MarkFlagRequired("activity")
	_ = searchCmd.MarkFlagRequired("destination")
	rootCmd.AddCommand(searchCmd)

	// backfill subcommand
	backfillCmd := &cobra.Command{
		Use:   "backfill",
		Short: "Embed catalog activities that have no embedding yet",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackfill(cmd.Context(), os.Stdout)
		},
	}
	rootCmd.AddCommand(backfillCmd)

	// schema subcommand
	schemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the PostgreSQL catalog schema",
		Run: func(cmd *cobra.Command, args []string) {
			printSchema(os.Stdout)
		},
	}
	rootCmd.AddCommand(schemaCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
