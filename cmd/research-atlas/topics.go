// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-atlas/internal/topics"
	"github.com/pdiddy/research-atlas/pkg/types"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Discover and inspect research topics",
	Long: `Topics manages the discovered topic set. Use subcommands to rerun
topic modeling over the stored corpus, list the current topics, or
show how topic activity trends across publication years.`,
}

// --- run subcommand ---

var topicsRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run topic discovery over the stored corpus",
	Long: `Run models topics over all stored publications with substantial
abstracts and replaces the previous topic set with the result. A corpus
with too few qualifying publications is left untouched.`,
	RunE: runTopicsRun,
}

func runTopicsRun(cmd *cobra.Command, args []string) error {
	db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	return topics.Discover(context.Background(), db, types.TopicConfig{}, os.Stdout)
}

// --- list subcommand ---

var topicsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List discovered topics with publication counts",
	RunE:  runTopicsList,
}

func runTopicsList(cmd *cobra.Command, args []string) error {
	db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := db.Topics(context.Background())
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("No topics discovered yet. Run: research-atlas topics run")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-50s  %-5s  %s\n", "ID", "Topic", "Pubs", "Keywords")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for _, record := range records {
		name := record.Name
		if len(name) > 50 {
			name = name[:47] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-50s  %-5d  %s\n",
			record.ID, name, record.PublicationCount, strings.Join(record.Keywords, ", "))
	}
	fmt.Fprintf(os.Stdout, "\n%d topics\n", len(records))
	return nil
}

// --- trends subcommand ---

var topicsTrendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show topic activity per publication year",
	RunE:  runTopicsTrends,
}

func runTopicsTrends(cmd *cobra.Command, args []string) error {
	db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	points, err := db.TopicTrends(context.Background())
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(points)
	}

	if len(points) == 0 {
		fmt.Println("No trend data. Run: research-atlas topics run")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-6s  %-60s  %s\n", "Year", "Topic", "Pubs")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))
	for _, point := range points {
		topic := point.Topic
		if len(topic) > 60 {
			topic = topic[:57] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-6d  %-60s  %d\n", point.Year, topic, point.Count)
	}
	return nil
}

func init() {
	topicsListCmd.Flags().Bool("json", false, "output topics as JSON")
	topicsTrendsCmd.Flags().Bool("json", false, "output trends as JSON")

	topicsCmd.AddCommand(topicsRunCmd)
	topicsCmd.AddCommand(topicsListCmd)
	topicsCmd.AddCommand(topicsTrendsCmd)

	rootCmd.AddCommand(topicsCmd)
}
