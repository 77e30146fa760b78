// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-atlas/internal/ingest"
	"github.com/pdiddy/research-atlas/internal/openalex"
	"github.com/pdiddy/research-atlas/internal/secrets"
	"github.com/pdiddy/research-atlas/internal/topics"
	"github.com/pdiddy/research-atlas/pkg/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch Indonesian publications from OpenAlex into the store",
	Long: `Fetch pulls publications with Indonesian affiliations from OpenAlex,
verifies and quality-filters them, and saves new records to the store.
When the country-wide query underdelivers, known institutions are
queried directly as a fallback. Unless --no-topics is set, topic
discovery runs over the updated corpus afterwards.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().Int("limit", 0, "target publication count (default 500)")
	fetchCmd.Flags().Int("year-from", 0, "earliest publication year, inclusive (default 2020)")
	fetchCmd.Flags().Int("year-to", 0, "latest publication year, inclusive (default: current year)")
	fetchCmd.Flags().String("email", "", "contact email for the OpenAlex polite pool")
	fetchCmd.Flags().StringSlice("institutions", nil, "restrict to these institution tags (e.g. UI,ITB,UGM)")
	fetchCmd.Flags().StringSlice("fields", nil, "restrict to these research fields (e.g. \"Computer Science\")")
	fetchCmd.Flags().Bool("no-topics", false, "skip topic discovery after saving")
	fetchCmd.Flags().Bool("test", false, "probe the OpenAlex API and exit")
	fetchCmd.Flags().String("report", "", "write a YAML fetch report to this path")

	rootCmd.AddCommand(fetchCmd)
}

// contactEmail resolves the polite-pool email: flag, then secrets,
// then config.
func contactEmail(cmd *cobra.Command) string {
	if email, _ := cmd.Flags().GetString("email"); email != "" {
		return email
	}
	if email, ok := loadedSecrets[secrets.KeyOpenAlexEmail]; ok {
		return email
	}
	return viper.GetString("openalex.email")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := types.FetchConfig{Email: contactEmail(cmd)}.WithDefaults()
	client := openalex.NewClient(cfg)

	ctx := context.Background()

	if test, _ := cmd.Flags().GetBool("test"); test {
		return client.TestConnection(ctx, os.Stdout)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	yearFrom, _ := cmd.Flags().GetInt("year-from")
	yearTo, _ := cmd.Flags().GetInt("year-to")
	institutions, _ := cmd.Flags().GetStringSlice("institutions")
	fields, _ := cmd.Flags().GetStringSlice("fields")

	opts := ingest.Options{
		Limit:        limit,
		YearFrom:     yearFrom,
		YearTo:       yearTo,
		Institutions: institutions,
		Fields:       fields,
	}.WithDefaults()

	fetcher := ingest.NewFetcher(client, cfg)
	result, err := fetcher.Fetch(ctx, opts, os.Stdout)
	if err != nil {
		return err
	}

	db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	summary, err := db.SavePublications(ctx, result.Publications, os.Stdout)
	if err != nil {
		return err
	}
	fmt.Printf("Saved %d new publications (%d duplicates skipped)\n", summary.Saved, summary.Skipped)

	if reportPath, _ := cmd.Flags().GetString("report"); reportPath != "" {
		report := ingest.Report{
			GeneratedAt: time.Now().UTC(),
			Requested:   opts.Limit,
			YearFrom:    opts.YearFrom,
			YearTo:      opts.YearTo,
			Saved:       summary.Saved,
			Skipped:     summary.Skipped,
			Stats:       result.Stats,
		}
		if err := ingest.WriteReport(reportPath, report); err != nil {
			return err
		}
		fmt.Println("Fetch report written to", reportPath)
	}

	if noTopics, _ := cmd.Flags().GetBool("no-topics"); noTopics {
		return nil
	}
	return topics.Discover(ctx, db, types.TopicConfig{}, os.Stdout)
}
