// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-atlas/internal/store"
)

var publicationsCmd = &cobra.Command{
	Use:   "publications",
	Short: "Browse the stored publication corpus",
	Long: `Publications browses the local corpus. Use subcommands to page
through the stored publications with filters, show one publication with
its authors and topics, or print aggregate statistics.`,
}

// --- list subcommand ---

var publicationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored publications with filters and paging",
	RunE:  runPublicationsList,
}

func runPublicationsList(cmd *cobra.Command, args []string) error {
	db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	page, _ := cmd.Flags().GetInt("page")
	perPage, _ := cmd.Flags().GetInt("per-page")
	year, _ := cmd.Flags().GetInt("year")
	topicID, _ := cmd.Flags().GetInt64("topic")
	search, _ := cmd.Flags().GetString("search")

	listing, err := db.ListPublications(context.Background(), store.ListOptions{
		Page:    page,
		PerPage: perPage,
		Year:    year,
		TopicID: topicID,
		Search:  search,
	})
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(listing)
	}

	if listing.Total == 0 {
		fmt.Println("No publications found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-6s  %-6s  %-70s  %s\n", "ID", "Year", "Title", "Source")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for _, item := range listing.Items {
		title := item.Title
		if len(title) > 70 {
			title = title[:67] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-6d  %-6d  %-70s  %s\n", item.ID, item.Year, title, item.Source)
	}
	fmt.Fprintf(os.Stdout, "\nPage %d of %d (%d publications)\n",
		listing.Page, listing.TotalPages, listing.Total)
	return nil
}

// --- show subcommand ---

var publicationsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one publication with authors and topics",
	Args:  cobra.ExactArgs(1),
	RunE:  runPublicationsShow,
}

func runPublicationsShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid publication id %q", args[0])
	}

	db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	detail, err := db.GetPublication(context.Background(), id)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("publication %d not found", id)
	}
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(detail)
	}

	fmt.Println(detail.Title)
	fmt.Println(strings.Repeat("=", len(detail.Title)))
	if detail.Year != 0 {
		fmt.Println("Year:  ", detail.Year)
	}
	fmt.Println("Source:", detail.Source)
	if detail.URL != "" {
		fmt.Println("URL:   ", detail.URL)
	}
	fmt.Println()
	fmt.Println(detail.Abstract)

	if len(detail.Authors) > 0 {
		fmt.Println("\nAuthors:")
		for _, author := range detail.Authors {
			if author.Affiliation != "" {
				fmt.Printf("  - %s (%s)\n", author.Name, author.Affiliation)
			} else {
				fmt.Printf("  - %s\n", author.Name)
			}
		}
	}
	if len(detail.Topics) > 0 {
		fmt.Println("\nTopics:")
		for _, topic := range detail.Topics {
			fmt.Printf("  - %s\n", topic.Name)
		}
	}
	return nil
}

// --- stats subcommand ---

var publicationsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print aggregate corpus statistics",
	RunE:  runPublicationsStats,
}

func runPublicationsStats(cmd *cobra.Command, args []string) error {
	db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := db.Stats(context.Background())
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	fmt.Printf("Publications: %d\n", stats.TotalPublications)
	fmt.Printf("Authors:      %d\n", stats.TotalAuthors)
	fmt.Printf("Topics:       %d\n", stats.TotalTopics)

	if len(stats.ByYear) > 0 {
		years := make([]int, 0, len(stats.ByYear))
		for year := range stats.ByYear {
			years = append(years, year)
		}
		sort.Ints(years)
		fmt.Println("\nBy year:")
		for _, year := range years {
			fmt.Printf("  %d: %d\n", year, stats.ByYear[year])
		}
	}
	if len(stats.TopAuthors) > 0 {
		fmt.Println("\nTop authors:")
		for _, author := range stats.TopAuthors {
			fmt.Printf("  %-40s  %d\n", author.Name, author.Publications)
		}
	}
	return nil
}

func init() {
	publicationsListCmd.Flags().Int("page", 1, "page number, 1-based")
	publicationsListCmd.Flags().Int("per-page", 20, "publications per page (max 100)")
	publicationsListCmd.Flags().Int("year", 0, "filter by publication year")
	publicationsListCmd.Flags().Int64("topic", 0, "filter by topic ID")
	publicationsListCmd.Flags().String("search", "", "substring match on title or abstract")
	publicationsListCmd.Flags().Bool("json", false, "output listing as JSON")

	publicationsShowCmd.Flags().Bool("json", false, "output publication as JSON")
	publicationsStatsCmd.Flags().Bool("json", false, "output statistics as JSON")

	publicationsCmd.AddCommand(publicationsListCmd)
	publicationsCmd.AddCommand(publicationsShowCmd)
	publicationsCmd.AddCommand(publicationsStatsCmd)

	rootCmd.AddCommand(publicationsCmd)
}
