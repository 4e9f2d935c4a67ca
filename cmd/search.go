package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbozek/lingonotes/internal/constants"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search notes by meaning",
	Long: `Search stored notes by semantic similarity.

The query does not need to match stored wording: "feline on a rug" will
find "cat sat on the mat". Results are ranked best match first.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var searchLimit int

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", constants.DefaultSearchLimit, "Maximum number of results")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	results, err := noteStore.Search(cmd.Context(), query, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No matching notes found.")
		return nil
	}

	fmt.Printf("Found %d matching notes:\n\n", len(results))
	for i, r := range results {
		if r.Score != nil {
			fmt.Printf("%d. (score %.4f) %s\n", i+1, *r.Score, previewText(r.Text, 120))
		} else {
			fmt.Printf("%d. %s\n", i+1, previewText(r.Text, 120))
		}
	}

	return nil
}
