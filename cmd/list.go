package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbozek/lingonotes/internal/constants"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored notes",
	Long: `List stored notes.

The ordering is whatever the backing index happens to return; it is not
insertion order and not relevance order.`,
	RunE: runList,
}

var listLimit int

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntVarP(&listLimit, "limit", "l", constants.DefaultListLimit, "Maximum number of notes to display")
}

func runList(cmd *cobra.Command, args []string) error {
	results, err := noteStore.List(cmd.Context(), listLimit)
	if err != nil {
		return fmt.Errorf("failed to list notes: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No notes found.")
		return nil
	}

	fmt.Printf("Found %d notes:\n\n", len(results))
	for i, r := range results {
		fmt.Printf("%d. %s\n", i+1, previewText(r.Text, 100))
	}

	return nil
}

func previewText(text string, max int) string {
	text = strings.ReplaceAll(text, "\n", " ")
	if len(text) > max {
		return text[:max-3] + "..."
	}
	return text
}
