package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	interrors "github.com/kbozek/lingonotes/internal/errors"
)

var addCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Save a note",
	Long: `Save a note to the semantic note store.

Text can be given as an argument or piped via stdin:
  lingonotes add "Remember to water the basil"
  echo "Remember to water the basil" | lingonotes add

With --correct, the text is first corrected by the language model and
the corrected version is what gets stored.`,
	RunE: runAdd,
}

var addCorrect bool

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().BoolVar(&addCorrect, "correct", false, "Correct the text before saving")
}

func runAdd(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	if text == "" {
		var err error
		text, err = readStdinText()
		if err != nil {
			return err
		}
	}
	if strings.TrimSpace(text) == "" {
		return interrors.ErrEmptyText
	}

	ctx := cmd.Context()

	if addCorrect {
		corrected, err := assistant.Correct(ctx, text)
		if err != nil {
			return err
		}
		fmt.Println("Corrected version:")
		fmt.Println(corrected)
		fmt.Println()
		text = corrected
	}

	note, err := noteStore.Add(ctx, text)
	if err != nil {
		return fmt.Errorf("failed to save note: %w", err)
	}

	fmt.Printf("Note saved!\nID: %d\n", note.ID)
	return nil
}

// readStdinText collects piped stdin into a single string. When stdin
// is a terminal, the user is prompted first.
func readStdinText() (string, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat stdin: %w", err)
	}
	if (stat.Mode() & os.ModeCharDevice) != 0 {
		fmt.Println("Enter note text (press Ctrl+D when finished):")
	}

	scanner := bufio.NewScanner(os.Stdin)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.Join(lines, "\n"), nil
}
