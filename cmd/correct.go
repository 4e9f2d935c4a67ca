package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var correctCmd = &cobra.Command{
	Use:   "correct [text]",
	Short: "Correct grammar, style, and spelling",
	Long: `Correct grammar, style, syntax, and spelling errors in a text.

The language model detects the language of the text and corrects it in
that same language without changing the meaning. Text can be given as
an argument or piped via stdin.`,
	RunE: runCorrect,
}

func init() {
	rootCmd.AddCommand(correctCmd)
}

func runCorrect(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	if text == "" {
		var err error
		text, err = readStdinText()
		if err != nil {
			return err
		}
	}

	corrected, err := assistant.Correct(cmd.Context(), text)
	if err != nil {
		return err
	}

	fmt.Println(corrected)
	return nil
}
