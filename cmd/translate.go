package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbozek/lingonotes/internal/assist"
)

var translateCmd = &cobra.Command{
	Use:   "translate [text]",
	Short: "Translate text into a target language",
	Long: `Translate a text into the target language, preserving the meaning
and style of the original.

The target accepts any language name. Shortcuts for the common targets:
  --to "British English"   (default)
  --to "American English"
  --to "Polish"

Text can be given as an argument or piped via stdin.`,
	RunE: runTranslate,
}

var translateTo string

func init() {
	rootCmd.AddCommand(translateCmd)
	translateCmd.Flags().StringVar(&translateTo, "to", assist.LanguageBritishEnglish, "Target language")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	if text == "" {
		var err error
		text, err = readStdinText()
		if err != nil {
			return err
		}
	}

	translated, err := assistant.Translate(cmd.Context(), text, translateTo)
	if err != nil {
		return err
	}

	fmt.Println(translated)
	return nil
}
