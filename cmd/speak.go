package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbozek/lingonotes/internal/assist"
	"github.com/kbozek/lingonotes/internal/constants"
)

var speakCmd = &cobra.Command{
	Use:   "speak [text]",
	Short: "Synthesize speech for a text",
	Long: `Synthesize MP3 audio for a text with the configured speech model.

Useful for listening to translations or attaching spoken notes to
messages. Text can be given as an argument or piped via stdin.

Available voices: alloy, onyx, echo, fable, nova, shimmer`,
	RunE: runSpeak,
}

var (
	speakVoice  string
	speakOutput string
)

func init() {
	rootCmd.AddCommand(speakCmd)
	speakCmd.Flags().StringVar(&speakVoice, "voice", "", "Voice to use (default from config)")
	speakCmd.Flags().StringVarP(&speakOutput, "output", "o", "speech.mp3", "Output file")
}

func runSpeak(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	if text == "" {
		var err error
		text, err = readStdinText()
		if err != nil {
			return err
		}
	}

	if speakVoice != "" && !assist.IsValidVoice(speakVoice) {
		return fmt.Errorf("unknown voice %q (supported: %v)", speakVoice, assist.Voices())
	}

	audio, err := assistant.Synthesize(cmd.Context(), text, speakVoice)
	if err != nil {
		return err
	}

	if err := os.WriteFile(speakOutput, audio, constants.AudioFileMode); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}

	fmt.Printf("Wrote %d bytes to %s\n", len(audio), speakOutput)
	return nil
}
