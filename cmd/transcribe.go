package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <audio-file>",
	Short: "Transcribe an audio recording to text",
	Long: `Transcribe an audio file (mp3, wav, m4a, ...) to text using the
configured transcription model.

With --save, the transcribed text is also stored as a note.`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscribe,
}

var transcribeSave bool

func init() {
	rootCmd.AddCommand(transcribeCmd)
	transcribeCmd.Flags().BoolVar(&transcribeSave, "save", false, "Save the transcription as a note")
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	path := args[0]

	audio, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read audio file: %w", err)
	}

	ctx := cmd.Context()
	text, err := assistant.TranscribeAudio(ctx, audio, filepath.Base(path))
	if err != nil {
		return err
	}

	fmt.Println(text)

	if transcribeSave {
		note, err := noteStore.Add(ctx, text)
		if err != nil {
			return fmt.Errorf("failed to save transcription as note: %w", err)
		}
		fmt.Fprintf(os.Stderr, "\nSaved as note %d\n", note.ID)
	}

	return nil
}
