package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbozek/lingonotes/internal/openai"
)

var chatCmd = &cobra.Command{
	Use:   "chat [note text]",
	Short: "Discuss a note with the language model",
	Long: `Start an interactive conversation about a note. The model can answer
questions about it, rework it, or transform its content and style.

The note text is given as an argument, or with --file read from a file.
Type your messages at the prompt; exit with Ctrl+D or 'quit'.`,
	RunE: runChat,
}

var chatFile string

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVar(&chatFile, "file", "", "Read the note text from a file")
}

func runChat(cmd *cobra.Command, args []string) error {
	noteText := strings.Join(args, " ")
	if chatFile != "" {
		data, err := os.ReadFile(chatFile)
		if err != nil {
			return fmt.Errorf("failed to read note file: %w", err)
		}
		noteText = string(data)
	}
	if strings.TrimSpace(noteText) == "" {
		return fmt.Errorf("no note text given; pass it as an argument or with --file")
	}

	fmt.Println("Discussing your note. Type a message, or 'quit' to exit.")
	fmt.Println()

	ctx := cmd.Context()
	var history []openai.Message
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return nil
		}

		message := strings.TrimSpace(line)
		if message == "" {
			continue
		}
		if message == "quit" || message == "exit" {
			return nil
		}

		reply, err := assistant.Discuss(ctx, noteText, history, message)
		if err != nil {
			return err
		}

		fmt.Println()
		fmt.Println(reply)
		fmt.Println()

		history = append(history,
			openai.Message{Role: "user", Content: message},
			openai.Message{Role: "assistant", Content: reply},
		)
	}
}
