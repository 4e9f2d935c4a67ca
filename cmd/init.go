package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbozek/lingonotes/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize lingonotes configuration",
	Long: `Initialize lingonotes configuration.
This command writes the configuration file and creates the data directory.

The OpenAI API key can be given with --api-key, or left out and supplied
at runtime via the OPENAI_API_KEY environment variable or a .env file.`,
	RunE: runInit,
}

var (
	initDataDir string
	initAPIKey  string
	initBackend string
)

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&initDataDir, "data-dir", "", "Data directory for the note index")
	initCmd.Flags().StringVar(&initAPIKey, "api-key", "", "OpenAI API key (optional, env var preferred)")
	initCmd.Flags().StringVar(&initBackend, "index-backend", "", "Index backend: memory or sqlite")
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("Configuration already exists at: %s\n", configPath)
		fmt.Print("Do you want to overwrite it? (y/N): ")

		reader := bufio.NewReader(os.Stdin)
		response, _ := reader.ReadString('\n')
		response = strings.TrimSpace(strings.ToLower(response))

		if response != "y" && response != "yes" {
			fmt.Println("Configuration initialization cancelled.")
			return nil
		}
	}

	cfg, err := config.InitializeConfig(expandPath(initDataDir), initAPIKey)
	if err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	if initBackend != "" {
		cfg.IndexBackend = initBackend
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}
	}

	fmt.Println("\n=== Configuration Summary ===")
	fmt.Printf("Config file:         %s\n", configPath)
	fmt.Printf("Data directory:      %s\n", cfg.DataDirectory)
	fmt.Printf("Index backend:       %s\n", cfg.IndexBackend)
	fmt.Printf("Collection:          %s\n", cfg.CollectionName)
	fmt.Printf("Embedding model:     %s (%d dimensions)\n", cfg.EmbeddingModel, cfg.EmbeddingDimensions)
	fmt.Printf("Chat model:          %s\n", cfg.ChatModel)
	fmt.Printf("Transcription model: %s\n", cfg.TranscriptionModel)
	fmt.Printf("Speech model:        %s (voice %s)\n", cfg.SpeechModel, cfg.DefaultVoice)
	if cfg.OpenAIAPIKey != "" {
		fmt.Println("API key:             saved in config file")
	} else {
		fmt.Println("API key:             will be read from OPENAI_API_KEY or .env")
	}

	fmt.Println("\nConfiguration initialized successfully!")
	fmt.Println("You can now use 'lingonotes' commands to work with your notes.")

	return nil
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
