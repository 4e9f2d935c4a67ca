package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kbozek/lingonotes/internal/assist"
	"github.com/kbozek/lingonotes/internal/config"
	"github.com/kbozek/lingonotes/internal/constants"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value. Supported keys:

  index_backend   memory | sqlite
  collection      collection name for stored notes
  chat_model      chat model for correction/translation
  default_voice   speech synthesis voice
  debug           true | false`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	configPath, _ := config.GetConfigPath()
	fmt.Printf("Config file:         %s\n", configPath)
	fmt.Printf("Data directory:      %s\n", cfg.DataDirectory)
	fmt.Printf("Index backend:       %s\n", cfg.IndexBackend)
	fmt.Printf("Collection:          %s\n", cfg.CollectionName)
	fmt.Printf("Embedding model:     %s (%d dimensions)\n", cfg.EmbeddingModel, cfg.EmbeddingDimensions)
	fmt.Printf("Chat model:          %s\n", cfg.ChatModel)
	fmt.Printf("Transcription model: %s\n", cfg.TranscriptionModel)
	fmt.Printf("Speech model:        %s (voice %s)\n", cfg.SpeechModel, cfg.DefaultVoice)
	fmt.Printf("Request timeout:     %s\n", cfg.RequestTimeout())
	fmt.Printf("Debug:               %v\n", cfg.Debug)
	if cfg.OpenAIAPIKey != "" {
		fmt.Println("API key:             configured")
	} else {
		fmt.Println("API key:             not configured")
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	switch key {
	case "index_backend":
		if value != constants.IndexBackendMemory && value != constants.IndexBackendSQLite {
			return fmt.Errorf("index_backend must be %q or %q", constants.IndexBackendMemory, constants.IndexBackendSQLite)
		}
		cfg.IndexBackend = value
	case "collection":
		if value == "" {
			return fmt.Errorf("collection name cannot be empty")
		}
		cfg.CollectionName = value
	case "chat_model":
		cfg.ChatModel = value
	case "default_voice":
		if !assist.IsValidVoice(value) {
			return fmt.Errorf("unknown voice %q (supported: %v)", value, assist.Voices())
		}
		cfg.DefaultVoice = value
	case "debug":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("debug must be true or false")
		}
		cfg.Debug = enabled
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}
