package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kbozek/lingonotes/internal/assist"
	"github.com/kbozek/lingonotes/internal/config"
	"github.com/kbozek/lingonotes/internal/constants"
	"github.com/kbozek/lingonotes/internal/logger"
	"github.com/kbozek/lingonotes/internal/notes"
	"github.com/kbozek/lingonotes/internal/openai"
	"github.com/kbozek/lingonotes/internal/vectorindex"
)

var (
	appConfig *config.Config
	index     vectorindex.Index
	noteStore *notes.Store
	assistant *assist.Assistant
	debugFlag bool
	Version   = "dev" // Version is set from main.go
)

var rootCmd = &cobra.Command{
	Use:     "lingonotes",
	Short:   "A language-assistant note tool with semantic search",
	Version: Version,
	Long: `lingonotes records or accepts text notes, transcribes audio, corrects
and translates text with a hosted language model, synthesizes speech for
translations, and stores and searches notes by meaning using vector
embeddings.

With the default in-memory index, notes live only for the duration of
one process ('serve' or 'mcp'). Set index_backend to "sqlite" for a
durable store.

First time users should run 'lingonotes init' to set up the configuration.`,
}

func Execute() error {
	rootCmd.Version = Version
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initAppConfig)
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
}

func initAppConfig() {
	// Skip initialization for init and config commands
	if len(os.Args) > 1 && (os.Args[1] == "init" || os.Args[1] == "config") {
		return
	}

	var err error
	appConfig, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		fmt.Fprintf(os.Stderr, "Please run 'lingonotes init' to set up the configuration.\n")
		os.Exit(1)
	}

	if debugFlag || appConfig.Debug {
		logger.SetDebugMode(true)
		logger.Debug("Collection: %s", appConfig.CollectionName)
		logger.Debug("Index backend: %s", appConfig.IndexBackend)
		logger.Debug("Embedding model: %s (%d dimensions)", appConfig.EmbeddingModel, appConfig.EmbeddingDimensions)
		logger.Debug("Chat model: %s", appConfig.ChatModel)
	}

	// A missing API key must halt before any operation is attempted.
	if err := appConfig.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Set the OPENAI_API_KEY environment variable (or add it to a .env file),\n")
		fmt.Fprintf(os.Stderr, "or run 'lingonotes init --api-key <key>'.\n")
		os.Exit(1)
	}

	index, err = newIndex(appConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing index: %v\n", err)
		os.Exit(1)
	}

	client := openai.NewClient(appConfig)
	noteStore = notes.NewStore(index, client, appConfig.CollectionName)
	assistant = assist.NewOpenAIAssistant(client, appConfig)
}

func newIndex(cfg *config.Config) (vectorindex.Index, error) {
	switch cfg.IndexBackend {
	case constants.IndexBackendSQLite:
		return vectorindex.NewSQLite(cfg.GetIndexPath())
	case constants.IndexBackendMemory, "":
		return vectorindex.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown index backend: %s", cfg.IndexBackend)
	}
}
