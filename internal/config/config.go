package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/kbozek/lingonotes/internal/constants"
	interrors "github.com/kbozek/lingonotes/internal/errors"
)

type Config struct {
	// OpenAI settings. The API key is usually supplied via the
	// OPENAI_API_KEY environment variable or a .env file rather than
	// being written to disk.
	OpenAIAPIKey  string `json:"openai_api_key,omitempty"`
	OpenAIBaseURL string `json:"openai_base_url"`

	EmbeddingModel      string `json:"embedding_model"`
	EmbeddingDimensions int    `json:"embedding_dimensions"`
	TranscriptionModel  string `json:"transcription_model"`
	ChatModel           string `json:"chat_model"`
	SpeechModel         string `json:"speech_model"`
	DefaultVoice        string `json:"default_voice"`

	// Index settings
	CollectionName string `json:"collection_name"`
	IndexBackend   string `json:"index_backend"` // "memory" or "sqlite"
	DataDirectory  string `json:"data_directory,omitempty"`

	RequestTimeoutSeconds int  `json:"request_timeout_seconds"`
	Debug                 bool `json:"debug"`
}

// getDefaultConfig returns a fresh copy of the default configuration
func getDefaultConfig() Config {
	return Config{
		OpenAIBaseURL:         constants.DefaultOpenAIBaseURL,
		EmbeddingModel:        constants.DefaultEmbeddingModel,
		EmbeddingDimensions:   constants.DefaultEmbeddingDimensions,
		TranscriptionModel:    constants.DefaultTranscriptionModel,
		ChatModel:             constants.DefaultChatModel,
		SpeechModel:           constants.DefaultSpeechModel,
		DefaultVoice:          constants.DefaultVoice,
		CollectionName:        constants.DefaultCollectionName,
		IndexBackend:          constants.IndexBackendMemory,
		DataDirectory:         "", // Will be set to ~/.local/share/lingonotes
		RequestTimeoutSeconds: int(constants.DefaultRequestTimeout / time.Second),
	}
}

func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(configDir, "lingonotes", "config.json"), nil
}

func GetDefaultDataDirectory() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".", ".lingonotes")
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataDir, "lingonotes")
}

func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg = getDefaultConfig()
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyDefaults(&cfg)
	loadAPIKeyFromEnv(&cfg)

	return &cfg, nil
}

// applyDefaults fills empty fields with default values.
func applyDefaults(cfg *Config) {
	defaults := getDefaultConfig()

	if cfg.OpenAIBaseURL == "" {
		cfg.OpenAIBaseURL = defaults.OpenAIBaseURL
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = defaults.EmbeddingModel
	}
	if cfg.EmbeddingDimensions == 0 {
		cfg.EmbeddingDimensions = defaults.EmbeddingDimensions
	}
	if cfg.TranscriptionModel == "" {
		cfg.TranscriptionModel = defaults.TranscriptionModel
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = defaults.ChatModel
	}
	if cfg.SpeechModel == "" {
		cfg.SpeechModel = defaults.SpeechModel
	}
	if cfg.DefaultVoice == "" {
		cfg.DefaultVoice = defaults.DefaultVoice
	}
	if cfg.CollectionName == "" {
		cfg.CollectionName = defaults.CollectionName
	}
	if cfg.IndexBackend == "" {
		cfg.IndexBackend = defaults.IndexBackend
	}
	if cfg.DataDirectory == "" {
		cfg.DataDirectory = GetDefaultDataDirectory()
	}
	if cfg.RequestTimeoutSeconds == 0 {
		cfg.RequestTimeoutSeconds = defaults.RequestTimeoutSeconds
	}
}

// loadAPIKeyFromEnv resolves the API key from the environment or a .env
// file in the working directory when the config file does not carry one.
func loadAPIKeyFromEnv(cfg *Config) {
	if cfg.OpenAIAPIKey != "" {
		return
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.OpenAIAPIKey = key
		return
	}
	if env, err := godotenv.Read(".env"); err == nil {
		if key := env["OPENAI_API_KEY"]; key != "" {
			cfg.OpenAIAPIKey = key
		}
	}
}

func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if cfg.DataDirectory != "" {
		if err := os.MkdirAll(cfg.DataDirectory, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, constants.ConfigFileMode); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// InitializeConfig creates and saves a new configuration.
func InitializeConfig(dataDir, apiKey string) (*Config, error) {
	cfg := getDefaultConfig()

	if dataDir != "" {
		cfg.DataDirectory = dataDir
	} else {
		cfg.DataDirectory = GetDefaultDataDirectory()
	}
	if apiKey != "" {
		cfg.OpenAIAPIKey = apiKey
	}

	if err := Save(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that the configuration can support API-backed
// operations. A missing key is fatal before any operation is attempted.
func (c *Config) Validate() error {
	if c.OpenAIAPIKey == "" {
		return interrors.ErrMissingAPIKey
	}
	if c.EmbeddingDimensions <= 0 {
		return fmt.Errorf("embedding dimensions must be positive, got %d", c.EmbeddingDimensions)
	}
	return nil
}

func (c *Config) GetIndexPath() string {
	return filepath.Join(c.DataDirectory, "index.db")
}

func (c *Config) GetOpenAIURL(endpoint string) string {
	return fmt.Sprintf("%s/%s", strings.TrimRight(c.OpenAIBaseURL, "/"), endpoint)
}

// MaxTokens bounds chat completion responses.
func (c *Config) MaxTokens() int {
	return constants.DefaultMaxTokens
}

func (c *Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return constants.DefaultRequestTimeout
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}
