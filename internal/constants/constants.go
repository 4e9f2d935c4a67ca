package constants

import "time"

// Default retrieval limits
const (
	// DefaultListLimit is how many notes a browse-all listing returns.
	DefaultListLimit = 12
	// DefaultSearchLimit is how many results a semantic search returns.
	DefaultSearchLimit = 10
)

// OpenAI defaults
const (
	DefaultOpenAIBaseURL       = "https://api.openai.com/v1"
	DefaultEmbeddingModel      = "text-embedding-3-large"
	DefaultEmbeddingDimensions = 3072
	DefaultTranscriptionModel  = "whisper-1"
	DefaultChatModel           = "gpt-4o"
	DefaultSpeechModel         = "tts-1"
	DefaultVoice               = "alloy"
	DefaultMaxTokens           = 1024
)

// Index defaults
const (
	DefaultCollectionName = "notes"
	IndexBackendMemory    = "memory"
	IndexBackendSQLite    = "sqlite"
)

// DefaultRequestTimeout bounds every call to the OpenAI API.
const DefaultRequestTimeout = 30 * time.Second

// Embedding serialization
const (
	BytesPerFloat32 = 4
)

// File permissions
const (
	ConfigFileMode = 0600 // Config holds the API key
	AudioFileMode  = 0644
)
