// Package assist wraps the language-model collaborators behind narrow
// capability interfaces: text correction, translation, transcription,
// speech synthesis, and note discussion.
package assist

import (
	"context"
	"fmt"
	"strings"

	"github.com/kbozek/lingonotes/internal/config"
	interrors "github.com/kbozek/lingonotes/internal/errors"
	"github.com/kbozek/lingonotes/internal/openai"
)

// Built-in translation targets. Translate accepts any language name;
// these cover the common cases the tool exposes as shortcuts.
const (
	LanguageBritishEnglish  = "British English"
	LanguageAmericanEnglish = "American English"
	LanguagePolish          = "Polish"
)

const correctionInstruction = "You are a helpful assistant that detects the language of the given text " +
	"and focuses only on correcting any errors in it, in that same language: if the text is in Polish, " +
	"correct it according to the rules of Polish; if it is in English, correct it according to the rules " +
	"of English. Fix grammar, style, syntax, and spelling. Correct only the errors, do not change the meaning."

const discussionInstruction = "You are a helpful assistant discussing the user's note. " +
	"Answer questions about it, rework it, or transform its content and style as asked. " +
	"Reply in the language the user writes in.\n\nThe note under discussion:\n%s"

// LanguageModel is the chat-completion collaborator.
type LanguageModel interface {
	Complete(ctx context.Context, instruction, text string) (string, error)
	CompleteMessages(ctx context.Context, messages []openai.Message) (string, error)
}

// Transcriber converts raw audio bytes to plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

// Speaker synthesizes speech for a text with a selected voice.
type Speaker interface {
	Speech(ctx context.Context, text, voice string) ([]byte, error)
}

// Assistant bundles the collaborators behind the operations the CLI,
// API, and MCP surfaces expose.
type Assistant struct {
	model LanguageModel
	stt   Transcriber
	tts   Speaker
	cfg   *config.Config
}

func NewAssistant(model LanguageModel, stt Transcriber, tts Speaker, cfg *config.Config) *Assistant {
	return &Assistant{
		model: model,
		stt:   stt,
		tts:   tts,
		cfg:   cfg,
	}
}

// NewOpenAIAssistant wires all collaborators to a single OpenAI client.
func NewOpenAIAssistant(client *openai.Client, cfg *config.Config) *Assistant {
	return NewAssistant(client, client, client, cfg)
}

// Voices lists the supported speech synthesis voices.
func Voices() []string {
	return []string{"alloy", "onyx", "echo", "fable", "nova", "shimmer"}
}

// IsValidVoice reports whether the voice is one the speech model accepts.
func IsValidVoice(voice string) bool {
	for _, v := range Voices() {
		if v == voice {
			return true
		}
	}
	return false
}

// Correct fixes grammar, style, syntax, and spelling in the detected
// language of the text without changing its meaning.
func (a *Assistant) Correct(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", interrors.ErrEmptyText
	}
	corrected, err := a.model.Complete(ctx, correctionInstruction, text)
	if err != nil {
		return "", fmt.Errorf("failed to correct text: %w", err)
	}
	return corrected, nil
}

// Translate renders the text into the target language, preserving the
// meaning and style of the original.
func (a *Assistant) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", interrors.ErrEmptyText
	}
	if strings.TrimSpace(targetLanguage) == "" {
		return "", fmt.Errorf("target language cannot be empty")
	}

	instruction := fmt.Sprintf("You are a translator. Translate the following text into %s, "+
		"preserving the meaning and style of the original.", targetLanguage)

	translated, err := a.model.Complete(ctx, instruction, text)
	if err != nil {
		return "", fmt.Errorf("failed to translate text: %w", err)
	}
	return translated, nil
}

// TranscribeAudio converts recorded audio into text.
func (a *Assistant) TranscribeAudio(ctx context.Context, audio []byte, filename string) (string, error) {
	if len(audio) == 0 {
		return "", interrors.ErrEmptyAudio
	}
	text, err := a.stt.Transcribe(ctx, audio, filename)
	if err != nil {
		return "", fmt.Errorf("failed to transcribe audio: %w", err)
	}
	return text, nil
}

// Synthesize produces MP3 audio for the text with the chosen voice.
func (a *Assistant) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, interrors.ErrEmptyText
	}
	if voice == "" {
		voice = a.cfg.DefaultVoice
	}
	if !IsValidVoice(voice) {
		return nil, fmt.Errorf("%w: %s", interrors.ErrInvalidVoice, voice)
	}

	audio, err := a.tts.Speech(ctx, text, voice)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize speech: %w", err)
	}
	return audio, nil
}

// Discuss continues a conversation about a note. The history holds
// prior user/assistant turns; the note text anchors the system prompt.
func (a *Assistant) Discuss(ctx context.Context, noteText string, history []openai.Message, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", interrors.ErrEmptyText
	}

	messages := make([]openai.Message, 0, len(history)+2)
	messages = append(messages, openai.Message{
		Role:    "system",
		Content: fmt.Sprintf(discussionInstruction, noteText),
	})
	messages = append(messages, history...)
	messages = append(messages, openai.Message{Role: "user", Content: message})

	reply, err := a.model.CompleteMessages(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to get reply: %w", err)
	}
	return reply, nil
}
