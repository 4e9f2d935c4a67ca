// Package openai is a minimal HTTP client for the OpenAI REST API
// covering the four operations the application delegates: embeddings,
// chat completions, audio transcription, and speech synthesis.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/kbozek/lingonotes/internal/config"
	interrors "github.com/kbozek/lingonotes/internal/errors"
	"github.com/kbozek/lingonotes/internal/logger"
)

type Client struct {
	apiKey     string
	httpClient *http.Client
	cfg        *config.Config
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type embeddingRequest struct {
	Input      []string `json:"input"`
	Model      string   `json:"model"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

type chatRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

type speechRequest struct {
	Model string `json:"model"`
	Voice string `json:"voice"`
	Input string `json:"input"`
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		apiKey: cfg.OpenAIAPIKey,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout(),
		},
		cfg: cfg,
	}
}

// Embed converts text into a fixed-length vector using the configured
// embedding model.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	req := embeddingRequest{
		Input:      []string{text},
		Model:      c.cfg.EmbeddingModel,
		Dimensions: c.cfg.EmbeddingDimensions,
	}

	var resp embeddingResponse
	if err := c.postJSON(ctx, "embeddings", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embeddings response contained no data")
	}

	embedding := resp.Data[0].Embedding
	logger.Debug("Got embedding with %d dimensions", len(embedding))
	if c.cfg.EmbeddingDimensions > 0 && len(embedding) != c.cfg.EmbeddingDimensions {
		return nil, fmt.Errorf("%w: model returned %d dimensions but config expects %d",
			interrors.ErrDimensionMismatch, len(embedding), c.cfg.EmbeddingDimensions)
	}

	return embedding, nil
}

// Dimensions returns the configured embedding vector length.
func (c *Client) Dimensions() int {
	return c.cfg.EmbeddingDimensions
}

// Complete sends a system instruction and user text to the chat model
// and returns the assistant reply.
func (c *Client) Complete(ctx context.Context, instruction, text string) (string, error) {
	return c.CompleteMessages(ctx, []Message{
		{Role: "system", Content: instruction},
		{Role: "user", Content: text},
	})
}

// CompleteMessages sends a full message history to the chat model.
func (c *Client) CompleteMessages(ctx context.Context, messages []Message) (string, error) {
	req := chatRequest{
		Model:     c.cfg.ChatModel,
		Messages:  messages,
		MaxTokens: c.cfg.MaxTokens(),
	}

	var resp chatResponse
	if err := c.postJSON(ctx, "chat/completions", req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat response contained no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// Transcribe uploads audio bytes and returns the transcribed text.
func (c *Client) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if len(audio) == 0 {
		return "", interrors.ErrEmptyAudio
	}
	if filename == "" {
		filename = "audio.mp3"
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("failed to write audio data: %w", err)
	}
	if err := writer.WriteField("model", c.cfg.TranscriptionModel); err != nil {
		return "", fmt.Errorf("failed to write model field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	url := c.cfg.GetOpenAIURL("audio/transcriptions")
	logger.Debug("Transcribing %d bytes of audio with model %s", len(audio), c.cfg.TranscriptionModel)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return "", fmt.Errorf("failed to build transcription request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Debug("Failed to close response body: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("transcription request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var transcript transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&transcript); err != nil {
		return "", fmt.Errorf("failed to decode transcription response: %w", err)
	}

	return transcript.Text, nil
}

// Speech synthesizes text with the given voice and returns MP3 bytes.
func (c *Client) Speech(ctx context.Context, text, voice string) ([]byte, error) {
	if voice == "" {
		voice = c.cfg.DefaultVoice
	}

	req := speechRequest{
		Model: c.cfg.SpeechModel,
		Voice: voice,
		Input: text,
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal speech request: %w", err)
	}

	url := c.cfg.GetOpenAIURL("audio/speech")
	logger.Debug("Synthesizing %d characters with voice %s", len(text), voice)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to build speech request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("speech request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Debug("Failed to close response body: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("speech request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio response: %w", err)
	}

	return audio, nil
}

// postJSON sends a JSON request to an API endpoint and decodes the
// JSON response into out.
func (c *Client) postJSON(ctx context.Context, endpoint string, payload, out interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", endpoint, err)
	}

	url := c.cfg.GetOpenAIURL(endpoint)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", endpoint, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", endpoint, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Debug("Failed to close response body: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s request failed with status %d: %s", endpoint, resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}

	return nil
}
