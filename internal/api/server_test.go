package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kbozek/lingonotes/internal/assist"
	"github.com/kbozek/lingonotes/internal/config"
	"github.com/kbozek/lingonotes/internal/constants"
	"github.com/kbozek/lingonotes/internal/notes"
	"github.com/kbozek/lingonotes/internal/openai"
	"github.com/kbozek/lingonotes/internal/vectorindex"
)

type stubEmbedder struct{}

func (stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var sum float32
	for _, r := range text {
		sum += float32(r % 5)
	}
	return []float32{sum + 1, float32(len(text)), 1}, nil
}

func (stubEmbedder) Dimensions() int { return 3 }

type stubModel struct {
	reply string
}

func (m stubModel) Complete(ctx context.Context, instruction, text string) (string, error) {
	return m.reply, nil
}

func (m stubModel) CompleteMessages(ctx context.Context, messages []openai.Message) (string, error) {
	return m.reply, nil
}

type stubTranscriber struct{ text string }

func (s stubTranscriber) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	return s.text, nil
}

type stubSpeaker struct{ audio []byte }

func (s stubSpeaker) Speech(ctx context.Context, text, voice string) ([]byte, error) {
	return s.audio, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		CollectionName: "notes",
		IndexBackend:   constants.IndexBackendMemory,
		EmbeddingModel: "test-model",
		DefaultVoice:   "alloy",
	}
	store := notes.NewStore(vectorindex.NewMemory(), stubEmbedder{}, cfg.CollectionName)
	assistant := assist.NewAssistant(
		stubModel{reply: "assistant reply"},
		stubTranscriber{text: "transcribed words"},
		stubSpeaker{audio: []byte("mp3")},
		cfg,
	)
	return NewServer(cfg, store, assistant)
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return resp
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest("GET", "/api/v1/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if !resp.Success {
		t.Error("Health response should be successful")
	}
}

func TestHandleCreateNote(t *testing.T) {
	s := newTestServer(t)

	body := strings.NewReader(`{"text": "the cat sat on the mat"}`)
	rec := httptest.NewRecorder()
	s.handleCreateNote(rec, httptest.NewRequest("POST", "/api/v1/notes", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeResponse(t, rec)
	if !resp.Success {
		t.Fatalf("Expected success, got error: %s", resp.Error)
	}

	note, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("Unexpected data shape: %T", resp.Data)
	}
	if note["id"] != float64(1) {
		t.Errorf("Expected id 1, got %v", note["id"])
	}
	if note["text"] != "the cat sat on the mat" {
		t.Errorf("Unexpected text: %v", note["text"])
	}
}

func TestHandleCreateNoteEmptyText(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.handleCreateNote(rec, httptest.NewRequest("POST", "/api/v1/notes", strings.NewReader(`{"text": "  "}`)))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Success {
		t.Error("Expected an error response")
	}
}

func TestHandleCreateNoteInvalidJSON(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.handleCreateNote(rec, httptest.NewRequest("POST", "/api/v1/notes", strings.NewReader("{not json")))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestHandleListNotes(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	for _, text := range []string{"first", "second", "third"} {
		if _, err := s.store.Add(ctx, text); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	s.handleListNotes(rec, httptest.NewRequest("GET", "/api/v1/notes", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	items, ok := resp.Data.([]interface{})
	if !ok {
		t.Fatalf("Unexpected data shape: %T", resp.Data)
	}
	if len(items) != 3 {
		t.Errorf("Expected 3 notes, got %d", len(items))
	}
}

func TestHandleListNotesLimitQuery(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	for _, text := range []string{"first", "second", "third"} {
		if _, err := s.store.Add(ctx, text); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	s.handleListNotes(rec, httptest.NewRequest("GET", "/api/v1/notes?limit=2", nil))

	resp := decodeResponse(t, rec)
	items := resp.Data.([]interface{})
	if len(items) != 2 {
		t.Errorf("Expected 2 notes, got %d", len(items))
	}

	rec = httptest.NewRecorder()
	s.handleListNotes(rec, httptest.NewRequest("GET", "/api/v1/notes?limit=zero", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a bad limit, got %d", rec.Code)
	}
}

func TestHandleSearch(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	if _, err := s.store.Add(ctx, "a note about cats"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	body := strings.NewReader(`{"query": "cats"}`)
	rec := httptest.NewRecorder()
	s.handleSearch(rec, httptest.NewRequest("POST", "/api/v1/search", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeResponse(t, rec)
	items, ok := resp.Data.([]interface{})
	if !ok {
		t.Fatalf("Unexpected data shape: %T", resp.Data)
	}
	if len(items) != 1 {
		t.Fatalf("Expected 1 hit, got %d", len(items))
	}
	hit := items[0].(map[string]interface{})
	if hit["text"] != "a note about cats" {
		t.Errorf("Unexpected hit text: %v", hit["text"])
	}
	if _, ok := hit["score"]; !ok {
		t.Error("Search hits must carry a score")
	}
}

func TestHandleSearchEmptyQuery(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.handleSearch(rec, httptest.NewRequest("POST", "/api/v1/search", strings.NewReader(`{"query": ""}`)))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestHandleSearchEmptyStore(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.handleSearch(rec, httptest.NewRequest("POST", "/api/v1/search", strings.NewReader(`{"query": "anything"}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("Search on an empty store must succeed, got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	items, _ := resp.Data.([]interface{})
	if len(items) != 0 {
		t.Errorf("Expected no hits, got %d", len(items))
	}
}

func TestHandleCorrect(t *testing.T) {
	s := newTestServer(t)

	body := strings.NewReader(`{"text": "teh text"}`)
	rec := httptest.NewRecorder()
	s.handleCorrect(rec, httptest.NewRequest("POST", "/api/v1/correct", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]interface{})
	if data["text"] != "assistant reply" {
		t.Errorf("Unexpected corrected text: %v", data["text"])
	}
}

func TestHandleTranslate(t *testing.T) {
	s := newTestServer(t)

	body := strings.NewReader(`{"text": "hello", "language": "Polish"}`)
	rec := httptest.NewRecorder()
	s.handleTranslate(rec, httptest.NewRequest("POST", "/api/v1/translate", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]interface{})
	if data["language"] != "Polish" {
		t.Errorf("Response should echo the target language, got %v", data["language"])
	}
}

func TestHandleTranslateMissingLanguage(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.handleTranslate(rec, httptest.NewRequest("POST", "/api/v1/translate", strings.NewReader(`{"text": "hello"}`)))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestHandleSpeak(t *testing.T) {
	s := newTestServer(t)

	body := strings.NewReader(`{"text": "hello", "voice": "nova"}`)
	rec := httptest.NewRecorder()
	s.handleSpeak(rec, httptest.NewRequest("POST", "/api/v1/speak", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "audio/mpeg" {
		t.Errorf("Expected audio/mpeg, got %s", got)
	}
	if rec.Body.String() != "mp3" {
		t.Errorf("Unexpected audio body: %q", rec.Body.String())
	}
}

func TestHandleSpeakInvalidVoice(t *testing.T) {
	s := newTestServer(t)

	body := strings.NewReader(`{"text": "hello", "voice": "robotic"}`)
	rec := httptest.NewRecorder()
	s.handleSpeak(rec, httptest.NewRequest("POST", "/api/v1/speak", body))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestHandleTranscribe(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.handleTranscribe(rec, httptest.NewRequest("POST", "/api/v1/transcribe", bytes.NewReader([]byte("audio bytes"))))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]interface{})
	if data["text"] != "transcribed words" {
		t.Errorf("Unexpected transcript: %v", data["text"])
	}
}

func TestHandleTranscribeEmptyBody(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.handleTranscribe(rec, httptest.NewRequest("POST", "/api/v1/transcribe", bytes.NewReader(nil)))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for empty audio, got %d", rec.Code)
	}
}

func TestHandleStats(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	if _, err := s.store.Add(ctx, "one note"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	rec := httptest.NewRecorder()
	s.handleStats(rec, httptest.NewRequest("GET", "/api/v1/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]interface{})
	if data["note_count"] != float64(1) {
		t.Errorf("Expected note_count 1, got %v", data["note_count"])
	}
	if data["index_backend"] != constants.IndexBackendMemory {
		t.Errorf("Unexpected index backend: %v", data["index_backend"])
	}
}
