package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/kbozek/lingonotes/internal/assist"
	"github.com/kbozek/lingonotes/internal/config"
	"github.com/kbozek/lingonotes/internal/constants"
	interrors "github.com/kbozek/lingonotes/internal/errors"
	"github.com/kbozek/lingonotes/internal/logger"
	"github.com/kbozek/lingonotes/internal/notes"
)

// maxAudioUpload bounds transcription request bodies (25 MB, the
// OpenAI transcription limit).
const maxAudioUpload = 25 << 20

type Server struct {
	cfg       *config.Config
	store     *notes.Store
	assistant *assist.Assistant
	server    *http.Server
}

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type CreateNoteRequest struct {
	Text string `json:"text"`
}

type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type RewriteRequest struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

type SpeakRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
}

func NewServer(cfg *config.Config, store *notes.Store, assistant *assist.Assistant) *Server {
	return &Server{
		cfg:       cfg,
		store:     store,
		assistant: assistant,
	}
}

func (s *Server) Start(host string, port int) error {
	router := mux.NewRouter()

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/notes", s.handleListNotes).Methods("GET")
	api.HandleFunc("/notes", s.handleCreateNote).Methods("POST")
	api.HandleFunc("/search", s.handleSearch).Methods("POST")
	api.HandleFunc("/correct", s.handleCorrect).Methods("POST")
	api.HandleFunc("/translate", s.handleTranslate).Methods("POST")
	api.HandleFunc("/speak", s.handleSpeak).Methods("POST")
	api.HandleFunc("/transcribe", s.handleTranscribe).Methods("POST")
	api.HandleFunc("/stats", s.handleStats).Methods("GET")

	router.Use(s.loggingMiddleware)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})

	addr := fmt.Sprintf("%s:%d", host, port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting API server on %s", addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger.LogRequest(r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		logger.LogResponse(r.Method, r.URL.Path, http.StatusOK, time.Since(start).String())
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(APIResponse{Success: true, Data: data}); err != nil {
		logger.Error("Failed to encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, statusCode int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if encErr := json.NewEncoder(w).Encode(APIResponse{Success: false, Error: err.Error()}); encErr != nil {
		logger.Error("Failed to encode error response: %v", encErr)
	}
}

// statusFor maps validation errors to 400 and everything else to 502:
// the remaining failures come from the embedding provider or the index.
func statusFor(err error) int {
	switch {
	case errors.Is(err, interrors.ErrEmptyText),
		errors.Is(err, interrors.ErrEmptyQuery),
		errors.Is(err, interrors.ErrEmptyAudio),
		errors.Is(err, interrors.ErrInvalidLimit),
		errors.Is(err, interrors.ErrInvalidVoice):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "lingonotes",
	})
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	limit := constants.DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			s.writeError(w, http.StatusBadRequest, interrors.ErrInvalidLimit)
			return
		}
		limit = parsed
	}

	results, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var req CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	note, err := s.store.Add(r.Context(), req.Text)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusCreated, note)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Limit <= 0 {
		req.Limit = constants.DefaultSearchLimit
	}

	results, err := s.store.Search(r.Context(), req.Query, req.Limit)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleCorrect(w http.ResponseWriter, r *http.Request) {
	var req RewriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	corrected, err := s.assistant.Correct(r.Context(), req.Text)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"text": corrected})
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req RewriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Language == "" {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("language is required"))
		return
	}

	translated, err := s.assistant.Translate(r.Context(), req.Text, req.Language)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"text":     translated,
		"language": req.Language,
	})
}

func (s *Server) handleSpeak(w http.ResponseWriter, r *http.Request) {
	var req SpeakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	audio, err := s.assistant.Synthesize(r.Context(), req.Text, req.Voice)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(audio); err != nil {
		logger.Error("Failed to write audio response: %v", err)
	}
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	audio, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxAudioUpload))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("failed to read audio body: %w", err))
		return
	}

	text, err := s.assistant.TranscribeAudio(r.Context(), audio, "audio.mp3")
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.Count(r.Context())
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"note_count":      count,
		"collection":      s.cfg.CollectionName,
		"index_backend":   s.cfg.IndexBackend,
		"embedding_model": s.cfg.EmbeddingModel,
	})
}
