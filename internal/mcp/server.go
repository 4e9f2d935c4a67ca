// Package mcp exposes the note store and language assistant as Model
// Context Protocol tools so LLM clients can drive them over stdio.
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kbozek/lingonotes/internal/assist"
	"github.com/kbozek/lingonotes/internal/config"
	"github.com/kbozek/lingonotes/internal/constants"
	"github.com/kbozek/lingonotes/internal/logger"
	"github.com/kbozek/lingonotes/internal/notes"
)

type NotesServer struct {
	cfg       *config.Config
	store     *notes.Store
	assistant *assist.Assistant
	mcpServer *server.MCPServer
}

func NewNotesServer(cfg *config.Config, store *notes.Store, assistant *assist.Assistant) *NotesServer {
	ns := &NotesServer{
		cfg:       cfg,
		store:     store,
		assistant: assistant,
	}

	ns.mcpServer = server.NewMCPServer(
		"lingonotes",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	ns.registerTools()

	return ns
}

func (s *NotesServer) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *NotesServer) registerTools() {
	addNoteTool := mcp.NewTool("add_note",
		mcp.WithDescription("Save a note to the semantic note store"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The note text to store"),
		),
	)
	s.mcpServer.AddTool(addNoteTool, s.handleAddNote)

	searchTool := mcp.NewTool("search_notes",
		mcp.WithDescription("Search stored notes by meaning, not exact wording. Results are ranked by similarity."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("What to look for, in any phrasing"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default: 10)"),
		),
	)
	s.mcpServer.AddTool(searchTool, s.handleSearchNotes)

	listTool := mcp.NewTool("list_notes",
		mcp.WithDescription("List stored notes (arbitrary order)"),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of notes to return (default: 12)"),
		),
	)
	s.mcpServer.AddTool(listTool, s.handleListNotes)

	correctTool := mcp.NewTool("correct_text",
		mcp.WithDescription("Fix grammar, style, and spelling in a text without changing its meaning"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The text to correct"),
		),
	)
	s.mcpServer.AddTool(correctTool, s.handleCorrectText)

	translateTool := mcp.NewTool("translate_text",
		mcp.WithDescription("Translate a text into a target language, preserving meaning and style"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The text to translate"),
		),
		mcp.WithString("language",
			mcp.Required(),
			mcp.Description("Target language, e.g. 'British English', 'Polish'"),
		),
	)
	s.mcpServer.AddTool(translateTool, s.handleTranslateText)
}

func (s *NotesServer) handleAddNote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger.Debug("MCP tool call: add_note")

	text, err := request.RequireString("text")
	if err != nil {
		return nil, fmt.Errorf("missing required parameter 'text': %w", err)
	}

	note, err := s.store.Add(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to save note: %w", err)
	}

	return mcp.NewToolResultText(fmt.Sprintf("Note saved with ID: %d", note.ID)), nil
}

func (s *NotesServer) handleSearchNotes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger.Debug("MCP tool call: search_notes")

	query, err := request.RequireString("query")
	if err != nil {
		return nil, fmt.Errorf("missing required parameter 'query': %w", err)
	}
	limit := request.GetInt("limit", constants.DefaultSearchLimit)

	results, err := s.store.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		return mcp.NewToolResultText("No notes found matching your query."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d notes:\n\n", len(results))
	for i, r := range results {
		if r.Score != nil {
			fmt.Fprintf(&sb, "%d. (score %.4f) %s\n", i+1, *r.Score, r.Text)
		} else {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, r.Text)
		}
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func (s *NotesServer) handleListNotes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger.Debug("MCP tool call: list_notes")

	limit := request.GetInt("limit", constants.DefaultListLimit)

	results, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	if len(results) == 0 {
		return mcp.NewToolResultText("No notes stored yet."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d notes:\n\n", len(results))
	for i, r := range results {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, r.Text)
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func (s *NotesServer) handleCorrectText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger.Debug("MCP tool call: correct_text")

	text, err := request.RequireString("text")
	if err != nil {
		return nil, fmt.Errorf("missing required parameter 'text': %w", err)
	}

	corrected, err := s.assistant.Correct(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to correct text: %w", err)
	}

	return mcp.NewToolResultText(corrected), nil
}

func (s *NotesServer) handleTranslateText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger.Debug("MCP tool call: translate_text")

	text, err := request.RequireString("text")
	if err != nil {
		return nil, fmt.Errorf("missing required parameter 'text': %w", err)
	}
	language, err := request.RequireString("language")
	if err != nil {
		return nil, fmt.Errorf("missing required parameter 'language': %w", err)
	}

	translated, err := s.assistant.Translate(ctx, text, language)
	if err != nil {
		return nil, fmt.Errorf("failed to translate text: %w", err)
	}

	return mcp.NewToolResultText(translated), nil
}
