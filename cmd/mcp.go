package cmd

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/kbozek/lingonotes/internal/logger"
	"github.com/kbozek/lingonotes/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for LLM integration",
	Long: `Start a Model Context Protocol (MCP) server so LLM clients can work
with your notes. Available tools:

- add_note:        save a note
- search_notes:    semantic search over stored notes
- list_notes:      list stored notes
- correct_text:    fix grammar, style, and spelling
- translate_text:  translate into a target language

To use with Claude Desktop, add this to your claude_desktop_config.json:
{
  "mcpServers": {
    "lingonotes": {
      "command": "lingonotes",
      "args": ["mcp"]
    }
  }
}`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	logger.Info("Starting MCP server...")

	notesServer := mcp.NewNotesServer(appConfig, noteStore, assistant)

	logger.Info("MCP server ready. Listening on stdio...")
	if err := server.ServeStdio(notesServer.GetMCPServer()); err != nil {
		if err.Error() != "EOF" {
			logger.Error("MCP server error: %v", err)
			return err
		}
	}

	logger.Info("MCP server shutting down")
	return nil
}
