// Package mcp exposes the analyzer as a Model Context Protocol server, so
// agent tooling can request structural diffs over stdio.
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/btkit/btdiff"
	"github.com/btkit/btdiff/pkg/domain"
	"github.com/btkit/btdiff/pkg/ports"
)

// CompareResult is the structured tool output.
type CompareResult struct {
	Result *domain.DiffResult `json:"result" jsonschema_description:"The classified structural diff"`
}

// Server wraps the analyzer and a content source as an MCP server.
type Server struct {
	opts      []btdiff.Option
	source    ports.ContentSource
	mcpServer *server.MCPServer
}

// NewServer creates an MCP server. The content source backs the
// compare_revisions tool and may be nil to disable it.
func NewServer(source ports.ContentSource, opts ...btdiff.Option) *Server {
	s := &Server{
		opts:      opts,
		source:    source,
		mcpServer: server.NewMCPServer("btdiff-mcp", strings.TrimSpace(btdiff.Version)),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	compareTool := mcp.NewTool("compare_trees",
		mcp.WithDescription("Compare two behavior-tree XML documents and return the classified structural diff."),
		mcp.WithString("old_document", mcp.Required(), mcp.Description("Old version of the XML document")),
		mcp.WithString("new_document", mcp.Required(), mcp.Description("New version of the XML document")),
		mcp.WithString("tree", mcp.Description("Named tree to compare (defaults to MainTree)")),
		mcp.WithOutputSchema[CompareResult](),
	)
	s.mcpServer.AddTool(compareTool, mcp.NewStructuredToolHandler(s.handleCompare))

	if s.source == nil {
		return
	}
	revisionsTool := mcp.NewTool("compare_revisions",
		mcp.WithDescription("Compare the same behavior-tree file at two git revisions."),
		mcp.WithString("path", mcp.Required(), mcp.Description("File path inside the repository")),
		mcp.WithString("old_revision", mcp.Required(), mcp.Description("Old revision (branch, tag or commit)")),
		mcp.WithString("new_revision", mcp.Required(), mcp.Description("New revision")),
		mcp.WithString("tree", mcp.Description("Named tree to compare (defaults to MainTree)")),
		mcp.WithOutputSchema[CompareResult](),
	)
	s.mcpServer.AddTool(revisionsTool, mcp.NewStructuredToolHandler(s.handleRevisions))
}

func (s *Server) analyzer(args map[string]interface{}) *btdiff.Analyzer {
	opts := append([]btdiff.Option{}, s.opts...)
	if tree, _ := args["tree"].(string); tree != "" {
		opts = append(opts, btdiff.WithTree(tree))
	}
	return btdiff.New(opts...)
}

func (s *Server) handleCompare(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CompareResult, error) {
	oldDoc, _ := args["old_document"].(string)
	newDoc, _ := args["new_document"].(string)

	res, err := s.analyzer(args).CompareDocuments(
		btdiff.Document{Text: []byte(oldDoc), Source: "old"},
		btdiff.Document{Text: []byte(newDoc), Source: "new"},
	)
	if err != nil {
		return CompareResult{}, fmt.Errorf("comparison failed: %w", err)
	}
	return CompareResult{Result: res}, nil
}

func (s *Server) handleRevisions(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CompareResult, error) {
	path, _ := args["path"].(string)
	oldRev, _ := args["old_revision"].(string)
	newRev, _ := args["new_revision"].(string)

	res, err := s.analyzer(args).CompareRevisions(ctx, s.source, path, oldRev, newRev)
	if err != nil {
		return CompareResult{}, fmt.Errorf("comparison failed: %w", err)
	}
	return CompareResult{Result: res}, nil
}
