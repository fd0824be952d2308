// Package mcpserver exposes the record store as MCP tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/yoanbernabeu/keycount/keywords"
	"github.com/yoanbernabeu/keycount/records"
)

// Server wraps an MCP server bound to one record store.
type Server struct {
	records *records.Store
	mcp     *server.MCPServer
}

// SaveResult is returned by the save, update and delete tools.
type SaveResult struct {
	Path     string `json:"path"`
	Record   string `json:"record"`
	Changed  bool   `json:"changed"`
	Location string `json:"location"`
}

// GetResult is returned by the get tool.
type GetResult struct {
	Path     string           `json:"path"`
	Location string           `json:"location"`
	Total    int              `json:"total"`
	Keywords []keywords.Entry `json:"keywords"`
}

// New creates an MCP server with the keyword tools registered.
func New(st *records.Store, version string) *Server {
	s := &Server{
		records: st,
		mcp: server.NewMCPServer(
			"keycount",
			version,
			server.WithToolCapabilities(false),
		),
	}
	s.registerTools()
	return s
}

func pathTool(name, description string) mcp.Tool {
	return mcp.NewTool(name,
		mcp.WithDescription(description),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Project directory path; its final segment names the record"),
		),
	)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(pathTool("save_keywords",
		"Scan a project directory and save its keyword counts. Returns changed=false when a record already exists."),
		s.handleSave)
	s.mcp.AddTool(pathTool("get_keywords",
		"Return the saved keyword counts of a project. Keywords with a zero count are omitted."),
		s.handleGet)
	s.mcp.AddTool(pathTool("update_keywords",
		"Rescan a project directory and replace its saved keyword counts."),
		s.handleUpdate)
	s.mcp.AddTool(pathTool("delete_keywords",
		"Delete the saved keyword counts of a project. Returns changed=false when no record exists."),
		s.handleDelete)
}

// Serve runs the server on stdin/stdout until the client disconnects.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) handleSave(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.mutate(ctx, req, s.records.Save)
}

func (s *Server) handleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.mutate(ctx, req, s.records.Update)
}

func (s *Server) handleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.mutate(ctx, req, s.records.Delete)
}

func (s *Server) mutate(ctx context.Context, req mcp.CallToolRequest, op func(context.Context, string) (bool, error)) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	changed, err := op(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, _ := records.RecordName(path)
	loc, _ := s.records.Location(path)
	return jsonResult(SaveResult{Path: path, Record: name, Changed: changed, Location: loc})
}

func (s *Server) handleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	counts, err := s.records.Get(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	loc, _ := s.records.Location(path)
	return jsonResult(GetResult{
		Path:     path,
		Location: loc,
		Total:    counts.Total(),
		Keywords: counts.Sorted(),
	})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
