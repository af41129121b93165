package server

import (
	"context"
	"io"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// MCP returns an MCP server exposing every tool.
func (s *Server) MCP() *mcpserver.MCPServer {
	m := mcpserver.NewMCPServer(s.name, s.version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
	)
	for _, t := range s.tools.order {
		m.AddTool(t.mcpTool(), s.mcpHandler(t.Name))
	}
	return m
}

// Serve speaks MCP over the given streams until ctx is done or in closes.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Info("serving", "name", s.name, "version", s.version, "tools", len(s.tools.order))
	return mcpserver.NewStdioServer(s.MCP()).Listen(ctx, in, out)
}

func (s *Server) mcpHandler(name string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return s.Call(ctx, name, req.GetArguments()).mcpResult(), nil
	}
}

func (t *Tool) mcpTool() mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(t.Description)}
	for _, p := range t.Params {
		props := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			props = append(props, mcp.Required())
		}
		if len(p.Enum) > 0 {
			props = append(props, mcp.Enum(p.Enum...))
		}
		switch p.Type {
		case NumberParam:
			opts = append(opts, mcp.WithNumber(p.Name, props...))
		case BooleanParam:
			opts = append(opts, mcp.WithBoolean(p.Name, props...))
		default:
			opts = append(opts, mcp.WithString(p.Name, props...))
		}
	}
	return mcp.NewTool(t.Name, opts...)
}

// mcpResult carries the rendered text first and the JSON result second.
func (r *Result) mcpResult() *mcp.CallToolResult {
	content := []mcp.Content{mcp.NewTextContent(r.Text)}
	if js := r.JSON(); js != "" {
		content = append(content, mcp.NewTextContent(js))
	}
	return &mcp.CallToolResult{Content: content, IsError: r.IsError}
}
