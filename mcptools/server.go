// Package mcptools exposes registered nodes as MCP tools.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hvppyflow/hfnodes"
	"github.com/hvppyflow/hfnodes/invoke"
)

// Server wraps an invoker and publishes one tool per registered node.
type Server struct {
	invoker   *invoke.Invoker
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server for every node in the invoker's
// registry.
func NewServer(inv *invoke.Invoker, version string) *Server {
	s := &Server{
		invoker:   inv,
		mcpServer: server.NewMCPServer("hfnodes", version),
	}
	s.registerTools()
	return s
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	reg := s.invoker.Registry()
	for _, id := range reg.IDs() {
		node, ok := reg.Get(id)
		if !ok {
			continue
		}
		s.mcpServer.AddTool(Tool(id, node.Schema()), s.handler(id))
	}
}

// Tool describes a node's visible input ports as an MCP tool.
func Tool(id string, schema hfnodes.Schema) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(toolDescription(id, schema))}
	for _, port := range schema.Inputs.Visible() {
		opts = append(opts, portOption(port, schema.InputIsList))
	}
	return mcp.NewTool(id, opts...)
}

func toolDescription(id string, schema hfnodes.Schema) string {
	if schema.Description != "" {
		return schema.Description
	}
	return fmt.Sprintf("Run the %s node (%s).", id, schema.Category)
}

func portOption(port hfnodes.Input, list bool) mcp.ToolOption {
	var props []mcp.PropertyOption
	if port.Options.Default == nil {
		props = append(props, mcp.Required())
	}

	switch port.Type {
	case hfnodes.Int, hfnodes.Float:
		if port.Options.Min != nil {
			props = append(props, mcp.Min(*port.Options.Min))
		}
		if port.Options.Max != nil {
			props = append(props, mcp.Max(*port.Options.Max))
		}
		if d, ok := toFloat(port.Options.Default); ok {
			props = append(props, mcp.DefaultNumber(d))
		}
		if port.Type == hfnodes.Int {
			props = append(props, integer())
		}
		return mcp.WithNumber(port.Name, props...)
	case hfnodes.Boolean:
		if b, ok := port.Options.Default.(bool); ok {
			props = append(props, mcp.DefaultBool(b))
		}
		return mcp.WithBoolean(port.Name, props...)
	case hfnodes.String:
		if list {
			props = append(props, mcp.WithStringItems())
			return mcp.WithArray(port.Name, props...)
		}
		if d, ok := port.Options.Default.(string); ok {
			props = append(props, mcp.DefaultString(d))
		}
		return mcp.WithString(port.Name, props...)
	default:
		return mcp.WithAny(port.Name, props...)
	}
}

// integer narrows a number property to whole numbers.
func integer() mcp.PropertyOption {
	return func(schema map[string]any) {
		schema["type"] = "integer"
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func (s *Server) handler(id string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resp, err := s.invoker.Invoke(ctx, invoke.Request{
			Node:   id,
			Inputs: hfnodes.Inputs(request.GetArguments()),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", id, err)), nil
		}

		data, err := json.Marshal(resp)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}
