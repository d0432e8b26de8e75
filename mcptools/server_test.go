package mcptools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hvppyflow/hfnodes/builtin"
	"github.com/hvppyflow/hfnodes/invoke"
)

func callTool(t *testing.T, s *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.MCPServer().GetTool(name)
	require.NotNil(t, tool, "tool %s", name)

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	return res
}

func TestToolsRegistered(t *testing.T) {
	s := NewServer(invoke.New(builtin.NewRegistry(nil)), "test")

	tools := s.MCPServer().ListTools()
	assert.Len(t, tools, 5)

	sleep := tools[builtin.SleepID].Tool
	assert.Equal(t, "Delays the execution for the input amount of time.", sleep.Description)
	assert.Equal(t, []string{"input"}, sleep.InputSchema.Required)

	minutes := sleep.InputSchema.Properties["minutes"].(map[string]any)
	assert.Equal(t, "integer", minutes["type"])
	assert.Equal(t, 1439.0, minutes["maximum"])
	assert.Equal(t, 0.0, minutes["default"])

	seconds := sleep.InputSchema.Properties["seconds"].(map[string]any)
	assert.Equal(t, "number", seconds["type"])

	show := tools[builtin.ShowTextID].Tool
	text := show.InputSchema.Properties["text"].(map[string]any)
	assert.Equal(t, "array", text["type"])
	assert.NotContains(t, show.InputSchema.Properties, "unique_id")
}

func TestSplitTool(t *testing.T) {
	s := NewServer(invoke.New(builtin.NewRegistry(nil)), "test")

	res := callTool(t, s, builtin.SplitTextID, map[string]any{"input": "a b  c", "delimiter": ""})
	require.False(t, res.IsError)

	text := res.Content[0].(mcp.TextContent).Text
	var resp invoke.Response
	require.NoError(t, json.Unmarshal([]byte(text), &resp))
	assert.Equal(t, []any{"a", "b", "c"}, resp.Outputs["STRING"])
}

func TestToolErrorsAreResults(t *testing.T) {
	s := NewServer(invoke.New(builtin.NewRegistry(nil)), "test")

	res := callTool(t, s, builtin.SleepID, map[string]any{"input": "x", "minutes": 5000.0})
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "invalid input")
}
