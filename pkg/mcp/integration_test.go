package mcp_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dekot-dev/dekot/pkg/mcp"
)

const sampleCode = `data class Point(val x: Int, val y: Int)

fun f() {
    val p = Point(1, 2)
    println(p.x)
    println(p.y)
}
`

// connect starts the server on an in-memory transport and returns a
// connected client session.
func connect(t *testing.T, ctx context.Context) *mcpsdk.ClientSession {
	t.Helper()

	srv := mcp.NewServer(mcp.ServerDeps{})

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()

	serverDone := make(chan error, 1)

	go func() {
		serverDone <- srv.RunWithTransport(ctx, serverTransport)
	}()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()
		<-serverDone
	})

	return session
}

func textContent(t *testing.T, result *mcpsdk.CallToolResult) string {
	t.Helper()

	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)

	return text.Text
}

func TestMCPServer_ListToolNames(t *testing.T) {
	t.Parallel()

	srv := mcp.NewServer(mcp.ServerDeps{})

	assert.Equal(t, []string{"dekot_analyze", "dekot_rewrite"}, srv.ListToolNames())
}

func TestMCPServer_ToolsListOverTransport(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	session := connect(t, ctx)

	toolsResult, err := session.ListTools(ctx, nil)
	require.NoError(t, err)

	toolNames := make([]string, 0, len(toolsResult.Tools))
	for _, tool := range toolsResult.Tools {
		toolNames = append(toolNames, tool.Name)

		assert.NotNil(t, tool.InputSchema, "tool %s missing input schema", tool.Name)
	}

	assert.ElementsMatch(t, []string{"dekot_analyze", "dekot_rewrite"}, toolNames)
}

func TestMCPServer_CallAnalyze(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	session := connect(t, ctx)

	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      "dekot_analyze",
		Arguments: map[string]any{"code": sampleCode},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	var output mcp.AnalyzeOutput
	require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &output))

	require.Len(t, output.Candidates, 1)
	assert.Equal(t, "Point", output.Candidates[0].Aggregate)
	assert.Equal(t, "(x, y)", output.Candidates[0].Pattern)
	assert.Equal(t, uint(4), output.Candidates[0].Line)
	assert.True(t, output.Candidates[0].Suggested)
}

func TestMCPServer_CallRewrite(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	session := connect(t, ctx)

	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      "dekot_rewrite",
		Arguments: map[string]any{"code": sampleCode, "line": 4},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	var output mcp.RewriteOutput
	require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &output))

	assert.Equal(t, "(x, y)", output.Pattern)
	assert.True(t, strings.Contains(output.Code, "val (x, y) = Point(1, 2)"))
	assert.True(t, strings.Contains(output.Code, "println(x)"))
}

func TestMCPServer_CallAnalyzeEmptyCode(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	session := connect(t, ctx)

	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      "dekot_analyze",
		Arguments: map[string]any{"code": ""},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textContent(t, result), "code parameter")
}

func TestMCPServer_CallRewriteNoCandidate(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	session := connect(t, ctx)

	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      "dekot_rewrite",
		Arguments: map[string]any{"code": "fun f() { println(\"hello\") }\n"},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textContent(t, result), "no convertible declaration")
}
