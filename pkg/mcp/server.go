// Package mcp implements a Model Context Protocol server exposing dekot's
// Kotlin destructuring analysis as MCP tools over stdio transport.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dekot-dev/dekot/pkg/syntax"
)

const (
	// serverName is the MCP server implementation name.
	serverName = "dekot"
	// serverVersion is the MCP server implementation version.
	serverVersion = "1.0.0"

	// toolCount is the expected number of registered tools.
	toolCount = 2
)

// ServerDeps holds injectable dependencies for the MCP server.
// Zero-value fields use production defaults.
type ServerDeps struct {
	// Logger is an optional structured logger. Nil uses slog default.
	Logger *slog.Logger

	// Parser is an optional Kotlin parser. Nil creates a fresh one.
	Parser *syntax.Parser
}

// Server wraps the MCP SDK server with dekot tool registrations.
type Server struct {
	inner  *mcpsdk.Server
	parser *syntax.Parser
	mu     sync.RWMutex
	tools  []string
}

// NewServer creates a new MCP server with all dekot tools registered.
func NewServer(deps ServerDeps) *Server {
	opts := &mcpsdk.ServerOptions{}
	if deps.Logger != nil {
		opts.Logger = deps.Logger
	}

	inner := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    serverName,
			Version: serverVersion,
		},
		opts,
	)

	parser := deps.Parser
	if parser == nil {
		parser = syntax.NewParser()
	}

	srv := &Server{
		inner:  inner,
		parser: parser,
		tools:  make([]string, 0, toolCount),
	}

	srv.registerTools()

	return srv
}

// ListToolNames returns the sorted names of all registered tools.
func (s *Server) ListToolNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.tools))
	copy(names, s.tools)
	sort.Strings(names)

	return names
}

// Run starts the MCP server on stdio transport. It blocks until the context
// is canceled or the connection closes.
func (s *Server) Run(ctx context.Context) error {
	err := s.inner.Run(ctx, &mcpsdk.StdioTransport{})
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

// RunWithTransport starts the MCP server on the given transport. It blocks
// until the context is canceled or the connection closes.
func (s *Server) RunWithTransport(ctx context.Context, transport mcpsdk.Transport) error {
	err := s.inner.Run(ctx, transport)
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

// registerTools adds all dekot MCP tools to the server.
func (s *Server) registerTools() {
	s.registerAnalyzeTool()
	s.registerRewriteTool()
}

func (s *Server) registerAnalyzeTool() {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameAnalyze,
		Description: analyzeToolDescription,
	}, s.handleAnalyze)

	s.trackTool(ToolNameAnalyze)
}

func (s *Server) registerRewriteTool() {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameRewrite,
		Description: rewriteToolDescription,
	}, s.handleRewrite)

	s.trackTool(ToolNameRewrite)
}

func (s *Server) trackTool(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools = append(s.tools, name)
}

// Tool description constants.
const (
	analyzeToolDescription = "Analyze inline Kotlin code for declarations that can be " +
		"converted to destructuring declarations. Returns candidate locations, " +
		"the destructuring pattern, and whether the conversion is suggested."

	rewriteToolDescription = "Convert a declaration in inline Kotlin code to a " +
		"destructuring declaration. Accepts the code and the 1-based line of the " +
		"declaration; returns the rewritten source."
)
