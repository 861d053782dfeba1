package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dekot-dev/dekot/internal/resolve"
	"github.com/dekot-dev/dekot/pkg/command"
	"github.com/dekot-dev/dekot/pkg/destructure"
	"github.com/dekot-dev/dekot/pkg/syntax"
)

// Tool name constants.
const (
	ToolNameAnalyze = "dekot_analyze"
	ToolNameRewrite = "dekot_rewrite"
)

// Input size limits.
const (
	// MaxCodeInputBytes is the maximum allowed size for inline code input (1 MB).
	MaxCodeInputBytes = 1 << 20
)

// syntheticPath names inline code in results and diagnostics.
const syntheticPath = "code.kt"

// Sentinel errors for tool input validation.
var (
	// ErrEmptyCode indicates the code parameter is empty.
	ErrEmptyCode = errors.New("code parameter is required and must not be empty")
	// ErrCodeTooLarge indicates the code input exceeds the size limit.
	ErrCodeTooLarge = errors.New("code input exceeds maximum size")
	// ErrNoCandidate indicates no convertible declaration was found.
	ErrNoCandidate = errors.New("no convertible declaration found")
)

// Input types (auto-generate JSON schemas via struct tags).

// AnalyzeInput is the input schema for the dekot_analyze tool.
type AnalyzeInput struct {
	Code  string `json:"code"            jsonschema:"Kotlin source code to analyze"`
	Stubs string `json:"stubs,omitempty" jsonschema:"optional path to a pair-type stub file"`
}

// RewriteInput is the input schema for the dekot_rewrite tool.
type RewriteInput struct {
	Code  string `json:"code"            jsonschema:"Kotlin source code to rewrite"`
	Line  uint   `json:"line,omitempty"  jsonschema:"1-based line of the declaration to convert (default: first candidate)"`
	Stubs string `json:"stubs,omitempty" jsonschema:"optional path to a pair-type stub file"`
}

// CandidateInfo describes one convertible declaration in tool output.
type CandidateInfo struct {
	Line      uint   `json:"line"`
	Col       uint   `json:"col"`
	Kind      string `json:"kind"`
	Aggregate string `json:"aggregate"`
	Pattern   string `json:"pattern"`
	Suggested bool   `json:"suggested"`
}

// AnalyzeOutput is the structured result of dekot_analyze.
type AnalyzeOutput struct {
	Candidates []CandidateInfo `json:"candidates"`
}

// RewriteOutput is the structured result of dekot_rewrite.
type RewriteOutput struct {
	Code    string `json:"code"`
	Pattern string `json:"pattern"`
}

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

func (s *Server) handleAnalyze(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input AnalyzeInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	tree, resolver, err := s.prepare(ctx, input.Code, input.Stubs)
	if err != nil {
		return errorResult(err)
	}

	candidates := destructure.FindCandidates(tree, resolver)

	output := AnalyzeOutput{Candidates: make([]CandidateInfo, 0, len(candidates))}
	for _, analysis := range candidates {
		binding := analysis.Decl.Binding()

		output.Candidates = append(output.Candidates, CandidateInfo{
			Line:      binding.Span.StartPos.Line,
			Col:       binding.Span.StartPos.Col,
			Kind:      analysis.Decl.Kind().String(),
			Aggregate: analysis.Aggregate.Name,
			Pattern:   analysis.Pattern(),
			Suggested: analysis.Suggested(),
		})
	}

	return jsonResult(output)
}

func (s *Server) handleRewrite(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input RewriteInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	tree, resolver, err := s.prepare(ctx, input.Code, input.Stubs)
	if err != nil {
		return errorResult(err)
	}

	analysis, found := destructure.CandidateAt(tree, resolver, input.Line)
	if !found {
		return errorResult(ErrNoCandidate)
	}

	cmd, err := analysis.Rewrite()
	if err != nil {
		return errorResult(err)
	}

	writer := newMemWriter(syntheticPath, []byte(input.Code))

	performer := command.NewPerformer(writer)
	if err := performer.Perform(cmd); err != nil {
		return errorResult(err)
	}

	return jsonResult(RewriteOutput{
		Code:    string(writer.files[syntheticPath]),
		Pattern: analysis.Pattern(),
	})
}

// prepare parses inline code and builds a resolver seeded with the parsed
// tree's data classes plus any user stubs.
func (s *Server) prepare(ctx context.Context, code, stubs string) (*syntax.Tree, *resolve.FileResolver, error) {
	if err := validateCodeInput(code); err != nil {
		return nil, nil, err
	}

	tree, err := s.parser.Parse(ctx, syntheticPath, []byte(code))
	if err != nil {
		return nil, nil, err
	}

	resolver := resolve.NewFileResolver()
	resolver.AddSources(tree)

	if stubs != "" {
		if err := resolver.LoadStubs(stubs); err != nil {
			return nil, nil, err
		}
	}

	return tree, resolver, nil
}

// memWriter is an in-memory FileWriter used to apply rewrite commands to
// inline code.
type memWriter struct {
	files map[string][]byte
}

func newMemWriter(path string, content []byte) *memWriter {
	return &memWriter{files: map[string][]byte{path: content}}
}

func (w *memWriter) ReadFile(path string) ([]byte, error) {
	data, ok := w.files[path]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", path, os.ErrNotExist)
	}

	return data, nil
}

func (w *memWriter) WriteFile(path string, data []byte) error {
	w.files[path] = data

	return nil
}

// Result helpers.

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}

// validateCodeInput checks common code input constraints.
func validateCodeInput(code string) error {
	if code == "" {
		return ErrEmptyCode
	}

	if len(code) > MaxCodeInputBytes {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrCodeTooLarge, len(code), MaxCodeInputBytes)
	}

	return nil
}
