package mcpserver

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/panbanda/mccabre/internal/output"
	"github.com/panbanda/mccabre/internal/report"
	"github.com/panbanda/mccabre/internal/service/analysis"
	"github.com/panbanda/mccabre/pkg/analyzer/loc"
	"github.com/panbanda/mccabre/pkg/config"
)

// Common input structures for tools

// AnalyzeInput is the base input for all analyze tools.
type AnalyzeInput struct {
	Paths  []string `json:"paths,omitempty" jsonschema:"Paths to analyze. Defaults to current directory if empty."`
	Format string   `json:"format,omitempty" jsonschema:"Output format: toon (default), json, yaml, markdown, or text."`
}

// FullInput configures the combined analysis.
type FullInput struct {
	AnalyzeInput
	Threshold int `json:"threshold,omitempty" jsonschema:"Complexity warning threshold. Default 10."`
	MinTokens int `json:"min_tokens,omitempty" jsonschema:"Minimum clone length in tokens. Default 30."`
}

// ComplexityInput adds complexity-specific options.
type ComplexityInput struct {
	AnalyzeInput
	Threshold int `json:"threshold,omitempty" jsonschema:"Complexity warning threshold. Default 10."`
}

// ClonesInput adds clone detection options.
type ClonesInput struct {
	AnalyzeInput
	MinTokens int  `json:"min_tokens,omitempty" jsonschema:"Minimum clone length in tokens. Default 30."`
	Verify    bool `json:"verify,omitempty" jsonschema:"Compare token text to rule out hash collisions."`
}

// LOCInput adds line counting options.
type LOCInput struct {
	AnalyzeInput
	RankBy   string `json:"rank_by,omitempty" jsonschema:"Metric to rank by: logical (default), physical, comments, or blank."`
	RankDirs bool   `json:"rank_dirs,omitempty" jsonschema:"Rank directories instead of files."`
}

// Helper functions

func getPaths(input AnalyzeInput) []string {
	if len(input.Paths) == 0 {
		return []string{"."}
	}
	return input.Paths
}

func getFormat(input AnalyzeInput) output.Format {
	format, err := output.ParseFormat(input.Format)
	if err != nil || input.Format == "" {
		return output.FormatTOON
	}
	return format
}

func formatOutput(data any, format output.Format) (string, error) {
	var buf bytes.Buffer
	if err := output.NewWriterFormatter(format, &buf, false).Output(data); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func toolResult(data any, format output.Format) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(data, format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

func analysisError(err error) (*mcp.CallToolResult, any, error) {
	if errors.Is(err, analysis.ErrNoFiles) {
		return toolError("no supported source files found")
	}
	return toolError(err.Error())
}

// service builds an analysis service over a copy of the server config with
// per-call overrides applied.
func (s *Server) service(o config.Overrides) *analysis.Service {
	cfg := *s.config
	cfg.MergeFlags(o)
	return analysis.New(analysis.WithConfig(&cfg))
}

// Tool handlers

func (s *Server) handleAnalyze(ctx context.Context, req *mcp.CallToolRequest, input FullInput) (*mcp.CallToolResult, any, error) {
	svc := s.service(config.Overrides{Threshold: input.Threshold, MinTokens: input.MinTokens})
	result, err := svc.Analyze(ctx, getPaths(input.AnalyzeInput), analysis.AnalyzeOptions{
		Clones: svc.Config().Clones.Enabled,
	})
	if err != nil {
		return analysisError(err)
	}

	view := report.NewAnalyzeView(result.Report, report.WithThresholds(svc.Thresholds()))
	return toolResult(view, getFormat(input.AnalyzeInput))
}

func (s *Server) handleAnalyzeComplexity(ctx context.Context, req *mcp.CallToolRequest, input ComplexityInput) (*mcp.CallToolResult, any, error) {
	svc := s.service(config.Overrides{Threshold: input.Threshold})
	result, err := svc.Analyze(ctx, getPaths(input.AnalyzeInput), analysis.AnalyzeOptions{})
	if err != nil {
		return analysisError(err)
	}

	view := report.NewComplexityView(result.Report, report.WithThresholds(svc.Thresholds()))
	return toolResult(view, getFormat(input.AnalyzeInput))
}

func (s *Server) handleAnalyzeClones(ctx context.Context, req *mcp.CallToolRequest, input ClonesInput) (*mcp.CallToolResult, any, error) {
	svc := s.service(config.Overrides{MinTokens: input.MinTokens, Verify: input.Verify})
	result, err := svc.Clones(ctx, getPaths(input.AnalyzeInput))
	if err != nil {
		return analysisError(err)
	}

	return toolResult(report.NewClonesView(result.Clones), getFormat(input.AnalyzeInput))
}

func (s *Server) handleAnalyzeLOC(ctx context.Context, req *mcp.CallToolRequest, input LOCInput) (*mcp.CallToolResult, any, error) {
	rankBy, err := loc.ParseRankBy(input.RankBy)
	if err != nil {
		return toolError(err.Error())
	}

	ranked, _, err := s.service(config.Overrides{}).LOC(ctx, getPaths(input.AnalyzeInput), rankBy, input.RankDirs)
	if err != nil {
		return analysisError(err)
	}

	return toolResult(report.NewLOCView(ranked), getFormat(input.AnalyzeInput))
}
