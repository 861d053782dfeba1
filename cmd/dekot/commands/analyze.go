package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dekot-dev/dekot/internal/render"
	"github.com/dekot-dev/dekot/pkg/destructure"
)

// AnalyzeCommand holds the flags for the analyze command.
type AnalyzeCommand struct {
	configPath string
	format     string
	output     string
	all        bool
}

// NewAnalyzeCommand creates and configures the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	cmd := &AnalyzeCommand{}

	cobraCmd := &cobra.Command{
		Use:   "analyze [paths...]",
		Short: "List declarations convertible to destructuring declarations",
		Long: `Analyze Kotlin sources and list declarations whose component reads
can be replaced by a destructuring declaration.

By default only suggested candidates are listed (more than half of the
components read, or a nested destructuring already present); --all lists
every applicable one.`,
		Args: cobra.MinimumNArgs(1),
		RunE: cmd.Run,
	}

	cobraCmd.Flags().StringVarP(&cmd.format, "format", "f", "text", "Output format: text or json")
	cobraCmd.Flags().StringVarP(&cmd.output, "output", "o", "", "Output file (default: stdout)")
	cobraCmd.Flags().StringVar(&cmd.configPath, "config", "", "Config file path")
	cobraCmd.Flags().BoolVar(&cmd.all, "all", false, "List all applicable candidates, not only suggested ones")

	return cobraCmd
}

// Run executes the analyze command.
func (c *AnalyzeCommand) Run(cobraCmd *cobra.Command, args []string) error {
	eng, err := newEngine(c.configPath)
	if err != nil {
		return err
	}

	trees, err := eng.parseAll(cobraCmd.Context(), args)
	if err != nil {
		return err
	}

	var candidates []render.Candidate

	for _, tree := range trees {
		for _, analysis := range destructure.FindCandidates(tree, eng.resolver) {
			suggested := analysis.Suggested()
			if !c.all && eng.cfg.Suggest.OnlyMajority && !suggested {
				continue
			}

			binding := analysis.Decl.Binding()

			candidates = append(candidates, render.Candidate{
				Path:      tree.Path,
				Line:      binding.Span.StartPos.Line,
				Col:       binding.Span.StartPos.Col,
				Kind:      analysis.Decl.Kind().String(),
				Aggregate: analysis.Aggregate.Name,
				Pattern:   analysis.Pattern(),
				Suggested: suggested,
			})
		}
	}

	out, closer, err := c.openOutput()
	if err != nil {
		return err
	}
	defer closer()

	if c.format == "json" {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")

		return encoder.Encode(candidates)
	}

	render.CandidateTable(out, candidates)

	return nil
}

// openOutput returns the destination writer and a close function.
func (c *AnalyzeCommand) openOutput() (io.Writer, func(), error) {
	if c.output == "" {
		return os.Stdout, func() {}, nil
	}

	file, err := os.Create(c.output)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", c.output, err)
	}

	return file, func() { file.Close() }, nil
}
