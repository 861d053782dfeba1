package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dekot-dev/dekot/internal/config"
	"github.com/dekot-dev/dekot/internal/oplog"
	"github.com/dekot-dev/dekot/internal/render"
	"github.com/dekot-dev/dekot/pkg/command"
	"github.com/dekot-dev/dekot/pkg/destructure"
)

// ApplyCommand holds the flags for the apply command.
type ApplyCommand struct {
	configPath string
	line       uint
	write      bool
	noColor    bool
}

// NewApplyCommand creates and configures the apply command.
func NewApplyCommand() *cobra.Command {
	cmd := &ApplyCommand{}

	cobraCmd := &cobra.Command{
		Use:   "apply <file>",
		Short: "Convert a declaration to a destructuring declaration",
		Long: `Convert the declaration on the given line to a destructuring
declaration. Without --write the rewrite is previewed as a diff; with
--write the file is modified in place and the change is recorded in the
operation log.`,
		Args: cobra.ExactArgs(1),
		RunE: cmd.Run,
	}

	cobraCmd.Flags().UintVarP(&cmd.line, "line", "l", 0, "1-based line of the declaration (default: first candidate)")
	cobraCmd.Flags().BoolVarP(&cmd.write, "write", "w", false, "Write the rewrite to disk")
	cobraCmd.Flags().BoolVar(&cmd.noColor, "no-color", false, "Disable colored diff output")
	cobraCmd.Flags().StringVar(&cmd.configPath, "config", "", "Config file path")

	return cobraCmd
}

// Run executes the apply command.
func (c *ApplyCommand) Run(cobraCmd *cobra.Command, args []string) error {
	if c.noColor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	}

	eng, err := newEngine(c.configPath)
	if err != nil {
		return err
	}

	path := args[0]

	tree, err := eng.parseFile(cobraCmd.Context(), path)
	if err != nil {
		return err
	}

	analysis, found := destructure.CandidateAt(tree, eng.resolver, c.line)
	if !found {
		if c.line == 0 {
			return fmt.Errorf("%w in %s", ErrNoCandidate, path)
		}

		return fmt.Errorf("%w at %s:%d", ErrNoCandidate, path, c.line)
	}

	rewrite, err := analysis.Rewrite()
	if err != nil {
		return err
	}

	if !c.write {
		return c.preview(tree.Path, tree.Source, rewrite)
	}

	return c.perform(eng.cfg, rewrite)
}

// preview applies the rewrite in memory and prints the diff.
func (c *ApplyCommand) preview(path string, source []byte, rewrite command.Command) error {
	writer := newMemWriter(path, source)

	performer := command.NewPerformer(writer)
	if err := performer.Perform(rewrite); err != nil {
		return err
	}

	render.UnifiedDiff(os.Stdout, path, source, writer.files[path], !c.noColor)
	fmt.Fprintln(os.Stdout, "\nRun again with --write to apply")

	return nil
}

// perform writes the rewrite to disk through the operation log.
func (c *ApplyCommand) perform(cfg *config.Config, rewrite command.Command) error {
	var writer command.FileWriter = command.DiskWriter{}

	if cfg.OpLog.Enabled {
		writer = oplog.NewInterceptor(writer, oplog.Open(cfg.OpLog.Path), slog.Default())
	}

	performer := command.NewPerformer(writer)
	performer.OnMessage = func(message string) {
		fmt.Fprintln(os.Stderr, message)
	}

	return performer.Perform(rewrite)
}

// memWriter is an in-memory FileWriter used for diff previews.
type memWriter struct {
	files map[string][]byte
}

func newMemWriter(path string, content []byte) *memWriter {
	return &memWriter{files: map[string][]byte{path: content}}
}

// ReadFile returns the staged content for path.
func (w *memWriter) ReadFile(path string) ([]byte, error) {
	data, ok := w.files[path]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", path, os.ErrNotExist)
	}

	return data, nil
}

// WriteFile stages new content for path.
func (w *memWriter) WriteFile(path string, data []byte) error {
	w.files[path] = data

	return nil
}
