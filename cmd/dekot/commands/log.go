package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dekot-dev/dekot/internal/config"
	"github.com/dekot-dev/dekot/internal/oplog"
	"github.com/dekot-dev/dekot/internal/render"
)

// LogCommand holds the flags for the log command.
type LogCommand struct {
	configPath string
}

// NewLogCommand creates and configures the log command.
func NewLogCommand() *cobra.Command {
	cmd := &LogCommand{}

	cobraCmd := &cobra.Command{
		Use:   "log",
		Short: "Show the rewrite operation log",
		Long:  "Show every recorded file rewrite, oldest first.",
		Args:  cobra.NoArgs,
		RunE:  cmd.Run,
	}

	cobraCmd.Flags().StringVar(&cmd.configPath, "config", "", "Config file path")

	return cobraCmd
}

// Run executes the log command.
func (c *LogCommand) Run(_ *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(c.configPath)
	if err != nil {
		return err
	}

	records, err := oplog.Open(cfg.OpLog.Path).ReadAll()
	if err != nil {
		return err
	}

	render.LogTable(os.Stdout, records)

	return nil
}
