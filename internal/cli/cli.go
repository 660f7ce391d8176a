// Package cli implements the expensectl command-line interface.
package cli

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/garyjia/travel-expense-print/internal/config"
	"github.com/garyjia/travel-expense-print/internal/container"
	"github.com/garyjia/travel-expense-print/pkg/utils"
)

const appName = "expensectl"

// Version is set at build time via ldflags.
var Version = "dev"

// CLI holds shared state for all commands.
type CLI struct {
	Out io.Writer // command results
	Err io.Writer // logs and diagnostics

	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

// New creates a new CLI writing results to out and logs to errw.
func New(out, errw io.Writer) *CLI {
	return &CLI{Out: out, Err: errw, logger: zap.NewNop()}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Render and print travel expense settlement forms",
		Long:          `expensectl renders 出張旅費精算書 (travel expense settlement forms) to PDF and hands them to a printer.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init()
		},
	}

	root.SetOut(c.Out)
	root.SetErr(c.Err)
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "path to YAML config (defaults and environment only when empty)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.printersCommand())
	root.AddCommand(c.findPrinterCommand())
	root.AddCommand(c.jobsCommand())

	return root
}

// init loads configuration and builds a console logger on Err.
func (c *CLI) init() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level := cfg.Logger.Level
	if c.verbose {
		level = "debug"
	}
	logger, err := utils.NewLogger(utils.LoggerConfig{Level: level, Format: "console", Writer: c.Err})
	if err != nil {
		return err
	}
	c.logger = logger
	return nil
}

// start initializes the application components for one command.
func (c *CLI) start(ctx context.Context, history bool) (*container.Container, error) {
	ct, err := container.NewContainer(c.cfg, container.Options{History: history}, c.logger)
	if err != nil {
		return nil, err
	}
	if err := ct.Start(ctx); err != nil {
		return nil, err
	}
	return ct, nil
}

func (c *CLI) printJSON(v interface{}) error {
	enc := json.NewEncoder(c.Out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
