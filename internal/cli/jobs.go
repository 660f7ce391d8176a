package cli

import (
	"github.com/spf13/cobra"

	"github.com/garyjia/travel-expense-print/internal/container"
	"github.com/garyjia/travel-expense-print/internal/printer"
	"github.com/garyjia/travel-expense-print/internal/repository"
)

// jobsCommand prints recent job history as JSON.
func (c *CLI) jobsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Show recent generation and print jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ct, err := c.start(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer ct.Close()

			jobs, err := ct.Service().Jobs(limit)
			if err != nil {
				return err
			}
			return c.printJSON(jobs)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", repository.DefaultListLimit, "number of jobs to show")
	return cmd
}

// dispatcher builds a print dispatcher without opening the database.
func (c *CLI) dispatcher() *printer.Dispatcher {
	return container.ProvidePrinter(&c.cfg.Printer, c.logger)
}
