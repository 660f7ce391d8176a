package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// printersCommand lists installed printers, marking the OS default.
func (c *CLI) printersCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "printers",
		Short: "List installed printers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := c.dispatcher()
			list := d.ListPrinters(cmd.Context())
			def := d.DefaultPrinter(cmd.Context())

			if asJSON {
				return c.printJSON(map[string]interface{}{"printers": list, "default": def})
			}
			if len(list) == 0 {
				fmt.Fprintln(c.Err, "no printers found")
				return nil
			}
			for _, name := range list {
				mark := " "
				if name == def {
					mark = "*"
				}
				fmt.Fprintf(c.Out, "%s %s\n", mark, name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

// findPrinterCommand resolves a partial, case-insensitive printer name.
func (c *CLI) findPrinterCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "find-printer <query>",
		Short: "Find an installed printer by partial name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, ok := c.dispatcher().FindPrinter(cmd.Context(), args[0])
			if !ok {
				return fmt.Errorf("no printer matches %q", args[0])
			}
			fmt.Fprintln(c.Out, name)
			return nil
		},
	}
}
