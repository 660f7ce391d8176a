package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/garyjia/travel-expense-print/internal/models"
	"github.com/garyjia/travel-expense-print/internal/pdf"
	"github.com/garyjia/travel-expense-print/internal/storage"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	input     string // JSON file, or "-" for stdin
	output    string // PDF path
	print     bool
	printer   string
	preview   string // PNG path for a first-page preview
	noHistory bool
}

// generateCommand creates the generate command.
// The input is either a JSON array of items or a full print request object;
// flags override the request's fields.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render items to a PDF and optionally print it",
		Example: `  expensectl generate -i items.json
  expensectl generate -i items.json -o out/seisan.pdf --print --printer "Office Laser"
  cat request.json | expensectl generate -i -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readRequest(opts.input, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if opts.output != "" {
				req = req.WithOutputPath(opts.output)
			}
			if cmd.Flags().Changed("print") {
				req = req.WithPrint(opts.print)
			}
			if opts.printer != "" {
				req = req.WithPrinterName(opts.printer)
			}

			ct, err := c.start(cmd.Context(), !opts.noHistory)
			if err != nil {
				return err
			}
			defer ct.Close()

			resp, err := ct.Service().Process(cmd.Context(), req)
			if err != nil {
				return err
			}

			if opts.preview != "" {
				_, err := storage.NewLocalFileStorage("", c.logger).SaveFileAtomic(opts.preview, storage.FileTypePNG, func(w io.Writer) error {
					return pdf.RenderPreview(resp.Path, 0, w)
				})
				if err != nil {
					return fmt.Errorf("preview: %w", err)
				}
			}

			if err := c.printJSON(resp); err != nil {
				return err
			}
			if req.Print && !resp.Printed {
				return fmt.Errorf("document written to %s but printing failed: %s", resp.Path, resp.PrintError)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "items JSON file, or - for stdin")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output PDF path (generated when empty)")
	cmd.Flags().BoolVar(&opts.print, "print", false, "send the PDF to a printer")
	cmd.Flags().StringVar(&opts.printer, "printer", "", "printer name (configured or OS default when empty)")
	cmd.Flags().StringVar(&opts.preview, "preview", "", "write a PNG preview of the first page")
	cmd.Flags().BoolVar(&opts.noHistory, "no-history", false, "do not record the job in the history database")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

// readRequest decodes a print request from a file or stdin.
func readRequest(input string, stdin io.Reader) (models.PrintRequest, error) {
	var (
		data []byte
		err  error
	)
	if input == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(input)
	}
	if err != nil {
		return models.PrintRequest{}, fmt.Errorf("read input: %w", err)
	}

	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0:
		return models.PrintRequest{}, fmt.Errorf("input is empty")
	case data[0] == '[':
		var items []models.Item
		if err := json.Unmarshal(data, &items); err != nil {
			return models.PrintRequest{}, fmt.Errorf("decode items: %w", err)
		}
		return models.NewPrintRequest(items), nil
	default:
		var req models.PrintRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return models.PrintRequest{}, fmt.Errorf("decode request: %w", err)
		}
		return req, nil
	}
}
