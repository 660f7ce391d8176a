// Package printer hands generated PDFs to an external print executable and
// queries the operating system for installed printers.
package printer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/garyjia/travel-expense-print/internal/models"
)

// Style selects the argument convention of the print executable
type Style string

const (
	StyleSumatra Style = "sumatra" // [-silent] -print-to <name> | -print-to-default <file>
	StyleLP      Style = "lp"      // [-d <name>] <file>
)

const (
	psListPrinters   = "Get-Printer | Select-Object -ExpandProperty Name"
	psDefaultPrinter = "Get-CimInstance -ClassName Win32_Printer | Where-Object {$_.Default -eq $true} | Select-Object -ExpandProperty Name"
)

// Config holds dispatcher configuration
type Config struct {
	ExecutablePath string // tried before the default search list
	Style          Style  // empty selects by platform
	Silent         bool   // suppress the print executable's window
}

// CommandRunner runs a query command and returns its standard output
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Dispatcher implements print dispatch and printer queries
type Dispatcher struct {
	locator *Locator
	style   Style
	silent  bool
	goos    string
	run     CommandRunner
	logger  *zap.Logger
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithLocator replaces the default executable search list
func WithLocator(l *Locator) Option {
	return func(d *Dispatcher) { d.locator = l }
}

// WithPlatform overrides the detected operating system
func WithPlatform(goos string) Option {
	return func(d *Dispatcher) { d.goos = goos }
}

// WithRunner replaces the runner used for printer queries
func WithRunner(run CommandRunner) Option {
	return func(d *Dispatcher) { d.run = run }
}

// NewDispatcher creates a dispatcher for the current platform
func NewDispatcher(cfg Config, logger *zap.Logger, opts ...Option) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dispatcher{
		silent: cfg.Silent,
		goos:   runtime.GOOS,
		run:    runCommand,
		logger: logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.locator == nil {
		d.locator = DefaultLocator(d.goos, cfg.ExecutablePath)
	}
	d.style = cfg.Style
	if d.style == "" {
		d.style = StyleLP
		if d.goos == "windows" {
			d.style = StyleSumatra
		}
	}
	return d
}

// Find locates the print executable
func (d *Dispatcher) Find() (string, error) {
	return d.locator.Find()
}

// Args returns the argument list for printing absFile
func (d *Dispatcher) Args(absFile, printerName string) []string {
	var args []string
	switch d.style {
	case StyleLP:
		if printerName != "" {
			args = append(args, "-d", printerName)
		}
	default:
		if d.silent {
			args = append(args, "-silent")
		}
		if printerName != "" {
			args = append(args, "-print-to", printerName)
		} else {
			args = append(args, "-print-to-default")
		}
	}
	return append(args, absFile)
}

// Print sends filePath to printerName, or to the default printer when empty,
// and waits for the executable to exit. Cancelling ctx kills the child.
func (d *Dispatcher) Print(ctx context.Context, filePath, printerName string) error {
	exe, err := d.Find()
	if err != nil {
		d.logger.Error("Print executable not found", zap.Error(err))
		return err
	}

	absFile, err := filepath.Abs(filePath)
	if err != nil {
		return models.NewPrintError("invalid file path", err)
	}
	if _, err := os.Stat(absFile); err != nil {
		return models.NewPrintError(absFile, fmt.Errorf("%w: %v", ErrFileNotFound, err))
	}

	args := d.Args(absFile, printerName)
	d.logger.Info("Dispatching print job",
		zap.String("executable", exe),
		zap.Strings("args", args),
		zap.String("printer", printerName))

	cmd := exec.CommandContext(ctx, exe, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return models.NewPrintError("print cancelled", ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			e := &ExitError{Code: exitErr.ExitCode(), Output: strings.TrimSpace(stderr.String())}
			// some drivers report to stdout only
			if e.Output == "" {
				e.Output = strings.TrimSpace(stdout.String())
			}
			d.logger.Error("Print executable failed",
				zap.Int("exit_code", e.Code),
				zap.String("stderr", stderr.String()),
				zap.String("stdout", stdout.String()))
			return models.NewPrintError("print failed", e)
		}
		d.logger.Error("Failed to launch print executable", zap.String("executable", exe), zap.Error(err))
		return models.NewPrintError("failed to launch "+exe, err)
	}

	d.logger.Info("Print job completed", zap.String("file", absFile))
	return nil
}

// ListPrinters returns installed printer names. Query failures are logged
// and yield an empty list.
func (d *Dispatcher) ListPrinters(ctx context.Context) []string {
	var (
		out []byte
		err error
	)
	if d.goos == "windows" {
		out, err = d.run(ctx, "powershell", "-NoProfile", "-Command", psListPrinters)
	} else {
		out, err = d.run(ctx, "lpstat", "-a")
	}
	if err != nil {
		d.logger.Warn("Failed to list printers", zap.Error(err))
		return []string{}
	}

	if d.goos == "windows" {
		return parseLines(string(out))
	}
	return parseLpstatAccepting(string(out))
}

// DefaultPrinter returns the OS default printer, or "" when none is set or
// the query fails
func (d *Dispatcher) DefaultPrinter(ctx context.Context) string {
	var (
		out []byte
		err error
	)
	if d.goos == "windows" {
		out, err = d.run(ctx, "powershell", "-NoProfile", "-Command", psDefaultPrinter)
	} else {
		out, err = d.run(ctx, "lpstat", "-d")
	}
	if err != nil {
		d.logger.Warn("Failed to query default printer", zap.Error(err))
		return ""
	}

	if d.goos == "windows" {
		lines := parseLines(string(out))
		if len(lines) == 0 {
			return ""
		}
		return lines[0]
	}
	return parseLpstatDefault(string(out))
}

// FindPrinter returns the first installed printer whose name contains
// query, ignoring case. A blank query matches nothing.
func (d *Dispatcher) FindPrinter(ctx context.Context, query string) (string, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return "", false
	}
	for _, name := range d.ListPrinters(ctx) {
		if strings.Contains(strings.ToLower(name), q) {
			return name, true
		}
	}
	return "", false
}

func parseLines(out string) []string {
	lines := []string{}
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// parseLpstatAccepting reads `lpstat -a` output: "<name> accepting requests since ..."
func parseLpstatAccepting(out string) []string {
	names := []string{}
	for _, line := range parseLines(out) {
		if fields := strings.Fields(line); len(fields) > 0 {
			names = append(names, fields[0])
		}
	}
	return names
}

// parseLpstatDefault reads `lpstat -d` output: "system default destination: <name>"
func parseLpstatDefault(out string) string {
	for _, line := range parseLines(out) {
		if strings.HasPrefix(line, "no system default") {
			return ""
		}
		if i := strings.LastIndex(line, ":"); i >= 0 {
			return strings.TrimSpace(line[i+1:])
		}
	}
	return ""
}
