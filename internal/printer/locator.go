package printer

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/garyjia/travel-expense-print/internal/models"
)

// SumatraNames are the SumatraPDF executable names tried in every directory and on PATH
var SumatraNames = []string{"SumatraPDF-3.5.2-64.exe", "SumatraPDF.exe"}

// Locator finds the print executable: explicit candidate paths first, in
// order, then executable names on the system PATH
type Locator struct {
	candidates []string
	names      []string
	lookPath   func(string) (string, error)
}

// NewLocator creates a locator over candidate file paths and PATH names
func NewLocator(candidates, names []string) *Locator {
	return &Locator{
		candidates: append([]string(nil), candidates...),
		names:      append([]string(nil), names...),
		lookPath:   exec.LookPath,
	}
}

// DefaultLocator builds the platform search list. configured, when set,
// is tried before anything else.
func DefaultLocator(goos, configured string) *Locator {
	var candidates []string
	if configured != "" {
		candidates = append(candidates, configured)
	}

	if goos != "windows" {
		return NewLocator(candidates, []string{"lp"})
	}

	var dirs []string
	exeDir := ""
	if exe, err := os.Executable(); err == nil {
		exeDir = filepath.Dir(exe)
		dirs = append(dirs, filepath.Join(exeDir, "bin"))
	}
	dirs = append(dirs, ".", `C:\`)
	for _, env := range []string{"ProgramFiles", "ProgramFiles(x86)", "LOCALAPPDATA"} {
		if base := os.Getenv(env); base != "" {
			dirs = append(dirs, filepath.Join(base, "SumatraPDF"))
		}
	}
	if exeDir != "" {
		dirs = append(dirs, exeDir)
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, "Desktop"), filepath.Join(home, "Downloads"))
	}

	for _, dir := range dirs {
		for _, name := range SumatraNames {
			candidates = append(candidates, filepath.Join(dir, name))
		}
	}
	return NewLocator(candidates, SumatraNames)
}

// Candidates returns the ordered file paths checked before PATH
func (l *Locator) Candidates() []string {
	return append([]string(nil), l.candidates...)
}

// Find returns the first existing candidate, else the first PATH match
func (l *Locator) Find() (string, error) {
	searched := make([]string, 0, len(l.candidates)+len(l.names))
	for _, c := range l.candidates {
		searched = append(searched, c)
		info, err := os.Stat(c)
		if err != nil || info.IsDir() {
			continue
		}
		if abs, err := filepath.Abs(c); err == nil {
			return abs, nil
		}
		return c, nil
	}
	for _, name := range l.names {
		searched = append(searched, "PATH:"+name)
		if path, err := l.lookPath(name); err == nil {
			return path, nil
		}
	}
	return "", models.NewPrintError("executable not found", &NotFoundError{Searched: searched})
}
