package printer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/travel-expense-print/internal/models"
)

func noPath(string) (string, error) { return "", errors.New("not on PATH") }

func TestLocator_Find(t *testing.T) {
	t.Run("empty candidate list is not found", func(t *testing.T) {
		l := NewLocator(nil, nil)
		_, err := l.Find()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrExecutableNotFound)
		assert.True(t, models.IsKind(err, models.KindPrint))
	})

	t.Run("nonexistent candidates are not found and listed", func(t *testing.T) {
		dir := t.TempDir()
		missing := []string{filepath.Join(dir, "a.exe"), filepath.Join(dir, "b.exe")}
		l := NewLocator(missing, []string{"SumatraPDF.exe"})
		l.lookPath = noPath

		_, err := l.Find()

		var nf *NotFoundError
		require.True(t, errors.As(err, &nf))
		assert.Equal(t, append(missing, "PATH:SumatraPDF.exe"), nf.Searched)
		assert.Contains(t, err.Error(), "a.exe")
	})

	t.Run("only existing entry last is still found", func(t *testing.T) {
		dir := t.TempDir()
		last := filepath.Join(dir, "SumatraPDF.exe")
		require.NoError(t, os.WriteFile(last, []byte("x"), 0755))
		l := NewLocator([]string{filepath.Join(dir, "x.exe"), filepath.Join(dir, "y.exe"), last}, nil)

		got, err := l.Find()

		require.NoError(t, err)
		assert.Equal(t, last, got)
	})

	t.Run("first existing entry wins", func(t *testing.T) {
		dir := t.TempDir()
		first := filepath.Join(dir, "first.exe")
		second := filepath.Join(dir, "second.exe")
		require.NoError(t, os.WriteFile(first, []byte("x"), 0755))
		require.NoError(t, os.WriteFile(second, []byte("x"), 0755))

		got, err := NewLocator([]string{first, second}, nil).Find()

		require.NoError(t, err)
		assert.Equal(t, first, got)
	})

	t.Run("directories are skipped", func(t *testing.T) {
		dir := t.TempDir()
		_, err := NewLocator([]string{dir}, nil).Find()
		assert.ErrorIs(t, err, ErrExecutableNotFound)
	})

	t.Run("falls back to PATH", func(t *testing.T) {
		l := NewLocator([]string{filepath.Join(t.TempDir(), "none.exe")}, []string{"SumatraPDF-3.5.2-64.exe", "SumatraPDF.exe"})
		l.lookPath = func(name string) (string, error) {
			if name == "SumatraPDF.exe" {
				return `C:\Tools\SumatraPDF.exe`, nil
			}
			return "", errors.New("not found")
		}

		got, err := l.Find()

		require.NoError(t, err)
		assert.Equal(t, `C:\Tools\SumatraPDF.exe`, got)
	})
}

func TestDefaultLocator(t *testing.T) {
	t.Run("configured path is tried first", func(t *testing.T) {
		l := DefaultLocator("windows", `D:\apps\SumatraPDF.exe`)
		candidates := l.Candidates()
		require.NotEmpty(t, candidates)
		assert.Equal(t, `D:\apps\SumatraPDF.exe`, candidates[0])
		assert.Equal(t, SumatraNames, l.names)
	})

	t.Run("windows searches well-known directories", func(t *testing.T) {
		candidates := DefaultLocator("windows", "").Candidates()
		assert.Contains(t, candidates, filepath.Join(".", "SumatraPDF.exe"))
		assert.Contains(t, candidates, filepath.Join(`C:\`, "SumatraPDF-3.5.2-64.exe"))
	})

	t.Run("other platforms use lp from PATH", func(t *testing.T) {
		l := DefaultLocator("linux", "")
		assert.Empty(t, l.Candidates())
		assert.Equal(t, []string{"lp"}, l.names)
	})
}
