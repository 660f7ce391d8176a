// Package storage writes generated documents to the local filesystem.
// Writes are all-or-nothing: content goes to a temporary sibling file that is
// renamed over the target only after it has been fully written and synced.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// FileType represents the type of file being stored
type FileType int

const (
	FileTypeGeneric FileType = iota
	FileTypePDF
	FileTypeExcel
	FileTypePNG
)

func (t FileType) String() string {
	switch t {
	case FileTypePDF:
		return "pdf"
	case FileTypeExcel:
		return "xlsx"
	case FileTypePNG:
		return "png"
	default:
		return "generic"
	}
}

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// SaveFileAtomic streams write's output to fullPath and returns the byte count.
	// On any failure neither the target nor a temporary file is left behind.
	SaveFileAtomic(fullPath string, fileType FileType, write func(w io.Writer) error) (int64, error)

	// ValidatePath checks path security (no traversal, within base)
	ValidatePath(fullPath string) error
}

// LocalFileStorage implements FileStorage for the local filesystem.
// An empty baseDir accepts any path.
type LocalFileStorage struct {
	baseDir string
	logger  *zap.Logger
}

// NewLocalFileStorage creates a new LocalFileStorage
func NewLocalFileStorage(baseDir string, logger *zap.Logger) *LocalFileStorage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalFileStorage{
		baseDir: baseDir,
		logger:  logger,
	}
}

// SaveFileAtomic writes through a temporary file and renames it into place
func (s *LocalFileStorage) SaveFileAtomic(fullPath string, fileType FileType, write func(w io.Writer) error) (int64, error) {
	if err := s.ValidatePath(fullPath); err != nil {
		return 0, err
	}

	parentDir := filepath.Dir(fullPath)
	if err := os.MkdirAll(parentDir, 0755); err != nil {
		s.logger.Error("Failed to create parent directories",
			zap.String("path", parentDir),
			zap.Error(err))
		return 0, fmt.Errorf("%w: %v", ErrDirectoryFailure, err)
	}

	tmp, err := os.CreateTemp(parentDir, "."+filepath.Base(fullPath)+".*.tmp")
	if err != nil {
		s.logger.Error("Failed to create temporary file",
			zap.String("dir", parentDir),
			zap.Error(err))
		return 0, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	cw := &countingWriter{w: tmp}
	if err := write(cw); err != nil {
		s.logger.Error("Failed to write file content",
			zap.String("path", fullPath),
			zap.String("file_type", fileType.String()),
			zap.Error(err))
		return 0, fmt.Errorf("%w: %s: %w", ErrWriteFailed, fullPath, err)
	}
	if err := tmp.Sync(); err != nil {
		return 0, fmt.Errorf("%w: sync %s: %v", ErrWriteFailed, tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("%w: close %s: %v", ErrWriteFailed, tmpPath, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return 0, fmt.Errorf("%w: chmod %s: %v", ErrWriteFailed, tmpPath, err)
	}
	if err := os.Rename(tmpPath, fullPath); err != nil {
		s.logger.Error("Failed to move file into place",
			zap.String("path", fullPath),
			zap.Error(err))
		return 0, fmt.Errorf("%w: rename to %s: %v", ErrWriteFailed, fullPath, err)
	}
	committed = true

	s.logger.Debug("File saved successfully",
		zap.String("path", fullPath),
		zap.Int64("size", cw.n),
		zap.String("file_type", fileType.String()))

	return cw.n, nil
}

// ValidatePath checks that the path is non-empty and, when a base directory
// is configured, within it
func (s *LocalFileStorage) ValidatePath(fullPath string) error {
	if strings.TrimSpace(fullPath) == "" {
		return ErrEmptyPath
	}
	if s.baseDir == "" {
		return nil
	}

	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) && absPath != absBase {
		return fmt.Errorf("%w: %s", ErrPathEscapesBase, fullPath)
	}

	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
