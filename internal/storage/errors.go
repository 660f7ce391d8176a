package storage

import "errors"

var (
	ErrEmptyPath        = errors.New("empty file path")
	ErrPathEscapesBase  = errors.New("path escapes base directory")
	ErrWriteFailed      = errors.New("failed to write file")
	ErrDirectoryFailure = errors.New("failed to create directories")
)
