package pdf

import "errors"

var (
	ErrNoItems     = errors.New("no items to render")
	ErrNoPrinter   = errors.New("no printer configured")
	ErrEmptyOutput = errors.New("serializer produced no output")
)
