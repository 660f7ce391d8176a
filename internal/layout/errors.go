package layout

import "errors"

var (
	ErrCellOverflow   = errors.New("text does not fit its cell")
	ErrMissingMetrics = errors.New("no font metrics for role")
	ErrMissingGlyph   = errors.New("font has no glyph")
)
