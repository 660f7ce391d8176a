package fonts

import "errors"

var (
	ErrNoCandidates = errors.New("font candidate list is empty")
	ErrNoUsableFont = errors.New("no candidate font could be loaded")
)
