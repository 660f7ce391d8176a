package fonts

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// mmPerPoint converts PostScript points to millimetres
const mmPerPoint = 25.4 / 72

// Handle is a parsed, immutable font. Its methods are safe for concurrent use.
type Handle struct {
	path string
	data []byte
	font *opentype.Font
	upem sfnt.Units
}

// Parse parses raw font bytes. Only single-face TrueType/OpenType data is
// accepted; collections (.ttc) cannot be embedded and fail here.
func Parse(path string, data []byte) (*Handle, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", path, err)
	}
	upem := f.UnitsPerEm()
	if upem <= 0 {
		return nil, fmt.Errorf("font %s reports invalid units per em: %d", path, upem)
	}
	return &Handle{path: path, data: data, font: f, upem: upem}, nil
}

// Path returns the file the font was loaded from
func (h *Handle) Path() string {
	return h.path
}

// Bytes returns the raw font program for embedding. Callers must not modify it.
func (h *Handle) Bytes() []byte {
	return h.data
}

// Name returns the full font name, or the path when the name table lacks one
func (h *Handle) Name() string {
	var buf sfnt.Buffer
	name, err := h.font.Name(&buf, sfnt.NameIDFull)
	if err != nil || name == "" {
		return h.path
	}
	return name
}

// TextWidth returns the advance width of text set at sizePt, in millimetres.
// Runes without a glyph are measured with the .notdef advance.
func (h *Handle) TextWidth(text string, sizePt float64) float64 {
	var buf sfnt.Buffer
	ppem := fixed.Int26_6(h.upem) << 6

	var units fixed.Int26_6
	for _, r := range text {
		idx, err := h.font.GlyphIndex(&buf, r)
		if err != nil {
			idx = 0
		}
		adv, err := h.font.GlyphAdvance(&buf, idx, ppem, font.HintingNone)
		if err != nil {
			continue
		}
		units += adv
	}

	em := float64(units) / 64 / float64(h.upem)
	return em * sizePt * mmPerPoint
}

// HasGlyph reports whether the font maps r to a real glyph
func (h *Handle) HasGlyph(r rune) bool {
	var buf sfnt.Buffer
	idx, err := h.font.GlyphIndex(&buf, r)
	return err == nil && idx != 0
}
