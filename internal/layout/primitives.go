package layout

import (
	"github.com/garyjia/travel-expense-print/internal/fonts"
)

// OpKind identifies a drawing primitive
type OpKind int

const (
	OpLineWidth OpKind = iota // set stroke width for following lines and boxes
	OpLine                    // straight line (X1,Y1)-(X2,Y2)
	OpRect                    // stroked box with lower-left (X1,Y1), upper-right (X2,Y2)
	OpText                    // text run with its baseline starting at (X1,Y1)
)

func (k OpKind) String() string {
	switch k {
	case OpLineWidth:
		return "line-width"
	case OpLine:
		return "line"
	case OpRect:
		return "rect"
	case OpText:
		return "text"
	default:
		return "unknown"
	}
}

// Primitive is one page-drawing operation
type Primitive struct {
	Kind   OpKind
	X1, Y1 float64
	X2, Y2 float64
	Width  float64    // OpLineWidth
	Text   string     // OpText
	Role   fonts.Role // OpText
	Size   float64    // OpText, points
}

// Page is the primitive sequence of one printed page
type Page struct {
	Number int // 1-based within its item
	Total  int
	Ops    []Primitive
}

// canvas accumulates primitives in emission order
type canvas struct {
	ops []Primitive
}

func (c *canvas) lineWidth(w float64) {
	c.ops = append(c.ops, Primitive{Kind: OpLineWidth, Width: w})
}

func (c *canvas) line(x1, y1, x2, y2 float64) {
	c.ops = append(c.ops, Primitive{Kind: OpLine, X1: x1, Y1: y1, X2: x2, Y2: y2})
}

func (c *canvas) rect(r Rect) {
	c.ops = append(c.ops, Primitive{Kind: OpRect, X1: r.X, Y1: r.Y, X2: r.Right(), Y2: r.Top()})
}

func (c *canvas) text(role fonts.Role, size, x, y float64, s string) {
	c.ops = append(c.ops, Primitive{Kind: OpText, X1: x, Y1: y, Text: s, Role: role, Size: size})
}
