package model

import "math"

// Geometry is the bounding box of a heading together with the dimensions of
// the page that owns it. Coordinates follow the PDF convention (origin at the
// bottom-left, Y increasing upward).
type Geometry struct {
	X0 float64 `json:"x0"` // Left
	Y0 float64 `json:"y0"` // Bottom
	X1 float64 `json:"x1"` // Right
	Y1 float64 `json:"y1"` // Top

	PageWidth  float64 `json:"page_width"`
	PageHeight float64 `json:"page_height"`
}

// NewGeometry creates a geometry from two corners and the page size.
// The corners may be given in any order.
func NewGeometry(x0, y0, x1, y1, pageWidth, pageHeight float64) *Geometry {
	return &Geometry{
		X0:         math.Min(x0, x1),
		Y0:         math.Min(y0, y1),
		X1:         math.Max(x0, x1),
		Y1:         math.Max(y0, y1),
		PageWidth:  pageWidth,
		PageHeight: pageHeight,
	}
}

// Usable reports whether the geometry can drive positional heuristics:
// it must be present and carry positive page dimensions.
func (g *Geometry) Usable() bool {
	return g != nil && g.PageWidth > 0 && g.PageHeight > 0
}

// Width returns the horizontal extent of the box
func (g *Geometry) Width() float64 {
	return math.Abs(g.X1 - g.X0)
}

// Height returns the vertical extent of the box
func (g *Geometry) Height() float64 {
	return math.Abs(g.Y1 - g.Y0)
}

// CenterX returns the horizontal center of the box
func (g *Geometry) CenterX() float64 {
	return (g.X0 + g.X1) / 2
}

// Top returns the upper edge of the box (the larger Y value)
func (g *Geometry) Top() float64 {
	return math.Max(g.Y0, g.Y1)
}

// IsCentered reports whether the horizontal center of the box lies within
// tolerance*PageWidth of the page center. Returns false when the geometry is
// not usable.
func (g *Geometry) IsCentered(tolerance float64) bool {
	if !g.Usable() {
		return false
	}
	return math.Abs(g.CenterX()-g.PageWidth/2) < g.PageWidth*tolerance
}

// IsInTopBand reports whether the top edge of the box lies in the top
// fraction of the page. Returns false when the geometry is not usable.
func (g *Geometry) IsInTopBand(fraction float64) bool {
	if !g.Usable() {
		return false
	}
	return g.Top() > g.PageHeight*(1-fraction)
}

// finite reports whether every coordinate is a finite number
func (g *Geometry) finite() bool {
	for _, v := range []float64{g.X0, g.Y0, g.X1, g.Y1, g.PageWidth, g.PageHeight} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
