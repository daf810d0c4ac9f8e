package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/c360studio/slidegraph/vocabulary"
)

// Geometry is a spatial annotation target. Encode produces the text
// stored on the fragment selector; Standard names the encoding so a
// consumer knows which parser to apply.
type Geometry interface {
	Encode() string
	Standard() string
}

// Point is a pixel coordinate on the slide.
type Point struct {
	X, Y int64
}

// Polygon is an explicit point sequence. Callers close the ring
// themselves by repeating the first point; a single point is legal.
type Polygon []Point

// Encode renders the polygon as an inline SVG marker, for example
// <polygon points=1,1 1,0 0,0 />.
func (p Polygon) Encode() string {
	pairs := make([]string, len(p))
	for i, pt := range p {
		pairs[i] = fmt.Sprintf("%d,%d", pt.X, pt.Y)
	}
	return fmt.Sprintf("<polygon points=%s />", strings.Join(pairs, " "))
}

// Standard returns the SVG specification IRI.
func (Polygon) Standard() string {
	return vocabulary.SVGStandard
}

// Box is an axis-aligned rectangle in pixel coordinates.
type Box struct {
	MinX, MinY, MaxX, MaxY float64
}

// Encode renders the box as a well-known-text polygon. The ring starts
// at (maxx, miny), runs counter-clockwise and is closed by repeating
// the first point: POLYGON ((3 2, 3 4, 1 4, 1 2, 3 2)).
func (b Box) Encode() string {
	return fmt.Sprintf("POLYGON ((%s %s, %s %s, %s %s, %s %s, %s %s))",
		coord(b.MaxX), coord(b.MinY),
		coord(b.MaxX), coord(b.MaxY),
		coord(b.MinX), coord(b.MaxY),
		coord(b.MinX), coord(b.MinY),
		coord(b.MaxX), coord(b.MinY))
}

// Standard returns the OGC well-known-text IRI.
func (Box) Standard() string {
	return vocabulary.WKTStandard
}

// coord prints a coordinate in the shortest decimal form that
// round-trips, never scientific notation.
func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
