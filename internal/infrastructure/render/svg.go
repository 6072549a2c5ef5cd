// Package render draws molecular structures as SVG for the prediction page.
package render

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/turtacn/ReactionLab/internal/domain/molecule"
	"github.com/turtacn/ReactionLab/internal/domain/reaction"
)

const (
	DefaultWidth  = 300
	DefaultHeight = 200

	margin       = 20.0
	maxBondPx    = 40.0
	labelClear   = 9.0
	bondSpacing  = 5.0
	innerShorten = 0.15
	fontSize     = 14
)

var labelColors = map[string]string{
	"O":  "#E00000",
	"N":  "#0000E0",
	"S":  "#C8B400",
	"P":  "#FF8000",
	"F":  "#00A000",
	"Cl": "#00A000",
	"Br": "#00A000",
	"I":  "#00A000",
}

const (
	bondStyle   = "stroke:#000000;stroke-width:2;stroke-linecap:round"
	dashedStyle = "stroke:#000000;stroke-width:2;stroke-linecap:round;stroke-dasharray:4,3"
)

// Placeholder is the markup returned for input that cannot be drawn.
func Placeholder(input string) string {
	return fmt.Sprintf("<div class='text-danger'>Could not parse: %s</div>", html.EscapeString(input))
}

// Renderer draws structures at a fixed canvas size.
type Renderer struct {
	width, height int
}

// NewRenderer returns a Renderer; non-positive sizes fall back to 300×200.
func NewRenderer(width, height int) *Renderer {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Renderer{width: width, height: height}
}

// Size returns the canvas dimensions.
func (r *Renderer) Size() (int, int) { return r.width, r.height }

// Render draws input, read first as SMILES and then as a catalog name.
// It never fails: unreadable input yields the Placeholder markup.
func (r *Renderer) Render(_ context.Context, input string) string {
	m, err := molecule.Parse(input)
	if err != nil {
		smiles, ok := reaction.LookupCompound(input)
		if !ok {
			return Placeholder(input)
		}
		if m, err = molecule.Parse(smiles); err != nil {
			return Placeholder(input)
		}
	}
	if m.HeavyAtomCount() > molecule.MaxHeavyAtoms {
		return Placeholder(input)
	}
	return r.Draw(m)
}

// Draw renders m as an inline <svg> element, without the XML prolog.
func (r *Renderer) Draw(m *molecule.Molecule) string {
	pos := Layout(m)
	px := r.fit(pos)

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(r.width, r.height)
	canvas.Rect(0, 0, r.width, r.height, "fill:#FFFFFF")

	labels := make([]string, len(m.Atoms))
	single := len(m.Atoms) == 1
	for i, a := range m.Atoms {
		labels[i] = atomLabel(a, single)
	}

	rings := m.SmallestRings()
	canvas.Gid("bonds")
	for _, b := range m.Bonds {
		p, q := px[b.A], px[b.B]
		if labels[b.A] != "" {
			p = toward(p, q, labelClear)
		}
		if labels[b.B] != "" {
			q = toward(q, p, labelClear)
		}
		drawBond(canvas, b, p, q, ringCenter(rings, px, b))
	}
	canvas.Gend()

	canvas.Gid("atoms")
	for i, label := range labels {
		if label == "" {
			continue
		}
		color, ok := labelColors[m.Atoms[i].Symbol]
		if !ok {
			color = "#000000"
		}
		x, y := round(px[i].X), round(px[i].Y)
		canvas.Text(x, y+fontSize/3, label, fmt.Sprintf(
			"font-family:sans-serif;font-size:%dpx;text-anchor:middle;fill:%s", fontSize, color))
	}
	canvas.Gend()
	canvas.End()
	return inline(buf.String())
}

// inline drops the XML declaration and generator comment svgo writes ahead
// of the root element, so the markup can be set as innerHTML.
func inline(doc string) string {
	if i := strings.Index(doc, "<svg"); i > 0 {
		return doc[i:]
	}
	return doc
}

// fit scales bond-unit coordinates into the canvas, centred, with bonds no
// longer than maxBondPx.
func (r *Renderer) fit(pos []Point) []Point {
	out := make([]Point, len(pos))
	if len(pos) == 0 {
		return out
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pos {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	scale := maxBondPx
	if w := maxX - minX; w > 0 {
		scale = math.Min(scale, (float64(r.width)-2*margin)/w)
	}
	if h := maxY - minY; h > 0 {
		scale = math.Min(scale, (float64(r.height)-2*margin)/h)
	}
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	for i, p := range pos {
		out[i] = Point{
			X: float64(r.width)/2 + (p.X-cx)*scale,
			Y: float64(r.height)/2 + (p.Y-cy)*scale,
		}
	}
	return out
}

// atomLabel returns the text drawn at an atom, or "" for a plain carbon.
func atomLabel(a *molecule.Atom, single bool) string {
	if a.Symbol == "C" && a.Charge == 0 && a.Isotope == 0 && !single {
		return ""
	}
	label := a.Symbol
	if a.Isotope > 0 {
		label = strconv.Itoa(a.Isotope) + label
	}
	switch {
	case a.Hydrogens == 1:
		label += "H"
	case a.Hydrogens > 1:
		label += "H" + strconv.Itoa(a.Hydrogens)
	}
	switch {
	case a.Charge == 1:
		label += "+"
	case a.Charge == -1:
		label += "-"
	case a.Charge > 1:
		label += strconv.Itoa(a.Charge) + "+"
	case a.Charge < -1:
		label += strconv.Itoa(-a.Charge) + "-"
	}
	return label
}

func drawBond(canvas *svg.SVG, b *molecule.Bond, p, q Point, center *Point) {
	line := func(a, c Point, style string) {
		canvas.Line(round(a.X), round(a.Y), round(c.X), round(c.Y), style)
	}
	offset := normalized(perpendicular(q.sub(p))).scale(bondSpacing)

	switch b.Order {
	case molecule.BondDouble, molecule.BondAromatic:
		style := bondStyle
		if b.Order == molecule.BondAromatic {
			style = dashedStyle
		}
		if center != nil {
			// Ring bond: the second line sits inside the ring and is shorter.
			line(p, q, bondStyle)
			mid := midpoint(p, q)
			if center.sub(mid.add(offset)).length() > center.sub(mid.sub(offset)).length() {
				offset = offset.scale(-1)
			}
			d := q.sub(p).scale(innerShorten)
			line(p.add(offset).add(d), q.add(offset).sub(d), style)
			return
		}
		half := offset.scale(0.5)
		line(p.add(half), q.add(half), bondStyle)
		line(p.sub(half), q.sub(half), style)
	case molecule.BondTriple:
		line(p, q, bondStyle)
		line(p.add(offset), q.add(offset), bondStyle)
		line(p.sub(offset), q.sub(offset), bondStyle)
	default:
		line(p, q, bondStyle)
	}
}

// ringCenter returns the centroid of the smallest ring containing b.
func ringCenter(rings [][]int, px []Point, b *molecule.Bond) *Point {
	for _, ring := range rings {
		hasA, hasB := false, false
		for _, a := range ring {
			hasA = hasA || a == b.A
			hasB = hasB || a == b.B
		}
		if !hasA || !hasB {
			continue
		}
		var c Point
		for _, a := range ring {
			c = c.add(px[a])
		}
		c = c.scale(1 / float64(len(ring)))
		return &c
	}
	return nil
}

// toward moves p by dist along the segment to q, never past its midpoint.
func toward(p, q Point, dist float64) Point {
	d := q.sub(p)
	l := d.length()
	if l == 0 {
		return p
	}
	dist = math.Min(dist, l/2)
	return p.add(d.scale(dist / l))
}

func round(v float64) int { return int(math.Round(v)) }

//Personal.AI order the ending
