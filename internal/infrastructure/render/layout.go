package render

import (
	"math"
	"sort"

	"github.com/turtacn/ReactionLab/internal/domain/molecule"
)

// Point is a 2D coordinate in bond-length units.
type Point struct {
	X, Y float64
}

func (p Point) add(q Point) Point     { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) sub(q Point) Point     { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) scale(f float64) Point { return Point{p.X * f, p.Y * f} }
func (p Point) length() float64       { return math.Hypot(p.X, p.Y) }
func polar(angle float64) Point       { return Point{math.Cos(angle), math.Sin(angle)} }
func angleOf(from, to Point) float64  { return math.Atan2(to.Y-from.Y, to.X-from.X) }
func midpoint(p, q Point) Point       { return Point{(p.X + q.X) / 2, (p.Y + q.Y) / 2} }
func perpendicular(p Point) Point     { return Point{-p.Y, p.X} }
func normalized(p Point) Point {
	l := p.length()
	if l == 0 {
		return Point{1, 0}
	}
	return p.scale(1 / l)
}

const (
	chainAngle       = 2 * math.Pi / 3
	relaxIterations  = 60
	relaxStep        = 0.05
	minNonBondedDist = 0.9
	componentGap     = 1.5
)

// layout assigns 2D coordinates to every atom of a molecule.
type layout struct {
	mol    *molecule.Molecule
	pos    []Point
	placed []bool
	rings  [][]int
	ringOf [][]int // ring indices per atom
	flip   []bool  // zig-zag direction for chain atoms
	compOf []int
	cur    int
}

// Layout computes coordinates for m.  Ring atoms sit on regular polygons,
// chains follow a 120° zig-zag, disconnected components are laid out side
// by side, and a short relaxation pushes apart non-bonded atoms that landed
// too close together.
func Layout(m *molecule.Molecule) []Point {
	l := &layout{
		mol:    m,
		pos:    make([]Point, len(m.Atoms)),
		placed: make([]bool, len(m.Atoms)),
		rings:  m.SmallestRings(),
		ringOf: make([][]int, len(m.Atoms)),
		flip:   make([]bool, len(m.Atoms)),
		compOf: make([]int, len(m.Atoms)),
	}
	for ri, ring := range l.rings {
		for _, a := range ring {
			l.ringOf[a] = append(l.ringOf[a], ri)
		}
	}

	offsetX := 0.0
	for ci, comp := range m.Components() {
		l.cur = ci
		for _, a := range comp {
			l.compOf[a] = ci
		}
		start := l.startAtom(comp)
		l.pos[start] = Point{}
		l.placed[start] = true
		if len(l.ringOf[start]) > 0 {
			l.placeRingSystem(start, -math.Pi/2)
		}
		l.grow(start)

		minX, maxX := math.Inf(1), math.Inf(-1)
		for _, a := range comp {
			minX = math.Min(minX, l.pos[a].X)
			maxX = math.Max(maxX, l.pos[a].X)
		}
		shift := offsetX - minX
		for _, a := range comp {
			l.pos[a].X += shift
		}
		offsetX += maxX - minX + componentGap
	}

	l.relax()
	return l.pos
}

// startAtom prefers a ring atom so ring systems anchor the drawing, then the
// lowest-degree atom so chains start at an end.
func (l *layout) startAtom(comp []int) int {
	best := comp[0]
	for _, a := range comp {
		if len(l.ringOf[a]) > 0 {
			return a
		}
		if l.mol.Degree(a) < l.mol.Degree(best) {
			best = a
		}
	}
	return best
}

// grow places every unplaced atom reachable from root, breadth first.
func (l *layout) grow(root int) {
	visited := make([]bool, len(l.pos))
	visited[root] = true
	queue := []int{root}
	for len(queue) > 0 {
		a := queue[0]
		queue = queue[1:]

		var pending []int
		for _, n := range l.mol.Neighbors(a) {
			if !l.placed[n] {
				pending = append(pending, n)
			}
		}
		sort.Ints(pending)
		for i, n := range pending {
			angle := l.freeAngle(a, i, len(pending))
			l.pos[n] = l.pos[a].add(polar(angle))
			l.placed[n] = true
			l.flip[n] = !l.flip[a]
			if len(l.ringOf[n]) > 0 {
				l.placeRingSystem(n, angle)
			}
		}
		for _, n := range l.mol.Neighbors(a) {
			if !visited[n] {
				visited[n] = true
				queue = append(queue, n)
			}
		}
	}
}

// freeAngle picks the direction for the i-th of n new substituents of atom a.
func (l *layout) freeAngle(a, i, n int) float64 {
	var used []float64
	for _, nb := range l.mol.Neighbors(a) {
		if l.placed[nb] {
			used = append(used, angleOf(l.pos[a], l.pos[nb]))
		}
	}

	switch len(used) {
	case 0:
		base := -math.Pi / 6
		return base + float64(i)*2*math.Pi/float64(maxInt(n, 1))
	case 1:
		if n == 1 {
			if l.flip[a] {
				return used[0] - chainAngle
			}
			return used[0] + chainAngle
		}
		step := 2 * math.Pi / float64(n+1)
		return used[0] + step*float64(i+1)
	}

	// Several placed neighbours: spread new bonds across the widest gap.
	sort.Float64s(used)
	gapStart, gapSize := 0.0, -1.0
	for k := range used {
		next := used[(k+1)%len(used)]
		if k == len(used)-1 {
			next += 2 * math.Pi
		}
		if g := next - used[k]; g > gapSize {
			gapStart, gapSize = used[k], g
		}
	}
	return gapStart + gapSize*float64(i+1)/float64(n+1)
}

// placeRingSystem lays out every ring containing anchor, then any ring fused
// to those, building each polygon on the side away from its placed atoms.
// outward is the direction the bond into anchor was travelling.
func (l *layout) placeRingSystem(anchor int, outward float64) {
	done := map[int]bool{}
	queue := append([]int(nil), l.ringOf[anchor]...)
	for len(queue) > 0 {
		ri := queue[0]
		queue = queue[1:]
		if done[ri] {
			continue
		}
		done[ri] = true
		l.placeRing(l.rings[ri], outward)
		for _, a := range l.rings[ri] {
			for _, other := range l.ringOf[a] {
				if !done[other] {
					queue = append(queue, other)
				}
			}
		}
	}
}

func (l *layout) placeRing(ring []int, outward float64) {
	n := len(ring)
	radius := 1 / (2 * math.Sin(math.Pi/float64(n)))
	step := 2 * math.Pi / float64(n)
	ring = orderCycle(l.mol, ring)

	// Find a run of placed atoms to hinge the polygon on.
	var fixed []int
	for i, a := range ring {
		if l.placed[a] {
			fixed = append(fixed, i)
		}
	}
	if len(fixed) == n {
		return
	}

	var center Point
	var startIdx int
	var startAngle float64
	dir := 1.0

	if i, j, ok := adjacentPlaced(ring, fixed, l.placed); ok {
		// Fused: the shared edge i-j is reused and the centre goes on the
		// side of the edge away from atoms already drawn.
		p, q := l.pos[ring[i]], l.pos[ring[j]]
		mid := midpoint(p, q)
		normal := normalized(perpendicular(q.sub(p)))
		apothem := radius * math.Cos(math.Pi/float64(n))
		c1, c2 := mid.add(normal.scale(apothem)), mid.add(normal.scale(-apothem))
		if l.crowding(c1) <= l.crowding(c2) {
			center = c1
		} else {
			center = c2
		}
		startIdx = i
		startAngle = angleOf(center, p)
		if math.Abs(angleDiff(startAngle+step, angleOf(center, q))) > 1e-6 {
			dir = -1
		}
	} else {
		// Isolated or spiro: hang the polygon off the single placed atom.
		startIdx = fixed[0]
		anchor := l.pos[ring[startIdx]]
		center = anchor.add(polar(outward).scale(radius))
		startAngle = outward + math.Pi
	}

	for k := 0; k < n; k++ {
		a := ring[(startIdx+k)%n]
		if l.placed[a] {
			continue
		}
		l.pos[a] = center.add(polar(startAngle + dir*step*float64(k)).scale(radius))
		l.placed[a] = true
	}
}

// crowding scores how many placed atoms lie near p.
func (l *layout) crowding(p Point) float64 {
	score := 0.0
	for a, ok := range l.placed {
		if !ok || l.compOf[a] != l.cur {
			continue
		}
		d := l.pos[a].sub(p).length()
		if d < 2 {
			score += 2 - d
		}
	}
	return score
}

// relax nudges apart non-bonded atoms that sit closer than one bond length
// while springs keep bonded atoms at unit distance.
func (l *layout) relax() {
	n := len(l.pos)
	if n < 3 {
		return
	}
	for it := 0; it < relaxIterations; it++ {
		force := make([]Point, n)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if l.compOf[i] != l.compOf[j] {
					continue
				}
				d := l.pos[j].sub(l.pos[i])
				dist := d.length()
				bonded := l.mol.BondBetween(i, j) != nil
				var f float64
				switch {
				case bonded:
					f = dist - 1
				case dist < minNonBondedDist:
					f = dist - minNonBondedDist
				default:
					continue
				}
				push := normalized(d).scale(f * relaxStep)
				force[i] = force[i].add(push)
				force[j] = force[j].sub(push)
			}
		}
		for i := range l.pos {
			l.pos[i] = l.pos[i].add(force[i])
		}
	}
}

// orderCycle returns ring as a walk around the cycle.
func orderCycle(m *molecule.Molecule, ring []int) []int {
	in := make(map[int]bool, len(ring))
	for _, a := range ring {
		in[a] = true
	}
	seen := map[int]bool{ring[0]: true}
	out := []int{ring[0]}
	for cur := ring[0]; len(out) < len(ring); {
		next := -1
		for _, nb := range m.Neighbors(cur) {
			if in[nb] && !seen[nb] {
				next = nb
				break
			}
		}
		if next < 0 {
			return ring
		}
		seen[next] = true
		out = append(out, next)
		cur = next
	}
	return out
}

// adjacentPlaced finds two placed atoms that are neighbours on the cycle.
func adjacentPlaced(ring []int, fixed []int, placed []bool) (int, int, bool) {
	n := len(ring)
	for _, i := range fixed {
		j := (i + 1) % n
		if placed[ring[j]] {
			return i, j, true
		}
	}
	return 0, 0, false
}

func angleDiff(a, b float64) float64 {
	d := math.Mod(a-b, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	}
	if d < -math.Pi {
		d += 2 * math.Pi
	}
	return d
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

//Personal.AI order the ending
