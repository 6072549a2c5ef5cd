// Package molecule implements the molecular graph used by the reaction
// engine: a SMILES parser, hydrogen assignment, simple aromaticity
// perception, and a deterministic canonical SMILES writer.
//
// The reaction rules match substrings of the canonical form, so the writer's
// conventions (see canonical.go) are part of this package's contract.
package molecule

import (
	"fmt"
	"sort"
	"strings"
)

// BondOrder is the multiplicity of a bond.
type BondOrder int

const (
	BondSingle   BondOrder = 1
	BondDouble   BondOrder = 2
	BondTriple   BondOrder = 3
	BondAromatic BondOrder = 4
)

// valence returns the bond's contribution to an atom's valence sum.
// Aromatic bonds count as one; the aromatic π contribution is handled in
// implicitHydrogens.
func (o BondOrder) valence() int {
	if o == BondAromatic {
		return 1
	}
	return int(o)
}

// Atom is a heavy (or explicit hydrogen) atom in the graph.
type Atom struct {
	Index    int
	Symbol   string
	Aromatic bool
	Isotope  int
	Charge   int
	// Hydrogens is the total number of attached implicit hydrogens.
	Hydrogens int
	// Bracket records that the atom was written in brackets in the input.
	Bracket bool
}

// AtomicNumber returns the atom's atomic number, or 0 for unknown symbols.
func (a *Atom) AtomicNumber() int {
	if e, ok := elements[a.Symbol]; ok {
		return e.AtomicNumber
	}
	return 0
}

// Bond connects atoms A and B.
type Bond struct {
	Index int
	A, B  int
	Order BondOrder
}

// Other returns the atom at the opposite end of the bond from atom.
func (b *Bond) Other(atom int) int {
	if b.A == atom {
		return b.B
	}
	return b.A
}

// Molecule is an undirected molecular graph.
type Molecule struct {
	Atoms []*Atom
	Bonds []*Bond
	adj   [][]int // bond indices per atom
}

func newMolecule() *Molecule {
	return &Molecule{}
}

func (m *Molecule) addAtom(a *Atom) int {
	a.Index = len(m.Atoms)
	m.Atoms = append(m.Atoms, a)
	m.adj = append(m.adj, nil)
	return a.Index
}

func (m *Molecule) addBond(a, b int, order BondOrder) (*Bond, error) {
	if a == b {
		return nil, fmt.Errorf("atom %d bonded to itself", a+1)
	}
	if m.BondBetween(a, b) != nil {
		return nil, fmt.Errorf("duplicate bond between atoms %d and %d", a+1, b+1)
	}
	bond := &Bond{Index: len(m.Bonds), A: a, B: b, Order: order}
	m.Bonds = append(m.Bonds, bond)
	m.adj[a] = append(m.adj[a], bond.Index)
	m.adj[b] = append(m.adj[b], bond.Index)
	return bond, nil
}

// BondBetween returns the bond joining a and b, or nil.
func (m *Molecule) BondBetween(a, b int) *Bond {
	for _, bi := range m.adj[a] {
		if m.Bonds[bi].Other(a) == b {
			return m.Bonds[bi]
		}
	}
	return nil
}

// BondsOf returns the bonds incident to atom.
func (m *Molecule) BondsOf(atom int) []*Bond {
	out := make([]*Bond, 0, len(m.adj[atom]))
	for _, bi := range m.adj[atom] {
		out = append(out, m.Bonds[bi])
	}
	return out
}

// Neighbors returns the indices of atoms bonded to atom.
func (m *Molecule) Neighbors(atom int) []int {
	out := make([]int, 0, len(m.adj[atom]))
	for _, bi := range m.adj[atom] {
		out = append(out, m.Bonds[bi].Other(atom))
	}
	return out
}

// Degree returns the number of explicit bonds on atom.
func (m *Molecule) Degree(atom int) int {
	return len(m.adj[atom])
}

// MaxHeavyAtoms bounds the molecules the predictor accepts and the renderer
// draws.  Canonical ranking and layout relaxation grow faster than linearly.
const MaxHeavyAtoms = 250

// HeavyAtomCount returns the number of non-hydrogen atoms.
func (m *Molecule) HeavyAtomCount() int {
	n := 0
	for _, a := range m.Atoms {
		if a.Symbol != "H" {
			n++
		}
	}
	return n
}

func (m *Molecule) valenceSum(atom int) int {
	sum := 0
	for _, bi := range m.adj[atom] {
		sum += m.Bonds[bi].Order.valence()
	}
	return sum
}

// implicitHydrogens returns the hydrogen count an organic-subset atom would
// carry if written without brackets, and false when the bond sum exceeds
// every allowed valence.
func (m *Molecule) implicitHydrogens(atom int) (int, bool) {
	a := m.Atoms[atom]
	e, ok := elements[a.Symbol]
	if !ok || len(e.Valences) == 0 {
		return 0, false
	}
	sum := m.valenceSum(atom)
	for _, v := range e.Valences {
		if sum > v {
			continue
		}
		h := v - sum
		if a.Aromatic && h > 0 {
			// One valence is spent on the aromatic system.
			h--
		}
		return h, true
	}
	return 0, false
}

// ─────────────────────────────────────────────────────────────────────────────
// Ring and component analysis
// ─────────────────────────────────────────────────────────────────────────────

// RingBonds reports, per bond index, whether the bond lies on a cycle.
func (m *Molecule) RingBonds() []bool {
	out := make([]bool, len(m.Bonds))
	for _, b := range m.Bonds {
		out[b.Index] = m.reachableWithout(b.A, b.B, b.Index)
	}
	return out
}

// reachableWithout reports whether to can be reached from from without
// traversing bond skip.
func (m *Molecule) reachableWithout(from, to, skip int) bool {
	seen := make([]bool, len(m.Atoms))
	queue := []int{from}
	seen[from] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, bi := range m.adj[cur] {
			if bi == skip {
				continue
			}
			nxt := m.Bonds[bi].Other(cur)
			if nxt == to {
				return true
			}
			if !seen[nxt] {
				seen[nxt] = true
				queue = append(queue, nxt)
			}
		}
	}
	return false
}

// RingAtoms reports, per atom index, whether the atom lies on a cycle.
func (m *Molecule) RingAtoms() []bool {
	out := make([]bool, len(m.Atoms))
	for bi, inRing := range m.RingBonds() {
		if inRing {
			out[m.Bonds[bi].A] = true
			out[m.Bonds[bi].B] = true
		}
	}
	return out
}

// SmallestRings returns, for every ring bond, the shortest cycle through it,
// deduplicated.  Each ring is an ordered atom cycle.  For the fused and
// isolated ring systems in this domain that is the smallest set of smallest
// rings.
func (m *Molecule) SmallestRings() [][]int {
	ringBond := m.RingBonds()
	seen := map[string]bool{}
	var rings [][]int
	for _, b := range m.Bonds {
		if !ringBond[b.Index] {
			continue
		}
		path := m.shortestPathWithout(b.A, b.B, b.Index)
		if path == nil {
			continue
		}
		key := ringKey(path)
		if seen[key] {
			continue
		}
		seen[key] = true
		rings = append(rings, path)
	}
	sort.SliceStable(rings, func(i, j int) bool { return len(rings[i]) < len(rings[j]) })
	return rings
}

func (m *Molecule) shortestPathWithout(from, to, skip int) []int {
	prev := make([]int, len(m.Atoms))
	for i := range prev {
		prev[i] = -2
	}
	prev[from] = -1
	queue := []int{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == to {
			break
		}
		for _, bi := range m.adj[cur] {
			if bi == skip {
				continue
			}
			nxt := m.Bonds[bi].Other(cur)
			if prev[nxt] == -2 {
				prev[nxt] = cur
				queue = append(queue, nxt)
			}
		}
	}
	if prev[to] == -2 {
		return nil
	}
	var path []int
	for cur := to; cur != -1; cur = prev[cur] {
		path = append(path, cur)
	}
	return path
}

func ringKey(path []int) string {
	sorted := append([]int(nil), path...)
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, v := range sorted {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ",")
}

// Components returns the connected components as atom index lists, each in
// ascending index order.
func (m *Molecule) Components() [][]int {
	seen := make([]bool, len(m.Atoms))
	var comps [][]int
	for start := range m.Atoms {
		if seen[start] {
			continue
		}
		var comp []int
		stack := []int{start}
		seen[start] = true
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp = append(comp, cur)
			for _, nb := range m.Neighbors(cur) {
				if !seen[nb] {
					seen[nb] = true
					stack = append(stack, nb)
				}
			}
		}
		sort.Ints(comp)
		comps = append(comps, comp)
	}
	return comps
}

// ─────────────────────────────────────────────────────────────────────────────
// Descriptors
// ─────────────────────────────────────────────────────────────────────────────

// Formula returns the molecular formula in Hill order: C, then H, then the
// remaining elements alphabetically.  Without carbon every element, H
// included, is alphabetical.  A net charge is appended as "+", "2-", etc.
func (m *Molecule) Formula() string {
	counts := map[string]int{}
	charge := 0
	for _, a := range m.Atoms {
		counts[a.Symbol]++
		counts["H"] += a.Hydrogens
		charge += a.Charge
	}
	if counts["H"] == 0 {
		delete(counts, "H")
	}

	var order []string
	if counts["C"] > 0 {
		order = append(order, "C")
		if counts["H"] > 0 {
			order = append(order, "H")
		}
	}
	var rest []string
	for sym := range counts {
		if counts["C"] > 0 && (sym == "C" || sym == "H") {
			continue
		}
		rest = append(rest, sym)
	}
	sort.Strings(rest)
	order = append(order, rest...)

	var sb strings.Builder
	for _, sym := range order {
		sb.WriteString(sym)
		if n := counts[sym]; n > 1 {
			fmt.Fprintf(&sb, "%d", n)
		}
	}
	switch {
	case charge == 1:
		sb.WriteString("+")
	case charge == -1:
		sb.WriteString("-")
	case charge > 1:
		fmt.Fprintf(&sb, "%d+", charge)
	case charge < -1:
		fmt.Fprintf(&sb, "%d-", -charge)
	}
	return sb.String()
}

// MolecularWeight returns the average molecular mass in g/mol.
func (m *Molecule) MolecularWeight() float64 {
	h := elements["H"].Mass
	total := 0.0
	for _, a := range m.Atoms {
		total += elements[a.Symbol].Mass
		total += float64(a.Hydrogens) * h
	}
	return total
}

//Personal.AI order the ending
