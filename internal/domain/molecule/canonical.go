package molecule

import (
	"fmt"
	"sort"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// Canonical ranking
//
// Atoms are ordered by the invariant
//
//	(heavy degree, atomic number, aromatic, isotope, charge, hydrogens, in ring)
//
// and ties are refined by the sorted ranks of bonded neighbours until the
// partition is stable.  Remaining ties (symmetry-equivalent atoms) are broken
// by promoting the lowest-index atom of the lowest tied class and refining
// again.  Output depends only on the graph, never on input atom order.
// ─────────────────────────────────────────────────────────────────────────────

type invariant [7]int

func (m *Molecule) invariants() []invariant {
	inRing := m.RingAtoms()
	out := make([]invariant, len(m.Atoms))
	for i, a := range m.Atoms {
		arom, ring := 0, 0
		if a.Aromatic {
			arom = 1
		}
		if inRing[i] {
			ring = 1
		}
		out[i] = invariant{m.Degree(i), a.AtomicNumber(), arom, a.Isotope, a.Charge, a.Hydrogens, ring}
	}
	return out
}

// rankBy assigns each atom the number of atoms whose key sorts strictly
// before its own, so tied atoms share a rank.
func rankBy(n int, less func(a, b int) bool) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return less(idx[i], idx[j]) })
	ranks := make([]int, n)
	for pos, atom := range idx {
		if pos > 0 && !less(idx[pos-1], atom) {
			ranks[atom] = ranks[idx[pos-1]]
		} else {
			ranks[atom] = pos
		}
	}
	return ranks
}

func distinct(ranks []int) int {
	seen := map[int]bool{}
	for _, r := range ranks {
		seen[r] = true
	}
	return len(seen)
}

// refine splits tied ranks using neighbour ranks and bond orders until the
// number of classes stops growing.
func (m *Molecule) refine(ranks []int) []int {
	for {
		keys := make([][]int, len(m.Atoms))
		for i := range m.Atoms {
			var nk []int
			for _, b := range m.BondsOf(i) {
				nk = append(nk, ranks[b.Other(i)]*8+int(b.Order))
			}
			sort.Ints(nk)
			keys[i] = nk
		}
		next := rankBy(len(m.Atoms), func(a, b int) bool {
			if ranks[a] != ranks[b] {
				return ranks[a] < ranks[b]
			}
			ka, kb := keys[a], keys[b]
			for k := 0; k < len(ka) && k < len(kb); k++ {
				if ka[k] != kb[k] {
					return ka[k] < kb[k]
				}
			}
			return len(ka) < len(kb)
		})
		if distinct(next) == distinct(ranks) {
			return next
		}
		ranks = next
	}
}

// CanonicalRanks returns a total order over the atoms: a permutation of
// 0..n-1 where equal graphs yield equal rank assignments up to symmetry.
func (m *Molecule) CanonicalRanks() []int {
	n := len(m.Atoms)
	inv := m.invariants()
	ranks := rankBy(n, func(a, b int) bool {
		for k := range inv[a] {
			if inv[a][k] != inv[b][k] {
				return inv[a][k] < inv[b][k]
			}
		}
		return false
	})
	ranks = m.refine(ranks)

	for distinct(ranks) < n {
		// Lowest rank value shared by more than one atom.
		count := map[int]int{}
		for _, r := range ranks {
			count[r]++
		}
		tied := -1
		for _, r := range ranks {
			if count[r] > 1 && (tied < 0 || r < tied) {
				tied = r
			}
		}
		chosen := -1
		for i, r := range ranks {
			if r == tied {
				chosen = i
				break
			}
		}
		broken := make([]int, n)
		for i, r := range ranks {
			broken[i] = r * 2
		}
		broken[chosen]--
		ranks = m.refine(rankBy(n, func(a, b int) bool { return broken[a] < broken[b] }))
	}
	return ranks
}

// ─────────────────────────────────────────────────────────────────────────────
// Canonical SMILES writer
// ─────────────────────────────────────────────────────────────────────────────

type closure struct {
	bond    int
	partner int
}

type treeEdge struct {
	child int
	bond  int
}

type writer struct {
	m     *Molecule
	ranks []int

	visited  []bool
	usedBond []bool
	children [][]treeEdge
	opens    [][]closure
	closes   [][]closure

	digits map[int]int // bond index → ring digit
	inUse  map[int]bool
	sb     strings.Builder
}

// Canonical returns the canonical SMILES of m.
//
// Conventions:
//   - each component is written depth-first from its lowest-ranked atom,
//     visiting neighbours in ascending rank; all children but the last are
//     parenthesised branches;
//   - ring closures take the lowest free digit and the bond symbol is
//     written on the closing atom;
//   - single and aromatic bonds are implicit ('-' only between two aromatic
//     atoms); '=' and '#' are explicit; stereo is not written;
//   - components are joined with '.' largest first, ties lexically.
func Canonical(m *Molecule) string {
	if m == nil || len(m.Atoms) == 0 {
		return ""
	}
	ranks := m.CanonicalRanks()

	type part struct {
		atoms int
		text  string
	}
	var parts []part
	for _, comp := range m.Components() {
		w := &writer{
			m:        m,
			ranks:    ranks,
			visited:  make([]bool, len(m.Atoms)),
			usedBond: make([]bool, len(m.Bonds)),
			children: make([][]treeEdge, len(m.Atoms)),
			opens:    make([][]closure, len(m.Atoms)),
			closes:   make([][]closure, len(m.Atoms)),
			digits:   map[int]int{},
			inUse:    map[int]bool{},
		}
		start := comp[0]
		for _, a := range comp {
			if ranks[a] < ranks[start] {
				start = a
			}
		}
		w.buildTree(start, -1)
		w.write(start)
		parts = append(parts, part{atoms: len(comp), text: w.sb.String()})
	}

	sort.SliceStable(parts, func(i, j int) bool {
		if parts[i].atoms != parts[j].atoms {
			return parts[i].atoms > parts[j].atoms
		}
		return parts[i].text < parts[j].text
	})
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = p.text
	}
	return strings.Join(out, ".")
}

// CanonicalSMILES parses text and returns its canonical form.
func CanonicalSMILES(text string) (string, error) {
	m, err := Parse(text)
	if err != nil {
		return "", err
	}
	return Canonical(m), nil
}

func (w *writer) sortedBonds(atom int) []*Bond {
	bonds := w.m.BondsOf(atom)
	sort.SliceStable(bonds, func(i, j int) bool {
		return w.ranks[bonds[i].Other(atom)] < w.ranks[bonds[j].Other(atom)]
	})
	return bonds
}

// buildTree performs the DFS that fixes the spanning tree and the ring
// closure bonds.  A closure is opened on the ancestor and closed on the
// descendant that discovers it.
func (w *writer) buildTree(atom, parentBond int) {
	w.visited[atom] = true
	for _, b := range w.sortedBonds(atom) {
		if b.Index == parentBond || w.usedBond[b.Index] {
			continue
		}
		other := b.Other(atom)
		w.usedBond[b.Index] = true
		if w.visited[other] {
			w.opens[other] = append(w.opens[other], closure{bond: b.Index, partner: atom})
			w.closes[atom] = append(w.closes[atom], closure{bond: b.Index, partner: other})
			continue
		}
		w.children[atom] = append(w.children[atom], treeEdge{child: other, bond: b.Index})
		w.buildTree(other, b.Index)
	}
}

func (w *writer) write(atom int) {
	w.sb.WriteString(w.atomSymbol(atom))

	for _, c := range w.closes[atom] {
		d := w.digits[c.bond]
		w.sb.WriteString(w.bondSymbol(w.m.Bonds[c.bond]))
		w.sb.WriteString(ringDigit(d))
		delete(w.inUse, d)
	}
	for _, c := range w.opens[atom] {
		d := 1
		for w.inUse[d] {
			d++
		}
		w.inUse[d] = true
		w.digits[c.bond] = d
		w.sb.WriteString(ringDigit(d))
	}

	kids := w.children[atom]
	for i, e := range kids {
		last := i == len(kids)-1
		if !last {
			w.sb.WriteByte('(')
		}
		w.sb.WriteString(w.bondSymbol(w.m.Bonds[e.bond]))
		w.write(e.child)
		if !last {
			w.sb.WriteByte(')')
		}
	}
}

func ringDigit(d int) string {
	if d < 10 {
		return fmt.Sprint(d)
	}
	return fmt.Sprintf("%%%02d", d)
}

func (w *writer) bondSymbol(b *Bond) string {
	switch b.Order {
	case BondDouble:
		return "="
	case BondTriple:
		return "#"
	case BondSingle:
		if w.m.Atoms[b.A].Aromatic && w.m.Atoms[b.B].Aromatic {
			return "-"
		}
	}
	return ""
}

func (w *writer) atomSymbol(atom int) string {
	return atomSymbol(w.m, atom)
}

// atomSymbol writes atom in organic-subset form when that round-trips, and
// in brackets otherwise.
func atomSymbol(m *Molecule, atom int) string {
	a := m.Atoms[atom]
	sym := a.Symbol
	if a.Aromatic {
		sym = strings.ToLower(sym)
	}
	if organicSubset[a.Symbol] && a.Isotope == 0 && a.Charge == 0 {
		if h, ok := m.implicitHydrogens(atom); ok && h == a.Hydrogens {
			return sym
		}
	}

	var sb strings.Builder
	sb.WriteByte('[')
	if a.Isotope > 0 {
		fmt.Fprintf(&sb, "%d", a.Isotope)
	}
	sb.WriteString(sym)
	switch {
	case a.Hydrogens == 1:
		sb.WriteByte('H')
	case a.Hydrogens > 1:
		fmt.Fprintf(&sb, "H%d", a.Hydrogens)
	}
	switch {
	case a.Charge == 1:
		sb.WriteByte('+')
	case a.Charge == -1:
		sb.WriteByte('-')
	case a.Charge > 1:
		fmt.Fprintf(&sb, "+%d", a.Charge)
	case a.Charge < -1:
		fmt.Fprintf(&sb, "-%d", -a.Charge)
	}
	sb.WriteByte(']')
	return sb.String()
}

//Personal.AI order the ending
