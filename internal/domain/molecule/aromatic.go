package molecule

// perceiveAromaticity converts Kekulé six-membered carbocycles (alternating
// single and double bonds, e.g. C1=CC=CC=C1) to aromatic form so that both
// spellings of benzene rings canonicalise identically.  Heteroaromatic and
// fused Kekulé systems are left as written.  Hydrogen counts were fixed by
// the parser before this runs and are unaffected.
func perceiveAromaticity(m *Molecule) {
	for _, ring := range sixRings(m) {
		if !alternating(m, ring) {
			continue
		}
		for i, a := range ring {
			m.Atoms[a].Aromatic = true
			m.BondBetween(a, ring[(i+1)%6]).Order = BondAromatic
		}
	}
}

// sixRings enumerates the simple 6-cycles of uncharged carbon atoms.  Each
// ring is reported once, starting from its lowest atom index.
func sixRings(m *Molecule) [][]int {
	var rings [][]int
	eligible := func(i int) bool {
		a := m.Atoms[i]
		return a.Symbol == "C" && a.Charge == 0
	}

	path := make([]int, 0, 6)
	onPath := make([]bool, len(m.Atoms))
	var walk func(start, cur int)
	walk = func(start, cur int) {
		if len(path) == 6 {
			if m.BondBetween(cur, start) != nil && path[1] < path[5] {
				rings = append(rings, append([]int(nil), path...))
			}
			return
		}
		for _, nb := range m.Neighbors(cur) {
			if nb <= start || onPath[nb] || !eligible(nb) {
				continue
			}
			onPath[nb] = true
			path = append(path, nb)
			walk(start, nb)
			path = path[:len(path)-1]
			onPath[nb] = false
		}
	}

	for start := range m.Atoms {
		if !eligible(start) {
			continue
		}
		onPath[start] = true
		path = append(path[:0], start)
		walk(start, start)
		onPath[start] = false
	}
	return rings
}

// alternating reports whether the ring's bonds alternate single/double and
// no ring atom carries an additional exocyclic double bond.
func alternating(m *Molecule, ring []int) bool {
	var orders [6]BondOrder
	for i := range ring {
		b := m.BondBetween(ring[i], ring[(i+1)%6])
		if b == nil || (b.Order != BondSingle && b.Order != BondDouble) {
			return false
		}
		orders[i] = b.Order
	}
	for i := 0; i < 6; i++ {
		if orders[i] == orders[(i+1)%6] {
			return false
		}
	}
	for i, a := range ring {
		prev, next := ring[(i+5)%6], ring[(i+1)%6]
		for _, b := range m.BondsOf(a) {
			o := b.Other(a)
			if o != prev && o != next && b.Order != BondSingle {
				return false
			}
		}
	}
	return true
}

//Personal.AI order the ending
