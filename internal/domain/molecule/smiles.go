package molecule

import (
	"fmt"
	"strings"

	"github.com/turtacn/ReactionLab/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// SMILES parser
// ─────────────────────────────────────────────────────────────────────────────

type ringOpening struct {
	atom     int
	order    BondOrder
	explicit bool
	pos      int
}

type parser struct {
	src string
	pos int
	mol *Molecule

	prev     int
	branches []int

	bond    BondOrder
	hasBond bool
	bondPos int
	rings   map[int]ringOpening
	organic []bool
}

// Parse builds a Molecule from a SMILES string.  Surrounding whitespace is
// trimmed and anything after the first internal whitespace (a title) is
// ignored.  Stereo marks are accepted and discarded.
//
// The returned error is an *errors.AppError with code MOL_001 (syntax) or
// MOL_002 (valence).
func Parse(text string) (*Molecule, error) {
	src := strings.TrimSpace(text)
	if i := strings.IndexAny(src, " \t\r\n"); i >= 0 {
		src = src[:i]
	}
	if src == "" {
		return nil, syntaxError(text, 0, "empty SMILES")
	}

	p := &parser{
		src:   src,
		mol:   newMolecule(),
		prev:  -1,
		rings: map[int]ringOpening{},
	}
	if err := p.run(); err != nil {
		return nil, err
	}
	if err := p.assignHydrogens(); err != nil {
		return nil, err
	}
	if err := p.checkAromaticRings(); err != nil {
		return nil, err
	}
	perceiveAromaticity(p.mol)
	return p.mol, nil
}

// MustParse is Parse for literals known to be valid; it panics on error.
func MustParse(text string) *Molecule {
	m, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return m
}

func syntaxError(src string, pos int, msg string) error {
	return errors.New(errors.ErrCodeMoleculeInvalidSMILES, msg).
		WithDetail(fmt.Sprintf("smiles=%q pos=%d", src, pos))
}

func (p *parser) fail(msg string, args ...interface{}) error {
	return syntaxError(p.src, p.pos, fmt.Sprintf(msg, args...))
}

func (p *parser) run() error {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '(':
			if p.prev < 0 {
				return p.fail("branch opened before any atom")
			}
			if p.hasBond {
				return p.fail("bond symbol before branch")
			}
			p.branches = append(p.branches, p.prev)
			p.pos++
		case c == ')':
			if len(p.branches) == 0 {
				return p.fail("unbalanced ')'")
			}
			if p.hasBond {
				return p.fail("dangling bond at end of branch")
			}
			p.prev = p.branches[len(p.branches)-1]
			p.branches = p.branches[:len(p.branches)-1]
			p.pos++
		case c == '-' || c == '=' || c == '#' || c == ':' || c == '/' || c == '\\':
			if p.hasBond {
				return p.fail("consecutive bond symbols")
			}
			if p.prev < 0 {
				return p.fail("bond symbol before any atom")
			}
			p.bond = bondFromSymbol(c)
			p.hasBond = true
			p.bondPos = p.pos
			p.pos++
		case c == '.':
			if p.hasBond {
				return p.fail("dangling bond before '.'")
			}
			if p.prev < 0 || len(p.branches) > 0 {
				return p.fail("misplaced '.'")
			}
			p.prev = -1
			p.pos++
		case c >= '0' && c <= '9' || c == '%':
			if err := p.ringClosure(); err != nil {
				return err
			}
		case c == '[':
			if err := p.bracketAtom(); err != nil {
				return err
			}
		default:
			if err := p.organicAtom(); err != nil {
				return err
			}
		}
	}

	if p.hasBond {
		return syntaxError(p.src, p.bondPos, "dangling bond at end of input")
	}
	if len(p.branches) > 0 {
		return p.fail("unbalanced '('")
	}
	if len(p.rings) > 0 {
		first := -1
		for digit := range p.rings {
			if first < 0 || digit < first {
				first = digit
			}
		}
		return syntaxError(p.src, p.rings[first].pos, fmt.Sprintf("unclosed ring %d", first))
	}
	if len(p.mol.Atoms) == 0 {
		return p.fail("no atoms")
	}
	return nil
}

func bondFromSymbol(c byte) BondOrder {
	switch c {
	case '=':
		return BondDouble
	case '#':
		return BondTriple
	case ':':
		return BondAromatic
	default:
		return BondSingle
	}
}

// attach adds atom a and bonds it to the previous atom.
func (p *parser) attach(a *Atom, organic bool) error {
	idx := p.mol.addAtom(a)
	p.organic = append(p.organic, organic)
	if p.prev >= 0 {
		order := p.bond
		if !p.hasBond {
			order = p.defaultOrder(p.prev, idx)
		}
		if _, err := p.mol.addBond(p.prev, idx, order); err != nil {
			return p.fail("%s", err.Error())
		}
	}
	p.hasBond = false
	p.prev = idx
	return nil
}

func (p *parser) defaultOrder(a, b int) BondOrder {
	if p.mol.Atoms[a].Aromatic && p.mol.Atoms[b].Aromatic {
		return BondAromatic
	}
	return BondSingle
}

func (p *parser) organicAtom() error {
	rest := p.src[p.pos:]
	switch {
	case strings.HasPrefix(rest, "Cl"):
		p.pos += 2
		return p.attach(&Atom{Symbol: "Cl"}, true)
	case strings.HasPrefix(rest, "Br"):
		p.pos += 2
		return p.attach(&Atom{Symbol: "Br"}, true)
	}

	c := string(rest[0])
	if organicSubset[c] {
		p.pos++
		return p.attach(&Atom{Symbol: c}, true)
	}
	if sym, ok := aromaticSymbols[c]; ok {
		p.pos++
		return p.attach(&Atom{Symbol: sym, Aromatic: true}, true)
	}
	return p.fail("unexpected character %q", rest[0])
}

func (p *parser) readInt() (int, bool) {
	start := p.pos
	n := 0
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		n = n*10 + int(p.src[p.pos]-'0')
		p.pos++
	}
	return n, p.pos > start
}

func (p *parser) bracketAtom() error {
	open := p.pos
	p.pos++ // '['
	atom := &Atom{Bracket: true}

	if n, ok := p.readInt(); ok {
		atom.Isotope = n
	}

	// Element symbol: aromatic two-letter, then aromatic one-letter, then
	// an uppercase letter with an optional lowercase second letter.
	rest := p.src[p.pos:]
	switch {
	case len(rest) >= 2 && aromaticSymbols[rest[:2]] != "":
		atom.Symbol = aromaticSymbols[rest[:2]]
		atom.Aromatic = true
		p.pos += 2
	case len(rest) >= 1 && rest[0] >= 'a' && rest[0] <= 'z' && aromaticSymbols[rest[:1]] != "":
		atom.Symbol = aromaticSymbols[rest[:1]]
		atom.Aromatic = true
		p.pos++
	case len(rest) >= 1 && rest[0] >= 'A' && rest[0] <= 'Z':
		sym := rest[:1]
		if len(rest) >= 2 && rest[1] >= 'a' && rest[1] <= 'z' {
			if _, ok := elements[rest[:2]]; ok {
				sym = rest[:2]
			}
		}
		if _, ok := elements[sym]; !ok {
			return p.fail("unknown element %q", sym)
		}
		atom.Symbol = sym
		p.pos += len(sym)
	default:
		return p.fail("missing element in bracket atom")
	}

	// Chirality: @, @@, and the @TH1 / @AL2 / @SP3 / @TB5 / @OH12 forms.
	for p.pos < len(p.src) && p.src[p.pos] == '@' {
		p.pos++
	}
	if p.pos < len(p.src) && p.src[p.pos-1] == '@' {
		for _, tag := range []string{"TH", "AL", "SP", "TB", "OH"} {
			if strings.HasPrefix(p.src[p.pos:], tag) {
				p.pos += len(tag)
				p.readInt()
				break
			}
		}
	}

	if p.pos < len(p.src) && p.src[p.pos] == 'H' {
		p.pos++
		if n, ok := p.readInt(); ok {
			atom.Hydrogens = n
		} else {
			atom.Hydrogens = 1
		}
	}

	if p.pos < len(p.src) && (p.src[p.pos] == '+' || p.src[p.pos] == '-') {
		sign := 1
		if p.src[p.pos] == '-' {
			sign = -1
		}
		sym := p.src[p.pos]
		p.pos++
		if n, ok := p.readInt(); ok {
			atom.Charge = sign * n
		} else {
			count := 1
			for p.pos < len(p.src) && p.src[p.pos] == sym {
				count++
				p.pos++
			}
			atom.Charge = sign * count
		}
	}

	// Atom class is accepted and dropped.
	if p.pos < len(p.src) && p.src[p.pos] == ':' {
		p.pos++
		if _, ok := p.readInt(); !ok {
			return p.fail("atom class without number")
		}
	}

	if p.pos >= len(p.src) || p.src[p.pos] != ']' {
		p.pos = open
		return p.fail("unterminated bracket atom")
	}
	p.pos++
	return p.attach(atom, false)
}

func (p *parser) ringClosure() error {
	start := p.pos
	if p.prev < 0 {
		return p.fail("ring closure before any atom")
	}
	var digit int
	if p.src[p.pos] == '%' {
		if p.pos+2 >= len(p.src) || !isDigit(p.src[p.pos+1]) || !isDigit(p.src[p.pos+2]) {
			return p.fail("'%%' must be followed by two digits")
		}
		digit = int(p.src[p.pos+1]-'0')*10 + int(p.src[p.pos+2]-'0')
		p.pos += 3
	} else {
		digit = int(p.src[p.pos] - '0')
		p.pos++
	}

	open, ok := p.rings[digit]
	if !ok {
		p.rings[digit] = ringOpening{atom: p.prev, order: p.bond, explicit: p.hasBond, pos: start}
		p.hasBond = false
		return nil
	}
	delete(p.rings, digit)

	order := p.defaultOrder(open.atom, p.prev)
	switch {
	case p.hasBond && open.explicit && open.order != p.bond:
		return syntaxError(p.src, start, fmt.Sprintf("conflicting bond orders on ring closure %d", digit))
	case p.hasBond:
		order = p.bond
	case open.explicit:
		order = open.order
	}
	if _, err := p.mol.addBond(open.atom, p.prev, order); err != nil {
		return syntaxError(p.src, start, err.Error())
	}
	p.hasBond = false
	return nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// assignHydrogens fills implicit hydrogen counts for organic-subset atoms and
// rejects atoms whose bonds exceed every allowed valence.
func (p *parser) assignHydrogens() error {
	for i, a := range p.mol.Atoms {
		if !p.organic[i] {
			continue
		}
		h, ok := p.mol.implicitHydrogens(i)
		if !ok {
			return errors.New(errors.ErrCodeMoleculeValence,
				fmt.Sprintf("explicit valence for atom %d %s is greater than permitted", i+1, a.Symbol)).
				WithDetail(fmt.Sprintf("smiles=%q", p.src))
		}
		a.Hydrogens = h
	}
	return nil
}

// checkAromaticRings rejects lowercase atoms that are not part of a ring.
func (p *parser) checkAromaticRings() error {
	inRing := p.mol.RingAtoms()
	for i, a := range p.mol.Atoms {
		if a.Aromatic && !inRing[i] {
			return syntaxError(p.src, 0, fmt.Sprintf("non-ring atom %d marked aromatic", i+1))
		}
	}
	return nil
}

//Personal.AI order the ending
