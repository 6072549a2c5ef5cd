package molecule

// Element describes the properties of a chemical element needed for parsing,
// hydrogen assignment and formula generation.
type Element struct {
	Symbol       string
	AtomicNumber int
	Mass         float64
	// Valences lists the normal valence states in ascending order.  Only
	// organic-subset elements carry valences; bracket atoms state their
	// hydrogens explicitly.
	Valences []int
}

var elements = map[string]Element{
	"H":  {"H", 1, 1.008, nil},
	"He": {"He", 2, 4.003, nil},
	"Li": {"Li", 3, 6.94, nil},
	"Be": {"Be", 4, 9.012, nil},
	"B":  {"B", 5, 10.81, []int{3}},
	"C":  {"C", 6, 12.011, []int{4}},
	"N":  {"N", 7, 14.007, []int{3, 5}},
	"O":  {"O", 8, 15.999, []int{2}},
	"F":  {"F", 9, 18.998, []int{1}},
	"Ne": {"Ne", 10, 20.180, nil},
	"Na": {"Na", 11, 22.990, nil},
	"Mg": {"Mg", 12, 24.305, nil},
	"Al": {"Al", 13, 26.982, nil},
	"Si": {"Si", 14, 28.085, nil},
	"P":  {"P", 15, 30.974, []int{3, 5}},
	"S":  {"S", 16, 32.06, []int{2, 4, 6}},
	"Cl": {"Cl", 17, 35.45, []int{1}},
	"Ar": {"Ar", 18, 39.948, nil},
	"K":  {"K", 19, 39.098, nil},
	"Ca": {"Ca", 20, 40.078, nil},
	"Ti": {"Ti", 22, 47.867, nil},
	"Cr": {"Cr", 24, 51.996, nil},
	"Mn": {"Mn", 25, 54.938, nil},
	"Fe": {"Fe", 26, 55.845, nil},
	"Co": {"Co", 27, 58.933, nil},
	"Ni": {"Ni", 28, 58.693, nil},
	"Cu": {"Cu", 29, 63.546, nil},
	"Zn": {"Zn", 30, 65.38, nil},
	"Ga": {"Ga", 31, 69.723, nil},
	"Ge": {"Ge", 32, 72.630, nil},
	"As": {"As", 33, 74.922, nil},
	"Se": {"Se", 34, 78.971, nil},
	"Br": {"Br", 35, 79.904, []int{1}},
	"Kr": {"Kr", 36, 83.798, nil},
	"Rb": {"Rb", 37, 85.468, nil},
	"Sr": {"Sr", 38, 87.62, nil},
	"Pd": {"Pd", 46, 106.42, nil},
	"Ag": {"Ag", 47, 107.868, nil},
	"Cd": {"Cd", 48, 112.414, nil},
	"Sn": {"Sn", 50, 118.710, nil},
	"Sb": {"Sb", 51, 121.760, nil},
	"Te": {"Te", 52, 127.60, nil},
	"I":  {"I", 53, 126.904, []int{1}},
	"Xe": {"Xe", 54, 131.293, nil},
	"Cs": {"Cs", 55, 132.905, nil},
	"Ba": {"Ba", 56, 137.327, nil},
	"Pt": {"Pt", 78, 195.084, nil},
	"Au": {"Au", 79, 196.967, nil},
	"Hg": {"Hg", 80, 200.592, nil},
	"Pb": {"Pb", 82, 207.2, nil},
	"Bi": {"Bi", 83, 208.980, nil},
}

// organicSubset are the symbols that may appear outside brackets.
var organicSubset = map[string]bool{
	"B": true, "C": true, "N": true, "O": true, "P": true, "S": true,
	"F": true, "Cl": true, "Br": true, "I": true,
}

// aromaticSymbols maps the lowercase aromatic spellings accepted in SMILES to
// their element symbol.  "se" and "as" are only legal inside brackets.
var aromaticSymbols = map[string]string{
	"b": "B", "c": "C", "n": "N", "o": "O", "p": "P", "s": "S",
	"se": "Se", "as": "As",
}

// LookupElement returns the element with the given symbol.
func LookupElement(symbol string) (Element, bool) {
	e, ok := elements[symbol]
	return e, ok
}

//Personal.AI order the ending
