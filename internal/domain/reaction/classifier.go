package reaction

import "strings"

// StructuralClass is the hydroxyl environment of a compound as read off its
// canonical SMILES.
type StructuralClass string

const (
	ClassPrimary      StructuralClass = "primary-alcohol"
	ClassSecondary    StructuralClass = "secondary-alcohol"
	ClassTertiary     StructuralClass = "tertiary-alcohol"
	ClassPhenol       StructuralClass = "phenol"
	ClassMethanol     StructuralClass = "methanol"
	ClassUnclassified StructuralClass = "unclassified"
)

// Substring patterns over canonical SMILES.
const (
	patPhenol          = "Oc1ccccc1"
	patPhenolRingFirst = "c1ccccc1O"
	patTertiary        = "C(C)(C)O"
	patSecondary       = "C(C)O"
	patSecondaryEthyl  = "C(CC)O"
	patMethanol        = "CO"
	patCarbinol        = "CO"
	patPrimaryChain    = "CCO"
)

// IsPhenol reports whether canonical is unsubstituted phenol.
func IsPhenol(canonical string) bool {
	return canonical == patPhenol || canonical == patPhenolRingFirst
}

// Classify applies the pattern tests in priority order: phenol, tertiary,
// secondary, methanol, primary.
func Classify(canonical string) StructuralClass {
	switch {
	case IsPhenol(canonical):
		return ClassPhenol
	case strings.Contains(canonical, patTertiary):
		return ClassTertiary
	case strings.Contains(canonical, patSecondary), strings.Contains(canonical, patSecondaryEthyl):
		return ClassSecondary
	case canonical == patMethanol:
		return ClassMethanol
	case strings.Contains(canonical, patCarbinol):
		return ClassPrimary
	}
	return ClassUnclassified
}

// IsAlcohol reports whether the class is any kind of alcohol.
func (c StructuralClass) IsAlcohol() bool {
	switch c {
	case ClassPrimary, ClassSecondary, ClassTertiary, ClassMethanol:
		return true
	}
	return false
}

//Personal.AI order the ending
