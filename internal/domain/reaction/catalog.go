// Package reaction holds the rule-based reaction engine: the compound and
// reagent catalogs, the structural classifier, the rewrite rule table, and the
// Predictor that ties them together.
package reaction

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ─────────────────────────────────────────────────────────────────────────────
// Compound catalog
// ─────────────────────────────────────────────────────────────────────────────

// commonAlcohols maps lowercase common names to SMILES.
var commonAlcohols = map[string]string{
	"methanol":       "CO",
	"ethanol":        "CCO",
	"propanol":       "CCCO",
	"isopropanol":    "CC(C)O",
	"butanol":        "CCCCO",
	"isobutanol":     "CC(C)CO",
	"tert-butanol":   "CC(C)(C)O",
	"pentanol":       "CCCCCO",
	"hexanol":        "CCCCCCO",
	"phenol":         "c1ccccc1O",
	"benzyl alcohol": "c1ccccc1CO",
	"cyclohexanol":   "C1CCCCC1O",
	"glycerol":       "C(C(CO)O)O",
}

// Catalyst codes.  Halogenation also recognises pcl5, pbr3 and pi3, which
// have no display label.
const (
	CatalystSulfuricAcid    = "h2so4"
	CatalystPhosphoricAcid  = "h3po4"
	CatalystNaOH            = "naoh"
	CatalystKOH             = "koh"
	CatalystDichromate      = "k2cr2o7"
	CatalystPermanganate    = "kmno4"
	CatalystPCC             = "pcc"
	CatalystHydrogen        = "h2"
	CatalystNickel          = "ni"
	CatalystPlatinum        = "pt"
	CatalystPalladium       = "pd"
	CatalystLiAlH4          = "lialh4"
	CatalystNaBH4           = "nabh4"
	CatalystThionylChloride = "socl2"
	CatalystAlCl3           = "alcl3"
	CatalystHCl             = "hcl"
	CatalystHBr             = "hbr"
	CatalystHI              = "hi"
	CatalystHeat            = "heat"
	CatalystNone            = "none"
)

var catalysts = map[string]string{
	CatalystSulfuricAcid:    "Sulfuric Acid (H₂SO₄)",
	CatalystPhosphoricAcid:  "Phosphoric Acid (H₃PO₄)",
	CatalystNaOH:            "Sodium Hydroxide (NaOH)",
	CatalystKOH:             "Potassium Hydroxide (KOH)",
	CatalystDichromate:      "Potassium Dichromate (K₂Cr₂O₇)",
	CatalystPermanganate:    "Potassium Permanganate (KMnO₄)",
	CatalystPCC:             "Pyridinium Chlorochromate (PCC)",
	CatalystHydrogen:        "Hydrogen (H₂)",
	CatalystNickel:          "Nickel (Ni)",
	CatalystPlatinum:        "Platinum (Pt)",
	CatalystPalladium:       "Palladium (Pd)",
	CatalystLiAlH4:          "Lithium Aluminum Hydride (LiAlH₄)",
	CatalystNaBH4:           "Sodium Borohydride (NaBH₄)",
	CatalystThionylChloride: "Thionyl Chloride (SOCl₂)",
	CatalystAlCl3:           "Aluminum Chloride (AlCl₃)",
	CatalystHCl:             "Hydrochloric Acid (HCl)",
	CatalystHBr:             "Hydrobromic Acid (HBr)",
	CatalystHI:              "Hydroiodic Acid (HI)",
	CatalystHeat:            "Heat",
	CatalystNone:            "None",
}

// ReactionType is a reaction-type code.  Codes are matched exactly.
type ReactionType string

const (
	TypeOxidation       ReactionType = "oxidation"
	TypeDehydration     ReactionType = "dehydration"
	TypeDehydrogenation ReactionType = "dehydrogenation"
	TypeEsterification  ReactionType = "esterification"
	TypeHalogenation    ReactionType = "halogenation"
	TypeElimination     ReactionType = "elimination"
	TypeSubstitution    ReactionType = "substitution"
)

var reactionTypes = map[ReactionType]string{
	TypeOxidation:       "Oxidation",
	TypeDehydration:     "Dehydration",
	TypeDehydrogenation: "Dehydrogenation",
	TypeEsterification:  "Esterification",
	TypeHalogenation:    "Halogenation",
	TypeElimination:     "Elimination",
	TypeSubstitution:    "Substitution",
}

// suggestedCatalysts is what the web form offers once a reaction type has
// been picked.
var suggestedCatalysts = map[ReactionType][]string{
	TypeOxidation:      {CatalystPermanganate, CatalystDichromate, CatalystPCC},
	TypeDehydration:    {CatalystSulfuricAcid, CatalystPhosphoricAcid, CatalystHeat},
	TypeHalogenation:   {CatalystHCl, CatalystHBr, CatalystHI, CatalystThionylChloride},
	TypeEsterification: {CatalystSulfuricAcid, CatalystPhosphoricAcid},
}

// Entry is a code/label pair for listings.
type Entry struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// normalizeName folds a free-text identifier for catalog lookup.
func normalizeName(s string) string {
	return strings.TrimSpace(strings.ToLower(norm.NFKC.String(s)))
}

// ResolveCompound maps a common name to its SMILES.  Input that is not a
// catalog name is returned unchanged for the caller to parse as SMILES.
func ResolveCompound(input string) string {
	if smiles, ok := LookupCompound(input); ok {
		return smiles
	}
	return input
}

// LookupCompound reports the catalog SMILES for name, if any.
func LookupCompound(name string) (string, bool) {
	smiles, ok := commonAlcohols[normalizeName(name)]
	return smiles, ok
}

// CommonAlcoholNames returns the catalog names in lexical order.
func CommonAlcoholNames() []string {
	names := make([]string, 0, len(commonAlcohols))
	for n := range commonAlcohols {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// CommonAlcohols returns a copy of the name → SMILES catalog.
func CommonAlcohols() map[string]string {
	out := make(map[string]string, len(commonAlcohols))
	for k, v := range commonAlcohols {
		out[k] = v
	}
	return out
}

// CatalystLabel returns the display label for a catalyst code.
func CatalystLabel(code string) (string, bool) {
	l, ok := catalysts[strings.ToLower(code)]
	return l, ok
}

// ReactionTypeLabel returns the display label for a reaction-type code.
func ReactionTypeLabel(code string) (string, bool) {
	l, ok := reactionTypes[ReactionType(code)]
	return l, ok
}

// ListCatalysts returns every catalyst ordered by code.
func ListCatalysts() []Entry {
	out := make([]Entry, 0, len(catalysts))
	for c, l := range catalysts {
		out = append(out, Entry{Code: c, Label: l})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// ListReactionTypes returns every reaction type ordered by code.
func ListReactionTypes() []Entry {
	out := make([]Entry, 0, len(reactionTypes))
	for c, l := range reactionTypes {
		out = append(out, Entry{Code: string(c), Label: l})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// SuggestedCatalysts returns the catalyst codes offered for a reaction type,
// or nil when the type has none.
func SuggestedCatalysts(rt ReactionType) []string {
	s := suggestedCatalysts[rt]
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

// Supported reports whether rt has implemented rules.
func (rt ReactionType) Supported() bool {
	switch rt {
	case TypeOxidation, TypeDehydration, TypeHalogenation, TypeEsterification:
		return true
	}
	return false
}

//Personal.AI order the ending
