package reaction

import (
	"fmt"
	"strings"

	"github.com/turtacn/ReactionLab/pkg/errors"
)

// Outcome is the result of applying one rule.  An empty Product is a
// failure; Details then explains it and Code classifies it.
type Outcome struct {
	Product string
	Details string
	Code    errors.ErrorCode
}

// OK reports whether the rule produced a product.
func (o Outcome) OK() bool { return o.Product != "" }

func success(product, details string) Outcome {
	return Outcome{Product: product, Details: details}
}

func failure(code errors.ErrorCode, details string) Outcome {
	return Outcome{Details: details, Code: code}
}

func undetermined(details string) Outcome {
	return failure(errors.ErrCodePathwayNotDetermined, details)
}

// rule is one (branch, reaction type) cell of the table.  A non-nil accepts
// list gates the rewrite on the lowercased catalyst code.
type rule struct {
	accepts     []string
	gateMessage string
	rewrite     func(smiles, catalyst string) Outcome
}

func (r rule) admits(catalyst string) bool {
	if r.accepts == nil {
		return true
	}
	for _, c := range r.accepts {
		if c == catalyst {
			return true
		}
	}
	return false
}

// ─────────────────────────────────────────────────────────────────────────────
// Phenol branch
// ─────────────────────────────────────────────────────────────────────────────

const (
	benzoquinone  = "O=C1C=CC(=O)C=C1"
	phenylAcetate = "CC(=O)Oc1ccccc1"
)

var phenolRules = map[ReactionType]rule{
	TypeOxidation: {
		accepts:     []string{CatalystDichromate, CatalystPermanganate},
		gateMessage: "Phenol oxidation requires a strong oxidizing agent like K₂Cr₂O₇ or KMnO₄",
		rewrite: func(string, string) Outcome {
			return success(benzoquinone,
				"Phenol undergoes oxidation to form benzoquinone under strong oxidizing conditions")
		},
	},
	TypeHalogenation: {
		accepts:     []string{CatalystHCl, CatalystHBr, CatalystHI},
		gateMessage: "Phenol halogenation requires a halogen donor like HCl, HBr, or HI",
		rewrite: func(_ string, catalyst string) Outcome {
			x := map[string]string{CatalystHCl: "Cl", CatalystHBr: "Br", CatalystHI: "I"}[catalyst]
			name := map[string]string{CatalystHCl: "chlorophenol", CatalystHBr: "bromophenol", CatalystHI: "iodophenol"}[catalyst]
			product := fmt.Sprintf("Oc1c(%s)cc(%s)cc1%s", x, x, x)
			return success(product, fmt.Sprintf(
				"Phenol undergoes halogenation to form multiple %s products, with 2,4,6-tri%s as the major product",
				name, name))
		},
	},
	TypeEsterification: {
		accepts:     []string{CatalystSulfuricAcid, CatalystPhosphoricAcid},
		gateMessage: "Phenol esterification requires an acid catalyst like H₂SO₄ or H₃PO₄",
		rewrite: func(string, string) Outcome {
			return success(phenylAcetate,
				"Phenol reacts with acetic acid to form phenyl acetate in the presence of an acid catalyst")
		},
	},
	TypeDehydration: {
		rewrite: func(string, string) Outcome {
			return failure(errors.ErrCodeUnsupportedReaction,
				"Phenol doesn't undergo typical dehydration reactions like aliphatic alcohols. The aromatic ring stabilizes the C-O bond.")
		},
	},
}

// ─────────────────────────────────────────────────────────────────────────────
// Aliphatic branch
// ─────────────────────────────────────────────────────────────────────────────

var alcoholRules = map[ReactionType]rule{
	TypeOxidation: {
		accepts:     []string{CatalystDichromate, CatalystPermanganate, CatalystPCC},
		gateMessage: "Oxidation typically requires an oxidizing agent like K₂Cr₂O₇, KMnO₄, or PCC",
		rewrite:     oxidize,
	},
	TypeDehydration: {
		accepts:     []string{CatalystSulfuricAcid, CatalystPhosphoricAcid, CatalystHeat},
		gateMessage: "Dehydration typically requires an acid catalyst like H₂SO₄ or H₃PO₄, or heat",
		rewrite:     dehydrate,
	},
	TypeHalogenation: {
		rewrite: halogenate,
	},
	TypeEsterification: {
		accepts:     []string{CatalystSulfuricAcid, CatalystPhosphoricAcid},
		gateMessage: "Esterification typically requires an acid catalyst like H₂SO₄",
		rewrite:     esterify,
	},
}

func oxidize(s, _ string) Outcome {
	switch {
	case strings.Contains(s, patCarbinol) && !strings.Contains(s, patTertiary):
		if s == patMethanol {
			return success("O=C=O", "Methanol is fully oxidized to CO₂ and H₂O")
		}
		// The aldehyde intermediate is not reported; the acid is the product.
		return success(strings.ReplaceAll(s, "CO", "C(=O)O"),
			"Primary alcohol oxidizes first to aldehyde then to carboxylic acid")
	case strings.Contains(s, patSecondary) || strings.Contains(s, patSecondaryEthyl):
		ketone := strings.ReplaceAll(s, patSecondary, "C(C)=O")
		ketone = strings.ReplaceAll(ketone, patSecondaryEthyl, "C(CC)=O")
		return success(ketone, "Secondary alcohol oxidizes to ketone")
	case strings.Contains(s, patTertiary):
		return undetermined("Tertiary alcohols are resistant to oxidation under normal conditions")
	case strings.Contains(s, patPhenolRingFirst):
		return undetermined("Phenols undergo complex oxidation reactions depending on conditions")
	}
	return undetermined("Oxidation pathway not determined")
}

func dehydrate(s, _ string) Outcome {
	switch {
	case strings.Contains(s, patPrimaryChain) && !strings.Contains(s, patTertiary) && s != patMethanol:
		return success(strings.ReplaceAll(s, patPrimaryChain, "C=C"),
			"Alcohol undergoes dehydration to form an alkene")
	case strings.Contains(s, patSecondary):
		return success(strings.ReplaceAll(s, patSecondary, "C=C"),
			"Secondary alcohol dehydrates to form an alkene")
	case strings.Contains(s, patTertiary):
		return success(strings.ReplaceAll(s, patTertiary, "C=C"),
			"Tertiary alcohol readily dehydrates to form an alkene")
	case s == patMethanol:
		return undetermined("Methanol cannot undergo typical dehydration as it lacks a β-hydrogen")
	case strings.Contains(s, patPhenolRingFirst):
		return undetermined("Phenols generally don't undergo simple dehydration reactions")
	}
	return undetermined("Dehydration pathway not determined")
}

// halogenAgents maps halogenating catalyst codes to the halogen and the
// product's class name.  pcl5, pbr3 and pi3 are accepted but not listed.
var halogenAgents = map[string][2]string{
	CatalystHCl:             {"Cl", "chloride"},
	CatalystThionylChloride: {"Cl", "chloride"},
	"pcl5":                  {"Cl", "chloride"},
	CatalystHBr:             {"Br", "bromide"},
	"pbr3":                  {"Br", "bromide"},
	CatalystHI:              {"I", "iodide"},
	"pi3":                   {"I", "iodide"},
}

func halogenate(s, catalyst string) Outcome {
	agent, ok := halogenAgents[catalyst]
	if !ok {
		return failure(errors.ErrCodeIncompatibleCatalyst,
			"Please specify a halogenating agent (HCl, HBr, HI, SOCl₂, etc.)")
	}
	switch {
	case strings.Contains(s, patCarbinol):
		return success(strings.ReplaceAll(s, "O", agent[0]),
			"Alcohol is converted to alkyl "+agent[1])
	case strings.Contains(s, patPhenolRingFirst):
		return undetermined("Phenols undergo different halogenation pathways, typically at the ring positions")
	}
	return undetermined("Halogenation pathway not determined")
}

func esterify(s, _ string) Outcome {
	switch {
	case strings.Contains(s, patCarbinol):
		return success(strings.ReplaceAll(s, "O", "OC(=O)C"),
			"Alcohol reacts with acetic acid to form an acetate ester")
	case strings.Contains(s, patPhenolRingFirst):
		return success(phenylAcetate, "Phenol reacts with acetic acid to form phenyl acetate")
	}
	return undetermined("Esterification pathway not determined")
}

// ─────────────────────────────────────────────────────────────────────────────
// Apply
// ─────────────────────────────────────────────────────────────────────────────

// Apply runs the phenol or aliphatic rule for rt against a canonical SMILES.
// The catalyst is matched case-insensitively.
func Apply(canonical, catalyst string, rt ReactionType) Outcome {
	catalyst = strings.ToLower(catalyst)
	phenol := IsPhenol(canonical)

	table := alcoholRules
	if phenol {
		table = phenolRules
	}
	r, ok := table[rt]
	if !ok {
		if phenol {
			return undetermined("")
		}
		return failure(errors.ErrCodeUnsupportedReaction,
			fmt.Sprintf("Reaction type '%s' not supported yet", rt))
	}
	if !r.admits(catalyst) {
		return failure(errors.ErrCodeIncompatibleCatalyst, r.gateMessage)
	}
	return r.rewrite(canonical, catalyst)
}

//Personal.AI order the ending
