package reaction

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/turtacn/ReactionLab/internal/domain/molecule"
	"github.com/turtacn/ReactionLab/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ReactionLab/pkg/errors"
)

func newTestPredictor() *Predictor {
	return NewPredictor(logging.NewNopLogger())
}

func TestPredict_Successes(t *testing.T) {
	tests := []struct {
		compound, catalyst, reactionType string
		product                          string
		details                          string
	}{
		{"methanol", "k2cr2o7", "oxidation", "O=C=O", "Methanol is fully oxidized to CO₂ and H₂O"},
		{"ethanol", "kmno4", "oxidation", "CC(=O)O", "Primary alcohol oxidizes first to aldehyde then to carboxylic acid"},
		{"propanol", "pcc", "oxidation", "CCC(=O)O", "Primary alcohol oxidizes first to aldehyde then to carboxylic acid"},
		{"isobutanol", "kmno4", "oxidation", "CC(C)C(=O)O", "Primary alcohol oxidizes first to aldehyde then to carboxylic acid"},
		{"glycerol", "kmno4", "oxidation", "OCC(O)C(=O)O", "Primary alcohol oxidizes first to aldehyde then to carboxylic acid"},
		{"isopropanol", "k2cr2o7", "oxidation", "CC(C)=O", "Secondary alcohol oxidizes to ketone"},
		{"phenol", "kmno4", "oxidation", "O=C1C=CC(=O)C=C1", "Phenol undergoes oxidation to form benzoquinone under strong oxidizing conditions"},

		{"ethanol", "h2so4", "dehydration", "C=C", "Alcohol undergoes dehydration to form an alkene"},
		{"propanol", "heat", "dehydration", "CC=C", "Alcohol undergoes dehydration to form an alkene"},
		{"pentanol", "h3po4", "dehydration", "CCCC=C", "Alcohol undergoes dehydration to form an alkene"},
		{"isopropanol", "h2so4", "dehydration", "CC=C", "Secondary alcohol dehydrates to form an alkene"},
		{"tert-butanol", "h2so4", "dehydration", "CC=C", "Tertiary alcohol readily dehydrates to form an alkene"},

		{"ethanol", "hbr", "halogenation", "CCBr", "Alcohol is converted to alkyl bromide"},
		{"ethanol", "hcl", "halogenation", "CCCl", "Alcohol is converted to alkyl chloride"},
		{"ethanol", "socl2", "halogenation", "CCCl", "Alcohol is converted to alkyl chloride"},
		{"ethanol", "pbr3", "halogenation", "CCBr", "Alcohol is converted to alkyl bromide"},
		{"methanol", "hi", "halogenation", "CI", "Alcohol is converted to alkyl iodide"},
		{"glycerol", "hi", "halogenation", "ICC(I)CI", "Alcohol is converted to alkyl iodide"},
		{"phenol", "hbr", "halogenation", "Oc1c(Br)cc(Br)cc1Br",
			"Phenol undergoes halogenation to form multiple bromophenol products, with 2,4,6-tribromophenol as the major product"},
		{"phenol", "hcl", "halogenation", "Oc1c(Cl)cc(Cl)cc1Cl",
			"Phenol undergoes halogenation to form multiple chlorophenol products, with 2,4,6-trichlorophenol as the major product"},

		{"ethanol", "h2so4", "esterification", "CCOC(=O)C", "Alcohol reacts with acetic acid to form an acetate ester"},
		{"methanol", "h3po4", "esterification", "COC(=O)C", "Alcohol reacts with acetic acid to form an acetate ester"},
		{"phenol", "h2so4", "esterification", "CC(=O)Oc1ccccc1",
			"Phenol reacts with acetic acid to form phenyl acetate in the presence of an acid catalyst"},
	}
	p := newTestPredictor()
	for _, tt := range tests {
		t.Run(tt.compound+"/"+tt.catalyst+"/"+tt.reactionType, func(t *testing.T) {
			got := p.Predict(tt.compound, tt.catalyst, tt.reactionType)
			require.True(t, got.Success, "error: %s", got.Error)
			assert.Equal(t, tt.product, got.Product)
			assert.Equal(t, tt.details, got.Details)
			assert.Empty(t, got.Error)
			assert.NoError(t, got.Err())
		})
	}
}

func TestPredict_Failures(t *testing.T) {
	tests := []struct {
		compound, catalyst, reactionType string
		message                          string
		code                             errors.ErrorCode
	}{
		{"", "h2so4", "oxidation", "Please enter a compound", errors.ErrCodeMissingCompound},
		{"   ", "h2so4", "oxidation", "Please enter a compound", errors.ErrCodeMissingCompound},
		{"unobtainium", "h2so4", "oxidation", "Couldn't recognize or parse the compound: unobtainium", errors.ErrCodeUnparsableCompound},
		{"CCC", "kmno4", "oxidation", "The compound doesn't appear to be an alcohol or phenol: CCC", errors.ErrCodeNotAnAlcohol},

		{"ethanol", "h2so4", "oxidation", "Oxidation typically requires an oxidizing agent like K₂Cr₂O₇, KMnO₄, or PCC", errors.ErrCodeIncompatibleCatalyst},
		{"tert-butanol", "k2cr2o7", "oxidation", "Tertiary alcohols are resistant to oxidation under normal conditions", errors.ErrCodePathwayNotDetermined},
		{"benzyl alcohol", "kmno4", "oxidation", "Oxidation pathway not determined", errors.ErrCodePathwayNotDetermined},
		{"phenol", "pcc", "oxidation", "Phenol oxidation requires a strong oxidizing agent like K₂Cr₂O₇ or KMnO₄", errors.ErrCodeIncompatibleCatalyst},

		{"methanol", "h2so4", "dehydration", "Methanol cannot undergo typical dehydration as it lacks a β-hydrogen", errors.ErrCodePathwayNotDetermined},
		{"ethanol", "naoh", "dehydration", "Dehydration typically requires an acid catalyst like H₂SO₄ or H₃PO₄, or heat", errors.ErrCodeIncompatibleCatalyst},
		{"glycerol", "h2so4", "dehydration", "Dehydration pathway not determined", errors.ErrCodePathwayNotDetermined},
		{"phenol", "h2so4", "dehydration",
			"Phenol doesn't undergo typical dehydration reactions like aliphatic alcohols. The aromatic ring stabilizes the C-O bond.",
			errors.ErrCodeUnsupportedReaction},

		{"ethanol", "h2so4", "halogenation", "Please specify a halogenating agent (HCl, HBr, HI, SOCl₂, etc.)", errors.ErrCodeIncompatibleCatalyst},
		{"isopropanol", "hcl", "halogenation", "Halogenation pathway not determined", errors.ErrCodePathwayNotDetermined},
		{"phenol", "socl2", "halogenation", "Phenol halogenation requires a halogen donor like HCl, HBr, or HI", errors.ErrCodeIncompatibleCatalyst},

		{"ethanol", "naoh", "esterification", "Esterification typically requires an acid catalyst like H₂SO₄", errors.ErrCodeIncompatibleCatalyst},
		{"isopropanol", "h2so4", "esterification", "Esterification pathway not determined", errors.ErrCodePathwayNotDetermined},
		{"phenol", "heat", "esterification", "Phenol esterification requires an acid catalyst like H₂SO₄ or H₃PO₄", errors.ErrCodeIncompatibleCatalyst},

		{"ethanol", "h2so4", "elimination", "Reaction type 'elimination' not supported yet", errors.ErrCodeUnsupportedReaction},
		{"ethanol", "h2so4", "Oxidation", "Reaction type 'Oxidation' not supported yet", errors.ErrCodeUnsupportedReaction},
		{"ethanol", "h2so4", "", "Reaction type '' not supported yet", errors.ErrCodeUnsupportedReaction},
		{"phenol", "h2so4", "substitution", "Couldn't determine reaction product", errors.ErrCodePathwayNotDetermined},
	}
	p := newTestPredictor()
	for _, tt := range tests {
		t.Run(tt.compound+"/"+tt.catalyst+"/"+tt.reactionType, func(t *testing.T) {
			got := p.Predict(tt.compound, tt.catalyst, tt.reactionType)
			assert.False(t, got.Success)
			assert.Empty(t, got.Product)
			assert.Equal(t, tt.message, got.Error)
			assert.Equal(t, tt.code, got.Code)
			assert.True(t, errors.IsCode(got.Err(), tt.code))
		})
	}
}

func TestPredict_CaseHandling(t *testing.T) {
	p := newTestPredictor()

	got := p.Predict("  ETHANOL ", "HBr", "halogenation")
	require.True(t, got.Success)
	assert.Equal(t, "CCBr", got.Product)

	got = p.Predict("Tert-Butanol", "K2Cr2O7", "oxidation")
	assert.False(t, got.Success)
	assert.Equal(t, "Tertiary alcohols are resistant to oxidation under normal conditions", got.Error)
}

func TestPredict_RawSMILESIsCanonicalised(t *testing.T) {
	p := newTestPredictor()

	got := p.Predict("OCC", "kmno4", "oxidation")
	require.True(t, got.Success)
	assert.Equal(t, "CC(=O)O", got.Product)
	assert.Equal(t, "CCO", got.ReactantSMILES)
	assert.Equal(t, ClassPrimary, got.Class)

	got = p.Predict("OC1=CC=CC=C1", "kmno4", "oxidation")
	require.True(t, got.Success)
	assert.Equal(t, "O=C1C=CC(=O)C=C1", got.Product)
	assert.Equal(t, ClassPhenol, got.Class)
}

func TestPredict_CatalystGateForEveryUnlistedCatalyst(t *testing.T) {
	p := newTestPredictor()
	gates := map[string]struct {
		accepted []string
		message  string
	}{
		"oxidation": {
			[]string{"k2cr2o7", "kmno4", "pcc"},
			"Oxidation typically requires an oxidizing agent like K₂Cr₂O₇, KMnO₄, or PCC",
		},
		"dehydration": {
			[]string{"h2so4", "h3po4", "heat"},
			"Dehydration typically requires an acid catalyst like H₂SO₄ or H₃PO₄, or heat",
		},
		"esterification": {
			[]string{"h2so4", "h3po4"},
			"Esterification typically requires an acid catalyst like H₂SO₄",
		},
	}
	for rt, gate := range gates {
		for _, c := range ListCatalysts() {
			accepted := false
			for _, a := range gate.accepted {
				accepted = accepted || a == c.Code
			}
			if accepted {
				continue
			}
			got := p.Predict("ethanol", c.Code, rt)
			assert.False(t, got.Success, "%s with %s", rt, c.Code)
			assert.Equal(t, gate.message, got.Error, "%s with %s", rt, c.Code)
		}
	}
}

func TestPredict_Deterministic(t *testing.T) {
	p := newTestPredictor()
	first := p.Predict("glycerol", "kmno4", "oxidation")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, p.Predict("glycerol", "kmno4", "oxidation"))
	}
}

func TestPredict_ConcurrentUse(t *testing.T) {
	p := newTestPredictor()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := p.Predict("ethanol", "hbr", "halogenation")
			assert.Equal(t, "CCBr", got.Product)
		}()
	}
	wg.Wait()
}

func TestPredict_RecoversPanic(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	p := NewPredictor(logging.NewLoggerFromCore(core))
	p.apply = func(string, string, ReactionType) Outcome { panic("rule table corrupted") }

	got := p.Predict("ethanol", "hbr", "halogenation")
	assert.False(t, got.Success)
	assert.Equal(t, "An error occurred: rule table corrupted", got.Error)
	assert.Equal(t, errors.ErrCodePredictionFault, got.Code)
	assert.Equal(t, 1, logs.FilterMessage("prediction panicked").Len())
}

func TestNewPredictor_NilLogger(t *testing.T) {
	p := NewPredictor(nil)
	assert.True(t, p.Predict("ethanol", "hbr", "halogenation").Success)
}

func TestPredict_OversizedCompound(t *testing.T) {
	p := newTestPredictor()
	big := strings.Repeat("C", 10000) + "O"

	start := time.Now()
	out := p.Predict(big, "hbr", "halogenation")
	assert.Less(t, time.Since(start), time.Second)
	assert.False(t, out.Success)
	assert.Equal(t, errors.ErrCodeUnparsableCompound, out.Code)
	assert.Equal(t, "Couldn't recognize or parse the compound: "+big, out.Error)

	atLimit := strings.Repeat("C", molecule.MaxHeavyAtoms-1) + "O"
	out = p.Predict(atLimit, "hbr", "halogenation")
	assert.NotEqual(t, errors.ErrCodeUnparsableCompound, out.Code)
	assert.NotEmpty(t, out.ReactantSMILES)
}

//Personal.AI order the ending
