package reaction

import (
	"fmt"
	"strings"

	"github.com/turtacn/ReactionLab/internal/domain/molecule"
	"github.com/turtacn/ReactionLab/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ReactionLab/pkg/errors"
)

// Messages returned for failures detected before any rule runs.
const (
	MsgMissingCompound = "Please enter a compound"
	MsgUnparsable      = "Couldn't recognize or parse the compound: %s"
	MsgNotAnAlcohol    = "The compound doesn't appear to be an alcohol or phenol: %s"
	MsgUndetermined    = "Couldn't determine reaction product"
	MsgPredictionFault = "An error occurred: %v"
)

// Prediction is the packaged result of one prediction.  Success is true iff
// Product is non-empty.
type Prediction struct {
	Success bool   `json:"success"`
	Product string `json:"product,omitempty"`
	Details string `json:"details,omitempty"`
	Error   string `json:"error,omitempty"`

	// ReactantSMILES is the canonical form of the resolved input, when it
	// parsed.  Class and Code are for logs and metrics.
	ReactantSMILES string           `json:"-"`
	Class          StructuralClass  `json:"-"`
	Code           errors.ErrorCode `json:"-"`
}

// Err returns the failure as an *errors.AppError, or nil on success.
func (p Prediction) Err() error {
	if p.Success {
		return nil
	}
	return errors.New(p.Code, p.Error)
}

func failed(code errors.ErrorCode, msg string) Prediction {
	return Prediction{Error: msg, Code: code}
}

// ─────────────────────────────────────────────────────────────────────────────
// Predictor
// ─────────────────────────────────────────────────────────────────────────────

// Predictor resolves a compound, classifies it and applies the rule table.
// It holds no mutable state and is safe for concurrent use.
type Predictor struct {
	logger logging.Logger
	apply  func(canonical, catalyst string, rt ReactionType) Outcome
}

// NewPredictor returns a Predictor.  A nil logger is replaced by a no-op one.
func NewPredictor(logger logging.Logger) *Predictor {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Predictor{logger: logger.Named("predictor"), apply: Apply}
}

// Predict returns the outcome of reacting compound (a catalog name or a
// SMILES string) with catalyst under reactionType.  It never panics.
func (p *Predictor) Predict(compound, catalyst, reactionType string) (out Prediction) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("prediction panicked",
				logging.String("compound", compound),
				logging.Any("panic", r))
			out = failed(errors.ErrCodePredictionFault, fmt.Sprintf(MsgPredictionFault, r))
		}
	}()

	if strings.TrimSpace(compound) == "" {
		return failed(errors.ErrCodeMissingCompound, MsgMissingCompound)
	}

	mol, err := molecule.Parse(ResolveCompound(compound))
	if err != nil {
		p.logger.Debug("compound did not parse",
			logging.String("compound", compound),
			logging.Err(err))
		return failed(errors.ErrCodeUnparsableCompound, fmt.Sprintf(MsgUnparsable, compound))
	}
	if n := mol.HeavyAtomCount(); n > molecule.MaxHeavyAtoms {
		p.logger.Warn("compound exceeds heavy-atom limit",
			logging.Int("heavy_atoms", n),
			logging.Int("limit", molecule.MaxHeavyAtoms))
		return failed(errors.ErrCodeUnparsableCompound, fmt.Sprintf(MsgUnparsable, compound))
	}

	smiles := molecule.Canonical(mol)
	if !strings.Contains(smiles, "O") {
		out = failed(errors.ErrCodeNotAnAlcohol, fmt.Sprintf(MsgNotAnAlcohol, compound))
		out.ReactantSMILES = smiles
		out.Class = ClassUnclassified
		return out
	}

	outcome := p.apply(smiles, catalyst, ReactionType(reactionType))
	if outcome.OK() {
		out = Prediction{Success: true, Product: outcome.Product, Details: outcome.Details}
		if _, err := molecule.Parse(outcome.Product); err != nil {
			p.logger.Warn("product SMILES did not parse",
				logging.String("product", outcome.Product),
				logging.Err(err))
		}
	} else {
		msg := outcome.Details
		if msg == "" {
			msg = MsgUndetermined
		}
		out = failed(outcome.Code, msg)
	}
	out.ReactantSMILES = smiles
	out.Class = Classify(smiles)
	return out
}

//Personal.AI order the ending
