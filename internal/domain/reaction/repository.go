package reaction

import (
	"context"
	"time"
)

// MaxHistory caps every history listing.
const MaxHistory = 50

// Record is one persisted prediction.  Product and ProductSMILES both hold
// the product SMILES; the duplicate column is kept for existing readers.
type Record struct {
	ID             int64
	Reactant       string
	ReactantSMILES string
	Catalyst       string
	ReactionType   string
	Product        string
	ProductSMILES  string
	Details        string
	CreatedAt      time.Time
}

// NewRecord builds an unsaved record from a successful prediction.
func NewRecord(compound, catalyst, reactionType string, p Prediction) *Record {
	return &Record{
		Reactant:       compound,
		ReactantSMILES: p.ReactantSMILES,
		Catalyst:       catalyst,
		ReactionType:   reactionType,
		Product:        p.Product,
		ProductSMILES:  p.Product,
		Details:        p.Details,
		CreatedAt:      time.Now().UTC(),
	}
}

// ClampLimit bounds a requested history size to [1, MaxHistory].  Zero or
// negative requests get the maximum.
func ClampLimit(limit int) int {
	if limit <= 0 || limit > MaxHistory {
		return MaxHistory
	}
	return limit
}

// Repository is the persistence port for reaction records.  Records are
// append-only.
type Repository interface {
	// Insert stores r and sets its ID (and CreatedAt, when zero).
	Insert(ctx context.Context, r *Record) error
	// ListRecent returns up to limit records ordered by CreatedAt then ID,
	// newest first.  limit is clamped with ClampLimit.
	ListRecent(ctx context.Context, limit int) ([]*Record, error)
	Count(ctx context.Context) (int64, error)
	HealthCheck(ctx context.Context) error
	Close() error
}

//Personal.AI order the ending
