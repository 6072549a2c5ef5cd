// Package reaction defines the JSON shapes of the ReactionLab HTTP API.
package reaction

import (
	"github.com/turtacn/ReactionLab/pkg/types/common"
)

// PredictRequest is the form posted to /predict.
type PredictRequest struct {
	Compound     string `form:"compound" json:"compound"`
	Catalyst     string `form:"catalyst" json:"catalyst"`
	ReactionType string `form:"reaction_type" json:"reaction_type"`
	SaveToDB     bool   `form:"save_to_db" json:"save_to_db"`
}

// PredictResponse is the success body of /predict.
type PredictResponse struct {
	Success         bool   `json:"success"`
	Reactant        string `json:"reactant"`
	ReactantSVG     string `json:"reactant_svg"`
	Catalyst        string `json:"catalyst"`
	ReactionType    string `json:"reaction_type"`
	Product         string `json:"product"`
	ProductSVG      string `json:"product_svg"`
	ReactionDetails string `json:"reaction_details"`
}

// RecordDTO is one history row.
type RecordDTO struct {
	ID             int64             `json:"id"`
	Reactant       string            `json:"reactant"`
	ReactantSMILES string            `json:"reactant_smiles"`
	Catalyst       string            `json:"catalyst"`
	ReactionType   string            `json:"reaction_type"`
	Product        string            `json:"product"`
	ProductSMILES  string            `json:"product_smiles"`
	Details        string            `json:"details"`
	CreatedAt      *common.Timestamp `json:"created_at"`
}

// HistoryResponse is the body of /history.
type HistoryResponse struct {
	Success   bool        `json:"success"`
	Reactions []RecordDTO `json:"reactions"`
}

// CatalogEntry is a code with its display label.
type CatalogEntry struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// CatalogResponse is the body of /api/catalog.
type CatalogResponse struct {
	Alcohols           []string            `json:"alcohols"`
	Catalysts          []CatalogEntry      `json:"catalysts"`
	ReactionTypes      []CatalogEntry      `json:"reaction_types"`
	SuggestedCatalysts map[string][]string `json:"suggested_catalysts"`
}

// EventRecorded is the event type carried by RecordedEvent.
const EventRecorded = "reaction.recorded"

// RecordedEvent is published to the reaction.recorded topic after a record
// is stored.
type RecordedEvent struct {
	common.BaseEvent
	Record RecordDTO `json:"record"`
}

//Personal.AI order the ending
