// Package reaction provides the application service behind the prediction
// page, the JSON API and the CLI.
package reaction

import (
	"context"
	"strconv"
	"strings"
	"time"

	domain "github.com/turtacn/ReactionLab/internal/domain/reaction"
	"github.com/turtacn/ReactionLab/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ReactionLab/pkg/errors"
	"github.com/turtacn/ReactionLab/pkg/types/common"
	rtypes "github.com/turtacn/ReactionLab/pkg/types/reaction"
)

// Renderer draws a compound reference as SVG markup.  It never fails.
type Renderer interface {
	Render(ctx context.Context, input string) string
}

// Publisher announces persisted records.
type Publisher interface {
	PublishRecorded(ctx context.Context, ev *rtypes.RecordedEvent) error
}

// Metrics receives service observations.
type Metrics interface {
	ObservePrediction(reactionType, outcome string, d time.Duration)
	ObserveStored(driver string)
	ObserveStoreError(operation string)
	ObservePublish(err error)
}

// Service defines the reaction application operations.
type Service interface {
	Predict(ctx context.Context, in PredictInput) (*PredictOutput, error)
	History(ctx context.Context, limit int) ([]*domain.Record, error)
	Catalog() rtypes.CatalogResponse
}

// PredictInput is one prediction request.
type PredictInput struct {
	Compound     string
	Catalyst     string
	ReactionType string
	SaveToDB     bool
}

// PredictOutput is the outcome of Predict.  On failure only Success, Error
// and Code are meaningful.
type PredictOutput struct {
	Success bool
	Error   string
	Code    errors.ErrorCode

	Reactant       string
	ReactantSMILES string
	ReactantSVG    string
	Catalyst       string
	ReactionType   string
	Product        string
	ProductSVG     string
	Details        string
	Class          domain.StructuralClass

	// RecordID is set when the prediction was persisted.
	RecordID int64
}

// Option configures the service.
type Option func(*service)

// WithPublisher publishes a RecordedEvent after every persisted record.
func WithPublisher(p Publisher) Option { return func(s *service) { s.publisher = p } }

// WithMetrics reports predictions and store outcomes to m.
func WithMetrics(m Metrics) Option { return func(s *service) { s.metrics = m } }

// WithStoreName labels store metrics.
func WithStoreName(name string) Option { return func(s *service) { s.storeName = name } }

// WithHistoryLimit sets the listing size used when History is called with a
// non-positive limit.
func WithHistoryLimit(n int) Option { return func(s *service) { s.historyLimit = n } }

type service struct {
	predictor    *domain.Predictor
	renderer     Renderer
	repo         domain.Repository
	publisher    Publisher
	metrics      Metrics
	storeName    string
	historyLimit int
	logger       logging.Logger
}

// NewService wires the predictor with its collaborators.  repo may be nil,
// in which case SaveToDB is ignored and History is empty.
func NewService(p *domain.Predictor, r Renderer, repo domain.Repository, log logging.Logger, opts ...Option) Service {
	if log == nil {
		log = logging.NewNopLogger()
	}
	s := &service{
		predictor:    p,
		renderer:     r,
		repo:         repo,
		storeName:    "default",
		historyLimit: domain.MaxHistory,
		logger:       log.Named("reaction"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Predict runs a prediction and draws the reactant and product.  Persisting
// and publishing are best effort and never alter the returned result.
func (s *service) Predict(ctx context.Context, in PredictInput) (*PredictOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTimeout, "prediction cancelled")
	}

	start := time.Now()
	pred := s.predictor.Predict(in.Compound, in.Catalyst, in.ReactionType)
	if !pred.Success {
		s.observe(in.ReactionType, outcomeOf(pred.Code), start)
		s.logger.Info("prediction failed",
			logging.String("compound", in.Compound),
			logging.String("catalyst", in.Catalyst),
			logging.String("reaction_type", in.ReactionType),
			logging.String("code", pred.Code.String()))
		return &PredictOutput{Success: false, Error: pred.Error, Code: pred.Code, Class: pred.Class}, nil
	}

	out := &PredictOutput{
		Success:        true,
		Reactant:       in.Compound,
		ReactantSMILES: pred.ReactantSMILES,
		ReactantSVG:    s.renderer.Render(ctx, in.Compound),
		Catalyst:       in.Catalyst,
		ReactionType:   in.ReactionType,
		Product:        pred.Product,
		Details:        pred.Details,
		Class:          pred.Class,
	}
	if pred.Product != "" {
		out.ProductSVG = s.renderer.Render(ctx, pred.Product)
	}
	s.observe(in.ReactionType, "success", start)

	if in.SaveToDB && s.repo != nil {
		out.RecordID = s.persist(ctx, domain.NewRecord(in.Compound, in.Catalyst, in.ReactionType, pred))
	}
	return out, nil
}

// persist stores rec and publishes it, returning the new id or 0.
func (s *service) persist(ctx context.Context, rec *domain.Record) int64 {
	if err := s.repo.Insert(ctx, rec); err != nil {
		if s.metrics != nil {
			s.metrics.ObserveStoreError("insert")
		}
		s.logger.Error("failed to save reaction",
			logging.String("reactant", rec.Reactant),
			logging.Err(err))
		return 0
	}
	if s.metrics != nil {
		s.metrics.ObserveStored(s.storeName)
	}

	if s.publisher != nil {
		ev := &rtypes.RecordedEvent{
			BaseEvent: common.NewBaseEvent(rtypes.EventRecorded, strconv.FormatInt(rec.ID, 10)),
			Record:    ToRecordDTO(rec),
		}
		err := s.publisher.PublishRecorded(ctx, ev)
		if s.metrics != nil {
			s.metrics.ObservePublish(err)
		}
		if err != nil {
			s.logger.Warn("failed to publish reaction event",
				logging.Int64("record_id", rec.ID),
				logging.Err(err))
		}
	}
	return rec.ID
}

// History returns the most recent records, newest first.
func (s *service) History(ctx context.Context, limit int) ([]*domain.Record, error) {
	if s.repo == nil {
		return []*domain.Record{}, nil
	}
	if limit <= 0 {
		limit = s.historyLimit
	}
	records, err := s.repo.ListRecent(ctx, domain.ClampLimit(limit))
	if err != nil {
		if s.metrics != nil {
			s.metrics.ObserveStoreError("list")
		}
		return nil, err
	}
	return records, nil
}

// Catalog lists what the prediction form offers.
func (s *service) Catalog() rtypes.CatalogResponse {
	resp := rtypes.CatalogResponse{
		Alcohols:           domain.CommonAlcoholNames(),
		SuggestedCatalysts: make(map[string][]string),
	}
	for _, e := range domain.ListCatalysts() {
		resp.Catalysts = append(resp.Catalysts, rtypes.CatalogEntry{Code: e.Code, Label: e.Label})
	}
	for _, e := range domain.ListReactionTypes() {
		resp.ReactionTypes = append(resp.ReactionTypes, rtypes.CatalogEntry{Code: e.Code, Label: e.Label})
		if sc := domain.SuggestedCatalysts(domain.ReactionType(e.Code)); sc != nil {
			resp.SuggestedCatalysts[e.Code] = sc
		}
	}
	return resp
}

func (s *service) observe(reactionType, outcome string, start time.Time) {
	if s.metrics == nil {
		return
	}
	label := strings.TrimSpace(reactionType)
	if _, ok := domain.ReactionTypeLabel(label); !ok {
		label = "unknown"
	}
	s.metrics.ObservePrediction(label, outcome, time.Since(start))
}

// outcomeOf separates bad input from well-formed requests the rules turn
// down.
func outcomeOf(code errors.ErrorCode) string {
	switch code {
	case errors.ErrCodeMissingCompound, errors.ErrCodeUnparsableCompound, errors.ErrCodeNotAnAlcohol:
		return "invalid"
	}
	return "rejected"
}

// ToRecordDTO converts a stored record to its wire shape.
func ToRecordDTO(r *domain.Record) rtypes.RecordDTO {
	dto := rtypes.RecordDTO{
		ID:             r.ID,
		Reactant:       r.Reactant,
		ReactantSMILES: r.ReactantSMILES,
		Catalyst:       r.Catalyst,
		ReactionType:   r.ReactionType,
		Product:        r.Product,
		ProductSMILES:  r.ProductSMILES,
		Details:        r.Details,
	}
	if !r.CreatedAt.IsZero() {
		ts := common.Timestamp(r.CreatedAt)
		dto.CreatedAt = &ts
	}
	return dto
}

// ToRecordDTOs converts a listing.
func ToRecordDTOs(records []*domain.Record) []rtypes.RecordDTO {
	out := make([]rtypes.RecordDTO, 0, len(records))
	for _, r := range records {
		out = append(out, ToRecordDTO(r))
	}
	return out
}

//Personal.AI order the ending
