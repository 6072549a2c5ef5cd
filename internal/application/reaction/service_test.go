package reaction

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	domain "github.com/turtacn/ReactionLab/internal/domain/reaction"
	"github.com/turtacn/ReactionLab/internal/infrastructure/database/memory"
	"github.com/turtacn/ReactionLab/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/turtacn/ReactionLab/pkg/errors"
	rtypes "github.com/turtacn/ReactionLab/pkg/types/reaction"
)

// ─────────────────────────────────────────────────────────────────────────────
// Mocks
// ─────────────────────────────────────────────────────────────────────────────

type stubRenderer struct{ calls []string }

func (r *stubRenderer) Render(_ context.Context, input string) string {
	r.calls = append(r.calls, input)
	return "<svg>" + input + "</svg>"
}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Insert(ctx context.Context, r *domain.Record) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Record, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Record), args.Error(1)
}

func (m *MockRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) HealthCheck(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *MockRepository) Close() error                          { return m.Called().Error(0) }

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishRecorded(ctx context.Context, ev *rtypes.RecordedEvent) error {
	return m.Called(ctx, ev).Error(0)
}

type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) ObservePrediction(rt, outcome string, d time.Duration) { m.Called(rt, outcome) }
func (m *MockMetrics) ObserveStored(driver string)                           { m.Called(driver) }
func (m *MockMetrics) ObserveStoreError(op string)                           { m.Called(op) }
func (m *MockMetrics) ObservePublish(err error)                              { m.Called(err) }

func newLogger() (logging.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return logging.NewLoggerFromCore(core), logs
}

// ─────────────────────────────────────────────────────────────────────────────
// Predict
// ─────────────────────────────────────────────────────────────────────────────

func TestPredict_SuccessRendersBothStructures(t *testing.T) {
	r := &stubRenderer{}
	svc := NewService(domain.NewPredictor(nil), r, nil, nil)

	out, err := svc.Predict(context.Background(), PredictInput{
		Compound: "ethanol", Catalyst: "hbr", ReactionType: "halogenation",
	})
	require.NoError(t, err)

	want := &PredictOutput{
		Success:        true,
		Reactant:       "ethanol",
		ReactantSMILES: "CCO",
		ReactantSVG:    "<svg>ethanol</svg>",
		Catalyst:       "hbr",
		ReactionType:   "halogenation",
		Product:        "CCBr",
		ProductSVG:     "<svg>CCBr</svg>",
		Details:        out.Details,
		Class:          domain.ClassPrimary,
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("PredictOutput mismatch (-want +got):\n%s", diff)
	}
	assert.NotEmpty(t, out.Details)
	assert.Equal(t, []string{"ethanol", "CCBr"}, r.calls)
}

func TestPredict_FailureSkipsRendering(t *testing.T) {
	r := &stubRenderer{}
	svc := NewService(domain.NewPredictor(nil), r, nil, nil)

	out, err := svc.Predict(context.Background(), PredictInput{
		Compound: "tert-butanol", Catalyst: "k2cr2o7", ReactionType: "oxidation",
	})
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.NotEmpty(t, out.Error)
	assert.Empty(t, out.ReactantSVG)
	assert.Empty(t, r.calls)
}

func TestPredict_MissingCompound(t *testing.T) {
	svc := NewService(domain.NewPredictor(nil), &stubRenderer{}, nil, nil)

	out, err := svc.Predict(context.Background(), PredictInput{Catalyst: "hbr", ReactionType: "halogenation"})
	require.NoError(t, err)
	assert.Equal(t, domain.MsgMissingCompound, out.Error)
	assert.Equal(t, pkgerrors.ErrCodeMissingCompound, out.Code)
}

func TestPredict_CancelledContext(t *testing.T) {
	svc := NewService(domain.NewPredictor(nil), &stubRenderer{}, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Predict(ctx, PredictInput{Compound: "ethanol"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeTimeout))
}

func TestPredict_SavePersistsAndPublishes(t *testing.T) {
	repo := new(MockRepository)
	pub := new(MockPublisher)
	met := new(MockMetrics)

	repo.On("Insert", mock.Anything, mock.MatchedBy(func(r *domain.Record) bool {
		return r.Reactant == "ethanol" && r.Product == "CCBr" && r.ProductSMILES == "CCBr" && r.ReactantSMILES == "CCO"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Record).ID = 42
	}).Return(nil)
	pub.On("PublishRecorded", mock.Anything, mock.MatchedBy(func(ev *rtypes.RecordedEvent) bool {
		return ev.Type == rtypes.EventRecorded && ev.AggID == "42" && ev.Record.ID == 42
	})).Return(nil)
	met.On("ObservePrediction", "halogenation", "success").Once()
	met.On("ObserveStored", "sqlite").Once()
	met.On("ObservePublish", nil).Once()

	svc := NewService(domain.NewPredictor(nil), &stubRenderer{}, repo, nil,
		WithPublisher(pub), WithMetrics(met), WithStoreName("sqlite"))
	out, err := svc.Predict(context.Background(), PredictInput{
		Compound: "ethanol", Catalyst: "hbr", ReactionType: "halogenation", SaveToDB: true,
	})
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, int64(42), out.RecordID)

	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
	met.AssertExpectations(t)
}

func TestPredict_SaveFailureKeepsResult(t *testing.T) {
	repo := new(MockRepository)
	pub := new(MockPublisher)
	met := new(MockMetrics)
	repo.On("Insert", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	met.On("ObservePrediction", "halogenation", "success")
	met.On("ObserveStoreError", "insert").Once()

	log, logs := newLogger()
	svc := NewService(domain.NewPredictor(nil), &stubRenderer{}, repo, log,
		WithPublisher(pub), WithMetrics(met))
	out, err := svc.Predict(context.Background(), PredictInput{
		Compound: "ethanol", Catalyst: "hbr", ReactionType: "halogenation", SaveToDB: true,
	})
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, "CCBr", out.Product)
	assert.Zero(t, out.RecordID)

	pub.AssertNotCalled(t, "PublishRecorded", mock.Anything, mock.Anything)
	met.AssertExpectations(t)
	assert.Equal(t, 1, logs.FilterMessage("failed to save reaction").Len())
}

func TestPredict_PublishFailureKeepsResult(t *testing.T) {
	store := memory.New()
	pub := new(MockPublisher)
	pub.On("PublishRecorded", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	log, logs := newLogger()
	svc := NewService(domain.NewPredictor(nil), &stubRenderer{}, store, log, WithPublisher(pub))
	out, err := svc.Predict(context.Background(), PredictInput{
		Compound: "ethanol", Catalyst: "hbr", ReactionType: "halogenation", SaveToDB: true,
	})
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, int64(1), out.RecordID)
	assert.Equal(t, 1, logs.FilterMessage("failed to publish reaction event").Len())
}

func TestPredict_FailedPredictionIsNotSaved(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(domain.NewPredictor(nil), &stubRenderer{}, repo, nil)

	out, err := svc.Predict(context.Background(), PredictInput{
		Compound: "phenol", Catalyst: "h2so4", ReactionType: "dehydration", SaveToDB: true,
	})
	require.NoError(t, err)
	assert.False(t, out.Success)
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestPredict_MetricsOutcomeLabels(t *testing.T) {
	met := new(MockMetrics)
	met.On("ObservePrediction", "unknown", "invalid").Once()
	met.On("ObservePrediction", "oxidation", "rejected").Once()
	met.On("ObservePrediction", "unknown", "rejected").Once()

	svc := NewService(domain.NewPredictor(nil), &stubRenderer{}, nil, nil, WithMetrics(met))
	ctx := context.Background()
	_, _ = svc.Predict(ctx, PredictInput{Compound: "", ReactionType: strings.Repeat("x", 64)})
	_, _ = svc.Predict(ctx, PredictInput{Compound: "tert-butanol", Catalyst: "k2cr2o7", ReactionType: "oxidation"})
	_, _ = svc.Predict(ctx, PredictInput{Compound: "ethanol", Catalyst: "hbr", ReactionType: "nitration"})

	met.AssertExpectations(t)
}

// ─────────────────────────────────────────────────────────────────────────────
// History and catalog
// ─────────────────────────────────────────────────────────────────────────────

func TestHistory_NewestFirstCapped(t *testing.T) {
	store := memory.New()
	svc := NewService(domain.NewPredictor(nil), &stubRenderer{}, store, nil)
	ctx := context.Background()
	for i := 0; i < 60; i++ {
		_, err := svc.Predict(ctx, PredictInput{
			Compound: "ethanol", Catalyst: "hbr", ReactionType: "halogenation", SaveToDB: true,
		})
		require.NoError(t, err)
	}

	records, err := svc.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, domain.MaxHistory)
	assert.Equal(t, int64(60), records[0].ID)
	for i := 1; i < len(records); i++ {
		assert.Greater(t, records[i-1].ID, records[i].ID)
	}

	records, err = svc.History(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestHistory_DefaultLimitOption(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ListRecent", mock.Anything, 10).Return([]*domain.Record{}, nil)
	svc := NewService(domain.NewPredictor(nil), &stubRenderer{}, repo, nil, WithHistoryLimit(10))

	_, err := svc.History(context.Background(), -1)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestHistory_StoreError(t *testing.T) {
	repo := new(MockRepository)
	met := new(MockMetrics)
	boom := pkgerrors.New(pkgerrors.ErrCodeDatabaseError, "list failed")
	repo.On("ListRecent", mock.Anything, domain.MaxHistory).Return(nil, boom)
	met.On("ObserveStoreError", "list").Once()

	svc := NewService(domain.NewPredictor(nil), &stubRenderer{}, repo, nil, WithMetrics(met))
	_, err := svc.History(context.Background(), 100)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeDatabaseError))
	met.AssertExpectations(t)
}

func TestHistory_NoRepository(t *testing.T) {
	svc := NewService(domain.NewPredictor(nil), &stubRenderer{}, nil, nil)
	records, err := svc.History(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCatalog(t *testing.T) {
	svc := NewService(domain.NewPredictor(nil), &stubRenderer{}, nil, nil)
	cat := svc.Catalog()

	assert.Contains(t, cat.Alcohols, "ethanol")
	assert.Len(t, cat.Catalysts, len(domain.ListCatalysts()))
	assert.Len(t, cat.ReactionTypes, len(domain.ListReactionTypes()))
	assert.Equal(t, []string{"hcl", "hbr", "hi", "socl2"}, cat.SuggestedCatalysts["halogenation"])
	_, ok := cat.SuggestedCatalysts["elimination"]
	assert.False(t, ok)
}

func TestToRecordDTO(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	dto := ToRecordDTO(&domain.Record{ID: 3, Reactant: "ethanol", Product: "CCBr", ProductSMILES: "CCBr", CreatedAt: at})
	require.NotNil(t, dto.CreatedAt)
	assert.Equal(t, at, dto.CreatedAt.Time())
	assert.Equal(t, "CCBr", dto.ProductSMILES)

	assert.Nil(t, ToRecordDTO(&domain.Record{}).CreatedAt)
	assert.Empty(t, ToRecordDTOs(nil))
}

//Personal.AI order the ending
