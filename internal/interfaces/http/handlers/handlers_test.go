package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	app "github.com/turtacn/ReactionLab/internal/application/reaction"
	domain "github.com/turtacn/ReactionLab/internal/domain/reaction"
	"github.com/turtacn/ReactionLab/internal/infrastructure/database/memory"
	"github.com/turtacn/ReactionLab/internal/infrastructure/render"
	"github.com/turtacn/ReactionLab/internal/interfaces/http/middleware"
	pkgerrors "github.com/turtacn/ReactionLab/pkg/errors"
	"github.com/turtacn/ReactionLab/pkg/types/common"
	rtypes "github.com/turtacn/ReactionLab/pkg/types/reaction"
)

func init() { gin.SetMode(gin.TestMode) }

type MockService struct {
	mock.Mock
}

func (m *MockService) Predict(ctx context.Context, in app.PredictInput) (*app.PredictOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*app.PredictOutput)
	return out, args.Error(1)
}

func (m *MockService) History(ctx context.Context, limit int) ([]*domain.Record, error) {
	args := m.Called(ctx, limit)
	recs, _ := args.Get(0).([]*domain.Record)
	return recs, args.Error(1)
}

func (m *MockService) Catalog() rtypes.CatalogResponse {
	return m.Called().Get(0).(rtypes.CatalogResponse)
}

func newEngine(t *testing.T, svc app.Service) *gin.Engine {
	t.Helper()
	tmpl, err := Templates()
	require.NoError(t, err)
	e := gin.New()
	e.SetHTMLTemplate(tmpl)
	e.Use(middleware.Recovery(nil))
	NewReactionHandler(svc, nil).RegisterRoutes(e)
	NewPageHandler(svc, "test", nil).RegisterRoutes(e)
	return e
}

func realService() (app.Service, *memory.Store) {
	store := memory.New()
	svc := app.NewService(domain.NewPredictor(nil), render.NewRenderer(0, 0), store, nil)
	return svc, store
}

func postForm(e *gin.Engine, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func get(e *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestPredict_Success(t *testing.T) {
	svc, store := realService()
	e := newEngine(t, svc)

	w := postForm(e, url.Values{
		"compound":      {"ethanol"},
		"catalyst":      {"hbr"},
		"reaction_type": {"halogenation"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp rtypes.PredictResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "ethanol", resp.Reactant)
	assert.Equal(t, "hbr", resp.Catalyst)
	assert.Equal(t, "halogenation", resp.ReactionType)
	assert.Equal(t, "CCBr", resp.Product)
	assert.NotEmpty(t, resp.ReactionDetails)
	assert.True(t, strings.HasPrefix(resp.ReactantSVG, "<svg"))
	assert.Contains(t, resp.ProductSVG, "<svg")

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n, "records are only saved when asked")
}

func TestPredict_SaveToDB(t *testing.T) {
	svc, store := realService()
	e := newEngine(t, svc)

	for _, v := range []string{"true", "on", ""} {
		postForm(e, url.Values{
			"compound":      {"ethanol"},
			"catalyst":      {"hbr"},
			"reaction_type": {"halogenation"},
			"save_to_db":    {v},
		})
	}
	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestPredict_Multipart(t *testing.T) {
	svc, _ := realService()
	e := newEngine(t, svc)

	body := "--xx\r\nContent-Disposition: form-data; name=\"compound\"\r\n\r\nethanol\r\n" +
		"--xx\r\nContent-Disposition: form-data; name=\"catalyst\"\r\n\r\nhbr\r\n" +
		"--xx\r\nContent-Disposition: form-data; name=\"reaction_type\"\r\n\r\nhalogenation\r\n--xx--\r\n"
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(body))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xx")
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)

	var resp rtypes.PredictResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "CCBr", resp.Product)
}

func TestPredict_DomainFailureIs200(t *testing.T) {
	svc, _ := realService()
	e := newEngine(t, svc)

	w := postForm(e, url.Values{"catalyst": {"hbr"}, "reaction_type": {"halogenation"}})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp common.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, domain.MsgMissingCompound, resp.Error)
	assert.Equal(t, pkgerrors.ErrCodeMissingCompound.String(), resp.Code)
}

func TestPredict_ServiceErrorIsEnveloped(t *testing.T) {
	svc := new(MockService)
	svc.On("Predict", mock.Anything, mock.Anything).Return(nil, errors.New("store exploded"))
	e := newEngine(t, svc)

	w := postForm(e, url.Values{"compound": {"ethanol"}})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp common.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "An error occurred: store exploded", resp.Error)
}

func TestPredict_PanicIsEnveloped(t *testing.T) {
	svc := new(MockService)
	svc.On("Predict", mock.Anything, mock.Anything).Run(func(mock.Arguments) { panic("renderer crashed") })
	e := newEngine(t, svc)

	w := postForm(e, url.Values{"compound": {"ethanol"}})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp common.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "An error occurred: renderer crashed", resp.Error)
}

func TestPredict_BodyTooLarge(t *testing.T) {
	svc, _ := realService()
	tmpl, err := Templates()
	require.NoError(t, err)
	e := gin.New()
	e.SetHTMLTemplate(tmpl)
	e.Use(middleware.BodyLimit(32))
	NewReactionHandler(svc, nil).RegisterRoutes(e)

	w := postForm(e, url.Values{"compound": {strings.Repeat("C", 128) + "O"}})
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestHistory(t *testing.T) {
	svc, _ := realService()
	e := newEngine(t, svc)

	for _, compound := range []string{"ethanol", "propanol", "butanol"} {
		postForm(e, url.Values{
			"compound":      {compound},
			"catalyst":      {"hbr"},
			"reaction_type": {"halogenation"},
			"save_to_db":    {"true"},
		})
	}

	w := get(e, "/history")
	require.Equal(t, http.StatusOK, w.Code)
	var resp rtypes.HistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Reactions, 3)
	assert.Equal(t, "butanol", resp.Reactions[0].Reactant)
	assert.Equal(t, "ethanol", resp.Reactions[2].Reactant)
	assert.Equal(t, resp.Reactions[0].Product, resp.Reactions[0].ProductSMILES)

	w = get(e, "/history?limit=1")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Reactions, 1)
}

func TestHistory_StoreError(t *testing.T) {
	svc := new(MockService)
	svc.On("History", mock.Anything, 0).
		Return(nil, pkgerrors.New(pkgerrors.ErrCodeDatabaseError, "connection refused"))
	e := newEngine(t, svc)

	w := get(e, "/history")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp common.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotContains(t, resp.Error, "connection refused")
	assert.Equal(t, pkgerrors.ErrCodeDatabaseError.String(), resp.Code)
}

func TestCatalog(t *testing.T) {
	svc, _ := realService()
	e := newEngine(t, svc)

	w := get(e, "/api/catalog")
	require.Equal(t, http.StatusOK, w.Code)
	var resp rtypes.CatalogResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Alcohols, "ethanol")
	assert.NotEmpty(t, resp.Catalysts)
	assert.Len(t, resp.ReactionTypes, 4)
	assert.Contains(t, resp.SuggestedCatalysts["halogenation"], "hbr")
}

func TestPages(t *testing.T) {
	svc, _ := realService()
	e := newEngine(t, svc)

	w := get(e, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	body := w.Body.String()
	assert.Contains(t, body, `id="reaction-form"`)
	assert.Contains(t, body, `<option value="halogenation">`)
	assert.Contains(t, body, `<option value="ethanol">`)

	w = get(e, "/history/view")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No reactions saved yet.")

	postForm(e, url.Values{
		"compound":      {"ethanol"},
		"catalyst":      {"hbr"},
		"reaction_type": {"halogenation"},
		"save_to_db":    {"true"},
	})
	w = get(e, "/history/view")
	assert.Contains(t, w.Body.String(), "<code>CCBr</code>")
}

func TestHistoryView_StoreError(t *testing.T) {
	svc := new(MockService)
	svc.On("History", mock.Anything, 0).Return(nil, errors.New("down"))
	e := newEngine(t, svc)

	w := get(e, "/history/view")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "History is unavailable right now.")
}

func TestHealth(t *testing.T) {
	e := gin.New()
	NewHealthHandler("1.2.3",
		CheckerFunc("store", func(context.Context) error { return nil }),
		CheckerFunc("cache", func(context.Context) error { return errors.New("dial tcp: refused") }),
	).RegisterRoutes(e)

	w := get(e, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)
	var live LivenessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &live))
	assert.Equal(t, common.HealthUp, live.Status)
	assert.Equal(t, "1.2.3", live.Version)

	w = get(e, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var report common.HealthReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, common.HealthDown, report.Status)
	require.Len(t, report.Components, 2)
	assert.Equal(t, "store", report.Components[0].Name)
	assert.Equal(t, common.HealthUp, report.Components[0].Status)
	assert.Equal(t, "dial tcp: refused", report.Components[1].Message)
}

func TestHealth_ReadyWithoutCheckers(t *testing.T) {
	e := gin.New()
	NewHealthHandler("dev").RegisterRoutes(e)

	w := get(e, "/readyz")
	assert.Equal(t, http.StatusOK, w.Code)
}

//Personal.AI order the ending
