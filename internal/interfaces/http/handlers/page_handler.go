package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	app "github.com/turtacn/ReactionLab/internal/application/reaction"
	domain "github.com/turtacn/ReactionLab/internal/domain/reaction"
	"github.com/turtacn/ReactionLab/internal/infrastructure/monitoring/logging"
	rtypes "github.com/turtacn/ReactionLab/pkg/types/reaction"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("pages").Funcs(template.FuncMap{
		"reactionLabel": func(code string) string {
			if l, ok := domain.ReactionTypeLabel(code); ok {
				return l
			}
			return code
		},
		"catalystLabel": func(code string) string {
			if l, ok := domain.CatalystLabel(code); ok {
				return l
			}
			return code
		},
	}).ParseFS(templateFS, "templates/*.html")
}

// PageHandler renders the HTML shells.
type PageHandler struct {
	svc     app.Service
	version string
	logger  logging.Logger
}

// NewPageHandler creates a PageHandler.
func NewPageHandler(svc app.Service, version string, log logging.Logger) *PageHandler {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &PageHandler{svc: svc, version: version, logger: log.Named("pages")}
}

// RegisterRoutes binds / and /history/view to r.
func (h *PageHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.Index)
	r.GET("/history/view", h.HistoryView)
}

type indexPage struct {
	Title   string
	Version string
	Catalog rtypes.CatalogResponse
}

type historyPage struct {
	Title   string
	Version string
	Records []*domain.Record
	Error   string
}

// Index renders the prediction form.
func (h *PageHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", indexPage{
		Title:   "Predict",
		Version: h.version,
		Catalog: h.svc.Catalog(),
	})
}

// HistoryView renders the saved reactions.  A store failure is shown on the
// page rather than failing the request.
func (h *PageHandler) HistoryView(c *gin.Context) {
	page := historyPage{Title: "History", Version: h.version}
	records, err := h.svc.History(c.Request.Context(), parseLimit(c))
	if err != nil {
		logging.FromContext(c.Request.Context(), h.logger).Error("failed to list reactions", logging.Err(err))
		page.Error = "History is unavailable right now."
	}
	page.Records = records
	c.HTML(http.StatusOK, "history.html", page)
}

//Personal.AI order the ending
