package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	app "github.com/turtacn/ReactionLab/internal/application/reaction"
	"github.com/turtacn/ReactionLab/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ReactionLab/pkg/errors"
	rtypes "github.com/turtacn/ReactionLab/pkg/types/reaction"
)

// maxMemory bounds the in-memory part of a multipart form.
const maxMemory = 32 << 10

// ReactionHandler serves prediction, history and catalog requests.
type ReactionHandler struct {
	svc    app.Service
	logger logging.Logger
}

// NewReactionHandler creates a ReactionHandler.
func NewReactionHandler(svc app.Service, log logging.Logger) *ReactionHandler {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &ReactionHandler{svc: svc, logger: log.Named("handler")}
}

// RegisterRoutes binds the JSON endpoints to r.
func (h *ReactionHandler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/predict", h.Predict)
	r.GET("/history", h.History)
	r.GET("/api/catalog", h.Catalog)
}

// Predict handles POST /predict.  Every outcome, including an unexpected
// service error, is reported in the JSON envelope with status 200; only an
// oversized body is rejected at the transport level.
func (h *ReactionHandler) Predict(c *gin.Context) {
	if err := parseForm(c); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeFailure(c, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit), errors.ErrCodeBadRequest)
			return
		}
		writeFailure(c, http.StatusBadRequest, "malformed form body", errors.ErrCodeBadRequest)
		return
	}

	in := app.PredictInput{
		Compound:     c.PostForm("compound"),
		Catalyst:     c.PostForm("catalyst"),
		ReactionType: c.PostForm("reaction_type"),
		SaveToDB:     c.PostForm("save_to_db") == "true",
	}

	out, err := h.svc.Predict(c.Request.Context(), in)
	if err != nil {
		logging.FromContext(c.Request.Context(), h.logger).Error("error in prediction",
			logging.String("compound", in.Compound), logging.Err(err))
		_ = c.Error(err)
		writeFailure(c, http.StatusOK, fmt.Sprintf("An error occurred: %v", err), errors.ErrCodePredictionFault)
		return
	}
	if !out.Success {
		writeFailure(c, http.StatusOK, out.Error, out.Code)
		return
	}

	c.JSON(http.StatusOK, rtypes.PredictResponse{
		Success:         true,
		Reactant:        out.Reactant,
		ReactantSVG:     out.ReactantSVG,
		Catalyst:        out.Catalyst,
		ReactionType:    out.ReactionType,
		Product:         out.Product,
		ProductSVG:      out.ProductSVG,
		ReactionDetails: out.Details,
	})
}

// History handles GET /history.
func (h *ReactionHandler) History(c *gin.Context) {
	records, err := h.svc.History(c.Request.Context(), parseLimit(c))
	if err != nil {
		logging.FromContext(c.Request.Context(), h.logger).Error("failed to list reactions", logging.Err(err))
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, rtypes.HistoryResponse{
		Success:   true,
		Reactions: app.ToRecordDTOs(records),
	})
}

// Catalog handles GET /api/catalog.
func (h *ReactionHandler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Catalog())
}

// parseForm reads url-encoded and multipart bodies alike.
func parseForm(c *gin.Context) error {
	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		err := c.Request.ParseMultipartForm(maxMemory)
		if err == http.ErrNotMultipart {
			return nil
		}
		return err
	}
	return c.Request.ParseForm()
}

//Personal.AI order the ending
