// Package handlers implements the HTTP endpoints of the prediction page and
// its JSON API.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ReactionLab/pkg/errors"
	"github.com/turtacn/ReactionLab/pkg/types/common"
)

// parseLimit reads ?limit and returns 0 when absent or not a number.
func parseLimit(c *gin.Context) int {
	v := c.Query("limit")
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

// writeFailure writes the {success:false, error} envelope.  Domain failures
// keep status 200.
func writeFailure(c *gin.Context, status int, message string, code errors.ErrorCode) {
	c.JSON(status, common.NewErrorResponse(message, code.String()))
}

// writeAppError maps an infrastructure error to its HTTP status.  Internal
// failures are masked.
func writeAppError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = errors.DefaultMessageForCode(code)
	}
	_ = c.Error(err)
	writeFailure(c, status, msg, code)
}

//Personal.AI order the ending
