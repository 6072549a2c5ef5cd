package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ReactionLab/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ReactionLab/pkg/errors"
	"github.com/turtacn/ReactionLab/pkg/types/common"
)

// Recovery turns a panic into the JSON failure envelope.  The status stays
// 200 because the page branches on the success flag.
func Recovery(log logging.Logger) gin.HandlerFunc {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if r == http.ErrAbortHandler {
				panic(r)
			}
			logging.FromContext(c.Request.Context(), log).Error("panic recovered",
				logging.String("path", c.Request.URL.Path),
				logging.Any("panic", r),
				logging.String("stack", string(debug.Stack())))
			c.AbortWithStatusJSON(http.StatusOK, common.NewErrorResponse(
				fmt.Sprintf("An error occurred: %v", r), errors.ErrCodeInternal.String()))
		}()
		c.Next()
	}
}

//Personal.AI order the ending
