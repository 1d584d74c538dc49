package middleware

import (
	"net/http"

	"github.com/foodgram/backend/internal/logging"
	"github.com/foodgram/backend/internal/types"
	"github.com/gin-gonic/gin"
)

// Recovery turns a panic into a logged 500 with the standard error body.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logging.Ctx(c.Request.Context()).Error().
			Interface("panic", recovered).
			Str("path", c.Request.URL.Path).
			Msg("recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:  "internal_error",
			Detail: "internal server error",
		})
	})
}
