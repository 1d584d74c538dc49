package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/foodgram/backend/internal/logging"
	"github.com/foodgram/backend/internal/relation"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
	"github.com/gin-gonic/gin"
)

// classify maps an error onto status, machine code and human detail.
// Relation errors wrap no service sentinel and are checked first.
func classify(err error) (int, string, string) {
	switch {
	case errors.Is(err, relation.ErrSelfReference):
		return http.StatusBadRequest, "self_reference_not_allowed", err.Error()
	case errors.Is(err, relation.ErrDuplicateEdge):
		return http.StatusBadRequest, "duplicate_edge", err.Error()
	case errors.Is(err, relation.ErrEdgeNotFound):
		return http.StatusBadRequest, "edge_not_found", err.Error()
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not_found", err.Error()
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated", err.Error()
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "forbidden", "you do not have permission to perform this action"
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, "validation_failed", err.Error()
	}
	return http.StatusInternalServerError, "internal_error", "internal server error"
}

func writeError(c *gin.Context, err error) {
	status, code, detail := classify(err)
	log := logging.Ctx(c.Request.Context())
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	} else {
		log.Debug().Err(err).Str("code", code).Msg("request rejected")
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, types.ErrorResponse{Error: code, Detail: detail})
}

func badRequest(reason string) error {
	return fmt.Errorf("%w: %s", service.ErrValidation, reason)
}
