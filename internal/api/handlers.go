package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/relation"
	"github.com/foodgram/backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// HealthHandler reports whether the database and, when configured, Redis
// are reachable.
type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewHealthHandler(db *gorm.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

func (h *HealthHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/health", h.HealthCheck)
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	body := gin.H{"status": "healthy", "database": "ok", "redis": "disabled"}

	if err := database.HealthCheck(ctx, h.db); err != nil {
		status = http.StatusServiceUnavailable
		body["status"] = "unhealthy"
		body["database"] = err.Error()
	}
	if h.redis != nil {
		body["redis"] = "ok"
		if err := h.redis.Ping(ctx).Err(); err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "unhealthy"
			body["redis"] = err.Error()
		}
	}
	c.JSON(status, body)
}

// parseID reads the :id path parameter. Malformed ids cannot name an
// existing entity and are reported as not found.
func parseID(c *gin.Context, entity string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, &service.NotFoundError{Entity: entity})
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return v
}

// queryFlag accepts 1 or true.
func queryFlag(c *gin.Context, name string) bool {
	v, err := strconv.ParseBool(c.Query(name))
	return err == nil && v
}

// toggleHandler serves both directions of one relation: 201 with the
// projection on add, 204 on remove.
func toggleHandler[P any](rel *relation.Manager, verb service.Verb, entity string, configure func(c *gin.Context) service.ToggleConfig[P]) gin.HandlerFunc {
	return func(c *gin.Context) {
		target, ok := parseID(c, entity)
		if !ok {
			return
		}

		res, err := service.Toggle(c.Request.Context(), rel, configure(c), verb, middleware.UserID(c), target)
		if err != nil {
			writeError(c, err)
			return
		}
		if res.Outcome == service.Removed {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusCreated, res.Projection)
	}
}
