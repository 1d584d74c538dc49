package api

import (
	"net/http"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/relation"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
	"github.com/gin-gonic/gin"
)

// UserHandler serves profiles and subscriptions.
type UserHandler struct {
	users         service.IUserService
	subscriptions service.ISubscriptionService
	relations     *relation.Manager
	auth          middleware.TokenValidator
	limiter       *middleware.RateLimiter
}

func NewUserHandler(
	users service.IUserService,
	subscriptions service.ISubscriptionService,
	relations *relation.Manager,
	auth middleware.TokenValidator,
	limiter *middleware.RateLimiter,
) *UserHandler {
	return &UserHandler{
		users:         users,
		subscriptions: subscriptions,
		relations:     relations,
		auth:          auth,
		limiter:       limiter,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	required := middleware.AuthMiddleware(h.auth)
	{
		users.GET("/me", required, h.Me)
		users.DELETE("/me", required, h.DeleteMe)
		users.GET("/subscriptions", required, h.Subscriptions)
		users.GET("/:id", middleware.OptionalAuth(h.auth), h.GetUser)

		follow := func(c *gin.Context) service.ToggleConfig[types.FollowProjection] {
			return h.subscriptions.FollowToggle(queryInt(c, "recipes_limit"))
		}
		limited := h.limiter.Middleware()
		users.POST("/:id/subscribe", required, limited, toggleHandler(h.relations, service.Add, "user", follow))
		users.DELETE("/:id/subscribe", required, limited, toggleHandler(h.relations, service.Remove, "user", follow))
	}
}

func (h *UserHandler) Me(c *gin.Context) {
	id := middleware.UserID(c)
	profile, err := h.users.Profile(c.Request.Context(), id, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) DeleteMe(c *gin.Context) {
	if err := h.users.DeleteUser(c.Request.Context(), middleware.UserID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c, "user")
	if !ok {
		return
	}
	profile, err := h.users.Profile(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Subscriptions lists the users the caller follows, each with a recipe
// preview bounded by recipes_limit.
func (h *UserHandler) Subscriptions(c *gin.Context) {
	page, err := h.subscriptions.ListSubscriptions(
		c.Request.Context(),
		middleware.UserID(c),
		queryInt(c, "page"),
		queryInt(c, "limit"),
		queryInt(c, "recipes_limit"),
	)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
