package router

import (
	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/api"
	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/relation"
	"github.com/foodgram/backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Services bundles everything the handlers depend on.
type Services struct {
	DB            *gorm.DB
	Redis         *redis.Client
	Relations     *relation.Manager
	Auth          service.IAuthService
	Users         service.IUserService
	Recipes       service.IRecipeService
	Ingredients   service.IIngredientService
	Subscriptions service.ISubscriptionService
	Shopping      service.IShoppingListService
}

// SetupRouter configures the application routes
func SetupRouter(cfg *config.Config, svc Services) *gin.Engine {
	if cfg.Env.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSOrigins))

	api.NewHealthHandler(svc.DB, svc.Redis).RegisterRoutes(router)

	limiter := middleware.NewRateLimiter(svc.Redis, middleware.RateLimitConfig{
		Window:    cfg.RateLimit.Window,
		Limit:     cfg.RateLimit.Limit,
		KeyPrefix: "ratelimit:relations:",
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	api.NewAuthHandler(svc.Auth).RegisterRoutes(v1)
	api.NewUserHandler(svc.Users, svc.Subscriptions, svc.Relations, svc.Auth, limiter).RegisterRoutes(v1)
	api.NewRecipeHandler(svc.Recipes, svc.Shopping, svc.Relations, svc.Auth, limiter).RegisterRoutes(v1)
	api.NewIngredientHandler(svc.Ingredients).RegisterRoutes(v1)

	return router
}
