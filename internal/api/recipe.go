package api

import (
	"net/http"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/relation"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const shoppingListFilename = "shopping_cart.txt"

// RecipeHandler serves recipes, favorites and the shopping cart.
type RecipeHandler struct {
	recipes   service.IRecipeService
	shopping  service.IShoppingListService
	relations *relation.Manager
	auth      middleware.TokenValidator
	limiter   *middleware.RateLimiter
}

func NewRecipeHandler(
	recipes service.IRecipeService,
	shopping service.IShoppingListService,
	relations *relation.Manager,
	auth middleware.TokenValidator,
	limiter *middleware.RateLimiter,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:   recipes,
		shopping:  shopping,
		relations: relations,
		auth:      auth,
		limiter:   limiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	required := middleware.AuthMiddleware(h.auth)
	limited := h.limiter.Middleware()

	favorite := func(*gin.Context) service.ToggleConfig[types.RecipeShort] { return h.recipes.FavoriteToggle() }
	cart := func(*gin.Context) service.ToggleConfig[types.RecipeShort] { return h.recipes.ShoppingCartToggle() }
	{
		recipes.GET("", middleware.OptionalAuth(h.auth), h.ListRecipes)
		recipes.POST("", required, h.CreateRecipe)
		recipes.GET("/download_shopping_cart", required, h.DownloadShoppingCart)
		recipes.GET("/:id", middleware.OptionalAuth(h.auth), h.GetRecipe)
		recipes.PATCH("/:id", required, h.UpdateRecipe)
		recipes.DELETE("/:id", required, h.DeleteRecipe)

		recipes.POST("/:id/favorite", required, limited, toggleHandler(h.relations, service.Add, "recipe", favorite))
		recipes.DELETE("/:id/favorite", required, limited, toggleHandler(h.relations, service.Remove, "recipe", favorite))
		recipes.POST("/:id/shopping_cart", required, limited, toggleHandler(h.relations, service.Add, "recipe", cart))
		recipes.DELETE("/:id/shopping_cart", required, limited, toggleHandler(h.relations, service.Remove, "recipe", cart))
	}
}

// ListRecipes serves a page of recipes, optionally filtered by author and by
// the caller's favorites or shopping cart (is_favorited=1,
// is_in_shopping_cart=1).
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	filter := types.RecipeFilter{
		Page:             queryInt(c, "page"),
		Limit:            queryInt(c, "limit"),
		IsFavorited:      queryFlag(c, "is_favorited"),
		IsInShoppingCart: queryFlag(c, "is_in_shopping_cart"),
	}
	if author := c.Query("author"); author != "" {
		id, err := uuid.Parse(author)
		if err != nil {
			writeError(c, badRequest("author must be a user id"))
			return
		}
		filter.Author = id
	}

	page, err := h.recipes.ListRecipes(c.Request.Context(), middleware.UserID(c), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, badRequest(err.Error()))
		return
	}

	ctx := c.Request.Context()
	viewer := middleware.UserID(c)
	recipe, err := h.recipes.CreateRecipe(ctx, viewer, &req)
	if err != nil {
		writeError(c, err)
		return
	}
	detail, err := h.recipes.Detail(ctx, viewer, recipe)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, detail)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := parseID(c, "recipe")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	recipe, err := h.recipes.GetRecipe(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	detail, err := h.recipes.Detail(ctx, middleware.UserID(c), recipe)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// UpdateRecipe applies a partial update; only the author may change a recipe.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := parseID(c, "recipe")
	if !ok {
		return
	}
	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, badRequest(err.Error()))
		return
	}

	ctx := c.Request.Context()
	viewer := middleware.UserID(c)
	recipe, err := h.recipes.UpdateRecipe(ctx, viewer, id, &req)
	if err != nil {
		writeError(c, err)
		return
	}
	detail, err := h.recipes.Detail(ctx, viewer, recipe)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := parseID(c, "recipe")
	if !ok {
		return
	}
	if err := h.recipes.DeleteRecipe(c.Request.Context(), middleware.UserID(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart returns the caller's consolidated shopping list as a
// plain text attachment.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	lines, err := h.shopping.Build(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+shoppingListFilename+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(service.RenderShoppingList(lines)))
}
