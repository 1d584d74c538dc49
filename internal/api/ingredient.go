package api

import (
	"net/http"

	"github.com/foodgram/backend/internal/service"
	"github.com/gin-gonic/gin"
)

type IngredientHandler struct {
	ingredients service.IIngredientService
}

func NewIngredientHandler(ingredients service.IIngredientService) *IngredientHandler {
	return &IngredientHandler{ingredients: ingredients}
}

func (h *IngredientHandler) RegisterRoutes(router *gin.RouterGroup) {
	ingredients := router.Group("/ingredients")
	{
		ingredients.GET("", h.Search)
		ingredients.GET("/:id", h.GetIngredient)
	}
}

// Search matches ingredients by case-insensitive name prefix.
func (h *IngredientHandler) Search(c *gin.Context) {
	found, err := h.ingredients.Search(c.Request.Context(), c.Query("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

func (h *IngredientHandler) GetIngredient(c *gin.Context) {
	id, ok := parseID(c, "ingredient")
	if !ok {
		return
	}
	ingredient, err := h.ingredients.GetIngredient(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredient)
}
