package types

import "github.com/google/uuid"

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// IngredientAmount is one line of a recipe being created.
type IngredientAmount struct {
	ID     uuid.UUID `json:"id" validate:"required"`
	Amount int       `json:"amount" validate:"min=1"`
}

// CreateRecipeRequest represents the request body for creating a recipe.
// Validation runs in the service layer.
type CreateRecipeRequest struct {
	Name        string             `json:"name" validate:"required,max=256"`
	Text        string             `json:"text" validate:"required"`
	CookingTime int                `json:"cooking_time" validate:"min=1"`
	Ingredients []IngredientAmount `json:"ingredients" validate:"required,min=1,unique=ID,dive"`
}

// UpdateRecipeRequest is a partial update. Nil fields are left unchanged;
// a non-nil Ingredients replaces every line of the recipe.
type UpdateRecipeRequest struct {
	Name        *string            `json:"name" validate:"omitnil,min=1,max=256"`
	Text        *string            `json:"text" validate:"omitnil,min=1"`
	CookingTime *int               `json:"cooking_time" validate:"omitnil,min=1"`
	Ingredients []IngredientAmount `json:"ingredients" validate:"omitnil,min=1,unique=ID,dive"`
}

// RecipeFilter selects a page of recipes. The flag filters apply to the
// viewer's own edges.
type RecipeFilter struct {
	Page             int
	Limit            int
	Author           uuid.UUID
	IsFavorited      bool
	IsInShoppingCart bool
}
