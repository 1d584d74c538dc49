package types

import (
	"time"

	"github.com/google/uuid"
)

type TokenResponse struct {
	Token string `json:"token"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// UserProfile is a user as seen by a viewer.
type UserProfile struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
	Avatar       *string   `json:"avatar"`
}

type RecipeShort struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	CookingTime int       `json:"cooking_time"`
}

// FollowProjection is a followed author with a capped preview of their recipes.
type FollowProjection struct {
	UserProfile
	Recipes      []RecipeShort `json:"recipes"`
	RecipesCount int64         `json:"recipes_count"`
}

type IngredientLine struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

type RecipeDetail struct {
	ID               uuid.UUID        `json:"id"`
	Name             string           `json:"name"`
	Text             string           `json:"text"`
	CookingTime      int              `json:"cooking_time"`
	Author           UserProfile      `json:"author"`
	Ingredients      []IngredientLine `json:"ingredients"`
	IsFavorited      bool             `json:"is_favorited"`
	IsInShoppingCart bool             `json:"is_in_shopping_cart"`
	CreatedAt        time.Time        `json:"created_at"`
}

// Page wraps a paginated result set.
type Page[T any] struct {
	Count   int64 `json:"count"`
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Results []T   `json:"results"`
}
