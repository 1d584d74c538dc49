package service

import (
	"context"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
	"github.com/google/uuid"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	GenerateToken(user *models.User) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// IUserService defines the interface for user operations
type IUserService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Profile(ctx context.Context, viewer, id uuid.UUID) (types.UserProfile, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, author uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, actor, id uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	ListRecipes(ctx context.Context, viewer uuid.UUID, filter types.RecipeFilter) (types.Page[types.RecipeDetail], error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Detail(ctx context.Context, viewer uuid.UUID, recipe *models.Recipe) (types.RecipeDetail, error)
	DeleteRecipe(ctx context.Context, actor, id uuid.UUID) error
	FavoriteToggle() ToggleConfig[types.RecipeShort]
	ShoppingCartToggle() ToggleConfig[types.RecipeShort]
}

// IIngredientService defines the interface for ingredient lookups
type IIngredientService interface {
	Search(ctx context.Context, prefix string) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error)
}

// ISubscriptionService defines the interface for follow projections
type ISubscriptionService interface {
	BuildFollowProjection(ctx context.Context, viewer uuid.UUID, subject *models.User, recipesLimit int) (types.FollowProjection, error)
	ListSubscriptions(ctx context.Context, viewer uuid.UUID, page, limit, recipesLimit int) (types.Page[types.FollowProjection], error)
	FollowToggle(recipesLimit int) ToggleConfig[types.FollowProjection]
}

// IShoppingListService defines the interface for shopping list aggregation
type IShoppingListService interface {
	Build(ctx context.Context, actor uuid.UUID) ([]ShoppingLine, error)
}

var (
	_ IAuthService         = (*AuthService)(nil)
	_ IUserService         = (*UserService)(nil)
	_ IRecipeService       = (*RecipeService)(nil)
	_ IIngredientService   = (*IngredientService)(nil)
	_ ISubscriptionService = (*SubscriptionService)(nil)
	_ IShoppingListService = (*ShoppingListService)(nil)
)
