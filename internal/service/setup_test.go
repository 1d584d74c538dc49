package service

import (
	"testing"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/relation"
	"github.com/foodgram/backend/internal/storage"
	"github.com/foodgram/backend/internal/testhelpers"
	"gorm.io/gorm"
)

type services struct {
	db       *gorm.DB
	rel      *relation.Manager
	users    *UserService
	recipes  *RecipeService
	subs     *SubscriptionService
	shopping *ShoppingListService
	auth     *AuthService
}

var testPaging = config.PaginationConfig{DefaultLimit: 6, MaxLimit: 100, RecipePreviewLimit: 3}

func newServices(t *testing.T) *services {
	t.Helper()
	db := testhelpers.SetupSQLite(t)
	rel := relation.NewManager(db)
	avatars := storage.BaseURLResolver{BaseURL: "https://cdn.example.com"}
	users := NewUserService(db, rel, avatars)
	return &services{
		db:       db,
		rel:      rel,
		users:    users,
		recipes:  NewRecipeService(db, rel, avatars, testPaging),
		subs:     NewSubscriptionService(db, rel, users, avatars, testPaging),
		shopping: NewShoppingListService(db),
		auth:     NewAuthService(db, config.JWTConfig{Secret: testhelpers.TestJWTSecret}),
	}
}
