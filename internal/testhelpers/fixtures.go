package testhelpers

import (
	"testing"
	"time"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestJWTSecret signs tokens produced by IssueToken.
const TestJWTSecret = "test-jwt-secret"

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// CreateUser inserts a user whose email is derived from username.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    username,
		LastName:     "Tester",
		PasswordHash: string(hash),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ing := &models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(ing).Error)
	return ing
}

// Line is a recipe ingredient line for CreateRecipe.
type Line struct {
	Ingredient *models.Ingredient
	Amount     int
}

// CreateRecipe inserts a recipe with its lines in one statement.
func CreateRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, lines ...Line) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		Name:        name,
		Text:        name + " instructions",
		CookingTime: 10,
		AuthorID:    author.ID,
	}
	for i, l := range lines {
		recipe.Ingredients = append(recipe.Ingredients, models.RecipeIngredient{
			IngredientID: l.Ingredient.ID,
			Amount:       l.Amount,
			Position:     i,
		})
	}
	require.NoError(t, db.Create(recipe).Error)
	return recipe
}

func AddFollow(t *testing.T, db *gorm.DB, user, following *models.User) {
	t.Helper()
	require.NoError(t, db.Create(&models.Follow{UserID: user.ID, FollowingID: following.ID}).Error)
}

func AddFavorite(t *testing.T, db *gorm.DB, user *models.User, recipe *models.Recipe) {
	t.Helper()
	require.NoError(t, db.Create(&models.Favorite{UserID: user.ID, RecipeID: recipe.ID}).Error)
}

func AddToCart(t *testing.T, db *gorm.DB, user *models.User, recipe *models.Recipe) {
	t.Helper()
	require.NoError(t, db.Create(&models.ShoppingCart{UserID: user.ID, RecipeID: recipe.ID}).Error)
}

// IssueToken signs a bearer token for user with TestJWTSecret.
func IssueToken(t *testing.T, user *models.User) string {
	t.Helper()
	return IssueTokenFor(t, user.ID, user.Username, time.Hour)
}

func IssueTokenFor(t *testing.T, userID uuid.UUID, username string, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:   userID,
		Username: username,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(TestJWTSecret))
	require.NoError(t, err)
	return signed
}
