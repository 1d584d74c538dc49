package api

import (
	"net/http"
	"testing"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/testhelpers"
	"github.com/foodgram/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetRecipe(t *testing.T) {
	s := newTestServer(t)
	alice := testhelpers.CreateUser(t, s.db, "alice")
	flour := testhelpers.CreateIngredient(t, s.db, "flour", "g")
	token := testhelpers.IssueToken(t, alice)

	w := s.do(t, http.MethodPost, "/api/v1/recipes", token, types.CreateRecipeRequest{
		Name:        "bread",
		Text:        "bake it",
		CookingTime: 60,
		Ingredients: []types.IngredientAmount{{ID: flour.ID, Amount: 500}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[types.RecipeDetail](t, w)
	assert.Equal(t, "bread", created.Name)
	assert.Equal(t, alice.ID, created.Author.ID)
	require.Len(t, created.Ingredients, 1)
	assert.Equal(t, 500, created.Ingredients[0].Amount)

	w = s.do(t, http.MethodGet, "/api/v1/recipes/"+created.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[types.RecipeDetail](t, w).IsFavorited)

	w = s.do(t, http.MethodGet, "/api/v1/recipes/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateRecipeInvalid(t *testing.T) {
	s := newTestServer(t)
	alice := testhelpers.CreateUser(t, s.db, "alice")

	w := s.do(t, http.MethodPost, "/api/v1/recipes", testhelpers.IssueToken(t, alice), types.CreateRecipeRequest{
		Name:        "nothing",
		Text:        "empty",
		CookingTime: 0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_failed", errorCode(t, w))
}

func TestDeleteRecipeForbidden(t *testing.T) {
	s := newTestServer(t)
	alice := testhelpers.CreateUser(t, s.db, "alice")
	bob := testhelpers.CreateUser(t, s.db, "bob")
	recipe := testhelpers.CreateRecipe(t, s.db, alice, "pie")
	path := "/api/v1/recipes/" + recipe.ID.String()

	w := s.do(t, http.MethodDelete, path, testhelpers.IssueToken(t, bob), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodDelete, path, testhelpers.IssueToken(t, alice), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFavoriteAndCartToggles(t *testing.T) {
	s := newTestServer(t)
	alice := testhelpers.CreateUser(t, s.db, "alice")
	recipe := testhelpers.CreateRecipe(t, s.db, alice, "pie")
	token := testhelpers.IssueToken(t, alice)

	for _, tc := range []struct {
		suffix string
		label  string
	}{
		{"favorite", "favorites"},
		{"shopping_cart", "shopping cart"},
	} {
		t.Run(tc.suffix, func(t *testing.T) {
			path := "/api/v1/recipes/" + recipe.ID.String() + "/" + tc.suffix

			w := s.do(t, http.MethodPost, path, token, nil)
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
			short := decode[types.RecipeShort](t, w)
			assert.Equal(t, recipe.ID, short.ID)
			assert.Equal(t, "pie", short.Name)

			w = s.do(t, http.MethodPost, path, token, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "already in "+tc.label, decode[types.ErrorResponse](t, w).Detail)

			w = s.do(t, http.MethodDelete, path, token, nil)
			assert.Equal(t, http.StatusNoContent, w.Code)

			w = s.do(t, http.MethodDelete, path, token, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "not found in "+tc.label, decode[types.ErrorResponse](t, w).Detail)
		})
	}

	var favorites int64
	require.NoError(t, s.db.Model(&models.Favorite{}).Count(&favorites).Error)
	assert.Zero(t, favorites)
}

func TestDownloadShoppingCart(t *testing.T) {
	s := newTestServer(t)
	alice := testhelpers.CreateUser(t, s.db, "alice")
	sugar := testhelpers.CreateIngredient(t, s.db, "sugar", "g")
	eggs := testhelpers.CreateIngredient(t, s.db, "egg", "pcs")
	cake := testhelpers.CreateRecipe(t, s.db, alice, "cake",
		testhelpers.Line{Ingredient: sugar, Amount: 200},
		testhelpers.Line{Ingredient: eggs, Amount: 3},
	)
	cookies := testhelpers.CreateRecipe(t, s.db, alice, "cookies",
		testhelpers.Line{Ingredient: sugar, Amount: 100},
	)
	testhelpers.AddToCart(t, s.db, alice, cake)
	testhelpers.AddToCart(t, s.db, alice, cookies)

	w := s.do(t, http.MethodGet, "/api/v1/recipes/download_shopping_cart", testhelpers.IssueToken(t, alice), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="shopping_cart.txt"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "egg (pcs) — 3\nsugar (g) — 300", w.Body.String())
}

func TestDownloadShoppingCartRequiresAuth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api/v1/recipes/download_shopping_cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateRecipeEndpoint(t *testing.T) {
	s := newTestServer(t)
	alice := testhelpers.CreateUser(t, s.db, "alice")
	bob := testhelpers.CreateUser(t, s.db, "bob")
	salt := testhelpers.CreateIngredient(t, s.db, "salt", "g")
	pepper := testhelpers.CreateIngredient(t, s.db, "pepper", "g")
	recipe := testhelpers.CreateRecipe(t, s.db, alice, "soup", testhelpers.Line{Ingredient: salt, Amount: 5})
	path := "/api/v1/recipes/" + recipe.ID.String()

	body := map[string]any{
		"name":        "spicy soup",
		"ingredients": []map[string]any{{"id": pepper.ID, "amount": 2}},
	}

	w := s.do(t, http.MethodPatch, path, testhelpers.IssueToken(t, bob), body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPatch, path, testhelpers.IssueToken(t, alice), body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	detail := decode[types.RecipeDetail](t, w)
	assert.Equal(t, "spicy soup", detail.Name)
	assert.Equal(t, 10, detail.CookingTime)
	require.Len(t, detail.Ingredients, 1)
	assert.Equal(t, "pepper", detail.Ingredients[0].Name)

	w = s.do(t, http.MethodPatch, path, testhelpers.IssueToken(t, alice), map[string]any{"ingredients": []any{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_failed", errorCode(t, w))
}

func TestListRecipesEndpoint(t *testing.T) {
	s := newTestServer(t)
	alice := testhelpers.CreateUser(t, s.db, "alice")
	bob := testhelpers.CreateUser(t, s.db, "bob")
	pie := testhelpers.CreateRecipe(t, s.db, bob, "pie")
	testhelpers.CreateRecipe(t, s.db, bob, "stew")
	testhelpers.CreateRecipe(t, s.db, alice, "tart")
	testhelpers.AddFavorite(t, s.db, alice, pie)
	token := testhelpers.IssueToken(t, alice)

	w := s.do(t, http.MethodGet, "/api/v1/recipes", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[types.Page[types.RecipeDetail]](t, w)
	assert.Equal(t, int64(3), page.Count)
	assert.Len(t, page.Results, 3)

	w = s.do(t, http.MethodGet, "/api/v1/recipes?is_favorited=1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page = decode[types.Page[types.RecipeDetail]](t, w)
	require.Len(t, page.Results, 1)
	assert.Equal(t, pie.ID, page.Results[0].ID)
	assert.True(t, page.Results[0].IsFavorited)

	w = s.do(t, http.MethodGet, "/api/v1/recipes?author="+alice.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page = decode[types.Page[types.RecipeDetail]](t, w)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "tart", page.Results[0].Name)

	w = s.do(t, http.MethodGet, "/api/v1/recipes?author=nobody", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFavoriteWithDeletedUserToken(t *testing.T) {
	s := newTestServer(t)
	alice := testhelpers.CreateUser(t, s.db, "alice")
	bob := testhelpers.CreateUser(t, s.db, "bob")
	recipe := testhelpers.CreateRecipe(t, s.db, bob, "pie")
	token := testhelpers.IssueToken(t, alice)
	require.NoError(t, s.db.Exec("DELETE FROM users WHERE id = ?", alice.ID).Error)

	w := s.do(t, http.MethodPost, "/api/v1/recipes/"+recipe.ID.String()+"/favorite", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthenticated", errorCode(t, w))
}
