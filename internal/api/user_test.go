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

func TestSubscribeLifecycle(t *testing.T) {
	s := newTestServer(t)
	alice := testhelpers.CreateUser(t, s.db, "alice")
	bob := testhelpers.CreateUser(t, s.db, "bob")
	for _, name := range []string{"one", "two", "three", "four"} {
		testhelpers.CreateRecipe(t, s.db, bob, name)
	}
	token := testhelpers.IssueToken(t, alice)
	path := "/api/v1/users/" + bob.ID.String() + "/subscribe"

	w := s.do(t, http.MethodPost, path+"?recipes_limit=2", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	projection := decode[types.FollowProjection](t, w)
	assert.Equal(t, bob.ID, projection.ID)
	assert.True(t, projection.IsSubscribed)
	assert.Len(t, projection.Recipes, 2)
	assert.EqualValues(t, 4, projection.RecipesCount)

	w = s.do(t, http.MethodPost, path, token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[types.ErrorResponse](t, w)
	assert.Equal(t, "duplicate_edge", resp.Error)
	assert.Equal(t, "already in subscriptions", resp.Detail)

	w = s.do(t, http.MethodGet, "/api/v1/users/subscriptions", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[types.Page[types.FollowProjection]](t, w)
	assert.EqualValues(t, 1, page.Count)
	require.Len(t, page.Results, 1)
	assert.Len(t, page.Results[0].Recipes, 3)

	w = s.do(t, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "edge_not_found", errorCode(t, w))
}

func TestSubscribeRejects(t *testing.T) {
	s := newTestServer(t)
	alice := testhelpers.CreateUser(t, s.db, "alice")
	token := testhelpers.IssueToken(t, alice)

	tests := []struct {
		name   string
		path   string
		token  string
		status int
		code   string
	}{
		{"self", "/api/v1/users/" + alice.ID.String() + "/subscribe", token, http.StatusBadRequest, "self_reference_not_allowed"},
		{"unknown user", "/api/v1/users/00000000-0000-0000-0000-000000000001/subscribe", token, http.StatusNotFound, "not_found"},
		{"malformed id", "/api/v1/users/nope/subscribe", token, http.StatusNotFound, "not_found"},
		{"anonymous", "/api/v1/users/" + alice.ID.String() + "/subscribe", "", http.StatusUnauthorized, "unauthenticated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, tt.path, tt.token, nil)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}

	var count int64
	require.NoError(t, s.db.Model(&models.Follow{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGetUserProfile(t *testing.T) {
	s := newTestServer(t)
	alice := testhelpers.CreateUser(t, s.db, "alice")
	bob := testhelpers.CreateUser(t, s.db, "bob")
	testhelpers.AddFollow(t, s.db, alice, bob)
	path := "/api/v1/users/" + bob.ID.String()

	w := s.do(t, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[types.UserProfile](t, w).IsSubscribed)

	w = s.do(t, http.MethodGet, path, testhelpers.IssueToken(t, alice), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[types.UserProfile](t, w).IsSubscribed)
}

func TestDeleteMeCascades(t *testing.T) {
	s := newTestServer(t)
	alice := testhelpers.CreateUser(t, s.db, "alice")
	bob := testhelpers.CreateUser(t, s.db, "bob")
	recipe := testhelpers.CreateRecipe(t, s.db, alice, "pie")
	testhelpers.AddFollow(t, s.db, bob, alice)
	testhelpers.AddFavorite(t, s.db, bob, recipe)

	w := s.do(t, http.MethodDelete, "/api/v1/users/me", testhelpers.IssueToken(t, alice), nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	for _, model := range []any{&models.Follow{}, &models.Favorite{}, &models.Recipe{}} {
		var count int64
		require.NoError(t, s.db.Model(model).Count(&count).Error)
		assert.Zero(t, count)
	}
}
