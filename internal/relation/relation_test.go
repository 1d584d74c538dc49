package relation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/testhelpers"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db     *gorm.DB
	m      *Manager
	alice  *models.User
	bob    *models.User
	recipe *models.Recipe
}

func newFixture(t *testing.T, db *gorm.DB) fixture {
	alice := testhelpers.CreateUser(t, db, "alice")
	bob := testhelpers.CreateUser(t, db, "bob")
	salt := testhelpers.CreateIngredient(t, db, "salt", "g")
	recipe := testhelpers.CreateRecipe(t, db, bob, "soup", testhelpers.Line{Ingredient: salt, Amount: 5})
	return fixture{db: db, m: NewManager(db), alice: alice, bob: bob, recipe: recipe}
}

func TestAddFollow(t *testing.T) {
	f := newFixture(t, testhelpers.SetupSQLite(t))
	ctx := context.Background()

	edge, err := f.m.Add(ctx, Follow, f.alice.ID, f.bob.ID)
	require.NoError(t, err)
	assert.Equal(t, Follow, edge.Kind)
	assert.Equal(t, f.alice.ID, edge.ActorID)
	assert.Equal(t, f.bob.ID, edge.TargetID)
	assert.NotEqual(t, uuid.Nil, edge.ID)

	ok, err := f.m.Exists(ctx, Follow, f.alice.ID, f.bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// Direction matters.
	ok, err = f.m.Exists(ctx, Follow, f.bob.ID, f.alice.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAddDuplicate(t *testing.T) {
	f := newFixture(t, testhelpers.SetupSQLite(t))
	ctx := context.Background()

	for _, kind := range []Kind{Favorite, ShoppingCart} {
		t.Run(string(kind), func(t *testing.T) {
			_, err := f.m.Add(ctx, kind, f.alice.ID, f.recipe.ID)
			require.NoError(t, err)

			_, err = f.m.Add(ctx, kind, f.alice.ID, f.recipe.ID)
			assert.ErrorIs(t, err, ErrDuplicateEdge)
		})
	}

	_, err := f.m.Add(ctx, Follow, f.alice.ID, f.bob.ID)
	require.NoError(t, err)
	_, err = f.m.Add(ctx, Follow, f.alice.ID, f.bob.ID)
	assert.ErrorIs(t, err, ErrDuplicateEdge)

	var count int64
	require.NoError(t, f.db.Model(&models.Follow{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAddSelfFollow(t *testing.T) {
	f := newFixture(t, testhelpers.SetupSQLite(t))

	_, err := f.m.Add(context.Background(), Follow, f.alice.ID, f.alice.ID)
	assert.ErrorIs(t, err, ErrSelfReference)

	var count int64
	require.NoError(t, f.db.Model(&models.Follow{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestStoreRejectsSelfFollow(t *testing.T) {
	f := newFixture(t, testhelpers.SetupSQLite(t))

	// Bypass the manager: the check constraint must hold on its own.
	err := f.db.Create(&models.Follow{UserID: f.alice.ID, FollowingID: f.alice.ID}).Error
	require.Error(t, err)
	assert.ErrorIs(t, translate(err), ErrSelfReference)
}

func TestAddMissingTarget(t *testing.T) {
	f := newFixture(t, testhelpers.SetupSQLite(t))

	_, err := f.m.Add(context.Background(), Favorite, f.alice.ID, uuid.New())
	assert.ErrorIs(t, err, ErrTargetGone)
}

func TestAddMissingActor(t *testing.T) {
	f := newFixture(t, testhelpers.SetupSQLite(t))
	ctx := context.Background()

	_, err := f.m.Add(ctx, Favorite, uuid.New(), f.recipe.ID)
	assert.ErrorIs(t, err, ErrActorGone)

	_, err = f.m.Add(ctx, Follow, uuid.New(), f.bob.ID)
	assert.ErrorIs(t, err, ErrActorGone)
}

func countEdges(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	return count
}

// raceAdd fires n concurrent Adds of the same favorite and checks that the
// store admits exactly one.
func raceAdd(t *testing.T, f fixture, n int) {
	t.Helper()
	ctx := context.Background()

	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		errs  = make([]error, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = f.m.Add(ctx, Favorite, f.alice.ID, f.recipe.ID)
		}(i)
	}
	close(start)
	wg.Wait()

	var added, duplicates int
	for _, err := range errs {
		switch {
		case err == nil:
			added++
		case errors.Is(err, ErrDuplicateEdge):
			duplicates++
		default:
			t.Errorf("unexpected add error: %v", err)
		}
	}
	assert.Equal(t, 1, added)
	assert.Equal(t, n-1, duplicates)
	assert.Equal(t, int64(1), countEdges(t, f.db, &models.Favorite{}))
}

func TestConcurrentAdd(t *testing.T) {
	raceAdd(t, newFixture(t, testhelpers.SetupSQLite(t)), 16)
}

func TestConcurrentAddPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	raceAdd(t, newFixture(t, testhelpers.SetupPostgres(t)), 32)
}

func TestRemove(t *testing.T) {
	f := newFixture(t, testhelpers.SetupSQLite(t))
	ctx := context.Background()

	err := f.m.Remove(ctx, ShoppingCart, f.alice.ID, f.recipe.ID)
	assert.ErrorIs(t, err, ErrEdgeNotFound)

	_, err = f.m.Add(ctx, ShoppingCart, f.alice.ID, f.recipe.ID)
	require.NoError(t, err)
	_, err = f.m.Add(ctx, ShoppingCart, f.bob.ID, f.recipe.ID)
	require.NoError(t, err)
	require.NoError(t, f.m.Remove(ctx, ShoppingCart, f.alice.ID, f.recipe.ID))
	assert.Equal(t, int64(1), countEdges(t, f.db, &models.ShoppingCart{}))

	// Other relations on the same pair are independent.
	err = f.m.Remove(ctx, Favorite, f.alice.ID, f.recipe.ID)
	assert.ErrorIs(t, err, ErrEdgeNotFound)

	// A failed remove leaves every stored edge in place.
	err = f.m.Remove(ctx, ShoppingCart, f.alice.ID, f.recipe.ID)
	assert.ErrorIs(t, err, ErrEdgeNotFound)
	assert.Equal(t, int64(1), countEdges(t, f.db, &models.ShoppingCart{}))
	ok, err := f.m.Exists(ctx, ShoppingCart, f.bob.ID, f.recipe.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// A removed edge can be added again.
	_, err = f.m.Add(ctx, ShoppingCart, f.alice.ID, f.recipe.ID)
	assert.NoError(t, err)
}

func TestTargets(t *testing.T) {
	f := newFixture(t, testhelpers.SetupSQLite(t))
	ctx := context.Background()
	carol := testhelpers.CreateUser(t, f.db, "carol")

	_, err := f.m.Add(ctx, Follow, f.alice.ID, f.bob.ID)
	require.NoError(t, err)

	got, err := f.m.Targets(ctx, Follow, f.alice.ID, []uuid.UUID{f.bob.ID, carol.ID})
	require.NoError(t, err)
	assert.True(t, got[f.bob.ID])
	assert.False(t, got[carol.ID])

	got, err = f.m.Targets(ctx, Follow, f.alice.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUnknownKind(t *testing.T) {
	m := NewManager(nil)
	_, err := m.Add(context.Background(), Kind("block"), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.ErrorIs(t, m.Remove(context.Background(), Kind("block"), uuid.New(), uuid.New()), ErrUnknownKind)
}

func TestPostgresConstraints(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	f := newFixture(t, testhelpers.SetupPostgres(t))
	ctx := context.Background()

	_, err := f.m.Add(ctx, Follow, f.alice.ID, f.bob.ID)
	require.NoError(t, err)
	_, err = f.m.Add(ctx, Follow, f.alice.ID, f.bob.ID)
	assert.ErrorIs(t, err, ErrDuplicateEdge)

	err = f.db.Create(&models.Follow{UserID: f.bob.ID, FollowingID: f.bob.ID}).Error
	assert.ErrorIs(t, translate(err), ErrSelfReference)

	_, err = f.m.Add(ctx, Favorite, f.alice.ID, uuid.New())
	assert.ErrorIs(t, err, ErrTargetGone)
	_, err = f.m.Add(ctx, Favorite, uuid.New(), f.recipe.ID)
	assert.ErrorIs(t, err, ErrActorGone)

	require.NoError(t, f.m.Remove(ctx, Follow, f.alice.ID, f.bob.ID))
	assert.ErrorIs(t, f.m.Remove(ctx, Follow, f.alice.ID, f.bob.ID), ErrEdgeNotFound)
}
