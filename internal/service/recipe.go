package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/logging"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/relation"
	"github.com/foodgram/backend/internal/storage"
	"github.com/foodgram/backend/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecipeService handles recipe operations
type RecipeService struct {
	db        *gorm.DB
	relations *relation.Manager
	avatars   storage.AvatarResolver
	paging    config.PaginationConfig
	validate  *validator.Validate
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, relations *relation.Manager, avatars storage.AvatarResolver, paging config.PaginationConfig) *RecipeService {
	return &RecipeService{
		db:        db,
		relations: relations,
		avatars:   avatars,
		paging:    paging,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

// CreateRecipe stores a recipe authored by author together with its lines.
func (s *RecipeService) CreateRecipe(ctx context.Context, author uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error) {
	if author == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError("%s", describeValidation(err))
	}

	recipe := &models.Recipe{
		Name:        strings.TrimSpace(req.Name),
		Text:        req.Text,
		CookingTime: req.CookingTime,
		AuthorID:    author,
		Ingredients: recipeLines(uuid.Nil, req.Ingredients),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkIngredients(tx, req.Ingredients); err != nil {
			return err
		}
		if err := tx.Create(recipe).Error; err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().
		Str("recipe_id", recipe.ID.String()).
		Str("author_id", author.String()).
		Msg("recipe created")
	return s.GetRecipe(ctx, recipe.ID)
}

// UpdateRecipe applies a partial update to a recipe owned by actor. When
// Ingredients is set the old lines are replaced in the same transaction.
func (s *RecipeService) UpdateRecipe(ctx context.Context, actor, id uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error) {
	if actor == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError("%s", describeValidation(err))
	}

	changes := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, validationError("name must not be blank")
		}
		changes["name"] = name
	}
	if req.Text != nil {
		changes["text"] = *req.Text
	}
	if req.CookingTime != nil {
		changes["cooking_time"] = *req.CookingTime
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := authorOf(tx, id, actor); err != nil {
			return err
		}

		if req.Ingredients != nil {
			if err := checkIngredients(tx, req.Ingredients); err != nil {
				return err
			}
			if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
				return fmt.Errorf("failed to delete recipe ingredients: %w", err)
			}
			if err := tx.Create(recipeLines(id, req.Ingredients)).Error; err != nil {
				return fmt.Errorf("failed to create recipe ingredients: %w", err)
			}
			// Touch updated_at even when only the lines changed.
			changes["updated_at"] = tx.NowFunc()
		}

		if len(changes) == 0 {
			return nil
		}
		if err := tx.Model(&models.Recipe{ID: id}).Updates(changes).Error; err != nil {
			return fmt.Errorf("failed to update recipe: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().Str("recipe_id", id.String()).Msg("recipe updated")
	return s.GetRecipe(ctx, id)
}

// authorOf fails unless recipe id exists and is authored by actor.
func authorOf(tx *gorm.DB, id, actor uuid.UUID) error {
	var recipe models.Recipe
	if err := tx.Select("id", "author_id").First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("recipe")
		}
		return fmt.Errorf("failed to get recipe: %w", err)
	}
	if recipe.AuthorID != actor {
		return ErrForbidden
	}
	return nil
}

func checkIngredients(tx *gorm.DB, lines []types.IngredientAmount) error {
	ids := make([]uuid.UUID, len(lines))
	for i, line := range lines {
		ids[i] = line.ID
	}
	var known int64
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&known).Error; err != nil {
		return fmt.Errorf("failed to check ingredients: %w", err)
	}
	if known != int64(len(ids)) {
		return validationError("unknown ingredient")
	}
	return nil
}

// recipeLines keeps request order in Position. recipeID may be uuid.Nil when
// gorm fills it from the parent on create.
func recipeLines(recipeID uuid.UUID, lines []types.IngredientAmount) []models.RecipeIngredient {
	out := make([]models.RecipeIngredient, len(lines))
	for i, line := range lines {
		out[i] = models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: line.ID,
			Amount:       line.Amount,
			Position:     i,
		}
	}
	return out
}

// GetRecipe retrieves a recipe with its author and ordered lines.
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Scopes(withRecipeDetail).
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("recipe")
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return &recipe, nil
}

func (s *RecipeService) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check recipe: %w", err)
	}
	return count > 0, nil
}

func withRecipeDetail(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("position")
		}).
		Preload("Ingredients.Ingredient")
}

// ListRecipes returns a page of recipes, newest first, each projected for
// viewer. The favorite and shopping cart filters need a viewer; anonymous
// callers get an empty page for them.
func (s *RecipeService) ListRecipes(ctx context.Context, viewer uuid.UUID, filter types.RecipeFilter) (types.Page[types.RecipeDetail], error) {
	page, limit := normalizePage(s.paging, filter.Page, filter.Limit)
	empty := types.Page[types.RecipeDetail]{Page: page, Limit: limit, Results: []types.RecipeDetail{}}
	if viewer == uuid.Nil && (filter.IsFavorited || filter.IsInShoppingCart) {
		return empty, nil
	}

	db := s.db.WithContext(ctx)
	filtered := func() *gorm.DB {
		q := db.Model(&models.Recipe{})
		if filter.Author != uuid.Nil {
			q = q.Where("author_id = ?", filter.Author)
		}
		if filter.IsFavorited {
			q = q.Where("id IN (?)", db.Model(&models.Favorite{}).Select("recipe_id").Where("user_id = ?", viewer))
		}
		if filter.IsInShoppingCart {
			q = q.Where("id IN (?)", db.Model(&models.ShoppingCart{}).Select("recipe_id").Where("user_id = ?", viewer))
		}
		return q
	}

	if err := filtered().Count(&empty.Count).Error; err != nil {
		return empty, fmt.Errorf("failed to count recipes: %w", err)
	}

	var recipes []models.Recipe
	err := filtered().
		Scopes(withRecipeDetail).
		Order("created_at DESC").
		Order("id").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return empty, fmt.Errorf("failed to list recipes: %w", err)
	}

	results, err := s.details(ctx, viewer, recipes)
	if err != nil {
		return empty, err
	}
	empty.Results = results
	return empty, nil
}

// Detail projects a loaded recipe for viewer. uuid.Nil is an anonymous viewer.
func (s *RecipeService) Detail(ctx context.Context, viewer uuid.UUID, recipe *models.Recipe) (types.RecipeDetail, error) {
	details, err := s.details(ctx, viewer, []models.Recipe{*recipe})
	if err != nil {
		return types.RecipeDetail{}, err
	}
	return details[0], nil
}

// details projects recipes for viewer, resolving each viewer flag with one
// query per relation kind.
func (s *RecipeService) details(ctx context.Context, viewer uuid.UUID, recipes []models.Recipe) ([]types.RecipeDetail, error) {
	var favorited, inCart, followed map[uuid.UUID]bool
	if viewer != uuid.Nil && len(recipes) > 0 {
		recipeIDs := make([]uuid.UUID, len(recipes))
		authorIDs := make([]uuid.UUID, 0, len(recipes))
		for i := range recipes {
			recipeIDs[i] = recipes[i].ID
			if recipes[i].AuthorID != viewer {
				authorIDs = append(authorIDs, recipes[i].AuthorID)
			}
		}

		var err error
		if favorited, err = s.relations.Targets(ctx, relation.Favorite, viewer, recipeIDs); err != nil {
			return nil, err
		}
		if inCart, err = s.relations.Targets(ctx, relation.ShoppingCart, viewer, recipeIDs); err != nil {
			return nil, err
		}
		if followed, err = s.relations.Targets(ctx, relation.Follow, viewer, authorIDs); err != nil {
			return nil, err
		}
	}

	out := make([]types.RecipeDetail, len(recipes))
	for i := range recipes {
		recipe := &recipes[i]
		detail := types.RecipeDetail{
			ID:               recipe.ID,
			Name:             recipe.Name,
			Text:             recipe.Text,
			CookingTime:      recipe.CookingTime,
			Ingredients:      make([]types.IngredientLine, 0, len(recipe.Ingredients)),
			IsFavorited:      favorited[recipe.ID],
			IsInShoppingCart: inCart[recipe.ID],
			CreatedAt:        recipe.CreatedAt,
		}
		for _, line := range recipe.Ingredients {
			l := types.IngredientLine{ID: line.IngredientID, Amount: line.Amount}
			if line.Ingredient != nil {
				l.Name = line.Ingredient.Name
				l.MeasurementUnit = line.Ingredient.MeasurementUnit
			}
			detail.Ingredients = append(detail.Ingredients, l)
		}
		if recipe.Author != nil {
			detail.Author = userProfile(ctx, s.avatars, recipe.Author, followed[recipe.AuthorID])
		}
		out[i] = detail
	}
	return out, nil
}

// DeleteRecipe removes a recipe owned by actor along with its lines and
// every Favorite and ShoppingCart edge that references it.
func (s *RecipeService) DeleteRecipe(ctx context.Context, actor, id uuid.UUID) error {
	if actor == uuid.Nil {
		return ErrUnauthenticated
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := authorOf(tx, id, actor); err != nil {
			return err
		}

		if err := tx.Where("recipe_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return fmt.Errorf("failed to delete favorites: %w", err)
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.ShoppingCart{}).Error; err != nil {
			return fmt.Errorf("failed to delete shopping cart entries: %w", err)
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return fmt.Errorf("failed to delete recipe ingredients: %w", err)
		}
		if err := tx.Where("id = ?", id).Delete(&models.Recipe{}).Error; err != nil {
			return fmt.Errorf("failed to delete recipe: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	logging.Ctx(ctx).Info().Str("recipe_id", id.String()).Msg("recipe deleted")
	return nil
}

func (s *RecipeService) recipeToggle(kind relation.Kind, label string) ToggleConfig[types.RecipeShort] {
	return ToggleConfig[types.RecipeShort]{
		Kind:         kind,
		Target:       "recipe",
		Label:        label,
		TargetExists: s.Exists,
		Project: func(ctx context.Context, _ uuid.UUID, edge relation.Edge) (types.RecipeShort, error) {
			var recipe models.Recipe
			if err := s.db.WithContext(ctx).First(&recipe, "id = ?", edge.TargetID).Error; err != nil {
				return types.RecipeShort{}, err
			}
			return recipeShort(&recipe), nil
		},
	}
}

// FavoriteToggle configures Toggle for the Favorite relation.
func (s *RecipeService) FavoriteToggle() ToggleConfig[types.RecipeShort] {
	return s.recipeToggle(relation.Favorite, "favorites")
}

// ShoppingCartToggle configures Toggle for the ShoppingCart relation.
func (s *RecipeService) ShoppingCartToggle() ToggleConfig[types.RecipeShort] {
	return s.recipeToggle(relation.ShoppingCart, "shopping cart")
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "unique":
			msgs = append(msgs, "ingredients must not repeat")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", fe.Namespace(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is %s", fe.Namespace(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
