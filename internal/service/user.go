package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/foodgram/backend/internal/logging"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/relation"
	"github.com/foodgram/backend/internal/storage"
	"github.com/foodgram/backend/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService struct {
	db        *gorm.DB
	relations *relation.Manager
	avatars   storage.AvatarResolver
}

func NewUserService(db *gorm.DB, relations *relation.Manager, avatars storage.AvatarResolver) *UserService {
	return &UserService{db: db, relations: relations, avatars: avatars}
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("user")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (s *UserService) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return count > 0, nil
}

// Profile returns the public profile of id as seen by viewer.
func (s *UserService) Profile(ctx context.Context, viewer, id uuid.UUID) (types.UserProfile, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return types.UserProfile{}, err
	}
	subscribed := false
	if viewer != uuid.Nil && viewer != id {
		if subscribed, err = s.relations.Exists(ctx, relation.Follow, viewer, id); err != nil {
			return types.UserProfile{}, err
		}
	}
	return userProfile(ctx, s.avatars, user, subscribed), nil
}

// DeleteUser removes the user together with every edge that references
// them, their recipes, and every edge that references those recipes.
func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		authored := func() *gorm.DB {
			return tx.Model(&models.Recipe{}).Select("id").Where("author_id = ?", id)
		}

		if err := tx.Where("user_id = ? OR following_id = ?", id, id).Delete(&models.Follow{}).Error; err != nil {
			return fmt.Errorf("failed to delete follows: %w", err)
		}
		if err := tx.Where("user_id = ? OR recipe_id IN (?)", id, authored()).Delete(&models.Favorite{}).Error; err != nil {
			return fmt.Errorf("failed to delete favorites: %w", err)
		}
		if err := tx.Where("user_id = ? OR recipe_id IN (?)", id, authored()).Delete(&models.ShoppingCart{}).Error; err != nil {
			return fmt.Errorf("failed to delete shopping cart: %w", err)
		}
		if err := tx.Where("recipe_id IN (?)", authored()).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return fmt.Errorf("failed to delete recipe ingredients: %w", err)
		}
		if err := tx.Where("author_id = ?", id).Delete(&models.Recipe{}).Error; err != nil {
			return fmt.Errorf("failed to delete recipes: %w", err)
		}

		res := tx.Where("id = ?", id).Delete(&models.User{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return notFound("user")
		}
		return nil
	})
	if err != nil {
		return err
	}
	logging.Ctx(ctx).Info().Str("user_id", id.String()).Msg("user deleted")
	return nil
}
