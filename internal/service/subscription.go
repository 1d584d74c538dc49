package service

import (
	"context"
	"fmt"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/relation"
	"github.com/foodgram/backend/internal/storage"
	"github.com/foodgram/backend/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubscriptionService builds the follow projections: a followed author with
// their recipe count and a capped preview of their latest recipes.
type SubscriptionService struct {
	db        *gorm.DB
	relations *relation.Manager
	users     *UserService
	avatars   storage.AvatarResolver
	paging    config.PaginationConfig
}

func NewSubscriptionService(db *gorm.DB, relations *relation.Manager, users *UserService, avatars storage.AvatarResolver, paging config.PaginationConfig) *SubscriptionService {
	return &SubscriptionService{
		db:        db,
		relations: relations,
		users:     users,
		avatars:   avatars,
		paging:    paging,
	}
}

// BuildFollowProjection projects subject as seen by viewer. A nil viewer is
// never subscribed. recipesLimit <= 0 falls back to the configured preview size.
func (s *SubscriptionService) BuildFollowProjection(ctx context.Context, viewer uuid.UUID, subject *models.User, recipesLimit int) (types.FollowProjection, error) {
	subscribed := false
	if viewer != uuid.Nil && viewer != subject.ID {
		ok, err := s.relations.Exists(ctx, relation.Follow, viewer, subject.ID)
		if err != nil {
			return types.FollowProjection{}, err
		}
		subscribed = ok
	}
	return s.project(ctx, subject, subscribed, recipesLimit)
}

func (s *SubscriptionService) project(ctx context.Context, subject *models.User, subscribed bool, recipesLimit int) (types.FollowProjection, error) {
	if recipesLimit <= 0 {
		recipesLimit = s.paging.RecipePreviewLimit
	}

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.Recipe{}).Where("author_id = ?", subject.ID).Count(&count).Error; err != nil {
		return types.FollowProjection{}, fmt.Errorf("failed to count recipes: %w", err)
	}

	var recipes []models.Recipe
	if recipesLimit > 0 {
		err := db.Where("author_id = ?", subject.ID).
			Order("created_at DESC").Order("id").
			Limit(recipesLimit).
			Find(&recipes).Error
		if err != nil {
			return types.FollowProjection{}, fmt.Errorf("failed to load recipe preview: %w", err)
		}
	}

	preview := make([]types.RecipeShort, len(recipes))
	for i := range recipes {
		preview[i] = recipeShort(&recipes[i])
	}
	return types.FollowProjection{
		UserProfile:  userProfile(ctx, s.avatars, subject, subscribed),
		Recipes:      preview,
		RecipesCount: count,
	}, nil
}

// ListSubscriptions pages through the users viewer follows, ordered by username.
func (s *SubscriptionService) ListSubscriptions(ctx context.Context, viewer uuid.UUID, page, limit, recipesLimit int) (types.Page[types.FollowProjection], error) {
	if viewer == uuid.Nil {
		return types.Page[types.FollowProjection]{}, ErrUnauthenticated
	}
	page, limit = normalizePage(s.paging, page, limit)

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.Follow{}).Where("user_id = ?", viewer).Count(&count).Error; err != nil {
		return types.Page[types.FollowProjection]{}, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	var users []models.User
	err := db.Model(&models.User{}).
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.user_id = ?", viewer).
		Order("users.username").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return types.Page[types.FollowProjection]{}, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	results := make([]types.FollowProjection, 0, len(users))
	for i := range users {
		p, err := s.project(ctx, &users[i], true, recipesLimit)
		if err != nil {
			return types.Page[types.FollowProjection]{}, err
		}
		results = append(results, p)
	}
	return types.Page[types.FollowProjection]{
		Count:   count,
		Page:    page,
		Limit:   limit,
		Results: results,
	}, nil
}

// FollowToggle configures Toggle for the Follow relation. The projection is
// the followed user.
func (s *SubscriptionService) FollowToggle(recipesLimit int) ToggleConfig[types.FollowProjection] {
	return ToggleConfig[types.FollowProjection]{
		Kind:         relation.Follow,
		Target:       "user",
		Label:        "subscriptions",
		TargetExists: s.users.Exists,
		Project: func(ctx context.Context, actor uuid.UUID, edge relation.Edge) (types.FollowProjection, error) {
			subject, err := s.users.GetUser(ctx, edge.TargetID)
			if err != nil {
				return types.FollowProjection{}, err
			}
			return s.project(ctx, subject, true, recipesLimit)
		},
	}
}
