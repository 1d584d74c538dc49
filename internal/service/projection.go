package service

import (
	"context"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/storage"
	"github.com/foodgram/backend/internal/types"
)

func userProfile(ctx context.Context, avatars storage.AvatarResolver, u *models.User, subscribed bool) types.UserProfile {
	return types.UserProfile{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
		Avatar:       storage.Resolve(ctx, avatars, u.AvatarKey),
	}
}

func recipeShort(r *models.Recipe) types.RecipeShort {
	return types.RecipeShort{
		ID:          r.ID,
		Name:        r.Name,
		CookingTime: r.CookingTime,
	}
}

// normalizePage clamps 1-based page numbers and page sizes to the configured
// bounds.
func normalizePage(paging config.PaginationConfig, page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = paging.DefaultLimit
	}
	if limit > paging.MaxLimit {
		limit = paging.MaxLimit
	}
	return page, limit
}
