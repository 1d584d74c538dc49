package mocks

import (
	"context"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockShoppingListService is a mock implementation of service.IShoppingListService
type MockShoppingListService struct {
	mock.Mock
}

func (m *MockShoppingListService) Build(ctx context.Context, actor uuid.UUID) ([]service.ShoppingLine, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.ShoppingLine), args.Error(1)
}

// MockIngredientService is a mock implementation of service.IIngredientService
type MockIngredientService struct {
	mock.Mock
}

func (m *MockIngredientService) Search(ctx context.Context, prefix string) ([]models.Ingredient, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Ingredient), args.Error(1)
}

func (m *MockIngredientService) GetIngredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ingredient), args.Error(1)
}

var (
	_ service.IAuthService         = (*MockAuthService)(nil)
	_ service.IShoppingListService = (*MockShoppingListService)(nil)
	_ service.IIngredientService   = (*MockIngredientService)(nil)
)
