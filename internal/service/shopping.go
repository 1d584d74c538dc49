package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShoppingLine is one aggregated (name, unit) total.
type ShoppingLine struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int64  `json:"amount"`
}

// ShoppingListService aggregates ingredients across a user's shopping cart.
type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// Build returns the consolidated shopping list for actor: one line per exact
// (name, unit) pair, amounts summed, ordered by name then unit. An empty cart
// gives an empty list.
func (s *ShoppingListService) Build(ctx context.Context, actor uuid.UUID) ([]ShoppingLine, error) {
	lines := []ShoppingLine{}
	err := s.db.WithContext(ctx).
		Table("shopping_carts AS sc").
		Select("i.name AS name, i.measurement_unit AS measurement_unit, SUM(ri.amount) AS amount").
		Joins("JOIN recipe_ingredients AS ri ON ri.recipe_id = sc.recipe_id").
		Joins("JOIN ingredients AS i ON i.id = ri.ingredient_id").
		Where("sc.user_id = ?", actor).
		Group("i.name, i.measurement_unit").
		Order("i.name, i.measurement_unit").
		Scan(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate shopping list: %w", err)
	}

	// Database collation may differ; fix the order to byte-wise comparison.
	slices.SortStableFunc(lines, func(a, b ShoppingLine) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.MeasurementUnit, b.MeasurementUnit)
	})
	return lines, nil
}

// RenderShoppingList formats lines as "name (unit) — amount", one per line.
func RenderShoppingList(lines []ShoppingLine) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = fmt.Sprintf("%s (%s) — %d", l.Name, l.MeasurementUnit, l.Amount)
	}
	return strings.Join(out, "\n")
}
