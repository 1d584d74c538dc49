package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/foodgram/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IngredientService struct {
	db *gorm.DB
}

func NewIngredientService(db *gorm.DB) *IngredientService {
	return &IngredientService{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search lists ingredients whose name starts with prefix, ignoring case.
// An empty prefix lists everything. The prefix is folded with Unicode rules
// but the stored name is folded by the database: PostgreSQL folds Unicode,
// SQLite's LOWER folds ASCII only. The raw prefix is matched as well, so on
// SQLite (development and tests only) "Сахар" is found by "Са" but not "са".
func (s *IngredientService) Search(ctx context.Context, prefix string) ([]models.Ingredient, error) {
	ingredients := []models.Ingredient{}
	q := s.db.WithContext(ctx).Order("name").Order("measurement_unit")
	if prefix = strings.TrimSpace(prefix); prefix != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\' OR name LIKE ? ESCAPE '\'`,
			likeEscaper.Replace(strings.ToLower(prefix))+"%",
			likeEscaper.Replace(prefix)+"%",
		)
	}
	if err := q.Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to search ingredients: %w", err)
	}
	return ingredients, nil
}

func (s *IngredientService) GetIngredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	var ing models.Ingredient
	if err := s.db.WithContext(ctx).First(&ing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("ingredient")
		}
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	return &ing, nil
}
