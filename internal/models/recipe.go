package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ingredient is a lookup entity. The same name may exist with several units.
type Ingredient struct {
	ID              uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	Name            string    `gorm:"size:128;not null;uniqueIndex:idx_ingredients_name_unit" json:"name"`
	MeasurementUnit string    `gorm:"size:64;not null;uniqueIndex:idx_ingredients_name_unit" json:"measurement_unit"`
}

func (i *Ingredient) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

type Recipe struct {
	ID          uuid.UUID          `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt   time.Time          `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Name        string             `gorm:"size:256;not null" json:"name"`
	Text        string             `gorm:"type:text" json:"text"`
	CookingTime int                `gorm:"not null;default:1;check:chk_recipes_cooking_time,cooking_time >= 1" json:"cooking_time"`
	AuthorID    uuid.UUID          `gorm:"type:varchar(36);not null;index" json:"author_id"`
	Author      *User              `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients"`
}

func (r *Recipe) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

// RecipeIngredient is one quantity-bearing line of a recipe. Lines are created
// and destroyed together with their recipe.
type RecipeIngredient struct {
	ID           uuid.UUID   `gorm:"type:varchar(36);primarykey" json:"-"`
	RecipeID     uuid.UUID   `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_ingredients_recipe_ingredient" json:"-"`
	IngredientID uuid.UUID   `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_ingredients_recipe_ingredient;index" json:"id"`
	Ingredient   *Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:RESTRICT" json:"-"`
	Position     int         `gorm:"not null;default:0" json:"-"`
	Amount       int         `gorm:"not null;check:chk_recipe_ingredients_amount,amount >= 1" json:"amount"`
}

func (ri *RecipeIngredient) BeforeCreate(*gorm.DB) error {
	ensureID(&ri.ID)
	return nil
}
