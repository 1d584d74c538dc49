package main

import (
	"errors"
	"flag"
	"strings"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/logging"
	"github.com/foodgram/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type seedUser struct {
	username, first, last string
}

type seedLine struct {
	ingredient string
	amount     int
}

type seedRecipe struct {
	author, name, text string
	cookingTime        int
	lines              []seedLine
}

var (
	users = []seedUser{
		{"johndoe", "John", "Doe"},
		{"janesmith", "Jane", "Smith"},
		{"chefmike", "Mike", "Johnson"},
	}

	ingredients = map[string]string{
		"flour":  "g",
		"sugar":  "g",
		"butter": "g",
		"egg":    "pcs",
		"milk":   "ml",
		"salt":   "g",
		"tomato": "pcs",
		"pasta":  "g",
	}

	recipes = []seedRecipe{
		{"janesmith", "Pancakes", "Whisk everything, fry in butter.", 20, []seedLine{
			{"flour", 200}, {"milk", 300}, {"egg", 2}, {"butter", 20}, {"salt", 2},
		}},
		{"janesmith", "Shortbread", "Rub butter into flour and sugar, bake at 160C.", 45, []seedLine{
			{"flour", 300}, {"butter", 200}, {"sugar", 100},
		}},
		{"chefmike", "Tomato pasta", "Simmer tomatoes, toss with pasta.", 25, []seedLine{
			{"pasta", 400}, {"tomato", 4}, {"salt", 5}, {"butter", 30},
		}},
	}
)

func main() {
	password := flag.String("password", "testpassword123", "Password for every seeded user")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if cfg.Env.IsProduction() {
		logging.Fatal().Msg("refusing to seed a production database")
	}

	db, err := database.Open(cfg.Database, cfg.Env)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		logging.Fatal().Err(err).Msg("migration failed")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to hash password")
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		return seed(tx, string(hash))
	}); err != nil {
		logging.Fatal().Err(err).Msg("seeding failed")
	}
	logging.Info().Int("users", len(users)).Int("recipes", len(recipes)).Msg("seed complete")
}

// seed is idempotent: rows matched by natural keys are reused.
func seed(tx *gorm.DB, passwordHash string) error {
	byUsername := map[string]*models.User{}
	for _, u := range users {
		user := models.User{
			Email:        u.username + "@example.com",
			Username:     u.username,
			FirstName:    u.first,
			LastName:     u.last,
			PasswordHash: passwordHash,
		}
		if err := tx.Where(models.User{Username: u.username}).FirstOrCreate(&user).Error; err != nil {
			return err
		}
		byUsername[u.username] = &user
	}

	byName := map[string]*models.Ingredient{}
	for name, unit := range ingredients {
		ing := models.Ingredient{Name: name, MeasurementUnit: unit}
		if err := tx.Where(models.Ingredient{Name: name, MeasurementUnit: unit}).FirstOrCreate(&ing).Error; err != nil {
			return err
		}
		byName[name] = &ing
	}

	var seeded []*models.Recipe
	for _, r := range recipes {
		author := byUsername[r.author]
		recipe := models.Recipe{}
		err := tx.Where("author_id = ? AND name = ?", author.ID, r.name).First(&recipe).Error
		if err == nil {
			seeded = append(seeded, &recipe)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		recipe = models.Recipe{Name: r.name, Text: r.text, CookingTime: r.cookingTime, AuthorID: author.ID}
		for i, l := range r.lines {
			recipe.Ingredients = append(recipe.Ingredients, models.RecipeIngredient{
				IngredientID: byName[l.ingredient].ID,
				Amount:       l.amount,
				Position:     i,
			})
		}
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		logging.Info().Str("recipe", recipe.Name).Str("author", author.Username).Msg("seeded recipe")
		seeded = append(seeded, &recipe)
	}

	john := byUsername["johndoe"]
	edges := []any{
		&models.Follow{UserID: john.ID, FollowingID: byUsername["janesmith"].ID},
		&models.Follow{UserID: john.ID, FollowingID: byUsername["chefmike"].ID},
		&models.Favorite{UserID: john.ID, RecipeID: seeded[0].ID},
	}
	for _, r := range seeded {
		if strings.Contains(strings.ToLower(r.Name), "pasta") || r.Name == "Pancakes" {
			edges = append(edges, &models.ShoppingCart{UserID: john.ID, RecipeID: r.ID})
		}
	}
	for _, edge := range edges {
		// Re-running the seed hits the unique indexes; skip those rows.
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(edge).Error; err != nil {
			return err
		}
	}
	return nil
}
