package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks the loaded configuration for the current environment.
func ValidateConfig(cfg *Config) error {
	var errs []ValidationError

	if cfg.JWT.Secret == "" {
		errs = append(errs, ValidationError{"jwt.secret", "JWT_SECRET or the jwt_secret secret is required"})
	}
	if cfg.JWT.TTL <= 0 {
		errs = append(errs, ValidationError{"jwt.ttl", "must be positive"})
	}
	if cfg.Server.Port == "" {
		errs = append(errs, ValidationError{"server.port", "is required"})
	}

	switch cfg.Database.Driver {
	case "postgres":
		if cfg.Database.Host == "" || cfg.Database.Name == "" || cfg.Database.User == "" {
			errs = append(errs, ValidationError{"database", "host, name and user are required for postgres"})
		}
		if cfg.Env == Production && cfg.Database.Password == "" {
			errs = append(errs, ValidationError{"database.password", "db_password secret is required in production"})
		}
	case "sqlite":
		if cfg.Database.SQLitePath == "" {
			errs = append(errs, ValidationError{"database.sqlite_path", "is required for sqlite"})
		}
		if cfg.Env == Production {
			errs = append(errs, ValidationError{"database.driver", "sqlite is not supported in production"})
		}
	default:
		errs = append(errs, ValidationError{"database.driver", fmt.Sprintf("unknown driver %q", cfg.Database.Driver)})
	}

	if cfg.RateLimit.Limit <= 0 || cfg.RateLimit.Window <= 0 {
		errs = append(errs, ValidationError{"ratelimit", "window and limit must be positive"})
	}
	if cfg.Pagination.DefaultLimit <= 0 || cfg.Pagination.MaxLimit < cfg.Pagination.DefaultLimit {
		errs = append(errs, ValidationError{"pagination", "default_limit must be positive and not exceed max_limit"})
	}
	if cfg.Pagination.RecipePreviewLimit < 0 {
		errs = append(errs, ValidationError{"pagination.recipe_preview_limit", "must not be negative"})
	}

	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("configuration validation failed:\n%s", strings.Join(msgs, "\n"))
}
