package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the location of the optional YAML config file.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when CONFIG_PATH is not set.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/foodgram/config.yaml",
}

// Config holds all configuration for the application
type Config struct {
	Env        Environment      `koanf:"env"`
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Redis      RedisConfig      `koanf:"redis"`
	JWT        JWTConfig        `koanf:"jwt"`
	Storage    StorageConfig    `koanf:"storage"`
	Logging    LoggingConfig    `koanf:"logging"`
	RateLimit  RateLimitConfig  `koanf:"ratelimit"`
	Pagination PaginationConfig `koanf:"pagination"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            string        `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// DatabaseConfig selects the gorm dialect. Driver is "postgres" or "sqlite".
type DatabaseConfig struct {
	Driver     string `koanf:"driver"`
	Host       string `koanf:"host"`
	Port       string `koanf:"port"`
	User       string `koanf:"user"`
	Password   string `koanf:"password"`
	Name       string `koanf:"name"`
	SSLMode    string `koanf:"ssl_mode"`
	SQLitePath string `koanf:"sqlite_path"`
}

type RedisConfig struct {
	Enabled  bool   `koanf:"enabled"`
	URL      string `koanf:"url"`
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

type JWTConfig struct {
	Secret string        `koanf:"secret"`
	TTL    time.Duration `koanf:"ttl"`
}

// StorageConfig describes where avatar objects live. When Bucket is empty avatar
// references are joined onto PublicBaseURL instead of being presigned.
type StorageConfig struct {
	Bucket        string        `koanf:"bucket"`
	Region        string        `koanf:"region"`
	PresignTTL    time.Duration `koanf:"presign_ttl"`
	PublicBaseURL string        `koanf:"public_base_url"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// RateLimitConfig bounds add/remove relation requests per actor.
type RateLimitConfig struct {
	Window time.Duration `koanf:"window"`
	Limit  int           `koanf:"limit"`
}

type PaginationConfig struct {
	DefaultLimit       int `koanf:"default_limit"`
	MaxLimit           int `koanf:"max_limit"`
	RecipePreviewLimit int `koanf:"recipe_preview_limit"`
}

func defaultConfig() *Config {
	return &Config{
		Env: GetEnvironment(),
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8080",
			ShutdownTimeout: 5 * time.Second,
			CORSOrigins:     []string{"http://localhost:5173", "http://frontend:5173"},
		},
		Database: DatabaseConfig{
			Driver:     "postgres",
			Host:       "localhost",
			Port:       "5432",
			User:       "foodgram",
			Name:       "foodgram",
			SSLMode:    "disable",
			SQLitePath: "foodgram.db",
		},
		Redis: RedisConfig{
			Enabled: true,
			Host:    "localhost",
			Port:    "6379",
		},
		JWT: JWTConfig{
			TTL: 24 * time.Hour,
		},
		Storage: StorageConfig{
			Bucket:     "",
			Region:     "us-east-1",
			PresignTTL: 15 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		RateLimit: RateLimitConfig{
			Window: time.Minute,
			Limit:  60,
		},
		Pagination: PaginationConfig{
			DefaultLimit:       6,
			MaxLimit:           100,
			RecipePreviewLimit: 3,
		},
	}
}

// LoadConfig builds the configuration from defaults, an optional YAML file,
// environment variables and finally Docker secrets, then validates it.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// CORS origins arrive from the environment as one comma separated string.
	if len(cfg.Server.CORSOrigins) == 1 && strings.Contains(cfg.Server.CORSOrigins[0], ",") {
		cfg.Server.CORSOrigins = splitList(cfg.Server.CORSOrigins[0])
	}

	cfg.Env = ParseEnvironment(string(cfg.Env))
	applySecrets(cfg)

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// DSN returns the postgres connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Addr returns the host:port the HTTP server listens on.
func (c ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}

var envMappings = map[string]string{
	"server_host":             "server.host",
	"server_port":             "server.port",
	"server_shutdown_timeout": "server.shutdown_timeout",
	"cors_origins":            "server.cors_origins",
	"db_driver":               "database.driver",
	"db_host":                 "database.host",
	"db_port":                 "database.port",
	"db_user":                 "database.user",
	"db_password":             "database.password",
	"db_name":                 "database.name",
	"db_ssl_mode":             "database.ssl_mode",
	"db_sqlite_path":          "database.sqlite_path",
	"redis_enabled":           "redis.enabled",
	"redis_url":               "redis.url",
	"redis_host":              "redis.host",
	"redis_port":              "redis.port",
	"redis_password":          "redis.password",
	"redis_db":                "redis.db",
	"jwt_secret":              "jwt.secret",
	"jwt_ttl":                 "jwt.ttl",
	"s3_bucket_name":          "storage.bucket",
	"aws_region":              "storage.region",
	"storage_presign_ttl":     "storage.presign_ttl",
	"avatar_base_url":         "storage.public_base_url",
	"log_level":               "logging.level",
	"log_format":              "logging.format",
	"rate_limit_window":       "ratelimit.window",
	"rate_limit_relations":    "ratelimit.limit",
	"page_default_limit":      "pagination.default_limit",
	"page_max_limit":          "pagination.max_limit",
	"recipes_preview_limit":   "pagination.recipe_preview_limit",
}

// envTransformFunc maps known environment variables onto koanf paths.
// Unknown variables are dropped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// applySecrets overrides sensitive values with Docker secrets when they exist.
func applySecrets(cfg *Config) {
	if v := readSecret("db_user"); v != "" {
		cfg.Database.User = v
	}
	if v := readSecret("db_password"); v != "" {
		cfg.Database.Password = v
	}
	if v := readSecret("jwt_secret"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := readSecret("redis_password"); v != "" {
		cfg.Redis.Password = v
	}
	if v := readSecret("redis_url"); v != "" {
		cfg.Redis.URL = v
	}
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	data, err := os.ReadFile(filepath.Join(secretsDir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
