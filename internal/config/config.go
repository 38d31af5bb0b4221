package config

import (
	"errors"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	CatalogPort string `env:"CATALOG_PORT" envDefault:"8000"`

	DBDriver    string `env:"DB_DRIVER" envDefault:"mysql"`
	DBUser      string `env:"DB_USER"`
	DBPassword  string `env:"DB_PASSWORD"`
	DBHost      string `env:"DB_HOST"` // e.g. tcp(host:3306), unix(/cloudsql/instance) or a bare host
	DBName      string `env:"DB_NAME"`
	DBPort      string `env:"DB_PORT" envDefault:"3306"`
	DatabaseURL string `env:"DATABASE_URL"`
	DBPath      string `env:"DB_PATH" envDefault:"fridge.db"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	CategoriesFile   string        `env:"CATEGORIES_FILE"`
	RedisAddr        string        `env:"REDIS_ADDR"`
	RedisPassword    string        `env:"REDIS_PASSWORD"`
	RedisDB          int           `env:"REDIS_DB" envDefault:"0"`
	CategoryCacheTTL time.Duration `env:"CATEGORY_CACHE_TTL" envDefault:"24h"`

	GeminiAPIKey        string `env:"GEMINI_API_KEY"`
	GeminiCategoryModel string `env:"GEMINI_CATEGORY_MODEL" envDefault:"gemini-2.5-flash"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the selected driver has what it needs to build a DSN.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverMySQL:
		if c.DBUser == "" || c.DBHost == "" || c.DBName == "" {
			return errors.New("DB_USER, DB_HOST and DB_NAME are required for mysql")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" && (c.DBUser == "" || c.DBHost == "" || c.DBName == "") {
			return errors.New("DATABASE_URL or DB_USER, DB_HOST and DB_NAME are required for postgres")
		}
	case DriverSQLite:
		if c.DBPath == "" {
			return errors.New("DB_PATH is required for sqlite")
		}
	default:
		return errors.New("unsupported DB_DRIVER: " + c.DBDriver)
	}
	return nil
}
