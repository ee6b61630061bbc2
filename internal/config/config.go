package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage drivers
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Image storage drivers
const (
	ImagesLocal = "local"
	ImagesS3    = "s3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port        string   `yaml:"port" env:"SERVER_PORT"`
		Mode        string   `yaml:"mode" env:"SERVER_MODE"`
		BaseURL     string   `yaml:"base_url" env:"SERVER_BASE_URL"`
		CORSOrigins []string `yaml:"cors_origins" env:"SERVER_CORS_ORIGINS"`
	} `yaml:"server"`

	Storage struct {
		Driver string `yaml:"driver" env:"STORAGE_DRIVER"`
		// Resources kept in memory only, even when Driver is postgres.
		LocalOnly []string `yaml:"local_only" env:"STORAGE_LOCAL_ONLY"`
		Seed      bool     `yaml:"seed" env:"STORAGE_SEED"`

		// Administrator created when the users collection is seeded
		AdminEmail    string `yaml:"admin_email" env:"STORAGE_ADMIN_EMAIL"`
		AdminPassword string `yaml:"admin_password" env:"STORAGE_ADMIN_PASSWORD"`
	} `yaml:"storage"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	Images struct {
		Driver    string `yaml:"driver" env:"IMAGES_DRIVER"`
		LocalPath string `yaml:"local_path" env:"IMAGES_LOCAL_PATH"`
		Bucket    string `yaml:"bucket" env:"IMAGES_BUCKET"`
		Region    string `yaml:"region" env:"IMAGES_REGION"`
		Endpoint  string `yaml:"endpoint" env:"IMAGES_ENDPOINT"`
		PublicURL string `yaml:"public_url" env:"IMAGES_PUBLIC_URL"`
		AccessKey string `yaml:"access_key" env:"IMAGES_ACCESS_KEY"`
		SecretKey string `yaml:"secret_key" env:"IMAGES_SECRET_KEY"`
		MaxSizeMB int    `yaml:"max_size_mb" env:"IMAGES_MAX_SIZE_MB"`
	} `yaml:"images"`

	JWT struct {
		Secret                string        `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration time.Duration `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string        `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	SMTP struct {
		Host      string `yaml:"host" env:"SMTP_HOST"`
		Port      int    `yaml:"port" env:"SMTP_PORT"`
		Username  string `yaml:"username" env:"SMTP_USERNAME"`
		Password  string `yaml:"password" env:"SMTP_PASSWORD"`
		FromName  string `yaml:"from_name" env:"SMTP_FROM_NAME"`
		FromEmail string `yaml:"from_email" env:"SMTP_FROM_EMAIL"`
		UseTLS    bool   `yaml:"use_tls" env:"SMTP_USE_TLS"`
	} `yaml:"smtp"`

	Catalog struct {
		PageSize        int           `yaml:"page_size" env:"CATALOG_PAGE_SIZE"`
		ConfirmationTTL time.Duration `yaml:"confirmation_ttl" env:"CATALOG_CONFIRMATION_TTL"`
		ResetTokenTTL   time.Duration `yaml:"reset_token_ttl" env:"CATALOG_RESET_TOKEN_TTL"`
		JanitorSchedule string        `yaml:"janitor_schedule" env:"CATALOG_JANITOR_SCHEDULE"`
	} `yaml:"catalog"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a .env file, a YAML file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// A missing .env is normal outside development
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.BaseURL = "http://localhost:8080"
	config.Server.CORSOrigins = []string{"http://localhost:5173"}

	config.Storage.Driver = StorageMemory
	config.Storage.Seed = true
	config.Storage.AdminEmail = "admin@convocatorias.local"
	config.Storage.AdminPassword = "admin12345"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "convocatorias"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"

	config.Images.Driver = ImagesLocal
	config.Images.LocalPath = "uploads"
	config.Images.MaxSizeMB = 5

	config.JWT.AccessTokenExpiration = 12 * time.Hour
	config.JWT.Issuer = "convocatorias"

	config.SMTP.Port = 587
	config.SMTP.FromName = "Convocatorias"

	config.Catalog.PageSize = 12
	config.Catalog.ConfirmationTTL = 5 * time.Minute
	config.Catalog.ResetTokenTTL = time.Hour
	config.Catalog.JanitorSchedule = "@every 1m"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Storage.Driver {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("unknown storage driver %q", config.Storage.Driver)
	}

	if config.Storage.Driver == StoragePostgres && config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	switch config.Images.Driver {
	case ImagesLocal:
		if config.Images.LocalPath == "" {
			return fmt.Errorf("images local path is required")
		}
	case ImagesS3:
		if config.Images.Bucket == "" {
			return fmt.Errorf("images bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("unknown images driver %q", config.Images.Driver)
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if config.JWT.AccessTokenExpiration <= 0 {
		return fmt.Errorf("JWT access token expiration must be positive")
	}

	if config.Catalog.PageSize <= 0 {
		return fmt.Errorf("catalog page size must be positive")
	}

	return nil
}

// IsLocalOnly reports whether resource must stay out of the database.
func (c *Config) IsLocalOnly(resource string) bool {
	for _, r := range c.Storage.LocalOnly {
		if strings.EqualFold(strings.TrimSpace(r), resource) {
			return true
		}
	}
	return false
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}
