package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const MinProductionSecretLength = 16

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	Env          string        `env:"APP_ENV" envDefault:"development"`
	Port         int           `env:"PORT" envDefault:"5000"`
	DatabaseURL  string        `env:"DATABASE_URL" envDefault:"mongodb://localhost:27017/siamese-filmart"`
	DatabaseName string        `env:"DATABASE_NAME"`
	JWTSecret    string        `env:"JWT_SECRET,required"`
	JWTIssuer    string        `env:"JWT_ISSUER" envDefault:"siamese-filmart"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	CorsOrigins  []string      `env:"CORS_ORIGINS" envDefault:"http://localhost:5173" envSeparator:","`

	MediaProvider       string `env:"MEDIA_PROVIDER" envDefault:"cloudinary"`
	CloudinaryURL       string `env:"CLOUDINARY_URL"`
	CloudinaryCloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `env:"CLOUDINARY_API_SECRET"`
	MediaStoragePath    string `env:"MEDIA_STORAGE_PATH" envDefault:"uploads"`
	MediaPublicURL      string `env:"MEDIA_PUBLIC_URL" envDefault:"/uploads"`
	UploadMaxBytes      int64  `env:"UPLOAD_MAX_BYTES" envDefault:"5242880"`

	RedisURL string `env:"REDIS_URL"`

	LogDir           string `env:"LOG_DIR" envDefault:"storage/logs"`
	LogRetentionDays int    `env:"LOG_RETENTION_DAYS" envDefault:"7"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat        string `env:"LOG_FORMAT"`

	SeedAdminName     string `env:"SEED_ADMIN_NAME" envDefault:"Super Admin"`
	SeedAdminEmail    string `env:"SEED_ADMIN_EMAIL"`
	SeedAdminPassword string `env:"SEED_ADMIN_PASSWORD"`
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c Config) UseLocalMedia() bool {
	return c.MediaProvider == "local"
}

func (c Config) HasCloudinaryCredentials() bool {
	return c.CloudinaryURL != "" || (c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != "")
}

// Load reads the process environment.
func Load() (Config, error) {
	return LoadFrom(nil)
}

// LoadFrom reads environ instead of the process environment when it is not
// nil.
func LoadFrom(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	cfg.MediaProvider = strings.ToLower(strings.TrimSpace(cfg.MediaProvider))
	cfg.JWTSecret = strings.TrimSpace(cfg.JWTSecret)
	cfg.CorsOrigins = cleanList(cfg.CorsOrigins)
	if cfg.LogFormat == "" {
		cfg.LogFormat = "json"
		if !cfg.IsProduction() {
			cfg.LogFormat = "text"
		}
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	}
	if c.IsProduction() && len(c.JWTSecret) < MinProductionSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes in production", MinProductionSecretLength))
	}
	switch c.MediaProvider {
	case "cloudinary":
		if !c.HasCloudinaryCredentials() {
			errs = append(errs, errors.New("MEDIA_PROVIDER=cloudinary needs CLOUDINARY_URL or CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET"))
		}
	case "local":
	default:
		errs = append(errs, fmt.Errorf("MEDIA_PROVIDER must be cloudinary or local, got %q", c.MediaProvider))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.UploadMaxBytes <= 0 {
		errs = append(errs, errors.New("UPLOAD_MAX_BYTES must be positive"))
	}
	if c.LogRetentionDays < 1 {
		errs = append(errs, errors.New("LOG_RETENTION_DAYS must be at least 1"))
	}
	return errors.Join(errs...)
}

func cleanList(items []string) []string {
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		if value := strings.TrimSpace(item); value != "" {
			cleaned = append(cleaned, value)
		}
	}
	return cleaned
}
