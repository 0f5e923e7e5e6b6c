package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/auth"
	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/language"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	DBMinConns  int32  `envconfig:"DB_MIN_CONNS" default:"1"`
	DBMaxConns  int32  `envconfig:"DB_MAX_CONNS" default:"8"`

	CanonicalLanguage string   `envconfig:"CANONICAL_LANGUAGE" default:"tr"`
	TargetLanguages   []string `envconfig:"TARGET_LANGUAGES" default:"en,de,fr,ar,ru"`

	TranslationProvider string        `envconfig:"TRANSLATION_PROVIDER" default:"http"`
	TranslationEndpoint string        `envconfig:"TRANSLATION_ENDPOINT" default:""`
	TranslationAPIKey   string        `envconfig:"TRANSLATION_API_KEY" default:""`
	TranslationModel    string        `envconfig:"TRANSLATION_MODEL" default:""`
	TranslationTimeout  time.Duration `envconfig:"TRANSLATION_TIMEOUT" default:"30s"`
	TranslationInterval time.Duration `envconfig:"TRANSLATION_INTERVAL" default:"500ms"`
	TranslationBurst    int           `envconfig:"TRANSLATION_BURST" default:"1"`

	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:""`
	// APITokenHash guards the sync endpoints when set. Generate it with "i18nsync hash-token".
	APITokenHash string `envconfig:"API_TOKEN_HASH" default:""`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.CanonicalLanguage = language.NormalizeCode(c.CanonicalLanguage)
	c.TargetLanguages = language.NormalizeCodes(c.TargetLanguages, c.CanonicalLanguage)
	c.TranslationProvider = strings.ToLower(strings.TrimSpace(c.TranslationProvider))
	c.TranslationEndpoint = strings.TrimSpace(c.TranslationEndpoint)
	c.TranslationAPIKey = strings.TrimSpace(c.TranslationAPIKey)
	c.TranslationModel = strings.TrimSpace(c.TranslationModel)
	c.APITokenHash = strings.TrimSpace(c.APITokenHash)
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.DBMinConns < 0 {
		return fmt.Errorf("DB_MIN_CONNS must be >= 0")
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be >= 1")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) cannot exceed DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if c.CanonicalLanguage == "" {
		return fmt.Errorf("CANONICAL_LANGUAGE must be a valid language code")
	}
	if len(c.TargetLanguages) == 0 {
		return fmt.Errorf("TARGET_LANGUAGES must list at least one language other than %s", c.CanonicalLanguage)
	}
	if c.TranslationTimeout <= 0 {
		return fmt.Errorf("TRANSLATION_TIMEOUT must be > 0")
	}
	if c.TranslationInterval < 0 {
		return fmt.Errorf("TRANSLATION_INTERVAL must be >= 0")
	}
	if c.TranslationBurst < 1 {
		return fmt.Errorf("TRANSLATION_BURST must be >= 1")
	}
	if c.APITokenHash != "" && !auth.ValidHash(c.APITokenHash) {
		return fmt.Errorf("API_TOKEN_HASH must be a bcrypt hash")
	}
	return nil
}

// SQLite reports whether DATABASE_URL points at a SQLite file or memory database.
func (c *Config) SQLite() bool {
	if c == nil {
		return false
	}
	dsn := strings.ToLower(strings.TrimSpace(c.DatabaseURL))
	return strings.HasPrefix(dsn, "sqlite:") || strings.HasPrefix(dsn, "file:")
}

func (c *Config) CORSAllowedOriginsList() []string {
	if c == nil {
		return nil
	}

	parts := strings.Split(c.CORSAllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		if _, exists := seen[origin]; exists {
			continue
		}
		seen[origin] = struct{}{}
		origins = append(origins, origin)
	}
	return origins
}
