package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

type Config struct {
	Port    string `envconfig:"PORT" default:"8080"`
	BaseURL string `envconfig:"BASE_URL" default:"http://localhost:8080"`

	DBDriver string `envconfig:"DB_DRIVER" default:"mysql"`
	DBDSN    string `envconfig:"DB_DSN" required:"true"`

	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`

	// Business dates and report buckets are computed in this zone.
	Timezone string `envconfig:"TIMEZONE" default:"Local"`

	CORSOrigins       []string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`
	AllowRegistration bool     `envconfig:"ALLOW_REGISTRATION" default:"false"`

	// WebDir holds the built frontend; it is served when present.
	WebDir string `envconfig:"WEB_DIR" default:"./web"`

	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	GeminiModel  string `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash-001"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	IdempotencyTTL time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"10m"`
}

// Load reads an optional .env file and then the process environment.
// The second return value reports whether a .env file was found.
func Load(files ...string) (*Config, bool, error) {
	foundEnv := godotenv.Load(files...) == nil

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, foundEnv, errors.Wrap(err, "failed to parse env")
	}

	if cfg.DBDriver != "mysql" && cfg.DBDriver != "sqlite" {
		return nil, foundEnv, errors.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	if _, err := cfg.Location(); err != nil {
		return nil, foundEnv, err
	}

	return &cfg, foundEnv, nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid TIMEZONE %q", c.Timezone)
	}
	return loc, nil
}
