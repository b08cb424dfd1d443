package config

import (
	"errors"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	Address string `env:"RUN_ADDRESS" envDefault:":8080"`

	CMRAPIURL        string `env:"CMR_API_URL" envDefault:"https://cmr.api.stroyka.kz"`
	DictionaryAPIURL string `env:"DICTIONARY_API_URL" envDefault:"https://dictionary.api.stroyka.kz/api/v1"`
	SiteURL          string `env:"SITE_URL" envDefault:"https://app.stroyka.kz"`
	LogoURL          string `env:"LOGO_URL" envDefault:"https://app.stroyka.kz/logo.png"`
	TemplatesDir     string `env:"TEMPLATES_DIR" envDefault:"web"`

	OGFetchTimeout        time.Duration `env:"OG_FETCH_TIMEOUT" envDefault:"5s"`
	EquipmentFetchTimeout time.Duration `env:"EQUIPMENT_FETCH_TIMEOUT" envDefault:"30s"`
	OrdersFetchTimeout    time.Duration `env:"ORDERS_FETCH_TIMEOUT" envDefault:"30s"`
	APIRequestTimeout     time.Duration `env:"API_REQUEST_TIMEOUT" envDefault:"30s"`
	EquipmentLazyPanel    bool          `env:"EQUIPMENT_LAZY_PANEL" envDefault:"false"`
	ShutdownTimeout       time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	OAuthClientID     string `env:"OAUTH_CLIENT_ID" envDefault:"egczwjabqn"`
	OAuthClientSecret string `env:"OAUTH_CLIENT_SECRET" envDefault:"cTClimEwAF"`
	FilesBucketURL    string `env:"FILES_BUCKET_URL" envDefault:"https://cmrhubbucket.s3.us-east-1.amazonaws.com"`
	Language          string `env:"LANGUAGE" envDefault:"kk"`
}

var ErrNoUpstream = errors.New("CMR_API_URL must be non empty")

// NewConfig reads the environment, optionally seeded from a .env file in the working directory.
func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if cfg.CMRAPIURL == "" {
		return nil, ErrNoUpstream
	}
	return &cfg, nil
}
