package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	OCRProviderGoogle   = "google"
	OCRProviderOCRSpace = "ocrspace"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Providers  ProviderConfig
	Resolution ResolutionConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Type           string
	Host           string
	Port           int
	User           string
	Password       string
	Name           string
	SQLitePath     string
	MigrationsPath string
}

type ProviderConfig struct {
	// OCRProvider selects the text extractor: "google" or "ocrspace".
	OCRProvider     string
	GoogleVisionKey string
	OCRSpaceKey     string
	GooglePlacesKey string
	Timeout         time.Duration
}

// ResolutionConfig carries the pipeline tunables. The threshold and bonus
// values are heuristics, kept configurable rather than hard-coded.
type ResolutionConfig struct {
	ConfirmThreshold    float64
	MaxSearchCandidates int
	MaxResults          int
	CategoryBonus       float64
	RatingBonus         float64
	RatingBonusMin      float64
	OCRWorkers          int
	CacheTTL            time.Duration
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("allowed_origins", "*")

	v.SetDefault("db_type", "sqlite")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 5432)
	v.SetDefault("db_user", "dishpin")
	v.SetDefault("db_password", "dishpin_dev")
	v.SetDefault("db_name", "dishpin")
	v.SetDefault("db_path", "./dishpin.db")
	v.SetDefault("migrations_path", "./migrations")

	v.SetDefault("ocr_provider", OCRProviderGoogle)
	v.SetDefault("provider_timeout", "15s")

	v.SetDefault("confirm_threshold", 0.75)
	v.SetDefault("max_search_candidates", 3)
	v.SetDefault("max_results", 3)
	v.SetDefault("category_bonus", 0.1)
	v.SetDefault("rating_bonus", 0.1)
	v.SetDefault("rating_bonus_min", 4.0)
	v.SetDefault("ocr_workers", 5)
	v.SetDefault("cache_ttl", "720h")

	providerTimeout, err := time.ParseDuration(v.GetString("provider_timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid PROVIDER_TIMEOUT: %w", err)
	}

	cacheTTL, err := time.ParseDuration(v.GetString("cache_ttl"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("port"),
			AllowedOrigins: strings.Split(v.GetString("allowed_origins"), ","),
		},
		Database: DatabaseConfig{
			Type:           v.GetString("db_type"),
			Host:           v.GetString("db_host"),
			Port:           v.GetInt("db_port"),
			User:           v.GetString("db_user"),
			Password:       v.GetString("db_password"),
			Name:           v.GetString("db_name"),
			SQLitePath:     v.GetString("db_path"),
			MigrationsPath: v.GetString("migrations_path"),
		},
		Providers: ProviderConfig{
			OCRProvider:     v.GetString("ocr_provider"),
			GoogleVisionKey: v.GetString("google_vision_api_key"),
			OCRSpaceKey:     v.GetString("ocrspace_api_key"),
			GooglePlacesKey: v.GetString("google_places_api_key"),
			Timeout:         providerTimeout,
		},
		Resolution: ResolutionConfig{
			ConfirmThreshold:    v.GetFloat64("confirm_threshold"),
			MaxSearchCandidates: v.GetInt("max_search_candidates"),
			MaxResults:          v.GetInt("max_results"),
			CategoryBonus:       v.GetFloat64("category_bonus"),
			RatingBonus:         v.GetFloat64("rating_bonus"),
			RatingBonusMin:      v.GetFloat64("rating_bonus_min"),
			OCRWorkers:          v.GetInt("ocr_workers"),
			CacheTTL:            cacheTTL,
		},
	}

	switch cfg.Providers.OCRProvider {
	case OCRProviderGoogle, OCRProviderOCRSpace:
	default:
		return nil, fmt.Errorf("unsupported OCR_PROVIDER: %s", cfg.Providers.OCRProvider)
	}

	if cfg.Resolution.OCRWorkers < 1 {
		cfg.Resolution.OCRWorkers = 1
	}

	return cfg, nil
}
