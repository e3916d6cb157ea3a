package main

import (
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"github.com/dishpin/dishpin/internal/api"
	"github.com/dishpin/dishpin/internal/config"
	"github.com/dishpin/dishpin/internal/database"
	"github.com/dishpin/dishpin/internal/ocr"
	"github.com/dishpin/dishpin/internal/places"
	"github.com/dishpin/dishpin/internal/resolution"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := database.NewDB(database.Config{
		Type:       cfg.Database.Type,
		Host:       cfg.Database.Host,
		Port:       cfg.Database.Port,
		User:       cfg.Database.User,
		Password:   cfg.Database.Password,
		Name:       cfg.Database.Name,
		SQLitePath: cfg.Database.SQLitePath,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	extractor, err := ocr.NewExtractor(cfg.Providers, log.With().Str("component", "ocr").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize text extractor")
	}

	if cfg.Providers.GooglePlacesKey == "" {
		log.Fatal().Msg("GOOGLE_PLACES_API_KEY is required")
	}
	placeClient := places.NewGooglePlacesClient(
		cfg.Providers.GooglePlacesKey,
		cfg.Providers.Timeout,
		log.With().Str("component", "places").Logger(),
	)

	mediaRepo := database.NewMediaRepository(db)
	restRepo := database.NewRestaurantRepository(db)
	cacheRepo := database.NewCacheRepository(db)

	resolver := resolution.NewService(
		extractor,
		placeClient,
		mediaRepo,
		restRepo,
		cacheRepo,
		cfg.Resolution,
		log.With().Str("component", "resolution").Logger(),
	)

	app := api.NewApp(resolver, mediaRepo, log.With().Str("component", "api").Logger())
	router := api.NewRouter(app, cfg.Server.AllowedOrigins)

	log.Info().
		Str("port", cfg.Server.Port).
		Str("db_type", cfg.Database.Type).
		Str("ocr_provider", cfg.Providers.OCRProvider).
		Float64("confirm_threshold", cfg.Resolution.ConfirmThreshold).
		Msg("server starting")

	if err := http.ListenAndServe(":"+cfg.Server.Port, router); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
