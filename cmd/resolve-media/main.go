package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dishpin/dishpin/internal/config"
	"github.com/dishpin/dishpin/internal/database"
	"github.com/dishpin/dishpin/internal/ocr"
	"github.com/dishpin/dishpin/internal/places"
	"github.com/dishpin/dishpin/internal/resolution"
)

// One-off resolution from the command line, useful for verifying provider
// keys and tuning the threshold against real media.
func main() {
	var (
		mediaID = flag.String("id", "", "Media ID (UUID) to resolve")
		frames  = flag.String("frames", "", "Comma-separated frame image URLs")
		country = flag.String("country", "", "Optional country hint (ISO 3166-1 alpha-2)")
		city    = flag.String("city", "", "Optional city hint")
	)
	flag.Parse()

	if *mediaID == "" || *frames == "" {
		fmt.Fprintln(os.Stderr, "Usage: resolve-media -id <uuid> -frames <url,url,...> [-country XX] [-city name]")
		os.Exit(1)
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

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
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	extractor, err := ocr.NewExtractor(cfg.Providers, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize text extractor")
	}

	placeClient := places.NewGooglePlacesClient(cfg.Providers.GooglePlacesKey, cfg.Providers.Timeout, log)

	resolver := resolution.NewService(
		extractor,
		placeClient,
		database.NewMediaRepository(db),
		database.NewRestaurantRepository(db),
		database.NewCacheRepository(db),
		cfg.Resolution,
		log,
	)

	frameURLs := strings.Split(*frames, ",")
	for i := range frameURLs {
		frameURLs[i] = strings.TrimSpace(frameURLs[i])
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	started := time.Now()
	outcome, err := resolver.Resolve(ctx, resolution.ResolveRequest{
		MediaID:   *mediaID,
		FrameURLs: frameURLs,
		Country:   *country,
		City:      *city,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("resolution failed")
	}

	fmt.Printf("Status: %s (%.1fs)\n", outcome.Status, time.Since(started).Seconds())
	switch outcome.Status {
	case resolution.OutcomeConfirmed:
		fmt.Printf("Restaurant: %s (score %.3f)\n", outcome.RestaurantID, outcome.Score)
	case resolution.OutcomeNeedsConfirmation:
		fmt.Printf("OCR text: %s\n", outcome.OCRText)
		for i, c := range outcome.Candidates {
			fmt.Printf("%d. %s - %s (score %.3f)\n", i+1, c.Name, c.Address, c.Score)
		}
	}
}
