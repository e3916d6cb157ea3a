package resolution

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dishpin/dishpin/internal/candidates"
	"github.com/dishpin/dishpin/internal/config"
	"github.com/dishpin/dishpin/internal/database"
	"github.com/dishpin/dishpin/internal/models"
	"github.com/dishpin/dishpin/internal/ocr"
	"github.com/dishpin/dishpin/internal/places"
)

const placeProvider = "google"

var nonWordPattern = regexp.MustCompile(`\W+`)

// Service orchestrates one media resolution per call: OCR over every frame,
// candidate extraction, place search, scoring, and the confirm-or-review
// decision, with the terminal status persisted alongside the response.
type Service struct {
	extractor   ocr.TextExtractor
	placeClient places.Client
	mediaRepo   *database.MediaRepository
	restRepo    *database.RestaurantRepository
	cacheRepo   *database.CacheRepository
	cfg         config.ResolutionConfig
	log         zerolog.Logger
}

func NewService(
	extractor ocr.TextExtractor,
	placeClient places.Client,
	mediaRepo *database.MediaRepository,
	restRepo *database.RestaurantRepository,
	cacheRepo *database.CacheRepository,
	cfg config.ResolutionConfig,
	log zerolog.Logger,
) *Service {
	if cfg.ConfirmThreshold == 0 {
		cfg.ConfirmThreshold = 0.75
	}
	if cfg.MaxSearchCandidates == 0 {
		cfg.MaxSearchCandidates = 3
	}
	if cfg.MaxResults == 0 {
		cfg.MaxResults = 3
	}
	if cfg.OCRWorkers == 0 {
		cfg.OCRWorkers = 5
	}

	return &Service{
		extractor:   extractor,
		placeClient: placeClient,
		mediaRepo:   mediaRepo,
		restRepo:    restRepo,
		cacheRepo:   cacheRepo,
		cfg:         cfg,
		log:         log,
	}
}

func (s *Service) Resolve(ctx context.Context, req ResolveRequest) (*Outcome, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	media := models.NewMediaItem(req.MediaID, req.FrameURLs, req.Country, req.City)
	if err := s.mediaRepo.Upsert(ctx, media); err != nil {
		return nil, fmt.Errorf("%w: upserting media item: %v", ErrPersistence, err)
	}
	if err := s.mediaRepo.SetProcessing(ctx, media.ID); err != nil {
		if errors.Is(err, database.ErrTerminalStatus) {
			return nil, fmt.Errorf("%w: media item already resolved", ErrValidation)
		}
		return nil, fmt.Errorf("%w: marking media processing: %v", ErrPersistence, err)
	}

	texts := s.extractFrames(ctx, req.FrameURLs)

	rawText := strings.Join(texts, "\n")
	normalized := normalizeText(rawText)

	cands := candidates.Extract(rawText)
	if len(cands) == 0 {
		s.log.Info().Str("media_id", media.ID).Msg("no candidates extracted, needs confirmation")
		return s.finishNeedsConfirmation(ctx, media.ID, normalized, nil)
	}

	records := s.searchPlaces(ctx, cands, req.Country, req.City)
	if len(records) == 0 {
		s.log.Info().Str("media_id", media.ID).Int("candidates", len(cands)).
			Msg("no places found for any candidate, needs confirmation")
		return s.finishNeedsConfirmation(ctx, media.ID, normalized, nil)
	}

	scored := ScorePlaces(cands, records, ScoreParams{
		CategoryBonus:  s.cfg.CategoryBonus,
		RatingBonus:    s.cfg.RatingBonus,
		RatingBonusMin: s.cfg.RatingBonusMin,
	})
	if len(scored) > s.cfg.MaxResults {
		scored = scored[:s.cfg.MaxResults]
	}

	top := scored[0]
	if top.Score >= s.cfg.ConfirmThreshold {
		return s.finishConfirmed(ctx, media.ID, normalized, top, req.Country, req.City)
	}

	s.log.Info().
		Str("media_id", media.ID).
		Float64("top_score", top.Score).
		Float64("threshold", s.cfg.ConfirmThreshold).
		Msg("top score below threshold, needs confirmation")
	return s.finishNeedsConfirmation(ctx, media.ID, normalized, scored)
}

// ResolveOCR is the narrower OCR-only operation: one extractor call, persist
// the normalized text, no place search.
func (s *Service) ResolveOCR(ctx context.Context, mediaID, imageURL string) (*OCROutcome, error) {
	if _, err := uuid.Parse(mediaID); err != nil {
		return nil, fmt.Errorf("%w: media_id must be a valid UUID", ErrValidation)
	}
	if _, err := url.ParseRequestURI(imageURL); err != nil {
		return nil, fmt.Errorf("%w: image_url must be a valid URL", ErrValidation)
	}

	media := models.NewMediaItem(mediaID, []string{imageURL}, "", "")
	if err := s.mediaRepo.Upsert(ctx, media); err != nil {
		return nil, fmt.Errorf("%w: upserting media item: %v", ErrPersistence, err)
	}
	if err := s.mediaRepo.SetProcessing(ctx, mediaID); err != nil {
		if errors.Is(err, database.ErrTerminalStatus) {
			return nil, fmt.Errorf("%w: media item already resolved", ErrValidation)
		}
		return nil, fmt.Errorf("%w: marking media processing: %v", ErrPersistence, err)
	}

	result, err := s.extractor.ExtractText(ctx, imageURL)
	if err != nil {
		s.log.Warn().Err(err).Str("media_id", mediaID).Msg("text extraction failed")
		s.failPersistence(ctx, mediaID)
		return nil, fmt.Errorf("%w: text extraction failed", ErrProvider)
	}

	normalized := normalizeText(result.Text)
	if err := s.mediaRepo.SetOutcome(ctx, mediaID, models.StatusDone, normalized, ""); err != nil {
		if errors.Is(err, database.ErrTerminalStatus) {
			return nil, fmt.Errorf("%w: media item already resolved", ErrValidation)
		}
		s.failPersistence(ctx, mediaID)
		return nil, fmt.Errorf("%w: persisting OCR text: %v", ErrPersistence, err)
	}

	var lines []string
	for _, line := range strings.Split(result.Text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	return &OCROutcome{Status: models.StatusDone, Text: lines}, nil
}

// extractFrames runs the extractor over every frame with a bounded worker
// pool, reassembling results by frame index. A failed frame contributes empty
// text and never aborts the batch.
func (s *Service) extractFrames(ctx context.Context, frameURLs []string) []string {
	texts := make([]string, len(frameURLs))

	sem := make(chan struct{}, s.cfg.OCRWorkers)
	var wg sync.WaitGroup

	for i, frameURL := range frameURLs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, frameURL string) {
			defer wg.Done()
			defer func() { <-sem }()

			result, err := s.extractor.ExtractText(ctx, frameURL)
			if err != nil {
				s.log.Warn().Err(err).Int("frame", i).Msg("frame text extraction failed, substituting empty text")
				return
			}
			texts[i] = result.Text
		}(i, frameURL)
	}

	wg.Wait()
	return texts
}

// searchPlaces queries the provider for the first MaxSearchCandidates
// candidates, consulting the cache per key first. The union of results is
// deduplicated by place id, keeping first occurrence.
func (s *Service) searchPlaces(ctx context.Context, cands []string, country, city string) []places.Record {
	limit := s.cfg.MaxSearchCandidates
	if len(cands) < limit {
		limit = len(cands)
	}

	seen := make(map[string]bool)
	var records []places.Record

	for _, cand := range cands[:limit] {
		key := normalizeQuery(cand)

		if s.cacheRepo != nil {
			entry, err := s.cacheRepo.Get(ctx, key, country, city, s.cfg.CacheTTL)
			if err != nil {
				s.log.Warn().Err(err).Str("query", key).Msg("cache lookup failed")
			} else if entry != nil {
				s.log.Debug().Str("query", key).Str("place_id", entry.PlaceID).Msg("cache hit")
				if !seen[entry.PlaceID] {
					seen[entry.PlaceID] = true
					records = append(records, places.Record{
						Name:    entry.Name,
						Address: entry.Address,
						Lat:     entry.Lat,
						Lng:     entry.Lng,
						PlaceID: entry.PlaceID,
					})
				}
				continue
			}
		}

		found, err := s.placeClient.Search(ctx, cand, country, city)
		if err != nil {
			s.log.Warn().Err(err).Str("candidate", cand).Msg("place search failed, skipping candidate")
			continue
		}

		for _, record := range found {
			if record.PlaceID == "" || seen[record.PlaceID] {
				continue
			}
			seen[record.PlaceID] = true
			records = append(records, record)
		}
	}

	return records
}

func (s *Service) finishConfirmed(ctx context.Context, mediaID, normalized string, top ScoredPlace, country, city string) (*Outcome, error) {
	restaurant := models.NewRestaurant(
		placeProvider, top.PlaceID, top.Name, top.Address,
		top.Lat, top.Lng, top.Rating, top.Categories,
	)

	restaurantID, err := s.restRepo.UpsertByPlaceID(ctx, restaurant)
	if err != nil {
		s.failPersistence(ctx, mediaID)
		return nil, fmt.Errorf("%w: upserting restaurant: %v", ErrPersistence, err)
	}

	if err := s.mediaRepo.SetOutcome(ctx, mediaID, models.StatusDone, normalized, restaurantID); err != nil {
		if errors.Is(err, database.ErrTerminalStatus) {
			return nil, fmt.Errorf("%w: media item already resolved", ErrValidation)
		}
		s.failPersistence(ctx, mediaID)
		return nil, fmt.Errorf("%w: persisting confirmed outcome: %v", ErrPersistence, err)
	}

	// Cache writes are best-effort: a failure is logged, never surfaced.
	if s.cacheRepo != nil && top.BestCandidate() != "" {
		entry := &models.CacheEntry{
			NormalizedQuery: normalizeQuery(top.BestCandidate()),
			Country:         country,
			City:            city,
			Provider:        placeProvider,
			PlaceID:         top.PlaceID,
			Name:            top.Name,
			Address:         top.Address,
			Lat:             top.Lat,
			Lng:             top.Lng,
			Score:           top.Score,
			UpdatedAt:       time.Now(),
		}
		if err := s.cacheRepo.Put(ctx, entry); err != nil {
			s.log.Warn().Err(err).Str("query", entry.NormalizedQuery).Msg("cache write failed")
		}
	}

	s.log.Info().
		Str("media_id", mediaID).
		Str("restaurant_id", restaurantID).
		Str("name", top.Name).
		Float64("score", top.Score).
		Msg("media auto-confirmed")

	return &Outcome{
		Status:       OutcomeConfirmed,
		RestaurantID: restaurantID,
		Score:        top.Score,
		OCRText:      normalized,
	}, nil
}

func (s *Service) finishNeedsConfirmation(ctx context.Context, mediaID, normalized string, scored []ScoredPlace) (*Outcome, error) {
	if err := s.mediaRepo.SetOutcome(ctx, mediaID, models.StatusNeedsConfirmation, normalized, ""); err != nil {
		if errors.Is(err, database.ErrTerminalStatus) {
			return nil, fmt.Errorf("%w: media item already resolved", ErrValidation)
		}
		s.failPersistence(ctx, mediaID)
		return nil, fmt.Errorf("%w: persisting review outcome: %v", ErrPersistence, err)
	}

	if scored == nil {
		scored = []ScoredPlace{}
	}

	return &Outcome{
		Status:     OutcomeNeedsConfirmation,
		Candidates: scored,
		OCRText:    normalized,
	}, nil
}

// failPersistence makes one best-effort error-status write so the stored
// status never disagrees with the error response.
func (s *Service) failPersistence(ctx context.Context, mediaID string) {
	if err := s.mediaRepo.SetError(ctx, mediaID); err != nil {
		s.log.Error().Err(err).Str("media_id", mediaID).Msg("failed to persist error status")
	}
}

func validateRequest(req ResolveRequest) error {
	if _, err := uuid.Parse(req.MediaID); err != nil {
		return fmt.Errorf("%w: media_id must be a valid UUID", ErrValidation)
	}
	if len(req.FrameURLs) == 0 {
		return fmt.Errorf("%w: at least one frame URL is required", ErrValidation)
	}
	for _, frameURL := range req.FrameURLs {
		u, err := url.ParseRequestURI(frameURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: invalid frame URL: %s", ErrValidation, frameURL)
		}
	}
	return nil
}

// normalizeText lower-cases, replaces non-word characters with spaces and
// collapses whitespace. This form is what gets persisted and displayed.
func normalizeText(text string) string {
	lowered := strings.ToLower(text)
	replaced := nonWordPattern.ReplaceAllString(lowered, " ")
	return strings.TrimSpace(strings.Join(strings.Fields(replaced), " "))
}

func normalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
