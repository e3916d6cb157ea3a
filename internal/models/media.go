package models

import (
	"time"

	"github.com/google/uuid"
)

// MediaItem status lifecycle: uploaded -> processing -> exactly one of
// done, needs_confirmation, error. Only the resolution service mutates it.
const (
	StatusUploaded          = "uploaded"
	StatusProcessing        = "processing"
	StatusDone              = "done"
	StatusNeedsConfirmation = "needs_confirmation"
	StatusError             = "error"
)

type MediaItem struct {
	ID           string
	FrameURLs    []string
	Country      string
	City         string
	Status       string
	OCRText      string
	RestaurantID string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewMediaItem(id string, frameURLs []string, country, city string) *MediaItem {
	now := time.Now()
	return &MediaItem{
		ID:        id,
		FrameURLs: frameURLs,
		Country:   country,
		City:      city,
		Status:    StatusUploaded,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Restaurant is a persisted place, keyed by the provider's stable place id to
// avoid duplicate rows for the same venue.
type Restaurant struct {
	ID              string
	Provider        string
	ProviderPlaceID string
	Name            string
	Address         string
	Lat             float64
	Lng             float64
	Rating          float64
	Categories      []string
	CreatedAt       time.Time
}

func NewRestaurant(provider, providerPlaceID, name, address string, lat, lng, rating float64, categories []string) *Restaurant {
	return &Restaurant{
		ID:              uuid.New().String(),
		Provider:        provider,
		ProviderPlaceID: providerPlaceID,
		Name:            name,
		Address:         address,
		Lat:             lat,
		Lng:             lng,
		Rating:          rating,
		Categories:      categories,
		CreatedAt:       time.Now(),
	}
}

// CacheEntry short-circuits repeated provider queries for the same
// (normalized_query, country, city) key. Writes are last-write-wins.
type CacheEntry struct {
	NormalizedQuery string
	Country         string
	City            string
	Provider        string
	PlaceID         string
	Name            string
	Address         string
	Lat             float64
	Lng             float64
	Score           float64
	UpdatedAt       time.Time
}
