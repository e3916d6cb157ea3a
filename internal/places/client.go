package places

import "context"

// Record is a structured location result from the place-search provider.
// PlaceID is the provider's stable identifier and the join key used to avoid
// duplicate restaurant rows.
type Record struct {
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Lat        float64  `json:"lat"`
	Lng        float64  `json:"lng"`
	PlaceID    string   `json:"place_id"`
	Rating     float64  `json:"rating,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

// Client searches the place provider. Search degrades to an empty slice on
// provider failure rather than returning an error; Details returns (nil, nil)
// when the place is unknown.
type Client interface {
	Search(ctx context.Context, query, country, city string) ([]Record, error)
	Details(ctx context.Context, placeID string) (*Record, error)
}
