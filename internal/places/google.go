package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	googleTextSearchURL = "https://maps.googleapis.com/maps/api/place/textsearch/json"
	googleDetailsURL    = "https://maps.googleapis.com/maps/api/place/details/json"
)

// GooglePlacesClient queries the Google Places REST API. The city hint is
// appended textually to the query; a two-letter country hint becomes a region
// bias, which the provider treats as a preference rather than a hard filter.
type GooglePlacesClient struct {
	apiKey     string
	searchURL  string
	detailsURL string
	httpClient *http.Client
	log        zerolog.Logger
}

func NewGooglePlacesClient(apiKey string, timeout time.Duration, log zerolog.Logger) *GooglePlacesClient {
	return &GooglePlacesClient{
		apiKey:     apiKey,
		searchURL:  googleTextSearchURL,
		detailsURL: googleDetailsURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

type googleSearchResponse struct {
	Results      []googlePlace `json:"results"`
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message"`
}

type googleDetailsResponse struct {
	Result       googlePlace `json:"result"`
	Status       string      `json:"status"`
	ErrorMessage string      `json:"error_message"`
}

type googlePlace struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Vicinity         string   `json:"vicinity"`
	Rating           float64  `json:"rating"`
	Types            []string `json:"types"`
	Geometry         struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}

func (c *GooglePlacesClient) Search(ctx context.Context, query, country, city string) ([]Record, error) {
	text := query
	if city != "" {
		text = text + " " + city
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("query", text)
	params.Set("type", "restaurant")
	if len(country) == 2 {
		params.Set("region", strings.ToLower(country))
	}

	fullURL := fmt.Sprintf("%s?%s", c.searchURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("query", text).Msg("place search request failed")
		return []Record{}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn().Int("status", resp.StatusCode).Str("query", text).Msg("place search returned non-OK status")
		return []Record{}, nil
	}

	var searchResp googleSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		c.log.Warn().Err(err).Str("query", text).Msg("failed to decode place search response")
		return []Record{}, nil
	}

	if searchResp.Status != "OK" && searchResp.Status != "ZERO_RESULTS" {
		c.log.Warn().
			Str("provider_status", searchResp.Status).
			Str("error_message", searchResp.ErrorMessage).
			Str("query", text).
			Msg("place search returned non-success provider status")
		return []Record{}, nil
	}

	records := make([]Record, 0, len(searchResp.Results))
	for _, p := range searchResp.Results {
		records = append(records, p.toRecord())
	}

	return records, nil
}

func (c *GooglePlacesClient) Details(ctx context.Context, placeID string) (*Record, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("place_id", placeID)
	params.Set("fields", "place_id,name,formatted_address,geometry,rating,types")

	fullURL := fmt.Sprintf("%s?%s", c.detailsURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Places API returned status %d", resp.StatusCode)
	}

	var detailsResp googleDetailsResponse
	if err := json.NewDecoder(resp.Body).Decode(&detailsResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	switch detailsResp.Status {
	case "OK":
	case "NOT_FOUND", "ZERO_RESULTS", "INVALID_REQUEST":
		return nil, nil
	default:
		return nil, fmt.Errorf("Places API returned status %s: %s", detailsResp.Status, detailsResp.ErrorMessage)
	}

	record := detailsResp.Result.toRecord()
	return &record, nil
}

func (p googlePlace) toRecord() Record {
	address := p.FormattedAddress
	if address == "" {
		address = p.Vicinity
	}
	return Record{
		Name:       p.Name,
		Address:    address,
		Lat:        p.Geometry.Location.Lat,
		Lng:        p.Geometry.Location.Lng,
		PlaceID:    p.PlaceID,
		Rating:     p.Rating,
		Categories: p.Types,
	}
}
