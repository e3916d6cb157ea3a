package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const googleVisionAPIURL = "https://vision.googleapis.com/v1/images:annotate"

// GoogleVisionExtractor runs TEXT_DETECTION against the Cloud Vision REST API
// with the frame referenced by URI, so image bytes never transit this service.
type GoogleVisionExtractor struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

func NewGoogleVisionExtractor(apiKey string, timeout time.Duration, log zerolog.Logger) *GoogleVisionExtractor {
	return &GoogleVisionExtractor{
		apiKey:  apiKey,
		baseURL: googleVisionAPIURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

type googleVisionRequest struct {
	Requests []imageRequest `json:"requests"`
}

type imageRequest struct {
	Image    imageContent  `json:"image"`
	Features []featureType `json:"features"`
}

type imageContent struct {
	Source imageSource `json:"source"`
}

type imageSource struct {
	ImageURI string `json:"imageUri"`
}

type featureType struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults,omitempty"`
}

type googleVisionResponse struct {
	Responses []annotateResponse `json:"responses"`
	Error     *googleError       `json:"error"`
}

type googleError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type annotateResponse struct {
	TextAnnotations []textAnnotation `json:"textAnnotations"`
	Error           *googleError     `json:"error"`
}

type textAnnotation struct {
	Description string  `json:"description"`
	Locale      string  `json:"locale"`
	Confidence  float64 `json:"confidence"`
}

func (c *GoogleVisionExtractor) ExtractText(ctx context.Context, imageURL string) (*Result, error) {
	reqBody := googleVisionRequest{
		Requests: []imageRequest{
			{
				Image: imageContent{
					Source: imageSource{ImageURI: imageURL},
				},
				Features: []featureType{
					{Type: "TEXT_DETECTION", MaxResults: 10},
				},
			},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s?key=%s", c.baseURL, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var visionResp googleVisionResponse
	if err := json.Unmarshal(body, &visionResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if visionResp.Error != nil {
		return nil, fmt.Errorf("Google Vision API error: %s", visionResp.Error.Message)
	}

	if len(visionResp.Responses) == 0 {
		return nil, fmt.Errorf("no response from Google Vision API")
	}

	response := visionResp.Responses[0]
	if response.Error != nil {
		return nil, fmt.Errorf("Google Vision API error: %s", response.Error.Message)
	}

	if len(response.TextAnnotations) == 0 {
		return &Result{Text: "", Confidence: 0}, nil
	}

	// The first annotation is the full-image text; the rest are per-word.
	full := response.TextAnnotations[0]
	confidence := full.Confidence
	if confidence <= 0 {
		confidence = 1.0
	}

	c.log.Debug().
		Int("annotations", len(response.TextAnnotations)).
		Int("text_len", len(full.Description)).
		Msg("google vision text detection complete")

	return &Result{
		Text:       full.Description,
		Confidence: confidence,
	}, nil
}
