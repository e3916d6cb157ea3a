package ocr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const ocrSpaceAPIURL = "https://api.ocr.space/parse/imageurl"

// OCRSpaceExtractor is the secondary text-recognition provider. It satisfies
// the same contract and failure policy as the Google extractor.
type OCRSpaceExtractor struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

func NewOCRSpaceExtractor(apiKey string, timeout time.Duration, log zerolog.Logger) *OCRSpaceExtractor {
	return &OCRSpaceExtractor{
		apiKey:  apiKey,
		baseURL: ocrSpaceAPIURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

type ocrSpaceResponse struct {
	ParsedResults []struct {
		ParsedText        string `json:"ParsedText"`
		ErrorMessage      string `json:"ErrorMessage"`
		FileParseExitCode int    `json:"FileParseExitCode"`
	} `json:"ParsedResults"`
	OCRExitCode           int  `json:"OCRExitCode"`
	IsErroredOnProcessing bool `json:"IsErroredOnProcessing"`
	ErrorMessage          any  `json:"ErrorMessage"`
}

func (c *OCRSpaceExtractor) ExtractText(ctx context.Context, imageURL string) (*Result, error) {
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("url", imageURL)
	params.Set("OCREngine", "2")
	params.Set("scale", "true")

	fullURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OCR.space API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var ocrResp ocrSpaceResponse
	if err := json.Unmarshal(body, &ocrResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if ocrResp.IsErroredOnProcessing {
		return nil, fmt.Errorf("OCR.space processing error: %v", ocrResp.ErrorMessage)
	}

	if len(ocrResp.ParsedResults) == 0 {
		return &Result{Text: "", Confidence: 0}, nil
	}

	var parts []string
	for _, r := range ocrResp.ParsedResults {
		if r.FileParseExitCode == 1 && r.ParsedText != "" {
			parts = append(parts, r.ParsedText)
		}
	}

	text := strings.TrimSpace(strings.Join(parts, "\n"))

	confidence := 0.0
	if text != "" {
		confidence = 1.0
	}

	c.log.Debug().
		Int("parsed_results", len(ocrResp.ParsedResults)).
		Int("text_len", len(text)).
		Msg("ocr.space parse complete")

	return &Result{
		Text:       text,
		Confidence: confidence,
	}, nil
}
