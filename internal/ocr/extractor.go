package ocr

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dishpin/dishpin/internal/config"
)

// Result is the outcome of one text-recognition call for one frame.
// Confidence is in [0,1].
type Result struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// TextExtractor turns an image URL into recognized text. Implementations make
// exactly one provider call per invocation and do not retry; transient
// failures surface as errors and the caller substitutes an empty result.
type TextExtractor interface {
	ExtractText(ctx context.Context, imageURL string) (*Result, error)
}

// NewExtractor selects the configured provider once at setup time.
func NewExtractor(cfg config.ProviderConfig, log zerolog.Logger) (TextExtractor, error) {
	switch cfg.OCRProvider {
	case config.OCRProviderGoogle:
		if cfg.GoogleVisionKey == "" {
			return nil, fmt.Errorf("GOOGLE_VISION_API_KEY is required for the google OCR provider")
		}
		log.Info().Str("provider", "google").Msg("text extractor enabled")
		return NewGoogleVisionExtractor(cfg.GoogleVisionKey, cfg.Timeout, log), nil
	case config.OCRProviderOCRSpace:
		if cfg.OCRSpaceKey == "" {
			return nil, fmt.Errorf("OCRSPACE_API_KEY is required for the ocrspace OCR provider")
		}
		log.Info().Str("provider", "ocrspace").Msg("text extractor enabled")
		return NewOCRSpaceExtractor(cfg.OCRSpaceKey, cfg.Timeout, log), nil
	default:
		return nil, fmt.Errorf("unsupported OCR provider: %s", cfg.OCRProvider)
	}
}
