package ocr

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dishpin/dishpin/internal/config"
)

func TestNewExtractor(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.ProviderConfig
		want    string
		wantErr bool
	}{
		{
			name: "google",
			cfg: config.ProviderConfig{
				OCRProvider:     config.OCRProviderGoogle,
				GoogleVisionKey: "key",
				Timeout:         time.Second,
			},
			want: "*ocr.GoogleVisionExtractor",
		},
		{
			name: "ocrspace",
			cfg: config.ProviderConfig{
				OCRProvider: config.OCRProviderOCRSpace,
				OCRSpaceKey: "key",
				Timeout:     time.Second,
			},
			want: "*ocr.OCRSpaceExtractor",
		},
		{
			name: "google without key",
			cfg: config.ProviderConfig{
				OCRProvider: config.OCRProviderGoogle,
			},
			wantErr: true,
		},
		{
			name: "ocrspace without key",
			cfg: config.ProviderConfig{
				OCRProvider: config.OCRProviderOCRSpace,
			},
			wantErr: true,
		},
		{
			name: "unknown provider",
			cfg: config.ProviderConfig{
				OCRProvider: "tesseract",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor, err := NewExtractor(tt.cfg, zerolog.Nop())
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewExtractor failed: %v", err)
			}
			switch tt.want {
			case "*ocr.GoogleVisionExtractor":
				if _, ok := extractor.(*GoogleVisionExtractor); !ok {
					t.Errorf("Expected GoogleVisionExtractor, got %T", extractor)
				}
			case "*ocr.OCRSpaceExtractor":
				if _, ok := extractor.(*OCRSpaceExtractor); !ok {
					t.Errorf("Expected OCRSpaceExtractor, got %T", extractor)
				}
			}
		})
	}
}
