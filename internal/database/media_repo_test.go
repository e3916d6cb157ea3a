package database

import (
	"context"
	"errors"
	"testing"

	"github.com/dishpin/dishpin/internal/models"
)

const testMediaID = "a2e8fedc-15c7-4d0a-9a15-7c2f0fc1d001"

func TestMediaUpsertAndGet(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewMediaRepository(db)
	ctx := context.Background()

	media := models.NewMediaItem(testMediaID, []string{
		"https://cdn.example.com/frame-1.jpg",
		"https://cdn.example.com/frame-2.jpg",
	}, "US", "New York")

	if err := repo.Upsert(ctx, media); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := repo.GetByID(ctx, testMediaID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	if got.ID != testMediaID {
		t.Errorf("Expected id %s, got %s", testMediaID, got.ID)
	}
	if got.Status != models.StatusUploaded {
		t.Errorf("Expected status uploaded, got %s", got.Status)
	}
	if len(got.FrameURLs) != 2 || got.FrameURLs[0] != "https://cdn.example.com/frame-1.jpg" {
		t.Errorf("Frame URLs did not round-trip: %v", got.FrameURLs)
	}
	if got.Country != "US" || got.City != "New York" {
		t.Errorf("Locality hint did not round-trip: %s/%s", got.Country, got.City)
	}
	if got.RestaurantID != "" {
		t.Errorf("Expected no restaurant link yet, got %s", got.RestaurantID)
	}
}

func TestMediaUpsertRefreshesFrames(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewMediaRepository(db)
	ctx := context.Background()

	media := models.NewMediaItem(testMediaID, []string{"https://cdn.example.com/a.jpg"}, "", "")
	if err := repo.Upsert(ctx, media); err != nil {
		t.Fatalf("First upsert failed: %v", err)
	}
	if err := repo.SetProcessing(ctx, testMediaID); err != nil {
		t.Fatalf("SetProcessing failed: %v", err)
	}

	media.FrameURLs = []string{"https://cdn.example.com/b.jpg"}
	media.City = "Lisbon"
	if err := repo.Upsert(ctx, media); err != nil {
		t.Fatalf("Second upsert failed: %v", err)
	}

	got, err := repo.GetByID(ctx, testMediaID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.FrameURLs) != 1 || got.FrameURLs[0] != "https://cdn.example.com/b.jpg" {
		t.Errorf("Expected refreshed frame list, got %v", got.FrameURLs)
	}
	if got.City != "Lisbon" {
		t.Errorf("Expected refreshed city, got %s", got.City)
	}
	if got.Status != models.StatusProcessing {
		t.Errorf("Upsert must not touch status, got %s", got.Status)
	}
}

func TestMediaSetOutcome(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	mediaRepo := NewMediaRepository(db)
	restRepo := NewRestaurantRepository(db)
	ctx := context.Background()

	media := models.NewMediaItem(testMediaID, []string{"https://cdn.example.com/a.jpg"}, "US", "")
	if err := mediaRepo.Upsert(ctx, media); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := mediaRepo.SetProcessing(ctx, testMediaID); err != nil {
		t.Fatalf("SetProcessing failed: %v", err)
	}

	restaurant := models.NewRestaurant("google", "gp-1", "Joe's Pizza", "7 Carmine St", 40.73, -74.0, 4.5, []string{"restaurant"})
	restID, err := restRepo.UpsertByPlaceID(ctx, restaurant)
	if err != nil {
		t.Fatalf("UpsertByPlaceID failed: %v", err)
	}

	if err := mediaRepo.SetOutcome(ctx, testMediaID, models.StatusDone, "joe s pizza", restID); err != nil {
		t.Fatalf("SetOutcome failed: %v", err)
	}

	got, err := mediaRepo.GetByID(ctx, testMediaID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.StatusDone {
		t.Errorf("Expected status done, got %s", got.Status)
	}
	if got.OCRText != "joe s pizza" {
		t.Errorf("Expected persisted OCR text, got %q", got.OCRText)
	}
	if got.RestaurantID != restID {
		t.Errorf("Expected restaurant link %s, got %s", restID, got.RestaurantID)
	}
}

func TestMediaNotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewMediaRepository(db)
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, testMediaID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected not-found error for unknown media item, got %v", err)
	}
	if err := repo.SetProcessing(ctx, testMediaID); err == nil {
		t.Error("Expected error when updating unknown media item")
	}
	if err := repo.SetOutcome(ctx, testMediaID, models.StatusDone, "", ""); err == nil {
		t.Error("Expected error when persisting outcome for unknown media item")
	}
}

func TestMediaStatusMonotonic(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewMediaRepository(db)
	ctx := context.Background()

	media := models.NewMediaItem(testMediaID, []string{"https://cdn.example.com/a.jpg"}, "", "")
	if err := repo.Upsert(ctx, media); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := repo.SetProcessing(ctx, testMediaID); err != nil {
		t.Fatalf("SetProcessing failed: %v", err)
	}

	// Processing is re-enterable so an interrupted run can be retried.
	if err := repo.SetProcessing(ctx, testMediaID); err != nil {
		t.Fatalf("SetProcessing from processing failed: %v", err)
	}

	if err := repo.SetOutcome(ctx, testMediaID, models.StatusDone, "joe s pizza", ""); err != nil {
		t.Fatalf("SetOutcome failed: %v", err)
	}

	// Terminal is final: no second terminal write, no slide back to processing.
	if err := repo.SetOutcome(ctx, testMediaID, models.StatusNeedsConfirmation, "other text", ""); !errors.Is(err, ErrTerminalStatus) {
		t.Errorf("Expected terminal-status error on second outcome write, got %v", err)
	}
	if err := repo.SetProcessing(ctx, testMediaID); !errors.Is(err, ErrTerminalStatus) {
		t.Errorf("Expected terminal-status error reprocessing a done item, got %v", err)
	}
	if err := repo.SetError(ctx, testMediaID); !errors.Is(err, ErrTerminalStatus) {
		t.Errorf("Expected terminal-status error writing error over done, got %v", err)
	}

	got, err := repo.GetByID(ctx, testMediaID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.StatusDone {
		t.Errorf("Terminal status overwritten: expected done, got %s", got.Status)
	}
	if got.OCRText != "joe s pizza" {
		t.Errorf("Terminal text overwritten: got %q", got.OCRText)
	}
}
