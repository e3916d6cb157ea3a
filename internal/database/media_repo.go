package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dishpin/dishpin/internal/models"
)

type MediaRepository struct {
	db *DB
}

func NewMediaRepository(db *DB) *MediaRepository {
	return &MediaRepository{db: db}
}

// Upsert creates the media row or refreshes its frame list and locality hint.
// Status is not touched here; only the status setters move it.
func (r *MediaRepository) Upsert(ctx context.Context, media *models.MediaItem) error {
	frameURLs, err := json.Marshal(media.FrameURLs)
	if err != nil {
		return fmt.Errorf("failed to marshal frame URLs: %w", err)
	}

	query := r.db.rebind(`
		INSERT INTO media_items (id, frame_urls, country, city, status, ocr_text, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, '', ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			frame_urls = excluded.frame_urls,
			country = excluded.country,
			city = excluded.city,
			updated_at = excluded.updated_at`)

	_, err = r.db.conn.ExecContext(ctx, query,
		media.ID,
		string(frameURLs),
		media.Country,
		media.City,
		media.Status,
		media.CreatedAt,
		media.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert media item: %w", err)
	}
	return nil
}

func (r *MediaRepository) GetByID(ctx context.Context, id string) (*models.MediaItem, error) {
	query := r.db.rebind(`
		SELECT id, frame_urls, country, city, status, ocr_text, restaurant_id, created_at, updated_at
		FROM media_items
		WHERE id = ?`)

	media := &models.MediaItem{}
	var frameURLs string
	var restaurantID sql.NullString

	err := r.db.conn.QueryRowContext(ctx, query, id).Scan(
		&media.ID,
		&frameURLs,
		&media.Country,
		&media.City,
		&media.Status,
		&media.OCRText,
		&restaurantID,
		&media.CreatedAt,
		&media.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("media item %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get media item: %w", err)
	}

	if err := json.Unmarshal([]byte(frameURLs), &media.FrameURLs); err != nil {
		media.FrameURLs = []string{}
	}
	media.RestaurantID = restaurantID.String

	return media, nil
}

// SetProcessing moves the row into processing. Allowed from uploaded and from
// processing itself, so a retried request can pick up a run that never
// finished; terminal rows are never dragged back.
func (r *MediaRepository) SetProcessing(ctx context.Context, id string) error {
	query := r.db.rebind(`
		UPDATE media_items SET status = ?, updated_at = ?
		WHERE id = ? AND status IN (?, ?)`)

	result, err := r.db.conn.ExecContext(ctx, query,
		models.StatusProcessing, time.Now(), id,
		models.StatusUploaded, models.StatusProcessing,
	)
	if err != nil {
		return fmt.Errorf("failed to mark media processing: %w", err)
	}
	return checkTransition(result)
}

// SetOutcome writes the terminal state in one statement so the stored status,
// text and restaurant link always agree with the returned response. It only
// fires from processing: a row reaches a terminal state at most once.
func (r *MediaRepository) SetOutcome(ctx context.Context, id, status, ocrText, restaurantID string) error {
	var restID sql.NullString
	if restaurantID != "" {
		restID = sql.NullString{String: restaurantID, Valid: true}
	}

	query := r.db.rebind(`
		UPDATE media_items
		SET status = ?, ocr_text = ?, restaurant_id = ?, updated_at = ?
		WHERE id = ? AND status = ?`)

	result, err := r.db.conn.ExecContext(ctx, query,
		status, ocrText, restID, time.Now(), id, models.StatusProcessing,
	)
	if err != nil {
		return fmt.Errorf("failed to persist media outcome: %w", err)
	}
	return checkTransition(result)
}

// SetError is the failure-path terminal write; it leaves ocr_text untouched.
func (r *MediaRepository) SetError(ctx context.Context, id string) error {
	query := r.db.rebind(`
		UPDATE media_items SET status = ?, updated_at = ?
		WHERE id = ? AND status = ?`)

	result, err := r.db.conn.ExecContext(ctx, query,
		models.StatusError, time.Now(), id, models.StatusProcessing,
	)
	if err != nil {
		return fmt.Errorf("failed to persist error status: %w", err)
	}
	return checkTransition(result)
}

func checkTransition(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return nil
	}
	if n == 0 {
		return fmt.Errorf("media item missing or %w", ErrTerminalStatus)
	}
	return nil
}
