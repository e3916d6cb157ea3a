package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dishpin/dishpin/internal/models"
)

type CacheRepository struct {
	db *DB
}

func NewCacheRepository(db *DB) *CacheRepository {
	return &CacheRepository{db: db}
}

// Get returns the cached entry for the key, or nil on a miss. Entries older
// than ttl are treated as misses; expiry is read-side only, rows are
// overwritten in place on the next confirm.
func (r *CacheRepository) Get(ctx context.Context, normalizedQuery, country, city string, ttl time.Duration) (*models.CacheEntry, error) {
	query := r.db.rebind(`
		SELECT normalized_query, country, city, provider, place_id, name, address, lat, lng, score, updated_at
		FROM place_cache
		WHERE normalized_query = ? AND country = ? AND city = ?`)

	entry := &models.CacheEntry{}
	err := r.db.conn.QueryRowContext(ctx, query, normalizedQuery, country, city).Scan(
		&entry.NormalizedQuery,
		&entry.Country,
		&entry.City,
		&entry.Provider,
		&entry.PlaceID,
		&entry.Name,
		&entry.Address,
		&entry.Lat,
		&entry.Lng,
		&entry.Score,
		&entry.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query place cache: %w", err)
	}

	if ttl > 0 && time.Since(entry.UpdatedAt) > ttl {
		return nil, nil
	}

	return entry, nil
}

// Put upserts by key; last write wins.
func (r *CacheRepository) Put(ctx context.Context, entry *models.CacheEntry) error {
	query := r.db.rebind(`
		INSERT INTO place_cache (normalized_query, country, city, provider, place_id, name, address, lat, lng, score, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (normalized_query, country, city) DO UPDATE SET
			provider = excluded.provider,
			place_id = excluded.place_id,
			name = excluded.name,
			address = excluded.address,
			lat = excluded.lat,
			lng = excluded.lng,
			score = excluded.score,
			updated_at = excluded.updated_at`)

	_, err := r.db.conn.ExecContext(ctx, query,
		entry.NormalizedQuery,
		entry.Country,
		entry.City,
		entry.Provider,
		entry.PlaceID,
		entry.Name,
		entry.Address,
		entry.Lat,
		entry.Lng,
		entry.Score,
		entry.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert cache entry: %w", err)
	}
	return nil
}
