package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dishpin/dishpin/internal/models"
)

type RestaurantRepository struct {
	db *DB
}

func NewRestaurantRepository(db *DB) *RestaurantRepository {
	return &RestaurantRepository{db: db}
}

// UpsertByPlaceID gets-or-creates the restaurant keyed by the provider's
// stable place id and returns the internal id, so repeated confirmations of
// the same venue never create duplicate rows.
func (r *RestaurantRepository) UpsertByPlaceID(ctx context.Context, restaurant *models.Restaurant) (string, error) {
	existing := r.db.rebind(`SELECT id FROM restaurants WHERE provider = ? AND provider_place_id = ?`)

	var id string
	err := r.db.conn.QueryRowContext(ctx, existing, restaurant.Provider, restaurant.ProviderPlaceID).Scan(&id)
	if err == nil {
		update := r.db.rebind(`
			UPDATE restaurants
			SET name = ?, address = ?, lat = ?, lng = ?, rating = ?, categories = ?
			WHERE id = ?`)
		categories, merr := json.Marshal(restaurant.Categories)
		if merr != nil {
			return "", fmt.Errorf("failed to marshal categories: %w", merr)
		}
		if _, uerr := r.db.conn.ExecContext(ctx, update,
			restaurant.Name, restaurant.Address, restaurant.Lat, restaurant.Lng,
			restaurant.Rating, string(categories), id,
		); uerr != nil {
			return "", fmt.Errorf("failed to update restaurant: %w", uerr)
		}
		return id, nil
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("failed to look up restaurant: %w", err)
	}

	categories, err := json.Marshal(restaurant.Categories)
	if err != nil {
		return "", fmt.Errorf("failed to marshal categories: %w", err)
	}

	insert := r.db.rebind(`
		INSERT INTO restaurants (id, provider, provider_place_id, name, address, lat, lng, rating, categories, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err = r.db.conn.ExecContext(ctx, insert,
		restaurant.ID,
		restaurant.Provider,
		restaurant.ProviderPlaceID,
		restaurant.Name,
		restaurant.Address,
		restaurant.Lat,
		restaurant.Lng,
		restaurant.Rating,
		string(categories),
		restaurant.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert restaurant: %w", err)
	}

	return restaurant.ID, nil
}

func (r *RestaurantRepository) GetByID(ctx context.Context, id string) (*models.Restaurant, error) {
	query := r.db.rebind(`
		SELECT id, provider, provider_place_id, name, address, lat, lng, rating, categories, created_at
		FROM restaurants
		WHERE id = ?`)

	restaurant := &models.Restaurant{}
	var categories string

	err := r.db.conn.QueryRowContext(ctx, query, id).Scan(
		&restaurant.ID,
		&restaurant.Provider,
		&restaurant.ProviderPlaceID,
		&restaurant.Name,
		&restaurant.Address,
		&restaurant.Lat,
		&restaurant.Lng,
		&restaurant.Rating,
		&categories,
		&restaurant.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("restaurant %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}

	if err := json.Unmarshal([]byte(categories), &restaurant.Categories); err != nil {
		restaurant.Categories = []string{}
	}

	return restaurant, nil
}
