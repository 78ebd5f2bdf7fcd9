package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/autoplaza/dealerbot/internal/domain"
)

type InventoryRepo struct {
	pool *pgxpool.Pool
}

func NewInventoryRepo(pool *pgxpool.Pool) *InventoryRepo {
	return &InventoryRepo{pool: pool}
}

// ListAvailable returns available vehicles, most recently synced first, capped
// at limit to bound prompt size.
func (r *InventoryRepo) ListAvailable(ctx context.Context, configurationID int64, limit int) ([]domain.Vehicle, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, configuration_id, make, model, year, price, currency, specs, available, synced_at
		FROM inventory_vehicles
		WHERE configuration_id = $1 AND available
		ORDER BY synced_at DESC
		LIMIT $2`,
		configurationID, limit)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		var v domain.Vehicle
		if err := rows.Scan(
			&v.ID, &v.ConfigurationID, &v.Make, &v.Model, &v.Year,
			&v.Price, &v.Currency, &v.Specs, &v.Available, &v.SyncedAt,
		); err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}
