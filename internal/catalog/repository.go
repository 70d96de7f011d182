package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Repository is a database-backed repository for the menu catalog.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// AddRestaurant inserts a restaurant and returns its id.
func (r *Repository) AddRestaurant(ctx context.Context, rtr Restaurant) (int64, error) {
	status := rtr.Status
	if status == "" {
		status = "Open"
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO restaurants (name, address, phone, hours, status)
		VALUES (?, ?, ?, ?, ?)`,
		rtr.Name, rtr.Address, rtr.Phone, rtr.Hours, status)
	if err != nil {
		return 0, fmt.Errorf("failed to insert restaurant: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read restaurant id: %w", err)
	}
	return id, nil
}

// AddMenuItem inserts a menu item and returns its id.
func (r *Repository) AddMenuItem(ctx context.Context, item MenuItem) (int64, error) {
	instock := 0
	if item.InStock {
		instock = 1
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO menu_items (rtr_id, name, description, price, calories, allergens, instock)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.RestaurantID, item.Name, item.Description, item.Price, item.Calories, item.Allergens, instock)
	if err != nil {
		return 0, fmt.Errorf("failed to insert menu item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read menu item id: %w", err)
	}
	return id, nil
}

// GetRestaurant retrieves a restaurant by id. Returns nil when not found.
func (r *Repository) GetRestaurant(ctx context.Context, id int64) (*Restaurant, error) {
	var rtr Restaurant
	err := r.db.QueryRowContext(ctx, `
		SELECT rtr_id, name, COALESCE(address, ''), COALESCE(phone, ''),
		       COALESCE(hours, ''), COALESCE(status, '')
		FROM restaurants WHERE rtr_id = ?`, id).
		Scan(&rtr.ID, &rtr.Name, &rtr.Address, &rtr.Phone, &rtr.Hours, &rtr.Status)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get restaurant %d: %w", id, err)
	}
	return &rtr, nil
}

// ItemsByIDs loads menu items for the given ids, keyed by item id. Ids with
// no matching row are simply absent from the result.
func (r *Repository) ItemsByIDs(ctx context.Context, ids []int64) (map[int64]MenuItem, error) {
	result := make(map[int64]MenuItem)
	if len(ids) == 0 {
		return result, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT itm_id, rtr_id, name, COALESCE(description, ''), COALESCE(price, 0),
		       COALESCE(calories, 0), COALESCE(allergens, ''), COALESCE(instock, 1)
		FROM menu_items WHERE itm_id IN (%s)`, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu items by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item MenuItem
		var instock int
		if err := rows.Scan(&item.ID, &item.RestaurantID, &item.Name, &item.Description,
			&item.Price, &item.Calories, &item.Allergens, &instock); err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		item.InStock = instock != 0
		result[item.ID] = item
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read menu items: %w", err)
	}
	return result, nil
}
