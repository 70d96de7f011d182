package catalog

import (
	"context"
	"database/sql"
	"fmt"
)

// Snapshot is an immutable in-memory working set of eligible menu items and
// restaurant hours. It is loaded once per generator instance and never
// refreshed; nothing mutates it after construction.
type Snapshot struct {
	items []MenuItem
	hours map[int64]string // restaurant id -> hours JSON
}

// NewSnapshot builds a snapshot from already-loaded data. Used by callers
// that assemble the working set themselves, e.g. tests.
func NewSnapshot(items []MenuItem, hours map[int64]string) *Snapshot {
	return &Snapshot{items: items, hours: hours}
}

// LoadSnapshot reads the active menu items and open restaurants into memory.
// Items flagged out of stock and restaurants that are not open (or whose
// status is unknown) are filtered out at load time.
func LoadSnapshot(ctx context.Context, db *sql.DB) (*Snapshot, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT itm_id, rtr_id, name, COALESCE(description, ''), COALESCE(price, 0),
		       COALESCE(calories, 0), COALESCE(allergens, '')
		FROM menu_items
		WHERE instock = 1 OR instock IS NULL`)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu items: %w", err)
	}
	defer rows.Close()

	var items []MenuItem
	for rows.Next() {
		var item MenuItem
		if err := rows.Scan(&item.ID, &item.RestaurantID, &item.Name, &item.Description,
			&item.Price, &item.Calories, &item.Allergens); err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		item.InStock = true
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read menu items: %w", err)
	}

	hourRows, err := db.QueryContext(ctx, `
		SELECT rtr_id, COALESCE(hours, '')
		FROM restaurants
		WHERE status = 'Open' OR status IS NULL`)
	if err != nil {
		return nil, fmt.Errorf("failed to load restaurant hours: %w", err)
	}
	defer hourRows.Close()

	hours := make(map[int64]string)
	for hourRows.Next() {
		var id int64
		var h string
		if err := hourRows.Scan(&id, &h); err != nil {
			return nil, fmt.Errorf("failed to scan restaurant hours: %w", err)
		}
		hours[id] = h
	}
	if err := hourRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read restaurant hours: %w", err)
	}

	return &Snapshot{items: items, hours: hours}, nil
}

// Len returns the number of items in the working set.
func (s *Snapshot) Len() int {
	return len(s.items)
}

// Eligible returns the items whose restaurant is open on weekday at
// time-of-day t and that are free of the given comma-separated allergens.
// Pure filter over the snapshot; the returned slice is freshly allocated.
func (s *Snapshot) Eligible(weekday string, t int, allergens string) []MenuItem {
	var eligible []MenuItem
	for _, item := range s.items {
		hoursJSON, visible := s.hours[item.RestaurantID]
		if !visible {
			continue
		}
		if !openAt(hoursJSON, weekday, t) {
			continue
		}
		if hasAllergen(item.Allergens, allergens) {
			continue
		}
		eligible = append(eligible, item)
	}
	return eligible
}
