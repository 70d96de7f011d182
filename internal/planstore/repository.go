package planstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Repository persists the serialized meal plan per user. The plan string is
// opaque here; parsing and appending belong to the mealgen package.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the stored plan for a user, or "" when none exists yet.
func (r *Repository) Get(ctx context.Context, userID string) (string, error) {
	var plan string
	err := r.db.QueryRowContext(ctx,
		`SELECT plan FROM meal_plans WHERE user_id = ?`, userID).Scan(&plan)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to get plan for user %s: %w", userID, err)
	}
	return plan, nil
}

// Save stores the plan for a user, replacing any previous one.
func (r *Repository) Save(ctx context.Context, userID, plan string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO meal_plans (user_id, plan, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET plan = excluded.plan, updated_at = excluded.updated_at`,
		userID, plan, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save plan for user %s: %w", userID, err)
	}
	return nil
}
