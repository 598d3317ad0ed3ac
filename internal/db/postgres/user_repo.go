package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"Thrive/internal/api"
)

type userRepo struct {
	db *sql.DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sql.DB) api.UserStore {
	return &userRepo{db: db}
}

// Ensure upserts an account row so foreign keys resolve for tokens
// issued to users the server hasn't seen before.
func (r *userRepo) Ensure(ctx context.Context, id, displayName, avatarURL string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, display_name, avatar_url)
		VALUES ($1, $2, $3)
		ON CONFLICT (id)
		DO UPDATE SET display_name = EXCLUDED.display_name, avatar_url = EXCLUDED.avatar_url`,
		id, displayName, nullString(avatarURL))
	if err != nil {
		return fmt.Errorf("failed to ensure user: %w", err)
	}
	return nil
}
