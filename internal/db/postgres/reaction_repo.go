package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"Thrive/internal/api"
	"Thrive/internal/backend"
)

type reactionRepo struct {
	db *sql.DB
}

// NewReactionRepository creates a new PostgreSQL reaction repository
func NewReactionRepository(db *sql.DB) api.ReactionStore {
	return &reactionRepo{db: db}
}

// ListTypes returns the reaction type catalog.
func (r *reactionRepo) ListTypes(ctx context.Context) ([]backend.ReactionType, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, icon_url FROM reaction_types ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list reaction types: %w", err)
	}
	defer rows.Close()

	var types []backend.ReactionType
	for rows.Next() {
		var t backend.ReactionType
		var icon sql.NullString
		if err := rows.Scan(&t.ID, &t.Name, &icon); err != nil {
			return nil, fmt.Errorf("failed to scan reaction type: %w", err)
		}
		t.IconURL = stringOrEmpty(icon)
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reaction types: %w", err)
	}
	return types, nil
}

// ListForPost returns every reaction on a post, one row per user.
func (r *reactionRepo) ListForPost(ctx context.Context, postID string) ([]backend.Reaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT post_id, user_id, type_id
		FROM reactions
		WHERE post_id = $1
		ORDER BY created_at`, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reactions: %w", err)
	}
	defer rows.Close()

	var reactions []backend.Reaction
	for rows.Next() {
		var re backend.Reaction
		if err := rows.Scan(&re.PostID, &re.UserID, &re.TypeID); err != nil {
			return nil, fmt.Errorf("failed to scan reaction: %w", err)
		}
		reactions = append(reactions, re)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reactions: %w", err)
	}
	return reactions, nil
}

// Set upserts the user's reaction on a post. Reacting again with a
// different type replaces the previous reaction.
func (r *reactionRepo) Set(ctx context.Context, postID, userID, typeID string) (*backend.Reaction, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM reaction_types WHERE id = $1)`, typeID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check reaction type: %w", err)
	}
	if !exists {
		return nil, api.ErrNotFound
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO reactions (post_id, user_id, type_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (post_id, user_id)
		DO UPDATE SET type_id = EXCLUDED.type_id, created_at = now()`,
		postID, userID, typeID)
	if err != nil {
		return nil, fmt.Errorf("failed to set reaction: %w", err)
	}
	return &backend.Reaction{PostID: postID, UserID: userID, TypeID: typeID}, nil
}

// Remove deletes the user's reaction on a post.
func (r *reactionRepo) Remove(ctx context.Context, postID, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM reactions WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove reaction: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return api.ErrNotFound
	}
	return nil
}
