package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"Thrive/internal/api"
	"Thrive/internal/backend"
)

type commentRepo struct {
	db *sql.DB
}

// NewCommentRepository creates a new PostgreSQL comment repository
func NewCommentRepository(db *sql.DB) api.CommentStore {
	return &commentRepo{db: db}
}

const commentColumns = `
	c.id, c.post_id, c.body, c.created_at,
	u.id, u.display_name, u.avatar_url`

// List returns a page of a post's comments, newest first.
func (r *commentRepo) List(ctx context.Context, postID string, limit, offset int) ([]backend.Comment, int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comments WHERE post_id = $1`, postID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count comments: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3`, commentColumns)

	rows, err := r.db.QueryContext(ctx, query, postID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []backend.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, err
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate comments: %w", err)
	}

	return comments, total, nil
}

// Create inserts a comment and returns it fully hydrated.
func (r *commentRepo) Create(ctx context.Context, postID, authorID, text string) (*backend.Comment, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1 AND status = 'active')`, postID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check post: %w", err)
	}
	if !exists {
		return nil, api.ErrNotFound
	}

	id := uuid.NewString()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO comments (id, post_id, author_id, body)
		VALUES ($1, $2, $3, $4)`,
		id, postID, authorID, text)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return r.get(ctx, id)
}

// Edit updates a comment's body after verifying ownership.
func (r *commentRepo) Edit(ctx context.Context, commentID, authorID, text string) (*backend.Comment, error) {
	if err := r.requireOwner(ctx, commentID, authorID); err != nil {
		return nil, err
	}

	_, err := r.db.ExecContext(ctx,
		`UPDATE comments SET body = $1 WHERE id = $2`, text, commentID)
	if err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return r.get(ctx, commentID)
}

// Delete removes a comment after verifying ownership.
func (r *commentRepo) Delete(ctx context.Context, commentID, authorID string) error {
	if err := r.requireOwner(ctx, commentID, authorID); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, commentID)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

func (r *commentRepo) get(ctx context.Context, commentID string) (*backend.Comment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.id = $1`, commentColumns)

	c, err := scanComment(r.db.QueryRowContext(ctx, query, commentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, api.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *commentRepo) requireOwner(ctx context.Context, commentID, authorID string) error {
	var owner string
	err := r.db.QueryRowContext(ctx, `SELECT author_id FROM comments WHERE id = $1`, commentID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return api.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read comment owner: %w", err)
	}
	if owner != authorID {
		return api.ErrNotOwner
	}
	return nil
}

func scanComment(row rowScanner) (backend.Comment, error) {
	var c backend.Comment
	var avatar sql.NullString
	err := row.Scan(&c.ID, &c.PostID, &c.Text, &c.CreatedAt,
		&c.Author.ID, &c.Author.DisplayName, &avatar)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c, err
		}
		return c, fmt.Errorf("failed to scan comment: %w", err)
	}
	c.Author.AvatarURL = stringOrEmpty(avatar)
	return c, nil
}
