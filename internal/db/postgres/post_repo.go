package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"Thrive/internal/api"
	"Thrive/internal/backend"
)

type postRepo struct {
	db *sql.DB
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sql.DB) api.PostStore {
	return &postRepo{db: db}
}

// postColumns assumes $1 is always the viewer id, so the embedded report
// status reflects the viewer's own report rather than anyone else's.
const postColumns = `
	p.id, p.group_id, p.content, p.thumbnail_url, p.tags, p.status, p.created_at,
	u.id, u.display_name, u.avatar_url,
	(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count,
	COALESCE((SELECT r.status FROM reports r WHERE r.post_id = p.id AND r.reporter_id = $1), 'none') AS report_status`

// List returns a filtered page of a group's posts, newest first.
func (r *postRepo) List(ctx context.Context, viewerID, groupID string, filter api.PostFilter) ([]backend.Post, int, error) {
	where := `p.group_id = $2`
	args := []any{viewerID, groupID}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(` AND p.content ILIKE $%d`, len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(` AND p.status = $%d`, len(args))
	}
	if filter.From != "" {
		args = append(args, filter.From)
		where += fmt.Sprintf(` AND p.created_at >= $%d::date`, len(args))
	}
	if filter.To != "" {
		args = append(args, filter.To)
		where += fmt.Sprintf(` AND p.created_at < $%d::date + INTERVAL '1 day'`, len(args))
	}

	// The count query reuses the same clause; $1 (the viewer) only
	// appears in postColumns, so it is bound to a throwaway comparison
	// here to keep placeholder numbering identical.
	countQuery := `SELECT COUNT(*) FROM posts p WHERE $1::text IS NOT NULL AND ` + where
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE %s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d`, postColumns, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []backend.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate posts: %w", err)
	}

	return posts, total, nil
}

// Get retrieves a single post.
func (r *postRepo) Get(ctx context.Context, viewerID, postID string) (*backend.Post, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.id = $2`, postColumns)

	p, err := scanPost(r.db.QueryRowContext(ctx, query, viewerID, postID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, api.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Create inserts a post and returns it fully hydrated.
func (r *postRepo) Create(ctx context.Context, authorID string, req backend.CreatePostRequest) (*backend.Post, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO posts (id, group_id, author_id, content, thumbnail_url, tags)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id, req.GroupID, authorID, req.Content, nullString(req.ThumbnailURL), pq.Array(req.Tags))
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return r.Get(ctx, authorID, id)
}

// Edit updates a post's content after verifying ownership.
func (r *postRepo) Edit(ctx context.Context, postID, authorID string, req backend.EditPostRequest) (*backend.Post, error) {
	if err := r.requireOwner(ctx, postID, authorID); err != nil {
		return nil, err
	}

	_, err := r.db.ExecContext(ctx, `
		UPDATE posts SET content = $1, thumbnail_url = $2, tags = $3
		WHERE id = $4`,
		req.Content, nullString(req.ThumbnailURL), pq.Array(req.Tags), postID)
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return r.Get(ctx, authorID, postID)
}

// Delete soft-deletes a post after verifying ownership.
func (r *postRepo) Delete(ctx context.Context, postID, authorID string) error {
	if err := r.requireOwner(ctx, postID, authorID); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx,
		`UPDATE posts SET status = 'deleted' WHERE id = $1`, postID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

func (r *postRepo) requireOwner(ctx context.Context, postID, authorID string) error {
	var owner string
	err := r.db.QueryRowContext(ctx, `SELECT author_id FROM posts WHERE id = $1`, postID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return api.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read post owner: %w", err)
	}
	if owner != authorID {
		return api.ErrNotOwner
	}
	return nil
}

func scanPost(row rowScanner) (backend.Post, error) {
	var p backend.Post
	var thumbnail, avatar sql.NullString
	var tags pq.StringArray
	err := row.Scan(&p.ID, &p.GroupID, &p.Content, &thumbnail, &tags, &p.Status,
		&p.CreatedAt, &p.Author.ID, &p.Author.DisplayName, &avatar,
		&p.CommentCount, &p.ReportStatus)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, err
		}
		return p, fmt.Errorf("failed to scan post: %w", err)
	}
	p.ThumbnailURL = stringOrEmpty(thumbnail)
	p.Author.AvatarURL = stringOrEmpty(avatar)
	p.Tags = tags
	return p, nil
}
