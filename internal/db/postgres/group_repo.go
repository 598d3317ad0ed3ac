package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"Thrive/internal/api"
	"Thrive/internal/backend"
)

type groupRepo struct {
	db *sql.DB
}

// NewGroupRepository creates a new PostgreSQL group repository
func NewGroupRepository(db *sql.DB) api.GroupStore {
	return &groupRepo{db: db}
}

const groupColumns = `
	g.id, g.name, g.description, g.thumbnail_url, g.private, g.created_at,
	(SELECT COUNT(*) FROM memberships m2 WHERE m2.group_id = g.id AND m2.status = 'joined') AS member_count,
	COALESCE(m.status, 'none') AS membership`

// List returns a directory page with the viewer's membership status joined in.
func (r *groupRepo) List(ctx context.Context, viewerID string, limit, offset int) ([]backend.Group, int, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM groups g
		LEFT JOIN memberships m ON m.group_id = g.id AND m.user_id = $1
		ORDER BY g.created_at ASC
		LIMIT $2 OFFSET $3`, groupColumns)

	rows, err := r.db.QueryContext(ctx, query, viewerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []backend.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, 0, err
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate groups: %w", err)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM groups`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count groups: %w", err)
	}

	return groups, total, nil
}

// Get retrieves a single group with the viewer's membership status.
func (r *groupRepo) Get(ctx context.Context, viewerID, groupID string) (*backend.Group, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM groups g
		LEFT JOIN memberships m ON m.group_id = g.id AND m.user_id = $1
		WHERE g.id = $2`, groupColumns)

	row := r.db.QueryRowContext(ctx, query, viewerID, groupID)
	g, err := scanGroup(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, api.ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

// MembershipStatus returns 'joined', 'pending', or 'none'.
func (r *groupRepo) MembershipStatus(ctx context.Context, groupID, userID string) (string, error) {
	var status string
	err := r.db.QueryRowContext(ctx,
		`SELECT status FROM memberships WHERE group_id = $1 AND user_id = $2`,
		groupID, userID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "none", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read membership: %w", err)
	}
	return status, nil
}

// Join records a membership: 'joined' for public groups, 'pending' for
// private ones. A second join is a duplicate.
func (r *groupRepo) Join(ctx context.Context, groupID, userID string) (string, error) {
	var private bool
	err := r.db.QueryRowContext(ctx, `SELECT private FROM groups WHERE id = $1`, groupID).Scan(&private)
	if errors.Is(err, sql.ErrNoRows) {
		return "", api.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read group: %w", err)
	}

	status := "joined"
	if private {
		status = "pending"
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO memberships (group_id, user_id, status) VALUES ($1, $2, $3)`,
		groupID, userID, status)
	if err != nil {
		if isUniqueViolation(err) {
			return "", api.ErrDuplicate
		}
		return "", fmt.Errorf("failed to create membership: %w", err)
	}
	return status, nil
}

// Leave removes a membership. Leaving a group the user never joined is a
// duplicate of the already-true state.
func (r *groupRepo) Leave(ctx context.Context, groupID, userID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM memberships WHERE group_id = $1 AND user_id = $2`,
		groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete membership: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return api.ErrDuplicate
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGroup(row rowScanner) (backend.Group, error) {
	var g backend.Group
	var thumbnail sql.NullString
	err := row.Scan(&g.ID, &g.Name, &g.Description, &thumbnail, &g.Private,
		&g.CreatedAt, &g.MemberCount, &g.Membership)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return g, err
		}
		return g, fmt.Errorf("failed to scan group: %w", err)
	}
	g.ThumbnailURL = stringOrEmpty(thumbnail)
	return g, nil
}
