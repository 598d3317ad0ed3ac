package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"Thrive/internal/api"
	"Thrive/internal/backend"
)

type reportRepo struct {
	db *sql.DB
}

// NewReportRepository creates a new PostgreSQL report repository
func NewReportRepository(db *sql.DB) api.ReportStore {
	return &reportRepo{db: db}
}

// ListReasons returns the report reason catalog.
func (r *reportRepo) ListReasons(ctx context.Context) ([]backend.ReportReason, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, label FROM report_reasons ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list report reasons: %w", err)
	}
	defer rows.Close()

	var reasons []backend.ReportReason
	for rows.Next() {
		var reason backend.ReportReason
		if err := rows.Scan(&reason.ID, &reason.Label); err != nil {
			return nil, fmt.Errorf("failed to scan report reason: %w", err)
		}
		reasons = append(reasons, reason)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate report reasons: %w", err)
	}
	return reasons, nil
}

// Create files a report against a post. Each user may report a given
// post at most once; a second attempt returns ErrDuplicate.
func (r *reportRepo) Create(ctx context.Context, reporterID string, req backend.CreateReportRequest) (*backend.Report, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, req.PostID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check post: %w", err)
	}
	if !exists {
		return nil, api.ErrNotFound
	}

	id := uuid.NewString()
	var status string
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO reports (id, post_id, reporter_id, reason_id, detail)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING status`,
		id, req.PostID, reporterID, req.ReasonID, req.Detail).Scan(&status)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, api.ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	return &backend.Report{
		ID:       id,
		PostID:   req.PostID,
		ReasonID: req.ReasonID,
		Detail:   req.Detail,
		Status:   status,
	}, nil
}
