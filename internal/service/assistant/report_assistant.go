package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"waygen/internal/models"
)

// CreateReport stores a generated career report for a user.
func (s *Service) CreateReport(ctx context.Context, userID int64, title, content string) (*models.Report, error) {
	if userID <= 0 {
		return nil, errors.New("user_id is required")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("title is required")
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO reports (user_id, title, content, created_at) VALUES (?, ?, ?, ?)`,
		userID, title, content, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("report id: %w", err)
	}
	return &models.Report{ID: id, UserID: userID, Title: title, Content: content, CreatedAt: now}, nil
}

// ListReports returns a user's reports newest first.
func (s *Service) ListReports(ctx context.Context, userID int64) ([]models.Report, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, title, content, created_at FROM reports WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	reports := make([]models.Report, 0)
	for rows.Next() {
		var r models.Report
		if err := rows.Scan(&r.ID, &r.UserID, &r.Title, &r.Content, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}
