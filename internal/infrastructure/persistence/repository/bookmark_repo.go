package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rohitpai/travel-desk/internal/application/port"
	"github.com/rohitpai/travel-desk/internal/domain/entity"
	"github.com/rohitpai/travel-desk/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// BookmarkRepository implements port.BookmarkRepository on sqlite
type BookmarkRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewBookmarkRepository creates a new bookmark repository
func NewBookmarkRepository(db *sql.DB, logger *zap.Logger) port.BookmarkRepository {
	return &BookmarkRepository{
		db:     db,
		logger: logger,
	}
}

// Insert persists a new route bookmark
func (r *BookmarkRepository) Insert(ctx context.Context, bookmark *entity.RouteBookmark) error {
	query := `
		INSERT INTO employee_route_bookmarks (
			bookmark_id, employee_id, from_city, from_country, to_city,
			to_country, label, times_used, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getExecutor(ctx).ExecContext(ctx, query,
		bookmark.BookmarkID,
		bookmark.EmployeeID,
		bookmark.FromCity,
		bookmark.FromCountry,
		bookmark.ToCity,
		bookmark.ToCountry,
		bookmark.Label,
		bookmark.TimesUsed,
		bookmark.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to insert bookmark", zap.String("bookmark_id", bookmark.BookmarkID), zap.Error(err))
		return fmt.Errorf("failed to insert bookmark: %w", err)
	}

	return nil
}

// ListByEmployee returns the employee's bookmarks, most recently used first
func (r *BookmarkRepository) ListByEmployee(ctx context.Context, employeeID string) ([]*entity.RouteBookmark, error) {
	query := `
		SELECT bookmark_id, employee_id, from_city, from_country, to_city,
			to_country, label, times_used, last_used_at, created_at
		FROM employee_route_bookmarks
		WHERE employee_id = ?
		ORDER BY last_used_at IS NULL, last_used_at DESC, created_at DESC
	`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, employeeID)
	if err != nil {
		r.logger.Error("Failed to list bookmarks", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	defer rows.Close()

	var bookmarks []*entity.RouteBookmark
	for rows.Next() {
		bookmark, err := scanBookmark(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bookmark: %w", err)
		}
		bookmarks = append(bookmarks, bookmark)
	}
	return bookmarks, rows.Err()
}

// FindByRoute matches on the normalized route, or returns nil
func (r *BookmarkRepository) FindByRoute(ctx context.Context, employeeID, fromCity, toCity string) (*entity.RouteBookmark, error) {
	query := `
		SELECT bookmark_id, employee_id, from_city, from_country, to_city,
			to_country, label, times_used, last_used_at, created_at
		FROM employee_route_bookmarks
		WHERE employee_id = ?
		  AND LOWER(TRIM(from_city)) = ?
		  AND LOWER(TRIM(to_city)) = ?
	`

	bookmark, err := scanBookmark(r.getExecutor(ctx).QueryRowContext(ctx, query, employeeID, fromCity, toCity))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to find bookmark by route", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, fmt.Errorf("failed to find bookmark: %w", err)
	}

	return bookmark, nil
}

// Delete removes the bookmark, returning whether a row was removed
func (r *BookmarkRepository) Delete(ctx context.Context, employeeID, bookmarkID string) (bool, error) {
	query := `DELETE FROM employee_route_bookmarks WHERE employee_id = ? AND bookmark_id = ?`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query, employeeID, bookmarkID)
	if err != nil {
		r.logger.Error("Failed to delete bookmark", zap.String("bookmark_id", bookmarkID), zap.Error(err))
		return false, fmt.Errorf("failed to delete bookmark: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

// Touch increments times_used and stamps last_used_at
func (r *BookmarkRepository) Touch(ctx context.Context, employeeID, bookmarkID string) (bool, error) {
	query := `
		UPDATE employee_route_bookmarks
		SET times_used = times_used + 1, last_used_at = CURRENT_TIMESTAMP
		WHERE employee_id = ? AND bookmark_id = ?
	`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query, employeeID, bookmarkID)
	if err != nil {
		r.logger.Error("Failed to touch bookmark", zap.String("bookmark_id", bookmarkID), zap.Error(err))
		return false, fmt.Errorf("failed to touch bookmark: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

func scanBookmark(row scanner) (*entity.RouteBookmark, error) {
	var bookmark entity.RouteBookmark
	var label sql.NullString
	var lastUsedAt sql.NullTime

	err := row.Scan(
		&bookmark.BookmarkID,
		&bookmark.EmployeeID,
		&bookmark.FromCity,
		&bookmark.FromCountry,
		&bookmark.ToCity,
		&bookmark.ToCountry,
		&label,
		&bookmark.TimesUsed,
		&lastUsedAt,
		&bookmark.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if label.Valid {
		bookmark.Label = label.String
	}
	if lastUsedAt.Valid {
		bookmark.LastUsedAt = &lastUsedAt.Time
	}
	return &bookmark, nil
}

func (r *BookmarkRepository) getExecutor(ctx context.Context) executor {
	if tx := sqlite.TxFrom(ctx); tx != nil {
		return tx
	}
	return r.db
}

// Verify interface compliance
var _ port.BookmarkRepository = (*BookmarkRepository)(nil)
