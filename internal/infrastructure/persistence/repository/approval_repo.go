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

// ApprovalRepository implements port.ApprovalRepository on sqlite
type ApprovalRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewApprovalRepository creates a new approval repository
func NewApprovalRepository(db *sql.DB, logger *zap.Logger) port.ApprovalRepository {
	return &ApprovalRepository{
		db:     db,
		logger: logger,
	}
}

// Insert appends one approval audit entry
func (r *ApprovalRepository) Insert(ctx context.Context, approval *entity.ApprovalEntry) error {
	query := `
		INSERT INTO approval_entries (
			indent_id, approver_id, approval_type, status, comments, approved_at
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		approval.IndentID,
		approval.ApproverID,
		approval.ApprovalType,
		approval.Status,
		approval.Comments,
		approval.ApprovedAt,
	)
	if err != nil {
		r.logger.Error("Failed to insert approval entry", zap.String("indent_id", approval.IndentID), zap.Error(err))
		return fmt.Errorf("failed to insert approval entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	approval.ID = id
	return nil
}

// ListByIndent returns the indent's approval trail, oldest first
func (r *ApprovalRepository) ListByIndent(ctx context.Context, indentID string) ([]*entity.ApprovalEntry, error) {
	query := `
		SELECT id, indent_id, approver_id, approval_type, status, comments,
			approved_at, created_at
		FROM approval_entries
		WHERE indent_id = ?
		ORDER BY created_at ASC
	`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, indentID)
	if err != nil {
		r.logger.Error("Failed to list approval entries", zap.String("indent_id", indentID), zap.Error(err))
		return nil, fmt.Errorf("failed to list approval entries: %w", err)
	}
	defer rows.Close()

	var entries []*entity.ApprovalEntry
	for rows.Next() {
		var entry entity.ApprovalEntry
		var comments sql.NullString
		var approvedAt sql.NullTime

		err := rows.Scan(
			&entry.ID,
			&entry.IndentID,
			&entry.ApproverID,
			&entry.ApprovalType,
			&entry.Status,
			&comments,
			&approvedAt,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan approval entry: %w", err)
		}

		if comments.Valid {
			entry.Comments = comments.String
		}
		if approvedAt.Valid {
			entry.ApprovedAt = &approvedAt.Time
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

func (r *ApprovalRepository) getExecutor(ctx context.Context) executor {
	if tx := sqlite.TxFrom(ctx); tx != nil {
		return tx
	}
	return r.db
}

// Verify interface compliance
var _ port.ApprovalRepository = (*ApprovalRepository)(nil)
