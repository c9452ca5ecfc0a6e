package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rohitpai/travel-desk/internal/application/port"
	"github.com/rohitpai/travel-desk/internal/domain/entity"
	"github.com/rohitpai/travel-desk/internal/domain/status"
	"github.com/rohitpai/travel-desk/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// executor interface covers both *sql.DB and *sql.Tx
type executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

const indentColumns = `
	indent_id, employee_id, employee_name, email, grade, department,
	designation, purpose_of_booking, travel_type, travel_start_date,
	travel_end_date, from_city, from_country, to_city, to_country,
	total_days, is_approved, created_at, updated_at
`

// Statuses that do not appear on the HR dashboard or block duplicates.
// Matches status.IsDuplicateSafe minus draft, which stays visible to its
// owner only.
const inactiveStatusList = `('draft', 'rejected', 'rejected_manager', 'rejected_hr', 'declined', 'cancelled')`

// IndentRepository implements port.IndentRepository on sqlite
type IndentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewIndentRepository creates a new indent repository
func NewIndentRepository(db *sql.DB, logger *zap.Logger) port.IndentRepository {
	return &IndentRepository{
		db:     db,
		logger: logger,
	}
}

// Insert persists a new indent row with its frozen profile snapshot
func (r *IndentRepository) Insert(ctx context.Context, indent *entity.TravelIndent) error {
	query := `
		INSERT INTO travel_indents (
			indent_id, employee_id, employee_name, email, grade, department,
			designation, purpose_of_booking, travel_type, travel_start_date,
			travel_end_date, from_city, from_country, to_city, to_country,
			total_days, is_approved, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getExecutor(ctx).ExecContext(ctx, query,
		indent.IndentID,
		indent.EmployeeID,
		indent.EmployeeName,
		indent.Email,
		indent.Grade,
		indent.Department,
		indent.Designation,
		indent.PurposeOfBooking,
		indent.TravelType,
		indent.TravelStartDate,
		indent.TravelEndDate,
		indent.FromCity,
		indent.FromCountry,
		indent.ToCity,
		indent.ToCountry,
		indent.TotalDays,
		indent.Status.String(),
		indent.CreatedAt,
		indent.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to insert indent", zap.String("indent_id", indent.IndentID), zap.Error(err))
		return fmt.Errorf("failed to insert indent: %w", err)
	}

	return nil
}

// GetByID returns the indent or nil when no row exists
func (r *IndentRepository) GetByID(ctx context.Context, indentID string) (*entity.TravelIndent, error) {
	query := `SELECT ` + indentColumns + ` FROM travel_indents WHERE indent_id = ?`

	indent, err := scanIndent(r.getExecutor(ctx).QueryRowContext(ctx, query, indentID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get indent", zap.String("indent_id", indentID), zap.Error(err))
		return nil, fmt.Errorf("failed to get indent: %w", err)
	}

	return indent, nil
}

// UpdateDraft rewrites the trip fields and status of a draft indent. The
// draft precondition is re-checked inside the UPDATE so a stale edit cannot
// overwrite a row that was submitted or approved after it was read.
func (r *IndentRepository) UpdateDraft(ctx context.Context, indent *entity.TravelIndent) (bool, error) {
	query := `
		UPDATE travel_indents
		SET purpose_of_booking = ?, travel_type = ?, travel_start_date = ?,
			travel_end_date = ?, from_city = ?, from_country = ?, to_city = ?,
			to_country = ?, total_days = ?, is_approved = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE indent_id = ?
		  AND LOWER(TRIM(COALESCE(is_approved, ''))) = 'draft'
	`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		indent.PurposeOfBooking,
		indent.TravelType,
		indent.TravelStartDate,
		indent.TravelEndDate,
		indent.FromCity,
		indent.FromCountry,
		indent.ToCity,
		indent.ToCountry,
		indent.TotalDays,
		indent.Status.String(),
		indent.IndentID,
	)
	if err != nil {
		r.logger.Error("Failed to update draft indent", zap.String("indent_id", indent.IndentID), zap.Error(err))
		return false, fmt.Errorf("failed to update draft indent: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

// UpdateStatus unconditionally writes the status and bumps updated_at
func (r *IndentRepository) UpdateStatus(ctx context.Context, indentID string, s status.Status) (bool, error) {
	query := `
		UPDATE travel_indents
		SET is_approved = ?, updated_at = CURRENT_TIMESTAMP
		WHERE indent_id = ?
	`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query, s.String(), indentID)
	if err != nil {
		r.logger.Error("Failed to update indent status", zap.String("indent_id", indentID), zap.Error(err))
		return false, fmt.Errorf("failed to update indent status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

// UpdateStatusIfEligible writes the status only when the stored value, in
// any persisted spelling, is still HR-eligible. The eligibility check lives
// inside the UPDATE itself so a racing transition cannot slip through
// between a read and the write.
func (r *IndentRepository) UpdateStatusIfEligible(ctx context.Context, indentID string, s status.Status) (bool, error) {
	spellings := status.HREligibleSpellings()
	placeholders := strings.Repeat("?, ", len(spellings)-1) + "?"

	query := fmt.Sprintf(`
		UPDATE travel_indents
		SET is_approved = ?, updated_at = CURRENT_TIMESTAMP
		WHERE indent_id = ?
		  AND LOWER(TRIM(COALESCE(is_approved, ''))) IN (%s)
	`, placeholders)

	args := make([]interface{}, 0, len(spellings)+2)
	args = append(args, s.String(), indentID)
	for _, spelling := range spellings {
		args = append(args, spelling)
	}

	result, err := r.getExecutor(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to conditionally update indent status", zap.String("indent_id", indentID), zap.Error(err))
		return false, fmt.Errorf("failed to update indent status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

// FindLatestMatch returns the most recent indent for the same employee,
// normalized route and exact dates, or nil. Only the newest match counts.
func (r *IndentRepository) FindLatestMatch(ctx context.Context, employeeID, fromCity, toCity string, start, end time.Time, excludeID string) (*entity.TravelIndent, error) {
	query := `
		SELECT ` + indentColumns + `
		FROM travel_indents
		WHERE employee_id = ?
		  AND LOWER(TRIM(from_city)) = ?
		  AND LOWER(TRIM(to_city)) = ?
		  AND date(travel_start_date) = date(?)
		  AND date(travel_end_date) = date(?)
	`
	args := []interface{}{employeeID, fromCity, toCity, start, end}

	if excludeID != "" {
		query += ` AND indent_id != ?`
		args = append(args, excludeID)
	}
	query += ` ORDER BY created_at DESC LIMIT 1`

	indent, err := scanIndent(r.getExecutor(ctx).QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to find matching indent", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, fmt.Errorf("failed to find matching indent: %w", err)
	}

	return indent, nil
}

// ListByEmployee returns the employee's indents, newest first
func (r *IndentRepository) ListByEmployee(ctx context.Context, employeeID string) ([]*entity.TravelIndent, error) {
	query := `
		SELECT ` + indentColumns + `
		FROM travel_indents
		WHERE employee_id = ?
		ORDER BY created_at DESC
	`

	return r.queryIndents(ctx, query, employeeID)
}

// ListActive returns every indent in a workflow-active status, newest first
func (r *IndentRepository) ListActive(ctx context.Context) ([]*entity.TravelIndent, error) {
	query := `
		SELECT ` + indentColumns + `
		FROM travel_indents
		WHERE LOWER(TRIM(COALESCE(is_approved, 'pending'))) NOT IN ` + inactiveStatusList + `
		ORDER BY created_at DESC
	`

	return r.queryIndents(ctx, query)
}

// ListPendingForManager returns pending indents raised by the manager's
// reports, newest first
func (r *IndentRepository) ListPendingForManager(ctx context.Context, managerID string) ([]*entity.TravelIndent, error) {
	query := `
		SELECT ` + prefixedIndentColumns("ti") + `
		FROM travel_indents ti
		JOIN users u ON u.employee_id = ti.employee_id
		WHERE u.manager_id = ?
		  AND LOWER(TRIM(COALESCE(ti.is_approved, 'pending'))) = 'pending'
		ORDER BY ti.created_at DESC
	`

	return r.queryIndents(ctx, query, managerID)
}

func (r *IndentRepository) queryIndents(ctx context.Context, query string, args ...interface{}) ([]*entity.TravelIndent, error) {
	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list indents", zap.Error(err))
		return nil, fmt.Errorf("failed to list indents: %w", err)
	}
	defer rows.Close()

	var indents []*entity.TravelIndent
	for rows.Next() {
		indent, err := scanIndent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan indent: %w", err)
		}
		indents = append(indents, indent)
	}
	return indents, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanIndent(row scanner) (*entity.TravelIndent, error) {
	var indent entity.TravelIndent
	var rawStatus sql.NullString

	err := row.Scan(
		&indent.IndentID,
		&indent.EmployeeID,
		&indent.EmployeeName,
		&indent.Email,
		&indent.Grade,
		&indent.Department,
		&indent.Designation,
		&indent.PurposeOfBooking,
		&indent.TravelType,
		&indent.TravelStartDate,
		&indent.TravelEndDate,
		&indent.FromCity,
		&indent.FromCountry,
		&indent.ToCity,
		&indent.ToCountry,
		&indent.TotalDays,
		&rawStatus,
		&indent.CreatedAt,
		&indent.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	// NULL and legacy spellings both normalize here; a NULL is_approved
	// reads as pending.
	indent.Status = status.Parse(rawStatus.String)
	return &indent, nil
}

func prefixedIndentColumns(alias string) string {
	cols := strings.Split(indentColumns, ",")
	for i, col := range cols {
		cols[i] = alias + "." + strings.TrimSpace(col)
	}
	return strings.Join(cols, ", ")
}

func (r *IndentRepository) getExecutor(ctx context.Context) executor {
	if tx := sqlite.TxFrom(ctx); tx != nil {
		return tx
	}
	return r.db
}

// Verify interface compliance
var _ port.IndentRepository = (*IndentRepository)(nil)
