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

// UserRepository implements port.UserRepository on sqlite
type UserRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) port.UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// GetProfile returns the profile snapshot fields, or nil when the employee
// does not exist
func (r *UserRepository) GetProfile(ctx context.Context, employeeID string) (*entity.EmployeeProfile, error) {
	query := `
		SELECT employee_id, name, email, grade, department, designation
		FROM users
		WHERE employee_id = ?
	`

	var profile entity.EmployeeProfile
	err := r.getExecutor(ctx).QueryRowContext(ctx, query, employeeID).Scan(
		&profile.EmployeeID,
		&profile.Name,
		&profile.Email,
		&profile.Grade,
		&profile.Department,
		&profile.Designation,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get employee profile", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, fmt.Errorf("failed to get employee profile: %w", err)
	}

	return &profile, nil
}

// GetByEmployeeID returns the full user row, or nil when missing
func (r *UserRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*entity.User, error) {
	query := `
		SELECT employee_id, name, email, grade, department, designation,
			role, manager_id, is_active, created_at
		FROM users
		WHERE employee_id = ?
	`

	var user entity.User
	var managerID sql.NullString
	err := r.getExecutor(ctx).QueryRowContext(ctx, query, employeeID).Scan(
		&user.EmployeeID,
		&user.Name,
		&user.Email,
		&user.Grade,
		&user.Department,
		&user.Designation,
		&user.Role,
		&managerID,
		&user.IsActive,
		&user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get user", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if managerID.Valid {
		user.ManagerID = managerID.String
	}
	return &user, nil
}

func (r *UserRepository) getExecutor(ctx context.Context) executor {
	if tx := sqlite.TxFrom(ctx); tx != nil {
		return tx
	}
	return r.db
}

// Verify interface compliance
var _ port.UserRepository = (*UserRepository)(nil)
