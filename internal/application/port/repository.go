package port

import (
	"context"
	"time"

	"github.com/rohitpai/travel-desk/internal/domain/entity"
	"github.com/rohitpai/travel-desk/internal/domain/status"
)

// TransactionManager runs a function inside a database transaction.
// Repository calls made with the inner context join the transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// IndentRepository defines persistence operations for TravelIndent
type IndentRepository interface {
	// Insert persists a new indent row with its frozen profile snapshot
	Insert(ctx context.Context, indent *entity.TravelIndent) error

	// GetByID returns the indent or nil when no row exists
	GetByID(ctx context.Context, indentID string) (*entity.TravelIndent, error)

	// UpdateDraft rewrites the trip fields and status of an indent, but
	// only while the stored row is still a draft. Returns whether a row
	// was written; false means the indent left draft since it was read.
	UpdateDraft(ctx context.Context, indent *entity.TravelIndent) (bool, error)

	// UpdateStatus unconditionally writes the status and bumps updated_at,
	// returning whether a row was affected
	UpdateStatus(ctx context.Context, indentID string, s status.Status) (bool, error)

	// UpdateStatusIfEligible writes the status only when the stored status
	// (any spelling) is still HR-eligible, in a single conditional
	// statement. Returns whether a row was affected.
	UpdateStatusIfEligible(ctx context.Context, indentID string, s status.Status) (bool, error)

	// FindLatestMatch returns the most recent indent for the same employee,
	// normalized route and exact dates, excluding excludeID when non-empty.
	// Returns nil when there is no match.
	FindLatestMatch(ctx context.Context, employeeID, fromCity, toCity string, start, end time.Time, excludeID string) (*entity.TravelIndent, error)

	// ListByEmployee returns the employee's indents, newest first
	ListByEmployee(ctx context.Context, employeeID string) ([]*entity.TravelIndent, error)

	// ListActive returns every indent in a workflow-active status for the
	// HR dashboard, newest first
	ListActive(ctx context.Context) ([]*entity.TravelIndent, error)

	// ListPendingForManager returns pending indents raised by the manager's
	// reports, newest first
	ListPendingForManager(ctx context.Context, managerID string) ([]*entity.TravelIndent, error)
}

// UserRepository defines read operations over employee accounts
type UserRepository interface {
	// GetProfile returns the profile snapshot fields, or nil when the
	// employee does not exist
	GetProfile(ctx context.Context, employeeID string) (*entity.EmployeeProfile, error)

	// GetByEmployeeID returns the full user row, or nil when missing
	GetByEmployeeID(ctx context.Context, employeeID string) (*entity.User, error)
}

// BookmarkRepository defines persistence operations for RouteBookmark
type BookmarkRepository interface {
	Insert(ctx context.Context, bookmark *entity.RouteBookmark) error
	ListByEmployee(ctx context.Context, employeeID string) ([]*entity.RouteBookmark, error)

	// FindByRoute matches on the normalized (trimmed, case-folded) route
	FindByRoute(ctx context.Context, employeeID, fromCity, toCity string) (*entity.RouteBookmark, error)

	// Delete returns whether a row was removed
	Delete(ctx context.Context, employeeID, bookmarkID string) (bool, error)

	// Touch increments times_used and stamps last_used_at, returning
	// whether a row was affected
	Touch(ctx context.Context, employeeID, bookmarkID string) (bool, error)
}

// ApprovalRepository defines persistence operations for the approval audit
// trail
type ApprovalRepository interface {
	Insert(ctx context.Context, approval *entity.ApprovalEntry) error
	ListByIndent(ctx context.Context, indentID string) ([]*entity.ApprovalEntry, error)
}

// HotelRepository defines read operations over the tied-up hotel directory
type HotelRepository interface {
	// FindByCity returns active hotels in the city, cheapest first
	FindByCity(ctx context.Context, city string, limit int) ([]*entity.Hotel, error)
}
