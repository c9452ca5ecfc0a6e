package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/rohitpai/travel-desk/internal/application/port"
	"github.com/rohitpai/travel-desk/internal/domain/entity"
	"github.com/rohitpai/travel-desk/internal/domain/status"
	"github.com/rohitpai/travel-desk/internal/domain/workflow"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// CreateIndentInput carries the travel request form fields
type CreateIndentInput struct {
	EmployeeID       string
	PurposeOfBooking string
	TravelType       string
	TravelStartDate  time.Time
	TravelEndDate    time.Time
	FromCity         string
	FromCountry      string
	ToCity           string
	ToCountry        string
	InitialStatus    status.Status

	// IndentID, when set, edits that existing draft instead of inserting
	IndentID string
}

// IndentView is a read model of an indent with its derived status fields
type IndentView struct {
	IndentID         string    `json:"indent_id"`
	EmployeeID       string    `json:"employee_id"`
	EmployeeName     string    `json:"employee_name"`
	Email            string    `json:"email"`
	Grade            string    `json:"grade"`
	Department       string    `json:"department"`
	Designation      string    `json:"designation"`
	PurposeOfBooking string    `json:"purpose_of_booking"`
	TravelType       string    `json:"travel_type"`
	TravelStartDate  string    `json:"travel_start_date"`
	TravelEndDate    string    `json:"travel_end_date"`
	FromCity         string    `json:"from_city"`
	FromCountry      string    `json:"from_country"`
	ToCity           string    `json:"to_city"`
	ToCountry        string    `json:"to_country"`
	TotalDays        int       `json:"total_days"`
	StatusCode       string    `json:"status_code"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

// IndentService manages the travel indent lifecycle
type IndentService interface {
	CreateOrUpdate(ctx context.Context, input CreateIndentInput) (string, error)
	GetByID(ctx context.Context, indentID string) (*entity.TravelIndent, error)

	// UpdateStatus transitions the indent to the given raw status value,
	// enforcing the HR gate when the target is an HR action. Returns
	// whether a row was affected (false means not found).
	UpdateStatus(ctx context.Context, indentID, rawStatus string) (bool, error)

	ApproveByManager(ctx context.Context, indentID, managerID string) error
	RejectByManager(ctx context.Context, indentID, managerID string) error
	ApproveByHR(ctx context.Context, indentID, hrID, comments string) error

	ListForEmployee(ctx context.Context, employeeID string) ([]*IndentView, error)
	ListForHR(ctx context.Context) ([]*IndentView, error)
	ListPendingForManager(ctx context.Context, managerID string) ([]*IndentView, error)
}

type indentServiceImpl struct {
	indents   port.IndentRepository
	users     port.UserRepository
	approvals port.ApprovalRepository
	guard     *DuplicateGuard
	txm       port.TransactionManager
	logger    Logger
}

// NewIndentService creates a new IndentService
func NewIndentService(
	indents port.IndentRepository,
	users port.UserRepository,
	approvals port.ApprovalRepository,
	guard *DuplicateGuard,
	txm port.TransactionManager,
	logger Logger,
) IndentService {
	return &indentServiceImpl{
		indents:   indents,
		users:     users,
		approvals: approvals,
		guard:     guard,
		txm:       txm,
		logger:    logger,
	}
}

// CreateOrUpdate creates a new indent or rewrites an existing draft.
// Returns the indent id, existing or newly generated.
func (s *indentServiceImpl) CreateOrUpdate(ctx context.Context, input CreateIndentInput) (string, error) {
	if err := validateIndentInput(&input); err != nil {
		return "", err
	}

	if input.IndentID != "" {
		return s.updateDraft(ctx, input)
	}
	return s.create(ctx, input)
}

func validateIndentInput(input *CreateIndentInput) error {
	if strings.TrimSpace(input.FromCity) == "" {
		return entity.NewValidationError("from_city", "origin city is required")
	}
	if strings.TrimSpace(input.ToCity) == "" {
		return entity.NewValidationError("to_city", "destination city is required")
	}
	if input.TravelType != entity.TravelTypeDomestic && input.TravelType != entity.TravelTypeInternational {
		return entity.NewValidationError("travel_type", "must be domestic or international")
	}
	if input.TravelEndDate.Before(input.TravelStartDate) {
		return entity.NewValidationError("travel_end_date", "end date is before start date")
	}
	if input.InitialStatus == "" {
		input.InitialStatus = status.StatusPending
	}
	if input.InitialStatus != status.StatusDraft && input.InitialStatus != status.StatusPending {
		return entity.NewValidationError("initial_status", "must be draft or pending")
	}
	return nil
}

func (s *indentServiceImpl) updateDraft(ctx context.Context, input CreateIndentInput) (string, error) {
	existing, err := s.indents.GetByID(ctx, input.IndentID)
	if err != nil {
		return "", err
	}
	if existing == nil {
		return "", fmt.Errorf("%w: draft travel indent %s", entity.ErrNotFound, input.IndentID)
	}

	if existing.EmployeeID != input.EmployeeID {
		return "", fmt.Errorf("%w: cannot modify another employee's indent", entity.ErrPermissionDenied)
	}

	// The state machine owns edit legality: only drafts have save/submit
	// edges.
	machine := workflow.BuildIndentStateMachine(existing.Status)
	trigger := workflow.TriggerSubmit
	if input.InitialStatus == status.StatusDraft {
		trigger = workflow.TriggerSaveDraft
	}
	if err := machine.Fire(ctx, trigger); err != nil {
		return "", &entity.InvalidStateError{Reason: "only draft indents can be edited"}
	}

	if input.InitialStatus != status.StatusDraft {
		if err := s.guard.EnsureNoDuplicateActive(ctx, input.EmployeeID, input.FromCity, input.ToCity,
			input.TravelStartDate, input.TravelEndDate, input.IndentID); err != nil {
			return "", err
		}
	}

	existing.PurposeOfBooking = input.PurposeOfBooking
	existing.TravelType = input.TravelType
	existing.TravelStartDate = input.TravelStartDate
	existing.TravelEndDate = input.TravelEndDate
	existing.FromCity = input.FromCity
	existing.FromCountry = input.FromCountry
	existing.ToCity = input.ToCity
	existing.ToCountry = input.ToCountry
	existing.TotalDays = entity.TripDays(input.TravelStartDate, input.TravelEndDate)
	existing.Status = machine.Status()

	affected, err := s.indents.UpdateDraft(ctx, existing)
	if err != nil {
		s.logger.Error("Failed to update draft indent", "error", err, "indent_id", input.IndentID)
		return "", err
	}
	if !affected {
		// The row left draft between the read above and this write.
		return "", &entity.InvalidStateError{Reason: "only draft indents can be edited"}
	}

	s.logger.Info("Draft indent updated",
		"indent_id", input.IndentID,
		"status", existing.Status.String())
	return input.IndentID, nil
}

func (s *indentServiceImpl) create(ctx context.Context, input CreateIndentInput) (string, error) {
	if input.InitialStatus != status.StatusDraft {
		if err := s.guard.EnsureNoDuplicateActive(ctx, input.EmployeeID, input.FromCity, input.ToCity,
			input.TravelStartDate, input.TravelEndDate, ""); err != nil {
			return "", err
		}
	}

	// Freeze the employee profile onto the indent; later profile changes
	// never rewrite historical rows.
	profile, err := s.users.GetProfile(ctx, input.EmployeeID)
	if err != nil {
		return "", err
	}
	if profile == nil {
		return "", fmt.Errorf("%w: employee %s", entity.ErrNotFound, input.EmployeeID)
	}

	now := time.Now()
	indent := &entity.TravelIndent{
		IndentID:         NewIndentID(now),
		EmployeeID:       input.EmployeeID,
		EmployeeName:     profile.Name,
		Email:            profile.Email,
		Grade:            profile.Grade,
		Department:       profile.Department,
		Designation:      profile.Designation,
		PurposeOfBooking: input.PurposeOfBooking,
		TravelType:       input.TravelType,
		TravelStartDate:  input.TravelStartDate,
		TravelEndDate:    input.TravelEndDate,
		FromCity:         input.FromCity,
		FromCountry:      input.FromCountry,
		ToCity:           input.ToCity,
		ToCountry:        input.ToCountry,
		TotalDays:        entity.TripDays(input.TravelStartDate, input.TravelEndDate),
		Status:           input.InitialStatus,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.indents.Insert(ctx, indent); err != nil {
		s.logger.Error("Failed to insert indent", "error", err, "employee_id", input.EmployeeID)
		return "", err
	}

	s.logger.Info("Indent created",
		"indent_id", indent.IndentID,
		"employee_id", input.EmployeeID,
		"status", indent.Status.String())
	return indent.IndentID, nil
}

// NewIndentID generates a fresh indent identifier
func NewIndentID(now time.Time) string {
	buf := make([]byte, 3)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("IND-%s-%s", now.UTC().Format("20060102150405"), strings.ToUpper(hex.EncodeToString(buf)))
}

// GetByID returns the indent or ErrNotFound
func (s *indentServiceImpl) GetByID(ctx context.Context, indentID string) (*entity.TravelIndent, error) {
	indent, err := s.indents.GetByID(ctx, indentID)
	if err != nil {
		return nil, err
	}
	if indent == nil {
		return nil, fmt.Errorf("%w: travel indent %s", entity.ErrNotFound, indentID)
	}
	return indent, nil
}

// UpdateStatus transitions the indent's status, re-checking the HR gate at
// write time.
func (s *indentServiceImpl) UpdateStatus(ctx context.Context, indentID, rawStatus string) (bool, error) {
	newStatus := status.Parse(rawStatus)

	if !newStatus.IsHRAction() {
		return s.indents.UpdateStatus(ctx, indentID, newStatus)
	}

	current, err := s.indents.GetByID(ctx, indentID)
	if err != nil {
		return false, err
	}
	if current == nil {
		return false, nil
	}
	if err := AssertHREligible(current.Status); err != nil {
		return false, err
	}

	// Conditional write: the eligibility check repeats inside the UPDATE so
	// a racing transition between the read above and this statement cannot
	// slip an HR action through.
	affected, err := s.indents.UpdateStatusIfEligible(ctx, indentID, newStatus)
	if err != nil {
		return false, err
	}
	if !affected {
		recheck, err := s.indents.GetByID(ctx, indentID)
		if err != nil {
			return false, err
		}
		if recheck == nil {
			return false, nil
		}
		// Row still exists but no longer eligible: lost the race.
		return false, &entity.PolicyViolationError{}
	}

	s.logger.Info("Indent status updated",
		"indent_id", indentID,
		"status", newStatus.String())
	return true, nil
}

// ApproveByManager marks the indent manager-approved and records the
// approval entry. The actor must be the indent owner's manager.
func (s *indentServiceImpl) ApproveByManager(ctx context.Context, indentID, managerID string) error {
	if err := s.assertIsManagerOf(ctx, indentID, managerID); err != nil {
		return err
	}
	return s.writeManagerDecision(ctx, indentID, managerID, status.StatusAcceptedManager, entity.ApprovalEntryApproved)
}

// RejectByManager marks the indent manager-rejected and records the
// approval entry
func (s *indentServiceImpl) RejectByManager(ctx context.Context, indentID, managerID string) error {
	if err := s.assertIsManagerOf(ctx, indentID, managerID); err != nil {
		return err
	}
	return s.writeManagerDecision(ctx, indentID, managerID, status.StatusRejectedManager, entity.ApprovalEntryRejected)
}

func (s *indentServiceImpl) assertIsManagerOf(ctx context.Context, indentID, managerID string) error {
	indent, err := s.indents.GetByID(ctx, indentID)
	if err != nil {
		return err
	}
	if indent == nil {
		return fmt.Errorf("%w: travel indent %s", entity.ErrNotFound, indentID)
	}

	employee, err := s.users.GetByEmployeeID(ctx, indent.EmployeeID)
	if err != nil {
		return err
	}
	if employee == nil || employee.ManagerID != managerID {
		return fmt.Errorf("%w: not the reporting manager for %s", entity.ErrPermissionDenied, indent.EmployeeID)
	}
	return nil
}

func (s *indentServiceImpl) writeManagerDecision(ctx context.Context, indentID, managerID string, to status.Status, entryStatus string) error {
	// Status write and audit entry commit together or not at all.
	err := s.txm.WithTransaction(ctx, func(txCtx context.Context) error {
		affected, err := s.indents.UpdateStatus(txCtx, indentID, to)
		if err != nil {
			return err
		}
		if !affected {
			return fmt.Errorf("%w: travel indent %s", entity.ErrNotFound, indentID)
		}

		now := time.Now()
		return s.approvals.Insert(txCtx, &entity.ApprovalEntry{
			IndentID:     indentID,
			ApproverID:   managerID,
			ApprovalType: entity.ApprovalTypeManager,
			Status:       entryStatus,
			ApprovedAt:   &now,
		})
	})
	if err != nil {
		s.logger.Error("Failed to record manager decision", "error", err, "indent_id", indentID)
		return err
	}

	s.logger.Info("Manager decision recorded",
		"indent_id", indentID,
		"manager_id", managerID,
		"status", to.String())
	return nil
}

// ApproveByHR moves an HR-eligible indent to hr_approved and records the
// approval entry with the HR operator's comments
func (s *indentServiceImpl) ApproveByHR(ctx context.Context, indentID, hrID, comments string) error {
	current, err := s.indents.GetByID(ctx, indentID)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("%w: travel indent %s", entity.ErrNotFound, indentID)
	}
	if err := AssertHREligible(current.Status); err != nil {
		return err
	}

	err = s.txm.WithTransaction(ctx, func(txCtx context.Context) error {
		affected, err := s.indents.UpdateStatusIfEligible(txCtx, indentID, status.StatusHRApproved)
		if err != nil {
			return err
		}
		if !affected {
			return &entity.PolicyViolationError{}
		}

		now := time.Now()
		return s.approvals.Insert(txCtx, &entity.ApprovalEntry{
			IndentID:     indentID,
			ApproverID:   hrID,
			ApprovalType: entity.ApprovalTypeHR,
			Status:       entity.ApprovalEntryApproved,
			Comments:     comments,
			ApprovedAt:   &now,
		})
	})
	if err != nil {
		if !entity.IsPolicyViolation(err) {
			s.logger.Error("Failed to record HR approval", "error", err, "indent_id", indentID)
		}
		return err
	}

	s.logger.Info("HR approval recorded", "indent_id", indentID, "hr_id", hrID)
	return nil
}

// ListForEmployee returns the employee's indents with readable status labels
func (s *indentServiceImpl) ListForEmployee(ctx context.Context, employeeID string) ([]*IndentView, error) {
	indents, err := s.indents.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return toViews(indents), nil
}

// ListForHR returns every workflow-active indent for the HR dashboard
func (s *indentServiceImpl) ListForHR(ctx context.Context) ([]*IndentView, error) {
	indents, err := s.indents.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return toViews(indents), nil
}

// ListPendingForManager returns pending indents raised by the manager's
// reports
func (s *indentServiceImpl) ListPendingForManager(ctx context.Context, managerID string) ([]*IndentView, error) {
	indents, err := s.indents.ListPendingForManager(ctx, managerID)
	if err != nil {
		return nil, err
	}
	return toViews(indents), nil
}

func toViews(indents []*entity.TravelIndent) []*IndentView {
	views := make([]*IndentView, 0, len(indents))
	for _, ti := range indents {
		views = append(views, toView(ti))
	}
	return views
}

func toView(ti *entity.TravelIndent) *IndentView {
	return &IndentView{
		IndentID:         ti.IndentID,
		EmployeeID:       ti.EmployeeID,
		EmployeeName:     ti.EmployeeName,
		Email:            ti.Email,
		Grade:            ti.Grade,
		Department:       ti.Department,
		Designation:      ti.Designation,
		PurposeOfBooking: ti.PurposeOfBooking,
		TravelType:       ti.TravelType,
		TravelStartDate:  ti.TravelStartDate.Format("2006-01-02"),
		TravelEndDate:    ti.TravelEndDate.Format("2006-01-02"),
		FromCity:         ti.FromCity,
		FromCountry:      ti.FromCountry,
		ToCity:           ti.ToCity,
		ToCountry:        ti.ToCountry,
		TotalDays:        ti.TotalDays,
		StatusCode:       ti.Status.String(),
		Status:           ti.Status.Label(),
		CreatedAt:        ti.CreatedAt,
	}
}
