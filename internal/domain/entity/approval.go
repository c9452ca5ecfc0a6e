package entity

import (
	"strings"
	"time"
)

// Approval type constants for ApprovalEntry
const (
	ApprovalTypeManager = "MANAGER"
	ApprovalTypeHR      = "HR"
)

// Approval entry status constants
const (
	ApprovalEntryPending  = "PENDING"
	ApprovalEntryApproved = "APPROVED"
	ApprovalEntryRejected = "REJECTED"
)

// ApprovalEntry is one row of the approval audit trail for an indent
type ApprovalEntry struct {
	ID           int64      `json:"id"`
	IndentID     string     `json:"indent_id"`
	ApproverID   string     `json:"approver_id"`
	ApprovalType string     `json:"approval_type"`
	Status       string     `json:"status"`
	Comments     string     `json:"comments,omitempty"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Hotel is a tied-up hotel available to the hotel search tool
type Hotel struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	City             string  `json:"city"`
	Rate             float64 `json:"rate"`
	GradeEligibility string  `json:"grade_eligibility,omitempty"`
	IsActive         bool    `json:"is_active"`
}

// EligibleFor reports whether the hotel may be offered to an employee of the
// given grade. Eligibility is stored as a comma-separated grade list, e.g.
// "E5,E6,M1"; an empty list means open to all grades.
func (h *Hotel) EligibleFor(grade string) bool {
	if h.GradeEligibility == "" {
		return true
	}
	if grade == "" {
		return false
	}
	for _, g := range strings.Split(h.GradeEligibility, ",") {
		if strings.TrimSpace(g) == grade {
			return true
		}
	}
	return false
}
