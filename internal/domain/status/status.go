package status

import "strings"

// Status represents the approval status of a travel indent
type Status string

const (
	StatusDraft           Status = "draft"
	StatusPending         Status = "pending"
	StatusAcceptedManager Status = "accepted_manager"
	StatusRejectedManager Status = "rejected_manager"
	StatusHRApproved      Status = "hr_approved"
	StatusCompletedHR     Status = "completed_hr"
	StatusBooked          Status = "booked"
	StatusRejectedHR      Status = "rejected_hr"
	StatusRejected        Status = "rejected"
	StatusDeclined        Status = "declined"
	StatusCancelled       Status = "cancelled"
)

// aliases maps historical spellings to their canonical status.
// "accpeted_manager" is a misspelling that shipped to production and still
// exists in persisted rows; it must resolve identically to accepted_manager.
var aliases = map[string]Status{
	"accpeted_manager": StatusAcceptedManager,
	"manager_approved": StatusAcceptedManager,
}

var validStatuses = map[Status]bool{
	StatusDraft:           true,
	StatusPending:         true,
	StatusAcceptedManager: true,
	StatusRejectedManager: true,
	StatusHRApproved:      true,
	StatusCompletedHR:     true,
	StatusBooked:          true,
	StatusRejectedHR:      true,
	StatusRejected:        true,
	StatusDeclined:        true,
	StatusCancelled:       true,
}

// duplicateSafe statuses do not block a new submission for the same
// employee, route and dates.
var duplicateSafe = map[Status]bool{
	StatusDraft:           true,
	StatusRejected:        true,
	StatusRejectedManager: true,
	StatusRejectedHR:      true,
	StatusDeclined:        true,
	StatusCancelled:       true,
}

// hrAction statuses are the ones HR writes; requesting any of them
// requires the indent to already be HR-eligible.
var hrAction = map[Status]bool{
	StatusHRApproved:  true,
	StatusCompletedHR: true,
	StatusBooked:      true,
}

var terminal = map[Status]bool{
	StatusRejectedManager: true,
	StatusRejectedHR:      true,
	StatusCompletedHR:     true,
	StatusBooked:          true,
	StatusRejected:        true,
	StatusDeclined:        true,
	StatusCancelled:       true,
}

var labels = map[Status]string{
	StatusDraft:           "Draft",
	StatusPending:         "Pending Manager Approval",
	StatusAcceptedManager: "Approved by Manager",
	StatusRejectedManager: "Rejected by Manager",
	StatusHRApproved:      "Approved by HR",
	StatusCompletedHR:     "Completed by HR",
	StatusBooked:          "Booked",
	StatusRejectedHR:      "Rejected by HR",
	StatusRejected:        "Rejected",
	StatusDeclined:        "Rejected",
	StatusCancelled:       "Cancelled",
}

// Parse normalizes a raw status value to its canonical form. Values are
// trimmed and lower-cased, known aliases are collapsed, and an empty value
// defaults to pending (rows predating the status column carry NULL).
// Unknown values pass through normalized so callers can still round-trip
// whatever is persisted.
func Parse(raw string) Status {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return StatusPending
	}
	if canonical, ok := aliases[normalized]; ok {
		return canonical
	}
	return Status(normalized)
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// IsValid returns true if the status is part of the canonical vocabulary
func (s Status) IsValid() bool {
	return validStatuses[s]
}

// IsDuplicateSafe returns true if an indent in this status does not block
// a duplicate submission
func (s Status) IsDuplicateSafe() bool {
	return duplicateSafe[s]
}

// IsManagerApproved returns true if the status means the manager has
// signed off
func (s Status) IsManagerApproved() bool {
	return s == StatusAcceptedManager
}

// IsHRAction returns true if the status is one written by an HR-side action
func (s Status) IsHRAction() bool {
	return hrAction[s]
}

// IsHREligible returns true if HR may act on an indent in this status:
// manager-approved or any status HR has already moved it to.
func (s Status) IsHREligible() bool {
	return s.IsManagerApproved() || hrAction[s]
}

// IsTerminal returns true if no further transitions are expected
func (s Status) IsTerminal() bool {
	return terminal[s]
}

// Label returns the human-readable display label for the status
func (s Status) Label() string {
	if label, ok := labels[s]; ok {
		return label
	}
	return string(s)
}

// HREligibleSet returns every status from which HR may act, in a stable
// order.
func HREligibleSet() []Status {
	return []Status{
		StatusAcceptedManager,
		StatusHRApproved,
		StatusCompletedHR,
		StatusBooked,
	}
}

// HREligibleSpellings returns every persisted spelling that counts as
// HR-eligible, aliases included. Used to build conditional status updates
// that re-check the gate at write time against raw stored values.
func HREligibleSpellings() []string {
	spellings := make([]string, 0, 6)
	for _, s := range HREligibleSet() {
		spellings = append(spellings, string(s))
	}
	for alias, canonical := range aliases {
		if canonical.IsHREligible() {
			spellings = append(spellings, alias)
		}
	}
	return spellings
}
