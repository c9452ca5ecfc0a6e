package workflow

import (
	"github.com/rohitpai/travel-desk/internal/domain/status"
)

// BuildIndentStateMachine creates a state machine configured for the travel
// indent approval lifecycle, starting from the given status.
//
// Duplicate detection and actor authorization are enforced by the lifecycle
// service; the machine only encodes which edges exist.
func BuildIndentStateMachine(initial status.Status) StateMachine {
	b := NewBuilder()

	// Drafts may be re-saved or submitted; they are the only editable state.
	b.Configure(status.StatusDraft).
		Permit(TriggerSaveDraft, status.StatusDraft).
		Permit(TriggerSubmit, status.StatusPending).
		Permit(TriggerCancel, status.StatusCancelled)

	b.Configure(status.StatusPending).
		Permit(TriggerManagerApprove, status.StatusAcceptedManager).
		Permit(TriggerManagerReject, status.StatusRejectedManager).
		Permit(TriggerCancel, status.StatusCancelled)

	// Once manager-approved, every HR action is open, and stays open from
	// any status HR has already written: an hr_approved indent can still be
	// booked, a booked indent can be marked completed.
	for _, s := range status.HREligibleSet() {
		b.Configure(s).
			Permit(TriggerHRApprove, status.StatusHRApproved).
			Permit(TriggerBookFlight, status.StatusBooked).
			Permit(TriggerCompleteBooking, status.StatusCompletedHR)
	}

	b.Configure(status.StatusAcceptedManager).
		Permit(TriggerHRReject, status.StatusRejectedHR)

	// rejected_manager, rejected_hr and cancelled have no outgoing edges.

	return b.Build(initial)
}
