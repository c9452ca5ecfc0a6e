package workflow

// Trigger represents an event that can cause a status transition
type Trigger string

const (
	TriggerSaveDraft       Trigger = "SAVE_DRAFT"
	TriggerSubmit          Trigger = "SUBMIT"
	TriggerManagerApprove  Trigger = "MANAGER_APPROVE"
	TriggerManagerReject   Trigger = "MANAGER_REJECT"
	TriggerHRApprove       Trigger = "HR_APPROVE"
	TriggerHRReject        Trigger = "HR_REJECT"
	TriggerBookFlight      Trigger = "BOOK_FLIGHT"
	TriggerCompleteBooking Trigger = "COMPLETE_BOOKING"
	TriggerCancel          Trigger = "CANCEL"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
