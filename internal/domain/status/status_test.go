package status

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected Status
	}{
		{"canonical", "pending", StatusPending},
		{"upper case", "PENDING", StatusPending},
		{"surrounding whitespace", "  accepted_manager \n", StatusAcceptedManager},
		{"misspelled alias", "accpeted_manager", StatusAcceptedManager},
		{"misspelled alias upper", "ACCPETED_MANAGER", StatusAcceptedManager},
		{"manager_approved alias", "manager_approved", StatusAcceptedManager},
		{"empty defaults to pending", "", StatusPending},
		{"whitespace defaults to pending", "   ", StatusPending},
		{"unknown passes through normalized", " On Hold ", Status("on hold")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.raw); got != tt.expected {
				t.Errorf("Parse(%q) = %v, want %v", tt.raw, got, tt.expected)
			}
		})
	}
}

func TestStatus_IsDuplicateSafe(t *testing.T) {
	tests := []struct {
		status   Status
		expected bool
	}{
		{StatusDraft, true},
		{StatusRejected, true},
		{StatusRejectedManager, true},
		{StatusRejectedHR, true},
		{StatusDeclined, true},
		{StatusCancelled, true},
		{StatusPending, false},
		{StatusAcceptedManager, false},
		{StatusHRApproved, false},
		{StatusCompletedHR, false},
		{StatusBooked, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsDuplicateSafe(); got != tt.expected {
				t.Errorf("Status.IsDuplicateSafe() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStatus_IsHREligible(t *testing.T) {
	tests := []struct {
		status   Status
		expected bool
	}{
		{StatusAcceptedManager, true},
		{StatusHRApproved, true},
		{StatusCompletedHR, true},
		{StatusBooked, true},
		{StatusDraft, false},
		{StatusPending, false},
		{StatusRejectedManager, false},
		{StatusRejectedHR, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsHREligible(); got != tt.expected {
				t.Errorf("Status.IsHREligible() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStatus_IsHREligible_Alias(t *testing.T) {
	// Persisted alias spellings must gate identically to the canonical form.
	if !Parse("accpeted_manager").IsHREligible() {
		t.Error("alias accpeted_manager should be HR-eligible after Parse")
	}
	if !Parse("manager_approved").IsHREligible() {
		t.Error("alias manager_approved should be HR-eligible after Parse")
	}
}

func TestStatus_IsHRAction(t *testing.T) {
	tests := []struct {
		status   Status
		expected bool
	}{
		{StatusHRApproved, true},
		{StatusCompletedHR, true},
		{StatusBooked, true},
		{StatusAcceptedManager, false},
		{StatusPending, false},
		{StatusRejectedHR, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsHRAction(); got != tt.expected {
				t.Errorf("Status.IsHRAction() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   Status
		expected bool
	}{
		{StatusDraft, false},
		{StatusPending, false},
		{StatusAcceptedManager, false},
		{StatusHRApproved, false},
		{StatusRejectedManager, true},
		{StatusRejectedHR, true},
		{StatusCompletedHR, true},
		{StatusBooked, true},
		{StatusCancelled, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsTerminal(); got != tt.expected {
				t.Errorf("Status.IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStatus_Label(t *testing.T) {
	tests := []struct {
		status   Status
		expected string
	}{
		{StatusDraft, "Draft"},
		{StatusPending, "Pending Manager Approval"},
		{StatusAcceptedManager, "Approved by Manager"},
		{StatusCompletedHR, "Completed by HR"},
		{Status("on hold"), "on hold"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.Label(); got != tt.expected {
				t.Errorf("Status.Label() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestHREligibleSpellings(t *testing.T) {
	spellings := HREligibleSpellings()

	want := map[string]bool{
		"accepted_manager": false,
		"accpeted_manager": false,
		"manager_approved": false,
		"hr_approved":      false,
		"completed_hr":     false,
		"booked":           false,
	}
	for _, s := range spellings {
		if _, ok := want[s]; !ok {
			t.Errorf("unexpected spelling %q", s)
			continue
		}
		want[s] = true
	}
	for s, seen := range want {
		if !seen {
			t.Errorf("missing spelling %q", s)
		}
	}
}
