package entity

import "time"

// RouteBookmark is an employee-scoped saved route. Not part of the approval
// state machine.
type RouteBookmark struct {
	BookmarkID  string     `json:"bookmark_id"`
	EmployeeID  string     `json:"employee_id"`
	FromCity    string     `json:"from_city"`
	FromCountry string     `json:"from_country"`
	ToCity      string     `json:"to_city"`
	ToCountry   string     `json:"to_country"`
	Label       string     `json:"label,omitempty"`
	TimesUsed   int        `json:"times_used"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
