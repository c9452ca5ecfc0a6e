package entity

import (
	"time"

	"github.com/rohitpai/travel-desk/internal/domain/status"
)

// Travel type constants for TravelIndent
const (
	TravelTypeDomestic      = "domestic"
	TravelTypeInternational = "international"
)

// TravelIndent represents an employee's travel request, the central workflow
// entity. The employee profile fields are frozen at creation time so later
// profile changes never rewrite historical indents.
type TravelIndent struct {
	IndentID         string        `json:"indent_id"`
	EmployeeID       string        `json:"employee_id"`
	EmployeeName     string        `json:"employee_name"`
	Email            string        `json:"email"`
	Grade            string        `json:"grade"`
	Department       string        `json:"department"`
	Designation      string        `json:"designation"`
	PurposeOfBooking string        `json:"purpose_of_booking"`
	TravelType       string        `json:"travel_type"`
	TravelStartDate  time.Time     `json:"travel_start_date"`
	TravelEndDate    time.Time     `json:"travel_end_date"`
	FromCity         string        `json:"from_city"`
	FromCountry      string        `json:"from_country"`
	ToCity           string        `json:"to_city"`
	ToCountry        string        `json:"to_country"`
	TotalDays        int           `json:"total_days"`
	Status           status.Status `json:"status"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// TripDays returns the trip length in days, end date inclusive.
func TripDays(start, end time.Time) int {
	days := int(end.Sub(start).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

// EstimatedCost returns the booking-time cost estimate: one flight fare plus
// the nightly hotel rate for every trip day. Audit figure only, never the
// source of truth.
func (ti *TravelIndent) EstimatedCost(flightFare, hotelRate float64) float64 {
	return flightFare + hotelRate*float64(ti.TotalDays)
}
