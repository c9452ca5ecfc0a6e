package service

import (
	"fmt"
	"strings"

	"github.com/rohitpai/travel-desk/internal/domain/entity"
)

// BuildContextMessage prefixes the user's message with a structured block
// describing the bound indent so the model sees employee, trip and approval
// context without extra round-trips. Without a bound indent the message
// passes through untouched.
func BuildContextMessage(userMessage string, indent *entity.TravelIndent) string {
	if indent == nil {
		return userMessage
	}

	var b strings.Builder
	b.WriteString("EMPLOYEE INFORMATION:\n")
	fmt.Fprintf(&b, "Name: %s\n", indent.EmployeeName)
	fmt.Fprintf(&b, "ID: %s\n", indent.EmployeeID)
	fmt.Fprintf(&b, "Grade: %s\n", indent.Grade)
	fmt.Fprintf(&b, "Designation: %s\n", indent.Designation)
	fmt.Fprintf(&b, "Department: %s\n", indent.Department)
	fmt.Fprintf(&b, "Email: %s\n\n", indent.Email)

	b.WriteString("TRAVEL INFORMATION:\n")
	fmt.Fprintf(&b, "Type: %s\n", indent.TravelType)
	fmt.Fprintf(&b, "From: %s, %s\n", indent.FromCity, indent.FromCountry)
	fmt.Fprintf(&b, "To: %s, %s\n", indent.ToCity, indent.ToCountry)
	fmt.Fprintf(&b, "Start: %s\n", indent.TravelStartDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "End: %s\n", indent.TravelEndDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "Purpose: %s\n", indent.PurposeOfBooking)
	fmt.Fprintf(&b, "Ticket ID: %s\n", indent.IndentID)
	fmt.Fprintf(&b, "Total Days: %d\n\n", indent.TotalDays)

	b.WriteString("APPROVAL STATUS:\n")
	fmt.Fprintf(&b, "Status: %s\n\n", indent.Status.Label())

	b.WriteString("---\n")
	fmt.Fprintf(&b, "USER REQUEST: %s", userMessage)

	return b.String()
}
