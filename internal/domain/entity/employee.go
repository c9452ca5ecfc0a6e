package entity

import "time"

// Role constants for User
const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleHR       = "hr"
)

// User represents a registered employee account
type User struct {
	EmployeeID  string    `json:"employee_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Grade       string    `json:"grade"`
	Department  string    `json:"department"`
	Designation string    `json:"designation"`
	Role        string    `json:"role"`
	ManagerID   string    `json:"manager_id,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// EmployeeProfile is the snapshot of user fields copied onto a travel indent
// at creation time
type EmployeeProfile struct {
	EmployeeID  string `json:"employee_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Grade       string `json:"grade"`
	Department  string `json:"department"`
	Designation string `json:"designation"`
}
