package models

import "time"

const DefaultEmployeeRole = "Worker"

// Employee is a payroll record. UserID is nil for crew members without a login.
type Employee struct {
	ID        int       `json:"_id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Salary    float64   `json:"salary"`
	UserID    *int      `json:"userId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateEmployeeRequest struct {
	Name   string  `json:"name"`
	Role   string  `json:"role"`
	Salary float64 `json:"salary"`
	UserID *int    `json:"userId"`
}

// UpdateEmployeeRequest is a partial update; nil fields are left unchanged.
type UpdateEmployeeRequest struct {
	Name   *string  `json:"name"`
	Role   *string  `json:"role"`
	Salary *float64 `json:"salary"`
	UserID *int     `json:"userId"`
}

type AttendanceSummary struct {
	Present int     `json:"present"`
	Total   int     `json:"total"`
	Rate    float64 `json:"rate"`
}

type PaySummary struct {
	DailyRate   float64 `json:"dailyRate"`
	TotalSalary float64 `json:"totalSalary"`
}

// EmployeeProfile is the self-service view of the caller's own record.
type EmployeeProfile struct {
	Employee
	Attendance AttendanceSummary `json:"attendance"`
	Pay        PaySummary        `json:"pay"`
}
