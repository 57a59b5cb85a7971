package models

import "time"

const (
	AttendancePresent = "Present"
	AttendanceAbsent  = "Absent"
)

func ValidAttendanceStatus(s string) bool {
	return s == AttendancePresent || s == AttendanceAbsent
}

// Attendance rows are append-only. Several rows for the same employee and
// day are all kept and all counted.
type Attendance struct {
	ID           int       `json:"_id"`
	EmployeeID   int       `json:"employeeId"`
	EmployeeName string    `json:"employeeName,omitempty"`
	Date         time.Time `json:"date"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

type CreateAttendanceRequest struct {
	EmployeeID int    `json:"employeeId"`
	Date       string `json:"date"`
	Status     string `json:"status"`
}

// PayrollSummary is one employee's pay for one calendar month.
type PayrollSummary struct {
	EmployeeID   int     `json:"employeeId"`
	EmployeeName string  `json:"employeeName"`
	Month        int     `json:"month"`
	Year         int     `json:"year"`
	PresentDays  int     `json:"presentDays"`
	DailyRate    float64 `json:"dailyRate"`
	TotalSalary  float64 `json:"totalSalary"`
}
