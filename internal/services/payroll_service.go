package services

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jung-kurt/gofpdf/v2"

	"sadhna-backend/internal/logger"
	"sadhna-backend/internal/models"
	"sadhna-backend/internal/timeutil"
)

// daysPerMonth is the fixed divisor for the daily rate, whatever the calendar says.
const daysPerMonth = 30

type EmployeeGetter interface {
	Get(ctx context.Context, id int) (*models.Employee, error)
	GetByUserID(ctx context.Context, userID int) (*models.Employee, error)
}

type AttendanceCounter interface {
	CountBetween(ctx context.Context, employeeID int, from, to time.Time) (present, total int, err error)
}

// PayCache is satisfied by cache.PayrollCache. A nil PayCache disables caching.
type PayCache interface {
	Get(ctx context.Context, employeeID, month, year int) (*models.PayrollSummary, bool)
	Set(ctx context.Context, s *models.PayrollSummary)
	Invalidate(ctx context.Context, employeeID int)
}

// Company is printed on payslips and emails.
type Company struct {
	Name         string
	SupportEmail string
	Phone        string
	Address      string
}

type PayrollService struct {
	employees  EmployeeGetter
	attendance AttendanceCounter
	cache      PayCache
	company    Company
}

func NewPayrollService(employees EmployeeGetter, attendance AttendanceCounter, cache PayCache, company Company) *PayrollService {
	return &PayrollService{
		employees:  employees,
		attendance: attendance,
		cache:      cache,
		company:    company,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// pay computes the daily rate and the month's total for a salary.
func pay(salary float64, presentDays int) (dailyRate, total float64) {
	dailyRate = salary / daysPerMonth
	return round2(dailyRate), round2(dailyRate * float64(presentDays))
}

func validPeriod(month, year int) error {
	if month < 1 || month > 12 {
		return validation("Invalid month")
	}
	if year < 1970 || year > 9999 {
		return validation("Invalid year")
	}
	return nil
}

// Calculate returns the pay for one employee and calendar month (IST).
func (s *PayrollService) Calculate(ctx context.Context, employeeID, month, year int) (*models.PayrollSummary, error) {
	if err := validPeriod(month, year); err != nil {
		return nil, err
	}
	emp, err := s.employees.Get(ctx, employeeID)
	if err != nil {
		return nil, notFoundOr(err, "Employee not found")
	}
	return s.summarize(ctx, emp, month, year)
}

// MyPay resolves the caller's employee record through its login link.
// A zero month or year means the current one.
func (s *PayrollService) MyPay(ctx context.Context, userID, month, year int) (*models.PayrollSummary, error) {
	now := timeutil.Now()
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}
	if err := validPeriod(month, year); err != nil {
		return nil, err
	}
	emp, err := s.employees.GetByUserID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "Employee record not found")
	}
	return s.summarize(ctx, emp, month, year)
}

func (s *PayrollService) summarize(ctx context.Context, emp *models.Employee, month, year int) (*models.PayrollSummary, error) {
	if emp.Salary <= 0 {
		return nil, integrity(fmt.Sprintf("Employee %s has no valid salary on record", emp.Name))
	}
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, emp.ID, month, year); ok {
			return cached, nil
		}
	}

	from, to := timeutil.MonthRange(year, month)
	present, _, err := s.attendance.CountBetween(ctx, emp.ID, from, to)
	if err != nil {
		return nil, err
	}

	dailyRate, total := pay(emp.Salary, present)
	summary := &models.PayrollSummary{
		EmployeeID:   emp.ID,
		EmployeeName: emp.Name,
		Month:        month,
		Year:         year,
		PresentDays:  present,
		DailyRate:    dailyRate,
		TotalSalary:  total,
	}
	if s.cache != nil {
		s.cache.Set(ctx, summary)
	}
	logger.FromContext(ctx).WithFields(map[string]interface{}{
		"employeeId": emp.ID,
		"month":      month,
		"year":       year,
		"present":    present,
	}).Debug("payroll calculated")
	return summary, nil
}

// GeneratePayslipPDF renders an A4 payslip.
func (s *PayrollService) GeneratePayslipPDF(summary *models.PayrollSummary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(180, 10, s.company.Name, "", 1, "C", false, 0, "")
	if s.company.Address != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(180, 6, s.company.Address, "", 1, "C", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 14)
	period := time.Date(summary.Year, time.Month(summary.Month), 1, 0, 0, 0, 0, timeutil.IST)
	pdf.CellFormat(180, 10, "Salary Slip - "+period.Format(timeutil.MonthLayout), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(180, 5, fmt.Sprintf("Generated: %s", timeutil.Now().Format(timeutil.DisplayLayout)), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(180, 8, "Employee Details", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(90, 8, fmt.Sprintf("Name: %s", summary.EmployeeName), "1", 0, "L", false, 0, "")
	pdf.CellFormat(90, 8, fmt.Sprintf("Employee ID: %d", summary.EmployeeID), "1", 1, "L", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(180, 8, "Earnings", "1", 1, "L", true, 0, "")
	rows := [][2]string{
		{"Days Present", fmt.Sprintf("%d", summary.PresentDays)},
		{"Daily Rate", fmt.Sprintf("Rs. %.2f", summary.DailyRate)},
	}
	pdf.SetFont("Arial", "", 11)
	for _, row := range rows {
		pdf.CellFormat(120, 8, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 8, row[1], "1", 1, "R", false, 0, "")
	}
	pdf.SetFillColor(200, 255, 200)
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(120, 10, "Total Salary", "1", 0, "L", true, 0, "")
	pdf.CellFormat(60, 10, fmt.Sprintf("Rs. %.2f", summary.TotalSalary), "1", 1, "R", true, 0, "")

	pdf.Ln(20)
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(180, 5, "This is a computer generated payslip and does not require a signature.", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
