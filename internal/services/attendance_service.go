package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"sadhna-backend/internal/models"
	"sadhna-backend/internal/realtime"
	"sadhna-backend/internal/timeutil"
)

type AttendanceStore interface {
	AttendanceCounter
	Create(ctx context.Context, a *models.Attendance) error
	List(ctx context.Context) ([]*models.Attendance, error)
	ListByEmployee(ctx context.Context, employeeID int) ([]*models.Attendance, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*models.Attendance, error)
}

type AttendanceService struct {
	store     AttendanceStore
	employees EmployeeGetter
	events    realtime.Publisher
	cache     PayCache
}

func NewAttendanceService(store AttendanceStore, employees EmployeeGetter, events realtime.Publisher, cache PayCache) *AttendanceService {
	if events == nil {
		events = realtime.Nop{}
	}
	return &AttendanceService{
		store:     store,
		employees: employees,
		events:    events,
		cache:     cache,
	}
}

// Add appends an attendance row and notifies staff dashboards and the
// employee's own session.
func (s *AttendanceService) Add(ctx context.Context, req *models.CreateAttendanceRequest) (*models.Attendance, error) {
	if req.EmployeeID <= 0 || req.Date == "" || req.Status == "" {
		return nil, validation("Please provide all required fields")
	}
	if !models.ValidAttendanceStatus(req.Status) {
		return nil, validation("Invalid status value")
	}
	date, err := timeutil.ParseDate(req.Date)
	if err != nil {
		return nil, validation("Invalid date")
	}

	emp, err := s.employees.Get(ctx, req.EmployeeID)
	if err != nil {
		return nil, notFoundOr(err, "Employee not found")
	}

	a := &models.Attendance{EmployeeID: emp.ID, EmployeeName: emp.Name, Date: date, Status: req.Status}
	if err := s.store.Create(ctx, a); err != nil {
		return nil, notFoundOr(err, "Employee not found")
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, emp.ID)
	}

	audience := realtime.Audience{Roles: []string{models.RoleAdmin, models.RoleManager, models.RoleSupervisor}}
	if emp.UserID != nil {
		audience.UserIDs = []int{*emp.UserID}
	}
	s.events.Publish(ctx, realtime.Event{
		Name: realtime.EventAttendanceAdded,
		Data: map[string]interface{}{
			"attendance": a,
			"message":    "New attendance record added",
		},
		Audience: audience,
	})
	return a, nil
}

func (s *AttendanceService) List(ctx context.Context) ([]*models.Attendance, error) {
	return s.store.List(ctx)
}

func (s *AttendanceService) ListByEmployee(ctx context.Context, employeeID int) ([]*models.Attendance, error) {
	if _, err := s.employees.Get(ctx, employeeID); err != nil {
		return nil, notFoundOr(err, "Employee not found")
	}
	return s.store.ListByEmployee(ctx, employeeID)
}

// ListMine returns the caller's own attendance through the login link.
func (s *AttendanceService) ListMine(ctx context.Context, userID int, role string) ([]*models.Attendance, error) {
	if role == models.RoleAdmin {
		return nil, forbidden("Admins should use the admin dashboard to view attendance")
	}
	emp, err := s.employees.GetByUserID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "Employee record not found")
	}
	return s.store.ListByEmployee(ctx, emp.ID)
}

type exportTotals struct {
	name    string
	present int
	absent  int
}

// ExportMonth builds an XLSX workbook with every record of the month and a
// per-employee summary sheet.
func (s *AttendanceService) ExportMonth(ctx context.Context, month, year int) ([]byte, error) {
	if err := validPeriod(month, year); err != nil {
		return nil, err
	}
	from, to := timeutil.MonthRange(year, month)
	records, err := s.store.ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const recordsSheet, summarySheet = "Attendance", "Summary"
	if err := f.SetSheetName("Sheet1", recordsSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(recordsSheet, "A1", &[]interface{}{"Date", "Employee ID", "Employee", "Status"}); err != nil {
		return nil, err
	}
	totals := map[int]*exportTotals{}
	for i, a := range records {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{a.Date.In(timeutil.IST).Format(timeutil.DateLayout), a.EmployeeID, a.EmployeeName, a.Status}
		if err := f.SetSheetRow(recordsSheet, cell, &row); err != nil {
			return nil, err
		}
		t, ok := totals[a.EmployeeID]
		if !ok {
			t = &exportTotals{name: a.EmployeeName}
			totals[a.EmployeeID] = t
		}
		if a.Status == models.AttendancePresent {
			t.present++
		} else {
			t.absent++
		}
	}

	ids := make([]int, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return totals[ids[i]].name < totals[ids[j]].name })

	if err := f.SetSheetRow(summarySheet, "A1", &[]interface{}{"Employee ID", "Employee", "Present", "Absent", "Total"}); err != nil {
		return nil, err
	}
	for i, id := range ids {
		t := totals[id]
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{id, t.name, t.present, t.absent, t.present + t.absent}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, err
		}
	}
	_ = f.SetCellStyle(recordsSheet, "A1", "D1", bold)
	_ = f.SetCellStyle(summarySheet, "A1", "E1", bold)
	_ = f.SetDocProps(&excelize.DocProperties{Title: fmt.Sprintf("Attendance %04d-%02d", year, month)})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
