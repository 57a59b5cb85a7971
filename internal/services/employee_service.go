package services

import (
	"context"
	"errors"
	"strings"

	"sadhna-backend/internal/models"
	"sadhna-backend/internal/repositories"
	"sadhna-backend/internal/timeutil"
)

type EmployeeStore interface {
	EmployeeGetter
	Create(ctx context.Context, e *models.Employee) error
	List(ctx context.Context) ([]*models.Employee, error)
	Update(ctx context.Context, e *models.Employee) error
	Delete(ctx context.Context, id int) error
}

type UserGetter interface {
	Get(ctx context.Context, id int) (*models.User, error)
}

type EmployeeService struct {
	employees  EmployeeStore
	users      UserGetter
	attendance AttendanceCounter
	cache      PayCache
}

func NewEmployeeService(employees EmployeeStore, users UserGetter, attendance AttendanceCounter, cache PayCache) *EmployeeService {
	return &EmployeeService{
		employees:  employees,
		users:      users,
		attendance: attendance,
		cache:      cache,
	}
}

func (s *EmployeeService) List(ctx context.Context) ([]*models.Employee, error) {
	return s.employees.List(ctx)
}

func (s *EmployeeService) Get(ctx context.Context, id int) (*models.Employee, error) {
	e, err := s.employees.Get(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Employee not found")
	}
	return e, nil
}

// Profile is the caller's own record with this month's attendance and pay.
func (s *EmployeeService) Profile(ctx context.Context, userID int) (*models.EmployeeProfile, error) {
	e, err := s.employees.GetByUserID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "Employee profile not found")
	}

	now := timeutil.Now()
	from, to := timeutil.MonthRange(now.Year(), int(now.Month()))
	present, total, err := s.attendance.CountBetween(ctx, e.ID, from, to)
	if err != nil {
		return nil, err
	}

	p := &models.EmployeeProfile{Employee: *e}
	p.Attendance = models.AttendanceSummary{Present: present, Total: total}
	if total > 0 {
		p.Attendance.Rate = round2(float64(present) * 100 / float64(total))
	}
	if e.Salary > 0 {
		p.Pay.DailyRate, p.Pay.TotalSalary = pay(e.Salary, present)
	}
	return p, nil
}

func (s *EmployeeService) Create(ctx context.Context, req *models.CreateEmployeeRequest) (*models.Employee, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validation("Please provide all required fields")
	}
	if req.Salary <= 0 {
		return nil, validation("Salary must be greater than zero")
	}
	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = models.DefaultEmployeeRole
	}
	if err := s.checkUser(ctx, req.UserID); err != nil {
		return nil, err
	}

	e := &models.Employee{Name: name, Role: role, Salary: req.Salary, UserID: req.UserID}
	if err := s.employees.Create(ctx, e); err != nil {
		return nil, linkError(err)
	}
	return e, nil
}

// Update applies the supplied fields and drops cached pay for the employee.
func (s *EmployeeService) Update(ctx context.Context, id int, req *models.UpdateEmployeeRequest) (*models.Employee, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, validation("Name cannot be empty")
		}
		e.Name = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil && strings.TrimSpace(*req.Role) != "" {
		e.Role = strings.TrimSpace(*req.Role)
	}
	if req.Salary != nil {
		if *req.Salary <= 0 {
			return nil, validation("Salary must be greater than zero")
		}
		e.Salary = *req.Salary
	}
	if req.UserID != nil && (e.UserID == nil || *e.UserID != *req.UserID) {
		if err := s.checkUser(ctx, req.UserID); err != nil {
			return nil, err
		}
		e.UserID = req.UserID
	}

	if err := s.employees.Update(ctx, e); err != nil {
		return nil, notFoundOr(linkError(err), "Employee not found")
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, e.ID)
	}
	return e, nil
}

func (s *EmployeeService) Delete(ctx context.Context, id int) error {
	if err := s.employees.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Employee not found")
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}
	return nil
}

func (s *EmployeeService) checkUser(ctx context.Context, userID *int) error {
	if userID == nil {
		return nil
	}
	if _, err := s.users.Get(ctx, *userID); err != nil {
		return notFoundOr(err, "User not found")
	}
	return nil
}

func linkError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrDuplicate):
		return conflict("User is already linked to another employee")
	case errors.Is(err, repositories.ErrReference):
		return notFound("User not found")
	}
	return err
}
