package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sadhna-backend/internal/models"
	"sadhna-backend/internal/timeutil"
)

func employeeFixture() (*EmployeeService, *fakeEmployees, *fakeAttendance, *fakePayCache) {
	users := newFakeUsers(
		&models.User{ID: 1, Username: "ravi", Role: models.RoleWorker},
		&models.User{ID: 2, Username: "asha", Role: models.RoleWorker},
	)
	emps := newFakeEmployees()
	att := &fakeAttendance{}
	cache := newFakePayCache()
	return NewEmployeeService(emps, users, att, cache), emps, att, cache
}

func TestCreateEmployee(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := employeeFixture()

	e, err := svc.Create(ctx, &models.CreateEmployeeRequest{Name: "Ravi", Salary: 15000})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultEmployeeRole, e.Role)
	assert.Nil(t, e.UserID)

	_, err = svc.Create(ctx, &models.CreateEmployeeRequest{Name: "Ravi", Salary: 0})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, &models.CreateEmployeeRequest{Name: "Ghost", Salary: 1, UserID: intPtr(9)})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Create(ctx, &models.CreateEmployeeRequest{Name: "Ravi", Salary: 1, UserID: intPtr(1)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &models.CreateEmployeeRequest{Name: "Ravi again", Salary: 1, UserID: intPtr(1)})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUpdateEmployeeInvalidatesPay(t *testing.T) {
	ctx := context.Background()
	svc, _, _, cache := employeeFixture()
	e, err := svc.Create(ctx, &models.CreateEmployeeRequest{Name: "Ravi", Salary: 15000})
	require.NoError(t, err)

	salary := 18000.0
	got, err := svc.Update(ctx, e.ID, &models.UpdateEmployeeRequest{Salary: &salary})
	require.NoError(t, err)
	assert.Equal(t, 18000.0, got.Salary)
	assert.Equal(t, "Ravi", got.Name)
	assert.Equal(t, []int{e.ID}, cache.invalidated)

	bad := -1.0
	_, err = svc.Update(ctx, e.ID, &models.UpdateEmployeeRequest{Salary: &bad})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Update(ctx, 99, &models.UpdateEmployeeRequest{})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(ctx, e.ID))
	assert.ErrorIs(t, svc.Delete(ctx, e.ID), ErrNotFound)
}

func TestProfileSummarisesCurrentMonth(t *testing.T) {
	ctx := context.Background()
	svc, _, att, _ := employeeFixture()
	e, err := svc.Create(ctx, &models.CreateEmployeeRequest{Name: "Ravi", Salary: 15000, UserID: intPtr(1)})
	require.NoError(t, err)

	today := timeutil.StartOfDay(timeutil.Now())
	att.add(e.ID, today, models.AttendancePresent)
	att.add(e.ID, today, models.AttendancePresent)
	att.add(e.ID, today, models.AttendanceAbsent)
	att.add(e.ID, today.AddDate(-1, 0, 0), models.AttendancePresent)

	p, err := svc.Profile(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Ravi", p.Name)
	assert.Equal(t, 2, p.Attendance.Present)
	assert.Equal(t, 3, p.Attendance.Total)
	assert.Equal(t, 66.67, p.Attendance.Rate)
	assert.Equal(t, 500.0, p.Pay.DailyRate)
	assert.Equal(t, 1000.0, p.Pay.TotalSalary)

	_, err = svc.Profile(ctx, 2)
	assert.ErrorIs(t, err, ErrNotFound)
}
