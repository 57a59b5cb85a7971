package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"sadhna-backend/internal/models"
)

type AttendanceRepository struct {
	DB *pgxpool.Pool
}

func NewAttendanceRepository(db *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{DB: db}
}

// Create appends a row. ErrReference when the employee does not exist.
func (r *AttendanceRepository) Create(ctx context.Context, a *models.Attendance) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO attendance(employee_id, date, status)
		 VALUES($1, $2, $3)
		 RETURNING id, created_at`,
		a.EmployeeID, a.Date, a.Status,
	).Scan(&a.ID, &a.CreatedAt)
	return mapError(err)
}

const attendanceSelect = `
	SELECT a.id, a.employee_id, e.name, a.date, a.status, a.created_at
	FROM attendance a
	JOIN employees e ON e.id = a.employee_id`

func (r *AttendanceRepository) query(ctx context.Context, sql string, args ...any) ([]*models.Attendance, error) {
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []*models.Attendance{}
	for rows.Next() {
		var a models.Attendance
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.EmployeeName, &a.Date, &a.Status, &a.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

func (r *AttendanceRepository) List(ctx context.Context) ([]*models.Attendance, error) {
	return r.query(ctx, attendanceSelect+` ORDER BY a.date DESC, a.id DESC`)
}

func (r *AttendanceRepository) ListByEmployee(ctx context.Context, employeeID int) ([]*models.Attendance, error) {
	return r.query(ctx, attendanceSelect+` WHERE a.employee_id=$1 ORDER BY a.date DESC, a.id DESC`, employeeID)
}

// ListBetween returns all rows dated within [from, to], oldest first.
func (r *AttendanceRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*models.Attendance, error) {
	return r.query(ctx, attendanceSelect+` WHERE a.date BETWEEN $1 AND $2 ORDER BY e.name, a.date`, from, to)
}

// CountBetween returns Present rows and all rows dated within [from, to].
// Every row counts, duplicates included.
func (r *AttendanceRepository) CountBetween(ctx context.Context, employeeID int, from, to time.Time) (present, total int, err error) {
	err = r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FILTER (WHERE status = 'Present'), COUNT(*)
		 FROM attendance
		 WHERE employee_id=$1 AND date BETWEEN $2 AND $3`,
		employeeID, from, to,
	).Scan(&present, &total)
	return present, total, err
}
