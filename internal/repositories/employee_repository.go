package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sadhna-backend/internal/models"
)

type EmployeeRepository struct {
	DB *pgxpool.Pool
}

func NewEmployeeRepository(db *pgxpool.Pool) *EmployeeRepository {
	return &EmployeeRepository{DB: db}
}

const employeeColumns = `id, name, role, salary, user_id, created_at, updated_at`

func scanEmployee(row pgx.Row) (*models.Employee, error) {
	var e models.Employee
	if err := row.Scan(&e.ID, &e.Name, &e.Role, &e.Salary, &e.UserID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	return &e, nil
}

func (r *EmployeeRepository) Create(ctx context.Context, e *models.Employee) error {
	return createEmployee(ctx, r.DB, e)
}

func createEmployee(ctx context.Context, q querier, e *models.Employee) error {
	err := q.QueryRow(ctx,
		`INSERT INTO employees(name, role, salary, user_id)
		 VALUES($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		e.Name, e.Role, e.Salary, e.UserID,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	return mapError(err)
}

func (r *EmployeeRepository) Get(ctx context.Context, id int) (*models.Employee, error) {
	return scanEmployee(r.DB.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id=$1`, id))
}

// GetByUserID follows the login link; ErrNotFound when the user has no employee record.
func (r *EmployeeRepository) GetByUserID(ctx context.Context, userID int) (*models.Employee, error) {
	return scanEmployee(r.DB.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE user_id=$1`, userID))
}

func (r *EmployeeRepository) List(ctx context.Context) ([]*models.Employee, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []*models.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r *EmployeeRepository) Update(ctx context.Context, e *models.Employee) error {
	err := r.DB.QueryRow(ctx,
		`UPDATE employees SET name=$1, role=$2, salary=$3, user_id=$4, updated_at=NOW()
		 WHERE id=$5
		 RETURNING updated_at`,
		e.Name, e.Role, e.Salary, e.UserID, e.ID,
	).Scan(&e.UpdatedAt)
	return mapError(err)
}

func (r *EmployeeRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM employees WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
