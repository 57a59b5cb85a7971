package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sadhna-backend/internal/models"
)

type LeaveRepository struct {
	DB *pgxpool.Pool
}

func NewLeaveRepository(db *pgxpool.Pool) *LeaveRepository {
	return &LeaveRepository{DB: db}
}

const leaveSelect = `
	SELECT l.id, l.user_id, u.username, u.role, l.from_date, l.to_date, l.reason, l.status, l.created_at, l.updated_at
	FROM leaves l
	JOIN users u ON u.id = l.user_id`

func scanLeave(row pgx.Row) (*models.Leave, error) {
	var l models.Leave
	var ref models.UserRef
	err := row.Scan(&l.ID, &l.UserID, &ref.Username, &ref.Role, &l.FromDate, &l.ToDate, &l.Reason, &l.Status, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	ref.ID = l.UserID
	l.User = &ref
	return &l, nil
}

func (r *LeaveRepository) Create(ctx context.Context, l *models.Leave) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO leaves(user_id, from_date, to_date, reason, status)
		 VALUES($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		l.UserID, l.FromDate, l.ToDate, l.Reason, l.Status,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	return mapError(err)
}

func (r *LeaveRepository) Get(ctx context.Context, id int) (*models.Leave, error) {
	return scanLeave(r.DB.QueryRow(ctx, leaveSelect+` WHERE l.id=$1`, id))
}

func (r *LeaveRepository) list(ctx context.Context, sql string, args ...any) ([]*models.Leave, error) {
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []*models.Leave{}
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func (r *LeaveRepository) ListByUser(ctx context.Context, userID int) ([]*models.Leave, error) {
	return r.list(ctx, leaveSelect+` WHERE l.user_id=$1 ORDER BY l.created_at DESC`, userID)
}

func (r *LeaveRepository) ListAll(ctx context.Context) ([]*models.Leave, error) {
	return r.list(ctx, leaveSelect+` ORDER BY l.created_at DESC`)
}

// UpdateStatus moves a leave from one status to another and returns the new
// updated_at. ErrStale when the
// row is no longer in the expected status.
func (r *LeaveRepository) UpdateStatus(ctx context.Context, id int, from, to string) (time.Time, error) {
	var updatedAt time.Time
	err := r.DB.QueryRow(ctx,
		`UPDATE leaves SET status=$1, updated_at=NOW() WHERE id=$2 AND status=$3
		 RETURNING updated_at`,
		to, id, from).Scan(&updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, ErrStale
	}
	return updatedAt, err
}
