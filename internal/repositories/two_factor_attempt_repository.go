package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"sadhna-backend/internal/models"
)

// TwoFactorAttemptRepository is the append-only log of 2FA code checks
// behind the login lockout.
type TwoFactorAttemptRepository struct {
	DB *pgxpool.Pool
}

func NewTwoFactorAttemptRepository(db *pgxpool.Pool) *TwoFactorAttemptRepository {
	return &TwoFactorAttemptRepository{DB: db}
}

// Record appends an attempt and fills in its ID and timestamp.
// ErrReference when the user does not exist.
func (r *TwoFactorAttemptRepository) Record(ctx context.Context, a *models.TwoFactorAttempt) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO two_factor_attempts (user_id, ip_address, success)
		 VALUES ($1, $2, $3)
		 RETURNING id, attempted_at`,
		a.UserID, a.IPAddress, a.Success).Scan(&a.ID, &a.AttemptedAt)
	return mapError(err)
}

func (r *TwoFactorAttemptRepository) FailuresSince(ctx context.Context, userID int, since time.Time) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM two_factor_attempts
		 WHERE user_id = $1 AND NOT success AND attempted_at > $2`,
		userID, since).Scan(&n)
	return n, err
}

// Prune deletes attempts older than before and reports how many went.
func (r *TwoFactorAttemptRepository) Prune(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.DB.Exec(ctx, `DELETE FROM two_factor_attempts WHERE attempted_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
