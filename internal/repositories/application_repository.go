package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sadhna-backend/internal/models"
)

type ApplicationRepository struct {
	DB *pgxpool.Pool
}

func NewApplicationRepository(db *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{DB: db}
}

const applicationColumns = `id, name, email, phone, position, experience, message, date_of_birth,
	gender, address, emergency_contact, COALESCE(username, ''), COALESCE(password_hash, ''), expected_salary,
	resume_key, id_proof_key, address_proof_key, police_verification_key, photo_key,
	status, application_date, user_id, reviewed_by, review_date, review_comments`

func scanApplication(row pgx.Row) (*models.Application, error) {
	var a models.Application
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.Position, &a.Experience, &a.Message, &a.DateOfBirth,
		&a.Gender, &a.Address, &a.EmergencyContact, &a.Username, &a.PasswordHash, &a.ExpectedSalary,
		&a.Documents.Resume, &a.Documents.IDProof, &a.Documents.AddressProof, &a.Documents.PoliceVerification, &a.Documents.Photo,
		&a.Status, &a.ApplicationDate, &a.UserID, &a.ReviewedBy, &a.ReviewDate, &a.ReviewComments)
	if err != nil {
		return nil, mapError(err)
	}
	return &a, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *ApplicationRepository) Create(ctx context.Context, a *models.Application) error {
	if a.Status == "" {
		a.Status = models.ApplicationPending
	}
	err := r.DB.QueryRow(ctx,
		`INSERT INTO applications(name, email, phone, position, experience, message, date_of_birth,
			gender, address, emergency_contact, username, password_hash, expected_salary,
			resume_key, id_proof_key, address_proof_key, police_verification_key, photo_key, status)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		 RETURNING id, application_date`,
		a.Name, a.Email, a.Phone, a.Position, a.Experience, a.Message, a.DateOfBirth,
		a.Gender, a.Address, a.EmergencyContact, nullable(a.Username), nullable(a.PasswordHash), a.ExpectedSalary,
		a.Documents.Resume, a.Documents.IDProof, a.Documents.AddressProof, a.Documents.PoliceVerification, a.Documents.Photo,
		a.Status,
	).Scan(&a.ID, &a.ApplicationDate)
	return mapError(err)
}

func (r *ApplicationRepository) Get(ctx context.Context, id int) (*models.Application, error) {
	return scanApplication(r.DB.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id=$1`, id))
}

// List returns applications, newest first. An empty status lists all.
func (r *ApplicationRepository) List(ctx context.Context, status string) ([]*models.Application, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+applicationColumns+` FROM applications
		 WHERE $1::text = '' OR status = $1::text
		 ORDER BY application_date DESC`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []*models.Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// UsernameTaken reports whether a login or a pending application already claims the username.
func (r *ApplicationRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var taken bool
	err := r.DB.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username=$1)
		     OR EXISTS(SELECT 1 FROM applications WHERE username=$1 AND status IN ('Pending', 'Shortlisted'))`,
		username).Scan(&taken)
	return taken, err
}

// UpdateStatus records a review decision. ErrStale when the application left status from.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id int, from, to string, reviewerID int, comments string) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE applications
		 SET status=$1, reviewed_by=$2, review_date=NOW(), review_comments=$3
		 WHERE id=$4 AND status=$5`,
		to, reviewerID, comments, id, from)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStale
	}
	return nil
}

// Hire creates the login and the employee record and marks the application
// Hired, all in one transaction. ErrStale when the application is already hired,
// ErrClosed when it was rejected and ErrDuplicate when the username is taken.
func (r *ApplicationRepository) Hire(ctx context.Context, applicationID int, u *models.User, e *models.Employee, reviewerID int, comments string) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var status string
	err = tx.QueryRow(ctx, `SELECT status FROM applications WHERE id=$1 FOR UPDATE`, applicationID).Scan(&status)
	if err != nil {
		return mapError(err)
	}
	switch status {
	case models.ApplicationHired:
		return ErrStale
	case models.ApplicationRejected:
		return ErrClosed
	}

	if err := createUser(ctx, tx, u); err != nil {
		return err
	}
	e.UserID = &u.ID
	if err := createEmployee(ctx, tx, e); err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`UPDATE applications
		 SET status=$1, user_id=$2, reviewed_by=$3, review_date=NOW(), review_comments=$4
		 WHERE id=$5`,
		models.ApplicationHired, u.ID, reviewerID, comments, applicationID)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}
