package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sadhna-backend/internal/models"
)

type SiteReportRepository struct {
	DB *pgxpool.Pool
}

func NewSiteReportRepository(db *pgxpool.Pool) *SiteReportRepository {
	return &SiteReportRepository{DB: db}
}

const siteReportSelect = `
	SELECT r.id, r.title, r.description, r.location, r.progress, r.status,
	       u.id, u.username, u.role, r.date, r.created_at, r.updated_at
	FROM site_reports r
	JOIN users u ON u.id = r.reported_by`

func scanSiteReport(row pgx.Row) (*models.SiteReport, error) {
	var s models.SiteReport
	var by models.UserRef
	err := row.Scan(&s.ID, &s.Title, &s.Description, &s.Location, &s.Progress, &s.Status,
		&by.ID, &by.Username, &by.Role, &s.Date, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	s.ReportedBy = &by
	s.Photos = []models.SitePhoto{}
	s.Comments = []models.SiteComment{}
	return &s, nil
}

func insertPhotos(ctx context.Context, q querier, reportID int, photos []models.SitePhoto) error {
	for i := range photos {
		err := q.QueryRow(ctx,
			`INSERT INTO site_report_photos(report_id, storage_key, caption) VALUES($1, $2, $3) RETURNING id`,
			reportID, photos[i].Key, photos[i].Caption,
		).Scan(&photos[i].ID)
		if err != nil {
			return err
		}
	}
	return nil
}

// Create stores the report and its photos together. ReportedBy must be set.
func (r *SiteReportRepository) Create(ctx context.Context, s *models.SiteReport) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO site_reports(title, description, location, progress, status, reported_by)
		 VALUES($1, $2, $3, $4, $5, $6)
		 RETURNING id, date, created_at, updated_at`,
		s.Title, s.Description, s.Location, s.Progress, s.Status, s.ReportedBy.ID,
	).Scan(&s.ID, &s.Date, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return mapError(err)
	}
	if err := insertPhotos(ctx, tx, s.ID, s.Photos); err != nil {
		return err
	}
	if s.Comments == nil {
		s.Comments = []models.SiteComment{}
	}
	return tx.Commit(ctx)
}

func (r *SiteReportRepository) Get(ctx context.Context, id int) (*models.SiteReport, error) {
	s, err := scanSiteReport(r.DB.QueryRow(ctx, siteReportSelect+` WHERE r.id=$1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.attach(ctx, []*models.SiteReport{s}); err != nil {
		return nil, err
	}
	return s, nil
}

// List returns every report, newest first, with photos and comments loaded.
func (r *SiteReportRepository) List(ctx context.Context) ([]*models.SiteReport, error) {
	rows, err := r.DB.Query(ctx, siteReportSelect+` ORDER BY r.date DESC, r.id DESC`)
	if err != nil {
		return nil, err
	}
	list := []*models.SiteReport{}
	for rows.Next() {
		s, err := scanSiteReport(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		list = append(list, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attach(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// attach loads photos and comments for a batch of reports in two queries.
func (r *SiteReportRepository) attach(ctx context.Context, reports []*models.SiteReport) error {
	if len(reports) == 0 {
		return nil
	}
	ids := make([]int, len(reports))
	byID := make(map[int]*models.SiteReport, len(reports))
	for i, s := range reports {
		ids[i] = s.ID
		byID[s.ID] = s
	}

	rows, err := r.DB.Query(ctx,
		`SELECT id, report_id, storage_key, caption FROM site_report_photos
		 WHERE report_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return err
	}
	for rows.Next() {
		var p models.SitePhoto
		var reportID int
		if err := rows.Scan(&p.ID, &reportID, &p.Key, &p.Caption); err != nil {
			rows.Close()
			return err
		}
		byID[reportID].Photos = append(byID[reportID].Photos, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.DB.Query(ctx,
		`SELECT c.id, c.report_id, c.text, u.id, u.username, u.role, c.created_at
		 FROM site_report_comments c
		 JOIN users u ON u.id = c.author_id
		 WHERE c.report_id = ANY($1) ORDER BY c.created_at, c.id`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var c models.SiteComment
		var author models.UserRef
		var reportID int
		if err := rows.Scan(&c.ID, &reportID, &c.Text, &author.ID, &author.Username, &author.Role, &c.CreatedAt); err != nil {
			return err
		}
		c.Author = &author
		byID[reportID].Comments = append(byID[reportID].Comments, c)
	}
	return rows.Err()
}

// Update writes the report fields, removes the listed photos and appends the
// new ones. It returns the storage keys of the removed photos.
func (r *SiteReportRepository) Update(ctx context.Context, s *models.SiteReport, removeIDs []int, add []models.SitePhoto) ([]string, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`UPDATE site_reports
		 SET title=$1, description=$2, location=$3, progress=$4, status=$5, updated_at=NOW()
		 WHERE id=$6
		 RETURNING updated_at`,
		s.Title, s.Description, s.Location, s.Progress, s.Status, s.ID,
	).Scan(&s.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}

	removed := []string{}
	if len(removeIDs) > 0 {
		rows, err := tx.Query(ctx,
			`DELETE FROM site_report_photos WHERE report_id=$1 AND id = ANY($2) RETURNING storage_key`,
			s.ID, removeIDs)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var key string
			if err := rows.Scan(&key); err != nil {
				rows.Close()
				return nil, err
			}
			removed = append(removed, key)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}

	if err := insertPhotos(ctx, tx, s.ID, add); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return removed, nil
}

func (r *SiteReportRepository) AddComment(ctx context.Context, reportID int, c *models.SiteComment) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO site_report_comments(report_id, text, author_id)
		 VALUES($1, $2, $3)
		 RETURNING id, created_at`,
		reportID, c.Text, c.Author.ID,
	).Scan(&c.ID, &c.CreatedAt)
	return mapError(err)
}

// Delete removes the report and returns the storage keys of its photos.
func (r *SiteReportRepository) Delete(ctx context.Context, id int) ([]string, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `SELECT storage_key FROM site_report_photos WHERE report_id=$1`, id)
	if err != nil {
		return nil, err
	}
	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			rows.Close()
			return nil, err
		}
		keys = append(keys, key)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM site_reports WHERE id=$1`, id)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return keys, nil
}
