package services

import (
	"context"
	"strings"

	"sadhna-backend/internal/models"
	"sadhna-backend/internal/storage"
)

type SiteReportStore interface {
	Create(ctx context.Context, s *models.SiteReport) error
	Get(ctx context.Context, id int) (*models.SiteReport, error)
	List(ctx context.Context) ([]*models.SiteReport, error)
	Update(ctx context.Context, s *models.SiteReport, removeIDs []int, add []models.SitePhoto) ([]string, error)
	AddComment(ctx context.Context, reportID int, c *models.SiteComment) error
	Delete(ctx context.Context, id int) ([]string, error)
}

type SiteReportService struct {
	store SiteReportStore
	users UserGetter
	files storage.Driver
}

func NewSiteReportService(store SiteReportStore, users UserGetter, files storage.Driver) *SiteReportService {
	return &SiteReportService{store: store, users: users, files: files}
}

func (s *SiteReportService) List(ctx context.Context) ([]*models.SiteReport, error) {
	return s.store.List(ctx)
}

func (s *SiteReportService) Get(ctx context.Context, id int) (*models.SiteReport, error) {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Report not found")
	}
	return r, nil
}

func applyReportInput(r *models.SiteReport, in *models.SiteReportInput) error {
	if in.Title != nil {
		r.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		r.Description = strings.TrimSpace(*in.Description)
	}
	if in.Location != nil {
		r.Location = strings.TrimSpace(*in.Location)
	}
	if in.Progress != nil {
		if *in.Progress < 0 || *in.Progress > 100 {
			return validation("Progress must be between 0 and 100")
		}
		r.Progress = *in.Progress
	}
	if in.Status != nil && *in.Status != "" {
		if !models.ValidSiteStatus(*in.Status) {
			return validation("Invalid status value")
		}
		r.Status = *in.Status
	}
	if r.Title == "" || r.Description == "" || r.Location == "" {
		return validation("Please provide all required fields")
	}
	return nil
}

func (s *SiteReportService) savePhotos(ctx context.Context, photos []Upload) ([]models.SitePhoto, []string, error) {
	keys, err := saveUploads(ctx, s.files, "site-reports", photos, imageExtensions, "jpg, jpeg, png, gif, webp")
	if err != nil {
		return nil, nil, err
	}
	out := make([]models.SitePhoto, len(photos))
	for i, p := range photos {
		out[i] = models.SitePhoto{Key: keys[i], Caption: p.Caption}
	}
	return out, keys, nil
}

// Create files a report by the caller with up to five photos.
func (s *SiteReportService) Create(ctx context.Context, caller Caller, in *models.SiteReportInput, photos []Upload) (*models.SiteReport, error) {
	r := &models.SiteReport{Status: models.SiteInProgress}
	if err := applyReportInput(r, in); err != nil {
		return nil, err
	}
	if len(photos) > models.MaxSitePhotos {
		return nil, validation("A report can have at most 5 photos")
	}
	author, err := s.users.Get(ctx, caller.UserID)
	if err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	r.ReportedBy = author.Ref()

	saved, keys, err := s.savePhotos(ctx, photos)
	if err != nil {
		return nil, err
	}
	r.Photos = saved
	if err := s.store.Create(ctx, r); err != nil {
		removeFiles(ctx, s.files, keys)
		return nil, err
	}
	return r, nil
}

func canEdit(caller Caller, r *models.SiteReport) bool {
	return caller.IsAdmin() || (r.ReportedBy != nil && r.ReportedBy.ID == caller.UserID)
}

// Update changes the supplied fields, removes the listed photos and then
// appends new uploads. Removed files are deleted after the database write.
func (s *SiteReportService) Update(ctx context.Context, caller Caller, id int, in *models.SiteReportInput, removePhotoIDs []int, photos []Upload) (*models.SiteReport, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canEdit(caller, r) {
		return nil, forbidden("Not authorized to update this report")
	}
	if err := applyReportInput(r, in); err != nil {
		return nil, err
	}

	remove := map[int]bool{}
	for _, pid := range removePhotoIDs {
		remove[pid] = true
	}
	kept := make([]models.SitePhoto, 0, len(r.Photos))
	for _, p := range r.Photos {
		if !remove[p.ID] {
			kept = append(kept, p)
		}
	}
	if len(kept)+len(photos) > models.MaxSitePhotos {
		return nil, validation("A report can have at most 5 photos")
	}

	added, keys, err := s.savePhotos(ctx, photos)
	if err != nil {
		return nil, err
	}
	removed, err := s.store.Update(ctx, r, removePhotoIDs, added)
	if err != nil {
		removeFiles(ctx, s.files, keys)
		return nil, notFoundOr(err, "Report not found")
	}
	removeFiles(ctx, s.files, removed)

	r.Photos = append(kept, added...)
	return r, nil
}

func (s *SiteReportService) AddComment(ctx context.Context, caller Caller, id int, text string) (*models.SiteComment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, validation("Comment text is required")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	author, err := s.users.Get(ctx, caller.UserID)
	if err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	c := &models.SiteComment{Text: text, Author: author.Ref()}
	if err := s.store.AddComment(ctx, id, c); err != nil {
		return nil, notFoundOr(err, "Report not found")
	}
	return c, nil
}

// Delete removes the report, then its photo files on a best-effort basis.
func (s *SiteReportService) Delete(ctx context.Context, caller Caller, id int) error {
	r, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !canEdit(caller, r) {
		return forbidden("Not authorized to delete this report")
	}
	keys, err := s.store.Delete(ctx, id)
	if err != nil {
		return notFoundOr(err, "Report not found")
	}
	removeFiles(ctx, s.files, keys)
	return nil
}
