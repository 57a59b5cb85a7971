package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"path"
	"strconv"
	"strings"
	"time"

	"sadhna-backend/internal/auth"
	"sadhna-backend/internal/logger"
	"sadhna-backend/internal/mail"
	"sadhna-backend/internal/metrics"
	"sadhna-backend/internal/models"
	"sadhna-backend/internal/repositories"
	"sadhna-backend/internal/storage"
	"sadhna-backend/internal/timeutil"
)

const (
	minApplicantAge    = 18
	onboardingDeadline = 7 * 24 * time.Hour
)

type ApplicationStore interface {
	Create(ctx context.Context, a *models.Application) error
	Get(ctx context.Context, id int) (*models.Application, error)
	List(ctx context.Context, status string) ([]*models.Application, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	UpdateStatus(ctx context.Context, id int, from, to string, reviewerID int, comments string) error
	Hire(ctx context.Context, applicationID int, u *models.User, e *models.Employee, reviewerID int, comments string) error
}

type ApplicationService struct {
	store   ApplicationStore
	files   storage.Driver
	mailer  mail.Mailer
	company Company
	now     func() time.Time
}

func NewApplicationService(store ApplicationStore, files storage.Driver, mailer mail.Mailer, company Company) *ApplicationService {
	return &ApplicationService{
		store:   store,
		files:   files,
		mailer:  mailer,
		company: company,
		now:     timeutil.Now,
	}
}

// Register handles the full public registration form with its documents.
func (s *ApplicationService) Register(ctx context.Context, form *models.RegistrationForm, uploads []Upload) (*models.Application, error) {
	trim(&form.FullName, &form.Surname, &form.Email, &form.Phone, &form.Position, &form.Username)
	if form.FullName == "" || form.Surname == "" || form.Email == "" || form.Phone == "" ||
		form.Position == "" || form.Username == "" || form.Password == "" {
		return nil, validation("Please provide all required fields")
	}

	a := &models.Application{
		Name:             form.FullName + " " + form.Surname,
		Email:            form.Email,
		Phone:            form.Phone,
		Position:         form.Position,
		Experience:       form.Experience,
		Message:          form.AdditionalInfo,
		Gender:           strings.ToLower(strings.TrimSpace(form.Gender)),
		EmergencyContact: strings.TrimSpace(form.EmergencyContact),
		Username:         form.Username,
		Address:          joinNonEmpty(", ", form.Address, form.City, form.State, form.Pincode),
	}

	switch a.Gender {
	case "", "male", "female", "other":
	default:
		return nil, validation("Invalid gender")
	}

	if strings.TrimSpace(form.DateOfBirth) != "" {
		dob, err := timeutil.ParseDate(strings.TrimSpace(form.DateOfBirth))
		if err != nil {
			return nil, validation("Invalid date of birth")
		}
		if timeutil.AgeOn(dob, s.now()) < minApplicantAge {
			return nil, validation("You must be at least 18 years old to apply")
		}
		a.DateOfBirth = &dob
	}

	if v := strings.TrimSpace(form.ExpectedSalary); v != "" {
		salary, err := strconv.ParseFloat(v, 64)
		if err != nil || salary < 0 {
			return nil, validation("Invalid expected salary")
		}
		a.ExpectedSalary = &salary
	}

	taken, err := s.store.UsernameTaken(ctx, a.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, validation("Username already exists. Please choose another username.")
	}

	hash, err := auth.HashPassword(form.Password)
	if err != nil {
		return nil, err
	}
	a.PasswordHash = hash

	if err := s.create(ctx, a, uploads); err != nil {
		return nil, err
	}
	return a, nil
}

// Apply is the short form: contact details and an optional resume.
func (s *ApplicationService) Apply(ctx context.Context, form *models.QuickApplyForm, uploads []Upload) (*models.Application, error) {
	trim(&form.Name, &form.Email, &form.Phone, &form.Position)
	if form.Name == "" || form.Email == "" || form.Phone == "" || form.Position == "" {
		return nil, validation("Please provide all required fields")
	}
	for _, u := range uploads {
		if u.Field != models.DocResume {
			return nil, validation("Invalid file field. Please check the file upload fields.")
		}
	}

	a := &models.Application{
		Name:       form.Name,
		Email:      form.Email,
		Phone:      form.Phone,
		Position:   form.Position,
		Experience: form.Experience,
		Message:    form.Message,
	}
	if err := s.create(ctx, a, uploads); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *ApplicationService) create(ctx context.Context, a *models.Application, uploads []Upload) error {
	// one file per document field
	seen := make(map[string]bool, len(uploads))
	for _, u := range uploads {
		if !isDocumentType(u.Field) || seen[u.Field] {
			return validation("Invalid file field. Please check the file upload fields.")
		}
		seen[u.Field] = true
	}
	keys, err := saveUploads(ctx, s.files, "applications", uploads, documentExtensions, "pdf, doc, docx, jpg, jpeg, png")
	if err != nil {
		return err
	}
	for i, u := range uploads {
		a.Documents.Set(u.Field, keys[i])
	}

	a.Status = models.ApplicationPending
	if err := s.store.Create(ctx, a); err != nil {
		removeFiles(ctx, s.files, keys)
		return err
	}
	return nil
}

func (s *ApplicationService) List(ctx context.Context, status string) ([]*models.Application, error) {
	return s.store.List(ctx, status)
}

func (s *ApplicationService) Get(ctx context.Context, id int) (*models.Application, error) {
	a, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Application not found")
	}
	return a, nil
}

// UpdateStatus moves an application between Pending, Shortlisted and
// Rejected. Hiring has its own operation.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id int, status string, reviewer Caller, comments string) (*models.Application, error) {
	switch status {
	case models.ApplicationPending, models.ApplicationShortlisted, models.ApplicationRejected:
	case models.ApplicationHired:
		return nil, validation("Use the hire action to hire an applicant")
	default:
		return nil, validation("Invalid status value")
	}

	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status == status {
		return a, nil
	}
	if a.Status == models.ApplicationRejected || a.Status == models.ApplicationHired {
		return nil, conflict("Application has already been " + strings.ToLower(a.Status))
	}

	if err := s.store.UpdateStatus(ctx, id, a.Status, status, reviewer.UserID, comments); err != nil {
		if errors.Is(err, repositories.ErrStale) {
			return nil, conflict("Application was updated by someone else")
		}
		return nil, err
	}
	now := s.now()
	a.Status = status
	a.ReviewedBy = &reviewer.UserID
	a.ReviewDate = &now
	a.ReviewComments = comments
	return a, nil
}

// Hire turns an application into a login plus an employee record. The
// credentials email is sent after commit and never fails the hire.
func (s *ApplicationService) Hire(ctx context.Context, id int, req *models.HireRequest, reviewer Caller) (*models.HireResponse, error) {
	title := strings.TrimSpace(req.Role)
	if req.Salary <= 0 || title == "" {
		return nil, validation("Please provide salary and role")
	}

	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch a.Status {
	case models.ApplicationHired:
		return nil, validation("This applicant has already been hired")
	case models.ApplicationRejected:
		return nil, conflict("A rejected application cannot be hired")
	}

	role, ok := models.NormalizeRole(title)
	if !ok {
		role = models.RoleWorker
	}
	jobTitle := role
	if !ok {
		jobTitle = title
	}

	username := a.Username
	if username == "" {
		username = strings.Join(strings.Fields(strings.ToLower(a.Name)), "_")
	}

	var plain string
	hash := a.PasswordHash
	if hash == "" {
		plain, err = generatePassword(a.Position)
		if err != nil {
			return nil, err
		}
		if hash, err = auth.HashPassword(plain); err != nil {
			return nil, err
		}
	}

	u := &models.User{Username: username, PasswordHash: hash, Role: role}
	e := &models.Employee{Name: a.Name, Role: jobTitle, Salary: req.Salary}
	comments := fmt.Sprintf("Hired as %s with salary Rs.%s", jobTitle, strconv.FormatFloat(req.Salary, 'f', -1, 64))

	if err := s.store.Hire(ctx, a.ID, u, e, reviewer.UserID, comments); err != nil {
		switch {
		case errors.Is(err, repositories.ErrStale):
			return nil, validation("This applicant has already been hired")
		case errors.Is(err, repositories.ErrClosed):
			return nil, conflict("A rejected application cannot be hired")
		case errors.Is(err, repositories.ErrDuplicate):
			return nil, validation("Username already exists. Please choose another username.")
		case errors.Is(err, repositories.ErrNotFound):
			return nil, notFound("Application not found")
		}
		return nil, err
	}

	s.sendOffer(ctx, a, u, plain, reviewer)

	return &models.HireResponse{
		Message: "Employee account created successfully",
		EmployeeInfo: models.EmployeeInfo{
			Username: u.Username,
			Password: plain,
			Role:     u.Role,
		},
	}, nil
}

func (s *ApplicationService) sendOffer(ctx context.Context, a *models.Application, u *models.User, plain string, reviewer Caller) {
	log := logger.FromContext(ctx).WithField("applicationId", a.ID)
	if s.mailer == nil || a.Email == "" {
		return
	}
	signedBy := reviewer.Username
	if signedBy == "" {
		signedBy = "HR Manager"
	}
	msg, err := mail.OfferLetter{
		Company:      s.company.Name,
		SupportEmail: s.company.SupportEmail,
		Phone:        s.company.Phone,
		Position:     a.Position,
		Username:     u.Username,
		Password:     plain,
		Deadline:     s.now().Add(onboardingDeadline),
		SignedBy:     signedBy,
	}.Render(a.Email)
	if err != nil {
		log.WithError(err).Error("could not render offer email")
		return
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		metrics.MailSent.WithLabelValues("error").Inc()
		log.WithError(err).Warn("offer email not sent")
		return
	}
	metrics.MailSent.WithLabelValues("ok").Inc()
}

// Document opens a stored document. inline is true for photos.
func (s *ApplicationService) Document(ctx context.Context, id int, docType string) (body io.ReadCloser, contentType, filename string, inline bool, err error) {
	if !isDocumentType(docType) {
		return nil, "", "", false, validation("Invalid document type")
	}
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", "", false, err
	}
	key := a.Documents.Key(docType)
	if key == "" {
		return nil, "", "", false, notFound(documentLabel(docType) + " not found")
	}
	body, contentType, err = s.files.Open(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, "", "", false, notFound(documentLabel(docType) + " not found")
		}
		return nil, "", "", false, err
	}
	name := strings.Join(strings.Fields(a.Name), "_") + "_" + docType + strings.ToLower(path.Ext(key))
	return body, contentType, name, docType == models.DocPhoto, nil
}

func isDocumentType(t string) bool {
	for _, d := range models.DocumentTypes {
		if d == t {
			return true
		}
	}
	return false
}

func documentLabel(t string) string {
	switch t {
	case models.DocResume:
		return "Resume"
	case models.DocIDProof:
		return "ID proof"
	case models.DocAddressProof:
		return "Address proof"
	case models.DocPoliceVerification:
		return "Police verification"
	case models.DocPhoto:
		return "Photo"
	}
	return "Document"
}

// generatePassword returns the position, lowercased without spaces, plus four random digits.
func generatePassword(position string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	base := strings.ToLower(strings.Join(strings.Fields(position), ""))
	return fmt.Sprintf("%s%d", base, n.Int64()+1000), nil
}

func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
