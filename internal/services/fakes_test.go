package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"sadhna-backend/internal/mail"
	"sadhna-backend/internal/models"
	"sadhna-backend/internal/realtime"
	"sadhna-backend/internal/repositories"
)

type fakeUsers struct {
	mu     sync.Mutex
	byID   map[int]*models.User
	nextID int
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	f := &fakeUsers{byID: map[int]*models.User{}}
	for _, u := range users {
		f.add(u)
	}
	return f
}

func (f *fakeUsers) add(u *models.User) *models.User {
	f.nextID++
	if u.ID == 0 {
		u.ID = f.nextID
	} else if u.ID > f.nextID {
		f.nextID = u.ID
	}
	f.byID[u.ID] = u
	return u
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Username == u.Username {
			return repositories.ErrDuplicate
		}
	}
	f.add(u)
	return nil
}

func (f *fakeUsers) Get(_ context.Context, id int) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUsers) List(_ context.Context) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.User{}
	for _, u := range f.byID {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUsers) UpdateRole(_ context.Context, id int, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.Role = role
	return nil
}

func (f *fakeUsers) SetTOTPSecret(_ context.Context, id int, secret string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[id].TOTPSecret = secret
	f.byID[id].TOTPEnabled = false
	return nil
}

func (f *fakeUsers) EnableTOTP(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[id].TOTPEnabled = true
	return nil
}

func (f *fakeUsers) DisableTOTP(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[id].TOTPEnabled = false
	f.byID[id].TOTPSecret = ""
	return nil
}

type fakeAttempts struct {
	failed int
	logged []bool
}

func (f *fakeAttempts) Record(_ context.Context, a *models.TwoFactorAttempt) error {
	f.logged = append(f.logged, a.Success)
	if !a.Success {
		f.failed++
	}
	return nil
}

func (f *fakeAttempts) FailuresSince(context.Context, int, time.Time) (int, error) {
	return f.failed, nil
}

type fakeEmployees struct {
	byID   map[int]*models.Employee
	nextID int
}

func newFakeEmployees(emps ...*models.Employee) *fakeEmployees {
	f := &fakeEmployees{byID: map[int]*models.Employee{}}
	for _, e := range emps {
		_ = f.Create(context.Background(), e)
	}
	return f
}

func (f *fakeEmployees) Create(_ context.Context, e *models.Employee) error {
	if e.UserID != nil {
		for _, other := range f.byID {
			if other.UserID != nil && *other.UserID == *e.UserID {
				return repositories.ErrDuplicate
			}
		}
	}
	f.nextID++
	e.ID = f.nextID
	cp := *e
	f.byID[e.ID] = &cp
	return nil
}

func (f *fakeEmployees) Get(_ context.Context, id int) (*models.Employee, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEmployees) GetByUserID(_ context.Context, userID int) (*models.Employee, error) {
	for _, e := range f.byID {
		if e.UserID != nil && *e.UserID == userID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeEmployees) List(context.Context) ([]*models.Employee, error) {
	out := []*models.Employee{}
	for _, e := range f.byID {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEmployees) Update(_ context.Context, e *models.Employee) error {
	if _, ok := f.byID[e.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *e
	f.byID[e.ID] = &cp
	return nil
}

func (f *fakeEmployees) Delete(_ context.Context, id int) error {
	if _, ok := f.byID[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeAttendance struct {
	rows   []*models.Attendance
	nextID int
}

func (f *fakeAttendance) Create(_ context.Context, a *models.Attendance) error {
	f.nextID++
	a.ID = f.nextID
	a.CreatedAt = time.Now()
	cp := *a
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeAttendance) add(employeeID int, date time.Time, status string) {
	_ = f.Create(context.Background(), &models.Attendance{EmployeeID: employeeID, Date: date, Status: status})
}

func (f *fakeAttendance) List(context.Context) ([]*models.Attendance, error) {
	return f.rows, nil
}

func (f *fakeAttendance) ListByEmployee(_ context.Context, employeeID int) ([]*models.Attendance, error) {
	out := []*models.Attendance{}
	for _, a := range f.rows {
		if a.EmployeeID == employeeID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAttendance) ListBetween(_ context.Context, from, to time.Time) ([]*models.Attendance, error) {
	out := []*models.Attendance{}
	for _, a := range f.rows {
		if !a.Date.Before(from) && !a.Date.After(to) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (f *fakeAttendance) CountBetween(_ context.Context, employeeID int, from, to time.Time) (int, int, error) {
	present, total := 0, 0
	for _, a := range f.rows {
		if a.EmployeeID != employeeID || a.Date.Before(from) || a.Date.After(to) {
			continue
		}
		total++
		if a.Status == models.AttendancePresent {
			present++
		}
	}
	return present, total, nil
}

type fakeLeaves struct {
	byID   map[int]*models.Leave
	nextID int
	// decidedAt stamps status changes; zero means time.Now
	decidedAt time.Time
}

func newFakeLeaves() *fakeLeaves {
	return &fakeLeaves{byID: map[int]*models.Leave{}}
}

func (f *fakeLeaves) Create(_ context.Context, l *models.Leave) error {
	f.nextID++
	l.ID = f.nextID
	l.CreatedAt = time.Now()
	l.UpdatedAt = l.CreatedAt
	cp := *l
	f.byID[l.ID] = &cp
	return nil
}

func (f *fakeLeaves) Get(_ context.Context, id int) (*models.Leave, error) {
	l, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeLeaves) ListByUser(_ context.Context, userID int) ([]*models.Leave, error) {
	out := []*models.Leave{}
	for _, l := range f.byID {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLeaves) ListAll(context.Context) ([]*models.Leave, error) {
	out := []*models.Leave{}
	for _, l := range f.byID {
		out = append(out, l)
	}
	return out, nil
}

func (f *fakeLeaves) UpdateStatus(_ context.Context, id int, from, to string) (time.Time, error) {
	l, ok := f.byID[id]
	if !ok || l.Status != from {
		return time.Time{}, repositories.ErrStale
	}
	l.Status = to
	l.UpdatedAt = f.decidedAt
	if l.UpdatedAt.IsZero() {
		l.UpdatedAt = time.Now()
	}
	return l.UpdatedAt, nil
}

type fakeApplications struct {
	byID   map[int]*models.Application
	users  *fakeUsers
	emps   *fakeEmployees
	nextID int
}

func newFakeApplications(users *fakeUsers, emps *fakeEmployees) *fakeApplications {
	return &fakeApplications{byID: map[int]*models.Application{}, users: users, emps: emps}
}

func (f *fakeApplications) Create(_ context.Context, a *models.Application) error {
	f.nextID++
	a.ID = f.nextID
	a.ApplicationDate = time.Now()
	cp := *a
	f.byID[a.ID] = &cp
	return nil
}

func (f *fakeApplications) Get(_ context.Context, id int) (*models.Application, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeApplications) List(_ context.Context, status string) ([]*models.Application, error) {
	out := []*models.Application{}
	for _, a := range f.byID {
		if status == "" || a.Status == status {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeApplications) UsernameTaken(ctx context.Context, username string) (bool, error) {
	if _, err := f.users.GetByUsername(ctx, username); err == nil {
		return true, nil
	}
	for _, a := range f.byID {
		if a.Username == username && (a.Status == models.ApplicationPending || a.Status == models.ApplicationShortlisted) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeApplications) UpdateStatus(_ context.Context, id int, from, to string, reviewerID int, comments string) error {
	a, ok := f.byID[id]
	if !ok || a.Status != from {
		return repositories.ErrStale
	}
	a.Status = to
	a.ReviewedBy = &reviewerID
	a.ReviewComments = comments
	return nil
}

func (f *fakeApplications) Hire(ctx context.Context, id int, u *models.User, e *models.Employee, reviewerID int, comments string) error {
	a, ok := f.byID[id]
	if !ok {
		return repositories.ErrNotFound
	}
	switch a.Status {
	case models.ApplicationHired:
		return repositories.ErrStale
	case models.ApplicationRejected:
		return repositories.ErrClosed
	}
	if err := f.users.Create(ctx, u); err != nil {
		return err
	}
	e.UserID = &u.ID
	if err := f.emps.Create(ctx, e); err != nil {
		return err
	}
	a.Status = models.ApplicationHired
	a.UserID = &u.ID
	a.ReviewedBy = &reviewerID
	a.ReviewComments = comments
	return nil
}

type fakeReports struct {
	byID        map[int]*models.SiteReport
	nextID      int
	nextPhotoID int
}

func newFakeReports() *fakeReports {
	return &fakeReports{byID: map[int]*models.SiteReport{}}
}

func (f *fakeReports) Create(_ context.Context, r *models.SiteReport) error {
	f.nextID++
	r.ID = f.nextID
	for i := range r.Photos {
		f.nextPhotoID++
		r.Photos[i].ID = f.nextPhotoID
	}
	cp := *r
	cp.Photos = append([]models.SitePhoto(nil), r.Photos...)
	f.byID[r.ID] = &cp
	return nil
}

func (f *fakeReports) Get(_ context.Context, id int) (*models.SiteReport, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *r
	cp.Photos = append([]models.SitePhoto(nil), r.Photos...)
	return &cp, nil
}

func (f *fakeReports) List(context.Context) ([]*models.SiteReport, error) {
	out := []*models.SiteReport{}
	for _, r := range f.byID {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeReports) Update(_ context.Context, r *models.SiteReport, removeIDs []int, add []models.SitePhoto) ([]string, error) {
	stored, ok := f.byID[r.ID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	remove := map[int]bool{}
	for _, id := range removeIDs {
		remove[id] = true
	}
	var removed []string
	kept := []models.SitePhoto{}
	for _, p := range stored.Photos {
		if remove[p.ID] {
			removed = append(removed, p.Key)
			continue
		}
		kept = append(kept, p)
	}
	for i := range add {
		f.nextPhotoID++
		add[i].ID = f.nextPhotoID
	}
	cp := *r
	cp.Photos = append(kept, add...)
	f.byID[r.ID] = &cp
	return removed, nil
}

func (f *fakeReports) AddComment(_ context.Context, reportID int, c *models.SiteComment) error {
	r, ok := f.byID[reportID]
	if !ok {
		return repositories.ErrNotFound
	}
	c.ID = len(r.Comments) + 1
	c.CreatedAt = time.Now()
	r.Comments = append(r.Comments, *c)
	return nil
}

func (f *fakeReports) Delete(_ context.Context, id int) ([]string, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	keys := []string{}
	for _, p := range r.Photos {
		keys = append(keys, p.Key)
	}
	delete(f.byID, id)
	return keys, nil
}

type recordedEvents struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (r *recordedEvents) Publish(_ context.Context, ev realtime.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

type fakeMailer struct {
	sent []mail.Message
	fail bool
}

func (m *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, msg)
	return nil
}

type fakePayCache struct {
	entries     map[[3]int]*models.PayrollSummary
	invalidated []int
}

func newFakePayCache() *fakePayCache {
	return &fakePayCache{entries: map[[3]int]*models.PayrollSummary{}}
}

func (c *fakePayCache) Get(_ context.Context, employeeID, month, year int) (*models.PayrollSummary, bool) {
	s, ok := c.entries[[3]int{employeeID, month, year}]
	return s, ok
}

func (c *fakePayCache) Set(_ context.Context, s *models.PayrollSummary) {
	c.entries[[3]int{s.EmployeeID, s.Month, s.Year}] = s
}

func (c *fakePayCache) Invalidate(_ context.Context, employeeID int) {
	c.invalidated = append(c.invalidated, employeeID)
	for k := range c.entries {
		if k[0] == employeeID {
			delete(c.entries, k)
		}
	}
}

func intPtr(v int) *int { return &v }
